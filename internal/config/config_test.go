package config

import (
	"log/slog"
	"strings"
	"testing"
)

func TestArgs_Mode(t *testing.T) {
	tests := []struct {
		name string
		args Args
		want string
	}{
		{
			name: "whoami",
			args: Args{Whoami: true},
			want: "whoami",
		},
		{
			name: "resolve",
			args: Args{Resolve: "10.0.0.5"},
			want: "resolve",
		},
		{
			name: "show",
			args: Args{Show: "eth0"},
			want: "show",
		},
		{
			name: "nothing selected",
			args: Args{},
			want: "none",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.args.Mode(); got != tt.want {
				t.Errorf("Mode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_parseLogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo}, // default
		{"", slog.LevelInfo},        // default
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			if got := parseLogLevel(tt.level); got != tt.want {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		args    Args
		wantErr string
	}{
		{
			name:    "no operation",
			args:    Args{},
			wantErr: "one of --whoami, --resolve or --show is required",
		},
		{
			name:    "two operations",
			args:    Args{Whoami: true, Resolve: "10.0.0.5"},
			wantErr: "mutually exclusive",
		},
		{
			name:    "resolve with hostname",
			args:    Args{Resolve: "example.com"},
			wantErr: "--resolve requires an IPv4 address",
		},
		{
			name:    "resolve with IPv6 address",
			args:    Args{Resolve: "fe80::1"},
			wantErr: "--resolve requires an IPv4 address",
		},
		{
			name:    "negative timeout",
			args:    Args{Whoami: true, Timeout: -1},
			wantErr: "timeout must not be negative",
		},
		{
			name: "valid whoami",
			args: Args{Whoami: true},
		},
		{
			name: "valid resolve",
			args: Args{Resolve: "10.0.0.5"},
		},
		{
			name: "valid show",
			args: Args{Show: "eth0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.args)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
