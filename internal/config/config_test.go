package config

import (
	"os"
	"testing"
	"time"
)

func TestGetenv(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		value     string
		def       string
		shouldSet bool
		want      string
	}{
		{
			name:      "variable set",
			key:       "TEST_GETENV_SET",
			value:     "custom",
			def:       "fallback",
			shouldSet: true,
			want:      "custom",
		},
		{
			name: "variable not set",
			key:  "TEST_GETENV_MISSING",
			def:  "fallback",
			want: "fallback",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.shouldSet {
				t.Setenv(tt.key, tt.value)
			}
			if got := getenv(tt.key, tt.def); got != tt.want {
				t.Errorf("getenv(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name  string
		value string
		def   time.Duration
		want  time.Duration
	}{
		{"valid duration", "90s", time.Minute, 90 * time.Second},
		{"invalid duration falls back", "not-a-duration", time.Minute, time.Minute},
		{"empty falls back", "", time.Minute, time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv("TEST_MUST_DURATION", tt.value)
			} else {
				os.Unsetenv("TEST_MUST_DURATION")
			}
			if got := mustDuration("TEST_MUST_DURATION", tt.def); got != tt.want {
				t.Errorf("mustDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMustBool(t *testing.T) {
	t.Setenv("TEST_MUST_BOOL", "true")
	if !mustBool("TEST_MUST_BOOL", false) {
		t.Error("mustBool() = false, want true")
	}

	t.Setenv("TEST_MUST_BOOL", "garbage")
	if mustBool("TEST_MUST_BOOL", false) {
		t.Error("mustBool() with invalid value should fall back to default")
	}
}

func TestParseAllowedIPs(t *testing.T) {
	tests := []struct {
		name    string
		allowed string
		want    int
	}{
		{"empty", "", 0},
		{"single cidr", "127.0.0.0/8", 1},
		{"multiple with spaces", "127.0.0.0/8, ::1/128", 2},
		{"quoted entries", `"10.0.0.1", '10.0.0.2'`, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseAllowedIPs(tt.allowed)
			if len(got) != tt.want {
				t.Errorf("parseAllowedIPs(%q) = %v entries, want %v", tt.allowed, len(got), tt.want)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.ListenPort != ":8090" {
		t.Errorf("ListenPort = %q, want :8090", cfg.ListenPort)
	}
	if cfg.Retention != 30*24*time.Hour {
		t.Errorf("Retention = %v, want 720h", cfg.Retention)
	}
	if cfg.TimerTick != time.Second {
		t.Errorf("TimerTick = %v, want 1s", cfg.TimerTick)
	}
	if cfg.MinSession != time.Second {
		t.Errorf("MinSession = %v, want 1s", cfg.MinSession)
	}
	if len(cfg.AllowedCIDRS) != 2 {
		t.Errorf("AllowedCIDRS = %v, want loopback defaults", cfg.AllowedCIDRS)
	}
}
