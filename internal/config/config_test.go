package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("Could not get home dir: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "tilde expands to home",
			input:    "~/logs/reelplayer.log",
			expected: filepath.Join(home, "logs", "reelplayer.log"),
		},
		{
			name:     "absolute path unchanged",
			input:    "/var/log/reelplayer.log",
			expected: "/var/log/reelplayer.log",
		},
		{
			name:     "empty string unchanged",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := expandPath(tt.input); got != tt.expected {
				t.Errorf("expandPath(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLoadTimeout(t *testing.T) {
	tests := []struct {
		name string
		ms   int
		want time.Duration
	}{
		{"unset uses default", 0, DefaultLoadTimeout},
		{"negative uses default", -5, DefaultLoadTimeout},
		{"below floor clamps", 10, minLoadTimeout},
		{"normal value", 5000, 5 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{LoadTimeoutMS: tt.ms}
			if got := c.LoadTimeout(); got != tt.want {
				t.Errorf("LoadTimeout() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAutoPlayEnabled(t *testing.T) {
	c := &Config{}
	if !c.AutoPlayEnabled() {
		t.Error("AutoPlayEnabled() = false when unset, want true")
	}

	off := false
	c.AutoPlay = &off
	if c.AutoPlayEnabled() {
		t.Error("AutoPlayEnabled() = true when disabled")
	}
}

func TestGetHistoryConfig_Defaults(t *testing.T) {
	c := &Config{}
	h := c.GetHistoryConfig()
	if h.MaxRecent != 20 {
		t.Errorf("MaxRecent = %d, want 20", h.MaxRecent)
	}
	if h.MaxAttempts != 500 {
		t.Errorf("MaxAttempts = %d, want 500", h.MaxAttempts)
	}
	if h.Disabled {
		t.Error("Disabled = true by default")
	}
}
