package config

import (
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"10s", 10 * time.Second, false},
		{"1m", 1 * time.Minute, false},
		{"1.5h", 90 * time.Minute, false},
		{"1d", 24 * time.Hour, false},
		{"1w", 168 * time.Hour, false},
		{"2d2h", 50 * time.Hour, false},
		{"100ms", 100 * time.Millisecond, false},
		{"invalid", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseDuration(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDuration(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.expected {
			t.Errorf("ParseDuration(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestDurationYAMLRoundTrip(t *testing.T) {
	type wrapper struct {
		Timeout Duration `yaml:"timeout"`
	}

	var w wrapper
	if err := yaml.Unmarshal([]byte("timeout: 2d"), &w); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if time.Duration(w.Timeout) != 48*time.Hour {
		t.Errorf("expected 48h, got %v", time.Duration(w.Timeout))
	}

	out, err := yaml.Marshal(w)
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	var back wrapper
	if err := yaml.Unmarshal(out, &back); err != nil {
		t.Fatalf("re-unmarshal error: %v", err)
	}
	if back.Timeout != w.Timeout {
		t.Errorf("round trip mismatch: %v != %v", back.Timeout, w.Timeout)
	}
}
