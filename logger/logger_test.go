package logger

import (
	"errors"
	"testing"
)

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Level != "info" {
		t.Errorf("expected 'info', got %q", cfg.Level)
	}
	if cfg.Format != "console" {
		t.Errorf("expected 'console', got %q", cfg.Format)
	}
	if cfg.Output != "stderr" {
		t.Errorf("expected 'stderr', got %q", cfg.Output)
	}
	if cfg.NoTimestamp {
		t.Error("expected timestamps on by default")
	}
}

func TestConfigApplyDefaults_KeepsNoTimestamp(t *testing.T) {
	cfg := Config{NoTimestamp: true}
	cfg.ApplyDefaults()
	if !cfg.NoTimestamp {
		t.Error("expected NoTimestamp to survive ApplyDefaults")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid json", Config{Level: "debug", Format: "json"}, false},
		{"valid console", Config{Level: "info", Format: "console"}, false},
		{"bad level", Config{Level: "loud", Format: "json"}, true},
		{"bad format", Config{Level: "info", Format: "xml"}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestFields(t *testing.T) {
	m := Fields("op", "train", "count", 3)
	if m["op"] != "train" {
		t.Errorf("expected 'train', got %v", m["op"])
	}
	if m["count"] != 3 {
		t.Errorf("expected 3, got %v", m["count"])
	}

	// Odd trailing value is dropped.
	m = Fields("op", "train", "dangling")
	if len(m) != 1 {
		t.Errorf("expected 1 entry, got %d", len(m))
	}
}

func TestErrorFields(t *testing.T) {
	m := ErrorFields("register", errors.New("boom"))
	if m[FieldOperation] != "register" {
		t.Errorf("expected 'register', got %v", m[FieldOperation])
	}
	if m[FieldError] != "boom" {
		t.Errorf("expected 'boom', got %v", m[FieldError])
	}
}

func TestWithComponent(t *testing.T) {
	l := NewDefault("root").WithComponent("dsl")
	if l.component != "dsl" {
		t.Errorf("expected 'dsl', got %q", l.component)
	}
}

func TestGlobal(t *testing.T) {
	SetGlobal(nil)
	if Global() == nil {
		t.Fatal("expected lazily created global logger")
	}
	custom := NewDefault("custom")
	SetGlobal(custom)
	if Global() != custom {
		t.Error("expected custom global logger")
	}
}
