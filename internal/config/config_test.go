package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "client.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOverDefaults(t *testing.T) {
	path := writeFile(t, `
host: dungeon.example.org
port: 4000
transport: tcp
tick_interval: 20ms
log:
  level: debug
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Host != "dungeon.example.org" || cfg.Port != 4000 || cfg.Transport != "tcp" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.TickInterval != 20*time.Millisecond {
		t.Errorf("tick = %s", cfg.TickInterval)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "text" {
		t.Errorf("log = %+v", cfg.Log)
	}
	if cfg.Nick != Default().Nick {
		t.Error("unset fields must keep defaults")
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(t.TempDir(), "nope.yaml")},
		{"unknown field", writeFile(t, "colour: red\n")},
		{"bad type", writeFile(t, "port: many\n")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(tt.path); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg != Default() {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("KC_HOST", "10.0.0.5")
	t.Setenv("KC_PORT", "4242")
	t.Setenv("KC_NICK", "Overlord")
	t.Setenv("LOG_FORMAT", "json")

	cfg := Default()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatal(err)
	}
	if cfg.Host != "10.0.0.5" || cfg.Port != 4242 || cfg.Nick != "Overlord" || cfg.Log.Format != "json" {
		t.Errorf("cfg = %+v", cfg)
	}

	t.Setenv("KC_PORT", "abc")
	if err := cfg.ApplyEnv(); err == nil {
		t.Error("expected error for non-numeric port")
	}
}

func TestValidate(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("defaults must be valid: %v", err)
	}

	cfg := Default()
	cfg.Port = 0
	cfg.Nick = " "
	cfg.Transport = "udp"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"port", "nick", "transport"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}
