package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv(EnvConfigDir, t.TempDir())
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected defaults, got %#v", cfg)
	}
}

func TestLoadRoundTrip(t *testing.T) {
	t.Setenv(EnvConfigDir, t.TempDir())
	want := Config{DrainTimeoutMillis: 500, SlotCapacity: 16, RecordPath: "/tmp/tela.db"}
	if err := Save(want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch: got %#v want %#v", got, want)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvConfigDir, dir)
	if err := os.WriteFile(filepath.Join(dir, configName), []byte(`{"slot_capacity": 4}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SlotCapacity != 4 {
		t.Fatalf("explicit value lost: %#v", cfg)
	}
	if cfg.DrainTimeoutMillis != Default().DrainTimeoutMillis {
		t.Fatalf("missing field not defaulted: %#v", cfg)
	}
}

func TestLoadRejectsBadJSON(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvConfigDir, dir)
	if err := os.WriteFile(filepath.Join(dir, configName), []byte("{nope"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load()
	if err == nil {
		t.Fatal("expected a parse error")
	}
	if cfg != Default() {
		t.Fatalf("bad file should fall back to defaults, got %#v", cfg)
	}
}
