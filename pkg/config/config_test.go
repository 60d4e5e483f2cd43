package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Endpoint != "ws://192.168.0.101:8765" {
		t.Errorf("default endpoint = %q", cfg.Endpoint)
	}
	if cfg.Tick() != 50*time.Millisecond {
		t.Errorf("default tick = %v, want 50ms", cfg.Tick())
	}
	if cfg.GamepadPoll() != 100*time.Millisecond {
		t.Errorf("default gamepad poll = %v, want 100ms", cfg.GamepadPoll())
	}
	if cfg.ReconnectDelay() != 5*time.Second {
		t.Errorf("default reconnect delay = %v, want 5s", cfg.ReconnectDelay())
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "armctl.json")

	cfg := Config{
		Endpoint:         "ws://10.0.0.7:9000",
		TickMs:           25,
		GamepadPollMs:    200,
		ReconnectDelayMs: 1000,
	}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	back, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if back != cfg {
		t.Errorf("round trip gave %+v, want %+v", back, cfg)
	}
}

func TestLoadFrom_PartialFileGetsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "armctl.json")
	if err := os.WriteFile(path, []byte(`{"endpoint":"ws://localhost:8765"}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Endpoint != "ws://localhost:8765" {
		t.Errorf("endpoint = %q", cfg.Endpoint)
	}
	if cfg.TickMs != DefaultTickMs || cfg.ReconnectDelayMs != DefaultReconnectDelayMs {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadFrom_Errors(t *testing.T) {
	if _, err := LoadFrom(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("missing file accepted")
	}

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("malformed file accepted")
	}
}
