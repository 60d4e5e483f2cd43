// Package config loads and saves the armctl settings file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

const DefaultFile = "armctl.json"

// Defaults match the bench setup this tool grew up on.
const (
	DefaultEndpoint         = "ws://192.168.0.101:8765"
	DefaultTickMs           = 50
	DefaultGamepadPollMs    = 100
	DefaultReconnectDelayMs = 5000
)

// Config holds the operator console settings.
type Config struct {
	Endpoint         string `json:"endpoint"`
	TickMs           int    `json:"tick_ms"`
	GamepadPollMs    int    `json:"gamepad_poll_ms"`
	ReconnectDelayMs int    `json:"reconnect_delay_ms"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Endpoint:         DefaultEndpoint,
		TickMs:           DefaultTickMs,
		GamepadPollMs:    DefaultGamepadPollMs,
		ReconnectDelayMs: DefaultReconnectDelayMs,
	}
}

// Load loads settings from the default config file.
func Load() (Config, error) {
	return LoadFrom(DefaultFile)
}

// LoadFrom loads settings from a specific file. Missing fields fall back to
// the defaults.
func LoadFrom(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config JSON: %w", err)
	}
	return cfg.withDefaults(), nil
}

// Save saves settings to the default config file.
func (c Config) Save() error {
	return c.SaveTo(DefaultFile)
}

// SaveTo saves settings to a specific file.
func (c Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Exists returns true if the default config file exists.
func Exists() bool {
	_, err := os.Stat(DefaultFile)
	return err == nil
}

// Tick returns the driver tick period.
func (c Config) Tick() time.Duration {
	return time.Duration(c.TickMs) * time.Millisecond
}

// GamepadPoll returns the gamepad poll period.
func (c Config) GamepadPoll() time.Duration {
	return time.Duration(c.GamepadPollMs) * time.Millisecond
}

// ReconnectDelay returns the spacing between link connection attempts.
func (c Config) ReconnectDelay() time.Duration {
	return time.Duration(c.ReconnectDelayMs) * time.Millisecond
}

func (c Config) withDefaults() Config {
	d := Default()
	if c.Endpoint == "" {
		c.Endpoint = d.Endpoint
	}
	if c.TickMs <= 0 {
		c.TickMs = d.TickMs
	}
	if c.GamepadPollMs <= 0 {
		c.GamepadPollMs = d.GamepadPollMs
	}
	if c.ReconnectDelayMs <= 0 {
		c.ReconnectDelayMs = d.ReconnectDelayMs
	}
	return c
}
