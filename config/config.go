// Copyright © 2025 Tela contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/config.go
// Summary: Runtime configuration store for tela (tela.json).

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const configName = "tela.json"

// EnvConfigDir overrides the directory tela.json is loaded from.
const EnvConfigDir = "TELA_CONFIG_DIR"

// Config holds the runtime settings applications rarely need to touch.
type Config struct {
	// DrainTimeoutMillis is the quit grace period for in-flight commands.
	DrainTimeoutMillis int `json:"drain_timeout_ms"`
	// SlotCapacity bounds the backend color pool.
	SlotCapacity int `json:"slot_capacity"`
	// RecordPath, when set, enables the session recorder database.
	RecordPath string `json:"record_path"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		DrainTimeoutMillis: 2000,
		SlotCapacity:       256,
	}
}

// Load reads tela.json from the config directory, filling any missing fields
// with defaults. A missing file is not an error.
func Load() (Config, error) {
	cfg := Default()
	path, err := configPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.DrainTimeoutMillis <= 0 {
		cfg.DrainTimeoutMillis = Default().DrainTimeoutMillis
	}
	if cfg.SlotCapacity < 0 {
		cfg.SlotCapacity = 0
	}
	return cfg, nil
}

// Save writes the configuration, creating the directory as needed.
func Save(cfg Config) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: create dir: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func configPath() (string, error) {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return filepath.Join(dir, configName), nil
	}
	root, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "tela", configName), nil
}
