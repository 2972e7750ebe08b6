// Package config loads the persisted player settings: colours, volume and sound toggles.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/gigurra/easywav/cmd/play/device"
)

// Palette slots used by the screens.
const (
	SlotDim    = 2
	SlotText   = 4
	SlotAccent = 5
	SlotError  = 6
)

type Config struct {
	BgColor       string   `json:"bg_color"`
	Palette       []string `json:"palette"`
	Volume        int      `json:"volume"`
	UISound       bool     `json:"ui_sound"`
	DesktopNotify bool     `json:"desktop_notify"`
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		BgColor: "#000000",
		Palette: []string{
			"#000000",
			"#1a1a2e",
			"#444466",
			"#7777aa",
			"#e0e0e0",
			"#ffb000",
			"#ff5555",
			"#55ff99",
		},
		Volume:  5,
		UISound: true,
	}
}

// Load reads the config at path. A missing file yields the defaults;
// missing or out-of-range fields are filled from the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	// unmarshal on top of the defaults so absent keys keep their default
	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}

	defaults := DefaultConfig()
	if config.BgColor == "" {
		config.BgColor = defaults.BgColor
	}
	for len(config.Palette) < len(defaults.Palette) {
		config.Palette = append(config.Palette, defaults.Palette[len(config.Palette)])
	}
	config.Volume = min(max(config.Volume, 0), 10)

	return config, nil
}

// Save writes the config to path, creating the directory if needed.
func Save(path string, config *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func (c *Config) Background() device.Color {
	return device.Color(c.BgColor)
}

// Color returns palette slot i, falling back to the default palette.
func (c *Config) Color(i int) device.Color {
	if i >= 0 && i < len(c.Palette) && c.Palette[i] != "" {
		return device.Color(c.Palette[i])
	}
	defaults := DefaultConfig().Palette
	return device.Color(defaults[min(max(i, 0), len(defaults)-1)])
}
