package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"go-flexi/daw"
	"go-flexi/flexi"
)

// ControllerConfig selects the controller's MIDI ports by name
type ControllerConfig struct {
	InPort      string `json:"inPort"`
	OutPort     string `json:"outPort,omitempty"` // empty: same as inPort
	AutoConnect bool   `json:"autoConnect"` // keep rescanning for hot-plugged controllers
}

// TableConfig describes the binding table
type TableConfig struct {
	File  string `json:"file,omitempty"` // import/export file (.yaml, .xlsx, .xml)
	Slots int    `json:"slots,omitempty"`
	Watch bool   `json:"watch,omitempty"` // reimport when the file changes
}

// FeedbackConfig tunes value feedback
type FeedbackConfig struct {
	FPS          int `json:"fps,omitempty"`
	SettleMillis int `json:"settleMillis,omitempty"`
}

// HostConfig sizes the built-in application model
type HostConfig struct {
	Tracks  int `json:"tracks,omitempty"`
	Effects int `json:"effects,omitempty"`
	Sends   int `json:"sends,omitempty"`
}

// Config is the main configuration structure
type Config struct {
	Controller ControllerConfig `json:"controller"`
	Table      TableConfig      `json:"table,omitempty"`
	Feedback   FeedbackConfig   `json:"feedback,omitempty"`
	Host       HostConfig       `json:"host,omitempty"`
	Palette    string           `json:"palette,omitempty"` // GIMP .gpl file for the TUI
	Learn      bool             `json:"learn,omitempty"`   // start in learn mode
	Debug      bool             `json:"debug,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	hc := daw.DefaultHostConfig()
	return &Config{
		Controller: ControllerConfig{
			InPort:      "nanoKONTROL2",
			AutoConnect: true,
		},
		Table: TableConfig{
			Slots: flexi.DefaultSlotCount,
		},
		Feedback: FeedbackConfig{
			FPS:          flexi.DefaultFPS,
			SettleMillis: int(flexi.DefaultSettleDelay / time.Millisecond),
		},
		Host: HostConfig{
			Tracks:  hc.Tracks,
			Effects: hc.Effects,
			Sends:   hc.Sends,
		},
	}
}

// applyDefaults fills zero values left out of a config file
func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.Table.Slots <= 0 {
		c.Table.Slots = def.Table.Slots
	}
	if c.Feedback.FPS <= 0 {
		c.Feedback.FPS = def.Feedback.FPS
	}
	if c.Feedback.SettleMillis <= 0 {
		c.Feedback.SettleMillis = def.Feedback.SettleMillis
	}
	if c.Host.Tracks <= 0 {
		c.Host.Tracks = def.Host.Tracks
	}
	if c.Host.Sends < 0 {
		c.Host.Sends = 0
	}
	if c.Host.Sends > flexi.SendCount {
		c.Host.Sends = flexi.SendCount
	}
}

// SettleDelay is how long feedback is held back after a command
func (c *Config) SettleDelay() time.Duration {
	return time.Duration(c.Feedback.SettleMillis) * time.Millisecond
}

// HostConfig converts the model section for daw.NewHost
func (c *Config) HostConfig() daw.HostConfig {
	return daw.HostConfig{
		Tracks:   c.Host.Tracks,
		Effects:  c.Host.Effects,
		Sends:    c.Host.Sends,
		PageSize: flexi.NumberedCount,
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-flexi"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from the default path, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads the config at path, or returns defaults if it does not exist
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return cfg, nil
}

// Save writes the config to the default path
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

// SaveFile writes the config to path
func (c *Config) SaveFile(path string) error {
	// Create directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
