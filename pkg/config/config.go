// Package config provides configuration management for the rsecc CLI tool
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mmastrac/reedsolomon-ecc/internal/validation"
	"gopkg.in/yaml.v3"
)

// DefaultProfile is the profile used when none is selected
const DefaultProfile = "nand512"

// Config represents the main configuration structure
type Config struct {
	Version  string             `json:"version" yaml:"version"`
	Defaults DefaultSettings    `json:"defaults" yaml:"defaults"`
	Profiles map[string]Profile `json:"profiles" yaml:"profiles"`
	UI       UIConfig           `json:"ui" yaml:"ui"`
}

// DefaultSettings contains default values for common operations
type DefaultSettings struct {
	Profile string `json:"profile" yaml:"profile"` // Default: nand512
	Workers int    `json:"workers" yaml:"workers"` // 0 means one per CPU
}

// Profile is a named encoder configuration
type Profile struct {
	Description       string `json:"description,omitempty" yaml:"description,omitempty"`
	MessageSymbols    int    `json:"message_symbols" yaml:"message_symbols"`       // k
	CorrectableErrors int    `json:"correctable_errors" yaml:"correctable_errors"` // s
	SymbolWidth       int    `json:"symbol_width" yaml:"symbol_width"`             // r
}

// Validate checks that the profile describes a buildable encoder
func (p Profile) Validate() error {
	return validation.ValidateEncoderParams(p.MessageSymbols, p.CorrectableErrors, p.SymbolWidth)
}

// UIConfig contains user interface settings
type UIConfig struct {
	UseColor    bool `json:"use_color" yaml:"use_color"`       // Enable colored output
	ProgressBar bool `json:"progress_bar" yaml:"progress_bar"` // Show progress indicators
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0.0",
		Defaults: DefaultSettings{
			Profile: DefaultProfile,
			Workers: 0,
		},
		Profiles: map[string]Profile{
			"nand512": {
				Description:       "512-byte NAND sector, 4 symbol errors, 10-bit symbols",
				MessageSymbols:    512,
				CorrectableErrors: 4,
				SymbolWidth:       10,
			},
			"nand512-8bit": {
				Description:       "512-byte NAND sector, 8 symbol errors, 13-bit symbols",
				MessageSymbols:    512,
				CorrectableErrors: 8,
				SymbolWidth:       13,
			},
		},
		UI: UIConfig{
			UseColor:    true,
			ProgressBar: true,
		},
	}
}

// Manager manages configuration loading and saving
type Manager struct {
	config     *Config
	configPath string
}

// NewManager creates a manager for the default config path. A missing
// config file is not an error; the defaults are used until Save is called.
func NewManager() (*Manager, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}
	return NewManagerAt(configPath)
}

// NewManagerAt creates a manager for an explicit config path
func NewManagerAt(configPath string) (*Manager, error) {
	m := &Manager{configPath: configPath}

	if err := m.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		m.config = DefaultConfig()
	}

	return m, nil
}

// Path returns the config file location
func (m *Manager) Path() string {
	return m.configPath
}

// Load reads the configuration from disk. Files ending in .yaml or .yml are
// parsed as YAML, anything else as JSON.
func (m *Manager) Load() error {
	data, err := os.ReadFile(m.configPath)
	if err != nil {
		return err
	}

	config := DefaultConfig()
	if isYAML(m.configPath) {
		err = yaml.Unmarshal(data, config)
	} else {
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	for name, profile := range config.Profiles {
		if err := profile.Validate(); err != nil {
			return fmt.Errorf("profile '%s': %w", name, err)
		}
	}

	m.config = config
	return nil
}

// Save writes the configuration to disk
func (m *Manager) Save() error {
	configDir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var (
		data []byte
		err  error
	)
	if isYAML(m.configPath) {
		data, err = yaml.Marshal(m.config)
	} else {
		data, err = json.MarshalIndent(m.config, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(m.configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Config returns the current configuration
func (m *Manager) Config() *Config {
	return m.config
}

// Profile retrieves a profile by name. An empty name selects the default profile.
func (m *Manager) Profile(name string) (Profile, error) {
	if name == "" {
		name = m.config.Defaults.Profile
	}

	profile, exists := m.config.Profiles[name]
	if !exists {
		return Profile{}, fmt.Errorf("profile '%s' not found", name)
	}
	return profile, nil
}

// SetProfile adds or replaces a profile
func (m *Manager) SetProfile(name string, profile Profile) error {
	if err := validation.ValidateProfileName(name); err != nil {
		return err
	}
	if err := profile.Validate(); err != nil {
		return fmt.Errorf("profile '%s': %w", name, err)
	}

	if m.config.Profiles == nil {
		m.config.Profiles = make(map[string]Profile)
	}
	m.config.Profiles[name] = profile
	return nil
}

// IsBuiltinProfile reports whether name is one of the profiles every
// configuration starts with
func IsBuiltinProfile(name string) bool {
	_, ok := DefaultConfig().Profiles[name]
	return ok
}

// DeleteProfile removes a user profile. Built-in profiles are merged back in
// on every Load, so they cannot be deleted, only overridden.
func (m *Manager) DeleteProfile(name string) error {
	if _, exists := m.config.Profiles[name]; !exists {
		return fmt.Errorf("profile '%s' not found", name)
	}
	if IsBuiltinProfile(name) {
		return fmt.Errorf("cannot delete built-in profile '%s'", name)
	}
	if name == m.config.Defaults.Profile {
		return fmt.Errorf("cannot delete the default profile '%s'", name)
	}

	delete(m.config.Profiles, name)
	return nil
}

// ListProfiles returns the profile names in sorted order
func (m *Manager) ListProfiles() []string {
	names := make([]string, 0, len(m.config.Profiles))
	for name := range m.config.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// getConfigPath returns the configuration file path
func getConfigPath() (string, error) {
	if customPath := os.Getenv("RSECC_CONFIG"); customPath != "" {
		return customPath, nil
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "rsecc", "config.json"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", "rsecc", "config.json"), nil
}
