package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

type ValidationConfig struct {
	SchemaDir        string `yaml:"schema_dir,omitempty"`
	SkipSchema       bool   `yaml:"skip_schema,omitempty"`
	RepairWhitespace *bool  `yaml:"repair_whitespace,omitempty"`
}

type ProjectConfig struct {
	Validation ValidationConfig  `yaml:"validation"`
	Params     map[string]string `yaml:"params"`
}

const ConfigFileName = "deckpack.yaml"

func Load(sourcePath string) (*ProjectConfig, error) {
	configPath := filepath.Join(sourcePath, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// RepairEnabled reports whether whitespace repair is on. It defaults to
// true when the config file does not set repair_whitespace.
func (c *ProjectConfig) RepairEnabled() bool {
	if c.Validation.RepairWhitespace == nil {
		return true
	}
	return *c.Validation.RepairWhitespace
}
