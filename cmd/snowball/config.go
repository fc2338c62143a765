package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// GlobalConfig represents configuration stored in
// ~/.config/snowball/config.yml.
type GlobalConfig struct {
	Mailto    string `yaml:"mailto,omitempty"`     // CrossRef polite-pool contact
	CachePath string `yaml:"cache_path,omitempty"` // CrossRef response cache (SQLite)
}

const (
	// globalConfigDir is the directory name under XDG_CONFIG_HOME.
	globalConfigDir = "snowball"
	// globalConfigFile is the config file name.
	globalConfigFile = "config.yml"
)

// globalConfigPath returns the path to the global config file. Respects
// XDG_CONFIG_HOME, defaults to ~/.config/snowball/config.yml.
func globalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, globalConfigDir, globalConfigFile)
}

// loadGlobalConfig loads the global configuration file. A missing file is
// an empty config, not an error. The SNOWBALL_MAILTO environment variable
// overrides the file.
func loadGlobalConfig() (*GlobalConfig, error) {
	cfg := &GlobalConfig{}

	path := globalConfigPath()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("reading global config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing global config: %w", err)
			}
		}
	}

	if mailto := os.Getenv("SNOWBALL_MAILTO"); mailto != "" {
		cfg.Mailto = mailto
	}
	return cfg, nil
}
