package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the dotfile looked up in the working and home directories.
const DefaultConfigFile = "." + AppName + ".yaml"

// FindConfigFile searches for the configuration file in order:
//  1. configPath, when given (returned only if it exists)
//  2. ./.pydocs-parser.yaml
//  3. ~/.pydocs-parser.yaml
//  4. $XDG_CONFIG_HOME/pydocs-parser/config.yaml
//
// It returns "" when nothing is found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	candidates := make([]string, 0, 3)
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), "config.yaml"))

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

// LoadFile reads a YAML config file and merges it over the defaults.
// A missing file yields ErrConfigNotFound.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided config path
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML and fills unset fields from NewConfig.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := mergo.Merge(&cfg, NewConfig()); err != nil {
		return nil, fmt.Errorf("merging config defaults: %w", err)
	}

	var err error
	if cfg.BaseDir, err = expandHome(cfg.BaseDir); err != nil {
		return nil, err
	}
	if cfg.CacheDir, err = expandHome(cfg.CacheDir); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Load resolves the config file (see FindConfigFile) and loads it. With no
// file found and no explicit path it returns the defaults.
func Load(configPath string) (*Config, error) {
	path := FindConfigFile(configPath)
	if path == "" {
		if configPath != "" {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return NewConfig(), nil
	}
	return LoadFile(path)
}

func expandHome(dir string) (string, error) {
	if !strings.HasPrefix(dir, "~/") {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, dir[2:]), nil
}
