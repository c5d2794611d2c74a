package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// searchPaths are tried in order when CONFIG_PATH is unset.
var searchPaths = []string{"./config.yaml", "/etc/solarsync/config.yaml"}

// Load reads configuration with priority ENV > YAML > env-default tags and
// validates it. The YAML file is CONFIG_PATH when set, which must then
// exist, otherwise the first of searchPaths that exists. With no file the
// configuration comes from ENV and defaults alone, which is how the
// containers run.
func Load() (*Config, error) {
	var cfg Config

	path, err := configPath()
	if err != nil {
		return nil, err
	}

	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

// configPath returns the YAML file to read, or "" for ENV only.
func configPath() (string, error) {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("config: file %s: %w", path, err)
		}
		return path, nil
	}
	for _, path := range searchPaths {
		_, err := os.Stat(path)
		if err == nil {
			return path, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("config: file %s: %w", path, err)
		}
	}
	return "", nil
}
