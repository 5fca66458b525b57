package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/samcharles93/carshape/pkg/problem"
)

// EnvProblemsDir overrides problems_dir when no flag is given.
const EnvProblemsDir = "CARSHAPE_PROBLEMS_DIR"

// Config is the optional config file (~/.config/carshape/config.yaml).
// Pointer fields distinguish "not set" from zero values.
type Config struct {
	ProblemsDir string `yaml:"problems_dir"`
	Variant     string `yaml:"variant"`

	Limits *problem.Limits `yaml:"limits"`
	Mmap   *bool           `yaml:"mmap"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	ServerAddress string `yaml:"server_address"`
}

// Path is the default config location, or "" if the user config dir is unknown.
func Path() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "carshape", "config.yaml")
}

// Load reads path. A missing file is not an error and yields a zero Config.
func Load(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	if cfg.Variant != "" {
		if _, err := problem.ParseVariant(cfg.Variant); err != nil {
			return Config{}, fmt.Errorf("config %s: %w", path, err)
		}
	}
	return cfg, nil
}

// LoaderOptions turns the file settings into problem loader options.
func (c Config) LoaderOptions() []problem.Option {
	var opts []problem.Option
	if c.Limits != nil {
		opts = append(opts, problem.WithLimits(*c.Limits))
	}
	if c.Mmap != nil {
		opts = append(opts, problem.WithMmap(*c.Mmap))
	}
	return opts
}

// ResolveProblemsDir picks the flag value, then the environment, then the file.
func (c Config) ResolveProblemsDir(flag string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv(EnvProblemsDir); env != "" {
		return env
	}
	return c.ProblemsDir
}
