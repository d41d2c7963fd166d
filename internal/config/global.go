package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// GlobalConfig represents configuration stored in ~/.config/docx2latex/config.yml.
// Values set here apply to every project; project config.json wins on conflict.
type GlobalConfig struct {
	PandocPath    string `yaml:"pandoc_path,omitempty"`
	PandocTimeout int    `yaml:"pandoc_timeout,omitempty"`
	OutputRoot    string `yaml:"output_root,omitempty"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "docx2latex"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
)

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/docx2latex/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadGlobalConfig loads the global configuration file.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	path := GlobalConfigPath()
	if path == "" {
		return &GlobalConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &GlobalConfig{}, nil
		}
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing global config: %w", err)
	}

	return &cfg, nil
}

// Resolve merges global config, project config and environment overrides into
// one effective config. Precedence, lowest to highest: global, project,
// DOCX2LATEX_PANDOC / DOCX2LATEX_OUTPUT environment variables.
func Resolve(project *Config, global *GlobalConfig) *Config {
	cfg := &Config{}
	if global != nil {
		cfg.PandocPath = global.PandocPath
		cfg.PandocTimeout = global.PandocTimeout
		cfg.OutputRoot = global.OutputRoot
	}
	if project != nil {
		if project.PandocPath != "" {
			cfg.PandocPath = project.PandocPath
		}
		if project.PandocTimeout != 0 {
			cfg.PandocTimeout = project.PandocTimeout
		}
		if project.OutputRoot != "" {
			cfg.OutputRoot = project.OutputRoot
		}
	}
	if v := os.Getenv("DOCX2LATEX_PANDOC"); v != "" {
		cfg.PandocPath = v
	}
	if v := os.Getenv("DOCX2LATEX_OUTPUT"); v != "" {
		cfg.OutputRoot = v
	}
	return cfg
}
