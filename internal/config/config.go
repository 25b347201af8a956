package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"hunkdiff/internal/logging"
)

const (
	configDirName      = "hunkdiff"
	configFileName     = "config.json"
	configTOMLFileName = "config.toml"
)

const (
	BackendExec  = "exec"
	BackendGoGit = "go-git"
)

type AppConfig struct {
	ContextLines     int    `json:"context_lines" toml:"context_lines"`
	IncludeUntracked bool   `json:"include_untracked" toml:"include_untracked"`
	GitBinary        string `json:"git_binary" toml:"git_binary"`
	Editor           string `json:"editor" toml:"editor"`
	RecentCommits    int    `json:"recent_commits" toml:"recent_commits"`
	RefBackend       string `json:"ref_backend" toml:"ref_backend"`
	UntrackedWorkers int    `json:"untracked_workers" toml:"untracked_workers"`
	LogLevel         string `json:"log_level" toml:"log_level"`
	LogFormat        string `json:"log_format" toml:"log_format"`
}

func Default() AppConfig {
	return AppConfig{
		ContextLines:     3,
		GitBinary:        "git",
		RecentCommits:    20,
		RefBackend:       BackendExec,
		UntrackedWorkers: 4,
		LogLevel:         "warn",
		LogFormat:        logging.FormatText,
	}
}

// Load reads the config from the default location. A TOML file takes
// precedence over a JSON one.
func Load() (AppConfig, string, error) {
	path, err := DefaultPath()
	if err != nil {
		return AppConfig{}, "", err
	}
	tomlPath := filepath.Join(filepath.Dir(path), configTOMLFileName)
	if _, statErr := os.Stat(tomlPath); statErr == nil {
		path = tomlPath
	}
	cfg, err := LoadFromPath(path)
	return cfg, path, err
}

func LoadFromPath(path string) (AppConfig, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return AppConfig{}, err
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return cfg, nil
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return AppConfig{}, fmt.Errorf("parse config: %w", err)
		}
	} else if err := json.Unmarshal(data, &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

func (c *AppConfig) normalize() error {
	c.GitBinary = strings.TrimSpace(c.GitBinary)
	if c.GitBinary == "" {
		c.GitBinary = "git"
	}
	c.Editor = strings.TrimSpace(c.Editor)
	c.RefBackend = strings.ToLower(strings.TrimSpace(c.RefBackend))
	if c.RefBackend == "" {
		c.RefBackend = BackendExec
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))

	if c.ContextLines < 0 {
		return fmt.Errorf("context_lines must not be negative, got %d", c.ContextLines)
	}
	if c.RecentCommits <= 0 {
		return fmt.Errorf("recent_commits must be positive, got %d", c.RecentCommits)
	}
	if c.UntrackedWorkers <= 0 {
		return fmt.Errorf("untracked_workers must be positive, got %d", c.UntrackedWorkers)
	}
	if c.RefBackend != BackendExec && c.RefBackend != BackendGoGit {
		return fmt.Errorf("ref_backend %q must be %q or %q", c.RefBackend, BackendExec, BackendGoGit)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	format, err := logging.ParseFormat(c.LogFormat)
	if err != nil {
		return err
	}
	c.LogFormat = format
	return nil
}

func DefaultPath() (string, error) {
	home, err := configHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configDirName, configFileName), nil
}

func configHome() (string, error) {
	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		return xdg, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config"), nil
}
