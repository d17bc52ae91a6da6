package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"
)

// Version is reported by the version command
const Version = "1.0.0"

// Config holds all application configuration settings
type Config struct {
	// Directory settings
	RootDir         string   `yaml:"root"`
	SelectedFolders []string `yaml:"selected_folders"`

	// Attribute filters
	IgnoreHiddenFolders bool `yaml:"ignore_hidden_folders"`
	IgnoreHiddenFiles   bool `yaml:"ignore_hidden_files"`
	IgnoreDotFolders    bool `yaml:"ignore_dot_folders"`
	IgnoreDotFiles      bool `yaml:"ignore_dot_files"`

	// Rule sources
	SmartIgnore     bool     `yaml:"smart_ignore"`
	UseGitIgnore    bool     `yaml:"use_gitignore"`
	IgnoreFileNames []string `yaml:"ignore_file_names"`
	CustomIgnore    []string `yaml:"custom_ignore"`

	// Traversal
	FollowSymlinks bool          `yaml:"follow_symlinks"`
	MaxDepth       int           `yaml:"max_depth"`
	Timeout        time.Duration `yaml:"timeout"`
	WatchDebounce  time.Duration `yaml:"watch_debounce"`

	// Logging and output
	LogLevel    string `yaml:"log_level"`
	NoColor     bool   `yaml:"no_color"`
	UseColors   bool   `yaml:"-"`
	JSONOutput  bool   `yaml:"json"`
	ShowSkipped bool   `yaml:"show_skipped"`
}

// DefaultConfig returns the settings used when nothing else is given
func DefaultConfig() *Config {
	return &Config{
		RootDir:             ".",
		IgnoreHiddenFolders: true,
		IgnoreDotFolders:    true,
		SmartIgnore:         true,
		UseGitIgnore:        true,
		IgnoreFileNames:     []string{".gitignore"},
		WatchDebounce:       300 * time.Millisecond,
		LogLevel:            "info",
	}
}

// LoadConfig merges the YAML file at path over the defaults. A missing file
// is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that flags and YAML cannot constrain
func (c *Config) Validate() error {
	if strings.TrimSpace(c.RootDir) == "" {
		return errors.New("config: root directory must not be empty")
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("config: max depth must be >= 0, got %d", c.MaxDepth)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("config: timeout must be >= 0, got %s", c.Timeout)
	}
	for _, name := range c.IgnoreFileNames {
		if name == "" || strings.ContainsAny(name, `/\`) {
			return fmt.Errorf("config: invalid ignore file name %q", name)
		}
	}
	for _, folder := range c.SelectedFolders {
		if folder == "" || folder == "." || folder == ".." || strings.ContainsAny(folder, `/\`) {
			return fmt.Errorf("config: selected folder %q must be a direct child name", folder)
		}
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error", "none", "off", "quiet":
	default:
		return fmt.Errorf("config: unknown log level %q", c.LogLevel)
	}
	return nil
}

// AbsRoot returns the root directory as an absolute path
func (c *Config) AbsRoot() (string, error) {
	abs, err := filepath.Abs(c.RootDir)
	if err != nil {
		return "", fmt.Errorf("config: failed to get absolute path for %q: %w", c.RootDir, err)
	}
	return abs, nil
}

// DetectColors enables colors only when f is a terminal and colors were not
// turned off.
func (c *Config) DetectColors(f *os.File) {
	fd := f.Fd()
	c.UseColors = !c.NoColor && (isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd))
}
