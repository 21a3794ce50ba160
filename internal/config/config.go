package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/samber/lo"
)

const appName = "list-changed-files"

// Formats lists the supported output formats.
var Formats = []string{"text", "json", "null"}

// Config represents the list-changed-files configuration.
type Config struct {
	Base       string   `json:"base"`
	Git        string   `json:"git"`
	Format     string   `json:"format"`
	Echo       bool     `json:"echo"`
	Include    []string `json:"include,omitempty"`
	Exclude    []string `json:"exclude,omitempty"`
	IgnoreFile string   `json:"ignoreFile,omitempty"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Base:   "master",
		Git:    "git",
		Format: "text",
	}
}

// ConfigDir returns the platform-appropriate config directory.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", appName), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, appName), nil
		}
		return filepath.Join(home, "AppData", "Roaming", appName), nil
	default:
		return filepath.Join(home, ".config", appName), nil
	}
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadFile loads config from the config file. Returns zero Config and nil error if file doesn't exist.
func LoadFile() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Save writes the config to the config file.
func Save(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Keys lists the config keys accepted by SetField, in display order.
var Keys = []string{"base", "git", "format", "echo", "include", "exclude", "ignoreFile"}

// Source layers, lowest precedence first.
const (
	SourceDefault = "default"
	SourceFile    = "file"
	SourceEnv     = "env"
	SourceFlag    = "flag"
)

// Load builds the effective config by merging: defaults <- file <- env <- overrides.
// The overrides map comes from CLI flags (only set values should be present).
func Load(overrides map[string]string) (Config, error) {
	cfg, _, err := LoadSources(overrides)
	return cfg, err
}

// LoadSources is Load that also reports, per key, the highest layer that
// changed the value. A layer repeating the value below it is not credited.
func LoadSources(overrides map[string]string) (Config, map[string]string, error) {
	cfg := Default()
	sources := make(map[string]string, len(Keys))
	credit := func(before Config, layer string) {
		for _, k := range Keys {
			if Field(before, k) != Field(cfg, k) {
				sources[k] = layer
			}
		}
	}
	for _, k := range Keys {
		sources[k] = SourceDefault
	}

	fileCfg, err := LoadFile()
	if err != nil {
		return Config{}, nil, err
	}
	before := cfg
	mergeFile(&cfg, fileCfg)
	credit(before, SourceFile)

	before = cfg
	if err := mergeEnv(&cfg); err != nil {
		return Config{}, nil, err
	}
	credit(before, SourceEnv)

	before = cfg
	if err := mergeOverrides(&cfg, overrides); err != nil {
		return Config{}, nil, err
	}
	credit(before, SourceFlag)

	if err := Validate(cfg); err != nil {
		return Config{}, nil, err
	}
	return cfg, sources, nil
}

// Field returns the value of key in cfg as SetField would accept it, or ""
// for an unknown key.
func Field(cfg Config, key string) string {
	switch key {
	case "base":
		return cfg.Base
	case "git":
		return cfg.Git
	case "format":
		return cfg.Format
	case "echo":
		return strconv.FormatBool(cfg.Echo)
	case "include":
		return strings.Join(cfg.Include, ",")
	case "exclude":
		return strings.Join(cfg.Exclude, ",")
	case "ignoreFile":
		return cfg.IgnoreFile
	}
	return ""
}

// Validate rejects unknown formats and malformed glob patterns.
func Validate(cfg Config) error {
	if !lo.Contains(Formats, cfg.Format) {
		return fmt.Errorf("unsupported output format: %s", cfg.Format)
	}
	for _, p := range append(append([]string{}, cfg.Include...), cfg.Exclude...) {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid glob pattern: %s", p)
		}
	}
	return nil
}

func mergeFile(dst *Config, src Config) {
	if src.Base != "" {
		dst.Base = src.Base
	}
	if src.Git != "" {
		dst.Git = src.Git
	}
	if src.Format != "" {
		dst.Format = src.Format
	}
	if len(src.Include) > 0 {
		dst.Include = src.Include
	}
	if len(src.Exclude) > 0 {
		dst.Exclude = src.Exclude
	}
	if src.IgnoreFile != "" {
		dst.IgnoreFile = src.IgnoreFile
	}
	// JSON cannot tell an unset bool from false; a file can only turn echo on.
	dst.Echo = src.Echo || dst.Echo
}

func mergeEnv(cfg *Config) error {
	if v := os.Getenv("LCF_BASE"); v != "" {
		cfg.Base = v
	}
	if v := os.Getenv("LCF_GIT"); v != "" {
		cfg.Git = v
	}
	if v := os.Getenv("LCF_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("LCF_IGNORE_FILE"); v != "" {
		cfg.IgnoreFile = v
	}
	if v := os.Getenv("LCF_ECHO"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("LCF_ECHO must be a boolean: %w", err)
		}
		cfg.Echo = b
	}
	return nil
}

func mergeOverrides(cfg *Config, overrides map[string]string) error {
	for key, value := range overrides {
		if value == "" {
			continue
		}
		if err := SetField(cfg, key, value); err != nil {
			return err
		}
	}
	return nil
}

// SetField sets a single config field by key name. Returns error if key is unknown.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "base":
		cfg.Base = value
	case "git":
		cfg.Git = value
	case "format":
		cfg.Format = value
	case "echo":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("echo must be a boolean: %w", err)
		}
		cfg.Echo = b
	case "include":
		cfg.Include = SplitList(value)
	case "exclude":
		cfg.Exclude = SplitList(value)
	case "ignoreFile":
		cfg.IgnoreFile = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

// SplitList splits a comma-separated list, trimming blanks and dropping empty parts.
func SplitList(s string) []string {
	parts := lo.Map(strings.Split(s, ","), func(p string, _ int) string {
		return strings.TrimSpace(p)
	})
	return lo.Filter(parts, func(p string, _ int) bool { return p != "" })
}
