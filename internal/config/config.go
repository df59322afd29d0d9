// Package config handles reading and writing the xaheen configuration file
// (~/.xaheen/config.toml).
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/fsnotify/fsnotify"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/xaheen/xaheen/internal/router"
)

// Config holds xaheen configuration settings.
type Config struct {
	DBPath            string             `toml:"db_path,omitempty" json:"db_path,omitempty"`
	DefaultFormat     string             `toml:"default_format,omitempty" json:"default_format,omitempty"`
	MaxSuggestions    int                `toml:"max_suggestions,omitempty" json:"max_suggestions,omitempty"`
	MinSimilarity     *float64           `toml:"min_similarity,omitempty" json:"min_similarity,omitempty"`
	IncludeAliases    *bool              `toml:"include_aliases,omitempty" json:"include_aliases,omitempty"`
	ContextualBoost   *bool              `toml:"contextual_boost,omitempty" json:"contextual_boost,omitempty"`
	Framework         string             `toml:"framework,omitempty" json:"framework,omitempty"`
	Features          []string           `toml:"features,omitempty" json:"features,omitempty"`
	PreferredCommands []string           `toml:"preferred_commands,omitempty" json:"preferred_commands,omitempty"`
	CategoryWeights   map[string]float64 `toml:"category_weights,omitempty" json:"category_weights,omitempty"`
	CatalogPath       string             `toml:"catalog_path,omitempty" json:"catalog_path,omitempty"`
}

// validKeys lists the allowed configuration keys.
var validKeys = map[string]bool{
	"catalog_path":       true,
	"category_weights":   true,
	"contextual_boost":   true,
	"db_path":            true,
	"default_format":     true,
	"features":           true,
	"framework":          true,
	"include_aliases":    true,
	"max_suggestions":    true,
	"min_similarity":     true,
	"preferred_commands": true,
}

// ValidKeys returns the sorted list of valid configuration keys.
func ValidKeys() []string {
	keys := make([]string, 0, len(validKeys))
	for k := range validKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Dir returns the xaheen data directory (~/.xaheen).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".xaheen"
	}
	return filepath.Join(home, ".xaheen")
}

// Path returns the default config file path (~/.xaheen/config.toml).
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config from the default path.
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the config from a specific path. Returns an empty Config if
// the file does not exist.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes the config to the default path.
func (c *Config) Save() error {
	return c.SaveTo(Path())
}

// SaveTo writes the config to a specific path, creating parent directories as needed.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// MatchOptions converts the config into matcher options, falling back to
// router defaults for unset keys.
func (c *Config) MatchOptions() router.FuzzyMatchOptions {
	o := router.DefaultOptions()
	if c.MaxSuggestions > 0 {
		o.MaxSuggestions = c.MaxSuggestions
	}
	if c.MinSimilarity != nil {
		o.MinSimilarity = *c.MinSimilarity
	}
	if c.IncludeAliases != nil {
		o.IncludeAliases = *c.IncludeAliases
	}
	if c.ContextualBoost != nil {
		o.ContextualBoost = *c.ContextualBoost
	}
	if len(c.CategoryWeights) > 0 {
		o.CategoryWeights = make(map[string]float64, len(c.CategoryWeights))
		for k, v := range c.CategoryWeights {
			o.CategoryWeights[k] = v
		}
	}
	return o
}

// Get returns the string value of a configuration key.
func (c *Config) Get(key string) (string, error) {
	if !validKeys[key] {
		return "", unknownKey(key)
	}
	switch key {
	case "db_path":
		return c.DBPath, nil
	case "default_format":
		return c.DefaultFormat, nil
	case "max_suggestions":
		if c.MaxSuggestions == 0 {
			return "", nil
		}
		return strconv.Itoa(c.MaxSuggestions), nil
	case "min_similarity":
		if c.MinSimilarity == nil {
			return "", nil
		}
		return strconv.FormatFloat(*c.MinSimilarity, 'f', -1, 64), nil
	case "include_aliases":
		return formatBool(c.IncludeAliases), nil
	case "contextual_boost":
		return formatBool(c.ContextualBoost), nil
	case "framework":
		return c.Framework, nil
	case "features":
		return strings.Join(c.Features, ","), nil
	case "preferred_commands":
		return strings.Join(c.PreferredCommands, ","), nil
	case "category_weights":
		return formatWeights(c.CategoryWeights), nil
	case "catalog_path":
		return c.CatalogPath, nil
	default:
		return "", unknownKey(key)
	}
}

// Set assigns a value to a configuration key. An empty value unsets it.
func (c *Config) Set(key, value string) error {
	if !validKeys[key] {
		return unknownKey(key)
	}
	switch key {
	case "db_path":
		c.DBPath = value
	case "default_format":
		if value != "" && value != "table" && value != "json" {
			return fmt.Errorf("default_format must be \"table\" or \"json\", got %q", value)
		}
		c.DefaultFormat = value
	case "max_suggestions":
		if value == "" {
			c.MaxSuggestions = 0
			return nil
		}
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("max_suggestions must be a positive integer, got %q", value)
		}
		c.MaxSuggestions = n
	case "min_similarity":
		if value == "" {
			c.MinSimilarity = nil
			return nil
		}
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 || f > 1 {
			return fmt.Errorf("min_similarity must be a number in [0,1], got %q", value)
		}
		c.MinSimilarity = &f
	case "include_aliases":
		b, err := parseBool(key, value)
		if err != nil {
			return err
		}
		c.IncludeAliases = b
	case "contextual_boost":
		b, err := parseBool(key, value)
		if err != nil {
			return err
		}
		c.ContextualBoost = b
	case "framework":
		c.Framework = strings.ToLower(value)
	case "features":
		c.Features = splitList(value)
	case "preferred_commands":
		c.PreferredCommands = splitList(value)
	case "category_weights":
		w, err := parseWeights(value)
		if err != nil {
			return err
		}
		c.CategoryWeights = w
	case "catalog_path":
		c.CatalogPath = value
	}
	return nil
}

// Watch reloads the config at path whenever it changes and passes the new
// value to onChange. It watches the parent directory so editors that replace
// the file are seen. Blocks until done is closed.
func Watch(done <-chan struct{}, path string, logger *slog.Logger, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch dir %s: %w", dir, err)
	}
	logger.Debug("watching config", "path", path)

	for {
		select {
		case <-done:
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) {
				continue
			}
			cfg, err := LoadFrom(path)
			if err != nil {
				logger.Warn("failed to reload config", "path", path, "error", err)
				continue
			}
			logger.Info("config reloaded", "path", path, "op", event.Op.String())
			onChange(cfg)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("config watcher error", "error", err)
		}
	}
}

func unknownKey(key string) error {
	return fmt.Errorf("unknown config key %q (valid keys: %s)", key, strings.Join(ValidKeys(), ", "))
}

func formatBool(b *bool) string {
	if b == nil {
		return ""
	}
	return strconv.FormatBool(*b)
}

func parseBool(key, value string) (*bool, error) {
	if value == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return nil, fmt.Errorf("%s must be true or false, got %q", key, value)
	}
	return &b, nil
}

func splitList(value string) []string {
	var out []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// parseWeights parses "category=weight,..." pairs.
func parseWeights(value string) (map[string]float64, error) {
	pairs := splitList(value)
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]float64, len(pairs))
	for _, p := range pairs {
		name, raw, ok := strings.Cut(p, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("category_weights entry %q must be category=weight", p)
		}
		w, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("category_weights entry %q: weight must be a number", p)
		}
		out[name] = w
	}
	return out, nil
}

func formatWeights(w map[string]float64) string {
	if len(w) == 0 {
		return ""
	}
	names := make([]string, 0, len(w))
	for k := range w {
		names = append(names, k)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, k := range names {
		parts[i] = k + "=" + strconv.FormatFloat(w[k], 'f', -1, 64)
	}
	return strings.Join(parts, ",")
}
