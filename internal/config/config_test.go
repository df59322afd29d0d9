package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/xaheen/xaheen/internal/router"
)

func TestLoadMissingFile(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nonexistent.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DBPath != "" || cfg.Framework != "" || cfg.DefaultFormat != "" || len(cfg.Features) != 0 {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subdir", "config.toml")
	sim := 0.45
	cfg := &Config{
		DBPath:            "/custom/path.db",
		DefaultFormat:     "json",
		MaxSuggestions:    8,
		MinSimilarity:     &sim,
		Framework:         "react",
		Features:          []string{"auth", "multitenancy"},
		PreferredCommands: []string{"make:component"},
		CategoryWeights:   map[string]float64{"frontend": 0.5},
	}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.DBPath != cfg.DBPath {
		t.Errorf("db_path: got %q, want %q", loaded.DBPath, cfg.DBPath)
	}
	if loaded.MaxSuggestions != 8 {
		t.Errorf("max_suggestions: got %d, want 8", loaded.MaxSuggestions)
	}
	if loaded.MinSimilarity == nil || *loaded.MinSimilarity != 0.45 {
		t.Errorf("min_similarity: got %v, want 0.45", loaded.MinSimilarity)
	}
	if loaded.Framework != "react" {
		t.Errorf("framework: got %q, want react", loaded.Framework)
	}
	if len(loaded.Features) != 2 || loaded.Features[1] != "multitenancy" {
		t.Errorf("features: got %v", loaded.Features)
	}
	if loaded.CategoryWeights["frontend"] != 0.5 {
		t.Errorf("category_weights: got %v", loaded.CategoryWeights)
	}
	if loaded.IncludeAliases != nil {
		t.Errorf("include_aliases should stay unset, got %v", *loaded.IncludeAliases)
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("max_suggestions = [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Fatal("expected error for invalid TOML")
	}
}

func TestGetSet(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		want  string
	}{
		{"db_path", "db_path", "/tmp/test.db", "/tmp/test.db"},
		{"default_format table", "default_format", "table", "table"},
		{"default_format json", "default_format", "json", "json"},
		{"max_suggestions", "max_suggestions", "7", "7"},
		{"min_similarity", "min_similarity", "0.25", "0.25"},
		{"include_aliases", "include_aliases", "false", "false"},
		{"contextual_boost", "contextual_boost", "true", "true"},
		{"framework lowercased", "framework", "React", "react"},
		{"features", "features", "auth, multitenancy", "auth,multitenancy"},
		{"features empty", "features", "", ""},
		{"preferred_commands", "preferred_commands", "make:model,helm:chart", "make:model,helm:chart"},
		{"category_weights sorted", "category_weights", "frontend=0.5,backend=-0.2", "backend=-0.2,frontend=0.5"},
		{"catalog_path", "catalog_path", "/etc/xaheen.yaml", "/etc/xaheen.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			if err := cfg.Set(tt.key, tt.value); err != nil {
				t.Fatalf("set: %v", err)
			}
			got, err := cfg.Get(tt.key)
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSetInvalidValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"default_format", "xml"},
		{"max_suggestions", "0"},
		{"max_suggestions", "lots"},
		{"min_similarity", "1.5"},
		{"min_similarity", "-0.1"},
		{"include_aliases", "maybe"},
		{"category_weights", "frontend"},
		{"category_weights", "frontend=high"},
		{"category_weights", "=0.3"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := &Config{}
			if err := cfg.Set(tt.key, tt.value); err == nil {
				t.Fatalf("expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}

func TestUnknownKey(t *testing.T) {
	cfg := &Config{}
	if _, err := cfg.Get("nonexistent"); err == nil {
		t.Fatal("expected error for unknown key on Get")
	}
	if err := cfg.Set("nonexistent", "value"); err == nil {
		t.Fatal("expected error for unknown key on Set")
	}
}

func TestSetEmptyUnsets(t *testing.T) {
	sim := 0.5
	on := true
	cfg := &Config{DefaultFormat: "json", MaxSuggestions: 3, MinSimilarity: &sim, IncludeAliases: &on}
	for _, k := range []string{"default_format", "max_suggestions", "min_similarity", "include_aliases"} {
		if err := cfg.Set(k, ""); err != nil {
			t.Fatalf("Set(%s, \"\"): %v", k, err)
		}
		if got, _ := cfg.Get(k); got != "" {
			t.Errorf("%s = %q after unset, want empty", k, got)
		}
	}
}

func TestValidKeys(t *testing.T) {
	keys := ValidKeys()
	if len(keys) != 11 {
		t.Fatalf("expected 11 keys, got %d", len(keys))
	}
	for i := 1; i < len(keys); i++ {
		if keys[i] < keys[i-1] {
			t.Errorf("keys not sorted: %q before %q", keys[i-1], keys[i])
		}
	}
}

func TestPath(t *testing.T) {
	p := Path()
	if p == "" {
		t.Fatal("Path() returned empty string")
	}
	if filepath.Base(p) != "config.toml" {
		t.Errorf("Path() = %q, want basename config.toml", p)
	}
	if filepath.Base(filepath.Dir(p)) != ".xaheen" {
		t.Errorf("Path() = %q, want parent .xaheen", p)
	}
}

func TestMatchOptionsDefaults(t *testing.T) {
	got := (&Config{}).MatchOptions()
	want := router.DefaultOptions()
	if got.MaxSuggestions != want.MaxSuggestions || got.MinSimilarity != want.MinSimilarity ||
		got.IncludeAliases != want.IncludeAliases || got.ContextualBoost != want.ContextualBoost {
		t.Errorf("MatchOptions() = %+v, want defaults %+v", got, want)
	}
}

func TestMatchOptionsOverrides(t *testing.T) {
	cfg := &Config{}
	for k, v := range map[string]string{
		"max_suggestions":  "2",
		"min_similarity":   "0",
		"include_aliases":  "false",
		"contextual_boost": "false",
		"category_weights": "frontend=1",
	} {
		if err := cfg.Set(k, v); err != nil {
			t.Fatalf("Set(%s): %v", k, err)
		}
	}
	o := cfg.MatchOptions()
	if o.MaxSuggestions != 2 {
		t.Errorf("MaxSuggestions = %d, want 2", o.MaxSuggestions)
	}
	if o.MinSimilarity != 0 {
		t.Errorf("MinSimilarity = %v, want explicit 0", o.MinSimilarity)
	}
	if o.IncludeAliases || o.ContextualBoost {
		t.Errorf("boolean overrides lost: %+v", o)
	}
	if o.CategoryWeights["frontend"] != 1 {
		t.Errorf("CategoryWeights = %v", o.CategoryWeights)
	}

	// Mutating the options must not leak back into the config.
	o.CategoryWeights["frontend"] = 9
	if cfg.CategoryWeights["frontend"] != 1 {
		t.Error("MatchOptions shares the weights map with the config")
	}
}

func TestWatchReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := (&Config{Framework: "vue"}).SaveTo(path); err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	changed := make(chan *Config, 4)
	errc := make(chan error, 1)
	go func() {
		errc <- Watch(done, path, slog.New(slog.DiscardHandler), func(c *Config) { changed <- c })
	}()

	// Give the watcher a moment to register before writing.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case c := <-changed:
			if c.Framework != "react" {
				continue
			}
			close(done)
			if err := <-errc; err != nil {
				t.Fatalf("Watch: %v", err)
			}
			return
		case <-tick.C:
			if err := (&Config{Framework: "react"}).SaveTo(path); err != nil {
				t.Fatal(err)
			}
		case <-deadline:
			close(done)
			t.Fatal("config change not observed")
		}
	}
}
