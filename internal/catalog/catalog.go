// Package catalog loads the static command catalog: seed aliases, the
// category index, canned contextual suggestions, and project boost rules.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Entry is a canned suggestion with a fixed score.
type Entry struct {
	Command     string  `yaml:"command" json:"command"`
	Description string  `yaml:"description,omitempty" json:"description,omitempty"`
	Similarity  float64 `yaml:"similarity" json:"similarity"`
}

// ProjectRule boosts command keys containing Contains when the active project
// uses Framework or declares Feature. Exactly one of Framework and Feature is
// set.
type ProjectRule struct {
	Framework string  `yaml:"framework,omitempty" json:"framework,omitempty"`
	Feature   string  `yaml:"feature,omitempty" json:"feature,omitempty"`
	Contains  string  `yaml:"contains" json:"contains"`
	Boost     float64 `yaml:"boost" json:"boost"`
}

// Catalog is the parsed catalog file.
type Catalog struct {
	Aliases      map[string]string  `yaml:"aliases" json:"aliases"`
	Categories   map[string]string  `yaml:"categories" json:"categories"`
	Frameworks   map[string][]Entry `yaml:"frameworks" json:"frameworks"`
	Workflows    map[string][]Entry `yaml:"workflows" json:"workflows"`
	Popular      []string           `yaml:"popular" json:"popular"`
	ProjectRules []ProjectRule      `yaml:"project_rules" json:"project_rules"`
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("catalog: built-in catalog is invalid: %v", err))
	}
	return c
}

// Parse decodes and validates catalog YAML. Alias, category, framework and
// workflow keys are lowercased so lookups match however the file spells them.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	var errs []error
	var err error
	if c.Aliases, err = lowerKeys("aliases", c.Aliases); err != nil {
		errs = append(errs, err)
	}
	if c.Categories, err = lowerKeys("categories", c.Categories); err != nil {
		errs = append(errs, err)
	}
	if c.Frameworks, err = lowerKeys("frameworks", c.Frameworks); err != nil {
		errs = append(errs, err)
	}
	if c.Workflows, err = lowerKeys("workflows", c.Workflows); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadFile reads a catalog from path.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return Parse(data)
}

func (c *Catalog) validate() error {
	var errs []error
	for i, r := range c.ProjectRules {
		if (r.Framework == "") == (r.Feature == "") {
			errs = append(errs, fmt.Errorf("project_rules[%d]: exactly one of framework or feature must be set", i))
		}
		if r.Contains == "" {
			errs = append(errs, fmt.Errorf("project_rules[%d]: contains must be non-empty", i))
		}
	}
	for name, entries := range c.Frameworks {
		for i, e := range entries {
			if e.Similarity < 0 || e.Similarity > 1 {
				errs = append(errs, fmt.Errorf("frameworks.%s[%d]: similarity %v out of [0,1]", name, i, e.Similarity))
			}
		}
	}
	for name, entries := range c.Workflows {
		for i, e := range entries {
			if e.Similarity < 0 || e.Similarity > 1 {
				errs = append(errs, fmt.Errorf("workflows.%s[%d]: similarity %v out of [0,1]", name, i, e.Similarity))
			}
		}
	}
	return errors.Join(errs...)
}

// Merge returns a copy of c with other laid over it. Map entries overlay per
// key; lists replace the base list when non-empty.
func (c *Catalog) Merge(other *Catalog) *Catalog {
	out := &Catalog{
		Aliases:      overlay(c.Aliases, nil),
		Categories:   overlay(c.Categories, nil),
		Frameworks:   overlay(c.Frameworks, nil),
		Workflows:    overlay(c.Workflows, nil),
		Popular:      append([]string(nil), c.Popular...),
		ProjectRules: append([]ProjectRule(nil), c.ProjectRules...),
	}
	if other == nil {
		return out
	}
	out.Aliases = overlay(out.Aliases, other.Aliases)
	out.Categories = overlay(out.Categories, other.Categories)
	out.Frameworks = overlay(out.Frameworks, other.Frameworks)
	out.Workflows = overlay(out.Workflows, other.Workflows)
	if len(other.Popular) > 0 {
		out.Popular = append([]string(nil), other.Popular...)
	}
	if len(other.ProjectRules) > 0 {
		out.ProjectRules = append([]ProjectRule(nil), other.ProjectRules...)
	}
	return out
}

// lowerKeys returns m with trimmed, lowercased keys. Two keys that differ
// only in case are an error.
func lowerKeys[V any](section string, m map[string]V) (map[string]V, error) {
	if m == nil {
		return nil, nil
	}
	out := make(map[string]V, len(m))
	seen := make(map[string]string, len(m))
	for k, v := range m {
		lk := strings.ToLower(strings.TrimSpace(k))
		if prev, ok := seen[lk]; ok {
			first, second := min(prev, k), max(prev, k)
			return nil, fmt.Errorf("%s: keys %q and %q collide", section, first, second)
		}
		seen[lk] = k
		out[lk] = v
	}
	return out, nil
}

func overlay[V any](base, top map[string]V) map[string]V {
	out := make(map[string]V, len(base)+len(top))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range top {
		out[k] = v
	}
	return out
}
