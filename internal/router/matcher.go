package router

import (
	"log/slog"
	"slices"
	"sort"
	"strings"

	"github.com/xaheen/xaheen/internal/analyze"
	"github.com/xaheen/xaheen/internal/catalog"
	"github.com/xaheen/xaheen/internal/model"
)

// DefaultCategory is reported for commands missing from the category index.
const DefaultCategory = "general"

// Contextual boost weights.
const (
	RecentBoost         = 0.10
	UsageBoostPerUse    = 0.01
	MaxUsageBoost       = 0.15
	CategoryWeightScale = 0.1
	PreferredBoost      = 0.20
)

// FuzzyMatchOptions tunes FindMatches.
type FuzzyMatchOptions struct {
	// MaxSuggestions caps the result length. Non-positive means the default.
	MaxSuggestions int `json:"max_suggestions"`
	// MinSimilarity discards base scores strictly below it.
	MinSimilarity float64 `json:"min_similarity"`
	// IncludeAliases lets an exact alias hit rank first at 1.0.
	IncludeAliases bool `json:"include_aliases"`
	// ContextualBoost applies recent, usage, category, project and
	// preference boosts when a context is supplied.
	ContextualBoost bool `json:"contextual_boost"`
	// CategoryWeights adds weight*CategoryWeightScale per category.
	CategoryWeights map[string]float64 `json:"category_weights,omitempty"`
}

// DefaultOptions returns the default matching options.
func DefaultOptions() FuzzyMatchOptions {
	return FuzzyMatchOptions{
		MaxSuggestions:  5,
		MinSimilarity:   0.3,
		IncludeAliases:  true,
		ContextualBoost: true,
	}
}

// Matcher resolves user input to registered commands. It owns the route
// registry and the alias and category indices derived from it.
type Matcher struct {
	registry   *Registry
	seed       map[string]string // catalog and user aliases, kept across registrations
	aliases    map[string]string // seed plus legacy aliases of registered routes
	categories map[string]string
	catalog    *catalog.Catalog
	tracker    *Tracker
	logger     *slog.Logger
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithLogger sets the logger used for registration warnings.
func WithLogger(l *slog.Logger) Option {
	return func(m *Matcher) { m.logger = l }
}

// WithCatalog replaces the built-in catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(m *Matcher) { m.catalog = c }
}

// WithTracker shares an existing usage tracker.
func WithTracker(t *Tracker) Option {
	return func(m *Matcher) { m.tracker = t }
}

// NewMatcher returns a matcher with an empty registry, seeded from the
// catalog's aliases and categories.
func NewMatcher(opts ...Option) *Matcher {
	m := &Matcher{}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = slog.New(slog.DiscardHandler)
	}
	if m.catalog == nil {
		m.catalog = catalog.Default()
	}
	if m.tracker == nil {
		m.tracker = NewTracker(0)
	}
	m.registry = NewRegistry(m.logger)

	m.seed = make(map[string]string, len(m.catalog.Aliases))
	for alias, key := range m.catalog.Aliases {
		m.seed[indexKey(alias)] = indexKey(key)
	}
	m.categories = make(map[string]string, len(m.catalog.Categories))
	for key, cat := range m.catalog.Categories {
		m.categories[indexKey(key)] = cat
	}
	m.rebuildAliases()
	return m
}

// RegisterCommands clears the registry and indexes routes under their
// pattern and canonical key. Legacy command strings become aliases of the
// canonical key.
func (m *Matcher) RegisterCommands(routes []model.CommandRoute) {
	m.registry.Register(routes)
	m.rebuildAliases()
	m.logger.Debug("registered commands", "routes", m.registry.Len(), "aliases", len(m.aliases))
}

func (m *Matcher) rebuildAliases() {
	m.aliases = make(map[string]string, len(m.seed))
	for alias, key := range m.seed {
		m.aliases[alias] = key
	}
	for _, route := range m.registry.Routes() {
		for _, legacy := range route.Legacy {
			for _, cmd := range legacy {
				m.aliases[indexKey(cmd)] = indexKey(route.Key())
			}
		}
	}
}

// AddAlias maps alias to a canonical command key. User aliases survive
// re-registration.
func (m *Matcher) AddAlias(alias, key string) {
	alias, key = indexKey(alias), indexKey(key)
	m.seed[alias] = key
	m.aliases[alias] = key
}

// Registry exposes the route registry for read-only use.
func (m *Matcher) Registry() *Registry {
	return m.registry
}

// Tracker returns the usage tracker consulted for usage boosts.
func (m *Matcher) Tracker() *Tracker {
	return m.tracker
}

// Catalog returns the catalog the matcher was built with.
func (m *Matcher) Catalog() *catalog.Catalog {
	return m.catalog
}

// Routes returns the distinct registered routes sorted by canonical key.
func (m *Matcher) Routes() []model.CommandRoute {
	return m.registry.Routes()
}

// Resolve finds the route named exactly by input, through the alias map
// first and then the registry.
func (m *Matcher) Resolve(input string) (model.CommandRoute, bool) {
	in := indexKey(input)
	if key, ok := m.aliases[in]; ok {
		if route, ok := m.registry.Lookup(key); ok {
			return route, true
		}
	}
	return m.registry.Lookup(in)
}

// Category returns the semantic category of a command key.
func (m *Matcher) Category(key string) string {
	if cat, ok := m.categories[indexKey(key)]; ok {
		return cat
	}
	return DefaultCategory
}

// AliasesFor returns the sorted aliases resolving to key.
func (m *Matcher) AliasesFor(key string) []string {
	key = indexKey(key)
	var out []string
	for alias, target := range m.aliases {
		if target == key {
			out = append(out, alias)
		}
	}
	sort.Strings(out)
	return out
}

// FindMatches ranks registered commands against input. Each route is scored
// under both its pattern and its canonical key and keeps its best score, so
// a command occupies at most one slot. An exact alias hit scores 1.0 and
// ranks first, ahead of boosted fuzzy matches that also reach 1.0.
// Scores below MinSimilarity are dropped before boosting; ties break by
// command key. Empty input matches nothing.
func (m *Matcher) FindMatches(input string, cmdCtx *model.CommandContext, opts *FuzzyMatchOptions) []model.CommandSuggestion {
	o := resolveOptions(opts)
	in := indexKey(input)
	if in == "" {
		return nil
	}

	best := make(map[string]model.CommandSuggestion)
	keep := func(s model.CommandSuggestion) {
		if prev, ok := best[s.Command]; ok && prev.Similarity >= s.Similarity {
			return
		}
		best[s.Command] = s
	}

	var aliasHit string
	if o.IncludeAliases {
		if key, ok := m.aliases[in]; ok {
			if route, ok := m.registry.Lookup(key); ok {
				aliasHit = route.Key()
				keep(m.suggestion(route, 1.0))
			}
		}
	}

	boost := o.ContextualBoost && cmdCtx != nil
	for _, k := range m.registry.Keys() {
		route, ok := m.registry.Lookup(k)
		if !ok {
			continue
		}
		score := analyze.Similarity(in, k)
		if score < o.MinSimilarity {
			continue
		}
		if boost {
			score = clampScore(score + m.contextBoost(route.Key(), cmdCtx, o))
			if score < o.MinSimilarity {
				continue
			}
		}
		keep(m.suggestion(route, score))
	}

	out := make([]model.CommandSuggestion, 0, len(best))
	for _, s := range best {
		out = append(out, s)
	}
	sortSuggestions(out, aliasHit)
	if len(out) > o.MaxSuggestions {
		out = out[:o.MaxSuggestions]
	}
	return out
}

// contextBoost sums the additive boosts for key. The caller clamps the total.
// Recent and preferred commands match key case-insensitively.
func (m *Matcher) contextBoost(key string, c *model.CommandContext, o FuzzyMatchOptions) float64 {
	ik := indexKey(key)
	same := func(s string) bool { return indexKey(s) == ik }
	var b float64
	if slices.ContainsFunc(c.RecentCommands, same) {
		b += RecentBoost
	}
	b += min(MaxUsageBoost, float64(m.tracker.Count(key))*UsageBoostPerUse)
	if cat, ok := m.categories[ik]; ok {
		if w, ok := o.CategoryWeights[cat]; ok {
			b += w * CategoryWeightScale
		}
	}
	b += m.projectBoost(key, c.CurrentProject)
	if c.UserPreferences != nil && slices.ContainsFunc(c.UserPreferences.PreferredCommands, same) {
		b += PreferredBoost
	}
	return b
}

// projectBoost applies the catalog's framework and feature rules.
func (m *Matcher) projectBoost(key string, p *model.ProjectContext) float64 {
	if p == nil {
		return 0
	}
	key = indexKey(key)
	var b float64
	for _, r := range m.catalog.ProjectRules {
		if !strings.Contains(key, strings.ToLower(r.Contains)) {
			continue
		}
		switch {
		case r.Framework != "" && strings.EqualFold(p.Framework, r.Framework):
			b += r.Boost
		case r.Feature != "" && p.HasFeature(r.Feature):
			b += r.Boost
		}
	}
	return b
}

func (m *Matcher) suggestion(route model.CommandRoute, score float64) model.CommandSuggestion {
	key := route.Key()
	return model.CommandSuggestion{
		Command:     key,
		Description: route.Description,
		Similarity:  score,
		Category:    m.Category(key),
		Usage:       route.Pattern,
		Aliases:     m.AliasesFor(key),
	}
}

func resolveOptions(opts *FuzzyMatchOptions) FuzzyMatchOptions {
	if opts == nil {
		return DefaultOptions()
	}
	o := *opts
	if o.MaxSuggestions <= 0 {
		o.MaxSuggestions = DefaultOptions().MaxSuggestions
	}
	return o
}

// sortSuggestions orders by similarity descending, then command ascending.
// The pinned command, if any, always sorts first.
func sortSuggestions(s []model.CommandSuggestion, pinned string) {
	sort.SliceStable(s, func(i, j int) bool {
		if pinned != "" {
			if pi, pj := s[i].Command == pinned, s[j].Command == pinned; pi != pj {
				return pi
			}
		}
		if s[i].Similarity != s[j].Similarity {
			return s[i].Similarity > s[j].Similarity
		}
		return s[i].Command < s[j].Command
	})
}

func clampScore(v float64) float64 {
	return max(0, min(1, v))
}
