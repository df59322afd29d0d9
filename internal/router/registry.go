// Package router holds the command routing core: the route registry and its
// alias and category indices, the fuzzy command matcher, and the usage
// tracker that biases its rankings.
//
// A Matcher is not safe for concurrent mutation. RegisterCommands, AddAlias
// and Tracker.RecordCommandUsage must be serialized by the caller; the CLI
// confines one Matcher to one session.
package router

import (
	"errors"
	"log/slog"
	"sort"
	"strings"

	"github.com/xaheen/xaheen/internal/model"
)

// ErrUnknownCommand is returned by dispatchers when input resolves to no
// registered route.
var ErrUnknownCommand = errors.New("unknown command")

// HandlerFactory resolves the handler for a domain action. Route providers
// receive one at construction instead of reaching into shared state.
type HandlerFactory interface {
	Handler(domain, action string) model.Handler
}

// HandlerFunc adapts a function to HandlerFactory.
type HandlerFunc func(domain, action string) model.Handler

// Handler implements HandlerFactory.
func (f HandlerFunc) Handler(domain, action string) model.Handler {
	return f(domain, action)
}

// Registry indexes routes under both their pattern and their canonical
// domain:action key.
type Registry struct {
	routes map[string]*model.CommandRoute
	keys   []string // index keys in registration order
	logger *slog.Logger
}

// NewRegistry returns an empty registry. A nil logger discards warnings.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Registry{
		routes: make(map[string]*model.CommandRoute),
		logger: logger,
	}
}

// Register replaces the registry contents with routes. A later route wins
// over an earlier one with the same canonical key; the earlier route is
// logged and left out of every index, including its pattern key. Canonical
// keys take precedence over patterns: a pattern equal to another route's
// canonical key is logged and not indexed, so every route stays reachable by
// its key.
func (r *Registry) Register(routes []model.CommandRoute) {
	r.routes = make(map[string]*model.CommandRoute, len(routes)*2)
	r.keys = nil

	owner := make(map[string]int, len(routes))
	for i, route := range routes {
		key := indexKey(route.Key())
		if prev, ok := owner[key]; ok {
			r.logger.Warn("duplicate command key, last registration wins",
				"key", key, "previous", routes[prev].Pattern, "pattern", route.Pattern)
		}
		owner[key] = i
	}

	for i := range routes {
		route := routes[i]
		key := indexKey(route.Key())
		if owner[key] != i {
			continue
		}
		if p := indexKey(route.Pattern); p != key {
			if j, ok := owner[p]; ok {
				r.logger.Warn("pattern shadows a command key, pattern not indexed",
					"pattern", route.Pattern, "command", route.Key(), "key", routes[j].Key())
			} else {
				r.index(p, &route)
			}
		}
		r.index(key, &route)
	}
}

func indexKey(k string) string {
	return strings.ToLower(strings.TrimSpace(k))
}

func (r *Registry) index(k string, route *model.CommandRoute) {
	k = indexKey(k)
	if k == "" {
		return
	}
	prev, ok := r.routes[k]
	switch {
	case !ok:
		r.keys = append(r.keys, k)
	case prev != route:
		r.logger.Warn("duplicate pattern, last registration wins",
			"pattern", k, "previous", prev.Key(), "command", route.Key())
	}
	r.routes[k] = route
}

// Lookup finds a route by pattern or canonical key.
func (r *Registry) Lookup(key string) (model.CommandRoute, bool) {
	route, ok := r.routes[indexKey(key)]
	if !ok {
		return model.CommandRoute{}, false
	}
	return *route, true
}

// Keys returns every index key in registration order. A route appears once
// per key form.
func (r *Registry) Keys() []string {
	return append([]string(nil), r.keys...)
}

// Routes returns the distinct registered routes sorted by canonical key.
func (r *Registry) Routes() []model.CommandRoute {
	seen := make(map[*model.CommandRoute]bool, len(r.routes))
	var out []model.CommandRoute
	for _, k := range r.keys {
		route := r.routes[k]
		if seen[route] {
			continue
		}
		seen[route] = true
		out = append(out, *route)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

// Domains returns the distinct registered domains.
func (r *Registry) Domains() map[string]bool {
	out := make(map[string]bool)
	for _, route := range r.routes {
		out[strings.ToLower(route.Domain)] = true
	}
	return out
}

// Len returns the number of distinct routes.
func (r *Registry) Len() int {
	return len(r.Routes())
}
