// Package model defines core types for xaheen: command routes, ranked
// command suggestions, the usage context snapshot, and persisted aliases.
package model

import (
	"context"
	"io"
	"time"
)

// Handler runs a resolved command. It is invoked by the dispatcher and never
// inspected by the matching core.
type Handler func(ctx context.Context, w io.Writer, args []string) error

// CommandRoute describes one registered command.
type CommandRoute struct {
	Pattern     string              `json:"pattern"`
	Domain      string              `json:"domain"`
	Action      string              `json:"action"`
	Handler     Handler             `json:"-"`
	Legacy      map[string][]string `json:"legacy,omitempty"`
	Description string              `json:"description,omitempty"`
	Examples    []string            `json:"examples,omitempty"`
}

// Key returns the canonical domain:action key of the route.
func (r CommandRoute) Key() string {
	return r.Domain + ":" + r.Action
}

// CommandSuggestion is one ranked match produced by the fuzzy matcher.
type CommandSuggestion struct {
	Command     string   `json:"command"`
	Description string   `json:"description,omitempty"`
	Similarity  float64  `json:"similarity"`
	Category    string   `json:"category"`
	Usage       string   `json:"usage,omitempty"`
	Aliases     []string `json:"aliases,omitempty"`
}

// CommandContext is the read-only snapshot of session state used to bias
// suggestions.
type CommandContext struct {
	RecentCommands  []string         `json:"recent_commands,omitempty"`
	CurrentProject  *ProjectContext  `json:"current_project,omitempty"`
	UserPreferences *UserPreferences `json:"user_preferences,omitempty"`
}

// ProjectContext holds detected or configured project metadata.
type ProjectContext struct {
	Name      string   `json:"name,omitempty"`
	Framework string   `json:"framework,omitempty"`
	Features  []string `json:"features,omitempty"`
}

// HasFeature reports whether the project declares feature f.
func (p *ProjectContext) HasFeature(f string) bool {
	if p == nil {
		return false
	}
	for _, have := range p.Features {
		if have == f {
			return true
		}
	}
	return false
}

// UserPreferences holds stored per-user preferences.
type UserPreferences struct {
	PreferredCommands []string `json:"preferred_commands,omitempty"`
}

// UserAlias maps a user-defined shortcut to a canonical command key.
type UserAlias struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	CreatedAt time.Time `json:"created_at"`
}

// UsageEvent records a single dispatched command.
type UsageEvent struct {
	ID        string    `json:"id"`
	Command   string    `json:"command"`
	Args      []string  `json:"args,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// UsageStat aggregates usage events for one command.
type UsageStat struct {
	Command  string    `json:"command"`
	Count    int       `json:"count"`
	LastUsed time.Time `json:"last_used"`
}
