package router

import (
	"sort"
	"strings"

	"github.com/xaheen/xaheen/internal/catalog"
	"github.com/xaheen/xaheen/internal/model"
)

// MaxContextualSuggestions caps GetContextualSuggestions.
const MaxContextualSuggestions = 10

// Popular command scores decay from PopularBase by PopularDecay per rank.
const (
	PopularBase  = 0.7
	PopularDecay = 0.1
)

// GetContextualSuggestions proposes commands without any user input: canned
// suggestions for the project framework, follow-ups to the last command, and
// the popular list. It does not use similarity scoring.
func (m *Matcher) GetContextualSuggestions(c *model.CommandContext) []model.CommandSuggestion {
	var out []model.CommandSuggestion
	out = append(out, m.FrameworkSuggestions(c)...)
	out = append(out, m.WorkflowSuggestions(c)...)
	out = append(out, m.PopularSuggestions()...)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Similarity > out[j].Similarity
	})
	if len(out) > MaxContextualSuggestions {
		out = out[:MaxContextualSuggestions]
	}
	return out
}

// FrameworkSuggestions returns the catalog entries for the current project's
// framework.
func (m *Matcher) FrameworkSuggestions(c *model.CommandContext) []model.CommandSuggestion {
	if c == nil || c.CurrentProject == nil || c.CurrentProject.Framework == "" {
		return nil
	}
	entries := m.catalog.Frameworks[strings.ToLower(c.CurrentProject.Framework)]
	return m.entrySuggestions(entries)
}

// WorkflowSuggestions returns the catalog follow-ups for the most recent
// command.
func (m *Matcher) WorkflowSuggestions(c *model.CommandContext) []model.CommandSuggestion {
	if c == nil || len(c.RecentCommands) == 0 {
		return nil
	}
	last := indexKey(c.RecentCommands[len(c.RecentCommands)-1])
	return m.entrySuggestions(m.catalog.Workflows[last])
}

// PopularSuggestions returns the catalog's popular commands with decaying
// scores.
func (m *Matcher) PopularSuggestions() []model.CommandSuggestion {
	out := make([]model.CommandSuggestion, 0, len(m.catalog.Popular))
	for i, cmd := range m.catalog.Popular {
		score := max(0, PopularBase-float64(i)*PopularDecay)
		out = append(out, m.entrySuggestion(catalog.Entry{Command: cmd, Similarity: score}))
	}
	return out
}

func (m *Matcher) entrySuggestions(entries []catalog.Entry) []model.CommandSuggestion {
	out := make([]model.CommandSuggestion, 0, len(entries))
	for _, e := range entries {
		out = append(out, m.entrySuggestion(e))
	}
	return out
}

// entrySuggestion fills usage and a missing description from the registered
// route, when there is one.
func (m *Matcher) entrySuggestion(e catalog.Entry) model.CommandSuggestion {
	s := model.CommandSuggestion{
		Command:     e.Command,
		Description: e.Description,
		Similarity:  e.Similarity,
		Category:    m.Category(e.Command),
		Usage:       e.Command,
		Aliases:     m.AliasesFor(e.Command),
	}
	if route, ok := m.registry.Lookup(e.Command); ok {
		s.Usage = route.Pattern
		if s.Description == "" {
			s.Description = route.Description
		}
	}
	return s
}
