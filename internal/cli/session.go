package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/xaheen/xaheen/internal/catalog"
	"github.com/xaheen/xaheen/internal/config"
	"github.com/xaheen/xaheen/internal/generator"
	"github.com/xaheen/xaheen/internal/logging"
	"github.com/xaheen/xaheen/internal/model"
	"github.com/xaheen/xaheen/internal/project"
	"github.com/xaheen/xaheen/internal/router"
	"github.com/xaheen/xaheen/internal/routes"
	"github.com/xaheen/xaheen/internal/store"
)

// session wires the matcher, store and project context for one invocation
// (or one interactive shell).
type session struct {
	matcher *router.Matcher
	store   store.Store
	logger  *slog.Logger

	// detected is the project context found on disk before config overrides.
	detected *model.ProjectContext

	mu      sync.Mutex // guards cfg and project, which the shell reloads
	cfg     *config.Config
	project *model.ProjectContext
}

// openSession builds a session from the loaded config and the database at
// dbPath. The caller must Close it.
func openSession(ctx context.Context) (*session, error) {
	cat := catalog.Default()
	if cfg.CatalogPath != "" {
		user, err := catalog.LoadFile(cfg.CatalogPath)
		if err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
		cat = cat.Merge(user)
	}

	s, err := store.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	tracker := router.NewTracker(router.DefaultHistorySize)
	if err := restoreUsage(ctx, s, tracker); err != nil {
		s.Close()
		return nil, err
	}

	m := router.NewMatcher(
		router.WithLogger(componentLogger("router")),
		router.WithCatalog(cat),
		router.WithTracker(tracker),
	)
	m.RegisterCommands(routes.All(router.HandlerFunc(generator.Handler)))

	aliases, err := s.GetAliases(ctx)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("get aliases: %w", err)
	}
	for _, a := range aliases {
		m.AddAlias(a.From, a.To)
	}

	sess := &session{
		matcher:  m,
		store:    s,
		logger:   componentLogger("session"),
		detected: detectProject(),
	}
	sess.setConfig(cfg)
	return sess, nil
}

// componentLogger returns a logger for a named component at the CLI level.
func componentLogger(name string) *slog.Logger {
	if logOut == nil {
		return logging.Discard()
	}
	return logging.New(logOut, name, logging.Level(verbose))
}

// restoreUsage seeds the in-memory tracker from persisted usage so boosts
// reflect history across invocations.
func restoreUsage(ctx context.Context, s store.Store, t *router.Tracker) error {
	stats, err := s.UsageStats(ctx, store.UsageOpts{})
	if err != nil {
		return fmt.Errorf("load usage: %w", err)
	}
	recent, err := s.RecentCommands(ctx, router.DefaultHistorySize)
	if err != nil {
		return fmt.Errorf("load recent commands: %w", err)
	}
	counts := make(map[string]int, len(stats))
	for _, st := range stats {
		counts[st.Command] = st.Count
	}
	t.Restore(router.UsageSnapshot{Counts: counts, Recent: recent})
	return nil
}

func detectProject() *model.ProjectContext {
	dir, err := os.Getwd()
	if err != nil {
		return nil
	}
	ctx, err := project.Detect(dir)
	if err != nil {
		componentLogger("project").Warn("project detection failed", "dir", dir, "error", err)
		return nil
	}
	return ctx
}

// setConfig swaps the active configuration and recomputes the project
// context overrides.
func (s *session) setConfig(c *config.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = c
	s.project = project.Merge(s.detected, c.Framework, c.Features)
}

// options returns the matcher options for the active configuration.
func (s *session) options() router.FuzzyMatchOptions {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.MatchOptions()
}

// commandContext snapshots recent history, project and preferences.
func (s *session) commandContext() *model.CommandContext {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := &model.CommandContext{
		RecentCommands: s.matcher.Tracker().Recent(0),
		CurrentProject: s.project,
	}
	if len(s.cfg.PreferredCommands) > 0 {
		c.UserPreferences = &model.UserPreferences{
			PreferredCommands: append([]string(nil), s.cfg.PreferredCommands...),
		}
	}
	return c
}

// Close releases the store.
func (s *session) Close() error {
	return s.store.Close()
}
