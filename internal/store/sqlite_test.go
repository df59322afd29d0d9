package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/xaheen/xaheen/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dir := t.TempDir()
	s, err := New(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewCreatesDir(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "a", "b", "c")
	s, err := New(filepath.Join(nested, "test.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()
	if _, err := os.Stat(nested); err != nil {
		t.Errorf("expected directory %s to exist: %v", nested, err)
	}
}

func TestMigrateIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s1, err := New(dbPath)
	if err != nil {
		t.Fatalf("first New: %v", err)
	}
	if err := s1.RecordUsage(context.Background(), model.UsageEvent{Command: "make:model"}); err != nil {
		t.Fatalf("RecordUsage: %v", err)
	}
	s1.Close()

	s2, err := New(dbPath)
	if err != nil {
		t.Fatalf("second New: %v", err)
	}
	defer s2.Close()

	stats, err := s2.UsageStats(context.Background(), UsageOpts{})
	if err != nil {
		t.Fatalf("UsageStats: %v", err)
	}
	if len(stats) != 1 || stats[0].Count != 1 {
		t.Errorf("stats after reopen = %+v, want one event", stats)
	}
}

func TestRecordUsageAndStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	events := []model.UsageEvent{
		{Command: "make:model", Args: []string{"User"}, Timestamp: base},
		{Command: "make:model", Args: []string{"Post"}, Timestamp: base.Add(time.Minute)},
		{Command: "make:controller", Timestamp: base.Add(2 * time.Minute)},
		{Command: "make:model", Timestamp: base.Add(3 * time.Minute)},
		{Command: "helm:chart", Timestamp: base.Add(4 * time.Minute)},
	}
	for _, ev := range events {
		if err := s.RecordUsage(ctx, ev); err != nil {
			t.Fatalf("RecordUsage: %v", err)
		}
	}

	stats, err := s.UsageStats(ctx, UsageOpts{})
	if err != nil {
		t.Fatalf("UsageStats: %v", err)
	}
	if len(stats) != 3 {
		t.Fatalf("got %d stats, want 3", len(stats))
	}
	if stats[0].Command != "make:model" || stats[0].Count != 3 {
		t.Errorf("top = %+v, want make:model x3", stats[0])
	}
	if !stats[0].LastUsed.Equal(base.Add(3 * time.Minute)) {
		t.Errorf("LastUsed = %v, want %v", stats[0].LastUsed, base.Add(3*time.Minute))
	}
	// Ties on count break by most recent use.
	if stats[1].Command != "helm:chart" {
		t.Errorf("second = %q, want helm:chart", stats[1].Command)
	}

	top, err := s.UsageStats(ctx, UsageOpts{Top: 1})
	if err != nil {
		t.Fatalf("UsageStats top: %v", err)
	}
	if len(top) != 1 {
		t.Errorf("Top=1 returned %d rows", len(top))
	}

	since, err := s.UsageStats(ctx, UsageOpts{Since: base.Add(150 * time.Second)})
	if err != nil {
		t.Fatalf("UsageStats since: %v", err)
	}
	if len(since) != 2 {
		t.Errorf("Since filter returned %d commands, want 2", len(since))
	}
}

func TestRecentCommands(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, c := range []string{"a:a", "b:b", "c:c", "d:d"} {
		if err := s.RecordUsage(ctx, model.UsageEvent{Command: c, Timestamp: base.Add(time.Duration(i) * time.Second)}); err != nil {
			t.Fatalf("RecordUsage: %v", err)
		}
	}

	got, err := s.RecentCommands(ctx, 2)
	if err != nil {
		t.Fatalf("RecentCommands: %v", err)
	}
	want := []string{"c:c", "d:d"}
	if len(got) != len(want) {
		t.Fatalf("RecentCommands = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("RecentCommands[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	none, err := s.RecentCommands(ctx, 0)
	if err != nil || none != nil {
		t.Errorf("RecentCommands(0) = %v, %v; want nil, nil", none, err)
	}
}

func TestResetUsage(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := s.RecordUsage(ctx, model.UsageEvent{Command: "make:model"}); err != nil {
			t.Fatalf("RecordUsage: %v", err)
		}
	}
	n, err := s.ResetUsage(ctx)
	if err != nil {
		t.Fatalf("ResetUsage: %v", err)
	}
	if n != 3 {
		t.Errorf("ResetUsage removed %d, want 3", n)
	}
	stats, _ := s.UsageStats(ctx, UsageOpts{})
	if len(stats) != 0 {
		t.Errorf("stats after reset = %+v", stats)
	}
}

func TestAliasCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SetAlias(ctx, model.UserAlias{From: "mk", To: "make:model"}); err != nil {
		t.Fatalf("SetAlias: %v", err)
	}
	if err := s.SetAlias(ctx, model.UserAlias{From: "ch", To: "helm:chart"}); err != nil {
		t.Fatalf("SetAlias: %v", err)
	}
	// Overwrite.
	if err := s.SetAlias(ctx, model.UserAlias{From: "mk", To: "make:controller"}); err != nil {
		t.Fatalf("SetAlias overwrite: %v", err)
	}

	aliases, err := s.GetAliases(ctx)
	if err != nil {
		t.Fatalf("GetAliases: %v", err)
	}
	if len(aliases) != 2 {
		t.Fatalf("got %d aliases, want 2", len(aliases))
	}
	if aliases[0].From != "ch" || aliases[1].From != "mk" {
		t.Errorf("aliases not ordered by name: %+v", aliases)
	}
	if aliases[1].To != "make:controller" {
		t.Errorf("overwrite lost: %+v", aliases[1])
	}
	if aliases[0].CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}

	deleted, err := s.DeleteAlias(ctx, "mk")
	if err != nil || !deleted {
		t.Fatalf("DeleteAlias = %v, %v", deleted, err)
	}
	deleted, err = s.DeleteAlias(ctx, "mk")
	if err != nil || deleted {
		t.Errorf("second DeleteAlias = %v, %v; want false, nil", deleted, err)
	}
}
