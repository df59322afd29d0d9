// Package store defines the storage interface for xaheen usage history and
// user-defined command aliases.
package store

import (
	"context"
	"time"

	"github.com/xaheen/xaheen/internal/model"
)

// Store is the persistence interface for usage events and user aliases.
type Store interface {
	// RecordUsage persists a single dispatched command.
	RecordUsage(ctx context.Context, ev model.UsageEvent) error

	// UsageStats returns per-command counts ranked by frequency.
	UsageStats(ctx context.Context, opts UsageOpts) ([]model.UsageStat, error)

	// RecentCommands returns up to limit recent commands, oldest first.
	RecentCommands(ctx context.Context, limit int) ([]string, error)

	// ResetUsage deletes all usage events. Returns the number removed.
	ResetUsage(ctx context.Context) (int64, error)

	// SetAlias creates or updates a user alias.
	SetAlias(ctx context.Context, alias model.UserAlias) error

	// GetAliases returns all user aliases ordered by name.
	GetAliases(ctx context.Context) ([]model.UserAlias, error)

	// DeleteAlias removes an alias. Returns true if it existed.
	DeleteAlias(ctx context.Context, from string) (bool, error)

	// Close releases any resources held by the store.
	Close() error
}

// UsageOpts controls filtering for UsageStats.
type UsageOpts struct {
	Since time.Time // Only events after this time.
	Top   int       // Maximum commands to return; 0 means no limit.
}
