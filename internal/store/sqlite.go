// Package store provides SQLite-backed persistence for xaheen data.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/xaheen/xaheen/internal/model"

	_ "modernc.org/sqlite"
)

const schemaVersion = 2

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// SQLiteStore implements Store using a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// New opens (or creates) a SQLite database at dbPath.
// It auto-creates the parent directory (e.g. ~/.xaheen/) and runs
// schema migrations to ensure the database is up to date.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Single connection for WAL mode simplicity.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// migrate runs schema migrations up to the current version.
func (s *SQLiteStore) migrate() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER NOT NULL
	)`); err != nil {
		return fmt.Errorf("create version table: %w", err)
	}

	var ver int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&ver)
	if err == sql.ErrNoRows {
		ver = 0
	} else if err != nil {
		return fmt.Errorf("read version: %w", err)
	}

	if ver < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}
	if ver < 2 {
		if err := s.migrateV2(); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) migrateV1() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS usage (
			id          TEXT PRIMARY KEY,
			command     TEXT NOT NULL,
			invoked_at  TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_usage_command ON usage(command)`,
		`CREATE INDEX IF NOT EXISTS idx_usage_invoked_at ON usage(invoked_at)`,
		`CREATE TABLE IF NOT EXISTS aliases (
			from_name  TEXT PRIMARY KEY,
			to_name    TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`DELETE FROM schema_version`,
		`INSERT INTO schema_version (version) VALUES (1)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate v1: %w", err)
		}
	}
	return nil
}

// migrateV2 records handler arguments alongside each usage event.
func (s *SQLiteStore) migrateV2() error {
	stmts := []string{
		`ALTER TABLE usage ADD COLUMN args TEXT`,
		`DELETE FROM schema_version`,
		fmt.Sprintf(`INSERT INTO schema_version (version) VALUES (%d)`, schemaVersion),
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate v2: %w", err)
		}
	}
	return nil
}

// RecordUsage persists a single dispatched command.
func (s *SQLiteStore) RecordUsage(ctx context.Context, ev model.UsageEvent) error {
	var args any
	if len(ev.Args) > 0 {
		b, err := json.Marshal(ev.Args)
		if err != nil {
			return fmt.Errorf("marshal args: %w", err)
		}
		args = string(b)
	}
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	ts := ev.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO usage (id, command, args, invoked_at) VALUES (?, ?, ?, ?)`,
		ev.ID, ev.Command, args, ts.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("record usage: %w", err)
	}
	return nil
}

// UsageStats returns per-command counts ranked by frequency, ties broken by
// most recent use.
func (s *SQLiteStore) UsageStats(ctx context.Context, opts UsageOpts) ([]model.UsageStat, error) {
	query := `SELECT command, COUNT(*) AS n, MAX(invoked_at) FROM usage`
	var args []any
	if !opts.Since.IsZero() {
		query += ` WHERE invoked_at >= ?`
		args = append(args, opts.Since.UTC().Format(timeLayout))
	}
	query += ` GROUP BY command ORDER BY n DESC, MAX(invoked_at) DESC`
	if opts.Top > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Top)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("usage stats: %w", err)
	}
	defer rows.Close()

	var stats []model.UsageStat
	for rows.Next() {
		var st model.UsageStat
		var last string
		if err := rows.Scan(&st.Command, &st.Count, &last); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		st.LastUsed, _ = time.Parse(timeLayout, last)
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

// RecentCommands returns up to limit recent commands, oldest first.
func (s *SQLiteStore) RecentCommands(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT command FROM usage ORDER BY invoked_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent commands: %w", err)
	}
	defer rows.Close()

	var cmds []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan command: %w", err)
		}
		cmds = append(cmds, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i, j := 0, len(cmds)-1; i < j; i, j = i+1, j-1 {
		cmds[i], cmds[j] = cmds[j], cmds[i]
	}
	return cmds, nil
}

// ResetUsage deletes all usage events.
func (s *SQLiteStore) ResetUsage(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM usage`)
	if err != nil {
		return 0, fmt.Errorf("reset usage: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

// SetAlias creates or updates a user alias.
func (s *SQLiteStore) SetAlias(ctx context.Context, a model.UserAlias) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO aliases (from_name, to_name, created_at) VALUES (?, ?, ?)`,
		a.From, a.To, time.Now().UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("set alias: %w", err)
	}
	return nil
}

// GetAliases returns all user aliases ordered by name.
func (s *SQLiteStore) GetAliases(ctx context.Context) ([]model.UserAlias, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT from_name, to_name, created_at FROM aliases ORDER BY from_name`)
	if err != nil {
		return nil, fmt.Errorf("get aliases: %w", err)
	}
	defer rows.Close()

	var aliases []model.UserAlias
	for rows.Next() {
		var a model.UserAlias
		var createdAt string
		if err := rows.Scan(&a.From, &a.To, &createdAt); err != nil {
			return nil, fmt.Errorf("scan alias: %w", err)
		}
		a.CreatedAt, _ = time.Parse(timeLayout, createdAt)
		aliases = append(aliases, a)
	}
	return aliases, rows.Err()
}

// DeleteAlias removes an alias. Returns true if deleted.
func (s *SQLiteStore) DeleteAlias(ctx context.Context, from string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM aliases WHERE from_name = ?`, from)
	if err != nil {
		return false, fmt.Errorf("delete alias: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
