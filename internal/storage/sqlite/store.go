// Package sqlite provides a SQLite-backed duel store using the canonical-key
// design: one row per pair, keyed by the lexicographic ordering of the two
// player identities. Reads transpose back to the caller's perspective.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Crown-Of-Wealth/Battlement-Game/internal/duel"
	"github.com/Crown-Of-Wealth/Battlement-Game/internal/platform/storage/sqlitemigrate"
	"github.com/Crown-Of-Wealth/Battlement-Game/internal/storage"
	"github.com/Crown-Of-Wealth/Battlement-Game/internal/storage/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// Store provides a SQLite-backed duel store.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a SQLite duel store at the provided path and applies embedded
// migrations before the store is handed to higher layers.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS, "."); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the underlying SQLite database.
//
// Close is intentionally nil-safe so callers can defer it in all startup paths.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Get fetches the session for (a, b), oriented to the caller's perspective.
func (s *Store) Get(ctx context.Context, a, b string) (duel.Session, error) {
	if err := ctx.Err(); err != nil {
		return duel.Session{}, err
	}
	if s == nil || s.sqlDB == nil {
		return duel.Session{}, fmt.Errorf("storage is not configured")
	}

	lo, hi := canonicalPair(a, b)
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT player_lo, player_hi, health_lo, health_hi, turn, winner, created_by, last_move_at
FROM duels WHERE player_lo = ? AND player_hi = ?`, lo, hi)

	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return duel.Session{}, storage.ErrNotFound
		}
		return duel.Session{}, fmt.Errorf("query duel session: %w", err)
	}
	return session.Oriented(a), nil
}

// Exists reports whether a session exists for the pair in either direction.
// The canonical key already covers both orderings.
func (s *Store) Exists(ctx context.Context, a, b string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if s == nil || s.sqlDB == nil {
		return false, fmt.Errorf("storage is not configured")
	}

	lo, hi := canonicalPair(a, b)
	var found int
	err := s.sqlDB.QueryRowContext(ctx,
		"SELECT 1 FROM duels WHERE player_lo = ? AND player_hi = ?", lo, hi).Scan(&found)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("query duel session: %w", err)
	}
	return true, nil
}

// Put upserts the logical session under its canonical key. A single row holds
// the only copy, so the two lookup directions cannot diverge.
func (s *Store) Put(ctx context.Context, session duel.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(session.PlayerA) == "" || strings.TrimSpace(session.PlayerB) == "" {
		return fmt.Errorf("both player identities are required")
	}

	lo, _ := canonicalPair(session.PlayerA, session.PlayerB)
	canonical := session.Oriented(lo)

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO duels (player_lo, player_hi, health_lo, health_hi, turn, winner, created_by, last_move_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (player_lo, player_hi) DO UPDATE SET
    health_lo = excluded.health_lo,
    health_hi = excluded.health_hi,
    turn = excluded.turn,
    winner = excluded.winner,
    last_move_at = excluded.last_move_at`,
		canonical.PlayerA, canonical.PlayerB,
		canonical.HealthA, canonical.HealthB,
		canonical.Turn, canonical.Winner, canonical.CreatedBy,
		int64(canonical.LastMoveAt),
	)
	if err != nil {
		return fmt.Errorf("upsert duel session: %w", err)
	}
	return nil
}

// ListByPlayer returns every session involving the player.
func (s *Store) ListByPlayer(ctx context.Context, player string) ([]duel.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT player_lo, player_hi, health_lo, health_hi, turn, winner, created_by, last_move_at
FROM duels WHERE player_lo = ? OR player_hi = ?
ORDER BY player_lo, player_hi`, player, player)
	if err != nil {
		return nil, fmt.Errorf("query duel sessions: %w", err)
	}
	defer rows.Close()

	var sessions []duel.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan duel session: %w", err)
		}
		sessions = append(sessions, session.Oriented(player))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read duel sessions: %w", err)
	}
	return sessions, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (duel.Session, error) {
	var session duel.Session
	var lastMoveAt int64
	err := row.Scan(
		&session.PlayerA, &session.PlayerB,
		&session.HealthA, &session.HealthB,
		&session.Turn, &session.Winner, &session.CreatedBy,
		&lastMoveAt,
	)
	if err != nil {
		return duel.Session{}, err
	}
	session.LastMoveAt = uint64(lastMoveAt)
	return session, nil
}

// canonicalPair derives the storage ordering for a pair of identities.
// The comparison is over the raw bytes of the identity strings, so it is
// total, deterministic, and independent of which player initiated the lookup.
func canonicalPair(a, b string) (lo, hi string) {
	if a <= b {
		return a, b
	}
	return b, a
}
