// Package storage defines the persistence contract for duel sessions.
//
// A session is addressed by its unordered pair of players: Get and Exists
// must answer identically no matter which direction the caller names first,
// and Get returns the record oriented to the caller's perspective (PlayerA is
// always the first argument). Implementations are free to realize this with
// a canonical key or with dual entries, as long as the two directions can
// never be observed disagreeing.
package storage

import (
	"context"
	"errors"

	"github.com/Crown-Of-Wealth/Battlement-Game/internal/duel"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// DuelStore persists duel session records.
type DuelStore interface {
	// Get fetches the session for the pair (a, b), oriented so that the
	// returned PlayerA equals a. Returns ErrNotFound when absent.
	Get(ctx context.Context, a, b string) (duel.Session, error)
	// Exists reports whether a session exists for the pair in either
	// direction.
	Exists(ctx context.Context, a, b string) (bool, error)
	// Put upserts the logical session. The write is atomic with respect
	// to orientation: no reader may observe the two directions of one
	// session disagreeing.
	Put(ctx context.Context, session duel.Session) error
	// ListByPlayer returns every session (ongoing or concluded) involving
	// the player, oriented so the player is PlayerA.
	ListByPlayer(ctx context.Context, player string) ([]duel.Session, error)
}
