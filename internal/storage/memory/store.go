// Package memory provides an in-memory duel store using the dual-entry
// design: both orderings of a pair index one arena record, so the two
// directions can never drift apart.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Crown-Of-Wealth/Battlement-Game/internal/duel"
	"github.com/Crown-Of-Wealth/Battlement-Game/internal/storage"
)

// Store keeps duel sessions in process memory.
//
// Records live in a single arena; the index maps both orderings of a pair to
// the same record slot. There are never two independently mutable copies of
// one session.
type Store struct {
	mu    sync.RWMutex
	arena []duel.Session
	index map[pairKey]int
}

type pairKey struct {
	first  string
	second string
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{index: make(map[pairKey]int)}
}

// Get fetches the session for (a, b), oriented to the caller's perspective.
func (s *Store) Get(ctx context.Context, a, b string) (duel.Session, error) {
	if err := ctx.Err(); err != nil {
		return duel.Session{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	slot, ok := s.index[pairKey{a, b}]
	if !ok {
		return duel.Session{}, storage.ErrNotFound
	}
	return s.arena[slot].Oriented(a), nil
}

// Exists reports whether a session exists for the pair in either direction.
func (s *Store) Exists(ctx context.Context, a, b string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.index[pairKey{a, b}]; ok {
		return true, nil
	}
	_, ok := s.index[pairKey{b, a}]
	return ok, nil
}

// Put upserts the logical session. Both orderings are indexed in the same
// critical section, so a reader can never observe only one direction.
func (s *Store) Put(ctx context.Context, session duel.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	forward := pairKey{session.PlayerA, session.PlayerB}
	if slot, ok := s.index[forward]; ok {
		s.arena[slot] = session
		return nil
	}
	if slot, ok := s.index[pairKey{session.PlayerB, session.PlayerA}]; ok {
		s.arena[slot] = session.Oriented(s.arena[slot].PlayerA)
		return nil
	}

	s.arena = append(s.arena, session)
	slot := len(s.arena) - 1
	s.index[forward] = slot
	s.index[pairKey{session.PlayerB, session.PlayerA}] = slot
	return nil
}

// ListByPlayer returns every session involving the player.
func (s *Store) ListByPlayer(ctx context.Context, player string) ([]duel.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var sessions []duel.Session
	for _, record := range s.arena {
		if record.Involves(player) {
			sessions = append(sessions, record.Oriented(player))
		}
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].PlayerB < sessions[j].PlayerB
	})
	return sessions, nil
}
