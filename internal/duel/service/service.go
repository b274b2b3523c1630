// Package service exposes the duel lifecycle operations over a duel store.
//
// Every mutating call is a single read-validate-write transaction under a
// per-pair lock: operations on the same pair serialize, operations on
// disjoint pairs proceed independently. The current block height is injected
// per call; the service never reads a clock.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Crown-Of-Wealth/Battlement-Game/internal/duel"
	apperrors "github.com/Crown-Of-Wealth/Battlement-Game/internal/platform/errors"
	"github.com/Crown-Of-Wealth/Battlement-Game/internal/storage"
)

// Status labels reported by StatusText.
const (
	StatusNoSession = "no-session"
	StatusOngoing   = "ongoing"
	statusOverLabel = "over:"
)

// Service coordinates duel operations against a store.
type Service struct {
	store storage.DuelStore
	// turnTimeoutBlocks bounds how long the turn-holder may sit on a move
	// before their own attack is rejected. Zero disables the window.
	turnTimeoutBlocks uint64

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Option configures optional service behavior.
type Option func(*Service)

// WithTurnTimeout enables the per-move turn window, in blocks.
func WithTurnTimeout(blocks uint64) Option {
	return func(s *Service) {
		s.turnTimeoutBlocks = blocks
	}
}

// New creates a duel service backed by the given store.
func New(store storage.DuelStore, opts ...Option) *Service {
	s := &Service{
		store: store,
		locks: make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Create starts a duel between the initiator and an opponent. The initiator
// holds the first turn. Creation fails if a session already exists for the
// pair under either orientation.
func (s *Service) Create(ctx context.Context, initiator, opponent string, now uint64) error {
	session, err := duel.NewSession(initiator, opponent, now)
	if err != nil {
		return err
	}

	// NewSession trims the identities. The lock, the duplicate check, and
	// the error metadata must all use the normalized forms, or a padded
	// spelling of an existing pair would slip past the rejection and reset
	// the live session.
	unlock := s.lockPair(session.PlayerA, session.PlayerB)
	defer unlock()

	exists, err := s.store.Exists(ctx, session.PlayerA, session.PlayerB)
	if err != nil {
		return fmt.Errorf("check duel existence: %w", err)
	}
	if exists {
		return apperrors.WithMetadata(apperrors.CodeDuelAlreadyExists,
			"duel already exists for this pair",
			map[string]string{"PlayerA": session.PlayerA, "PlayerB": session.PlayerB})
	}

	if err := s.store.Put(ctx, session); err != nil {
		return fmt.Errorf("write duel session: %w", err)
	}
	return nil
}

// Attack is the initiator's face of "the acting player moves". A caller who
// is not the duel's initiator must use CounterAttack instead; addressing the
// wrong face fails loudly rather than guessing the caller's role.
func (s *Service) Attack(ctx context.Context, caller, opponent string, now uint64) error {
	return s.strike(ctx, caller, opponent, now, true)
}

// CounterAttack is the non-initiator's face of "the acting player moves".
func (s *Service) CounterAttack(ctx context.Context, caller, opponent string, now uint64) error {
	return s.strike(ctx, caller, opponent, now, false)
}

func (s *Service) strike(ctx context.Context, caller, opponent string, now uint64, asInitiator bool) error {
	unlock := s.lockPair(caller, opponent)
	defer unlock()

	session, err := s.load(ctx, caller, opponent)
	if err != nil {
		return err
	}

	isInitiator := session.CreatedBy == caller
	if isInitiator != asInitiator {
		role := "first"
		if !asInitiator {
			role = "second"
		}
		return apperrors.WithMetadata(apperrors.CodeDuelWrongPlayer,
			"caller does not hold this role in the duel",
			map[string]string{"Role": role})
	}

	if err := duel.ValidateOngoing(session); err != nil {
		return err
	}
	if err := duel.ValidateTurn(session, caller); err != nil {
		return err
	}
	if err := duel.ValidateTurnWindow(session, now, s.turnTimeoutBlocks); err != nil {
		return err
	}

	next := duel.ApplyDamage(session, caller, now)
	if err := s.store.Put(ctx, next); err != nil {
		return fmt.Errorf("write duel session: %w", err)
	}
	return nil
}

// Forfeit awards the duel to the caller once the turn-holder has been silent
// for the full match timeout. Only the waiting player may claim it.
func (s *Service) Forfeit(ctx context.Context, caller, opponent string, now uint64) error {
	unlock := s.lockPair(caller, opponent)
	defer unlock()

	session, err := s.load(ctx, caller, opponent)
	if err != nil {
		return err
	}

	next, err := duel.CheckForfeit(session, caller, now)
	if err != nil {
		return err
	}
	if err := s.store.Put(ctx, next); err != nil {
		return fmt.Errorf("write duel session: %w", err)
	}
	return nil
}

// Get fetches the session for a pair, oriented to the first argument.
// A missing session is reported via found=false, not an error, so callers
// can branch between never-played, playing, and finished.
func (s *Service) Get(ctx context.Context, a, b string) (duel.Session, bool, error) {
	session, err := s.store.Get(ctx, a, b)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return duel.Session{}, false, nil
		}
		return duel.Session{}, false, fmt.Errorf("read duel session: %w", err)
	}
	return session, true, nil
}

// IsTurn reports whether the caller currently holds the turn. It is false
// when no session exists or the duel is over.
func (s *Service) IsTurn(ctx context.Context, caller, opponent string) (bool, error) {
	session, found, err := s.Get(ctx, caller, opponent)
	if err != nil {
		return false, err
	}
	if !found || session.Over() {
		return false, nil
	}
	return session.Turn == caller, nil
}

// StatusText reports the coarse session state for a pair.
func (s *Service) StatusText(ctx context.Context, a, b string) (string, error) {
	session, found, err := s.Get(ctx, a, b)
	if err != nil {
		return "", err
	}
	switch {
	case !found:
		return StatusNoSession, nil
	case session.Over():
		return statusOverLabel + session.Winner, nil
	default:
		return StatusOngoing, nil
	}
}

// History returns every session involving the player, oriented to the player.
func (s *Service) History(ctx context.Context, player string) ([]duel.Session, error) {
	sessions, err := s.store.ListByPlayer(ctx, player)
	if err != nil {
		return nil, fmt.Errorf("list duel sessions: %w", err)
	}
	return sessions, nil
}

// load fetches the (caller, opponent) session, mapping a missing record to
// the domain not-found error.
func (s *Service) load(ctx context.Context, caller, opponent string) (duel.Session, error) {
	session, err := s.store.Get(ctx, caller, opponent)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return duel.Session{}, duel.ErrNotFound
		}
		return duel.Session{}, fmt.Errorf("read duel session: %w", err)
	}
	return session, nil
}

// lockPair serializes operations on one unordered pair. The lock key is the
// canonical ordering of the two identities, so both directions contend on
// the same mutex. Mutexes are retained for the life of the process; the
// record set is permanent too, so the map is bounded by the number of pairs
// ever played.
func (s *Service) lockPair(a, b string) func() {
	key := a + "\x00" + b
	if b < a {
		key = b + "\x00" + a
	}

	s.mu.Lock()
	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
