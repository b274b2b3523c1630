// Package duel holds the duel session record and the pure rules engine.
//
// A session is a turn-based match between exactly two players. Each player
// starts with a fixed health pool, attacks deal fixed damage, and the first
// player to drive the opponent's health to zero wins. A stalled match can be
// claimed by the waiting player once the forfeit window elapses.
package duel

import (
	"strings"

	apperrors "github.com/Crown-Of-Wealth/Battlement-Game/internal/platform/errors"
)

const (
	// StartingHealth is the health pool each player begins with.
	StartingHealth = 100
	// AttackDamage is the fixed damage dealt by every successful attack.
	AttackDamage = 10
	// MatchTimeoutBlocks is the number of blocks of inactivity after which
	// the waiting player may claim the match by forfeit.
	MatchTimeoutBlocks uint64 = 20
)

var (
	// ErrNotFound indicates no duel exists for the addressed pair.
	ErrNotFound = apperrors.New(apperrors.CodeDuelNotFound, "no duel exists for this pair")
	// ErrAlreadyExists indicates an ongoing duel already exists for the pair.
	ErrAlreadyExists = apperrors.New(apperrors.CodeDuelAlreadyExists, "duel already exists for this pair")
	// ErrSelfPlay indicates a player tried to duel themselves.
	ErrSelfPlay = apperrors.New(apperrors.CodeDuelSelfPlay, "a player cannot duel themselves")
	// ErrInvalidOpponent indicates a missing or blank player identity.
	ErrInvalidOpponent = apperrors.New(apperrors.CodeDuelInvalidOpponent, "opponent identity is required")
	// ErrNotYourTurn indicates the caller is not the current turn-holder.
	ErrNotYourTurn = apperrors.New(apperrors.CodeDuelNotYourTurn, "caller is not the turn-holder")
	// ErrGameOver indicates the duel already has a winner.
	ErrGameOver = apperrors.New(apperrors.CodeDuelOver, "duel is already over")
	// ErrTimeoutNotReached indicates the forfeit window has not elapsed.
	ErrTimeoutNotReached = apperrors.New(apperrors.CodeDuelTimeoutNotReached, "forfeit timeout not reached")
	// ErrTurnTimeout indicates the acting player waited past the turn window.
	ErrTurnTimeout = apperrors.New(apperrors.CodeDuelTurnTimeout, "turn window expired")
	// ErrWrongPlayer indicates the caller addressed a role they do not hold.
	ErrWrongPlayer = apperrors.New(apperrors.CodeDuelWrongPlayer, "caller does not hold this role in the duel")
)

// Session represents one duel between two players.
//
// PlayerA/HealthA and PlayerB/HealthB are positional: stores may transpose
// them when answering a lookup from the opposite direction. Turn, Winner and
// CreatedBy hold player identities and never need transposing.
type Session struct {
	PlayerA string
	PlayerB string
	HealthA int
	HealthB int
	// Turn is the identity of the player due to act next. It stops being
	// meaningful once Winner is set.
	Turn string
	// Winner is empty while the duel is ongoing. Once set it never changes.
	Winner string
	// CreatedBy is the initiator of the duel. The initiator acts through
	// Attack; the opponent acts through CounterAttack.
	CreatedBy string
	// LastMoveAt is the block height of the most recent state change,
	// used only for timeout arithmetic.
	LastMoveAt uint64
}

// NewSession starts a duel between an initiator and an opponent.
// The initiator holds the first turn.
func NewSession(initiator, opponent string, now uint64) (Session, error) {
	initiator = strings.TrimSpace(initiator)
	opponent = strings.TrimSpace(opponent)
	if initiator == "" || opponent == "" {
		return Session{}, ErrInvalidOpponent
	}
	if initiator == opponent {
		return Session{}, ErrSelfPlay
	}
	return Session{
		PlayerA:    initiator,
		PlayerB:    opponent,
		HealthA:    StartingHealth,
		HealthB:    StartingHealth,
		Turn:       initiator,
		CreatedBy:  initiator,
		LastMoveAt: now,
	}, nil
}

// Over reports whether the duel has concluded.
func (s Session) Over() bool {
	return s.Winner != ""
}

// Involves reports whether the player is one of the duel's two participants.
func (s Session) Involves(player string) bool {
	return player == s.PlayerA || player == s.PlayerB
}

// Opponent returns the other participant of the duel.
func (s Session) Opponent(player string) (string, bool) {
	switch player {
	case s.PlayerA:
		return s.PlayerB, true
	case s.PlayerB:
		return s.PlayerA, true
	default:
		return "", false
	}
}

// HealthOf returns the health pool of the given participant.
func (s Session) HealthOf(player string) (int, bool) {
	switch player {
	case s.PlayerA:
		return s.HealthA, true
	case s.PlayerB:
		return s.HealthB, true
	default:
		return 0, false
	}
}

// Oriented returns the session transposed so that PlayerA == first.
// Identity-valued fields (Turn, Winner, CreatedBy) are unaffected, so both
// orientations always describe the identical logical session.
func (s Session) Oriented(first string) Session {
	if s.PlayerA == first {
		return s
	}
	s.PlayerA, s.PlayerB = s.PlayerB, s.PlayerA
	s.HealthA, s.HealthB = s.HealthB, s.HealthA
	return s
}
