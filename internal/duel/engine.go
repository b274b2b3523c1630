package duel

// The engine is a family of pure functions over (session, caller, now).
// Every function receives the full current record and returns the next
// record or a rejection; nothing here touches a clock or a store.

// ValidateOngoing rejects operations against a concluded duel.
func ValidateOngoing(s Session) error {
	if s.Over() {
		return ErrGameOver
	}
	return nil
}

// ValidateTurn rejects actions from anyone but the current turn-holder.
func ValidateTurn(s Session, caller string) error {
	if s.Turn != caller {
		return ErrNotYourTurn
	}
	return nil
}

// ValidateTurnWindow rejects a move made after the per-turn window expired.
// A window of zero disables the check. This is stricter than match
// forfeiture: it blocks the acting player's own late move instead of
// rewarding the opponent.
func ValidateTurnWindow(s Session, now, window uint64) error {
	if window == 0 {
		return nil
	}
	if elapsed(s, now) >= window {
		return ErrTurnTimeout
	}
	return nil
}

// ApplyDamage resolves one attack by the given attacker: the defender loses
// AttackDamage health (floored at zero), the winner is recomputed, and the
// turn passes to the defender unless the duel just concluded, in which case
// the turn field is frozen at its last value.
//
// ApplyDamage assumes the turn and lifecycle gates have already passed.
func ApplyDamage(s Session, attacker string, now uint64) Session {
	switch attacker {
	case s.PlayerA:
		s.HealthB = clampHealth(s.HealthB - AttackDamage)
	case s.PlayerB:
		s.HealthA = clampHealth(s.HealthA - AttackDamage)
	default:
		return s
	}

	s.Winner = ResolveWinner(s.HealthA, s.HealthB, s.PlayerA, s.PlayerB)
	if s.Winner == "" {
		defender, _ := s.Opponent(attacker)
		s.Turn = defender
	}
	s.LastMoveAt = now
	return s
}

// ResolveWinner determines the winner from the two health pools.
// HealthA is checked first: should both pools reach zero in the same update
// (impossible under fixed per-move damage, but defined anyway), the A side
// hitting zero decides and playerB wins.
func ResolveWinner(healthA, healthB int, playerA, playerB string) string {
	if healthA == 0 {
		return playerB
	}
	if healthB == 0 {
		return playerA
	}
	return ""
}

// CheckForfeit validates a forfeit claim and, when eligible, returns the
// session with the caller recorded as winner. Health pools and the turn
// field are left untouched; only the waiting player (not the turn-holder)
// may claim the turn-holder's silence.
func CheckForfeit(s Session, caller string, now uint64) (Session, error) {
	if err := ValidateOngoing(s); err != nil {
		return Session{}, err
	}
	if s.Turn == caller {
		return Session{}, ErrNotYourTurn
	}
	if elapsed(s, now) < MatchTimeoutBlocks {
		return Session{}, ErrTimeoutNotReached
	}
	s.Winner = caller
	s.LastMoveAt = now
	return s, nil
}

// elapsed returns the blocks since the last state change, saturating at zero
// so a stale height can never underflow the subtraction.
func elapsed(s Session, now uint64) uint64 {
	if now < s.LastMoveAt {
		return 0
	}
	return now - s.LastMoveAt
}

func clampHealth(health int) int {
	if health < 0 {
		return 0
	}
	return health
}
