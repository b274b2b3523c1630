// Package storetest holds the conformance suite every duel store must pass.
package storetest

import (
	"context"
	"errors"
	"testing"

	"github.com/Crown-Of-Wealth/Battlement-Game/internal/duel"
	"github.com/Crown-Of-Wealth/Battlement-Game/internal/storage"
)

// Factory builds a fresh, empty store for one test.
type Factory func(t *testing.T) storage.DuelStore

// Run exercises the storage contract against a store implementation. Both
// the canonical-key and dual-entry designs must pass: the suite checks that
// the two lookup directions can never be observed disagreeing.
func Run(t *testing.T, factory Factory) {
	t.Run("GetMissing", func(t *testing.T) {
		store := factory(t)
		_, err := store.Get(context.Background(), "alice", "bob")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("PutAndGetBothDirections", func(t *testing.T) {
		store := factory(t)
		ctx := context.Background()
		session := sampleSession()

		if err := store.Put(ctx, session); err != nil {
			t.Fatalf("put session: %v", err)
		}

		forward, err := store.Get(ctx, "alice", "bob")
		if err != nil {
			t.Fatalf("get forward: %v", err)
		}
		if forward != session {
			t.Fatalf("forward session = %+v, want %+v", forward, session)
		}

		reverse, err := store.Get(ctx, "bob", "alice")
		if err != nil {
			t.Fatalf("get reverse: %v", err)
		}
		if want := session.Oriented("bob"); reverse != want {
			t.Fatalf("reverse session = %+v, want %+v", reverse, want)
		}
	})

	t.Run("ExistsBothDirections", func(t *testing.T) {
		store := factory(t)
		ctx := context.Background()

		for _, pair := range [][2]string{{"alice", "bob"}, {"bob", "alice"}} {
			exists, err := store.Exists(ctx, pair[0], pair[1])
			if err != nil {
				t.Fatalf("exists(%s, %s): %v", pair[0], pair[1], err)
			}
			if exists {
				t.Fatalf("exists(%s, %s) = true on empty store", pair[0], pair[1])
			}
		}

		if err := store.Put(ctx, sampleSession()); err != nil {
			t.Fatalf("put session: %v", err)
		}

		for _, pair := range [][2]string{{"alice", "bob"}, {"bob", "alice"}} {
			exists, err := store.Exists(ctx, pair[0], pair[1])
			if err != nil {
				t.Fatalf("exists(%s, %s): %v", pair[0], pair[1], err)
			}
			if !exists {
				t.Fatalf("exists(%s, %s) = false, want true", pair[0], pair[1])
			}
		}
	})

	t.Run("UpdateKeepsDirectionsConsistent", func(t *testing.T) {
		store := factory(t)
		ctx := context.Background()
		session := sampleSession()
		if err := store.Put(ctx, session); err != nil {
			t.Fatalf("put session: %v", err)
		}

		// Mutate through the reverse orientation, as a counter-attacking
		// player would address the record.
		updated, err := store.Get(ctx, "bob", "alice")
		if err != nil {
			t.Fatalf("get reverse: %v", err)
		}
		updated.HealthB -= duel.AttackDamage // alice's pool from bob's view
		updated.Turn = "alice"
		updated.LastMoveAt = 9
		if err := store.Put(ctx, updated); err != nil {
			t.Fatalf("put updated session: %v", err)
		}

		forward, err := store.Get(ctx, "alice", "bob")
		if err != nil {
			t.Fatalf("get forward: %v", err)
		}
		if forward.HealthA != duel.StartingHealth-duel.AttackDamage {
			t.Fatalf("alice health = %d, want %d", forward.HealthA, duel.StartingHealth-duel.AttackDamage)
		}
		if forward.HealthB != duel.StartingHealth {
			t.Fatalf("bob health = %d, want %d", forward.HealthB, duel.StartingHealth)
		}
		if forward.Turn != "alice" || forward.LastMoveAt != 9 {
			t.Fatalf("forward view out of sync: %+v", forward)
		}
		if want := updated.Oriented("alice"); forward != want {
			t.Fatalf("directions disagree: forward %+v, reverse-derived %+v", forward, want)
		}
	})

	t.Run("ReadsAreIdempotent", func(t *testing.T) {
		store := factory(t)
		ctx := context.Background()
		if err := store.Put(ctx, sampleSession()); err != nil {
			t.Fatalf("put session: %v", err)
		}

		first, err := store.Get(ctx, "alice", "bob")
		if err != nil {
			t.Fatalf("first get: %v", err)
		}
		second, err := store.Get(ctx, "alice", "bob")
		if err != nil {
			t.Fatalf("second get: %v", err)
		}
		if first != second {
			t.Fatalf("reads differ without mutation: %+v vs %+v", first, second)
		}
	})

	t.Run("ListByPlayer", func(t *testing.T) {
		store := factory(t)
		ctx := context.Background()

		pairs := [][2]string{{"alice", "bob"}, {"carol", "alice"}, {"carol", "dave"}}
		for _, pair := range pairs {
			session, err := duel.NewSession(pair[0], pair[1], 3)
			if err != nil {
				t.Fatalf("new session: %v", err)
			}
			if err := store.Put(ctx, session); err != nil {
				t.Fatalf("put session: %v", err)
			}
		}

		sessions, err := store.ListByPlayer(ctx, "alice")
		if err != nil {
			t.Fatalf("list by player: %v", err)
		}
		if len(sessions) != 2 {
			t.Fatalf("len(sessions) = %d, want 2", len(sessions))
		}
		for _, session := range sessions {
			if session.PlayerA != "alice" {
				t.Fatalf("session not oriented to alice: %+v", session)
			}
		}

		none, err := store.ListByPlayer(ctx, "mallory")
		if err != nil {
			t.Fatalf("list by player: %v", err)
		}
		if len(none) != 0 {
			t.Fatalf("len(sessions) = %d for outsider, want 0", len(none))
		}
	})

	t.Run("CanceledContext", func(t *testing.T) {
		store := factory(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := store.Get(ctx, "alice", "bob"); err == nil {
			t.Fatal("expected error from canceled context")
		}
		if err := store.Put(ctx, sampleSession()); err == nil {
			t.Fatal("expected error from canceled context")
		}
	})
}

func sampleSession() duel.Session {
	return duel.Session{
		PlayerA:    "alice",
		PlayerB:    "bob",
		HealthA:    duel.StartingHealth,
		HealthB:    duel.StartingHealth,
		Turn:       "alice",
		CreatedBy:  "alice",
		LastMoveAt: 1,
	}
}
