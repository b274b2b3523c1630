package memory

import (
	"context"
	"testing"

	"github.com/Crown-Of-Wealth/Battlement-Game/internal/duel"
	"github.com/Crown-Of-Wealth/Battlement-Game/internal/storage"
	"github.com/Crown-Of-Wealth/Battlement-Game/internal/storage/storetest"
)

func TestStoreConformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) storage.DuelStore {
		return New()
	})
}

// TestArenaSharesOneRecord confirms both index directions resolve to a single
// mutable record rather than two copies.
func TestArenaSharesOneRecord(t *testing.T) {
	store := New()
	ctx := context.Background()

	session, err := duel.NewSession("alice", "bob", 0)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if err := store.Put(ctx, session); err != nil {
		t.Fatalf("put session: %v", err)
	}
	if len(store.arena) != 1 {
		t.Fatalf("arena length = %d, want 1", len(store.arena))
	}
	if len(store.index) != 2 {
		t.Fatalf("index length = %d, want both orientations", len(store.index))
	}

	// A reverse-oriented update must land in the same arena slot.
	flipped := session.Oriented("bob")
	flipped.HealthB = 50
	if err := store.Put(ctx, flipped); err != nil {
		t.Fatalf("put flipped session: %v", err)
	}
	if len(store.arena) != 1 {
		t.Fatalf("arena length = %d after update, want 1", len(store.arena))
	}
	got, ok := store.arena[0].HealthOf("alice")
	if !ok || got != 50 {
		t.Fatalf("alice health in arena = %d (%v), want 50", got, ok)
	}
}
