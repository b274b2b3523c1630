package bbolt

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Crown-Of-Wealth/Battlement-Game/internal/duel"
	"github.com/Crown-Of-Wealth/Battlement-Game/internal/storage"
	"github.com/Crown-Of-Wealth/Battlement-Game/internal/storage/storetest"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "duels.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return store
}

func TestStoreConformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) storage.DuelStore {
		return openTestStore(t)
	})
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for blank path")
	}
}

func TestSessionsSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "duels.db")
	ctx := context.Background()

	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	session, err := duel.NewSession("alice", "bob", 4)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	session = duel.ApplyDamage(session, "alice", 5)
	if err := store.Put(ctx, session); err != nil {
		t.Fatalf("put session: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer func() {
		if err := reopened.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	}()

	got, err := reopened.Get(ctx, "bob", "alice")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if want := session.Oriented("bob"); got != want {
		t.Fatalf("session after reopen = %+v, want %+v", got, want)
	}
}

func TestCloseIsNilSafe(t *testing.T) {
	var store *Store
	if err := store.Close(); err != nil {
		t.Fatalf("nil close: %v", err)
	}
}
