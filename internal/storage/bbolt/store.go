// Package bbolt provides a BoltDB-backed duel store using the dual-entry
// design: each session is written under both orderings of its pair, with the
// positional fields transposed to match each key, inside one transaction.
package bbolt

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Crown-Of-Wealth/Battlement-Game/internal/duel"
	"github.com/Crown-Of-Wealth/Battlement-Game/internal/storage"
	"go.etcd.io/bbolt"
)

const duelBucket = "duel"

// keySeparator joins the two player identities into one bucket key.
// Identities must not contain a NUL byte.
const keySeparator = "\x00"

// Store provides a BoltDB-backed duel store.
type Store struct {
	db *bbolt.DB
}

// Open opens a BoltDB-backed store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	db, err := bbolt.Open(cleanPath, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}

	store := &Store{db: db}
	if err := store.ensureBuckets(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying BoltDB database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get fetches the session for (a, b). The payload under the (a, b) key is
// already oriented to that perspective, so no transposition is needed.
func (s *Store) Get(ctx context.Context, a, b string) (duel.Session, error) {
	if err := ctx.Err(); err != nil {
		return duel.Session{}, err
	}
	if s == nil || s.db == nil {
		return duel.Session{}, fmt.Errorf("storage is not configured")
	}

	var session duel.Session
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(duelBucket))
		if bucket == nil {
			return fmt.Errorf("duel bucket is missing")
		}
		payload := bucket.Get(duelKey(a, b))
		if payload == nil {
			return storage.ErrNotFound
		}
		if err := json.Unmarshal(payload, &session); err != nil {
			return fmt.Errorf("unmarshal duel session: %w", err)
		}
		return nil
	})
	if err != nil {
		return duel.Session{}, err
	}

	return session, nil
}

// Exists reports whether a session exists for the pair in either direction.
func (s *Store) Exists(ctx context.Context, a, b string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if s == nil || s.db == nil {
		return false, fmt.Errorf("storage is not configured")
	}

	var exists bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(duelBucket))
		if bucket == nil {
			return fmt.Errorf("duel bucket is missing")
		}
		exists = bucket.Get(duelKey(a, b)) != nil || bucket.Get(duelKey(b, a)) != nil
		return nil
	})
	if err != nil {
		return false, err
	}
	return exists, nil
}

// Put upserts the logical session. Both orientations are written in a single
// update transaction, so a partial write is never observable.
func (s *Store) Put(ctx context.Context, session duel.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(session.PlayerA) == "" || strings.TrimSpace(session.PlayerB) == "" {
		return fmt.Errorf("both player identities are required")
	}

	forward, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal duel session: %w", err)
	}
	reverse, err := json.Marshal(session.Oriented(session.PlayerB))
	if err != nil {
		return fmt.Errorf("marshal duel session: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(duelBucket))
		if bucket == nil {
			return fmt.Errorf("duel bucket is missing")
		}
		if err := bucket.Put(duelKey(session.PlayerA, session.PlayerB), forward); err != nil {
			return err
		}
		return bucket.Put(duelKey(session.PlayerB, session.PlayerA), reverse)
	})
}

// ListByPlayer returns every session involving the player.
func (s *Store) ListByPlayer(ctx context.Context, player string) ([]duel.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	prefix := []byte(player + keySeparator)
	var sessions []duel.Session
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(duelBucket))
		if bucket == nil {
			return fmt.Errorf("duel bucket is missing")
		}
		cursor := bucket.Cursor()
		for key, payload := cursor.Seek(prefix); key != nil && strings.HasPrefix(string(key), string(prefix)); key, payload = cursor.Next() {
			var session duel.Session
			if err := json.Unmarshal(payload, &session); err != nil {
				return fmt.Errorf("unmarshal duel session: %w", err)
			}
			sessions = append(sessions, session)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].PlayerB < sessions[j].PlayerB
	})
	return sessions, nil
}

func (s *Store) ensureBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(duelBucket))
		if err != nil {
			return fmt.Errorf("create duel bucket: %w", err)
		}
		return nil
	})
}

func duelKey(first, second string) []byte {
	return []byte(first + keySeparator + second)
}
