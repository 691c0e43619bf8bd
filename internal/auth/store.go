package auth

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

// ErrTokenNotFound is returned by TokenStore.Get when no value exists
// for the requested key.
var ErrTokenNotFound = errors.New("token not found")

// TokenStore is the persistence boundary for per-user token records.
// Values are JSON-serialized TokenInfo; keys are stringified user ids.
// Implementations must provide read-after-write consistency for a single
// writer.
type TokenStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// MemoryTokenStore keeps tokens in process memory. Suitable for tests and
// single-run sessions; everything is lost on restart.
type MemoryTokenStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemoryTokenStore creates an empty in-memory store.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{values: make(map[string][]byte)}
}

// Get returns the stored value or ErrTokenNotFound.
func (s *MemoryTokenStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return nil, ErrTokenNotFound
	}
	return append([]byte(nil), v...), nil
}

// Put stores a value, replacing any previous one.
func (s *MemoryTokenStore) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = append([]byte(nil), value...)
	return nil
}

// Delete removes a value. Deleting a missing key is not an error.
func (s *MemoryTokenStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return nil
}

const (
	// storeDirPerm is the permission mode for the token database directory.
	storeDirPerm = fs.FileMode(0o700)

	// storeFilePerm is the permission mode for the token database file.
	storeFilePerm = fs.FileMode(0o600)

	// storeOpenTimeout is the maximum time to wait for the bolt file lock.
	storeOpenTimeout = 5 * time.Second
)

var tokensBucket = []byte("oauth_tokens")

// BoltTokenStore persists token records in a bbolt database, so OAuth
// sessions survive process restarts.
type BoltTokenStore struct {
	db *bolt.DB
}

// OpenBoltTokenStore opens (creating if needed) the token database at path.
func OpenBoltTokenStore(path string) (*BoltTokenStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), storeDirPerm); err != nil {
		return nil, fmt.Errorf("creating token store directory: %w", err)
	}

	db, err := bolt.Open(path, storeFilePerm, &bolt.Options{Timeout: storeOpenTimeout})
	if err != nil {
		return nil, fmt.Errorf("opening token store: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(tokensBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tokens bucket: %w", err)
	}

	return &BoltTokenStore{db: db}, nil
}

// Close closes the underlying database.
func (s *BoltTokenStore) Close() error {
	return s.db.Close()
}

// Get returns the stored value or ErrTokenNotFound.
func (s *BoltTokenStore) Get(_ context.Context, key string) ([]byte, error) {
	var value []byte

	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(tokensBucket).Get([]byte(key))
		if v == nil {
			return ErrTokenNotFound
		}
		value = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}

// Put stores a value, replacing any previous one.
func (s *BoltTokenStore) Put(_ context.Context, key string, value []byte) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(tokensBucket).Put([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("storing token for %q: %w", key, err)
	}
	return nil
}

// Delete removes a value. Deleting a missing key is not an error.
func (s *BoltTokenStore) Delete(_ context.Context, key string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(tokensBucket).Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("deleting token for %q: %w", key, err)
	}
	return nil
}
