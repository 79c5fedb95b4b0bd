package store

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketSession = []byte("session")

// tokenKey is the single durable key holding the bearer token
const tokenKey = "token"

// TokenStore implements domain.TokenStore using BoltDB.
// Tokens are namespaced by API URL so switching backends never reuses a
// credential issued by another server.
type TokenStore struct {
	db        *bolt.DB
	namespace string

	mu    sync.RWMutex
	cache map[string]string // memory copy of the namespace's keys
}

// NewTokenStore opens (or creates) the session database at path.
// An empty path gives a memory-only store that forgets the token on exit.
func NewTokenStore(path, apiURL string) (*TokenStore, error) {
	s := &TokenStore{
		namespace: hashAPIURL(apiURL),
		cache:     make(map[string]string),
	}
	if path == "" {
		return s, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSession)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	s.db = db
	return s, nil
}

func hashAPIURL(apiURL string) string {
	normalized := strings.TrimRight(strings.ToLower(apiURL), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

func (s *TokenStore) key(name string) []byte {
	return []byte(s.namespace + ":" + name)
}

// Close releases the database file lock
func (s *TokenStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Token returns the stored token, or "" when logged out
func (s *TokenStore) Token() (string, error) {
	s.mu.RLock()
	if v, ok := s.cache[tokenKey]; ok {
		s.mu.RUnlock()
		return v, nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return "", nil
	}

	var token string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSession)
		if b == nil {
			return nil
		}
		if v := b.Get(s.key(tokenKey)); v != nil {
			token = string(v) // copy; v is only valid inside the tx
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}

	s.mu.Lock()
	s.cache[tokenKey] = token
	s.mu.Unlock()

	return token, nil
}

// SaveToken persists token, replacing any previous one
func (s *TokenStore) SaveToken(token string) error {
	if token == "" {
		return s.ClearToken()
	}

	if s.db != nil {
		err := s.db.Update(func(tx *bolt.Tx) error {
			return tx.Bucket(bucketSession).Put(s.key(tokenKey), []byte(token))
		})
		if err != nil {
			return fmt.Errorf("failed to save token: %w", err)
		}
	}

	s.mu.Lock()
	s.cache[tokenKey] = token
	s.mu.Unlock()
	return nil
}

// ClearToken removes the stored token. The memory copy is dropped even if
// the database write fails.
func (s *TokenStore) ClearToken() error {
	s.mu.Lock()
	s.cache[tokenKey] = ""
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSession).Delete(s.key(tokenKey))
	})
	if err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	return nil
}
