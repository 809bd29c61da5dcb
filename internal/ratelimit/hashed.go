package ratelimit

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// HashedStore hashes client keys with a salt before they reach the wrapped
// store, so raw client addresses are never written to Redis or SQLite.
type HashedStore struct {
	next Store
	salt string
}

// NewHashedStore wraps next. An empty salt is replaced by a random one, which
// keeps keys consistent only within this process.
func NewHashedStore(next Store, salt string) (*HashedStore, error) {
	if salt == "" {
		generated, err := RandomSalt()
		if err != nil {
			return nil, err
		}
		salt = generated
	}
	return &HashedStore{next: next, salt: salt}, nil
}

// RandomSalt returns 32 random bytes encoded as hex.
func RandomSalt() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate key salt: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func (s *HashedStore) Get(ctx context.Context, key string) (Record, bool, error) {
	return s.next.Get(ctx, s.hash(key))
}

func (s *HashedStore) Set(ctx context.Context, key string, record Record) error {
	return s.next.Set(ctx, s.hash(key), record)
}

// hash is stable per salt and truncated to 16 hex characters.
func (s *HashedStore) hash(key string) string {
	sum := sha256.Sum256([]byte(key + s.salt))
	return hex.EncodeToString(sum[:])[:16]
}
