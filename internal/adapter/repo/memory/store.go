package memory

import (
	"context"
	"sync"
	"time"

	"petworld/internal/domain/pet"
)

type Store struct {
	mu       sync.RWMutex
	users    map[string]pet.User
	metadata map[string]pet.Metadata
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:    make(map[string]pet.User),
		metadata: make(map[string]pet.Metadata),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func metaKey(userID string, petID uint64) string {
	return userID + "::" + formatID(petID)
}

type txKey struct{}

// do runs fn under the store lock unless ctx already holds it through RunInTx.
func (s *Store) do(ctx context.Context, fn func() error) error {
	if ctx.Value(txKey{}) == s {
		return fn()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

func (s *Store) SeedUser(u pet.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.WalletAddress] = u
}
