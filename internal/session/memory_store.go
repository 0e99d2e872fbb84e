package session

import (
	"context"
	"sync"

	"github.com/bandhanmatch/bandhan-web/internal/domain"
)

// MemoryStore is an in-process Store. Used when no Redis is configured and
// throughout the tests. State does not survive a restart.
type MemoryStore struct {
	mu       sync.RWMutex
	users    map[string]domain.User
	searches map[string]SearchState
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[string]domain.User),
		searches: make(map[string]SearchState),
	}
}

func (m *MemoryStore) SaveUser(_ context.Context, token string, u domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[cacheKey("user", token)] = u
	return nil
}

func (m *MemoryStore) LoadUser(_ context.Context, token string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[cacheKey("user", token)]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &u, nil
}

func (m *MemoryStore) SaveSearch(_ context.Context, token string, s SearchState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searches[cacheKey("search", token)] = s
	return nil
}

func (m *MemoryStore) LoadSearch(_ context.Context, token string) (*SearchState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.searches[cacheKey("search", token)]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &s, nil
}

func (m *MemoryStore) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, cacheKey("user", token))
	delete(m.searches, cacheKey("search", token))
	return nil
}
