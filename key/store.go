package key

import "sync"

// Store is a session-scoped key-value store for derived private scalars,
// keyed by lowercase wallet address with decimal-string values. It is a
// capability handed to the Deriver so the core stays storage-agnostic.
type Store interface {
	Get(address string) (value string, ok bool, err error)
	Put(address, value string) error
	Delete(address string) error
	Close() error
}

// MemoryStore is an in-process Store, suitable for a single session.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(address string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[address]
	return v, ok, nil
}

func (s *MemoryStore) Put(address, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[address] = value
	return nil
}

func (s *MemoryStore) Delete(address string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, address)
	return nil
}

func (s *MemoryStore) Close() error { return nil }
