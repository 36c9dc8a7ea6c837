package storage

import "sync"

// MemoryStore keeps documents in a map. It is used in tests and for
// throwaway sessions.
type MemoryStore struct {
	mu     sync.RWMutex
	docs   map[string][]byte
	puts   int
	closed bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte)}
}

func (s *MemoryStore) Init() error { return nil }
func (s *MemoryStore) Load() error { return nil }

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *MemoryStore) GetDocument(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.docs[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (s *MemoryStore) PutDocument(key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[key] = append([]byte(nil), data...)
	s.puts++
	return nil
}

// Puts reports how many writes have happened.
func (s *MemoryStore) Puts() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.puts
}

func (s *MemoryStore) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

func (s *MemoryStore) GetConfigPath() string {
	return "memory"
}
