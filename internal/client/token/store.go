// Package token holds the access token of the current process in memory.
//
// The token is never persisted: a new process always starts without one and
// has to renew its session through the refresh cookie.
package token

import "sync"

// Store is a single owned cell for the access token. Only the session
// manager writes to it.
type Store interface {
	Set(token string)
	Get() string
	Clear()
}

// MemoryStore is a Store safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Set(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

func (s *MemoryStore) Get() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *MemoryStore) Clear() {
	s.Set("")
}
