package artifact

import (
	"context"
	"sort"
	"sync"
)

// InMemoryStore is a trivial in-process Store implementation useful for
// tests, examples and single-process prototypes. It keeps all artifacts in a
// nested map guarded by an RWMutex. Data is copied on save and retrieval to
// avoid accidental external mutation of internal buffers.
//
// Layout: jobID -> name -> raw bytes
//
// This implementation is intentionally minimal; it does not enforce retention
// limits, size quotas, or eviction. For production, prefer the MinIO-backed
// store that can scale and survive process restarts.
type InMemoryStore struct {
	mu        sync.RWMutex
	artifacts map[string]map[string][]byte // jobID -> name -> data
}

// NewInMemoryStore returns an empty in-memory artifact store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{artifacts: make(map[string]map[string][]byte)}
}

// Put stores (or overwrites) the artifact bytes for the given job and name.
// The input slice is copied before storage. The content type is accepted for
// interface parity and ignored.
func (s *InMemoryStore) Put(_ context.Context, jobID, name string, data []byte, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.artifacts[jobID]; !exists {
		s.artifacts[jobID] = make(map[string][]byte)
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	s.artifacts[jobID][name] = cp
	return nil
}

// Get returns a copy of the stored artifact bytes or ErrNotFound.
func (s *InMemoryStore) Get(_ context.Context, jobID, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.artifacts[jobID]
	if !ok {
		return nil, ErrNotFound
	}
	data, ok := m[name]
	if !ok {
		return nil, ErrNotFound
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

// List returns name and size for every artifact stored under the job, sorted
// by name. The slice is a snapshot and safe for caller mutation.
func (s *InMemoryStore) List(_ context.Context, jobID string) ([]Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.artifacts[jobID]
	if !ok {
		return []Info{}, nil
	}
	infos := make([]Info, 0, len(m))
	for name, data := range m {
		infos = append(infos, Info{Name: name, Size: int64(len(data))})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// Delete removes the artifact if present or returns ErrNotFound.
func (s *InMemoryStore) Delete(_ context.Context, jobID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.artifacts[jobID]
	if !ok {
		return ErrNotFound
	}
	if _, ok := m[name]; !ok {
		return ErrNotFound
	}
	delete(m, name)
	return nil
}
