package repo

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/merchguard/merchguard/engine/domain"
)

// MemoryStore is an in-memory Store for development and tests.
type MemoryStore struct {
	mu     sync.RWMutex
	checks map[uuid.UUID]Check
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{checks: make(map[uuid.UUID]Check)}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) Create(ctx context.Context, check Check) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.checks[check.ID]; exists {
		return fmt.Errorf("check %s already exists", check.ID)
	}
	s.checks[check.ID] = check
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id uuid.UUID) (Check, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	check, ok := s.checks[id]
	if !ok {
		return Check{}, fmt.Errorf("%w: check %s", domain.ErrNotFound, id)
	}
	return check, nil
}

func (s *MemoryStore) Update(ctx context.Context, check Check) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.checks[check.ID]; !ok {
		return fmt.Errorf("%w: check %s", domain.ErrNotFound, check.ID)
	}
	s.checks[check.ID] = check
	return nil
}

func (s *MemoryStore) List(ctx context.Context, opts ListOpts) ([]Check, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]Check, 0, len(s.checks))
	for _, c := range s.checks {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}
	if opts.Offset >= len(all) {
		return nil, nil
	}
	all = all[opts.Offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}
