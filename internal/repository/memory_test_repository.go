package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Vinay-014/email-spam-report/internal/models"
)

// MemoryTestRepository is an in-memory implementation of TestRepository.
type MemoryTestRepository struct {
	mu    sync.RWMutex
	tests map[string]*models.Test
}

func NewMemoryTestRepository() *MemoryTestRepository {
	return &MemoryTestRepository{tests: make(map[string]*models.Test)}
}

func (r *MemoryTestRepository) Create(_ context.Context, test *models.Test) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *test
	r.tests[test.ID] = &clone
	return nil
}

func (r *MemoryTestRepository) GetByID(_ context.Context, id string) (*models.Test, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	test, ok := r.tests[id]
	if !ok {
		return nil, ErrTestNotFound
	}
	clone := *test
	return &clone, nil
}

func (r *MemoryTestRepository) ListByStatus(_ context.Context, status models.TestStatus) ([]*models.Test, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var tests []*models.Test
	for _, test := range r.tests {
		if test.Status == status {
			clone := *test
			tests = append(tests, &clone)
		}
	}
	sort.Slice(tests, func(i, j int) bool { return tests[i].CreatedAt.Before(tests[j].CreatedAt) })
	return tests, nil
}

func (r *MemoryTestRepository) ListByUser(_ context.Context, userID string) ([]*models.Test, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var tests []*models.Test
	for _, test := range r.tests {
		if test.UserID == userID {
			clone := *test
			tests = append(tests, &clone)
		}
	}
	sort.Slice(tests, func(i, j int) bool { return tests[i].CreatedAt.After(tests[j].CreatedAt) })
	return tests, nil
}

func (r *MemoryTestRepository) MarkChecking(_ context.Context, id string, startedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	test, ok := r.tests[id]
	if !ok {
		return ErrTestNotFound
	}
	if test.Status != models.TestStatusPending {
		return ErrTestNotPending
	}
	test.Status = models.TestStatusChecking
	started := startedAt
	test.StartedAt = &started
	return nil
}

func (r *MemoryTestRepository) MarkCompleted(_ context.Context, id string, score int, completedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	test, ok := r.tests[id]
	if !ok {
		return ErrTestNotFound
	}
	test.Status = models.TestStatusCompleted
	completed := completedAt
	test.CompletedAt = &completed
	s := score
	test.DeliverabilityScore = &s
	return nil
}
