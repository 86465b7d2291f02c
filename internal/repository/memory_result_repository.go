package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/Vinay-014/email-spam-report/internal/models"
)

type resultKey struct {
	testID  string
	inboxID string
}

// MemoryResultRepository is an in-memory implementation of ResultRepository.
// It enforces the same one-row-per-(test, inbox) constraint the SQL schema
// carries as a unique index.
type MemoryResultRepository struct {
	mu      sync.RWMutex
	results map[resultKey]*models.TestResult
}

func NewMemoryResultRepository() *MemoryResultRepository {
	return &MemoryResultRepository{results: make(map[resultKey]*models.TestResult)}
}

func (r *MemoryResultRepository) Insert(_ context.Context, result *models.TestResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := resultKey{testID: result.TestID, inboxID: result.InboxID}
	if _, ok := r.results[key]; ok {
		return ErrDuplicateResult
	}
	clone := *result
	r.results[key] = &clone
	return nil
}

func (r *MemoryResultRepository) Exists(_ context.Context, testID, inboxID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.results[resultKey{testID: testID, inboxID: inboxID}]
	return ok, nil
}

func (r *MemoryResultRepository) ListByTest(_ context.Context, testID string) ([]*models.TestResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var results []*models.TestResult
	for key, result := range r.results {
		if key.testID == testID {
			clone := *result
			results = append(results, &clone)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].CreatedAt.Before(results[j].CreatedAt) })
	return results, nil
}
