package repository

import (
	"context"
	"sync"

	"github.com/Vinay-014/email-spam-report/internal/models"
)

// MemoryProfileRepository is an in-memory implementation of ProfileRepository.
type MemoryProfileRepository struct {
	mu       sync.RWMutex
	profiles map[string]*models.Profile
}

func NewMemoryProfileRepository(profiles ...*models.Profile) *MemoryProfileRepository {
	repo := &MemoryProfileRepository{profiles: make(map[string]*models.Profile)}
	for _, profile := range profiles {
		clone := *profile
		repo.profiles[profile.ID] = &clone
	}
	return repo
}

func (r *MemoryProfileRepository) GetByID(_ context.Context, id string) (*models.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	profile, ok := r.profiles[id]
	if !ok {
		return nil, ErrProfileNotFound
	}
	clone := *profile
	return &clone, nil
}
