package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/Vinay-014/email-spam-report/internal/models"
)

// MemoryInboxRepository is an in-memory implementation of InboxRepository.
type MemoryInboxRepository struct {
	mu      sync.RWMutex
	inboxes []*models.TestInbox
}

func NewMemoryInboxRepository(inboxes ...*models.TestInbox) *MemoryInboxRepository {
	repo := &MemoryInboxRepository{}
	for _, inbox := range inboxes {
		clone := *inbox
		repo.inboxes = append(repo.inboxes, &clone)
	}
	return repo
}

func (r *MemoryInboxRepository) Add(inbox *models.TestInbox) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *inbox
	r.inboxes = append(r.inboxes, &clone)
}

func (r *MemoryInboxRepository) List(_ context.Context) ([]*models.TestInbox, error) {
	return r.list(false), nil
}

func (r *MemoryInboxRepository) ListActive(_ context.Context) ([]*models.TestInbox, error) {
	return r.list(true), nil
}

func (r *MemoryInboxRepository) list(activeOnly bool) []*models.TestInbox {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var inboxes []*models.TestInbox
	for _, inbox := range r.inboxes {
		if activeOnly && !inbox.IsActive {
			continue
		}
		clone := *inbox
		inboxes = append(inboxes, &clone)
	}
	sort.Slice(inboxes, func(i, j int) bool { return inboxes[i].CreatedAt.Before(inboxes[j].CreatedAt) })
	return inboxes
}
