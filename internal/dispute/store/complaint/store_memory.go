package complaint

import (
	"context"
	"sort"
	"sync"

	"trustestate/internal/dispute/models"
	id "trustestate/pkg/domain"
	"trustestate/pkg/platform/sentinel"
)

// InMemoryComplaintStore keeps complaints in a map guarded by one mutex.
type InMemoryComplaintStore struct {
	mu         sync.RWMutex
	complaints map[id.ComplaintID]*models.Complaint
}

func New() *InMemoryComplaintStore {
	return &InMemoryComplaintStore{complaints: make(map[id.ComplaintID]*models.Complaint)}
}

func (s *InMemoryComplaintStore) Create(_ context.Context, c *models.Complaint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.complaints[c.ID]; exists {
		return sentinel.ErrConflict
	}
	s.complaints[c.ID] = c.Clone()
	return nil
}

func (s *InMemoryComplaintStore) FindByID(_ context.Context, complaintID id.ComplaintID) (*models.Complaint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.complaints[complaintID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return c.Clone(), nil
}

// List returns complaints newest first, optionally only unresolved ones.
func (s *InMemoryComplaintStore) List(_ context.Context, openOnly bool) ([]*models.Complaint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Complaint, 0, len(s.complaints))
	for _, c := range s.complaints {
		if openOnly && c.Resolved {
			continue
		}
		out = append(out, c.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Execute runs validate then mutate while holding the write lock, so a
// complaint is resolved at most once even when validate reaches other stores.
func (s *InMemoryComplaintStore) Execute(_ context.Context, complaintID id.ComplaintID, validate func(*models.Complaint) error, mutate func(*models.Complaint)) (*models.Complaint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.complaints[complaintID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	working := current.Clone()
	if err := validate(working); err != nil {
		return nil, err
	}
	mutate(working)
	s.complaints[complaintID] = working
	return working.Clone(), nil
}
