package property

import (
	"context"
	"sort"
	"sync"

	"trustestate/internal/registry/models"
	id "trustestate/pkg/domain"
	"trustestate/pkg/platform/sentinel"
)

// InMemoryPropertyStore keeps properties in a map. UPC and document hash are
// unique, mirroring the table constraints.
type InMemoryPropertyStore struct {
	mu         sync.RWMutex
	properties map[id.PropertyID]*models.Property
}

func New() *InMemoryPropertyStore {
	return &InMemoryPropertyStore{properties: make(map[id.PropertyID]*models.Property)}
}

func (s *InMemoryPropertyStore) Create(_ context.Context, p *models.Property) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.properties[p.ID]; exists {
		return sentinel.ErrConflict
	}
	for _, existing := range s.properties {
		if existing.UPC == p.UPC {
			return models.ErrDuplicateUPC
		}
		if existing.DocumentHash == p.DocumentHash {
			return models.ErrDuplicateDocument
		}
	}
	p.Version = 1
	s.properties[p.ID] = p.Clone()
	return nil
}

func (s *InMemoryPropertyStore) FindByID(_ context.Context, propertyID id.PropertyID) (*models.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.properties[propertyID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return p.Clone(), nil
}

// List returns every property, newest first.
func (s *InMemoryPropertyStore) List(_ context.Context) ([]*models.Property, error) {
	return s.filter(func(*models.Property) bool { return true }), nil
}

func (s *InMemoryPropertyStore) ListByOwner(_ context.Context, ownerID id.UserID) ([]*models.Property, error) {
	return s.filter(func(p *models.Property) bool { return p.OwnerID == ownerID }), nil
}

func (s *InMemoryPropertyStore) ListByStatus(_ context.Context, status models.Status) ([]*models.Property, error) {
	return s.filter(func(p *models.Property) bool { return p.Status == status }), nil
}

// ListFlagged returns properties above the flag threshold or with signals.
func (s *InMemoryPropertyStore) ListFlagged(_ context.Context) ([]*models.Property, error) {
	return s.filter((*models.Property).IsFlagged), nil
}

// ListForTenant returns properties the tenant is assigned to or interested in.
func (s *InMemoryPropertyStore) ListForTenant(_ context.Context, tenantID id.UserID) ([]*models.Property, error) {
	return s.filter(func(p *models.Property) bool {
		return p.IsAssignedTo(tenantID) || p.HasInterestFrom(tenantID)
	}), nil
}

func (s *InMemoryPropertyStore) CountByStatus(_ context.Context) (map[models.Status]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[models.Status]int)
	for _, p := range s.properties {
		counts[p.Status]++
	}
	return counts, nil
}

func (s *InMemoryPropertyStore) filter(keep func(*models.Property) bool) []*models.Property {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Property, 0)
	for _, p := range s.properties {
		if keep(p) {
			out = append(out, p.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Execute runs validate then mutate while holding the write lock. The stored
// value is only replaced when validate succeeds.
func (s *InMemoryPropertyStore) Execute(_ context.Context, propertyID id.PropertyID, validate func(*models.Property) error, mutate func(*models.Property)) (*models.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.properties[propertyID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	working := current.Clone()
	if err := validate(working); err != nil {
		return nil, err
	}
	mutate(working)
	working.Version = current.Version + 1
	s.properties[propertyID] = working
	return working.Clone(), nil
}
