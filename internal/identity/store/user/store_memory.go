package user

import (
	"context"
	"sort"
	"sync"

	"trustestate/internal/identity/models"
	id "trustestate/pkg/domain"
	"trustestate/pkg/platform/sentinel"
)

// InMemoryUserStore keeps users in a map guarded by a single mutex. Values are
// cloned on the way in and out so callers never share state with the store.
type InMemoryUserStore struct {
	mu      sync.RWMutex
	users   map[id.UserID]*models.User
	byEmail map[string]id.UserID
}

func New() *InMemoryUserStore {
	return &InMemoryUserStore{
		users:   make(map[id.UserID]*models.User),
		byEmail: make(map[string]id.UserID),
	}
}

// Create inserts a new user. Returns ErrConflict when the email is taken.
func (s *InMemoryUserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := models.NormalizeEmail(user.Email)
	if _, taken := s.byEmail[email]; taken {
		return sentinel.ErrConflict
	}
	if _, exists := s.users[user.ID]; exists {
		return sentinel.ErrConflict
	}
	user.Version = 1
	s.users[user.ID] = user.Clone()
	s.byEmail[email] = user.ID
	return nil
}

func (s *InMemoryUserStore) FindByID(_ context.Context, userID id.UserID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return u.Clone(), nil
}

func (s *InMemoryUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	userID, ok := s.byEmail[models.NormalizeEmail(email)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return s.users[userID].Clone(), nil
}

// List returns all users, oldest first.
func (s *InMemoryUserStore) List(_ context.Context) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u.Clone())
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// Execute runs validate then mutate on the stored user while holding the
// write lock, then persists the result.
func (s *InMemoryUserStore) Execute(_ context.Context, userID id.UserID, validate func(*models.User) error, mutate func(*models.User)) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.users[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	working := current.Clone()
	if err := validate(working); err != nil {
		return nil, err
	}
	mutate(working)
	working.Version = current.Version + 1
	s.users[userID] = working
	return working.Clone(), nil
}
