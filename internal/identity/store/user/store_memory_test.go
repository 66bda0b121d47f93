package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"trustestate/internal/identity/models"
	id "trustestate/pkg/domain"
	"trustestate/pkg/platform/sentinel"
)

type InMemoryUserStoreSuite struct {
	suite.Suite
	store *InMemoryUserStore
	ctx   context.Context
}

func (s *InMemoryUserStoreSuite) SetupTest() {
	s.store = New()
	s.ctx = context.Background()
}

func TestInMemoryUserStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryUserStoreSuite))
}

func (s *InMemoryUserStoreSuite) newUser(email string) *models.User {
	u, err := models.NewUser(id.NewUserID(), "Jane Doe", email, "hash", id.RoleTenant, time.Now())
	s.Require().NoError(err)
	return u
}

func (s *InMemoryUserStoreSuite) TestLookupBehavior() {
	s.Run("returns user by ID and by case-insensitive email", func() {
		user := s.newUser("jane.doe@example.com")
		s.Require().NoError(s.store.Create(s.ctx, user))

		found, err := s.store.FindByID(s.ctx, user.ID)
		s.Require().NoError(err)
		s.Equal(user.Email, found.Email)

		found, err = s.store.FindByEmail(s.ctx, "Jane.Doe@Example.com")
		s.Require().NoError(err)
		s.Equal(user.ID, found.ID)
	})

	s.Run("returns ErrNotFound for unknown keys", func() {
		_, err := s.store.FindByID(s.ctx, id.NewUserID())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
		_, err = s.store.FindByEmail(s.ctx, "missing@example.com")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *InMemoryUserStoreSuite) TestEmailUniqueness() {
	s.Require().NoError(s.store.Create(s.ctx, s.newUser("dup@example.com")))
	err := s.store.Create(s.ctx, s.newUser("DUP@example.com"))
	s.Require().ErrorIs(err, sentinel.ErrConflict)
}

func (s *InMemoryUserStoreSuite) TestReturnedValuesAreCopies() {
	user := s.newUser("copy@example.com")
	s.Require().NoError(s.store.Create(s.ctx, user))

	found, err := s.store.FindByID(s.ctx, user.ID)
	s.Require().NoError(err)
	found.IsBanned = true

	again, err := s.store.FindByID(s.ctx, user.ID)
	s.Require().NoError(err)
	s.False(again.IsBanned)
}

func (s *InMemoryUserStoreSuite) TestExecute() {
	user := s.newUser("exec@example.com")
	s.Require().NoError(s.store.Create(s.ctx, user))

	s.Run("applies mutation and bumps version", func() {
		updated, err := s.store.Execute(s.ctx, user.ID,
			func(*models.User) error { return nil },
			func(u *models.User) { u.Ban(time.Now()) },
		)
		s.Require().NoError(err)
		s.True(updated.IsBanned)
		s.EqualValues(2, updated.Version)
	})

	s.Run("validation failure leaves user untouched", func() {
		boom := errors.New("refused")
		_, err := s.store.Execute(s.ctx, user.ID,
			func(*models.User) error { return boom },
			func(u *models.User) { u.Reactivate(time.Now()) },
		)
		s.Require().ErrorIs(err, boom)

		found, err := s.store.FindByID(s.ctx, user.ID)
		s.Require().NoError(err)
		s.True(found.IsBanned)
	})

	s.Run("unknown id", func() {
		_, err := s.store.Execute(s.ctx, id.NewUserID(),
			func(*models.User) error { return nil }, func(*models.User) {})
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *InMemoryUserStoreSuite) TestListOrdersByCreation() {
	first := s.newUser("first@example.com")
	second := s.newUser("second@example.com")
	second.CreatedAt = first.CreatedAt.Add(time.Second)
	s.Require().NoError(s.store.Create(s.ctx, second))
	s.Require().NoError(s.store.Create(s.ctx, first))

	users, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(users, 2)
	s.Equal(first.ID, users[0].ID)
}
