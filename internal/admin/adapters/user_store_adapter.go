package adapters

import (
	"context"

	"trustestate/internal/admin/types"
	identitymodels "trustestate/internal/identity/models"
	"trustestate/pkg/requestcontext"
)

// IdentityUserStore is the slice of the identity user store admin reads.
type IdentityUserStore interface {
	List(ctx context.Context) ([]*identitymodels.User, error)
}

// UserStoreAdapter adapts an identity user store to admin's UserStore interface.
type UserStoreAdapter struct {
	store IdentityUserStore
}

// NewUserStoreAdapter creates a new adapter wrapping an identity user store.
func NewUserStoreAdapter(store IdentityUserStore) *UserStoreAdapter {
	return &UserStoreAdapter{store: store}
}

// ListAll returns all users mapped to admin types. Suspension is judged at
// the request time carried by ctx.
func (a *UserStoreAdapter) ListAll(ctx context.Context) ([]*types.AdminUser, error) {
	users, err := a.store.List(ctx)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	result := make([]*types.AdminUser, len(users))
	for i, u := range users {
		result[i] = &types.AdminUser{
			ID:          u.ID,
			Role:        u.Role,
			FraudScore:  u.FraudScore,
			Flagged:     u.IsFlagged(),
			Banned:      u.IsBanned,
			Suspended:   u.IsSuspended(now),
			KYCVerified: u.KYCVerified,
		}
	}
	return result, nil
}
