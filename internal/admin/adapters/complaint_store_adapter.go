package adapters

import (
	"context"

	"trustestate/internal/admin/types"
	disputemodels "trustestate/internal/dispute/models"
)

// DisputeComplaintStore is the slice of the complaint store admin reads.
type DisputeComplaintStore interface {
	List(ctx context.Context, openOnly bool) ([]*disputemodels.Complaint, error)
}

// ComplaintStoreAdapter adapts a complaint store to admin's ComplaintStore interface.
type ComplaintStoreAdapter struct {
	store DisputeComplaintStore
}

func NewComplaintStoreAdapter(store DisputeComplaintStore) *ComplaintStoreAdapter {
	return &ComplaintStoreAdapter{store: store}
}

// ListOpen returns unresolved complaints mapped to admin types.
func (a *ComplaintStoreAdapter) ListOpen(ctx context.Context) ([]*types.AdminComplaint, error) {
	complaints, err := a.store.List(ctx, true)
	if err != nil {
		return nil, err
	}

	result := make([]*types.AdminComplaint, len(complaints))
	for i, c := range complaints {
		result[i] = &types.AdminComplaint{
			ID:              c.ID,
			UserID:          c.UserID,
			TargetsProperty: c.TargetsProperty(),
			Resolved:        c.Resolved,
			CreatedAt:       c.CreatedAt,
		}
	}
	return result, nil
}
