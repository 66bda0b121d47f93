package models

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"trustestate/internal/risk"
	id "trustestate/pkg/domain"
	dErrors "trustestate/pkg/domain-errors"
	"trustestate/pkg/platform/sentinel"
)

// Property is a registry listing. It is never deleted; LOCKED stands in for
// removal.
//
// Invariant: the last lifecycle entry's status equals Status, and the log
// only grows.
type Property struct {
	ID                id.PropertyID      `json:"id"`
	OwnerID           id.UserID          `json:"owner_id"`
	Title             string             `json:"title"`
	Address           string             `json:"address"`
	Description       string             `json:"description,omitempty"`
	Price             float64            `json:"price"`
	Type              PropertyType       `json:"type"`
	Status            Status             `json:"status"`
	UPC               string             `json:"upc"`
	FraudScore        int                `json:"fraud_score"`
	Signals           []Signal           `json:"signals"`
	Images            []string           `json:"images"`
	InterestedTenants []InterestedTenant `json:"interested_tenants"`
	TenantID          *id.UserID         `json:"tenant_id,omitempty"`
	DocumentHash      string             `json:"document_hash"`
	LifecycleLog      []LifecycleEntry   `json:"lifecycle_log"`
	Version           int64              `json:"-"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// NewPropertyParams carries the verified inputs of an enrollment.
type NewPropertyParams struct {
	ID           id.PropertyID
	OwnerID      id.UserID
	Title        string
	Address      string
	Description  string
	Price        float64
	Type         PropertyType
	UPC          string
	DocumentHash string
	Images       []string
	Signals      []Signal
	Actor        string
	Now          time.Time
}

// NewProperty builds an AVAILABLE property with its enrollment entry. The
// fraud score starts at the summed weight of the enrollment signals.
func NewProperty(p NewPropertyParams) (*Property, error) {
	if p.ID.IsNil() || p.OwnerID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "property and owner ids are required")
	}
	if strings.TrimSpace(p.Title) == "" || strings.TrimSpace(p.Address) == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "title and address are required")
	}
	if len(p.Images) == 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "at least one image is required")
	}
	if p.DocumentHash == "" || p.UPC == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "document hash and upc are required")
	}
	if p.Price < 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "price cannot be negative")
	}
	if p.Type != TypeSale && p.Type != TypeRent {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "type must be Sale or Rent")
	}

	now := p.Now.UTC()
	prop := &Property{
		ID:                p.ID,
		OwnerID:           p.OwnerID,
		Title:             strings.TrimSpace(p.Title),
		Address:           strings.TrimSpace(p.Address),
		Description:       strings.TrimSpace(p.Description),
		Price:             p.Price,
		Type:              p.Type,
		Status:            StatusAvailable,
		UPC:               p.UPC,
		Images:            slices.Clone(p.Images),
		Signals:           []Signal{},
		InterestedTenants: []InterestedTenant{},
		DocumentHash:      p.DocumentHash,
		LifecycleLog: []LifecycleEntry{{
			Status:    StatusAvailable,
			Timestamp: now,
			Actor:     p.Actor,
			Note:      NoteEnrollment,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, sig := range p.Signals {
		prop.AddSignal(sig)
	}
	return prop, nil
}

// AddSignal records a signal and raises the fraud score by its weight.
func (p *Property) AddSignal(sig Signal) {
	p.Signals = append(p.Signals, sig)
	p.FraudScore = risk.AddScore(p.FraudScore, sig.Severity.Weight())
}

func (p *Property) IsOwnedBy(userID id.UserID) bool {
	return p.OwnerID == userID
}

// IsFlagged reports whether the property belongs on the fraud desk.
func (p *Property) IsFlagged() bool {
	return risk.IsPropertyFlagged(p.FraudScore, len(p.Signals))
}

func (p *Property) IsCritical() bool {
	return risk.IsCritical(p.FraudScore)
}

// HasInterestFrom reports whether tenantID already expressed interest.
func (p *Property) HasInterestFrom(tenantID id.UserID) bool {
	return slices.ContainsFunc(p.InterestedTenants, func(t InterestedTenant) bool {
		return t.ID == tenantID
	})
}

// IsAssignedTo reports whether tenantID is the tenant of the current deal.
func (p *Property) IsAssignedTo(tenantID id.UserID) bool {
	return p.TenantID != nil && *p.TenantID == tenantID
}

// CanExpressInterest checks that tenantID may join the interested list.
func (p *Property) CanExpressInterest(tenantID id.UserID) error {
	if p.Status != StatusAvailable {
		return dErrors.New(dErrors.CodeInvariantViolation, "property is not available")
	}
	if p.IsOwnedBy(tenantID) {
		return dErrors.New(dErrors.CodeForbidden, "owners cannot express interest in their own property")
	}
	if p.HasInterestFrom(tenantID) {
		return dErrors.New(dErrors.CodeConflict, "interest already recorded")
	}
	return nil
}

// AddInterest appends t. Callers check CanExpressInterest first.
func (p *Property) AddInterest(t InterestedTenant) {
	p.InterestedTenants = append(p.InterestedTenants, t)
	p.UpdatedAt = t.Timestamp
}

// CanInitiateDeal checks that tenantID is interested and the listing is open.
func (p *Property) CanInitiateDeal(tenantID id.UserID) error {
	if p.Status != StatusAvailable {
		return dErrors.New(dErrors.CodeInvariantViolation, "deals start from an available property")
	}
	if !p.HasInterestFrom(tenantID) {
		return dErrors.New(dErrors.CodeInvariantViolation, "tenant has not expressed interest")
	}
	return nil
}

// CanVerifyDeal checks that tenantID is the assigned tenant of a pending deal.
func (p *Property) CanVerifyDeal(tenantID id.UserID) error {
	if p.Status != StatusPending {
		return dErrors.New(dErrors.CodeInvariantViolation, "no deal is pending confirmation")
	}
	if !p.IsAssignedTo(tenantID) {
		return dErrors.New(dErrors.CodeForbidden, "only the assigned tenant can verify this deal")
	}
	return nil
}

// Clone returns a deep copy.
func (p *Property) Clone() *Property {
	if p == nil {
		return nil
	}
	c := *p
	c.Signals = slices.Clone(p.Signals)
	c.Images = slices.Clone(p.Images)
	c.InterestedTenants = slices.Clone(p.InterestedTenants)
	c.LifecycleLog = slices.Clone(p.LifecycleLog)
	if p.TenantID != nil {
		t := *p.TenantID
		c.TenantID = &t
	}
	return &c
}

// Uniqueness failures reported by the property store and the uniqueness
// index. Both wrap sentinel.ErrConflict.
var (
	ErrDuplicateDocument = fmt.Errorf("document hash already registered: %w", sentinel.ErrConflict)
	ErrDuplicateUPC      = fmt.Errorf("upc already registered: %w", sentinel.ErrConflict)
)
