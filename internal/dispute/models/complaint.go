package models

import (
	"strings"
	"time"

	id "trustestate/pkg/domain"
	dErrors "trustestate/pkg/domain-errors"
)

// Action is how an administrator closes a complaint.
type Action string

const (
	// ActionVerifyAndResolve upholds the complaint: a property target goes
	// back to AVAILABLE, a user target completes KYC.
	ActionVerifyAndResolve Action = "verify-and-resolve"
	// ActionDismissOnly closes the complaint without touching the target.
	ActionDismissOnly Action = "dismiss-only"
)

func ParseAction(s string) (Action, error) {
	switch a := Action(strings.TrimSpace(s)); a {
	case ActionVerifyAndResolve, ActionDismissOnly:
		return a, nil
	default:
		return "", dErrors.New(dErrors.CodeValidation, "action must be verify-and-resolve or dismiss-only")
	}
}

func (a Action) String() string {
	return string(a)
}

// Complaint is a filed dispute. Without a property it concerns the filer's
// own account.
type Complaint struct {
	ID         id.ComplaintID `json:"id"`
	UserID     id.UserID      `json:"user_id"`
	PropertyID *id.PropertyID `json:"property_id,omitempty"`
	Message    string         `json:"message"`
	Resolved   bool           `json:"resolved"`
	Resolution Action         `json:"resolution,omitempty"`
	ResolvedAt *time.Time     `json:"resolved_at,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

const maxMessageLength = 2000

// NewComplaint returns an unresolved complaint.
func NewComplaint(complaintID id.ComplaintID, filer id.UserID, propertyID *id.PropertyID, message string, now time.Time) (*Complaint, error) {
	if complaintID.IsNil() || filer.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "complaint and filer ids are required")
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "message is required")
	}
	if len(message) > maxMessageLength {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "message is too long")
	}
	c := &Complaint{
		ID:        complaintID,
		UserID:    filer,
		Message:   message,
		CreatedAt: now.UTC(),
	}
	if propertyID != nil {
		p := *propertyID
		c.PropertyID = &p
	}
	return c, nil
}

func (c *Complaint) TargetsProperty() bool {
	return c.PropertyID != nil
}

func (c *Complaint) CanResolve() error {
	if c.Resolved {
		return dErrors.New(dErrors.CodeConflict, "complaint already resolved")
	}
	return nil
}

// Resolve closes the complaint. Callers check CanResolve first.
func (c *Complaint) Resolve(action Action, now time.Time) {
	at := now.UTC()
	c.Resolved = true
	c.Resolution = action
	c.ResolvedAt = &at
}

func (c *Complaint) Clone() *Complaint {
	if c == nil {
		return nil
	}
	out := *c
	if c.PropertyID != nil {
		p := *c.PropertyID
		out.PropertyID = &p
	}
	if c.ResolvedAt != nil {
		t := *c.ResolvedAt
		out.ResolvedAt = &t
	}
	return &out
}
