package models

import (
	"slices"
	"time"

	dErrors "trustestate/pkg/domain-errors"
)

// Lifecycle notes, chosen by destination status.
const (
	NoteEnrollment = "Initial Registry Enrollment"
	NoteLocked     = "Fraud or Dispute Security Lock"
	NotePending    = "Deal initiated by Owner"
	NoteFinalized  = "Deal finalized and verified by Tenant"
	NoteProtocol   = "Protocol State Transition"
)

// LifecycleEntry is one append-only record of a status change.
type LifecycleEntry struct {
	Status    Status    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Actor     string    `json:"actor"`
	Note      string    `json:"note,omitempty"`
}

// allowedTransitions is the legal transition table. AVAILABLE is reachable
// from every state so admins and complaint resolution can always restore a
// listing.
var allowedTransitions = map[Status][]Status{
	StatusAvailable: {StatusPending, StatusLocked},
	StatusPending:   {StatusAvailable, StatusSold, StatusRented, StatusLocked},
	StatusSold:      {StatusAvailable, StatusLocked},
	StatusRented:    {StatusAvailable, StatusLocked},
	StatusLocked:    {StatusAvailable},
}

// NoteFor returns the lifecycle note for a transition into to.
func NoteFor(to Status) string {
	switch to {
	case StatusLocked:
		return NoteLocked
	case StatusPending:
		return NotePending
	case StatusSold, StatusRented:
		return NoteFinalized
	default:
		return NoteProtocol
	}
}

// CanTransition reports whether from -> to is in the transition table.
func CanTransition(from, to Status) bool {
	return slices.Contains(allowedTransitions[from], to)
}

// Transition moves the property to status to, appending a lifecycle entry.
// A transition to the current status is a no-op and returns changed=false.
//
// Errors:
//   - CodeValidation when to is not a known status
//   - CodeInvariantViolation when the move is not in the transition table, or
//     the deal outcome does not match the property type
func (p *Property) Transition(to Status, actor string, at time.Time) (changed bool, err error) {
	if !to.IsValid() {
		return false, dErrors.New(dErrors.CodeValidation, "unknown status "+to.String())
	}
	if to == p.Status {
		return false, nil
	}
	if !CanTransition(p.Status, to) {
		return false, dErrors.New(dErrors.CodeInvariantViolation,
			"illegal transition "+p.Status.String()+" -> "+to.String())
	}
	if (to == StatusSold && p.Type != TypeSale) || (to == StatusRented && p.Type != TypeRent) {
		return false, dErrors.New(dErrors.CodeInvariantViolation,
			to.String()+" is not a valid outcome for a "+p.Type.String()+" listing")
	}

	at = at.UTC()
	p.LifecycleLog = append(p.LifecycleLog, LifecycleEntry{
		Status:    to,
		Timestamp: at,
		Actor:     actor,
		Note:      NoteFor(to),
	})
	p.Status = to
	if to == StatusAvailable {
		p.TenantID = nil
	}
	p.UpdatedAt = at
	return true, nil
}

// DealStatus is the terminal status a verified deal lands in.
func (p *Property) DealStatus() Status {
	if p.Type == TypeSale {
		return StatusSold
	}
	return StatusRented
}

// CheckLifecycle verifies the log is non-empty and ends at the current status.
func (p *Property) CheckLifecycle() error {
	if len(p.LifecycleLog) == 0 {
		return dErrors.New(dErrors.CodeInvariantViolation, "lifecycle log is empty")
	}
	if last := p.LifecycleLog[len(p.LifecycleLog)-1]; last.Status != p.Status {
		return dErrors.New(dErrors.CodeInvariantViolation,
			"lifecycle log ends at "+last.Status.String()+" but status is "+p.Status.String())
	}
	return nil
}
