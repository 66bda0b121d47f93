package audit

import (
	"context"
	"time"

	id "trustestate/pkg/domain"
)

// MaxListLimit caps how many entries a single listing may return.
const MaxListLimit = 100

// Category classifies actions for routing and retention.
type Category string

const (
	// CategoryCompliance covers actions that change legal standing: deals,
	// verifications, reactivations.
	CategoryCompliance Category = "compliance"
	// CategorySecurity covers fraud and account enforcement actions.
	CategorySecurity Category = "security"
	// CategoryOperations covers routine marketplace activity.
	CategoryOperations Category = "operations"
)

// Action is the code stored with every audit entry.
type Action string

const (
	// Account enforcement
	ActionBanUser        Action = "BAN_USER"
	ActionSuspendUser    Action = "SUSPEND_USER"
	ActionReactivateUser Action = "REACTIVATE_USER"
	ActionRegisterUser   Action = "REGISTER_USER"

	// Property lifecycle
	ActionEnrollProperty   Action = "ENROLL_PROPERTY"
	ActionStatusChange     Action = "STATUS_CHANGE"
	ActionLockProperty     Action = "LOCK_PROPERTY"
	ActionUnlockProperty   Action = "UNLOCK_PROPERTY"
	ActionExpressInterest  Action = "EXPRESS_INTEREST"
	ActionInitiateDeal     Action = "INITIATE_DEAL"
	ActionVerifyDeal       Action = "VERIFY_DEAL"
	ActionDuplicateBlocked Action = "DUPLICATE_BLOCKED"

	// Disputes
	ActionFileComplaint               Action = "FILE_COMPLAINT"
	ActionVerifyUserFromComplaint     Action = "VERIFY_USER_FROM_COMPLAINT"
	ActionVerifyPropertyFromComplaint Action = "VERIFY_PROPERTY_FROM_COMPLAINT"
	ActionDismissComplaint            Action = "DISMISS_COMPLAINT"
)

var actionCategories = map[Action]Category{
	ActionBanUser:          CategorySecurity,
	ActionSuspendUser:      CategorySecurity,
	ActionLockProperty:     CategorySecurity,
	ActionUnlockProperty:   CategorySecurity,
	ActionDuplicateBlocked: CategorySecurity,

	ActionReactivateUser:              CategoryCompliance,
	ActionVerifyDeal:                  CategoryCompliance,
	ActionVerifyUserFromComplaint:     CategoryCompliance,
	ActionVerifyPropertyFromComplaint: CategoryCompliance,
	ActionDismissComplaint:            CategoryCompliance,
}

// Category returns the category for the action. Unknown actions are operations.
func (a Action) Category() Category {
	if c, ok := actionCategories[a]; ok {
		return c
	}
	return CategoryOperations
}

func (a Action) String() string {
	return string(a)
}

// Entry is one immutable audit record. Entries are never updated or deleted;
// listing order is CreatedAt descending.
type Entry struct {
	ID        id.AuditEntryID
	Action    Action
	TargetID  string
	Metadata  map[string]string
	ActorID   id.UserID
	RequestID string
	CreatedAt time.Time
}

// Store persists entries.
type Store interface {
	Append(ctx context.Context, entry Entry) error
	ListRecent(ctx context.Context, limit int) ([]Entry, error)
}

// Sink receives a copy of every stored entry (event stream, SIEM).
type Sink interface {
	Publish(ctx context.Context, entry Entry) error
}

// ClampLimit normalizes a requested listing size into [1, MaxListLimit].
func ClampLimit(limit int) int {
	if limit <= 0 || limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
