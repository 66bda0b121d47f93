package domain

import (
	"github.com/google/uuid"

	dErrors "trustestate/pkg/domain-errors"
)

// Typed identifiers. Each wraps a UUID so the compiler rejects passing a
// property ID where a user ID is expected.
type (
	UserID       uuid.UUID
	PropertyID   uuid.UUID
	ComplaintID  uuid.UUID
	AuditEntryID uuid.UUID
)

func parseUUID(s, kind string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" cannot be nil")
	}
	return u, nil
}

// ParseUserID parses a user ID at a trust boundary. Empty, malformed and nil
// UUIDs are rejected with CodeInvalidInput.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s, "user id")
	return UserID(u), err
}

func ParsePropertyID(s string) (PropertyID, error) {
	u, err := parseUUID(s, "property id")
	return PropertyID(u), err
}

func ParseComplaintID(s string) (ComplaintID, error) {
	u, err := parseUUID(s, "complaint id")
	return ComplaintID(u), err
}

func ParseAuditEntryID(s string) (AuditEntryID, error) {
	u, err := parseUUID(s, "audit entry id")
	return AuditEntryID(u), err
}

func NewUserID() UserID             { return UserID(uuid.New()) }
func NewPropertyID() PropertyID     { return PropertyID(uuid.New()) }
func NewComplaintID() ComplaintID   { return ComplaintID(uuid.New()) }
func NewAuditEntryID() AuditEntryID { return AuditEntryID(uuid.New()) }

func (id UserID) String() string       { return uuid.UUID(id).String() }
func (id PropertyID) String() string   { return uuid.UUID(id).String() }
func (id ComplaintID) String() string  { return uuid.UUID(id).String() }
func (id AuditEntryID) String() string { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id PropertyID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id ComplaintID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id AuditEntryID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// Text marshaling keeps the canonical UUID form in JSON and log output.

func (id UserID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *UserID) UnmarshalText(b []byte) error {
	parsed, err := ParseUserID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id PropertyID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *PropertyID) UnmarshalText(b []byte) error {
	parsed, err := ParsePropertyID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id ComplaintID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *ComplaintID) UnmarshalText(b []byte) error {
	parsed, err := ParseComplaintID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id AuditEntryID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *AuditEntryID) UnmarshalText(b []byte) error {
	parsed, err := ParseAuditEntryID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
