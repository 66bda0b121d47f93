package models

import (
	"strings"

	dErrors "trustestate/pkg/domain-errors"
)

// Status is the lifecycle position of a property.
type Status string

const (
	StatusAvailable Status = "AVAILABLE"
	StatusPending   Status = "PENDING_CONFIRMATION"
	StatusSold      Status = "SOLD"
	StatusRented    Status = "RENTED"
	StatusLocked    Status = "LOCKED"
)

// lockedStorageValue is how LOCKED is written to the status column.
const lockedStorageValue = "FLAGGED"

// StatusMeta is the display metadata for a status badge.
type StatusMeta struct {
	Label    string `json:"label"`
	Severity string `json:"severity"`
	Icon     string `json:"icon"`
}

var statusMeta = map[Status]StatusMeta{
	StatusAvailable: {Label: "Available", Severity: "info", Icon: "fa-globe"},
	StatusPending:   {Label: "Pending Confirmation", Severity: "warning", Icon: "fa-clock"},
	StatusSold:      {Label: "Registry: SOLD", Severity: "success", Icon: "fa-check-double"},
	StatusRented:    {Label: "Registry: RENTED", Severity: "success", Icon: "fa-key"},
	StatusLocked:    {Label: "Locked (Fraud/Dispute)", Severity: "danger", Icon: "fa-shield-virus"},
}

// legacyStatuses maps the display names older clients persisted inside
// lifecycle documents.
var legacyStatuses = map[string]Status{
	"available":            StatusAvailable,
	"pending confirmation": StatusPending,
	"sold":                 StatusSold,
	"rented":               StatusRented,
	"locked":               StatusLocked,
}

// ParseStatus parses a status from API input. Only canonical names are accepted.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", dErrors.New(dErrors.CodeValidation, "unknown status "+s)
	}
	return st, nil
}

// StatusFromStorage decodes a persisted status: canonical names, the FLAGGED
// column value, and legacy display names.
func StatusFromStorage(s string) (Status, error) {
	if s == lockedStorageValue {
		return StatusLocked, nil
	}
	if st := Status(s); st.IsValid() {
		return st, nil
	}
	if st, ok := legacyStatuses[strings.ToLower(strings.TrimSpace(s))]; ok {
		return st, nil
	}
	return "", dErrors.New(dErrors.CodeInvariantViolation, "unrecognized stored status "+s)
}

func (s Status) IsValid() bool {
	_, ok := statusMeta[s]
	return ok
}

// StorageValue is the status column value.
func (s Status) StorageValue() string {
	if s == StatusLocked {
		return lockedStorageValue
	}
	return string(s)
}

func (s Status) Meta() StatusMeta {
	return statusMeta[s]
}

func (s Status) String() string {
	return string(s)
}

// PropertyType decides whether a finalized deal ends in SOLD or RENTED.
type PropertyType string

const (
	TypeSale PropertyType = "Sale"
	TypeRent PropertyType = "Rent"
)

func ParsePropertyType(s string) (PropertyType, error) {
	switch t := PropertyType(strings.TrimSpace(s)); t {
	case TypeSale, TypeRent:
		return t, nil
	default:
		return "", dErrors.New(dErrors.CodeValidation, "type must be Sale or Rent")
	}
}

func (t PropertyType) String() string {
	return string(t)
}
