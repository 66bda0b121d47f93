package models

import (
	"time"

	id "trustestate/pkg/domain"
)

type SignalType string

const (
	SignalIP             SignalType = "IP"
	SignalDevice         SignalType = "Device"
	SignalDocument       SignalType = "Document"
	SignalBehavior       SignalType = "Behavior"
	SignalPublicRegistry SignalType = "PublicRegistry"
)

type SignalSeverity string

const (
	SeverityLow    SignalSeverity = "Low"
	SeverityMedium SignalSeverity = "Medium"
	SeverityHigh   SignalSeverity = "High"
)

var severityWeights = map[SignalSeverity]int{
	SeverityLow:    5,
	SeverityMedium: 15,
	SeverityHigh:   30,
}

// Weight is the fraud score contribution of one signal of this severity.
func (s SignalSeverity) Weight() int {
	return severityWeights[s]
}

// Signal is one recorded risk observation. Signals are history: they are
// never removed, including when a property is unlocked.
type Signal struct {
	ID          string         `json:"id"`
	Type        SignalType     `json:"type"`
	Severity    SignalSeverity `json:"severity"`
	Description string         `json:"description"`
	Timestamp   time.Time      `json:"timestamp"`
}

// InterestedTenant records a tenant's interest. At most one per tenant.
type InterestedTenant struct {
	ID        id.UserID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Timestamp time.Time `json:"timestamp"`
}
