// Package types holds the read-only projections the admin dashboard works on.
// Adapters map identity and dispute records into these so admin never
// depends on their stores directly.
package types

import (
	"time"

	id "trustestate/pkg/domain"
)

// AdminUser is a user's standing as seen by moderators.
type AdminUser struct {
	ID          id.UserID
	Role        id.Role
	FraudScore  int
	Flagged     bool
	Banned      bool
	Suspended   bool
	KYCVerified bool
}

// AdminComplaint is a queued complaint without its message body.
type AdminComplaint struct {
	ID              id.ComplaintID
	UserID          id.UserID
	TargetsProperty bool
	Resolved        bool
	CreatedAt       time.Time
}

// Stats is the dashboard headline.
type Stats struct {
	Users              int            `json:"users"`
	FlaggedUsers       int            `json:"flagged_users"`
	Properties         int            `json:"properties"`
	LockedProperties   int            `json:"locked_properties"`
	OpenComplaints     int            `json:"open_complaints"`
	PropertiesByStatus map[string]int `json:"properties_by_status"`
	GeneratedAt        time.Time      `json:"generated_at"`
}
