package admin

import (
	"time"

	"trustestate/pkg/platform/audit"
)

// AuditEntryResponse is the HTTP response DTO for one audit entry.
type AuditEntryResponse struct {
	ID        string            `json:"id"`
	Action    string            `json:"action"`
	Category  string            `json:"category"`
	TargetID  string            `json:"target_id"`
	ActorID   string            `json:"actor_id,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// AuditLogsResponse wraps the audit listing for HTTP response.
type AuditLogsResponse struct {
	Entries []*AuditEntryResponse `json:"entries"`
	Count   int                   `json:"count"`
}

func toAuditLogsResponse(entries []audit.Entry) *AuditLogsResponse {
	out := make([]*AuditEntryResponse, len(entries))
	for i, e := range entries {
		resp := &AuditEntryResponse{
			ID:        e.ID.String(),
			Action:    e.Action.String(),
			Category:  string(e.Action.Category()),
			TargetID:  e.TargetID,
			RequestID: e.RequestID,
			Metadata:  e.Metadata,
			CreatedAt: e.CreatedAt,
		}
		if !e.ActorID.IsNil() {
			resp.ActorID = e.ActorID.String()
		}
		out[i] = resp
	}
	return &AuditLogsResponse{Entries: out, Count: len(out)}
}
