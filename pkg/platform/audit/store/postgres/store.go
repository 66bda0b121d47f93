package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	id "trustestate/pkg/domain"
	audit "trustestate/pkg/platform/audit"
)

// Store persists audit entries in the audit_logs table.
//
// Writes always go through the pool, never through a transaction carried in
// ctx: an audit row must not disappear with a rolled-back mutation, and a
// failed audit insert must not poison the caller's transaction.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Append inserts one entry. Duplicate IDs are ignored.
func (s *Store) Append(ctx context.Context, entry audit.Entry) error {
	var metadata []byte
	if len(entry.Metadata) > 0 {
		var err error
		metadata, err = json.Marshal(entry.Metadata)
		if err != nil {
			return fmt.Errorf("marshal audit metadata: %w", err)
		}
	}

	var actorID *uuid.UUID
	if !entry.ActorID.IsNil() {
		a := uuid.UUID(entry.ActorID)
		actorID = &a
	}

	query := `
		INSERT INTO audit_logs (id, action, category, target_id, metadata, actor_id, request_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(entry.ID),
		string(entry.Action),
		string(entry.Action.Category()),
		entry.TargetID,
		metadata,
		actorID,
		entry.RequestID,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// ListRecent returns up to limit entries, newest first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]audit.Entry, error) {
	query := `
		SELECT id, action, target_id, metadata, actor_id, request_id, created_at
		FROM audit_logs
		ORDER BY created_at DESC, seq DESC
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, audit.ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()

	var entries []audit.Entry
	for rows.Next() {
		var (
			entry    audit.Entry
			entryID  uuid.UUID
			action   string
			metadata []byte
			actorID  *uuid.UUID
		)
		if err := rows.Scan(&entryID, &action, &entry.TargetID, &metadata, &actorID, &entry.RequestID, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entry.ID = id.AuditEntryID(entryID)
		entry.Action = audit.Action(action)
		if actorID != nil {
			entry.ActorID = id.UserID(*actorID)
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &entry.Metadata); err != nil {
				return nil, fmt.Errorf("decode audit metadata: %w", err)
			}
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit entries: %w", err)
	}
	return entries, nil
}
