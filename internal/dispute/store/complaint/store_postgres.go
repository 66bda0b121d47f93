package complaint

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"trustestate/internal/dispute/models"
	id "trustestate/pkg/domain"
	"trustestate/pkg/platform/sentinel"
	txcontext "trustestate/pkg/platform/tx"
)

// PostgresStore persists complaints in the complaints table. Execute holds
// the row lock for the whole closure so concurrent resolutions serialize.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const complaintColumns = `id, user_id, property_id, message, resolved, resolution, resolved_at, created_at`

func (s *PostgresStore) Create(ctx context.Context, c *models.Complaint) error {
	_, err := txcontext.Pick(ctx, s.db).ExecContext(ctx, `
		INSERT INTO complaints (`+complaintColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		uuid.UUID(c.ID), uuid.UUID(c.UserID), nullPropertyID(c.PropertyID), c.Message,
		c.Resolved, c.Resolution.String(), nullTime(c.ResolvedAt), c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert complaint: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, complaintID id.ComplaintID) (*models.Complaint, error) {
	row := txcontext.Pick(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+complaintColumns+` FROM complaints WHERE id = $1`, uuid.UUID(complaintID))
	return scanComplaint(row)
}

func (s *PostgresStore) List(ctx context.Context, openOnly bool) ([]*models.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints`
	if openOnly {
		query += ` WHERE NOT resolved`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := txcontext.Pick(ctx, s.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list complaints: %w", err)
	}
	defer rows.Close()

	out := []*models.Complaint{}
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate complaints: %w", err)
	}
	return out, nil
}

// Execute loads the row FOR UPDATE, runs validate and mutate, and writes the
// resolution. Joins a transaction carried in ctx.
func (s *PostgresStore) Execute(ctx context.Context, complaintID id.ComplaintID, validate func(*models.Complaint) error, mutate func(*models.Complaint)) (*models.Complaint, error) {
	if tx, ok := txcontext.From(ctx); ok {
		return s.execute(ctx, tx, complaintID, validate, mutate)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin complaint tx: %w", err)
	}
	c, err := s.execute(ctx, tx, complaintID, validate, mutate)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit complaint tx: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) execute(ctx context.Context, tx *sql.Tx, complaintID id.ComplaintID, validate func(*models.Complaint) error, mutate func(*models.Complaint)) (*models.Complaint, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+complaintColumns+` FROM complaints WHERE id = $1 FOR UPDATE`, uuid.UUID(complaintID))
	c, err := scanComplaint(row)
	if err != nil {
		return nil, err
	}
	if err := validate(c); err != nil {
		return nil, err
	}
	mutate(c)

	res, err := tx.ExecContext(ctx, `
		UPDATE complaints SET message = $1, resolved = $2, resolution = $3, resolved_at = $4
		WHERE id = $5`,
		c.Message, c.Resolved, c.Resolution.String(), nullTime(c.ResolvedAt), uuid.UUID(c.ID),
	)
	if err != nil {
		return nil, fmt.Errorf("update complaint: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("update complaint rows: %w", err)
	} else if n == 0 {
		return nil, sentinel.ErrConflict
	}
	return c, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanComplaint(row rowScanner) (*models.Complaint, error) {
	var (
		c          models.Complaint
		rawID      uuid.UUID
		rawUser    uuid.UUID
		property   uuid.NullUUID
		resolution string
		resolvedAt sql.NullTime
	)
	err := row.Scan(&rawID, &rawUser, &property, &c.Message, &c.Resolved, &resolution, &resolvedAt, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan complaint: %w", err)
	}
	c.ID = id.ComplaintID(rawID)
	c.UserID = id.UserID(rawUser)
	if property.Valid {
		pid := id.PropertyID(property.UUID)
		c.PropertyID = &pid
	}
	c.Resolution = models.Action(resolution)
	if resolvedAt.Valid {
		t := resolvedAt.Time.UTC()
		c.ResolvedAt = &t
	}
	c.CreatedAt = c.CreatedAt.UTC()
	return &c, nil
}

func nullPropertyID(p *id.PropertyID) uuid.NullUUID {
	if p == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: uuid.UUID(*p), Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
