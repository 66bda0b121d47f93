package property

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"trustestate/internal/platform/postgres"
	"trustestate/internal/registry/models"
	"trustestate/internal/risk"
	id "trustestate/pkg/domain"
	"trustestate/pkg/platform/sentinel"
	txcontext "trustestate/pkg/platform/tx"
)

const (
	upcConstraint      = "properties_upc_key"
	documentConstraint = "properties_document_hash_key"
)

// PostgresStore persists properties in the properties table. The lifecycle
// log, signals and interested tenants live in versioned JSONB documents and
// are upgraded to the current version on read.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const propertyColumns = `id, owner_id, title, address, description, price, type, status, upc,
	fraud_score, images, signals, interested_tenants, tenant_id, document_hash, lifecycle_log,
	version, created_at, updated_at`

type documents struct {
	signals   []byte
	interests []byte
	lifecycle []byte
}

func encodeDocuments(p *models.Property) (documents, error) {
	var (
		d   documents
		err error
	)
	if d.signals, err = models.EncodeSignals(p.Signals); err != nil {
		return d, fmt.Errorf("encode signals: %w", err)
	}
	if d.interests, err = models.EncodeInterestedTenants(p.InterestedTenants); err != nil {
		return d, fmt.Errorf("encode interested tenants: %w", err)
	}
	if d.lifecycle, err = models.EncodeLifecycle(p.LifecycleLog); err != nil {
		return d, fmt.Errorf("encode lifecycle log: %w", err)
	}
	return d, nil
}

func (s *PostgresStore) Create(ctx context.Context, p *models.Property) error {
	docs, err := encodeDocuments(p)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO properties (id, owner_id, title, address, description, price, type, status, upc,
			fraud_score, images, signals, interested_tenants, tenant_id, document_hash, lifecycle_log,
			version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, 1, $17, $18)
	`
	_, err = txcontext.Pick(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(p.ID), uuid.UUID(p.OwnerID), p.Title, p.Address, p.Description, p.Price,
		p.Type.String(), p.Status.StorageValue(), p.UPC, p.FraudScore, pq.Array(p.Images),
		docs.signals, docs.interests, nullUserID(p.TenantID), p.DocumentHash, docs.lifecycle,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			switch postgres.ConstraintName(err) {
			case upcConstraint:
				return models.ErrDuplicateUPC
			case documentConstraint:
				return models.ErrDuplicateDocument
			}
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert property: %w", err)
	}
	p.Version = 1
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, propertyID id.PropertyID) (*models.Property, error) {
	row := txcontext.Pick(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+propertyColumns+` FROM properties WHERE id = $1`, uuid.UUID(propertyID))
	return scanProperty(row)
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Property, error) {
	return s.query(ctx, `SELECT `+propertyColumns+` FROM properties ORDER BY created_at DESC`)
}

func (s *PostgresStore) ListByOwner(ctx context.Context, ownerID id.UserID) ([]*models.Property, error) {
	return s.query(ctx, `SELECT `+propertyColumns+` FROM properties WHERE owner_id = $1 ORDER BY created_at DESC`,
		uuid.UUID(ownerID))
}

func (s *PostgresStore) ListByStatus(ctx context.Context, status models.Status) ([]*models.Property, error) {
	return s.query(ctx, `SELECT `+propertyColumns+` FROM properties WHERE status = $1 ORDER BY created_at DESC`,
		status.StorageValue())
}

// ListFlagged reads both the current {"v":1,"items":[...]} shape and bare
// version 0 arrays.
func (s *PostgresStore) ListFlagged(ctx context.Context) ([]*models.Property, error) {
	return s.query(ctx, `
		SELECT `+propertyColumns+` FROM properties
		WHERE fraud_score > $1 OR jsonb_array_length(COALESCE(signals->'items', signals)) > 0
		ORDER BY fraud_score DESC, created_at DESC`,
		risk.FlagThreshold)
}

func (s *PostgresStore) ListForTenant(ctx context.Context, tenantID id.UserID) ([]*models.Property, error) {
	probe, err := json.Marshal([]map[string]string{{"id": tenantID.String()}})
	if err != nil {
		return nil, fmt.Errorf("encode tenant probe: %w", err)
	}
	return s.query(ctx, `
		SELECT `+propertyColumns+` FROM properties
		WHERE tenant_id = $1 OR interested_tenants->'items' @> $2::jsonb OR interested_tenants @> $2::jsonb
		ORDER BY created_at DESC`,
		uuid.UUID(tenantID), string(probe))
}

func (s *PostgresStore) CountByStatus(ctx context.Context) (map[models.Status]int, error) {
	rows, err := txcontext.Pick(ctx, s.db).QueryContext(ctx, `SELECT status, COUNT(*) FROM properties GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count properties: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.Status]int)
	for rows.Next() {
		var (
			raw string
			n   int
		)
		if err := rows.Scan(&raw, &n); err != nil {
			return nil, fmt.Errorf("scan property count: %w", err)
		}
		st, err := models.StatusFromStorage(raw)
		if err != nil {
			return nil, err
		}
		counts[st] += n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate property counts: %w", err)
	}
	return counts, nil
}

func (s *PostgresStore) query(ctx context.Context, query string, args ...any) ([]*models.Property, error) {
	rows, err := txcontext.Pick(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Property, 0)
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate properties: %w", err)
	}
	return out, nil
}

// Execute loads the row FOR UPDATE, runs validate and mutate, and writes the
// result guarded by the version read. Joins a transaction carried in ctx.
func (s *PostgresStore) Execute(ctx context.Context, propertyID id.PropertyID, validate func(*models.Property) error, mutate func(*models.Property)) (*models.Property, error) {
	if tx, ok := txcontext.From(ctx); ok {
		return s.execute(ctx, tx, propertyID, validate, mutate)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin property tx: %w", err)
	}
	p, err := s.execute(ctx, tx, propertyID, validate, mutate)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit property tx: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) execute(ctx context.Context, tx *sql.Tx, propertyID id.PropertyID, validate func(*models.Property) error, mutate func(*models.Property)) (*models.Property, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+propertyColumns+` FROM properties WHERE id = $1 FOR UPDATE`, uuid.UUID(propertyID))
	p, err := scanProperty(row)
	if err != nil {
		return nil, err
	}
	if err := validate(p); err != nil {
		return nil, err
	}
	mutate(p)

	docs, err := encodeDocuments(p)
	if err != nil {
		return nil, err
	}
	res, err := tx.ExecContext(ctx, `
		UPDATE properties SET title = $1, address = $2, description = $3, price = $4, status = $5,
			fraud_score = $6, images = $7, signals = $8, interested_tenants = $9, tenant_id = $10,
			lifecycle_log = $11, updated_at = $12, version = version + 1
		WHERE id = $13 AND version = $14`,
		p.Title, p.Address, p.Description, p.Price, p.Status.StorageValue(),
		p.FraudScore, pq.Array(p.Images), docs.signals, docs.interests, nullUserID(p.TenantID),
		docs.lifecycle, p.UpdatedAt,
		uuid.UUID(p.ID), p.Version,
	)
	if err != nil {
		return nil, fmt.Errorf("update property: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("update property rows: %w", err)
	} else if n == 0 {
		return nil, sentinel.ErrConflict
	}
	p.Version++
	return p, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProperty(row rowScanner) (*models.Property, error) {
	var (
		p                             models.Property
		rawID, ownerID                uuid.UUID
		typ, status                   string
		images                        pq.StringArray
		signals, interests, lifecycle []byte
		tenantID                      uuid.NullUUID
	)
	err := row.Scan(&rawID, &ownerID, &p.Title, &p.Address, &p.Description, &p.Price, &typ, &status,
		&p.UPC, &p.FraudScore, &images, &signals, &interests, &tenantID, &p.DocumentHash, &lifecycle,
		&p.Version, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan property: %w", err)
	}

	p.ID = id.PropertyID(rawID)
	p.OwnerID = id.UserID(ownerID)
	p.Type = models.PropertyType(typ)
	if p.Status, err = models.StatusFromStorage(status); err != nil {
		return nil, err
	}
	p.Images = []string(images)
	if tenantID.Valid {
		t := id.UserID(tenantID.UUID)
		p.TenantID = &t
	}
	if p.Signals, err = models.DecodeSignals(signals); err != nil {
		return nil, fmt.Errorf("property %s signals: %w", p.ID, err)
	}
	if p.InterestedTenants, err = models.DecodeInterestedTenants(interests); err != nil {
		return nil, fmt.Errorf("property %s interested tenants: %w", p.ID, err)
	}
	if p.LifecycleLog, err = models.DecodeLifecycle(lifecycle); err != nil {
		return nil, fmt.Errorf("property %s lifecycle log: %w", p.ID, err)
	}
	return &p, nil
}

func nullUserID(userID *id.UserID) uuid.NullUUID {
	if userID == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: uuid.UUID(*userID), Valid: true}
}
