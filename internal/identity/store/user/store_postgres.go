package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"trustestate/internal/identity/models"
	"trustestate/internal/platform/postgres"
	id "trustestate/pkg/domain"
	"trustestate/pkg/platform/sentinel"
	txcontext "trustestate/pkg/platform/tx"
)

// PostgresStore persists users in the users table. Writes made through
// Execute lock the row with FOR UPDATE and bump the version column.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const userColumns = `id, name, email, password_hash, role, phone, profile_image, fraud_score,
	is_banned, suspension_until, kyc_verified, kyc_step, email_verified, phone_verified,
	version, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, role, phone, profile_image, fraud_score,
			is_banned, suspension_until, kyc_verified, kyc_step, email_verified, phone_verified,
			version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, 1, $15, $16)
	`
	_, err := txcontext.Pick(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(user.ID), user.Name, models.NormalizeEmail(user.Email), user.PasswordHash,
		user.Role.String(), user.Phone, user.ProfileImage, user.FraudScore,
		user.IsBanned, nullTime(user.SuspensionUntil), user.KYCVerified, int(user.KYCStep),
		user.EmailVerified, user.PhoneVerified, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert user: %w", err)
	}
	user.Version = 1
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, userID id.UserID) (*models.User, error) {
	row := txcontext.Pick(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, uuid.UUID(userID))
	return scanUser(row)
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	row := txcontext.Pick(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE LOWER(email) = $1`, models.NormalizeEmail(email))
	return scanUser(row)
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.User, error) {
	rows, err := txcontext.Pick(ctx, s.db).QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var out []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return out, nil
}

// Execute loads the row FOR UPDATE, runs validate and mutate, and writes the
// result guarded by the version read. Joins a transaction carried in ctx.
func (s *PostgresStore) Execute(ctx context.Context, userID id.UserID, validate func(*models.User) error, mutate func(*models.User)) (*models.User, error) {
	if tx, ok := txcontext.From(ctx); ok {
		return s.execute(ctx, tx, userID, validate, mutate)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin user tx: %w", err)
	}
	u, err := s.execute(ctx, tx, userID, validate, mutate)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit user tx: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) execute(ctx context.Context, tx *sql.Tx, userID id.UserID, validate func(*models.User) error, mutate func(*models.User)) (*models.User, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, uuid.UUID(userID))
	u, err := scanUser(row)
	if err != nil {
		return nil, err
	}
	if err := validate(u); err != nil {
		return nil, err
	}
	mutate(u)

	res, err := tx.ExecContext(ctx, `
		UPDATE users SET name = $1, phone = $2, profile_image = $3, fraud_score = $4,
			is_banned = $5, suspension_until = $6, kyc_verified = $7, kyc_step = $8,
			email_verified = $9, phone_verified = $10, updated_at = $11, version = version + 1
		WHERE id = $12 AND version = $13`,
		u.Name, u.Phone, u.ProfileImage, u.FraudScore,
		u.IsBanned, nullTime(u.SuspensionUntil), u.KYCVerified, int(u.KYCStep),
		u.EmailVerified, u.PhoneVerified, u.UpdatedAt,
		uuid.UUID(u.ID), u.Version,
	)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("update user rows: %w", err)
	} else if n == 0 {
		return nil, sentinel.ErrConflict
	}
	u.Version++
	return u, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		u         models.User
		rawID     uuid.UUID
		role      string
		kycStep   int
		suspended sql.NullTime
	)
	err := row.Scan(&rawID, &u.Name, &u.Email, &u.PasswordHash, &role, &u.Phone, &u.ProfileImage,
		&u.FraudScore, &u.IsBanned, &suspended, &u.KYCVerified, &kycStep, &u.EmailVerified,
		&u.PhoneVerified, &u.Version, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.ID = id.UserID(rawID)
	u.Role = id.Role(role)
	u.KYCStep = models.KYCStep(kycStep)
	if suspended.Valid {
		t := suspended.Time.UTC()
		u.SuspensionUntil = &t
	}
	return &u, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
