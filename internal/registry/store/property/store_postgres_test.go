package property

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/suite"

	"trustestate/internal/registry/models"
	"trustestate/internal/risk"
	id "trustestate/pkg/domain"
	"trustestate/pkg/platform/sentinel"
)

type PostgresPropertyStoreSuite struct {
	suite.Suite
	mock  sqlmock.Sqlmock
	store *PostgresStore
	ctx   context.Context
	now   time.Time
}

func TestPostgresPropertyStoreSuite(t *testing.T) {
	suite.Run(t, new(PostgresPropertyStoreSuite))
}

func (s *PostgresPropertyStoreSuite) SetupTest() {
	db, mock, err := sqlmock.New()
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = db.Close() })
	s.mock = mock
	s.store = NewPostgres(db)
	s.ctx = context.Background()
	s.now = time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)
}

var propertyRowColumns = []string{
	"id", "owner_id", "title", "address", "description", "price", "type", "status", "upc",
	"fraud_score", "images", "signals", "interested_tenants", "tenant_id", "document_hash", "lifecycle_log",
	"version", "created_at", "updated_at",
}

// lockedRow is a LOCKED property whose interested tenants are still stored
// in the version 0 array shape.
func (s *PostgresPropertyStoreSuite) lockedRow(propertyID id.PropertyID, tenant id.UserID, version int64) *sqlmock.Rows {
	lifecycle := `{"v":1,"items":[` +
		`{"status":"AVAILABLE","timestamp":"2025-02-01T10:00:00Z","actor":"Ada","note":"Initial Registry Enrollment"},` +
		`{"status":"LOCKED","timestamp":"2025-02-02T10:00:00Z","actor":"Root","note":"Fraud or Dispute Security Lock"}]}`
	signals := `{"v":1,"items":[{"id":"sig-1","type":"IP","severity":"High","description":"vpn","timestamp":"2025-02-01T10:00:00Z"}]}`
	interests := `[{"id":"` + tenant.String() + `","name":"Tess","email":"tess@example.com","timestamp":"2025-02-01T11:00:00Z"}]`

	return sqlmock.NewRows(propertyRowColumns).AddRow(
		propertyID.String(), id.NewUserID().String(), "Duplex", "12 Admiralty Way", "", "250000.00", "Sale", "FLAGGED", "UPC-12AD-X7K2",
		30, "{img-1,img-2}", []byte(signals), []byte(interests), nil, "hash-1", []byte(lifecycle),
		version, s.now, s.now,
	)
}

func (s *PostgresPropertyStoreSuite) TestFindByIDDecodesDocuments() {
	propertyID, tenant := id.NewPropertyID(), id.NewUserID()
	s.mock.ExpectQuery(regexp.QuoteMeta("FROM properties WHERE id = $1")).
		WithArgs(propertyID.String()).
		WillReturnRows(s.lockedRow(propertyID, tenant, 3))

	p, err := s.store.FindByID(s.ctx, propertyID)
	s.Require().NoError(err)
	s.Equal(models.StatusLocked, p.Status)
	s.Equal(250000.0, p.Price)
	s.Equal([]string{"img-1", "img-2"}, p.Images)
	s.Require().Len(p.Signals, 1)
	s.Equal(models.SeverityHigh, p.Signals[0].Severity)
	s.Require().Len(p.InterestedTenants, 1)
	s.Equal(tenant, p.InterestedTenants[0].ID)
	s.Nil(p.TenantID)
	s.Require().NoError(p.CheckLifecycle())
	s.Require().NoError(s.mock.ExpectationsWereMet())
}

func (s *PostgresPropertyStoreSuite) TestFindByIDNotFound() {
	s.mock.ExpectQuery("FROM properties WHERE id").WillReturnRows(sqlmock.NewRows(propertyRowColumns))
	_, err := s.store.FindByID(s.ctx, id.NewPropertyID())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresPropertyStoreSuite) TestCreateMapsConstraints() {
	p, err := models.NewProperty(models.NewPropertyParams{
		ID: id.NewPropertyID(), OwnerID: id.NewUserID(), Title: "Duplex", Address: "12 Admiralty Way",
		Type: models.TypeSale, UPC: "UPC-12AD-X7K2", DocumentHash: "hash-1", Images: []string{"img"},
		Actor: "Ada", Now: s.now,
	})
	s.Require().NoError(err)

	tests := []struct {
		constraint string
		want       error
	}{
		{upcConstraint, models.ErrDuplicateUPC},
		{documentConstraint, models.ErrDuplicateDocument},
		{"properties_pkey", sentinel.ErrConflict},
	}
	for _, tt := range tests {
		s.mock.ExpectExec("INSERT INTO properties").
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: tt.constraint})
		s.ErrorIs(s.store.Create(s.ctx, p), tt.want, tt.constraint)
	}

	s.mock.ExpectExec("INSERT INTO properties").
		WithArgs(p.ID.String(), p.OwnerID.String(), "Duplex", "12 Admiralty Way", "", 0.0, "Sale", "AVAILABLE",
			"UPC-12AD-X7K2", 0, sqlmock.AnyArg(), []byte(`{"v":1,"items":[]}`), []byte(`{"v":1,"items":[]}`),
			nil, "hash-1", sqlmock.AnyArg(), s.now, s.now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.Require().NoError(s.store.Create(s.ctx, p))
	s.EqualValues(1, p.Version)
	s.Require().NoError(s.mock.ExpectationsWereMet())
}

func (s *PostgresPropertyStoreSuite) TestExecuteLocksRowAndChecksVersion() {
	propertyID := id.NewPropertyID()

	s.mock.ExpectBegin()
	s.mock.ExpectQuery(regexp.QuoteMeta("FROM properties WHERE id = $1 FOR UPDATE")).
		WillReturnRows(s.lockedRow(propertyID, id.NewUserID(), 3))
	s.mock.ExpectExec(regexp.QuoteMeta("WHERE id = $13 AND version = $14")).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "AVAILABLE",
			30, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), nil,
			sqlmock.AnyArg(), sqlmock.AnyArg(),
			propertyID.String(), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	p, err := s.store.Execute(s.ctx, propertyID,
		func(*models.Property) error { return nil },
		func(p *models.Property) { _, _ = p.Transition(models.StatusAvailable, "Root", s.now.Add(48*time.Hour)) },
	)
	s.Require().NoError(err)
	s.Equal(models.StatusAvailable, p.Status)
	s.Len(p.LifecycleLog, 3)
	s.Equal(30, p.FraudScore, "unlock keeps the score")
	s.EqualValues(4, p.Version)
	s.Require().NoError(s.mock.ExpectationsWereMet())
}

func (s *PostgresPropertyStoreSuite) TestExecuteStaleVersionIsConflict() {
	propertyID := id.NewPropertyID()

	s.mock.ExpectBegin()
	s.mock.ExpectQuery("FOR UPDATE").WillReturnRows(s.lockedRow(propertyID, id.NewUserID(), 2))
	s.mock.ExpectExec("UPDATE properties").WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectRollback()

	_, err := s.store.Execute(s.ctx, propertyID,
		func(*models.Property) error { return nil },
		func(p *models.Property) { _, _ = p.Transition(models.StatusAvailable, "Root", s.now) },
	)
	s.ErrorIs(err, sentinel.ErrConflict)
	s.Require().NoError(s.mock.ExpectationsWereMet())
}

func (s *PostgresPropertyStoreSuite) TestExecuteValidationRollsBack() {
	propertyID := id.NewPropertyID()

	s.mock.ExpectBegin()
	s.mock.ExpectQuery("FOR UPDATE").WillReturnRows(s.lockedRow(propertyID, id.NewUserID(), 2))
	s.mock.ExpectRollback()

	_, err := s.store.Execute(s.ctx, propertyID,
		func(*models.Property) error { return sentinel.ErrInvalidState },
		func(*models.Property) { s.Fail("mutate must not run") },
	)
	s.ErrorIs(err, sentinel.ErrInvalidState)
	s.Require().NoError(s.mock.ExpectationsWereMet())
}

func (s *PostgresPropertyStoreSuite) TestListFlaggedUsesThreshold() {
	s.mock.ExpectQuery(regexp.QuoteMeta("WHERE fraud_score > $1 OR jsonb_array_length")).
		WithArgs(risk.FlagThreshold).
		WillReturnRows(s.lockedRow(id.NewPropertyID(), id.NewUserID(), 1))

	out, err := s.store.ListFlagged(s.ctx)
	s.Require().NoError(err)
	s.Len(out, 1)
	s.Require().NoError(s.mock.ExpectationsWereMet())
}

func (s *PostgresPropertyStoreSuite) TestCountByStatusFoldsStorageValues() {
	s.mock.ExpectQuery("SELECT status, COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("AVAILABLE", 4).
			AddRow("FLAGGED", 2))

	counts, err := s.store.CountByStatus(s.ctx)
	s.Require().NoError(err)
	s.Equal(map[models.Status]int{models.StatusAvailable: 4, models.StatusLocked: 2}, counts)
}
