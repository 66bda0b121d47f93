package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"trustestate/internal/dispute/models"
	"trustestate/internal/dispute/service/mocks"
	identitymodels "trustestate/internal/identity/models"
	registrymodels "trustestate/internal/registry/models"
	id "trustestate/pkg/domain"
	dErrors "trustestate/pkg/domain-errors"
	audit "trustestate/pkg/platform/audit"
	"trustestate/pkg/platform/sentinel"
	"trustestate/pkg/requestcontext"
)

// =============================================================================
// Dispute Service Test Suite
// =============================================================================
// Justification for unit tests: resolution fans out to the registry or the
// identity service depending on the complaint target, and must leave the
// complaint open when the target is gone. Mocks pin which side effect runs.

type DisputeServiceSuite struct {
	suite.Suite
	ctrl       *gomock.Controller
	complaints *mocks.MockComplaintStore
	properties *mocks.MockPropertyTargets
	users      *mocks.MockUserTargets
	tx         *mocks.MockTxRunner
	recorder   *mocks.MockAuditRecorder
	service    *Service
	now        time.Time
	filer      id.UserID
}

func TestDisputeServiceSuite(t *testing.T) {
	suite.Run(t, new(DisputeServiceSuite))
}

func (s *DisputeServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.complaints = mocks.NewMockComplaintStore(s.ctrl)
	s.properties = mocks.NewMockPropertyTargets(s.ctrl)
	s.users = mocks.NewMockUserTargets(s.ctrl)
	s.tx = mocks.NewMockTxRunner(s.ctrl)
	s.recorder = mocks.NewMockAuditRecorder(s.ctrl)
	s.now = time.Date(2025, 2, 10, 14, 0, 0, 0, time.UTC)
	s.filer = id.NewUserID()
	s.service = New(s.complaints, s.properties, s.users,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithAuditRecorder(s.recorder),
		WithTxRunner(s.tx),
	)
	s.tx.EXPECT().RunInTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context) error) error { return fn(ctx) }).
		AnyTimes()
}

func (s *DisputeServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *DisputeServiceSuite) adminCtx() context.Context {
	ctx := requestcontext.WithTime(context.Background(), s.now)
	return requestcontext.WithPrincipal(ctx, id.NewUserID(), "Root Admin", id.RoleAdmin)
}

func (s *DisputeServiceSuite) filerCtx() context.Context {
	ctx := requestcontext.WithTime(context.Background(), s.now)
	return requestcontext.WithPrincipal(ctx, s.filer, "Fiona Filer", id.RoleLandlord)
}

func (s *DisputeServiceSuite) complaint(propertyID *id.PropertyID) *models.Complaint {
	c, err := models.NewComplaint(id.NewComplaintID(), s.filer, propertyID, "please review", s.now.Add(-time.Hour))
	s.Require().NoError(err)
	return c
}

// bind runs store callbacks against c, like the real stores do.
func (s *DisputeServiceSuite) bind(c *models.Complaint) {
	s.complaints.EXPECT().Execute(gomock.Any(), c.ID, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ id.ComplaintID, validate func(*models.Complaint) error, mutate func(*models.Complaint)) (*models.Complaint, error) {
			if err := validate(c); err != nil {
				return nil, err
			}
			mutate(c)
			return c.Clone(), nil
		}).AnyTimes()
}

// =============================================================================
// Filing
// =============================================================================

func (s *DisputeServiceSuite) TestFile() {
	s.Run("property complaint checks the property exists", func() {
		propertyID := id.NewPropertyID()
		s.properties.EXPECT().Get(gomock.Any(), propertyID).Return(&registrymodels.Property{ID: propertyID}, nil)
		s.complaints.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		s.recorder.EXPECT().Record(gomock.Any(), audit.ActionFileComplaint, gomock.Any(),
			map[string]string{"user_id": s.filer.String(), "property_id": propertyID.String()})

		c, err := s.service.File(s.filerCtx(), &models.FileComplaintRequest{
			Message: "my listing was locked", PropertyID: propertyID.String(),
		})
		s.Require().NoError(err)
		s.False(c.Resolved)
		s.Equal(s.filer, c.UserID)
		s.Equal(propertyID, *c.PropertyID)
	})

	s.Run("unknown property", func() {
		propertyID := id.NewPropertyID()
		s.properties.EXPECT().Get(gomock.Any(), propertyID).Return(nil, dErrors.New(dErrors.CodeNotFound, "property not found"))

		_, err := s.service.File(s.filerCtx(), &models.FileComplaintRequest{
			Message: "locked", PropertyID: propertyID.String(),
		})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("account complaint", func() {
		s.complaints.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		s.recorder.EXPECT().Record(gomock.Any(), audit.ActionFileComplaint, gomock.Any(),
			map[string]string{"user_id": s.filer.String()})

		c, err := s.service.File(s.filerCtx(), &models.FileComplaintRequest{Message: "KYC rejected"})
		s.Require().NoError(err)
		s.Nil(c.PropertyID)
	})
}

// =============================================================================
// Resolution
// =============================================================================

func (s *DisputeServiceSuite) TestVerifyAndResolveProperty() {
	propertyID := id.NewPropertyID()
	c := s.complaint(&propertyID)
	s.bind(c)
	s.properties.EXPECT().RestoreFromComplaint(gomock.Any(), propertyID).
		Return(&registrymodels.Property{ID: propertyID, Status: registrymodels.StatusAvailable}, nil)
	s.recorder.EXPECT().Record(gomock.Any(), audit.ActionVerifyPropertyFromComplaint, propertyID.String(),
		map[string]string{"complaint_id": c.ID.String()})

	resolved, err := s.service.Resolve(s.adminCtx(), c.ID, models.ActionVerifyAndResolve)
	s.Require().NoError(err)
	s.True(resolved.Resolved)
	s.Equal(models.ActionVerifyAndResolve, resolved.Resolution)
	s.Equal(s.now, *resolved.ResolvedAt)
}

func (s *DisputeServiceSuite) TestVerifyAndResolveUser() {
	c := s.complaint(nil)
	s.bind(c)
	s.users.EXPECT().VerifyFromComplaint(gomock.Any(), s.filer).
		Return(&identitymodels.User{ID: s.filer, KYCVerified: true, KYCStep: identitymodels.KYCComplete}, nil)
	s.recorder.EXPECT().Record(gomock.Any(), audit.ActionVerifyUserFromComplaint, s.filer.String(), gomock.Any())

	resolved, err := s.service.Resolve(s.adminCtx(), c.ID, models.ActionVerifyAndResolve)
	s.Require().NoError(err)
	s.True(resolved.Resolved)
}

func (s *DisputeServiceSuite) TestDismissTouchesNoTarget() {
	propertyID := id.NewPropertyID()
	c := s.complaint(&propertyID)
	s.bind(c)
	s.recorder.EXPECT().Record(gomock.Any(), audit.ActionDismissComplaint, c.ID.String(), gomock.Any())

	resolved, err := s.service.Resolve(s.adminCtx(), c.ID, models.ActionDismissOnly)
	s.Require().NoError(err)
	s.True(resolved.Resolved)
	s.Equal(models.ActionDismissOnly, resolved.Resolution)
}

func (s *DisputeServiceSuite) TestResolveNormalizesAction() {
	c := s.complaint(nil)
	s.bind(c)
	s.recorder.EXPECT().Record(gomock.Any(), audit.ActionDismissComplaint, c.ID.String(), gomock.Any())

	resolved, err := s.service.Resolve(s.adminCtx(), c.ID, models.Action(" dismiss-only "))
	s.Require().NoError(err)
	s.Equal(models.ActionDismissOnly, resolved.Resolution)
}

func (s *DisputeServiceSuite) TestMissingTargetLeavesComplaintOpen() {
	propertyID := id.NewPropertyID()
	c := s.complaint(&propertyID)
	s.bind(c)
	s.properties.EXPECT().RestoreFromComplaint(gomock.Any(), propertyID).
		Return(nil, dErrors.New(dErrors.CodeNotFound, "property not found"))

	_, err := s.service.Resolve(s.adminCtx(), c.ID, models.ActionVerifyAndResolve)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	s.False(c.Resolved)
}

func (s *DisputeServiceSuite) TestResolveGuards() {
	s.Run("already resolved", func() {
		c := s.complaint(nil)
		c.Resolve(models.ActionDismissOnly, s.now)
		s.bind(c)
		_, err := s.service.Resolve(s.adminCtx(), c.ID, models.ActionVerifyAndResolve)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("unknown complaint", func() {
		complaintID := id.NewComplaintID()
		s.complaints.EXPECT().Execute(gomock.Any(), complaintID, gomock.Any(), gomock.Any()).Return(nil, sentinel.ErrNotFound)
		_, err := s.service.Resolve(s.adminCtx(), complaintID, models.ActionDismissOnly)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("unknown action", func() {
		_, err := s.service.Resolve(s.adminCtx(), id.NewComplaintID(), models.Action("escalate"))
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("store failure is internal", func() {
		complaintID := id.NewComplaintID()
		s.complaints.EXPECT().Execute(gomock.Any(), complaintID, gomock.Any(), gomock.Any()).Return(nil, errors.New("pq: broken pipe"))
		_, err := s.service.Resolve(s.adminCtx(), complaintID, models.ActionDismissOnly)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *DisputeServiceSuite) TestList() {
	open := []*models.Complaint{s.complaint(nil)}
	s.complaints.EXPECT().List(gomock.Any(), true).Return(open, nil)

	got, err := s.service.List(context.Background(), true)
	s.Require().NoError(err)
	s.Equal(open, got)
}
