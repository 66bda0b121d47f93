package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"trustestate/internal/identity/models"
	"trustestate/internal/identity/service/mocks"
	"trustestate/internal/verification"
	id "trustestate/pkg/domain"
	dErrors "trustestate/pkg/domain-errors"
	audit "trustestate/pkg/platform/audit"
	"trustestate/pkg/platform/sentinel"
	"trustestate/pkg/requestcontext"
)

// =============================================================================
// Identity Service Test Suite
// =============================================================================
// Justification for unit tests: the service decides account standing (ban,
// suspension, KYC order) and error translation; mocks pin the store and
// oracle interactions for each branch.

type IdentityServiceSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	users    *mocks.MockUserStore
	tokens   *mocks.MockTokenIssuer
	verifier *mocks.MockIdentityVerifier
	recorder *mocks.MockAuditRecorder
	service  *Service
	now      time.Time
	adminID  id.UserID
}

func TestIdentityServiceSuite(t *testing.T) {
	suite.Run(t, new(IdentityServiceSuite))
}

func (s *IdentityServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.users = mocks.NewMockUserStore(s.ctrl)
	s.tokens = mocks.NewMockTokenIssuer(s.ctrl)
	s.verifier = mocks.NewMockIdentityVerifier(s.ctrl)
	s.recorder = mocks.NewMockAuditRecorder(s.ctrl)
	s.now = time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	s.adminID = id.NewUserID()
	s.service = New(s.users, s.tokens,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithAuditRecorder(s.recorder),
		WithIdentityVerifier(s.verifier),
		WithBcryptCost(bcrypt.MinCost),
		WithTokenTTL(time.Hour),
	)
}

func (s *IdentityServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *IdentityServiceSuite) adminCtx() context.Context {
	ctx := requestcontext.WithTime(context.Background(), s.now)
	return requestcontext.WithPrincipal(ctx, s.adminID, "Root Admin", id.RoleAdmin)
}

func (s *IdentityServiceSuite) existingUser(password string) *models.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	s.Require().NoError(err)
	u, err := models.NewUser(id.NewUserID(), "Tess Tenant", "tess@example.com", string(hash), id.RoleTenant, s.now)
	s.Require().NoError(err)
	return u
}

// expectExecuteOn runs the store callbacks against u, like the real stores do.
func (s *IdentityServiceSuite) expectExecuteOn(u *models.User) {
	s.users.EXPECT().Execute(gomock.Any(), u.ID, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ id.UserID, validate func(*models.User) error, mutate func(*models.User)) (*models.User, error) {
			if err := validate(u); err != nil {
				return nil, err
			}
			mutate(u)
			return u, nil
		})
}

// =============================================================================
// Registration
// =============================================================================

func (s *IdentityServiceSuite) TestRegister() {
	s.Run("rejects self-registration as admin", func() {
		_, err := s.service.Register(context.Background(), &models.RegisterRequest{
			Email: "x@example.com", Password: "password1", Role: "Admin",
		})
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("duplicate email is a conflict", func() {
		s.users.EXPECT().Create(gomock.Any(), gomock.Any()).Return(sentinel.ErrConflict)
		_, err := s.service.Register(context.Background(), &models.RegisterRequest{
			Name: "Lee", Email: "lee@example.com", Password: "password1", Role: "Landlord",
		})
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("derives a name from the email and records the registration", func() {
		s.users.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		s.recorder.EXPECT().Record(gomock.Any(), audit.ActionRegisterUser, gomock.Any(), map[string]string{"role": "Tenant"})

		u, err := s.service.Register(context.Background(), &models.RegisterRequest{
			Email: "jane.doe@example.com", Password: "password1", Role: "Tenant",
		})
		s.Require().NoError(err)
		s.Equal("Jane Doe", u.Name)
		s.NotEqual("password1", u.PasswordHash)
		s.Zero(u.FraudScore)
		s.Equal(models.KYCNone, u.KYCStep)
	})
}

// =============================================================================
// Login
// =============================================================================

func (s *IdentityServiceSuite) TestLogin() {
	ctx := requestcontext.WithTime(context.Background(), s.now)

	s.Run("issues a token for valid credentials", func() {
		u := s.existingUser("correct-horse")
		s.users.EXPECT().FindByEmail(gomock.Any(), "tess@example.com").Return(u, nil)
		s.tokens.EXPECT().GenerateAccessToken(u.ID, "Tess Tenant", id.RoleTenant, time.Hour).Return("signed", nil)

		resp, err := s.service.Login(ctx, &models.LoginRequest{Email: "tess@example.com", Password: "correct-horse"})
		s.Require().NoError(err)
		s.Equal("signed", resp.AccessToken)
		s.Equal(3600, resp.ExpiresIn)
	})

	s.Run("wrong password and unknown email look the same", func() {
		u := s.existingUser("correct-horse")
		s.users.EXPECT().FindByEmail(gomock.Any(), "tess@example.com").Return(u, nil)
		_, err := s.service.Login(ctx, &models.LoginRequest{Email: "tess@example.com", Password: "nope"})
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))

		s.users.EXPECT().FindByEmail(gomock.Any(), "ghost@example.com").Return(nil, sentinel.ErrNotFound)
		_, err2 := s.service.Login(ctx, &models.LoginRequest{Email: "ghost@example.com", Password: "nope"})
		s.Equal(dErrors.MessageOf(err), dErrors.MessageOf(err2))
	})

	s.Run("banned users are refused", func() {
		u := s.existingUser("correct-horse")
		u.Ban(s.now)
		s.users.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Return(u, nil)
		_, err := s.service.Login(ctx, &models.LoginRequest{Email: "tess@example.com", Password: "correct-horse"})
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("suspended users are refused until the suspension ends", func() {
		u := s.existingUser("correct-horse")
		u.Suspend(s.now.AddDate(0, 0, -1))
		s.users.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Return(u, nil)
		_, err := s.service.Login(ctx, &models.LoginRequest{Email: "tess@example.com", Password: "correct-horse"})
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})
}

// =============================================================================
// Moderation
// =============================================================================

func (s *IdentityServiceSuite) TestSuspend() {
	u := s.existingUser("pw-12345678")
	s.expectExecuteOn(u)
	s.recorder.EXPECT().Record(gomock.Any(), audit.ActionSuspendUser, u.ID.String(),
		map[string]string{"suspension_until": "2025-04-15T12:00:00Z"})

	updated, err := s.service.Suspend(s.adminCtx(), u.ID)
	s.Require().NoError(err)
	s.Equal(time.Date(2025, 4, 15, 12, 0, 0, 0, time.UTC), *updated.SuspensionUntil)
}

func (s *IdentityServiceSuite) TestReactivateClearsBanAndSuspension() {
	u := s.existingUser("pw-12345678")
	u.Ban(s.now)
	u.Suspend(s.now)
	s.expectExecuteOn(u)
	s.recorder.EXPECT().Record(gomock.Any(), audit.ActionReactivateUser, u.ID.String(), map[string]string{})

	updated, err := s.service.Reactivate(s.adminCtx(), u.ID)
	s.Require().NoError(err)
	s.False(updated.IsBanned)
	s.Nil(updated.SuspensionUntil)
}

func (s *IdentityServiceSuite) TestModerationGuards() {
	s.Run("admins cannot ban themselves", func() {
		_, err := s.service.Ban(s.adminCtx(), s.adminID)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("unknown user is not found and nothing is audited", func() {
		target := id.NewUserID()
		s.users.EXPECT().Execute(gomock.Any(), target, gomock.Any(), gomock.Any()).Return(nil, sentinel.ErrNotFound)
		_, err := s.service.Ban(s.adminCtx(), target)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

// =============================================================================
// KYC
// =============================================================================

func (s *IdentityServiceSuite) TestAdvanceKYC() {
	s.Run("rejected identity document does not advance", func() {
		u := s.existingUser("pw-12345678")
		s.users.EXPECT().FindByID(gomock.Any(), u.ID).Return(u, nil)
		s.verifier.EXPECT().VerifyIdentityIntegrity(gomock.Any(), "id-img", "Tess Tenant").
			Return(verification.IdentityResult{Similarity: 40, Reason: "name mismatch"}, nil)

		_, err := s.service.AdvanceKYC(context.Background(), u.ID, &models.KYCRequest{Step: 1, IDImage: "id-img"})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Contains(dErrors.MessageOf(err), "name mismatch")
	})

	s.Run("accepted face match moves to step 2", func() {
		u := s.existingUser("pw-12345678")
		u.ApplyKYCStep(models.KYCIDUploaded, s.now)
		s.users.EXPECT().FindByID(gomock.Any(), u.ID).Return(u, nil)
		s.verifier.EXPECT().CompareFace(gomock.Any(), "id-img", "face-img").
			Return(verification.FaceResult{IsSamePerson: true, Confidence: 91}, nil)
		s.expectExecuteOn(u)

		updated, err := s.service.AdvanceKYC(context.Background(), u.ID,
			&models.KYCRequest{Step: 2, IDImage: "id-img", FaceImage: "face-img"})
		s.Require().NoError(err)
		s.Equal(models.KYCBiometricCaptured, updated.KYCStep)
		s.False(updated.KYCVerified)
	})

	s.Run("oracle outage surfaces as unavailable", func() {
		u := s.existingUser("pw-12345678")
		s.users.EXPECT().FindByID(gomock.Any(), u.ID).Return(u, nil)
		s.verifier.EXPECT().VerifyIdentityIntegrity(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(verification.IdentityResult{}, verification.ErrUnavailable)

		_, err := s.service.AdvanceKYC(context.Background(), u.ID, &models.KYCRequest{Step: 1, IDImage: "x"})
		s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
	})
}

func (s *IdentityServiceSuite) TestVerifyFromComplaint() {
	u := s.existingUser("pw-12345678")
	s.expectExecuteOn(u)

	updated, err := s.service.VerifyFromComplaint(s.adminCtx(), u.ID)
	s.Require().NoError(err)
	s.True(updated.KYCVerified)
	s.Equal(models.KYCComplete, updated.KYCStep)
}
