package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/crypto/bcrypt"

	identitymetrics "trustestate/internal/identity/metrics"
	"trustestate/internal/identity/models"
	"trustestate/internal/verification"
	id "trustestate/pkg/domain"
	dErrors "trustestate/pkg/domain-errors"
	"trustestate/pkg/email"
	audit "trustestate/pkg/platform/audit"
	"trustestate/pkg/platform/sentinel"
	"trustestate/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks UserStore,TokenIssuer,IdentityVerifier,AuditRecorder

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, userID id.UserID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Execute(ctx context.Context, userID id.UserID, validate func(*models.User) error, mutate func(*models.User)) (*models.User, error)
}

type TokenIssuer interface {
	GenerateAccessToken(userID id.UserID, name string, role id.Role, expiresIn time.Duration) (string, error)
}

// IdentityVerifier is the KYC subset of the verification oracle.
type IdentityVerifier interface {
	VerifyIdentityIntegrity(ctx context.Context, idImage, registeredName string) (verification.IdentityResult, error)
	CompareFace(ctx context.Context, idImage, faceImage string) (verification.FaceResult, error)
}

type AuditRecorder interface {
	Record(ctx context.Context, action audit.Action, targetID string, metadata map[string]string)
}

var tracer = otel.Tracer("trustestate/identity")

const defaultTokenTTL = 12 * time.Hour

// Service owns user accounts: registration, login, self-service profile and
// KYC, and admin moderation.
type Service struct {
	users      UserStore
	tokens     TokenIssuer
	tokenTTL   time.Duration
	verifier   IdentityVerifier
	audit      AuditRecorder
	logger     *slog.Logger
	metrics    *identitymetrics.Metrics
	bcryptCost int
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *identitymetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditRecorder(r AuditRecorder) Option {
	return func(s *Service) {
		s.audit = r
	}
}

func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.tokenTTL = ttl
		}
	}
}

func WithIdentityVerifier(v IdentityVerifier) Option {
	return func(s *Service) {
		s.verifier = v
	}
}

// WithBcryptCost lowers the hashing cost in tests.
func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		s.bcryptCost = cost
	}
}

func New(users UserStore, tokens TokenIssuer, opts ...Option) *Service {
	s := &Service{
		users:      users,
		tokens:     tokens,
		tokenTTL:   defaultTokenTTL,
		logger:     slog.Default(),
		bcryptCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a Landlord or Tenant account. Admins are only created by
// seeding.
func (s *Service) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	role, err := id.ParseRole(req.Role)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, "role must be Landlord or Tenant")
	}
	if role == id.RoleAdmin {
		return nil, dErrors.New(dErrors.CodeForbidden, "admin accounts cannot be self-registered")
	}

	name := req.Name
	if name == "" {
		name = email.DisplayName(req.Email)
	}

	user, err := s.createUser(ctx, name, req.Email, req.Password, role)
	if err != nil {
		return nil, err
	}
	s.metrics.IncrementRegistered()
	s.record(ctx, audit.ActionRegisterUser, user.ID.String(), map[string]string{"role": role.String()})
	return user, nil
}

// EnsureAdmin creates the seed admin when the email is not yet registered.
// Returns created=false when an account already exists.
func (s *Service) EnsureAdmin(ctx context.Context, name, emailAddr, password string) (*models.User, bool, error) {
	existing, err := s.users.FindByEmail(ctx, emailAddr)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up admin")
	}
	user, err := s.createUser(ctx, name, emailAddr, password, id.RoleAdmin)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeConflict) {
			existing, findErr := s.users.FindByEmail(ctx, emailAddr)
			if findErr == nil {
				return existing, false, nil
			}
		}
		return nil, false, err
	}
	user, err = s.users.Execute(ctx, user.ID,
		func(*models.User) error { return nil },
		func(u *models.User) {
			u.MarkKYCVerified(requestcontext.Now(ctx))
			u.EmailVerified = true
		},
	)
	if err != nil {
		return nil, false, wrapUserErr(err)
	}
	return user, true, nil
}

func (s *Service) createUser(ctx context.Context, name, emailAddr, password string, role id.Role) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}
	user, err := models.NewUser(id.NewUserID(), name, emailAddr, string(hash), role, requestcontext.Now(ctx))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
		}
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "email already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create user")
	}
	return user, nil
}

// Login checks credentials and account standing and issues an access token.
func (s *Service) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	ctx, span := tracer.Start(ctx, "identity.Login")
	defer span.End()

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.metrics.IncrementLogin("invalid_credentials")
			return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "lookup failed")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	span.SetAttributes(attribute.String("user.id", user.ID.String()))

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.metrics.IncrementLogin("invalid_credentials")
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
	}
	if err := user.CanLogin(requestcontext.Now(ctx)); err != nil {
		s.metrics.IncrementLogin("blocked")
		s.logger.WarnContext(ctx, "login refused for restricted account",
			"user_id", user.ID.String(),
			"request_id", requestcontext.RequestID(ctx),
		)
		return nil, err
	}

	accessToken, err := s.tokens.GenerateAccessToken(user.ID, user.Name, user.Role, s.tokenTTL)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}
	s.metrics.IncrementLogin("success")
	return &models.LoginResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.tokenTTL.Seconds()),
		User:        user,
	}, nil
}

func (s *Service) Get(ctx context.Context, userID id.UserID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, wrapUserErr(err)
	}
	return user, nil
}

func (s *Service) List(ctx context.Context) ([]*models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list users")
	}
	return users, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID id.UserID, req *models.UpdateProfileRequest) (*models.User, error) {
	now := requestcontext.Now(ctx)
	user, err := s.users.Execute(ctx, userID,
		func(*models.User) error { return nil },
		func(u *models.User) {
			if req.Name != nil {
				u.Name = strings.TrimSpace(*req.Name)
			}
			if req.Phone != nil && strings.TrimSpace(*req.Phone) != u.Phone {
				u.Phone = strings.TrimSpace(*req.Phone)
				u.PhoneVerified = false
			}
			if req.ProfileImage != nil {
				u.ProfileImage = *req.ProfileImage
			}
			u.UpdatedAt = now
		},
	)
	if err != nil {
		return nil, wrapUserErr(err)
	}
	return user, nil
}

// AdvanceKYC moves the user to the next KYC step once the oracle accepts the
// evidence for it. Step 1 checks the ID against the registered name, step 2
// matches a live face capture against the ID, step 3 completes verification.
func (s *Service) AdvanceKYC(ctx context.Context, userID id.UserID, req *models.KYCRequest) (*models.User, error) {
	ctx, span := tracer.Start(ctx, "identity.AdvanceKYC")
	defer span.End()
	step := models.KYCStep(req.Step)
	span.SetAttributes(attribute.Int("kyc.step", req.Step))

	current, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, wrapUserErr(err)
	}
	if err := current.CanAdvanceKYC(step); err != nil {
		return nil, err
	}
	if err := s.checkEvidence(ctx, current, step, req); err != nil {
		span.SetStatus(codes.Error, dErrors.MessageOf(err))
		return nil, err
	}

	now := requestcontext.Now(ctx)
	user, err := s.users.Execute(ctx, userID,
		func(u *models.User) error { return u.CanAdvanceKYC(step) },
		func(u *models.User) { u.ApplyKYCStep(step, now) },
	)
	if err != nil {
		return nil, wrapUserErr(err)
	}
	return user, nil
}

func (s *Service) checkEvidence(ctx context.Context, user *models.User, step models.KYCStep, req *models.KYCRequest) error {
	if s.verifier == nil || step == models.KYCComplete {
		return nil
	}
	switch step {
	case models.KYCIDUploaded:
		res, err := s.verifier.VerifyIdentityIntegrity(ctx, req.IDImage, user.Name)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeUnavailable, "verification service unreachable")
		}
		if !res.Verified() {
			return dErrors.New(dErrors.CodeValidation, "identity document rejected: "+res.Reason)
		}
	case models.KYCBiometricCaptured:
		res, err := s.verifier.CompareFace(ctx, req.IDImage, req.FaceImage)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeUnavailable, "verification service unreachable")
		}
		if !res.Verified() {
			return dErrors.New(dErrors.CodeValidation, "face capture does not match identity document: "+res.Reason)
		}
	}
	return nil
}

// VerifyFromComplaint completes KYC for a user vindicated by a complaint.
func (s *Service) VerifyFromComplaint(ctx context.Context, userID id.UserID) (*models.User, error) {
	now := requestcontext.Now(ctx)
	user, err := s.users.Execute(ctx, userID,
		func(*models.User) error { return nil },
		func(u *models.User) { u.MarkKYCVerified(now) },
	)
	if err != nil {
		return nil, wrapUserErr(err)
	}
	return user, nil
}

func (s *Service) Ban(ctx context.Context, userID id.UserID) (*models.User, error) {
	return s.moderate(ctx, userID, audit.ActionBanUser, func(u *models.User, now time.Time) { u.Ban(now) })
}

// Suspend blocks login for three calendar months from now.
func (s *Service) Suspend(ctx context.Context, userID id.UserID) (*models.User, error) {
	return s.moderate(ctx, userID, audit.ActionSuspendUser, func(u *models.User, now time.Time) { u.Suspend(now) })
}

// Reactivate clears ban and suspension unconditionally.
func (s *Service) Reactivate(ctx context.Context, userID id.UserID) (*models.User, error) {
	return s.moderate(ctx, userID, audit.ActionReactivateUser, func(u *models.User, now time.Time) { u.Reactivate(now) })
}

func (s *Service) moderate(ctx context.Context, userID id.UserID, action audit.Action, apply func(*models.User, time.Time)) (*models.User, error) {
	if userID == requestcontext.UserID(ctx) {
		return nil, dErrors.New(dErrors.CodeForbidden, "admins cannot moderate their own account")
	}
	now := requestcontext.Now(ctx)
	user, err := s.users.Execute(ctx, userID,
		func(*models.User) error { return nil },
		func(u *models.User) { apply(u, now) },
	)
	if err != nil {
		return nil, wrapUserErr(err)
	}

	metadata := map[string]string{}
	if user.SuspensionUntil != nil {
		metadata["suspension_until"] = user.SuspensionUntil.UTC().Format(time.RFC3339)
	}
	s.record(ctx, action, userID.String(), metadata)
	s.metrics.IncrementAdminAction(action.String())
	s.logger.InfoContext(ctx, "user moderated",
		"action", action.String(),
		"user_id", userID.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return user, nil
}

func (s *Service) record(ctx context.Context, action audit.Action, targetID string, metadata map[string]string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(ctx, action, targetID, metadata)
}

func wrapUserErr(err error) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "user not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeConflict, "user was modified concurrently, retry")
	case dErrors.IsDomainError(err):
		return err
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "registry sync failed")
	}
}
