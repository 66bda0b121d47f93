package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	disputemetrics "trustestate/internal/dispute/metrics"
	"trustestate/internal/dispute/models"
	identitymodels "trustestate/internal/identity/models"
	registrymodels "trustestate/internal/registry/models"
	id "trustestate/pkg/domain"
	dErrors "trustestate/pkg/domain-errors"
	audit "trustestate/pkg/platform/audit"
	"trustestate/pkg/platform/sentinel"
	"trustestate/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks ComplaintStore,PropertyTargets,UserTargets,TxRunner,AuditRecorder

type ComplaintStore interface {
	Create(ctx context.Context, c *models.Complaint) error
	FindByID(ctx context.Context, complaintID id.ComplaintID) (*models.Complaint, error)
	List(ctx context.Context, openOnly bool) ([]*models.Complaint, error)
	Execute(ctx context.Context, complaintID id.ComplaintID, validate func(*models.Complaint) error, mutate func(*models.Complaint)) (*models.Complaint, error)
}

// PropertyTargets is the registry surface a complaint can act on.
type PropertyTargets interface {
	Get(ctx context.Context, propertyID id.PropertyID) (*registrymodels.Property, error)
	RestoreFromComplaint(ctx context.Context, propertyID id.PropertyID) (*registrymodels.Property, error)
}

// UserTargets is the identity surface a complaint can act on.
type UserTargets interface {
	VerifyFromComplaint(ctx context.Context, userID id.UserID) (*identitymodels.User, error)
}

// TxRunner runs fn in one unit of work. Postgres stores join the
// transaction it places in ctx.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type AuditRecorder interface {
	Record(ctx context.Context, action audit.Action, targetID string, metadata map[string]string)
}

var tracer = otel.Tracer("trustestate/dispute")

type inlineRunner struct{}

func (inlineRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// Service files complaints and resolves them against their target.
type Service struct {
	complaints ComplaintStore
	properties PropertyTargets
	users      UserTargets
	tx         TxRunner
	audit      AuditRecorder
	logger     *slog.Logger
	metrics    *disputemetrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *disputemetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditRecorder(r AuditRecorder) Option {
	return func(s *Service) {
		s.audit = r
	}
}

// WithTxRunner makes resolution atomic across the complaint and its target.
func WithTxRunner(r TxRunner) Option {
	return func(s *Service) {
		if r != nil {
			s.tx = r
		}
	}
}

func New(complaints ComplaintStore, properties PropertyTargets, users UserTargets, opts ...Option) *Service {
	s := &Service{
		complaints: complaints,
		properties: properties,
		users:      users,
		tx:         inlineRunner{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// File records an unresolved complaint from the calling user, optionally
// about one property.
func (s *Service) File(ctx context.Context, req *models.FileComplaintRequest) (*models.Complaint, error) {
	filer := requestcontext.UserID(ctx)
	var propertyID *id.PropertyID
	if req.PropertyID != "" {
		pid, err := id.ParsePropertyID(req.PropertyID)
		if err != nil {
			return nil, err
		}
		if _, err := s.properties.Get(ctx, pid); err != nil {
			return nil, err
		}
		propertyID = &pid
	}

	c, err := models.NewComplaint(id.NewComplaintID(), filer, propertyID, req.Message, requestcontext.Now(ctx))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
		}
		return nil, err
	}
	if err := s.complaints.Create(ctx, c); err != nil {
		return nil, wrapComplaintErr(err)
	}

	metadata := map[string]string{"user_id": filer.String()}
	if propertyID != nil {
		metadata["property_id"] = propertyID.String()
	}
	s.metrics.IncrementFiled()
	s.record(ctx, audit.ActionFileComplaint, c.ID.String(), metadata)
	return c, nil
}

// Resolve closes a complaint. verify-and-resolve restores a property target
// to AVAILABLE or completes a user target's KYC; dismiss-only touches
// nothing but the complaint. A missing target leaves the complaint open.
func (s *Service) Resolve(ctx context.Context, complaintID id.ComplaintID, action models.Action) (*models.Complaint, error) {
	ctx, span := tracer.Start(ctx, "dispute.Resolve")
	defer span.End()
	span.SetAttributes(
		attribute.String("complaint.id", complaintID.String()),
		attribute.String("complaint.action", action.String()),
	)

	action, err := models.ParseAction(action.String())
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)

	var resolved *models.Complaint
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		c, err := s.complaints.Execute(ctx, complaintID,
			func(c *models.Complaint) error {
				if err := c.CanResolve(); err != nil {
					return err
				}
				if action == models.ActionVerifyAndResolve {
					return s.vindicate(ctx, c)
				}
				return nil
			},
			func(c *models.Complaint) { c.Resolve(action, now) },
		)
		if err != nil {
			return wrapComplaintErr(err)
		}
		resolved = c
		return nil
	})
	if err != nil {
		span.SetStatus(codes.Error, dErrors.MessageOf(err))
		return nil, err
	}

	auditAction, targetID, target := resolutionAudit(resolved, action)
	s.metrics.IncrementResolved(action.String(), target)
	s.record(ctx, auditAction, targetID, map[string]string{
		"complaint_id": resolved.ID.String(),
	})
	s.logger.InfoContext(ctx, "complaint resolved",
		"complaint_id", resolved.ID.String(),
		"action", action.String(),
		"target", target,
		"request_id", requestcontext.RequestID(ctx),
	)
	return resolved, nil
}

func (s *Service) vindicate(ctx context.Context, c *models.Complaint) error {
	if c.TargetsProperty() {
		_, err := s.properties.RestoreFromComplaint(ctx, *c.PropertyID)
		return err
	}
	_, err := s.users.VerifyFromComplaint(ctx, c.UserID)
	return err
}

func resolutionAudit(c *models.Complaint, action models.Action) (audit.Action, string, string) {
	target := "user"
	if c.TargetsProperty() {
		target = "property"
	}
	switch {
	case action == models.ActionDismissOnly:
		return audit.ActionDismissComplaint, c.ID.String(), target
	case c.TargetsProperty():
		return audit.ActionVerifyPropertyFromComplaint, c.PropertyID.String(), target
	default:
		return audit.ActionVerifyUserFromComplaint, c.UserID.String(), target
	}
}

// List returns complaints newest first.
func (s *Service) List(ctx context.Context, openOnly bool) ([]*models.Complaint, error) {
	complaints, err := s.complaints.List(ctx, openOnly)
	if err != nil {
		return nil, wrapComplaintErr(err)
	}
	return complaints, nil
}

func (s *Service) record(ctx context.Context, action audit.Action, targetID string, metadata map[string]string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(ctx, action, targetID, metadata)
}

func wrapComplaintErr(err error) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "complaint not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeConflict, "complaint was modified concurrently, retry")
	case dErrors.IsDomainError(err):
		return err
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "registry sync failed")
	}
}
