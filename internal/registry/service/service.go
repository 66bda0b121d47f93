package service

import (
	"cmp"
	"context"
	"errors"
	"log/slog"
	"slices"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	identitymodels "trustestate/internal/identity/models"
	registrymetrics "trustestate/internal/registry/metrics"
	"trustestate/internal/registry/models"
	"trustestate/internal/registry/security"
	"trustestate/internal/risk"
	"trustestate/internal/verification"
	id "trustestate/pkg/domain"
	dErrors "trustestate/pkg/domain-errors"
	audit "trustestate/pkg/platform/audit"
	"trustestate/pkg/platform/sentinel"
	"trustestate/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks PropertyStore,UniquenessIndex,AccessLog,UserLookup,OwnershipVerifier,AuditRecorder

type PropertyStore interface {
	Create(ctx context.Context, p *models.Property) error
	FindByID(ctx context.Context, propertyID id.PropertyID) (*models.Property, error)
	List(ctx context.Context) ([]*models.Property, error)
	ListByOwner(ctx context.Context, ownerID id.UserID) ([]*models.Property, error)
	ListByStatus(ctx context.Context, status models.Status) ([]*models.Property, error)
	ListFlagged(ctx context.Context) ([]*models.Property, error)
	ListForTenant(ctx context.Context, tenantID id.UserID) ([]*models.Property, error)
	CountByStatus(ctx context.Context) (map[models.Status]int, error)
	Execute(ctx context.Context, propertyID id.PropertyID, validate func(*models.Property) error, mutate func(*models.Property)) (*models.Property, error)
}

// UniquenessIndex reserves document hashes and UPCs ahead of the insert so
// concurrent enrollments of the same deed cannot both succeed.
type UniquenessIndex interface {
	ClaimDocumentHash(ctx context.Context, hash string, propertyID id.PropertyID) error
	ClaimUPC(ctx context.Context, upc string, propertyID id.PropertyID) error
	Release(ctx context.Context, propertyID id.PropertyID, upc, hash string) error
}

// AccessLog remembers the last IP and device per user.
type AccessLog interface {
	RecordAccess(ctx context.Context, userID id.UserID, obs security.Observation) (security.PriorAccess, error)
}

type UserLookup interface {
	FindByID(ctx context.Context, userID id.UserID) (*identitymodels.User, error)
}

// OwnershipVerifier is the deed-check subset of the verification oracle.
type OwnershipVerifier interface {
	VerifyDocumentOwnership(ctx context.Context, document, claimedOwner string) (verification.OwnershipResult, error)
}

type AuditRecorder interface {
	Record(ctx context.Context, action audit.Action, targetID string, metadata map[string]string)
}

var tracer = otel.Tracer("trustestate/registry")

const (
	maxUPCAttempts = 3

	msgDuplicateDocument = "Property document hash already registered."
	msgUPCCollision      = "UPC collision detected."
)

// errUnchanged short-circuits a transition that would not move the status.
var errUnchanged = errors.New("status unchanged")

// Service owns the property registry: enrollment with duplicate and risk
// checks, the lifecycle state machine, and the deal flow.
type Service struct {
	properties PropertyStore
	index      UniquenessIndex
	users      UserLookup
	verifier   OwnershipVerifier
	access     AccessLog
	audit      AuditRecorder
	logger     *slog.Logger
	metrics    *registrymetrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *registrymetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditRecorder(r AuditRecorder) Option {
	return func(s *Service) {
		s.audit = r
	}
}

// WithAccessLog enables IP and device signals at enrollment.
func WithAccessLog(l AccessLog) Option {
	return func(s *Service) {
		s.access = l
	}
}

func New(properties PropertyStore, index UniquenessIndex, users UserLookup, verifier OwnershipVerifier, opts ...Option) *Service {
	s := &Service{
		properties: properties,
		index:      index,
		users:      users,
		verifier:   verifier,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Enroll registers a property for the calling landlord. The ownership
// document must name the landlord, its hash must be new to the registry, and
// the enrollment request's network identity feeds the initial fraud score.
func (s *Service) Enroll(ctx context.Context, req *models.EnrollRequest) (*models.Property, error) {
	ctx, span := tracer.Start(ctx, "registry.Enroll")
	defer span.End()

	ownerID := requestcontext.UserID(ctx)
	now := requestcontext.Now(ctx)
	owner, err := s.users.FindByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "account no longer exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "registry sync failed")
	}
	if !owner.Role.CanOwnProperties() {
		return nil, dErrors.New(dErrors.CodeForbidden, "only landlords can enroll properties")
	}
	if err := owner.CanLogin(now); err != nil {
		return nil, err
	}
	propType, err := models.ParsePropertyType(req.Type)
	if err != nil {
		return nil, err
	}

	var (
		ownership verification.OwnershipResult
		signals   []models.Signal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := s.verifier.VerifyDocumentOwnership(gctx, req.Document, owner.Name)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeUnavailable, "verification service unreachable")
		}
		ownership = res
		return nil
	})
	g.Go(func() error {
		signals = s.collectSignals(gctx, ownerID)
		return nil
	})
	if err := g.Wait(); err != nil {
		s.metrics.IncrementEnrollment("oracle_unavailable")
		span.RecordError(err)
		span.SetStatus(codes.Error, "ownership check failed")
		return nil, err
	}
	if !ownership.Verified() {
		s.metrics.IncrementEnrollment("ownership_rejected")
		return nil, dErrors.New(dErrors.CodeValidation, "name on the ownership document does not match the registered owner")
	}

	propertyID := id.NewPropertyID()
	hash := security.DocumentHash(req.Document)
	if err := s.index.ClaimDocumentHash(ctx, hash, propertyID); err != nil {
		if errors.Is(err, models.ErrDuplicateDocument) {
			s.blockDuplicate(ctx, "document", hash)
		}
		return nil, wrapPropertyErr(err)
	}
	upc, err := s.claimUPC(ctx, req.Address, propertyID)
	if err != nil {
		s.release(ctx, propertyID, "", hash)
		return nil, err
	}

	prop, err := models.NewProperty(models.NewPropertyParams{
		ID:           propertyID,
		OwnerID:      ownerID,
		Title:        req.Title,
		Address:      req.Address,
		Description:  req.Description,
		Price:        req.Price,
		Type:         propType,
		UPC:          upc,
		DocumentHash: hash,
		Images:       req.Images,
		Signals:      signals,
		Actor:        requestcontext.ActorName(ctx),
		Now:          now,
	})
	if err != nil {
		s.release(ctx, propertyID, upc, hash)
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
		}
		return nil, err
	}
	if err := s.properties.Create(ctx, prop); err != nil {
		s.release(ctx, propertyID, upc, hash)
		if errors.Is(err, models.ErrDuplicateDocument) {
			s.blockDuplicate(ctx, "document", hash)
		}
		span.RecordError(err)
		return nil, wrapPropertyErr(err)
	}

	span.SetAttributes(
		attribute.String("property.id", prop.ID.String()),
		attribute.Int("property.fraud_score", prop.FraudScore),
	)
	s.metrics.IncrementEnrollment("success")
	for _, sig := range prop.Signals {
		s.metrics.IncrementSignal(string(sig.Type), string(sig.Severity))
	}
	s.record(ctx, audit.ActionEnrollProperty, prop.ID.String(), map[string]string{
		"upc":         prop.UPC,
		"fraud_score": strconv.Itoa(prop.FraudScore),
	})
	s.logger.InfoContext(ctx, "property enrolled",
		"property_id", prop.ID.String(),
		"upc", prop.UPC,
		"fraud_score", prop.FraudScore,
		"signals", len(prop.Signals),
		"request_id", requestcontext.RequestID(ctx),
	)
	return prop, nil
}

// collectSignals records the caller's access and turns any change against the
// previous access into risk signals. Failures only cost the signals.
func (s *Service) collectSignals(ctx context.Context, userID id.UserID) []models.Signal {
	obs := security.Observation{
		IP:          requestcontext.ClientIP(ctx),
		Fingerprint: requestcontext.DeviceFingerprint(ctx),
		At:          requestcontext.Now(ctx),
	}
	if s.access == nil {
		return security.Analyze(security.PriorAccess{}, obs)
	}
	prior, err := s.access.RecordAccess(ctx, userID, obs)
	if err != nil {
		s.logger.WarnContext(ctx, "access history unavailable, scoring without it",
			"user_id", userID.String(),
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		prior = security.PriorAccess{}
	}
	return security.Analyze(prior, obs)
}

func (s *Service) claimUPC(ctx context.Context, address string, propertyID id.PropertyID) (string, error) {
	var lastUPC string
	for range maxUPCAttempts {
		upc, err := security.GenerateUPC(address)
		if err != nil {
			return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate upc")
		}
		lastUPC = upc
		err = s.index.ClaimUPC(ctx, upc, propertyID)
		if err == nil {
			return upc, nil
		}
		if !errors.Is(err, models.ErrDuplicateUPC) {
			return "", wrapPropertyErr(err)
		}
	}
	s.blockDuplicate(ctx, "upc", lastUPC)
	return "", dErrors.New(dErrors.CodeConflict, msgUPCCollision)
}

func (s *Service) release(ctx context.Context, propertyID id.PropertyID, upc, hash string) {
	if err := s.index.Release(ctx, propertyID, upc, hash); err != nil {
		s.logger.ErrorContext(ctx, "failed to release uniqueness claims",
			"property_id", propertyID.String(),
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
}

func (s *Service) blockDuplicate(ctx context.Context, kind, value string) {
	s.metrics.IncrementDuplicateBlocked(kind)
	s.metrics.IncrementEnrollment("duplicate")
	ownerID := requestcontext.UserID(ctx)
	s.record(ctx, audit.ActionDuplicateBlocked, ownerID.String(), map[string]string{
		"kind":  kind,
		"value": value,
	})
	s.logger.WarnContext(ctx, "duplicate enrollment blocked",
		"kind", kind,
		"owner_id", ownerID.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
}

// UpdateStatus moves a property along the lifecycle. Admins may take any move
// the transition table allows. Owners may only list or lock, and cannot lift
// a lock.
func (s *Service) UpdateStatus(ctx context.Context, propertyID id.PropertyID, to models.Status) (*models.Property, error) {
	ctx, span := tracer.Start(ctx, "registry.UpdateStatus")
	defer span.End()
	span.SetAttributes(attribute.String("property.id", propertyID.String()), attribute.String("status.to", to.String()))

	callerID := requestcontext.UserID(ctx)
	isAdmin := requestcontext.Role(ctx) == id.RoleAdmin
	out, err := s.transition(ctx, propertyID, fixedTarget(to), func(p *models.Property) error {
		if isAdmin {
			return nil
		}
		if !p.IsOwnedBy(callerID) {
			return dErrors.New(dErrors.CodeForbidden, "only the owner or an administrator can change this property")
		}
		if p.Status == models.StatusLocked {
			return dErrors.New(dErrors.CodeForbidden, "locked properties are released by an administrator")
		}
		if to != models.StatusAvailable && to != models.StatusLocked {
			return dErrors.New(dErrors.CodeForbidden, "deal statuses are set through the deal flow")
		}
		return nil
	}, nil)
	if err != nil {
		return nil, err
	}
	if out.changed {
		action := audit.ActionStatusChange
		if to == models.StatusLocked {
			action = audit.ActionLockProperty
		}
		s.record(ctx, action, propertyID.String(), map[string]string{
			"from": out.from.String(),
			"to":   to.String(),
		})
	}
	return out.property, nil
}

// SelfFlag lets an owner lock their own listing pending admin review.
func (s *Service) SelfFlag(ctx context.Context, propertyID id.PropertyID) (*models.Property, error) {
	ctx, span := tracer.Start(ctx, "registry.SelfFlag")
	defer span.End()
	span.SetAttributes(attribute.String("property.id", propertyID.String()))

	callerID := requestcontext.UserID(ctx)
	out, err := s.transition(ctx, propertyID, fixedTarget(models.StatusLocked), func(p *models.Property) error {
		if !p.IsOwnedBy(callerID) {
			return dErrors.New(dErrors.CodeForbidden, "only the owner can flag this property")
		}
		return nil
	}, nil)
	if err != nil {
		return nil, err
	}
	if out.changed {
		s.record(ctx, audit.ActionLockProperty, propertyID.String(), map[string]string{
			"from":   out.from.String(),
			"reason": "owner_self_flag",
		})
	}
	return out.property, nil
}

// Unlock returns a LOCKED property to the marketplace. Score and signals are
// kept so the fraud desk history survives review.
func (s *Service) Unlock(ctx context.Context, propertyID id.PropertyID) (*models.Property, error) {
	ctx, span := tracer.Start(ctx, "registry.Unlock")
	defer span.End()
	span.SetAttributes(attribute.String("property.id", propertyID.String()))

	if requestcontext.Role(ctx) != id.RoleAdmin {
		return nil, dErrors.New(dErrors.CodeForbidden, "only administrators can unlock properties")
	}
	out, err := s.transition(ctx, propertyID, fixedTarget(models.StatusAvailable), func(p *models.Property) error {
		if p.Status != models.StatusLocked {
			return dErrors.New(dErrors.CodeInvariantViolation, "property is not locked")
		}
		return nil
	}, nil)
	if err != nil {
		return nil, err
	}
	s.record(ctx, audit.ActionUnlockProperty, propertyID.String(), map[string]string{
		"fraud_score": strconv.Itoa(out.property.FraudScore),
	})
	return out.property, nil
}

// RestoreFromComplaint puts a property back on the market after a complaint
// against its lock is upheld. The dispute resolver owns the audit entry.
func (s *Service) RestoreFromComplaint(ctx context.Context, propertyID id.PropertyID) (*models.Property, error) {
	ctx, span := tracer.Start(ctx, "registry.RestoreFromComplaint")
	defer span.End()
	span.SetAttributes(attribute.String("property.id", propertyID.String()))

	out, err := s.transition(ctx, propertyID, fixedTarget(models.StatusAvailable), nil, nil)
	if err != nil {
		return nil, err
	}
	return out.property, nil
}

// ExpressInterest adds the calling tenant to the property's interested list.
func (s *Service) ExpressInterest(ctx context.Context, propertyID id.PropertyID) (*models.Property, error) {
	tenantID := requestcontext.UserID(ctx)
	tenant, err := s.users.FindByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "account no longer exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "registry sync failed")
	}
	now := requestcontext.Now(ctx)
	prop, err := s.properties.Execute(ctx, propertyID,
		func(p *models.Property) error { return p.CanExpressInterest(tenantID) },
		func(p *models.Property) {
			p.AddInterest(models.InterestedTenant{
				ID:        tenantID,
				Name:      tenant.Name,
				Email:     tenant.Email,
				Timestamp: now.UTC(),
			})
		},
	)
	if err != nil {
		return nil, wrapPropertyErr(err)
	}
	s.record(ctx, audit.ActionExpressInterest, propertyID.String(), map[string]string{
		"tenant_id": tenantID.String(),
	})
	return prop, nil
}

// InitiateDeal assigns an interested tenant and moves the property to
// PENDING_CONFIRMATION. Callable by the owner or an admin.
func (s *Service) InitiateDeal(ctx context.Context, propertyID id.PropertyID, tenantID id.UserID) (*models.Property, error) {
	ctx, span := tracer.Start(ctx, "registry.InitiateDeal")
	defer span.End()

	callerID := requestcontext.UserID(ctx)
	isAdmin := requestcontext.Role(ctx) == id.RoleAdmin
	out, err := s.transition(ctx, propertyID, fixedTarget(models.StatusPending),
		func(p *models.Property) error {
			if !isAdmin && !p.IsOwnedBy(callerID) {
				return dErrors.New(dErrors.CodeForbidden, "only the owner or an administrator can start a deal")
			}
			return p.CanInitiateDeal(tenantID)
		},
		func(p *models.Property) {
			t := tenantID
			p.TenantID = &t
		},
	)
	if err != nil {
		return nil, err
	}
	s.record(ctx, audit.ActionInitiateDeal, propertyID.String(), map[string]string{
		"tenant_id": tenantID.String(),
	})
	return out.property, nil
}

// VerifyDeal is the assigned tenant's confirmation. It closes the deal as
// SOLD or RENTED by property type, unless the risk gate refuses.
func (s *Service) VerifyDeal(ctx context.Context, propertyID id.PropertyID) (*models.Property, error) {
	ctx, span := tracer.Start(ctx, "registry.VerifyDeal")
	defer span.End()

	tenantID := requestcontext.UserID(ctx)
	out, err := s.transition(ctx, propertyID, (*models.Property).DealStatus, func(p *models.Property) error {
		if err := p.CanVerifyDeal(tenantID); err != nil {
			return err
		}
		return risk.CanFinalizeDeal(p.FraudScore)
	}, nil)
	if err != nil {
		span.SetStatus(codes.Error, dErrors.MessageOf(err))
		return nil, err
	}
	final := out.property.Status
	s.metrics.IncrementDealFinalized(final.String())
	s.record(ctx, audit.ActionVerifyDeal, propertyID.String(), map[string]string{
		"final_status": final.String(),
		"tenant_id":    tenantID.String(),
	})
	return out.property, nil
}

type transitionOutcome struct {
	property *models.Property
	from     models.Status
	changed  bool
}

func fixedTarget(to models.Status) func(*models.Property) models.Status {
	return func(*models.Property) models.Status { return to }
}

// transition applies guard, then prepare, then the lifecycle move under the
// store's row lock. A move to the current status writes nothing.
func (s *Service) transition(
	ctx context.Context,
	propertyID id.PropertyID,
	target func(*models.Property) models.Status,
	guard func(*models.Property) error,
	prepare func(*models.Property),
) (transitionOutcome, error) {
	actor := requestcontext.ActorName(ctx)
	now := requestcontext.Now(ctx)

	var out transitionOutcome
	prop, err := s.properties.Execute(ctx, propertyID,
		func(p *models.Property) error {
			if guard != nil {
				if err := guard(p); err != nil {
					return err
				}
			}
			trial := p.Clone()
			if prepare != nil {
				prepare(trial)
			}
			changed, err := trial.Transition(target(p), actor, now)
			if err != nil {
				return err
			}
			if !changed {
				return errUnchanged
			}
			return nil
		},
		func(p *models.Property) {
			out.from = p.Status
			if prepare != nil {
				prepare(p)
			}
			out.changed, _ = p.Transition(target(p), actor, now)
		},
	)
	if errors.Is(err, errUnchanged) {
		prop, err = s.properties.FindByID(ctx, propertyID)
		if err != nil {
			return transitionOutcome{}, wrapPropertyErr(err)
		}
		return transitionOutcome{property: prop, from: prop.Status}, nil
	}
	if err != nil {
		return transitionOutcome{}, wrapPropertyErr(err)
	}
	out.property = prop
	s.metrics.IncrementTransition(out.from.String(), prop.Status.String())
	s.logger.InfoContext(ctx, "property status changed",
		"property_id", propertyID.String(),
		"from", out.from.String(),
		"to", prop.Status.String(),
		"actor", actor,
		"request_id", requestcontext.RequestID(ctx),
	)
	return out, nil
}

func (s *Service) Get(ctx context.Context, propertyID id.PropertyID) (*models.Property, error) {
	prop, err := s.properties.FindByID(ctx, propertyID)
	if err != nil {
		return nil, wrapPropertyErr(err)
	}
	return prop, nil
}

// Marketplace lists AVAILABLE properties the risk gate allows to be shown.
func (s *Service) Marketplace(ctx context.Context) ([]*models.Property, error) {
	props, err := s.properties.ListByStatus(ctx, models.StatusAvailable)
	if err != nil {
		return nil, wrapPropertyErr(err)
	}
	return slices.DeleteFunc(props, func(p *models.Property) bool {
		return !risk.IsListable(p.FraudScore)
	}), nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerID id.UserID) ([]*models.Property, error) {
	props, err := s.properties.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, wrapPropertyErr(err)
	}
	return props, nil
}

// ListForTenant returns properties the tenant is interested in or assigned to.
func (s *Service) ListForTenant(ctx context.Context, tenantID id.UserID) ([]*models.Property, error) {
	props, err := s.properties.ListForTenant(ctx, tenantID)
	if err != nil {
		return nil, wrapPropertyErr(err)
	}
	return props, nil
}

// FraudDesk lists flagged properties, critical ones first, then by score.
func (s *Service) FraudDesk(ctx context.Context) ([]*models.Property, error) {
	props, err := s.properties.ListFlagged(ctx)
	if err != nil {
		return nil, wrapPropertyErr(err)
	}
	slices.SortStableFunc(props, func(a, b *models.Property) int {
		if a.IsCritical() != b.IsCritical() {
			if a.IsCritical() {
				return -1
			}
			return 1
		}
		return cmp.Compare(b.FraudScore, a.FraudScore)
	})
	return props, nil
}

func (s *Service) record(ctx context.Context, action audit.Action, targetID string, metadata map[string]string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(ctx, action, targetID, metadata)
}

func wrapPropertyErr(err error) error {
	switch {
	case errors.Is(err, models.ErrDuplicateDocument):
		return dErrors.New(dErrors.CodeConflict, msgDuplicateDocument)
	case errors.Is(err, models.ErrDuplicateUPC):
		return dErrors.New(dErrors.CodeConflict, msgUPCCollision)
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "property not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeConflict, "property was modified concurrently, retry")
	case dErrors.IsDomainError(err):
		return err
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "registry sync failed")
	}
}
