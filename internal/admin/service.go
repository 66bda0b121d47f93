// Package admin serves the moderator dashboard: headline counts and the audit
// trail. Moderation actions themselves live with the modules that own the
// entities.
package admin

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"trustestate/internal/admin/types"
	registrymodels "trustestate/internal/registry/models"
	dErrors "trustestate/pkg/domain-errors"
	"trustestate/pkg/platform/audit"
	"trustestate/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks UserStore,ComplaintStore,PropertyCounter,AuditLog

const statsTimeout = 5 * time.Second

var tracer = otel.Tracer("trustestate/admin")

type UserStore interface {
	ListAll(ctx context.Context) ([]*types.AdminUser, error)
}

type ComplaintStore interface {
	ListOpen(ctx context.Context) ([]*types.AdminComplaint, error)
}

type PropertyCounter interface {
	CountByStatus(ctx context.Context) (map[registrymodels.Status]int, error)
}

// AuditLog lists recorded audit entries, newest first.
type AuditLog interface {
	List(ctx context.Context, limit int) ([]audit.Entry, error)
}

type Service struct {
	users      UserStore
	complaints ComplaintStore
	properties PropertyCounter
	audit      AuditLog
	logger     *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(users UserStore, complaints ComplaintStore, properties PropertyCounter, auditLog AuditLog, opts ...Option) *Service {
	s := &Service{
		users:      users,
		complaints: complaints,
		properties: properties,
		audit:      auditLog,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Stats gathers the dashboard counts in parallel. Any failing source fails the
// whole call; partial dashboards are not served.
func (s *Service) Stats(ctx context.Context) (*types.Stats, error) {
	ctx, span := tracer.Start(ctx, "admin.Stats")
	defer span.End()

	stats := &types.Stats{GeneratedAt: requestcontext.Now(ctx)}

	gctx, cancel := context.WithTimeout(ctx, statsTimeout)
	defer cancel()
	g, gctx := errgroup.WithContext(gctx)

	g.Go(func() error {
		users, err := s.users.ListAll(gctx)
		if err != nil {
			return err
		}
		stats.Users = len(users)
		for _, u := range users {
			if u.Flagged {
				stats.FlaggedUsers++
			}
		}
		return nil
	})

	g.Go(func() error {
		counts, err := s.properties.CountByStatus(gctx)
		if err != nil {
			return err
		}
		stats.PropertiesByStatus = make(map[string]int, len(counts))
		for status, n := range counts {
			stats.PropertiesByStatus[status.String()] = n
			stats.Properties += n
		}
		stats.LockedProperties = counts[registrymodels.StatusLocked]
		return nil
	})

	g.Go(func() error {
		open, err := s.complaints.ListOpen(gctx)
		if err != nil {
			return err
		}
		stats.OpenComplaints = len(open)
		return nil
	})

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "stats aggregation failed")
		s.logger.ErrorContext(ctx, "admin stats aggregation failed",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "registry sync failed")
	}
	span.SetAttributes(
		attribute.Int("stats.users", stats.Users),
		attribute.Int("stats.properties", stats.Properties),
		attribute.Int("stats.open_complaints", stats.OpenComplaints),
	)
	return stats, nil
}

// AuditLogs returns the newest entries. Limits outside [1, audit.MaxListLimit]
// fall back to the maximum.
func (s *Service) AuditLogs(ctx context.Context, limit int) ([]audit.Entry, error) {
	entries, err := s.audit.List(ctx, audit.ClampLimit(limit))
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list audit entries",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "registry sync failed")
	}
	return entries, nil
}
