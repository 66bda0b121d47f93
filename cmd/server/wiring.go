package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"trustestate/internal/admin"
	"trustestate/internal/admin/adapters"
	disputemetrics "trustestate/internal/dispute/metrics"
	disputeservice "trustestate/internal/dispute/service"
	"trustestate/internal/dispute/store/complaint"
	identitymetrics "trustestate/internal/identity/metrics"
	identityservice "trustestate/internal/identity/service"
	"trustestate/internal/identity/store/user"
	"trustestate/internal/identity/token"
	"trustestate/internal/platform/config"
	"trustestate/internal/platform/kafka"
	"trustestate/internal/platform/postgres"
	redisclient "trustestate/internal/platform/redis"
	registrymetrics "trustestate/internal/registry/metrics"
	registryservice "trustestate/internal/registry/service"
	"trustestate/internal/registry/store/property"
	"trustestate/internal/registry/store/uniqueness"
	"trustestate/internal/verification"
	"trustestate/pkg/platform/audit"
	"trustestate/pkg/platform/audit/publisher"
	auditmemory "trustestate/pkg/platform/audit/store/memory"
	auditpostgres "trustestate/pkg/platform/audit/store/postgres"
	"trustestate/pkg/platform/audit/stream"
	"trustestate/pkg/platform/circuit"
	"trustestate/pkg/requestcontext"
)

const seedAdminName = "System Administrator"

// infra holds the optional backing services. A nil field selects the
// in-memory implementation for that concern.
type infra struct {
	db    *sql.DB
	redis *redisclient.Client
	kafka *kgo.Client
}

func openInfra(ctx context.Context, cfg config.Config, log *slog.Logger) (*infra, error) {
	inf := &infra{}

	if cfg.Postgres.URL != "" {
		db, err := postgres.Open(ctx, postgres.Config{
			URL:             cfg.Postgres.URL,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
		})
		if err != nil {
			return nil, err
		}
		inf.db = db
		if err := postgres.Migrate(ctx, db); err != nil {
			inf.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	rc, err := redisclient.New(ctx, cfg.Redis)
	if err != nil {
		inf.Close()
		return nil, err
	}
	inf.redis = rc

	producer, err := kafka.NewProducer(cfg.Kafka)
	if err != nil {
		inf.Close()
		return nil, err
	}
	if producer != nil {
		if err := kafka.EnsureTopic(ctx, producer, cfg.Kafka.AuditTopic); err != nil {
			// The sink still retries per entry; boot continues.
			log.WarnContext(ctx, "audit topic not ensured", "topic", cfg.Kafka.AuditTopic, "error", err)
		}
		inf.kafka = producer
	}
	return inf, nil
}

func (i *infra) Close() {
	if i.kafka != nil {
		i.kafka.Close()
	}
	if i.redis != nil {
		_ = i.redis.Close()
	}
	if i.db != nil {
		_ = i.db.Close()
	}
}

type registryIndex interface {
	registryservice.UniquenessIndex
	registryservice.AccessLog
}

type oracle interface {
	registryservice.OwnershipVerifier
	identityservice.IdentityVerifier
}

type app struct {
	tokens   *token.JWTService
	audit    *publisher.Publisher
	identity *identityservice.Service
	registry *registryservice.Service
	disputes *disputeservice.Service
	admin    *admin.Service
}

func buildApp(cfg config.Config, inf *infra, log *slog.Logger) *app {
	var (
		auditStore audit.Store                   = auditmemory.NewInMemoryStore()
		users      identityservice.UserStore     = user.New()
		properties registryservice.PropertyStore = property.New()
		complaints disputeservice.ComplaintStore = complaint.New()
		index      registryIndex                 = uniqueness.New()
		verifier   oracle                        = verification.NewApprovingOracle()
	)
	if inf.db != nil {
		auditStore = auditpostgres.New(inf.db)
		users = user.NewPostgres(inf.db)
		properties = property.NewPostgres(inf.db)
		complaints = complaint.NewPostgres(inf.db)
	}
	if inf.redis != nil {
		index = uniqueness.NewRedis(inf.redis.Client)
	}
	if cfg.Verification.URL != "" {
		verifier = verification.NewHTTPOracle(cfg.Verification.URL, cfg.Verification.Timeout,
			verification.WithBreaker(circuit.New("verification-oracle", circuit.WithFailureThreshold(3)), 10*time.Second),
			verification.WithLogger(log),
		)
	}

	auditOpts := []publisher.Option{
		publisher.WithLogger(log),
		publisher.WithMetrics(publisher.NewMetrics()),
		publisher.WithAsyncBuffer(cfg.Audit.BufferSize),
	}
	if inf.kafka != nil {
		auditOpts = append(auditOpts, publisher.WithSink(stream.NewKafkaSink(inf.kafka, cfg.Kafka.AuditTopic)))
	}
	recorder := publisher.NewPublisher(auditStore, auditOpts...)

	tokens := token.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.Issuer)
	identity := identityservice.New(users, tokens,
		identityservice.WithLogger(log),
		identityservice.WithMetrics(identitymetrics.New()),
		identityservice.WithAuditRecorder(recorder),
		identityservice.WithTokenTTL(cfg.Auth.TokenTTL),
		identityservice.WithIdentityVerifier(verifier),
	)
	registry := registryservice.New(properties, index, users, verifier,
		registryservice.WithLogger(log),
		registryservice.WithMetrics(registrymetrics.New()),
		registryservice.WithAuditRecorder(recorder),
		registryservice.WithAccessLog(index),
	)
	disputeOpts := []disputeservice.Option{
		disputeservice.WithLogger(log),
		disputeservice.WithMetrics(disputemetrics.New()),
		disputeservice.WithAuditRecorder(recorder),
	}
	if inf.db != nil {
		disputeOpts = append(disputeOpts, disputeservice.WithTxRunner(newRegistryPostgresTx(inf.db)))
	}
	disputes := disputeservice.New(complaints, registry, identity, disputeOpts...)

	dashboard := admin.New(
		adapters.NewUserStoreAdapter(users),
		adapters.NewComplaintStoreAdapter(complaints),
		properties,
		recorder,
		admin.WithLogger(log),
	)

	return &app{
		tokens:   tokens,
		audit:    recorder,
		identity: identity,
		registry: registry,
		disputes: disputes,
		admin:    dashboard,
	}
}

// seedAdmin ensures the configured admin account exists. Skipped when no
// password is configured.
func (a *app) seedAdmin(ctx context.Context, seed config.SeedConfig) error {
	if seed.AdminPassword == "" {
		return nil
	}
	ctx = requestcontext.WithTime(ctx, time.Now())
	u, created, err := a.identity.EnsureAdmin(ctx, seedAdminName, seed.AdminEmail, seed.AdminPassword)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if created {
		slog.InfoContext(ctx, "seed admin created", "user_id", u.ID.String(), "email", u.Email)
	}
	return nil
}
