package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	identityservice "trustestate/internal/identity/service"
	"trustestate/internal/identity/store/user"
	"trustestate/internal/identity/token"
	"trustestate/internal/platform/config"
	"trustestate/internal/platform/kafka"
	"trustestate/internal/platform/logger"
	"trustestate/internal/platform/postgres"
	"trustestate/pkg/platform/audit"
	auditpostgres "trustestate/pkg/platform/audit/store/postgres"
	"trustestate/pkg/requestcontext"
)

var errNoDatabase = errors.New("DATABASE_URL is not set")

func openDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if cfg.Postgres.URL == "" {
		return nil, errNoDatabase
	}
	return postgres.Open(ctx, postgres.Config{URL: cfg.Postgres.URL, MaxOpenConns: 2})
}

func MigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := openDB(ctx, config.FromEnv())
			if err != nil {
				return err
			}
			defer db.Close()

			pending, err := postgres.Pending(ctx, db)
			if err != nil {
				return fmt.Errorf("failed to read migration state: %w", err)
			}
			if len(pending) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
				return nil
			}
			if err := postgres.Migrate(ctx, db); err != nil {
				return err
			}
			for _, name := range pending {
				fmt.Fprintf(cmd.OutOrStdout(), "applied %s\n", name)
			}
			return nil
		},
	}
}

func StatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "List pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := openDB(ctx, config.FromEnv())
			if err != nil {
				return err
			}
			defer db.Close()

			pending, err := postgres.Pending(ctx, db)
			if err != nil {
				return fmt.Errorf("failed to read migration state: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-40s  %-8s\n", "Migration", "Status")
			for _, name := range pending {
				fmt.Fprintf(cmd.OutOrStdout(), "%-40s  %-8s\n", name, "Pending")
			}
			if len(pending) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no pending migrations")
			}
			return nil
		},
	}
}

func SeedAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create the admin account if it does not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromEnv()
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			name, _ := cmd.Flags().GetString("name")
			if email == "" {
				email = cfg.Seed.AdminEmail
			}
			if password == "" {
				password = cfg.Seed.AdminPassword
			}
			if password == "" {
				return errors.New("admin password required: pass --password or set SEED_ADMIN_PASSWORD")
			}

			ctx := requestcontext.WithTime(cmd.Context(), time.Now())
			db, err := openDB(ctx, cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			identity := identityservice.New(user.NewPostgres(db), token.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.Issuer),
				identityservice.WithLogger(logger.New(cfg.Server.Environment, cfg.Server.LogLevel)))
			u, created, err := identity.EnsureAdmin(ctx, name, email, password)
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", u.Email, u.ID)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "admin %s already exists\n", u.Email)
			}
			return nil
		},
	}
	cmd.Flags().String("email", "", "admin email (default SEED_ADMIN_EMAIL)")
	cmd.Flags().String("password", "", "admin password (default SEED_ADMIN_PASSWORD)")
	cmd.Flags().String("name", "System Administrator", "admin display name")
	return cmd
}

func AuditTailCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tail",
		Short: "Follow the audit topic and print entries as they arrive",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromEnv()
			if len(cfg.Kafka.Brokers) == 0 {
				return errors.New("KAFKA_BROKERS is not set")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			log := logger.New(cfg.Server.Environment, cfg.Server.LogLevel)
			out := cmd.OutOrStdout()
			return kafka.Tail(ctx, cfg.Kafka.Brokers, cfg.Kafka.AuditTopic, log, func(_, value []byte) error {
				return printStreamEntry(out, value)
			})
		},
	}
}

func AuditListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the most recent audit entries from the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			ctx := cmd.Context()
			db, err := openDB(ctx, config.FromEnv())
			if err != nil {
				return err
			}
			defer db.Close()

			entries, err := auditpostgres.New(db).ListRecent(ctx, audit.ClampLimit(limit))
			if err != nil {
				return err
			}
			for _, e := range entries {
				printEntry(cmd.OutOrStdout(), e)
			}
			return nil
		},
	}
	cmd.Flags().Int("limit", 20, "number of entries (max 100)")
	return cmd
}

type streamEntry struct {
	Action    string            `json:"action"`
	TargetID  string            `json:"target_id"`
	ActorID   string            `json:"actor_id"`
	Metadata  map[string]string `json:"metadata"`
	CreatedAt string            `json:"created_at"`
}

func printStreamEntry(w io.Writer, value []byte) error {
	var e streamEntry
	if err := json.Unmarshal(value, &e); err != nil {
		slog.Warn("skipping malformed audit message", "error", err)
		return nil
	}
	fmt.Fprintf(w, "%s  %-32s  target=%s actor=%s %v\n", e.CreatedAt, e.Action, e.TargetID, e.ActorID, e.Metadata)
	return nil
}

func printEntry(w io.Writer, e audit.Entry) {
	fmt.Fprintf(w, "%s  %-32s  target=%s actor=%s %v\n",
		e.CreatedAt.Format(time.RFC3339), e.Action, e.TargetID, e.ActorID, e.Metadata)
}
