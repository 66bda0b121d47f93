package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"trustestate/internal/admin"
	disputehandler "trustestate/internal/dispute/handler"
	identityhandler "trustestate/internal/identity/handler"
	"trustestate/internal/platform/metrics"
	registryhandler "trustestate/internal/registry/handler"
	"trustestate/pkg/platform/httputil"
	adminmw "trustestate/pkg/platform/middleware/admin"
	authmw "trustestate/pkg/platform/middleware/auth"
	"trustestate/pkg/platform/middleware/device"
	"trustestate/pkg/platform/middleware/metadata"
	"trustestate/pkg/platform/middleware/request"
	"trustestate/pkg/platform/middleware/requesttime"
)

const (
	requestTimeout = 30 * time.Second
	healthTimeout  = 2 * time.Second
)

func newRouter(a *app, inf *infra, log *slog.Logger) http.Handler {
	identity := identityhandler.New(a.identity, log)
	registry := registryhandler.New(a.registry, log)
	disputes := disputehandler.New(a.disputes, log)
	dashboard := admin.NewHandler(a.admin, log)

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(request.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(device.Middleware)
	r.Use(metrics.New().Middleware)
	r.Use(chimw.Timeout(requestTimeout))

	r.Get("/health", healthHandler(inf))
	r.Handle("/metrics", promhttp.Handler())

	identity.RegisterPublic(r)
	registry.RegisterPublic(r)

	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireAuth(a.tokens, log))
		identity.Register(r)
		registry.Register(r)
		disputes.Register(r)

		r.Route("/admin", func(r chi.Router) {
			r.Use(adminmw.RequireAdmin(log))
			identity.RegisterAdmin(r)
			registry.RegisterAdmin(r)
			disputes.RegisterAdmin(r)
			dashboard.RegisterAdmin(r)
		})
	})
	return r
}

type healthResponse struct {
	Status   string `json:"status"`
	Postgres string `json:"postgres,omitempty"`
	Redis    string `json:"redis,omitempty"`
}

func healthHandler(inf *infra) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		resp := healthResponse{Status: "ok"}
		status := http.StatusOK
		if inf.db != nil {
			resp.Postgres = "ok"
			if err := inf.db.PingContext(ctx); err != nil {
				resp.Postgres, resp.Status, status = "down", "degraded", http.StatusServiceUnavailable
			}
		}
		if inf.redis != nil {
			resp.Redis = "ok"
			if err := inf.redis.Health(ctx); err != nil {
				resp.Redis, resp.Status, status = "down", "degraded", http.StatusServiceUnavailable
			}
		}
		httputil.WriteJSON(w, status, resp)
	}
}
