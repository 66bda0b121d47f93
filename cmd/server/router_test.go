package main

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"trustestate/internal/identity/models"
	"trustestate/internal/platform/config"
	"trustestate/pkg/testutil"
)

// The router registers process-wide Prometheus collectors, so it is built
// once for the whole file.
func TestRouterWiring(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Config{
		Auth:  config.AuthConfig{JWTSigningKey: "router-test-key", Issuer: "trustestate"},
		Audit: config.AuditConfig{BufferSize: 0},
	}
	inf := &infra{}
	a := buildApp(cfg, inf, log)
	defer a.audit.Close()
	router := newRouter(a, inf, log)

	t.Run("health with in-memory stores", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/health"))
		testutil.AssertStatusOK(t, rr)
		testutil.AssertJSONContains(t, rr, "status", "ok")
	})

	t.Run("metrics are exposed", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/metrics"))
		testutil.AssertStatusOK(t, rr)
	})

	t.Run("marketplace is public", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/properties"))
		testutil.AssertStatusOK(t, rr)
	})

	t.Run("enrollment requires a token", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/properties", map[string]any{}))
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	})

	t.Run("registered landlord reaches the dashboard but not admin", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/auth/register", map[string]string{
			"name": "Lara Landlord", "email": "lara@example.com", "password": "correct-horse-battery", "role": "Landlord",
		}))
		testutil.AssertStatus(t, rr, http.StatusCreated)

		rr = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/auth/login", map[string]string{
			"email": "lara@example.com", "password": "correct-horse-battery",
		}))
		testutil.AssertStatusOK(t, rr)
		login := testutil.UnmarshalResponse[models.LoginResponse](t, rr)
		require.NotEmpty(t, login.AccessToken)

		req := testutil.WithBearer(testutil.NewRequest(t, http.MethodGet, "/landlord/properties"), login.AccessToken)
		testutil.AssertStatusOK(t, testutil.DoRequest(router, req))

		req = testutil.WithBearer(testutil.NewRequest(t, http.MethodGet, "/admin/stats"), login.AccessToken)
		testutil.AssertStatus(t, testutil.DoRequest(router, req), http.StatusForbidden)
	})
}
