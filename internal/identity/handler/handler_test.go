package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"trustestate/internal/identity/models"
	"trustestate/internal/identity/service"
	"trustestate/internal/identity/store/user"
	"trustestate/internal/identity/token"
	"trustestate/internal/verification"
	adminmw "trustestate/pkg/platform/middleware/admin"
	authmw "trustestate/pkg/platform/middleware/auth"
	"trustestate/pkg/testutil"
)

type fixture struct {
	router http.Handler
	svc    *service.Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	jwt := token.NewJWTService("handler-test-key", "trustestate")
	svc := service.New(user.New(), jwt,
		service.WithLogger(logger),
		service.WithBcryptCost(bcrypt.MinCost),
		service.WithIdentityVerifier(verification.NewApprovingOracle()),
	)
	h := New(svc, logger)

	r := chi.NewRouter()
	h.RegisterPublic(r)
	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireAuth(jwt, logger))
		h.Register(r)
		r.Route("/admin", func(r chi.Router) {
			r.Use(adminmw.RequireAdmin(logger))
			h.RegisterAdmin(r)
		})
	})
	return fixture{router: r, svc: svc}
}

func (f fixture) login(t *testing.T, email, password string) string {
	t.Helper()
	rr := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost, "/auth/login",
		map[string]string{"email": email, "password": password}))
	testutil.AssertStatusOK(t, rr)
	return testutil.UnmarshalResponse[models.LoginResponse](t, rr).AccessToken
}

func TestRegisterLoginAndProfileFlow(t *testing.T) {
	f := newFixture(t)

	testutil.Given(t, "a newly registered landlord", func(t *testing.T) {
		rr := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost, "/auth/register",
			map[string]string{"name": "Lana Landlord", "email": "lana@example.com", "password": "password123", "role": "Landlord"}))
		testutil.AssertStatus(t, rr, http.StatusCreated)

		tok := f.login(t, "LANA@example.com", "password123")

		testutil.When(t, "they fetch their profile", func(t *testing.T) {
			rr := testutil.DoRequest(f.router, testutil.WithBearer(testutil.NewRequest(t, http.MethodGet, "/me"), tok))
			testutil.Then(t, "the account is returned without the password hash", func(t *testing.T) {
				testutil.AssertStatusOK(t, rr)
				body := string(testutil.ReadBody(t, rr))
				assert.Contains(t, body, `"email":"lana@example.com"`)
				assert.NotContains(t, body, "password")
			})
		})

		testutil.When(t, "they submit their ID for KYC", func(t *testing.T) {
			rr := testutil.DoRequest(f.router, testutil.WithBearer(testutil.NewJSONRequest(t, http.MethodPost, "/me/kyc",
				map[string]any{"step": 1, "id_image": "data:image/jpeg;base64,AAAA"}), tok))
			testutil.Then(t, "the step advances", func(t *testing.T) {
				testutil.AssertStatusOK(t, rr)
				assert.EqualValues(t, 1, testutil.UnmarshalResponse[models.User](t, rr).KYCStep)
			})
		})
	})
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)

	t.Run("unknown role", func(t *testing.T) {
		rr := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost, "/auth/register",
			map[string]string{"email": "a@example.com", "password": "password123", "role": "Owner"}))
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation_error")
	})

	t.Run("admin self-registration", func(t *testing.T) {
		rr := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost, "/auth/register",
			map[string]string{"email": "a@example.com", "password": "password123", "role": "Admin"}))
		testutil.AssertStatus(t, rr, http.StatusForbidden)
	})

	t.Run("unknown fields are rejected", func(t *testing.T) {
		rr := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost, "/auth/register",
			map[string]any{"email": "a@example.com", "password": "password123", "role": "Tenant", "is_admin": true}))
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})
}

func TestAdminModeration(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, _, err := f.svc.EnsureAdmin(ctx, "Root", "admin@trustestate.com", "admin-password")
	require.NoError(t, err)
	tenant, err := f.svc.Register(ctx, &models.RegisterRequest{
		Name: "Tess", Email: "tess@example.com", Password: "password123", Role: "Tenant",
	})
	require.NoError(t, err)

	adminTok := f.login(t, "admin@trustestate.com", "admin-password")
	tenantTok := f.login(t, "tess@example.com", "password123")

	t.Run("non-admins are forbidden", func(t *testing.T) {
		rr := testutil.DoRequest(f.router, testutil.WithBearer(testutil.NewRequest(t, http.MethodGet, "/admin/users"), tenantTok))
		testutil.AssertStatus(t, rr, http.StatusForbidden)
	})

	t.Run("missing token is unauthorized", func(t *testing.T) {
		rr := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/admin/users"))
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	})

	t.Run("suspend blocks login and reactivate restores it", func(t *testing.T) {
		rr := testutil.DoRequest(f.router, testutil.WithBearer(testutil.NewRequest(t, http.MethodPost,
			"/admin/users/"+tenant.ID.String()+"/suspend"), adminTok))
		testutil.AssertStatusOK(t, rr)
		suspended := testutil.UnmarshalResponse[models.User](t, rr)
		require.NotNil(t, suspended.SuspensionUntil)
		assert.WithinDuration(t, time.Now().AddDate(0, 3, 0), *suspended.SuspensionUntil, time.Minute)

		loginRR := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost, "/auth/login",
			map[string]string{"email": "tess@example.com", "password": "password123"}))
		testutil.AssertStatus(t, loginRR, http.StatusForbidden)

		rr = testutil.DoRequest(f.router, testutil.WithBearer(testutil.NewRequest(t, http.MethodPost,
			"/admin/users/"+tenant.ID.String()+"/reactivate"), adminTok))
		testutil.AssertStatusOK(t, rr)
		f.login(t, "tess@example.com", "password123")
	})

	t.Run("ban flags the user in the listing", func(t *testing.T) {
		rr := testutil.DoRequest(f.router, testutil.WithBearer(testutil.NewRequest(t, http.MethodPost,
			"/admin/users/"+tenant.ID.String()+"/ban"), adminTok))
		testutil.AssertStatusOK(t, rr)

		rr = testutil.DoRequest(f.router, testutil.WithBearer(testutil.NewRequest(t, http.MethodGet, "/admin/users"), adminTok))
		testutil.AssertStatusOK(t, rr)
		list := testutil.UnmarshalResponse[userListResponse](t, rr)
		assert.Len(t, list.Users, 2)
		assert.Equal(t, 1, list.FlaggedCount)
	})

	t.Run("malformed id", func(t *testing.T) {
		rr := testutil.DoRequest(f.router, testutil.WithBearer(testutil.NewRequest(t, http.MethodPost, "/admin/users/not-a-uuid/ban"), adminTok))
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})

}
