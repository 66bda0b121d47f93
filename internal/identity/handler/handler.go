package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"trustestate/internal/identity/models"
	id "trustestate/pkg/domain"
	"trustestate/pkg/platform/httputil"
	"trustestate/pkg/requestcontext"
)

// Service defines the identity operations exposed over HTTP.
type Service interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
	Get(ctx context.Context, userID id.UserID) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	UpdateProfile(ctx context.Context, userID id.UserID, req *models.UpdateProfileRequest) (*models.User, error)
	AdvanceKYC(ctx context.Context, userID id.UserID, req *models.KYCRequest) (*models.User, error)
	Ban(ctx context.Context, userID id.UserID) (*models.User, error)
	Suspend(ctx context.Context, userID id.UserID) (*models.User, error)
	Reactivate(ctx context.Context, userID id.UserID) (*models.User, error)
}

// Handler handles account endpoints.
type Handler struct {
	users  Service
	logger *slog.Logger
}

func New(users Service, logger *slog.Logger) *Handler {
	return &Handler{users: users, logger: logger}
}

// RegisterPublic mounts the unauthenticated routes.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/auth/register", h.handleRegister)
	r.Post("/auth/login", h.handleLogin)
}

// Register mounts the self-service routes. Requires RequireAuth upstream.
func (h *Handler) Register(r chi.Router) {
	r.Get("/me", h.handleMe)
	r.Patch("/me", h.handleUpdateProfile)
	r.Post("/me/kyc", h.handleKYC)
}

// RegisterAdmin mounts moderation routes. Requires RequireAdmin upstream.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/users", h.handleListUsers)
	r.Post("/users/{id}/ban", h.moderate(h.users.Ban, "ban"))
	r.Post("/users/{id}/suspend", h.moderate(h.users.Suspend, "suspend"))
	r.Post("/users/{id}/reactivate", h.moderate(h.users.Reactivate, "reactivate"))
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.RegisterRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	user, err := h.users.Register(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "registration failed",
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, user)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.LoginRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	resp, err := h.users.Login(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "login failed",
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, err := h.users.Get(ctx, requestcontext.UserID(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.UpdateProfileRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	user, err := h.users.UpdateProfile(ctx, requestcontext.UserID(ctx), req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) handleKYC(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.KYCRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	user, err := h.users.AdvanceKYC(ctx, requestcontext.UserID(ctx), req)
	if err != nil {
		h.logger.WarnContext(ctx, "kyc step refused",
			"step", req.Step,
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

type userListResponse struct {
	Users        []*models.User `json:"users"`
	FlaggedCount int            `json:"flagged_count"`
}

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	resp := userListResponse{Users: users}
	for _, u := range users {
		if u.IsFlagged() {
			resp.FlaggedCount++
		}
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) moderate(op func(context.Context, id.UserID) (*models.User, error), name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := id.ParseUserID(chi.URLParam(r, "id"))
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		user, err := op(ctx, userID)
		if err != nil {
			h.logger.WarnContext(ctx, "moderation failed",
				"action", name,
				"user_id", userID.String(),
				"error", err,
				"request_id", requestcontext.RequestID(ctx),
			)
			httputil.WriteError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, user)
	}
}
