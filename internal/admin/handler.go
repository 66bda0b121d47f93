package admin

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"trustestate/internal/admin/types"
	dErrors "trustestate/pkg/domain-errors"
	"trustestate/pkg/platform/audit"
	"trustestate/pkg/platform/httputil"
	"trustestate/pkg/requestcontext"
)

type Dashboard interface {
	Stats(ctx context.Context) (*types.Stats, error)
	AuditLogs(ctx context.Context, limit int) ([]audit.Entry, error)
}

// Handler handles the admin dashboard endpoints.
type Handler struct {
	dashboard Dashboard
	logger    *slog.Logger
}

func NewHandler(dashboard Dashboard, logger *slog.Logger) *Handler {
	return &Handler{dashboard: dashboard, logger: logger}
}

// RegisterAdmin mounts dashboard routes. Requires RequireAdmin upstream.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/stats", h.handleStats)
	r.Get("/audit-logs", h.handleAuditLogs)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboard.Stats(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) handleAuditLogs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := audit.MaxListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.logger.WarnContext(ctx, "invalid audit limit",
				"limit", raw,
				"request_id", requestcontext.RequestID(ctx),
			)
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "limit must be an integer"))
			return
		}
		limit = n
	}

	entries, err := h.dashboard.AuditLogs(ctx, limit)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toAuditLogsResponse(entries))
}
