package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"trustestate/internal/dispute/models"
	id "trustestate/pkg/domain"
	"trustestate/pkg/platform/httputil"
	"trustestate/pkg/requestcontext"
)

// Service defines the complaint operations exposed over HTTP.
type Service interface {
	File(ctx context.Context, req *models.FileComplaintRequest) (*models.Complaint, error)
	Resolve(ctx context.Context, complaintID id.ComplaintID, action models.Action) (*models.Complaint, error)
	List(ctx context.Context, openOnly bool) ([]*models.Complaint, error)
}

type Handler struct {
	disputes Service
	logger   *slog.Logger
}

func New(disputes Service, logger *slog.Logger) *Handler {
	return &Handler{disputes: disputes, logger: logger}
}

// Register mounts complaint filing. Requires RequireAuth upstream.
func (h *Handler) Register(r chi.Router) {
	r.Post("/complaints", h.handleFile)
}

// RegisterAdmin mounts the complaint queue. Requires RequireAdmin upstream.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/complaints", h.handleList)
	r.Post("/complaints/{id}/resolve", h.handleResolve)
}

func (h *Handler) handleFile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.FileComplaintRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	c, err := h.disputes.File(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "complaint refused",
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, c)
}

type complaintListResponse struct {
	Complaints []*models.Complaint `json:"complaints"`
	Count      int                 `json:"count"`
}

// handleList serves the queue; ?status=all includes resolved complaints.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	openOnly := r.URL.Query().Get("status") != "all"
	complaints, err := h.disputes.List(r.Context(), openOnly)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, complaintListResponse{Complaints: complaints, Count: len(complaints)})
}

func (h *Handler) handleResolve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	complaintID, err := id.ParseComplaintID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.ResolveRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	action, err := models.ParseAction(req.Action)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	c, err := h.disputes.Resolve(ctx, complaintID, action)
	if err != nil {
		h.logger.WarnContext(ctx, "complaint resolution failed",
			"complaint_id", complaintID.String(),
			"action", action.String(),
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}
