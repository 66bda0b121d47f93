package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"trustestate/internal/registry/models"
	"trustestate/internal/risk"
	id "trustestate/pkg/domain"
	"trustestate/pkg/platform/httputil"
	"trustestate/pkg/requestcontext"
)

// Service defines the registry operations exposed over HTTP.
type Service interface {
	Enroll(ctx context.Context, req *models.EnrollRequest) (*models.Property, error)
	Get(ctx context.Context, propertyID id.PropertyID) (*models.Property, error)
	Marketplace(ctx context.Context) ([]*models.Property, error)
	ListByOwner(ctx context.Context, ownerID id.UserID) ([]*models.Property, error)
	ListForTenant(ctx context.Context, tenantID id.UserID) ([]*models.Property, error)
	FraudDesk(ctx context.Context) ([]*models.Property, error)
	UpdateStatus(ctx context.Context, propertyID id.PropertyID, to models.Status) (*models.Property, error)
	SelfFlag(ctx context.Context, propertyID id.PropertyID) (*models.Property, error)
	ExpressInterest(ctx context.Context, propertyID id.PropertyID) (*models.Property, error)
	InitiateDeal(ctx context.Context, propertyID id.PropertyID, tenantID id.UserID) (*models.Property, error)
	VerifyDeal(ctx context.Context, propertyID id.PropertyID) (*models.Property, error)
	Unlock(ctx context.Context, propertyID id.PropertyID) (*models.Property, error)
}

// Handler handles property registry endpoints.
type Handler struct {
	registry Service
	logger   *slog.Logger
}

func New(registry Service, logger *slog.Logger) *Handler {
	return &Handler{registry: registry, logger: logger}
}

// RegisterPublic mounts the marketplace routes.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/properties", h.handleMarketplace)
	r.Get("/properties/{id}", h.handleGet)
}

// Register mounts landlord and tenant routes. Requires RequireAuth upstream.
func (h *Handler) Register(r chi.Router) {
	r.Post("/properties", h.handleEnroll)
	r.Patch("/properties/{id}/status", h.handleUpdateStatus)
	r.Post("/properties/{id}/flag", h.propertyAction(h.registry.SelfFlag, "self-flag"))
	r.Post("/properties/{id}/interest", h.propertyAction(h.registry.ExpressInterest, "interest"))
	r.Post("/properties/{id}/deal", h.handleInitiateDeal)
	r.Post("/properties/{id}/verify", h.propertyAction(h.registry.VerifyDeal, "verify-deal"))
	r.Get("/landlord/properties", h.handleOwnerProperties)
	r.Get("/tenant/properties", h.handleTenantProperties)
}

// RegisterAdmin mounts the fraud desk. Requires RequireAdmin upstream.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/fraud-desk", h.handleFraudDesk)
	r.Post("/properties/{id}/unlock", h.propertyAction(h.registry.Unlock, "unlock"))
}

// PropertyView is a property with its display badge and risk level.
type PropertyView struct {
	*models.Property
	StatusMeta models.StatusMeta `json:"status_meta"`
	RiskLevel  risk.Level        `json:"risk_level"`
	IsFlagged  bool              `json:"is_flagged"`
}

func viewOf(p *models.Property) PropertyView {
	return PropertyView{
		Property:   p,
		StatusMeta: p.Status.Meta(),
		RiskLevel:  risk.LevelOf(p.FraudScore),
		IsFlagged:  p.IsFlagged(),
	}
}

func viewsOf(props []*models.Property) []PropertyView {
	views := make([]PropertyView, 0, len(props))
	for _, p := range props {
		views = append(views, viewOf(p))
	}
	return views
}

type propertyListResponse struct {
	Properties []PropertyView `json:"properties"`
	Count      int            `json:"count"`
}

func writeList(w http.ResponseWriter, props []*models.Property) {
	views := viewsOf(props)
	httputil.WriteJSON(w, http.StatusOK, propertyListResponse{Properties: views, Count: len(views)})
}

func (h *Handler) handleMarketplace(w http.ResponseWriter, r *http.Request) {
	props, err := h.registry.Marketplace(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	writeList(w, props)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	propertyID, err := id.ParsePropertyID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	prop, err := h.registry.Get(r.Context(), propertyID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, viewOf(prop))
}

func (h *Handler) handleEnroll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.EnrollRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	prop, err := h.registry.Enroll(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "enrollment refused",
			"error", err,
			"user_id", requestcontext.UserID(ctx).String(),
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, viewOf(prop))
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	propertyID, err := id.ParsePropertyID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.UpdateStatusRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	to, err := models.ParseStatus(req.Status)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	prop, err := h.registry.UpdateStatus(ctx, propertyID, to)
	if err != nil {
		h.logger.WarnContext(ctx, "status change refused",
			"property_id", propertyID.String(),
			"to", to.String(),
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, viewOf(prop))
}

func (h *Handler) handleInitiateDeal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	propertyID, err := id.ParsePropertyID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.InitiateDealRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	tenantID, err := id.ParseUserID(req.TenantID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	prop, err := h.registry.InitiateDeal(ctx, propertyID, tenantID)
	if err != nil {
		h.logger.WarnContext(ctx, "deal refused",
			"property_id", propertyID.String(),
			"tenant_id", tenantID.String(),
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, viewOf(prop))
}

func (h *Handler) handleOwnerProperties(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	props, err := h.registry.ListByOwner(ctx, requestcontext.UserID(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	writeList(w, props)
}

func (h *Handler) handleTenantProperties(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	props, err := h.registry.ListForTenant(ctx, requestcontext.UserID(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	writeList(w, props)
}

func (h *Handler) handleFraudDesk(w http.ResponseWriter, r *http.Request) {
	props, err := h.registry.FraudDesk(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	writeList(w, props)
}

func (h *Handler) propertyAction(op func(context.Context, id.PropertyID) (*models.Property, error), name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		propertyID, err := id.ParsePropertyID(chi.URLParam(r, "id"))
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		prop, err := op(ctx, propertyID)
		if err != nil {
			h.logger.WarnContext(ctx, "property action refused",
				"action", name,
				"property_id", propertyID.String(),
				"error", err,
				"request_id", requestcontext.RequestID(ctx),
			)
			httputil.WriteError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, viewOf(prop))
	}
}
