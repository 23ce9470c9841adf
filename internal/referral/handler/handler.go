// Package handler is the thin HTTP layer over the referral service. It
// decodes requests, delegates, and translates outcomes; no business logic
// lives here.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"refgate/internal/referral/models"
	"refgate/internal/referral/service"
	id "refgate/pkg/domain"
	dErrors "refgate/pkg/domain-errors"
	"refgate/pkg/platform/httputil"
	"refgate/pkg/requestcontext"
)

// Service is the referral surface the handler depends on.
type Service interface {
	Convert(ctx context.Context, referralCode string, newUser models.User) (models.ConversionOutcome, error)
	CreateLink(ctx context.Context, referringUserID id.UserID) (string, error)
	ListReferrals(ctx context.Context, referrerID id.UserID, sort *models.SortSpec) ([]models.Referral, error)
	GetOverview(ctx context.Context, referrerID id.UserID) (*service.Overview, error)
}

// Handler wires referral endpoints to the service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a referral handler.
func New(svc Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: svc, logger: logger}
}

// RegisterClient mounts the endpoints behind client JWT auth.
func (h *Handler) RegisterClient(r chi.Router) {
	r.Post("/referrals/link", h.HandleCreateLink)
	r.Get("/referrals", h.HandleListReferrals)
	r.Get("/referrals/overview", h.HandleOverview)
}

// RegisterServer mounts the endpoints behind server signature auth.
func (h *Handler) RegisterServer(r chi.Router) {
	r.Post("/referrals/convert", h.HandleConvert)
}

// HandleConvert handles POST /referrals/convert.
func (h *Handler) HandleConvert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ConvertReferralRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	outcome, err := h.service.Convert(ctx, req.ReferralCode, req.NewUser)
	if err != nil {
		h.logger.ErrorContext(ctx, "conversion failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, outcomeResponse(outcome))
}

// HandleCreateLink handles POST /referrals/link. Users can only mint links
// for themselves; the subject comes from the verified token, never the
// body.
func (h *Handler) HandleCreateLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	userID := requestcontext.UserID(ctx)
	if userID.IsZero() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	link, err := h.service.CreateLink(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "link issuance failed",
			"request_id", requestID,
			"user_id", userID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, CreateLinkResponse{DeepLink: link})
}

// HandleListReferrals handles GET /referrals for the authenticated user.
func (h *Handler) HandleListReferrals(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	userID := requestcontext.UserID(ctx)
	if userID.IsZero() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	sort, err := parseSortSpec(r.URL.Query().Get("sort"), r.URL.Query().Get("order"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	referrals, err := h.service.ListReferrals(ctx, userID, sort)
	if err != nil {
		h.logger.ErrorContext(ctx, "list referrals failed",
			"request_id", requestID,
			"user_id", userID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	if referrals == nil {
		referrals = []models.Referral{}
	}

	httputil.WriteJSON(w, http.StatusOK, ListReferralsResponse{Referrals: referrals})
}

// HandleOverview handles GET /referrals/overview.
func (h *Handler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	userID := requestcontext.UserID(ctx)
	if userID.IsZero() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	overview, err := h.service.GetOverview(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "overview failed",
			"request_id", requestID,
			"user_id", userID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, overview)
}
