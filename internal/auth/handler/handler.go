// Package handler exposes the development-only token endpoint. Real
// client tokens are minted by the identity platform; this endpoint exists
// so local and staging environments can exercise the authenticated
// referral routes.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"refgate/internal/jwttoken"
	id "refgate/pkg/domain"
	dErrors "refgate/pkg/domain-errors"
	"refgate/pkg/platform/httputil"
	"refgate/pkg/requestcontext"
)

const tokenTTL = time.Hour

// Handler mints development access tokens.
type Handler struct {
	tokens      *jwttoken.Service
	development bool
	logger      *slog.Logger
}

// New constructs the auth handler. Outside development mode the endpoint
// always returns 401.
func New(tokens *jwttoken.Service, development bool, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{tokens: tokens, development: development, logger: logger}
}

// Register mounts the auth endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Post("/auth/token", h.HandleToken)
}

// TokenRequest asks for a token for the given user.
type TokenRequest struct {
	UserID string `json:"userId"`
}

func (r TokenRequest) Validate() error {
	if r.UserID == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "userId is required")
	}
	if _, err := id.ParseUserID(r.UserID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInvalidInput, "userId must be a uuid")
	}
	return nil
}

// TokenResponse carries the minted bearer token.
type TokenResponse struct {
	Token string `json:"token"`
}

// HandleToken handles POST /auth/token.
func (h *Handler) HandleToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	if !h.development {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "token endpoint is only available in development mode"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[TokenRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	userID, _ := id.ParseUserID(req.UserID)
	token, err := h.tokens.GenerateAccessToken(userID, "client", tokenTTL)
	if err != nil {
		h.logger.ErrorContext(ctx, "token mint failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "could not mint token"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, TokenResponse{Token: token})
}
