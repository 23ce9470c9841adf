// Package httputil centralizes JSON request decoding and error translation
// so handlers stay thin and error envelopes stay consistent.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	dErrors "refgate/pkg/domain-errors"
	"refgate/pkg/platform/sentinel"
)

// Validatable requests check their own field-level constraints after decode.
type Validatable interface {
	Validate() error
}

// WriteJSON writes a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteError translates a domain error into a JSON error envelope.
// Sentinel infrastructure errors get mapped to their closest domain code
// first so stores don't need to wrap every return.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		code = dErrors.CodeNotFound
	case errors.Is(err, sentinel.ErrUnavailable):
		code = dErrors.CodeUnavailable
	}
	WriteJSON(w, dErrors.ToHTTPStatus(code), map[string]string{
		"error": string(code),
	})
}

// DecodeAndPrepare decodes the request body into T and runs its validation.
// On failure it writes the error response and returns ok=false; handlers
// just return.
func DecodeAndPrepare[T Validatable](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "malformed request body",
			"request_id", requestID,
			"error", err,
		)
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "malformed request body"))
		return req, false
	}
	if err := req.Validate(); err != nil {
		logger.WarnContext(ctx, "request validation failed",
			"request_id", requestID,
			"error", err,
		)
		WriteError(w, err)
		return req, false
	}
	return req, true
}
