// Package serverauth authenticates server-to-server calls from the core
// registration service. Callers present a shared secret in the X-Signature
// header; we verify it against a bcrypt hash so the plaintext secret never
// sits in config files at rest.
package serverauth

import (
	"log/slog"
	"net/http"

	"refgate/pkg/platform/secrets"
	"refgate/pkg/requestcontext"
)

// Require rejects requests whose X-Signature header does not match the
// configured secret hash.
func Require(signatureHash string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			signature := r.Header.Get("X-Signature")
			if signature == "" {
				logger.WarnContext(ctx, "server auth failed - missing signature",
					"request_id", requestID,
				)
				writeUnauthorized(w, "Missing X-Signature header")
				return
			}

			if err := secrets.Verify(signature, signatureHash); err != nil {
				logger.WarnContext(ctx, "server auth failed - invalid signature",
					"request_id", requestID,
				)
				writeUnauthorized(w, "Invalid signature")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, desc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"` + desc + `"}`))
}
