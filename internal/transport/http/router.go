// Package httptransport assembles the HTTP router: middleware chain,
// authenticated client routes, server-to-server routes, and operational
// endpoints.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhandler "refgate/internal/auth/handler"
	referralhandler "refgate/internal/referral/handler"
	authmw "refgate/pkg/platform/middleware/auth"
	"refgate/pkg/platform/middleware/device"
	"refgate/pkg/platform/middleware/metadata"
	"refgate/pkg/platform/middleware/requesttime"
	"refgate/pkg/platform/middleware/serverauth"
)

// RouterParams collects everything the router mounts.
type RouterParams struct {
	Referrals *referralhandler.Handler
	Auth      *authhandler.Handler

	JWTValidator        authmw.JWTValidator
	ServerSignatureHash string
	Logger              *slog.Logger
}

// NewRouter wires all public endpoints.
func NewRouter(p RouterParams) http.Handler {
	r := chi.NewRouter()
	r.Use(metadata.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(device.Middleware)

	// Client-facing routes: JWT bearer auth.
	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireAuth(p.JWTValidator, p.Logger))
		p.Referrals.RegisterClient(r)
	})

	// Server-to-server routes: shared signature auth.
	r.Group(func(r chi.Router) {
		r.Use(serverauth.Require(p.ServerSignatureHash, p.Logger))
		p.Referrals.RegisterServer(r)
	})

	p.Auth.Register(r)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}
