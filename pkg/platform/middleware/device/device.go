// Package device derives a coarse device fingerprint from the request and
// stores it in the context. The fingerprint is recorded on conversion
// records as a fraud signal for the reserved similar-device check; nothing
// evaluates it yet.
package device

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"

	"github.com/mssola/useragent"

	"refgate/pkg/requestcontext"
)

// Middleware parses the User-Agent header and stores a stable fingerprint
// of platform, OS, and browser alongside the raw header value.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if ua := r.UserAgent(); ua != "" {
			ctx = requestcontext.WithDeviceFingerprint(ctx, Fingerprint(ua))
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Fingerprint reduces a raw User-Agent string to a short stable hash over
// its platform, OS, and browser family. Version churn within a browser
// family keeps the fingerprint stable.
func Fingerprint(rawUserAgent string) string {
	ua := useragent.New(rawUserAgent)
	name, _ := ua.Browser()
	sum := sha256.Sum256([]byte(ua.Platform() + "|" + ua.OS() + "|" + name + "|" + ua.Model()))
	return hex.EncodeToString(sum[:16])
}
