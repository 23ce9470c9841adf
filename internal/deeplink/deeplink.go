// Package deeplink generates deferred deep links for referral codes via a
// third-party link provider.
package deeplink

import "context"

// Provider turns a referral code into an opaque deep-link URL. Failures
// propagate unchanged; the service layer does not retry.
type Provider interface {
	GenerateDeepLink(ctx context.Context, referralCode string) (string, error)
}
