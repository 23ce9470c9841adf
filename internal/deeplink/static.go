package deeplink

import (
	"context"
	"net/url"
)

// StaticProvider builds deep links locally from a base URL. Used in dev and
// tests where no third-party link service is configured.
type StaticProvider struct {
	baseURL string
}

// NewStaticProvider constructs a provider that appends the referral code as
// a query parameter on baseURL.
func NewStaticProvider(baseURL string) *StaticProvider {
	return &StaticProvider{baseURL: baseURL}
}

func (p *StaticProvider) GenerateDeepLink(_ context.Context, referralCode string) (string, error) {
	return p.baseURL + "?ref=" + url.QueryEscape(referralCode), nil
}
