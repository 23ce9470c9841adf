package deeplink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"refgate/pkg/platform/sentinel"
)

// HTTPProvider calls a hosted link-generation API (Branch-style): POST the
// referral code, receive the deep-link URL.
type HTTPProvider struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewHTTPProvider constructs a provider for the link API at endpoint.
func NewHTTPProvider(endpoint, apiKey string, httpClient *http.Client) *HTTPProvider {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &HTTPProvider{endpoint: endpoint, apiKey: apiKey, client: httpClient}
}

type generateRequest struct {
	ReferralCode string `json:"referralCode"`
}

type generateResponse struct {
	URL string `json:"url"`
}

func (p *HTTPProvider) GenerateDeepLink(ctx context.Context, referralCode string) (string, error) {
	body, err := json.Marshal(generateRequest{ReferralCode: referralCode})
	if err != nil {
		return "", fmt.Errorf("encode link request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build link request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("link provider request: %w: %w", sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("link provider returned %d", resp.StatusCode)
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode link response: %w", err)
	}
	if decoded.URL == "" {
		return "", fmt.Errorf("link provider returned an empty url")
	}
	return decoded.URL, nil
}
