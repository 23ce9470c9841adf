package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"refgate/internal/referral/models"
	id "refgate/pkg/domain"
	"refgate/pkg/platform/sentinel"
)

// HTTPResolver resolves users against the user service's REST API.
type HTTPResolver struct {
	baseURL string
	client  *http.Client
}

// NewHTTPResolver constructs a resolver for the user service at baseURL.
// A nil httpClient gets a client with a conservative timeout.
func NewHTTPResolver(baseURL string, httpClient *http.Client) *HTTPResolver {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &HTTPResolver{baseURL: baseURL, client: httpClient}
}

func (r *HTTPResolver) UserByID(ctx context.Context, userID id.UserID) (*models.User, error) {
	return r.fetch(ctx, "/users/"+url.PathEscape(userID.String()))
}

func (r *HTTPResolver) UserByReferralCode(ctx context.Context, code string) (*models.User, error) {
	return r.fetch(ctx, "/users/by-referral-code/"+url.PathEscape(code))
}

func (r *HTTPResolver) fetch(ctx context.Context, path string) (*models.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build user service request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("user service request: %w: %w", sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, sentinel.ErrNotFound
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("user service returned %d: %w", resp.StatusCode, sentinel.ErrUnavailable)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("user service returned unexpected status %d", resp.StatusCode)
	}

	var user models.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decode user service response: %w", err)
	}
	return &user, nil
}
