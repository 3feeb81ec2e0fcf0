package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const googleTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// FederatedProfile is the identity asserted by a federated provider.
type FederatedProfile struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	AvatarURL string `json:"picture"`
}

// TokenVerifier validates a federated id token and returns the profile.
type TokenVerifier interface {
	Verify(ctx context.Context, idToken string) (*FederatedProfile, error)
}

// GoogleVerifier verifies Google id tokens against the tokeninfo endpoint.
type GoogleVerifier struct {
	client   *http.Client
	endpoint string
}

// NewGoogleVerifier creates a Google token verifier.
func NewGoogleVerifier() *GoogleVerifier {
	return &GoogleVerifier{
		client:   &http.Client{Timeout: 10 * time.Second},
		endpoint: googleTokenInfoURL,
	}
}

// Verify calls Google's tokeninfo endpoint. Google rejects expired or
// tampered tokens, so a 200 with an email claim is sufficient here.
func (v *GoogleVerifier) Verify(ctx context.Context, idToken string) (*FederatedProfile, error) {
	u := v.endpoint + "?id_token=" + url.QueryEscape(idToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create tokeninfo request: %w", err)
	}
	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tokeninfo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tokeninfo status %d: %w", resp.StatusCode, ErrInvalidToken)
	}
	var profile FederatedProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("decode tokeninfo: %w", err)
	}
	if profile.Email == "" {
		return nil, ErrInvalidToken
	}
	return &profile, nil
}
