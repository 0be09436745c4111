// Package identity is the capability boundary around the external identity
// provider. The rest of the server consumes Verifier only; nothing outside this
// package knows how federated tokens are validated.
package identity

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
)

const googleTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// Claims are the verified identity claims extracted from a federated token.
type Claims struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	SubjectID string `json:"sub"`
}

// Verifier validates a federated identity token and returns verified claims.
type Verifier interface {
	Verify(idToken string) (*Claims, error)
}

// GoogleVerifier validates Google ID tokens against the provider's tokeninfo
// endpoint. Verification is fully delegated: a 200 from the provider is trusted,
// anything else is a verification failure.
type GoogleVerifier struct {
	endpoint   string
	httpClient *http.Client
}

// NewGoogleVerifier creates a verifier against the public Google endpoint.
func NewGoogleVerifier() *GoogleVerifier {
	return NewGoogleVerifierWithEndpoint(googleTokenInfoURL)
}

// NewGoogleVerifierWithEndpoint is used by tests to point at a fake provider.
func NewGoogleVerifierWithEndpoint(endpoint string) *GoogleVerifier {
	return &GoogleVerifier{
		endpoint: endpoint,
		// No application-level deadline is mandated here; a conservative client
		// timeout keeps a hung provider from pinning request goroutines.
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (v *GoogleVerifier) Verify(idToken string) (*Claims, error) {
	resp, err := v.httpClient.Get(v.endpoint + "?id_token=" + url.QueryEscape(idToken))
	if err != nil {
		return nil, errors.Wrap(err, "identity provider unreachable")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "fail to read identity provider response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("identity token rejected: %s", string(raw))
	}

	var claims Claims
	if err := json.Unmarshal(raw, &claims); err != nil {
		return nil, errors.Wrap(err, "malformed identity provider response")
	}
	if claims.Email == "" {
		return nil, errors.New("identity token carries no email claim")
	}
	return &claims, nil
}
