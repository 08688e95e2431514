// internal/app/system/identity/provider.go

// Package identity bridges the external identity provider and the local
// user store. The provider's webhook mirrors new identities into the
// local store asynchronously; the Resolver bounds the wait for that
// mirror to land.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/dforrest/communityhub/internal/app/system/faults"
	"go.uber.org/zap"
)

// ExternalIdentity is the provider's view of an account.
type ExternalIdentity struct {
	Key       string `json:"key"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// Provider is the consumed identity-provider API.
type Provider interface {
	GetUsersByExternalKey(ctx context.Context, key string) ([]ExternalIdentity, error)
	CreateExternalIdentity(ctx context.Context, firstName, lastName, phone string) (ExternalIdentity, error)
}

// HTTPProvider is the JSON-over-HTTP implementation of Provider.
type HTTPProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
	log     *zap.Logger
}

// NewHTTPProvider builds an HTTPProvider from config values.
func NewHTTPProvider(baseURL, apiKey string, logger *zap.Logger) *HTTPProvider {
	return &HTTPProvider{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 15 * time.Second},
		log:     logger,
	}
}

// GetUsersByExternalKey lists provider accounts matching the key.
func (p *HTTPProvider) GetUsersByExternalKey(ctx context.Context, key string) ([]ExternalIdentity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		p.baseURL+"/v1/identities?key="+url.QueryEscape(key), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: identity provider: %v", faults.ErrProviderError, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: identity provider returned %d", faults.ErrProviderError, resp.StatusCode)
	}

	var out []ExternalIdentity
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: identity provider: %v", faults.ErrProviderError, err)
	}
	return out, nil
}

// CreateExternalIdentity registers a new account upstream. The local
// mirror arrives later via the provider's webhook; callers that need the
// local id must go through the Resolver.
func (p *HTTPProvider) CreateExternalIdentity(ctx context.Context, firstName, lastName, phone string) (ExternalIdentity, error) {
	payload, err := json.Marshal(ExternalIdentity{FirstName: firstName, LastName: lastName, Phone: phone})
	if err != nil {
		return ExternalIdentity{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+"/v1/identities", bytes.NewReader(payload))
	if err != nil {
		return ExternalIdentity{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return ExternalIdentity{}, fmt.Errorf("%w: identity provider: %v", faults.ErrProviderError, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return ExternalIdentity{}, fmt.Errorf("%w: identity provider returned %d", faults.ErrProviderError, resp.StatusCode)
	}

	var out ExternalIdentity
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return ExternalIdentity{}, fmt.Errorf("%w: identity provider: %v", faults.ErrProviderError, err)
	}
	return out, nil
}
