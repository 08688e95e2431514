// internal/app/system/sms/gateway.go
package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dforrest/communityhub/internal/app/system/faults"
	"go.uber.org/zap"
)

// Gateway talks to an HTTP SMS gateway (single JSON endpoint, API-key
// header). The gateway's batch endpoint is treated as atomic-or-not:
// there is no per-recipient result to inspect.
type Gateway struct {
	baseURL string
	apiKey  string
	client  *http.Client
	log     *zap.Logger
}

// NewGateway builds a Gateway from config values.
func NewGateway(baseURL, apiKey string, logger *zap.Logger) *Gateway {
	return &Gateway{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 15 * time.Second},
		log:     logger,
	}
}

type sendRequest struct {
	To   []string `json:"to"`
	Body string   `json:"body"`
}

// SendSingle dispatches one message to one recipient.
func (g *Gateway) SendSingle(ctx context.Context, to, body string) error {
	return g.send(ctx, []string{to}, body)
}

// SendBatch dispatches one message to many recipients in a single request.
func (g *Gateway) SendBatch(ctx context.Context, recipients []string, body string) error {
	return g.send(ctx, recipients, body)
}

func (g *Gateway) send(ctx context.Context, to []string, body string) error {
	payload, err := json.Marshal(sendRequest{To: to, Body: body})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: sms gateway: %v", faults.ErrProviderError, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("%w: sms gateway returned %d", faults.ErrProviderError, resp.StatusCode)
	}
	return nil
}

// NopSender discards every message. Used in dev mode and tests when no
// gateway is configured.
type NopSender struct {
	Log *zap.Logger
}

func (n NopSender) SendSingle(ctx context.Context, to, body string) error {
	if n.Log != nil {
		n.Log.Debug("sms suppressed (nop sender)", zap.String("to", to))
	}
	return nil
}

func (n NopSender) SendBatch(ctx context.Context, recipients []string, body string) error {
	if n.Log != nil {
		n.Log.Debug("sms batch suppressed (nop sender)", zap.Int("recipients", len(recipients)))
	}
	return nil
}
