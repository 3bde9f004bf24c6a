// Package gstregistry verifies tax identifiers against a live registry
// provider. Verification is advisory: every failure mode folds into a
// success:false outcome so invoice processing never blocks on the
// provider.
package gstregistry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"fintel/internal/config"
	"fintel/internal/model"
)

// Verifier checks one tax identifier against the registry.
type Verifier interface {
	Verify(ctx context.Context, gstNumber string) model.GSTVerification
}

// Client talks to a RapidAPI-style GST lookup provider.
type Client struct {
	url     string
	apiKey  string
	apiHost string
	http    *http.Client
}

// New creates a Client from registry configuration. An empty API key
// yields a client whose lookups report a configuration error.
func New(cfg config.RegistryConfig) *Client {
	return &Client{
		url:     cfg.URL,
		apiKey:  cfg.APIKey,
		apiHost: cfg.APIHost,
		http: &http.Client{
			Timeout:   time.Duration(cfg.TimeoutSec) * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

var _ Verifier = (*Client)(nil)

type providerResponse struct {
	Valid     bool   `json:"valid"`
	Active    bool   `json:"active"`
	LegalName string `json:"legalName"`
	Status    string `json:"status"`
}

// Verify looks up one identifier. The returned outcome always carries the
// queried number; Success is false whenever the provider could not be
// consulted.
func (c *Client) Verify(ctx context.Context, gstNumber string) model.GSTVerification {
	out := model.GSTVerification{GSTNumber: gstNumber}

	if c.apiKey == "" {
		out.Error = "registry API key not configured"
		return out
	}

	body, err := json.Marshal(map[string]string{"gstin": gstNumber})
	if err != nil {
		out.Error = err.Error()
		return out
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		out.Error = err.Error()
		return out
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-rapidapi-key", c.apiKey)
	req.Header.Set("x-rapidapi-host", c.apiHost)

	resp, err := c.http.Do(req)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		out.Error = fmt.Sprintf("registry returned status %d", resp.StatusCode)
		return out
	}

	var pr providerResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		out.Error = err.Error()
		return out
	}

	out.Success = true
	out.IsValid = pr.Valid
	out.IsActive = pr.Active
	out.LegalName = pr.LegalName
	out.Status = pr.Status
	return out
}
