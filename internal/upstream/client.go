// Package upstream is the HTTP client for the invoice API the aggregators
// read from. By default it points back at this service; the base URL is
// configurable for split deployments.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"fintel/internal/config"
	"fintel/internal/model"
	"fintel/internal/repository"
)

// Client fetches aggregation inputs over HTTP. Callers decide how to
// degrade when a fetch fails; the client only reports errors.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client from upstream configuration.
func New(cfg config.UpstreamConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		http: &http.Client{
			Timeout:   time.Duration(cfg.TimeoutSec) * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

type statsEnvelope struct {
	Stats model.DashboardStats `json:"stats"`
}

type anomaliesEnvelope struct {
	Anomalies []model.Anomaly `json:"anomalies"`
}

type historyEnvelope struct {
	Invoices []historyEntry `json:"invoices"`
}

type historyEntry struct {
	model.Invoice
	ComplianceResult *model.ComplianceResult `json:"complianceResult,omitempty"`
}

type vendorsEnvelope struct {
	Vendors []model.VendorProfile `json:"vendors"`
}

// DashboardStats fetches the headline rollup.
func (c *Client) DashboardStats(ctx context.Context) (*model.DashboardStats, error) {
	var env statsEnvelope
	if err := c.getJSON(ctx, "/api/dashboard/stats", nil, &env); err != nil {
		return nil, err
	}
	return &env.Stats, nil
}

// Anomalies fetches the recent anomaly list.
func (c *Client) Anomalies(ctx context.Context) ([]model.Anomaly, error) {
	var env anomaliesEnvelope
	if err := c.getJSON(ctx, "/api/anomalies", nil, &env); err != nil {
		return nil, err
	}
	return env.Anomalies, nil
}

// InvoiceHistory fetches recent invoices with their compliance results.
// limit <= 0 leaves the server default in place.
func (c *Client) InvoiceHistory(ctx context.Context, limit int) ([]repository.InvoiceHistoryEntry, error) {
	var q url.Values
	if limit > 0 {
		q = url.Values{"limit": []string{strconv.Itoa(limit)}}
	}
	var env historyEnvelope
	if err := c.getJSON(ctx, "/api/invoices/history", q, &env); err != nil {
		return nil, err
	}
	entries := make([]repository.InvoiceHistoryEntry, 0, len(env.Invoices))
	for _, e := range env.Invoices {
		entries = append(entries, repository.InvoiceHistoryEntry{Invoice: e.Invoice, Result: e.ComplianceResult})
	}
	return entries, nil
}

// Vendors fetches the vendor rollup list.
func (c *Client) Vendors(ctx context.Context) ([]model.VendorProfile, error) {
	var env vendorsEnvelope
	if err := c.getJSON(ctx, "/api/vendors", nil, &env); err != nil {
		return nil, err
	}
	return env.Vendors, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: unexpected status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
