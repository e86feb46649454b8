// Package store is the HTTP client for the review API: bulk creation of
// scored items and account profiles, alert and scan-log records, and the list
// of accounts flagged for monitoring.
//
// Write failures here are non-fatal by contract: callers log and continue,
// and the engine's computed values stay valid in memory.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/agamordechai/active-fence-assignment/riskengine/content"
	"github.com/agamordechai/active-fence-assignment/riskengine/enrich"
	"github.com/agamordechai/active-fence-assignment/riskengine/escalation"
	"github.com/agamordechai/active-fence-assignment/riskengine/scorer"
	"github.com/agamordechai/active-fence-assignment/util"
)

// ScoredItemRecord is a content item plus its risk assessment, as persisted.
type ScoredItemRecord struct {
	content.Post
	Risk     scorer.RiskScore `json:"risk_assessment"`
	ScoredAt time.Time        `json:"scored_at"`
}

// AccountRecord is an enriched account plus its recomputed risk profile.
type AccountRecord struct {
	AccountID     string                 `json:"account_id"`
	Profile       scorer.RiskProfile     `json:"risk_assessment"`
	Activity      enrich.ActivityMetrics `json:"activity_metrics"`
	Sources       []string               `json:"sources"`
	ProfileStatus string                 `json:"profile_status"`
	ScoredAt      time.Time              `json:"scored_at"`
}

type MonitoredAccount struct {
	AccountID     string     `json:"account_id"`
	RiskLevel     string     `json:"risk_level"`
	LastScannedAt *time.Time `json:"last_scanned_at,omitempty"`
}

// BulkResult reports the outcome of a bulk create call.
type BulkResult struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
	Errors  int `json:"errors"`
}

type Client struct {
	Host   string
	Client *http.Client
}

func NewClient(host string) *Client {
	return &Client{
		Host:   host,
		Client: util.RobustHTTPClient(),
	}
}

func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Host+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("store health check: unexpected status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) SendItems(ctx context.Context, items []ScoredItemRecord) (*BulkResult, error) {
	var out BulkResult
	if err := c.postJSON(ctx, "/bulk/items", items, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SendAccounts(ctx context.Context, accounts []AccountRecord) (*BulkResult, error) {
	var out BulkResult
	if err := c.postJSON(ctx, "/bulk/accounts", accounts, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateAlert(ctx context.Context, alert *escalation.Alert) error {
	return c.postJSON(ctx, "/alerts", alert, nil)
}

func (c *Client) CreateScanLog(ctx context.Context, entry escalation.ScanLogEntry) error {
	return c.postJSON(ctx, "/scan-logs", entry, nil)
}

// MonitoredAccounts returns the accounts currently flagged for monitoring.
func (c *Client) MonitoredAccounts(ctx context.Context) ([]MonitoredAccount, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Host+"/accounts?monitored=true", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing monitored accounts: unexpected status %d", resp.StatusCode)
	}
	var accounts []MonitoredAccount
	if err := json.NewDecoder(resp.Body).Decode(&accounts); err != nil {
		return nil, fmt.Errorf("parsing monitored accounts: %w", err)
	}
	return accounts, nil
}

func (c *Client) SetMonitored(ctx context.Context, accountID string, monitored bool) error {
	body := map[string]bool{"is_monitored": monitored}
	return c.patchJSON(ctx, "/accounts/"+accountID, body)
}

func (c *Client) postJSON(ctx context.Context, path string, payload any, out any) error {
	return c.sendJSON(ctx, http.MethodPost, path, payload, out)
}

func (c *Client) patchJSON(ctx context.Context, path string, payload any) error {
	return c.sendJSON(ctx, http.MethodPatch, path, payload, nil)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, payload any, out any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, c.Host+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
			return fmt.Errorf("parsing %s response: %w", path, err)
		}
	}
	return nil
}
