// Package remote talks to the spreadsheet proxy. The proxy hands back
// loosely-typed rows (numbers and booleans frequently arrive as strings once
// they have been through a sheet cell), so everything is decoded through an
// explicit normalization step that defaults malformed fields and records a
// diagnostic instead of guessing silently.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/rowanfield/choresheet/internal/model"
)

// Client is the HTTP client for the proxy endpoint.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient creates a Client for the proxy at baseURL.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
	}
}

// TestResult is the outcome of a connectivity probe.
type TestResult struct {
	OK      bool
	Message string
	Count   int
}

type loadResponse struct {
	Data    []json.RawMessage `json:"data"`
	Members []json.RawMessage `json:"members"`
	Error   string            `json:"error"`
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Count   *int              `json:"count"`
}

type savePayload struct {
	Action      string               `json:"action"`
	SharingCode string               `json:"sharingCode"`
	Chores      []model.Chore        `json:"chores"`
	Members     []model.FamilyMember `json:"members"`
}

type saveResponse struct {
	Success bool   `json:"success"`
	Count   int    `json:"count"`
	Error   string `json:"error"`
}

// Load fetches all chores and members stored under the sharing code.
func (c *Client) Load(ctx context.Context, code string) ([]model.Chore, []model.FamilyMember, error) {
	var resp loadResponse
	if err := c.get(ctx, code, false, &resp); err != nil {
		return nil, nil, err
	}
	if resp.Error != "" {
		return nil, nil, fmt.Errorf("proxy error: %s", resp.Error)
	}

	chores := make([]model.Chore, 0, len(resp.Data))
	for _, raw := range resp.Data {
		chore, diags, ok := decodeChore(raw)
		for _, d := range diags {
			c.logger.Warn("remote row defaulted", "code", code, "field", d)
		}
		if !ok {
			c.logger.Warn("remote row rejected", "code", code)
			continue
		}
		chores = append(chores, chore)
	}

	members := make([]model.FamilyMember, 0, len(resp.Members))
	for _, raw := range resp.Members {
		m, ok := decodeMember(raw)
		if !ok {
			c.logger.Warn("remote member row rejected", "code", code)
			continue
		}
		members = append(members, m)
	}

	return chores, members, nil
}

// TestConnection performs the lightweight liveness probe.
func (c *Client) TestConnection(ctx context.Context, code string) TestResult {
	var resp loadResponse
	if err := c.get(ctx, code, true, &resp); err != nil {
		return TestResult{OK: false, Message: err.Error()}
	}
	if resp.Error != "" {
		return TestResult{OK: false, Message: resp.Error}
	}

	count := len(resp.Data)
	if resp.Count != nil {
		count = *resp.Count
	}
	return TestResult{
		OK:      true,
		Message: fmt.Sprintf("Connected. Found %d chores.", count),
		Count:   count,
	}
}

// Save pushes the full chore and member collections under the sharing code.
// The proxy acknowledges with the number of chore rows it applied; a count
// that does not match the push is reported as an error rather than assumed
// fine.
func (c *Client) Save(ctx context.Context, code string, chores []model.Chore, members []model.FamilyMember) error {
	payload := savePayload{
		Action:      "sync",
		SharingCode: code,
		Chores:      chores,
		Members:     members,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode sync payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build sync request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sync request: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return fmt.Errorf("sync returned status %d", httpResp.StatusCode)
	}

	var resp saveResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return fmt.Errorf("decode sync response: %w", err)
	}
	if resp.Error != "" {
		return fmt.Errorf("proxy error: %s", resp.Error)
	}
	if !resp.Success {
		return fmt.Errorf("proxy did not acknowledge sync")
	}
	if resp.Count != len(chores) {
		return fmt.Errorf("proxy applied %d of %d chores", resp.Count, len(chores))
	}
	return nil
}

func (c *Client) get(ctx context.Context, code string, test bool, out *loadResponse) error {
	q := url.Values{}
	q.Set("sharingCode", code)
	if test {
		q.Set("test", "true")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("proxy request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("proxy returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode proxy response: %w", err)
	}
	return nil
}
