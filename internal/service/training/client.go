// Package training fetches status-filtered training records from the HR
// system for an employee/company pair.
package training

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/VanujaSooriyaarachchi/Employee-info-chatbot/internal/model/training"
)

// Client looks up training records. Each status is one independent call;
// a failure on one status never affects the other.
type Client interface {
	FetchTrainings(ctx context.Context, status training.Status, employeeID, companyID string) ([]training.Record, error)
}

// HTTPClient is the HR system client. The lookup path is company- and
// employee-scoped; the upstream contract has shifted before, so the base
// URL stays configurable rather than baked in.
type HTTPClient struct {
	baseURL string
	token   string
	httpc   *http.Client
}

// NewHTTPClient builds an HR client; timeout falls back to 10s when unset.
func NewHTTPClient(baseURL, token string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpc:   &http.Client{Timeout: timeout},
	}
}

// FetchTrainings performs one status-filtered lookup.
func (c *HTTPClient) FetchTrainings(ctx context.Context, status training.Status, employeeID, companyID string) ([]training.Record, error) {
	endpoint := fmt.Sprintf("%s/%s/training/employee/%s?status=%s",
		c.baseURL,
		url.PathEscape(companyID),
		url.PathEscape(employeeID),
		url.QueryEscape(string(status)),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build training request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("training request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("hr system returned status %d", resp.StatusCode)
	}

	var records []training.Record
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode training response: %w", err)
	}
	return records, nil
}
