// Package ai is the boundary to the external LLM-backed policy
// generation service. The call is a single non-cancelable round trip
// with no internal retry or timeout; cancellation belongs to the
// caller's context. Errors are returned intact here and collapsed to
// an empty result only at the orchestration layer, so the fail-open
// contract stays testable.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pgpolicy/pgpolicy/internal/ir"
)

// Request describes the table handed to the policy generation service.
type Request struct {
	TableName        string   `json:"tableName"`
	Schema           string   `json:"schema"`
	Columns          []string `json:"columns"`
	ProjectRef       string   `json:"projectRef,omitempty"`
	ConnectionString string   `json:"connectionString,omitempty"`
}

// Generator produces candidate policies for a table. Implementations
// are expected to be non-deterministic and unreliable; callers must
// treat an error as "no suggestions", never as a fatal condition.
type Generator interface {
	GeneratePolicies(ctx context.Context, req Request) ([]ir.GeneratedPolicy, error)
}

// Client calls the policy generation endpoint over HTTP.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a client for the given endpoint. A nil httpClient
// falls back to http.DefaultClient.
func NewClient(endpoint string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{endpoint: endpoint, httpClient: httpClient}
}

// GeneratePolicies posts the request and decodes the suggested
// policies.
func (c *Client) GeneratePolicies(ctx context.Context, req Request) ([]ir.GeneratedPolicy, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("policy generation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("policy generation returned status %d: %s", resp.StatusCode, payload)
	}

	var policies []ir.GeneratedPolicy
	if err := json.NewDecoder(resp.Body).Decode(&policies); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return policies, nil
}
