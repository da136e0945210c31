// Package synctrigger is a small client for triggering order synchronization
// runs on a remote ordersync deployment.
package synctrigger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type Client struct {
	Endpoint   string
	Token      string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Options are the per-run overrides forwarded to the trigger endpoint. Nil
// fields are omitted and the server's defaults apply.
type Options struct {
	Limit     *int    `json:"limit,omitempty"`
	Since     *string `json:"since,omitempty"`
	BatchSize *int    `json:"batchSize,omitempty"`
}

// Result mirrors the trigger endpoint's response envelope.
type Result struct {
	OK            bool     `json:"ok"`
	Fetched       int      `json:"fetched"`
	InsertSummary *Summary `json:"insertSummary,omitempty"`
	Message       string   `json:"message,omitempty"`
}

type Summary struct {
	TotalFetched  int           `json:"totalFetched"`
	TotalInserted int           `json:"totalInserted"`
	TotalErrors   int           `json:"totalErrors"`
	Batches       []BatchResult `json:"batches"`
}

type BatchResult struct {
	Index      int        `json:"index"`
	Requested  int        `json:"requested"`
	Successful int        `json:"successful"`
	Errors     []RowError `json:"errors,omitempty"`
}

type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// Trigger runs one synchronization and decodes the response envelope. A
// non-2xx status with a decodable envelope returns the envelope message as
// the error.
func (c Client) Trigger(ctx context.Context, opts Options) (Result, error) {
	endpoint := strings.TrimSpace(c.Endpoint)
	token := strings.TrimSpace(c.Token)
	if endpoint == "" {
		return Result{}, fmt.Errorf("endpoint is required")
	}

	body, err := json.Marshal(opts)
	if err != nil {
		return Result{}, fmt.Errorf("encode options: %w", err)
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		timeout := c.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	requestURL := strings.TrimRight(endpoint, "/") + "/api/v1/sync/orders"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("build request: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Result{}, fmt.Errorf("read response: %w", err)
	}

	var result Result
	if err := json.Unmarshal(payload, &result); err != nil {
		return Result{}, fmt.Errorf("trigger rejected: status=%s body=%s", resp.Status, strings.TrimSpace(string(payload)))
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		message := result.Message
		if message == "" {
			message = resp.Status
		}
		return result, fmt.Errorf("trigger rejected: %s", message)
	}
	return result, nil
}
