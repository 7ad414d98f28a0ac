// Package assistant implements the Watson Assistant v1 message client.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/anoopsurendrananp/facebook-bot/internal/domain"
)

// Client talks to the dialog engine's workspace message endpoint.
type Client struct {
	baseURL    string
	username   string
	password   string
	workspace  string
	version    string
	maxRetries uint64
	httpClient *http.Client
}

// NewClient creates a dialog engine client.
func NewClient(baseURL, username, password, workspace, version string, timeout time.Duration, maxRetries int) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		username:   username,
		password:   password,
		workspace:  workspace,
		version:    version,
		maxRetries: uint64(maxRetries),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Message sends one user utterance plus dialog context and returns the
// engine's answer. Transient failures are retried with exponential
// backoff; 4xx responses are permanent. The returned context is kept
// raw so it round-trips byte-for-byte into the session store.
func (c *Client) Message(ctx context.Context, text string, dialogContext json.RawMessage) (*domain.DialogResponse, error) {
	body, err := json.Marshal(domain.DialogRequest{
		Input:   domain.DialogInput{Text: text},
		Context: dialogContext,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/workspaces/%s/message?version=%s",
		c.baseURL, url.PathEscape(c.workspace), url.QueryEscape(c.version))

	var result *domain.DialogResponse
	operation := func() error {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.SetBasicAuth(c.username, c.password)

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			return fmt.Errorf("failed to send request: %w", err)
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			err := fmt.Errorf("assistant API error [%d]: %s", resp.StatusCode, string(respBody))
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return backoff.Permanent(err)
			}
			return err
		}

		var dr domain.DialogResponse
		if err := json.Unmarshal(respBody, &dr); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to unmarshal response: %w", err))
		}
		result = &dr
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return result, nil
}
