// Package messenger implements the platform Send API client.
package messenger

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

// Client delivers outbound payloads through the Graph API.
type Client struct {
	baseURL     string
	accessToken string
	maxRetries  uint64
	httpClient  *http.Client
}

// NewClient creates a Send API client. baseURL is the Graph API root,
// e.g. https://graph.facebook.com/v2.6.
func NewClient(baseURL, accessToken string, timeout time.Duration, maxRetries int) *Client {
	return &Client{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		accessToken: accessToken,
		maxRetries:  uint64(maxRetries),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Send posts one outbound message and returns the platform receipt.
func (c *Client) Send(ctx context.Context, msg *domain.OutboundMessage) (*domain.SendReceipt, error) {
	var receipt domain.SendReceipt
	if err := c.post(ctx, "/me/messages", msg, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

// SendText posts a plain text message.
func (c *Client) SendText(ctx context.Context, recipientID, text string) (*domain.SendReceipt, error) {
	return c.Send(ctx, domain.NewTextMessage(recipientID, text))
}

// SendAction posts a sender action (mark_seen, typing_on, typing_off).
func (c *Client) SendAction(ctx context.Context, recipientID, action string) error {
	_, err := c.Send(ctx, domain.NewSenderAction(recipientID, action))
	return err
}

// PersistentMenu is one locale entry of the Messenger profile menu.
type PersistentMenu struct {
	Locale                string          `json:"locale"`
	ComposerInputDisabled bool            `json:"composer_input_disabled"`
	CallToActions         []domain.Button `json:"call_to_actions,omitempty"`
}

// SetPersistentMenu installs the page's persistent menu through the
// messenger profile endpoint.
func (c *Client) SetPersistentMenu(ctx context.Context, menus []PersistentMenu) error {
	payload := map[string][]PersistentMenu{"persistent_menu": menus}
	return c.post(ctx, "/me/messenger_profile", payload, nil)
}

// post marshals payload, appends the access token, and retries transient
// failures with exponential backoff. 4xx responses are permanent.
func (c *Client) post(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	endpoint := c.baseURL + path + "?access_token=" + url.QueryEscape(c.accessToken)

	operation := func() error {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		httpReq.Header.Set("Content-Type", "application/json")

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
			err := fmt.Errorf("send API error [%d]: %s", resp.StatusCode, string(respBody))
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return backoff.Permanent(err)
			}
			return err
		}

		if out != nil {
			if err := json.Unmarshal(respBody, out); err != nil {
				return backoff.Permanent(fmt.Errorf("failed to unmarshal response: %w", err))
			}
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries), ctx)
	return backoff.Retry(operation, policy)
}
