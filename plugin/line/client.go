// Package line implements the LINE Messaging API surface the bot
// needs: webhook payload types, signature validation, and the reply
// and push endpoints over raw HTTP.
package line

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

const defaultAPIEndpoint = "https://api.line.me"

// Config represents the LINE channel configuration.
type Config struct {
	ChannelAccessToken string
	ChannelSecret      string
	BotName            string
	IconURL            string

	// APIEndpoint overrides the Messaging API base URL. Used by tests.
	APIEndpoint string
}

// Client talks to the LINE Messaging API.
type Client struct {
	cfg        Config
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a LINE client. Credentials are validated here so a
// misconfigured channel fails at startup.
func NewClient(cfg Config) (*Client, error) {
	if cfg.ChannelAccessToken == "" {
		return nil, errors.New("line: channel access token is required")
	}
	if cfg.ChannelSecret == "" {
		return nil, errors.New("line: channel secret is required")
	}
	endpoint := cfg.APIEndpoint
	if endpoint == "" {
		endpoint = defaultAPIEndpoint
	}
	return &Client{
		cfg:      cfg,
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// ChannelSecret exposes the secret for webhook signature validation.
func (c *Client) ChannelSecret() string { return c.cfg.ChannelSecret }

// BotName returns the configured display name.
func (c *Client) BotName() string { return c.cfg.BotName }

// IconURL returns the configured card icon URL.
func (c *Client) IconURL() string { return c.cfg.IconURL }

// ReplyText sends a text message using a reply token.
func (c *Client) ReplyText(ctx context.Context, replyToken, text string) error {
	return c.post(ctx, "/v2/bot/message/reply", map[string]any{
		"replyToken": replyToken,
		"messages":   []any{NewTextMessage(text)},
	})
}

// ReplyCard sends a flex card using a reply token.
func (c *Client) ReplyCard(ctx context.Context, replyToken string, card FlexMessage) error {
	return c.post(ctx, "/v2/bot/message/reply", map[string]any{
		"replyToken": replyToken,
		"messages":   []any{card},
	})
}

// PushText sends a text message to a user, group, or room.
func (c *Client) PushText(ctx context.Context, to, text string) error {
	return c.post(ctx, "/v2/bot/message/push", map[string]any{
		"to":       to,
		"messages": []any{NewTextMessage(text)},
	})
}

// PushCard sends a flex card to a user, group, or room.
func (c *Client) PushCard(ctx context.Context, to string, card FlexMessage) error {
	return c.post(ctx, "/v2/bot/message/push", map[string]any{
		"to":       to,
		"messages": []any{card},
	})
}

func (c *Client) post(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "line: marshal payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "line: build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.ChannelAccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "line: send request")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		// LINE error bodies are small JSON blobs; cap the read anyway.
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		slog.Error("line: api request failed",
			"path", path,
			"status", resp.StatusCode,
			"body", string(detail),
		)
		return fmt.Errorf("line: %s returned status %d", path, resp.StatusCode)
	}
	return nil
}
