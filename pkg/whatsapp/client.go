// Package whatsapp sends text messages through the operator's messaging webhook.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrNoWebhook is returned when no webhook URL is configured.
var ErrNoWebhook = errors.New("whatsapp webhook not configured")

// Message is a single outbound text.
type Message struct {
	Phone string
	Text  string
}

// Target is where and how to deliver messages. Values come from the settings store so
// operators can change them without a restart.
type Target struct {
	URL   string
	Token string
}

// Client posts messages to the webhook.
type Client struct {
	http *http.Client
}

// NewClient builds a client with the given timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{http: &http.Client{Timeout: timeout}}
}

// Send delivers msg. The body carries the phone both flat and in the nested contact shape
// different providers expect.
func (c *Client) Send(ctx context.Context, target Target, msg Message) error {
	if strings.TrimSpace(target.URL) == "" {
		return ErrNoWebhook
	}
	body, err := json.Marshal(map[string]interface{}{
		"phone":                 msg.Phone,
		"data.contact.Phone[0]": msg.Phone,
		"message":               msg.Text,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if target.Token != "" {
		req.Header.Set("Authorization", "Bearer "+target.Token)
		req.Header.Set("apikey", target.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("webhook http %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	return nil
}
