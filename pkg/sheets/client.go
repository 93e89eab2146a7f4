// Package sheets talks to the spreadsheet that is the system of record: the Apps Script web
// endpoint for live syncs and write-backs, and exported .xlsx workbooks for offline imports.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/noah-isme/sfk-console-api/pkg/normalize"
)

// Sections the endpoint may return, in the order they are applied.
var Sections = []string{"usuarios", "turmas", "base", "frequencia", "experimental"}

// Payload maps a section name to its rows. A section absent from the response is absent
// from the map, which is different from a present but empty section.
type Payload map[string][]normalize.Row

// Has reports whether the section was present in the response.
func (p Payload) Has(section string) bool {
	_, ok := p[section]
	return ok
}

// Client is a thin HTTP client for the Apps Script endpoint.
type Client struct {
	http *http.Client
	now  func() time.Time
}

// NewClient builds a client with the given request timeout. Zero means no timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{http: &http.Client{Timeout: timeout}, now: time.Now}
}

// Fetch downloads every section. The `t` query parameter defeats intermediary caches.
func (c *Client) Fetch(ctx context.Context, endpoint string) (Payload, error) {
	target, err := withCacheBuster(endpoint, c.now())
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, snippet(body))
	}

	return decodePayload(body)
}

// Post sends one write-back action. The returned status is informational: the endpoint
// answers 200 even when the script itself fails, so callers only treat transport errors as
// failures.
func (c *Client) Post(ctx context.Context, endpoint, action string, data interface{}) (int, error) {
	body, err := json.Marshal(map[string]interface{}{"action": action, "data": data})
	if err != nil {
		return 0, fmt.Errorf("marshal %s: %w", action, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	// Apps Script reads the raw body; text/plain avoids a CORS preflight on the script side.
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

func withCacheBuster(endpoint string, now time.Time) (string, error) {
	u, err := url.Parse(strings.TrimSpace(endpoint))
	if err != nil {
		return "", fmt.Errorf("invalid endpoint: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid endpoint %q", endpoint)
	}
	q := u.Query()
	q.Set("t", strconv.FormatInt(now.UnixMilli(), 10))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func decodePayload(body []byte) (Payload, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	if msg, ok := raw["error"]; ok {
		var text string
		if json.Unmarshal(msg, &text) == nil && text != "" {
			return nil, fmt.Errorf("endpoint error: %s", text)
		}
	}

	payload := make(Payload, len(Sections))
	for _, section := range Sections {
		chunk, ok := raw[section]
		if !ok || string(chunk) == "null" {
			continue
		}
		var rows []normalize.Row
		if err := json.Unmarshal(chunk, &rows); err != nil {
			return nil, fmt.Errorf("decode section %s: %w", section, err)
		}
		if rows == nil {
			rows = []normalize.Row{}
		}
		payload[section] = rows
	}
	return payload, nil
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}
