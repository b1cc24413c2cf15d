// Package robot implements the HTTP client for the remote control endpoint.
package robot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/frudas24/stuartlink/internal/geometry"
)

// Encoding selects the transport body format.
type Encoding string

const (
	// EncodingForm sends URL-encoded form bodies, the robot's native format.
	EncodingForm Encoding = "form"
	// EncodingJSON sends JSON bodies.
	EncodingJSON Encoding = "json"
)

// Action names with dedicated routes on the robot server.
const (
	ActionMakeCoffee = "make_coffee"
	ActionSayPhrase  = "say_phrase"
)

const maxResponseBytes = 4096

// Client dispatches commands to the robot's HTTP control server.
type Client struct {
	baseURL  string
	encoding Encoding
	http     *http.Client
	logger   *log.Logger
}

// NewClient creates a robot client. The base URL points at the robot's
// control server, e.g. http://robot.local:8000.
func NewClient(baseURL string, encoding Encoding, timeout time.Duration, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Default()
	}
	if encoding != EncodingJSON {
		encoding = EncodingForm
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		encoding: encoding,
		http:     &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

// Move posts a continuous movement command to /move.
func (c *Client) Move(ctx context.Context, cmd geometry.Polar) error {
	return c.post(ctx, "/move", map[string]string{
		"angle":    strconv.FormatFloat(cmd.Angle, 'f', -1, 64),
		"distance": strconv.FormatFloat(cmd.Distance, 'f', -1, 64),
	})
}

// Action posts a discrete one-shot command to its route. The optional value
// travels as the "value" field, matching the say-phrase contract.
func (c *Client) Action(ctx context.Context, name, value string) error {
	fields := map[string]string{}
	if value != "" {
		fields["value"] = value
	}
	return c.post(ctx, actionPath(name), fields)
}

// actionPath maps well-known action names onto the robot's routes.
func actionPath(name string) string {
	switch name {
	case ActionMakeCoffee:
		return "/make_coffee"
	case ActionSayPhrase:
		return "/say_phrase"
	default:
		return "/action/" + url.PathEscape(name)
	}
}

// post encodes fields per the configured encoding and fires the request.
// Success requires a 2xx status and a parseable JSON body; the body's schema
// is otherwise opaque and only logged.
func (c *Client) post(ctx context.Context, path string, fields map[string]string) error {
	var body io.Reader
	var contentType string
	switch c.encoding {
	case EncodingJSON:
		data, err := json.Marshal(fields)
		if err != nil {
			return fmt.Errorf("encode %s: %w", path, err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	default:
		values := url.Values{}
		for k, v := range fields {
			values.Set(k, v)
		}
		body = strings.NewReader(values.Encode())
		contentType = "application/x-www-form-urlencoded"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s: %w", path, err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("post %s: read response: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("post %s: status %d: %s", path, resp.StatusCode, excerpt(data))
	}

	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("post %s: malformed response body: %s", path, excerpt(data))
	}
	c.logger.Printf("robot: %s ok: %s", path, excerpt(data))
	return nil
}

// excerpt trims a response body for log and error messages.
func excerpt(data []byte) string {
	s := strings.TrimSpace(string(data))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	if s == "" {
		return "(empty)"
	}
	return s
}
