// Package api is the HTTP command client for the NovaMotion controller.
// Commands are request/response; everything the controller pushes back comes
// over the websocket transport instead.
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Red1Kir/NovaMotion-Core/internal/calibration"
)

const requestTimeout = 5 * time.Second

// Client issues commands against the controller's HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the given base URL, e.g. "http://127.0.0.1:5000".
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// BaseURL returns the configured controller base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// StartCalibration asks the controller to begin a calibration run. Any
// non-2xx status is a refusal.
func (c *Client) StartCalibration(ctx context.Context) error {
	if err := c.post(ctx, "/api/start_calibration", nil); err != nil {
		return fmt.Errorf("api: start calibration: %w", err)
	}
	return nil
}

// ImportCalibration forwards a result document to the controller.
func (c *Client) ImportCalibration(ctx context.Context, r calibration.Result) error {
	body, err := r.MarshalJSON()
	if err != nil {
		return fmt.Errorf("api: import calibration: %w", err)
	}
	if err := c.post(ctx, "/api/import_calibration", body); err != nil {
		return fmt.Errorf("api: import calibration: %w", err)
	}
	return nil
}

// post issues one POST and normalizes non-2xx statuses into errors carrying
// the status line and trimmed response body.
func (c *Client) post(ctx context.Context, path string, body []byte) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.New().String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		msg := strings.TrimSpace(string(detail))
		if msg == "" {
			return fmt.Errorf("%s", resp.Status)
		}
		return fmt.Errorf("%s: %s", resp.Status, msg)
	}
	return nil
}
