// Package apiclient implements the authenticated HTTP transport for the
// Lodestone app's local REST API.
//
// Every response is classified into exactly one of four outcomes: success
// (decoded body), AuthError (missing or rejected credential), APIError
// (app-reported failure), or InvalidResponseError (undecodable 2xx body).
// Transport-level failures such as timeouts propagate as plain errors and are
// never folded into one of the four outcomes.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
)

// APIVersion is sent with every request (authenticated or not) so the app can
// reject clients speaking an incompatible protocol revision.
const APIVersion = "2025-04-22"

const versionHeader = "Lodestone-Version"

// TokenSource supplies the bearer credential for authenticated calls.
// ok is false when no credential is saved.
type TokenSource interface {
	Load() (token string, ok bool, err error)
}

// Config holds configuration for the API client.
type Config struct {
	BaseURL string        // base URL of the app's API (default: http://localhost:31009)
	Timeout time.Duration // per-request timeout (default: 30s)
	Tokens  TokenSource   // credential source; required for authenticated calls
	Logger  hclog.Logger  // logger (optional)
}

// Client is an HTTP client for the app's local REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	logger     hclog.Logger
}

// New creates a new API client.
func New(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:31009"
	}

	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	if config.Logger == nil {
		config.Logger = hclog.NewNullLogger()
	}

	return &Client{
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		tokens: config.Tokens,
		logger: config.Logger.Named("apiclient"),
	}
}

// BaseURL returns the base URL the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get issues an authenticated GET and decodes the response body into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out, true)
}

// Post issues an authenticated POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out, true)
}

// Patch issues an authenticated PATCH with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, body, out, true)
}

// Delete issues an authenticated DELETE.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, out, true)
}

// PostUnauthenticated issues a POST without a bearer credential. It exists
// only for the credential-issuance handshake; response classification is the
// same as for authenticated calls.
func (c *Client) PostUnauthenticated(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out, false)
}

// errorEnvelope is the app's structured error body.
type errorEnvelope struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, authed bool) error {
	var token string
	if authed {
		if c.tokens == nil {
			return &AuthError{Message: "no credential source configured"}
		}
		t, ok, err := c.tokens.Load()
		if err != nil {
			return fmt.Errorf("loading credential: %w", err)
		}
		// Fail locally before touching the network.
		if !ok {
			return &AuthError{Message: "no credential saved; run the pairing flow first"}
		}
		token = t
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set(versionHeader, APIVersion)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.logger.Debug("sending request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Transport failure (dial error, timeout, cancellation). Propagated
		// as-is so callers can distinguish it from the classified outcomes.
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	c.logger.Debug("received response", "method", method, "path", path, "status", resp.StatusCode)

	return c.classify(resp.StatusCode, respBody, out)
}

// classify maps an HTTP status and body to one of the four outcomes.
func (c *Client) classify(status int, body []byte, out any) error {
	switch {
	case status >= 200 && status < 300:
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(body, out); err != nil {
			return &InvalidResponseError{
				Target: typeName(out),
				Body:   string(body),
				Err:    err,
			}
		}
		return nil

	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		// This range always means "credential rejected", regardless of what
		// the body says.
		return &AuthError{Message: fmt.Sprintf("credential rejected by app (status %d)", status)}

	default:
		var envelope errorEnvelope
		if err := json.Unmarshal(body, &envelope); err == nil && envelope.Message != "" {
			return &APIError{Status: status, Message: envelope.Message}
		}
		return &APIError{
			Status:  status,
			Message: fmt.Sprintf("unexpected status %d: %s", status, string(body)),
		}
	}
}

// typeName names the decode target for InvalidResponseError diagnostics.
func typeName(out any) string {
	t := reflect.TypeOf(out)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
