package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp-forge/lodestone/pkg/apiclient"
)

// Handshake runs the display-code pairing flow against the app. Begin asks
// the app to show a short code to the user; Complete exchanges that code for
// a bearer token. Both calls are unauthenticated by definition.
type Handshake struct {
	client *apiclient.Client
	app    string // identifier shown to the user in the app's pairing dialog
	logger hclog.Logger
}

// NewHandshake creates a pairing flow for the given client identity.
func NewHandshake(client *apiclient.Client, appIdentifier string, logger hclog.Logger) *Handshake {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Handshake{
		client: client,
		app:    appIdentifier,
		logger: logger.Named("handshake"),
	}
}

type challengeRequest struct {
	AppName string `json:"app_name"`
}

type challengeResponse struct {
	ChallengeID string `json:"challenge_id"`
}

type apiKeyRequest struct {
	ChallengeID string `json:"challenge_id"`
	Code        string `json:"code"`
}

type apiKeyResponse struct {
	APIKey string `json:"api_key"`
}

// Begin asks the app to create a pairing challenge. The app displays a short
// code to the user; the returned challenge ID ties Complete to this attempt.
func (h *Handshake) Begin(ctx context.Context) (string, error) {
	var resp challengeResponse
	err := h.client.PostUnauthenticated(ctx, "/v1/auth/challenges",
		challengeRequest{AppName: h.app}, &resp)
	if err != nil {
		return "", fmt.Errorf("creating pairing challenge: %w", err)
	}

	h.logger.Debug("pairing challenge created", "challenge_id", resp.ChallengeID)
	return resp.ChallengeID, nil
}

// Complete exchanges the user-entered code for a bearer token.
func (h *Handshake) Complete(ctx context.Context, challengeID, code string) (string, error) {
	var resp apiKeyResponse
	err := h.client.PostUnauthenticated(ctx, "/v1/auth/api_keys",
		apiKeyRequest{ChallengeID: challengeID, Code: code}, &resp)
	if err != nil {
		return "", fmt.Errorf("exchanging pairing code: %w", err)
	}

	if resp.APIKey == "" {
		return "", fmt.Errorf("app returned an empty api key")
	}
	return resp.APIKey, nil
}

// WaitForApp polls the app's health endpoint until it answers or the backoff
// gives up. Used before pairing so the user gets "start the app" instead of a
// raw connection error.
func WaitForApp(ctx context.Context, baseURL string, maxWait time.Duration, logger hclog.Logger) error {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 100 * time.Millisecond
	policy.MaxInterval = 2 * time.Second
	policy.MaxElapsedTime = maxWait

	healthURL := baseURL + "/v1/health"

	probe := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, healthURL, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			logger.Debug("app not reachable yet", "error", err)
			return err
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("health endpoint returned status %d", resp.StatusCode)
		}
		return nil
	}

	if err := backoff.Retry(probe, backoff.WithContext(policy, ctx)); err != nil {
		return fmt.Errorf("app not reachable at %s: %w", baseURL, err)
	}
	return nil
}
