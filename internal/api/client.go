// Package api provides the NeonAlpha service client.
//
// The client carries no interceptor state: every request loads the current
// credentials from the credential store, and a 401 triggers exactly one
// explicit refresh-and-retry before the error is surfaced to the caller.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// DefaultBaseURL is the production API endpoint. Override with the
// ALPHA_TERM_API_URL environment variable.
const DefaultBaseURL = "https://api.neonalpha.me/api/v1"

// CredentialStore supplies and persists the token pair. Rotated tokens
// from a refresh are written back through it.
type CredentialStore interface {
	LoadTokens() (*Tokens, error)
	SaveTokens(*Tokens) error
}

// Client is an HTTP client for the NeonAlpha API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	creds      CredentialStore
	limiter    *rate.Limiter
	clientID   string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithClientID sets the per-install client ID sent on every request.
func WithClientID(id string) Option {
	return func(c *Client) { c.clientID = id }
}

// NewClient creates an API client. baseURL defaults to DefaultBaseURL,
// honoring the ALPHA_TERM_API_URL override.
func NewClient(baseURL string, creds CredentialStore, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
		if env := os.Getenv("ALPHA_TERM_API_URL"); env != "" {
			baseURL = env
		}
	}

	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		creds: creds,
		// Client-side politeness cap, well above the watch cadence.
		limiter: rate.NewLimiter(rate.Limit(2), 2),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Alerts fetches the most recent alerts, newest first.
func (c *Client) Alerts(ctx context.Context, limit int) ([]Alert, error) {
	var alerts []Alert
	path := "/alerts?limit=" + strconv.Itoa(limit)
	if err := c.do(ctx, http.MethodGet, path, nil, &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

// Me fetches the identity and subscription tier of the current session.
func (c *Client) Me(ctx context.Context) (*Me, error) {
	var me Me
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &me); err != nil {
		return nil, err
	}
	return &me, nil
}

// Monitors fetches the watch rules configured on the dashboard.
func (c *Client) Monitors(ctx context.Context) ([]Monitor, error) {
	var monitors []Monitor
	if err := c.do(ctx, http.MethodGet, "/monitors", nil, &monitors); err != nil {
		return nil, err
	}
	return monitors, nil
}

// Login exchanges an email and password for a token pair. The endpoint
// expects an OAuth2 password grant form.
func (c *Client) Login(ctx context.Context, email, password string) (*Tokens, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/auth/login", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("login request: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var tokens Tokens
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		return nil, fmt.Errorf("decode login response: %w", err)
	}
	return &tokens, nil
}

// Refresh exchanges a refresh token for a new token pair. The response may
// omit the rotated refresh token, in which case the old one stays valid.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*Tokens, error) {
	body, err := json.Marshal(map[string]string{"refresh_token": refreshToken})
	if err != nil {
		return nil, fmt.Errorf("marshal refresh request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/auth/refresh", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("refresh request: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var tokens Tokens
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		return nil, fmt.Errorf("decode refresh response: %w", err)
	}
	return &tokens, nil
}

// do performs an authenticated request. On 401 it attempts one refresh
// using the stored refresh token, persists the rotated pair, and retries
// the original request once.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	tokens, err := c.creds.LoadTokens()
	if err != nil {
		return fmt.Errorf("load tokens: %w", err)
	}
	if tokens == nil || tokens.AccessToken == "" {
		return ErrNotLoggedIn
	}

	resp, err := c.send(ctx, method, path, body, tokens.AccessToken)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized && tokens.RefreshToken != "" {
		resp.Body.Close()

		refreshed, refreshErr := c.Refresh(ctx, tokens.RefreshToken)
		if refreshErr != nil {
			return ErrUnauthorized
		}
		if refreshed.RefreshToken == "" {
			refreshed.RefreshToken = tokens.RefreshToken
		}
		if err := c.creds.SaveTokens(refreshed); err != nil {
			return fmt.Errorf("save refreshed tokens: %w", err)
		}

		resp, err = c.send(ctx, method, path, body, refreshed.AccessToken)
		if err != nil {
			return err
		}
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// send issues a single request with the given bearer token.
func (c *Client) send(ctx context.Context, method, path string, body any, accessToken string) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.clientID != "" {
		req.Header.Set("X-Client-ID", c.clientID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

// checkStatus maps non-2xx responses to typed errors.
func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
}
