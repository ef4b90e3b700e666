// Package soundcloud provides a thin REST client for the SoundCloud API.
// The relay treats SoundCloud as an opaque upstream: requests go out with the
// caller's access token, responses come back as the typed shapes in types.go.
package soundcloud

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// AuthBaseURL is the user-facing authorization endpoint.
	AuthBaseURL = "https://secure.soundcloud.com/authorize"

	// TokenURL is the OAuth token endpoint.
	TokenURL = "https://secure.soundcloud.com/oauth/token"

	apiBaseURL = "https://api.soundcloud.com"
	userAgent  = "soundmood/1.0"
)

// APIError is a non-2xx response from SoundCloud. The raw upstream detail is
// kept for logging; handlers translate it into a stable user-facing message.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("soundcloud: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("soundcloud: status %d: %s", e.Status, e.Message)
}

// Client is a SoundCloud API client. It is safe for concurrent use; the
// access token is passed per call since the relay serves many users.
type Client struct {
	httpClient *http.Client
	baseURL    string

	// limiter throttles outbound API calls so concurrent searches stay
	// polite toward SoundCloud. This is not request-side rate limiting.
	limiter *rate.Limiter
}

// NewClient creates a SoundCloud API client.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    apiBaseURL,
		limiter:    rate.NewLimiter(rate.Limit(10), 20),
	}
}

// NewClientWithBaseURL creates a client pointed at an alternate API base.
// Used by tests to target an httptest server.
func NewClientWithBaseURL(base string) *Client {
	c := NewClient()
	c.baseURL = base
	return c
}

// get performs an authenticated GET and decodes the JSON response into result.
func (c *Client) get(ctx context.Context, token, endpoint string, query url.Values, result any) error {
	reqURL := c.baseURL + endpoint
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, token, result)
}

// postJSON performs an authenticated POST with a JSON body.
func (c *Client) postJSON(ctx context.Context, token, endpoint string, body, result any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, strings.NewReader(string(payload)))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, token, result)
}

// postForm performs an authenticated POST with a form-encoded body.
func (c *Client) postForm(ctx context.Context, token, endpoint string, form url.Values, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, token, result)
}

// do executes a prepared request with shared headers, rate limiting, and
// error translation.
func (c *Client) do(req *http.Request, token string, result any) error {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return fmt.Errorf("waiting for rate limiter: %w", err)
	}

	req.Header.Set("Authorization", "OAuth "+token)
	req.Header.Set("Accept", "application/json; charset=utf-8")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

// newAPIError reads the error envelope from a non-2xx response.
func newAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{Status: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return apiErr
	}

	var envelope apiErrorBody
	if err := json.Unmarshal(body, &envelope); err != nil {
		apiErr.Message = strings.TrimSpace(string(body))
		return apiErr
	}

	switch {
	case envelope.Code != "":
		apiErr.Code = envelope.Code
		apiErr.Message = envelope.Message
	case envelope.Error != "":
		apiErr.Code = envelope.Error
		apiErr.Message = envelope.ErrorDescription
	default:
		apiErr.Message = strings.TrimSpace(string(body))
	}
	return apiErr
}

// Me fetches the authenticated user's profile.
func (c *Client) Me(ctx context.Context, token string) (*User, error) {
	var user User
	if err := c.get(ctx, token, "/me", nil, &user); err != nil {
		return nil, fmt.Errorf("fetching profile: %w", err)
	}
	return &user, nil
}
