package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/moviesir/moviesir/internal/models"
	"github.com/moviesir/moviesir/internal/shared"
)

// SessionSource is the slice of the session store the client depends on.
type SessionSource interface {
	Current() *models.Session
	Save(models.Session) error
	SetAccessToken(string) error
	Clear() error
}

// StatusError is a non-2xx backend response.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("status %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("status %d", e.Code)
}

// IsStatus reports whether err is a [StatusError] with the given code.
func IsStatus(err error, code int) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code == code
	}
	return false
}

type refreshResult struct {
	token string
	err   error
}

// Client performs authenticated HTTP requests against the MovieSir backend.
// It attaches the stored bearer token to every request and transparently
// performs a single-flight refresh-and-replay on 401 responses.
type Client struct {
	baseURL    string
	httpClient *http.Client
	sessions   SessionSource
	logger     *log.Logger

	// refresh interceptor state: at most one refresh in flight, with a FIFO
	// queue of callers waiting on its outcome.
	mu         sync.Mutex
	refreshing bool
	waiters    []chan refreshResult
}

// NewClient creates a Client for the given backend base URL.
func NewClient(baseURL string, httpClient *http.Client, sessions SessionSource, logger *log.Logger) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	if sessions == nil {
		sessions = &ephemeralSessions{}
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		sessions:   sessions,
		logger:     logger,
	}
}

// Sessions exposes the client's session source to the API modules.
func (c *Client) Sessions() SessionSource { return c.sessions }

// Get performs an authenticated GET request, decoding the JSON response into result.
func (c *Client) Get(ctx context.Context, path string, result any) error {
	return c.Do(ctx, http.MethodGet, path, nil, result)
}

// Post performs an authenticated POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, result any) error {
	return c.Do(ctx, http.MethodPost, path, body, result)
}

// Patch performs an authenticated PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, result any) error {
	return c.Do(ctx, http.MethodPatch, path, body, result)
}

// Delete performs an authenticated DELETE request.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

// Do performs an authenticated request. On a 401 to a request that carried
// a bearer token it refreshes the access token (joining any refresh already
// in flight) and retries once; a second 401, or a 401 on an unauthenticated
// request, passes through as a [StatusError]. All non-401 failures pass
// through unmodified.
func (c *Client) Do(ctx context.Context, method, path string, body, result any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	token := c.sessions.Current().AccessToken()
	status, data, err := c.roundTrip(ctx, method, path, payload, token)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	// The interceptor recovers authenticated requests. A 401 on a request
	// that carried no token (login, signup) is a plain backend rejection.
	if status == http.StatusUnauthorized && token != "" {
		token, refreshErr := c.refreshAccessToken(ctx)
		if refreshErr != nil {
			return refreshErr
		}

		c.logger.Debug("retrying request with refreshed token", "method", method, "path", path)
		status, data, err = c.roundTrip(ctx, method, path, payload, token)
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
		}
	}

	if status < 200 || status >= 300 {
		return &StatusError{Code: status, Message: messageFrom(data)}
	}

	if result != nil && len(data) > 0 {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// roundTrip sends one HTTP request and reads the full response body.
func (c *Client) roundTrip(ctx context.Context, method, path string, payload []byte, token string) (int, []byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response: %w", err)
	}

	return resp.StatusCode, data, nil
}

// refreshAccessToken resolves a 401 by refreshing the access token. Only one
// refresh runs at a time: late arrivals park in the wait queue and receive
// the same outcome as the caller that initiated the refresh.
func (c *Client) refreshAccessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.refreshing {
		ch := make(chan refreshResult, 1)
		c.waiters = append(c.waiters, ch)
		c.mu.Unlock()

		select {
		case res := <-ch:
			return res.token, res.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	c.refreshing = true
	c.mu.Unlock()

	token, err := c.refresh(ctx)

	c.mu.Lock()
	c.refreshing = false
	waiters := c.waiters
	c.waiters = nil
	c.mu.Unlock()

	for _, ch := range waiters {
		ch <- refreshResult{token: token, err: err}
	}

	return token, err
}

// refresh exchanges the stored refresh token for a new access token. Any
// failure is unrecoverable for the session: the store is cleared and the
// error wraps [shared.ErrSessionExpired].
func (c *Client) refresh(ctx context.Context) (string, error) {
	session := c.sessions.Current()
	if session.RefreshToken() == "" {
		c.sessions.Clear()
		return "", fmt.Errorf("%w: %w", shared.ErrSessionExpired, shared.ErrNoRefreshToken)
	}

	payload, err := json.Marshal(map[string]string{"refreshToken": session.RefreshToken()})
	if err != nil {
		return "", fmt.Errorf("failed to encode refresh request: %w", err)
	}

	// The refresh call itself is unauthenticated and never intercepted.
	status, data, err := c.roundTrip(ctx, http.MethodPost, "/auth/refresh", payload, "")
	if err != nil {
		c.sessions.Clear()
		return "", fmt.Errorf("%w: %w: %v", shared.ErrSessionExpired, shared.ErrRefreshFailed, err)
	}
	if status < 200 || status >= 300 {
		c.sessions.Clear()
		return "", fmt.Errorf("%w: %w: status %d", shared.ErrSessionExpired, shared.ErrRefreshFailed, status)
	}

	var body struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(data, &body); err != nil || body.AccessToken == "" {
		c.sessions.Clear()
		return "", fmt.Errorf("%w: %w: malformed refresh response", shared.ErrSessionExpired, shared.ErrRefreshFailed)
	}

	if err := c.sessions.SetAccessToken(body.AccessToken); err != nil {
		return "", fmt.Errorf("failed to persist refreshed token: %w", err)
	}

	c.logger.Debug("access token refreshed")
	return body.AccessToken, nil
}

// messageFrom extracts the backend's error message from a response body.
func messageFrom(data []byte) string {
	var body struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Detail
}

// ephemeralSessions keeps the session in memory for the life of the process.
// Used when no persistent store is supplied.
type ephemeralSessions struct {
	mu      sync.Mutex
	session *models.Session
}

func (s *ephemeralSessions) Current() *models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil
	}
	clone := *s.session
	return &clone
}

func (s *ephemeralSessions) Save(session models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = &session
	return nil
}

func (s *ephemeralSessions) SetAccessToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		s.session = &models.Session{}
	}
	s.session.Token.AccessToken = token
	return nil
}

func (s *ephemeralSessions) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	return nil
}
