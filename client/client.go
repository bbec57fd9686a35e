// Package client provides a Go client for the TaskHub API with an in-memory
// task cache. Callers authenticate once, subscribe to cache updates, and the
// client keeps the cache consistent with the server after every mutation.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"taskhub/domain/apperrors"
	"taskhub/domain/dto"
)

type Config struct {
	BaseURL    string
	HTTPClient *http.Client
}

// session holds the authenticated state. It exists only between a successful
// Login/Restore and a Logout or an unrecoverable 401.
type session struct {
	accessToken  string
	refreshToken string
	user         dto.UserResponse
}

type TaskClient struct {
	baseURL string
	http    *http.Client

	mu      sync.Mutex
	session *session

	cache *taskCache
}

func New(cfg Config) *TaskClient {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &TaskClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    httpClient,
		cache:   newTaskCache(),
	}
}

// Register creates an account. It does not log in; call Login afterwards.
func (c *TaskClient) Register(ctx context.Context, email, username, password string) (dto.UserResponse, error) {
	req := dto.RegisterRequest{Email: email, Username: username, Password: password}
	var resp dto.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/register", req, &resp, false); err != nil {
		return dto.UserResponse{}, err
	}
	return resp.User, nil
}

// Login authenticates and populates the task cache with the user's tasks.
func (c *TaskClient) Login(ctx context.Context, email, password string) error {
	req := dto.LoginRequest{Email: email, Password: password}
	var resp dto.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", req, &resp, false); err != nil {
		return err
	}

	c.mu.Lock()
	c.session = &session{
		accessToken:  resp.Token,
		refreshToken: resp.RefreshToken,
		user:         resp.User,
	}
	c.mu.Unlock()

	return c.Refresh(ctx)
}

// Restore resumes a previous session from saved tokens. The access token is
// verified against the server before the cache is populated.
func (c *TaskClient) Restore(ctx context.Context, accessToken, refreshToken string) error {
	c.mu.Lock()
	c.session = &session{accessToken: accessToken, refreshToken: refreshToken}
	c.mu.Unlock()

	var user dto.UserResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/auth/me", nil, &user, true); err != nil {
		c.teardown()
		return err
	}

	c.mu.Lock()
	if c.session != nil {
		c.session.user = user
	}
	c.mu.Unlock()

	return c.Refresh(ctx)
}

// Logout revokes the refresh token and tears down the session and cache.
// The local session is dropped even when the server call fails.
func (c *TaskClient) Logout(ctx context.Context) error {
	c.mu.Lock()
	sess := c.session
	c.mu.Unlock()
	if sess == nil {
		return nil
	}

	req := dto.LogoutRequest{RefreshToken: sess.refreshToken}
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/logout", req, nil, true)
	c.teardown()
	return err
}

// User returns the authenticated user's profile.
func (c *TaskClient) User() (dto.UserResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return dto.UserResponse{}, false
	}
	return c.session.user, true
}

func (c *TaskClient) Authenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session != nil
}

func (c *TaskClient) teardown() {
	c.mu.Lock()
	c.session = nil
	c.mu.Unlock()
	c.cache.clear()
}

// envelope mirrors the server's response format.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *envelopeError  `json:"error"`
}

type envelopeError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// do performs one API call, injecting the bearer token when authed is set.
// A 401 response with a live refresh token triggers a single refresh and
// retry; a second 401 tears the session down.
func (c *TaskClient) do(ctx context.Context, method, path string, body, out any, authed bool) error {
	err := c.doOnce(ctx, method, path, body, out, authed)
	if err == nil || !authed || !isUnauthorized(err) {
		return err
	}

	if refreshErr := c.refreshSession(ctx); refreshErr != nil {
		c.teardown()
		return err
	}
	return c.doOnce(ctx, method, path, body, out, authed)
}

func (c *TaskClient) doOnce(ctx context.Context, method, path string, body, out any, authed bool) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: encode request: %v", apperrors.ErrInvalidInput, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	if authed {
		c.mu.Lock()
		sess := c.session
		c.mu.Unlock()
		if sess == nil {
			return fmt.Errorf("%w: no active session", apperrors.ErrUnauthorized)
		}
		req.Header.Set("Authorization", "Bearer "+sess.accessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%w: decode response: %v", apperrors.ErrInternal, err)
	}

	if !env.Success || resp.StatusCode >= 400 {
		return statusError(resp.StatusCode, env.Error)
	}

	if out != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("%w: decode response data: %v", apperrors.ErrInternal, err)
		}
	}
	return nil
}

// refreshSession exchanges the refresh token for a rotated token pair.
func (c *TaskClient) refreshSession(ctx context.Context) error {
	c.mu.Lock()
	sess := c.session
	c.mu.Unlock()
	if sess == nil || sess.refreshToken == "" {
		return fmt.Errorf("%w: no refresh token", apperrors.ErrUnauthorized)
	}

	req := dto.RefreshTokenRequest{RefreshToken: sess.refreshToken}
	var resp dto.RefreshTokenResponse
	if err := c.doOnce(ctx, http.MethodPost, "/api/v1/auth/refresh", req, &resp, false); err != nil {
		return err
	}

	c.mu.Lock()
	if c.session != nil {
		c.session.accessToken = resp.Token
		c.session.refreshToken = resp.RefreshToken
	}
	c.mu.Unlock()
	return nil
}

func statusError(status int, e *envelopeError) error {
	msg := "request failed"
	if e != nil && e.Message != "" {
		msg = e.Message
	}
	switch status {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", apperrors.ErrUnauthorized, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", apperrors.ErrNotFound, msg)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", apperrors.ErrInvalidInput, msg)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", apperrors.ErrConflict, msg)
	default:
		return fmt.Errorf("%w: %s (status %d)", apperrors.ErrInternal, msg, status)
	}
}

func isUnauthorized(err error) bool {
	return errors.Is(err, apperrors.ErrUnauthorized)
}
