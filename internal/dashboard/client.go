package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/spec-kit/lead-dashboard/internal/api/dto"
)

// LeadPage is one page of the lead list.
type LeadPage struct {
	Leads      []dto.LeadResponse
	Pagination dto.Pagination
}

// APIError is a non-2xx response from the lead API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("lead api: %d %s", e.StatusCode, e.Message)
}

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// Client calls the lead API and keeps the session token.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// NewClient returns a client for the API at baseURL.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, username, password string) (*dto.UserResponse, error) {
	var resp struct {
		Token string           `json:"token"`
		User  dto.UserResponse `json:"user"`
	}
	body := dto.LoginRequest{Username: username, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, body, &resp); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.token = resp.Token
	c.mu.Unlock()
	return &resp.User, nil
}

// Logout drops the session token.
func (c *Client) Logout() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}

// Authenticated reports whether a session token is held.
func (c *Client) Authenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token != ""
}

// ListLeads fetches the page described by f.
func (c *Client) ListLeads(ctx context.Context, f Filters) (*LeadPage, error) {
	var resp struct {
		Data       []dto.LeadResponse `json:"data"`
		Pagination dto.Pagination     `json:"pagination"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/leads", f.Values(), nil, &resp); err != nil {
		return nil, err
	}
	return &LeadPage{Leads: resp.Data, Pagination: resp.Pagination}, nil
}

// GetLead fetches one lead.
func (c *Client) GetLead(ctx context.Context, id string) (*dto.LeadResponse, error) {
	var resp struct {
		Data dto.LeadResponse `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/leads/"+url.PathEscape(id), nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// Summary fetches analytics, optionally for one day of the current month.
func (c *Client) Summary(ctx context.Context, day string) (*dto.AnalyticsSummary, error) {
	params := url.Values{}
	if day != "" {
		params.Set("day", day)
	}
	var resp struct {
		Data dto.AnalyticsSummary `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/analytics/summary", params, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body, out any) error {
	target := c.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.mu.RLock()
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	c.mu.RUnlock()

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		var failure struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		_ = json.NewDecoder(res.Body).Decode(&failure)
		if failure.Message == "" {
			failure.Message = http.StatusText(res.StatusCode)
		}
		return &APIError{StatusCode: res.StatusCode, Code: failure.Error, Message: failure.Message}
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
