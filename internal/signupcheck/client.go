package signupcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/okian/activities/internal/domain/model"
)

// Listing is the decoded GET /activities body.
type Listing map[string]model.ActivityView

// Result is a decoded mutation response.
type Result struct {
	Status  int
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

// Client talks to the activities API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client with a per-request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// List fetches all activities.
func (c *Client) List(ctx context.Context) (Listing, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/activities", http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: list activities returned %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	var out Listing
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}
	return out, nil
}

// Signup posts a sign-up. Non-2xx statuses are returned in Result, not as errors.
func (c *Client) Signup(ctx context.Context, activity, email string) (Result, error) {
	return c.mutate(ctx, http.MethodPost, activity, "signup", email)
}

// Unregister deletes a registration.
func (c *Client) Unregister(ctx context.Context, activity, email string) (Result, error) {
	return c.mutate(ctx, http.MethodDelete, activity, "unregister", email)
}

func (c *Client) mutate(ctx context.Context, method, activity, action, email string) (Result, error) {
	target := fmt.Sprintf("%s/activities/%s/%s?email=%s",
		c.baseURL, url.PathEscape(activity), action, url.QueryEscape(email))
	req, err := http.NewRequestWithContext(ctx, method, target, http.NoBody)
	if err != nil {
		return Result{}, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("%s %s: %w", action, activity, err)
	}
	defer resp.Body.Close()

	res := Result{Status: resp.StatusCode}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return res, fmt.Errorf("decode %s response: %w", action, err)
	}
	return res, nil
}
