package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const basePath = "/api/v1/user"

// cookieName matches the server's default session cookie.
const cookieName = "token"

// Client provides typed access to the ChillScreen API for interactive tools.
// Authenticated calls carry the session token as a cookie, the same way a
// browser would.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option customises client instantiation.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// New constructs a Client pointing at the provided API base URL.
func New(base string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(base)
	if trimmed == "" {
		trimmed = "http://localhost:5000"
	}
	if !strings.HasPrefix(trimmed, "http://") && !strings.HasPrefix(trimmed, "https://") {
		trimmed = "http://" + trimmed
	}
	if _, err := url.Parse(trimmed); err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}
	cli := &Client{
		baseURL:    strings.TrimRight(trimmed, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(cli)
	}
	return cli, nil
}

// APIError represents an error response from the API.
type APIError struct {
	Status  int
	Message string
}

func (e APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api request failed with status %d", e.Status)
	}
	return fmt.Sprintf("api request failed (%d): %s", e.Status, e.Message)
}

func (c *Client) do(ctx context.Context, method, path string, body any, token string, v any) (*http.Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	endpoint := c.baseURL + basePath + path
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if strings.TrimSpace(token) != "" {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: strings.TrimSpace(token)})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return resp, APIError{Status: resp.StatusCode, Message: extractMessage(resp.Body)}
	}

	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			return resp, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp, nil
}

func extractMessage(body io.Reader) string {
	var payload struct {
		Message string `json:"message"`
	}
	data, err := io.ReadAll(body)
	if err != nil || len(data) == 0 {
		return ""
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return strings.TrimSpace(string(data))
	}
	return strings.TrimSpace(payload.Message)
}

// RegisterInput carries the registration payload.
type RegisterInput struct {
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// Register creates an account. No session is issued; call Login afterwards.
func (c *Client) Register(ctx context.Context, in RegisterInput) error {
	_, err := c.do(ctx, http.MethodPost, "/register", in, "", nil)
	return err
}

// Login exchanges credentials for a session token, extracted from the
// cookie the server sets.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}
	resp, err := c.do(ctx, http.MethodPost, "/login", body, "", nil)
	if err != nil {
		return "", err
	}
	for _, cookie := range resp.Cookies() {
		if cookie.Name == cookieName && cookie.Value != "" {
			return cookie.Value, nil
		}
	}
	return "", fmt.Errorf("server response carried no session cookie")
}

// Profile reflects the public user projection.
type Profile struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Surname    string            `json:"surname"`
	Email      string            `json:"email"`
	Favourites []json.RawMessage `json:"favourites"`
	Watchlist  []json.RawMessage `json:"watchlist"`
}

// Me fetches the authenticated user's profile.
func (c *Client) Me(ctx context.Context, token string) (Profile, error) {
	var profile Profile
	if _, err := c.do(ctx, http.MethodGet, "/getuser", nil, token, &profile); err != nil {
		return Profile{}, err
	}
	return profile, nil
}

// ListResult carries the confirmation message and the updated list.
type ListResult struct {
	Message string
	Items   []json.RawMessage
}

// AddToWatchlist appends an item record (which must contain "id") to the
// watchlist and returns the updated list.
func (c *Client) AddToWatchlist(ctx context.Context, token string, item map[string]any) (ListResult, error) {
	return c.mutateList(ctx, token, "/addtowatch", "watchlist", item)
}

// AddToFavourites appends an item record to the favourites list.
func (c *Client) AddToFavourites(ctx context.Context, token string, item map[string]any) (ListResult, error) {
	return c.mutateList(ctx, token, "/addtofav", "favourites", item)
}

// RemoveFromWatchlist drops the item with the given id from the watchlist.
func (c *Client) RemoveFromWatchlist(ctx context.Context, token, id string) (ListResult, error) {
	return c.mutateList(ctx, token, "/rmwatch", "watchlist", map[string]any{"id": id})
}

// RemoveFromFavourites drops the item with the given id from the favourites.
func (c *Client) RemoveFromFavourites(ctx context.Context, token, id string) (ListResult, error) {
	return c.mutateList(ctx, token, "/rmfav", "favourites", map[string]any{"id": id})
}

// Watchlist returns the full watchlist.
func (c *Client) Watchlist(ctx context.Context, token string) ([]json.RawMessage, error) {
	var items []json.RawMessage
	if _, err := c.do(ctx, http.MethodGet, "/getwatch", nil, token, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Favourites returns the full favourites list.
func (c *Client) Favourites(ctx context.Context, token string) ([]json.RawMessage, error) {
	var items []json.RawMessage
	if _, err := c.do(ctx, http.MethodGet, "/getfav", nil, token, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) mutateList(ctx context.Context, token, path, listKey string, body map[string]any) (ListResult, error) {
	payload := map[string]json.RawMessage{}
	if _, err := c.do(ctx, http.MethodPut, path, body, token, &payload); err != nil {
		return ListResult{}, err
	}
	var result ListResult
	if raw, ok := payload["message"]; ok {
		_ = json.Unmarshal(raw, &result.Message)
	}
	if raw, ok := payload[listKey]; ok {
		if err := json.Unmarshal(raw, &result.Items); err != nil {
			return ListResult{}, fmt.Errorf("decode %s payload: %w", listKey, err)
		}
	}
	return result, nil
}
