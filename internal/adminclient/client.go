package adminclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/festivo/festivo-api/internal/domain/auth"
	"github.com/festivo/festivo-api/internal/domain/gallery"
	"github.com/festivo/festivo-api/internal/pkg/response"
)

// Client is the admin-side API client the controller drives.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// NewClient creates an API client for the given base URL (e.g.
// http://localhost:8080/api/v1).
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// SetToken installs a previously obtained credential.
func (c *Client) SetToken(token string) { c.token = token }

// Token returns the current credential.
func (c *Client) Token() string { return c.token }

// Login authenticates and stores the returned token on the client.
func (c *Client) Login(ctx context.Context, username, password string) (*auth.LoginResponse, error) {
	var result auth.LoginResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", auth.LoginRequest{
		Username: username,
		Password: password,
	}, &result)
	if err != nil {
		return nil, err
	}
	c.token = result.Token
	return &result, nil
}

// Me returns the identity behind the stored token.
func (c *Client) Me(ctx context.Context) (*auth.UserResponse, error) {
	var result auth.UserResponse
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListItems fetches a listing page. Admin tokens may include inactive items.
func (c *Client) ListItems(ctx context.Context, page, limit int, includeInactive bool) (*gallery.ListResponse, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	if includeInactive {
		q.Set("includeInactive", "true")
	}

	var result gallery.ListResponse
	if err := c.do(ctx, http.MethodGet, "/gallery?"+q.Encode(), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetItem fetches one item, including inactive ones when authenticated.
func (c *Client) GetItem(ctx context.Context, id string) (*gallery.Item, error) {
	var result gallery.ItemResponse
	if err := c.do(ctx, http.MethodGet, "/gallery/"+id+"?includeInactive=true", nil, &result); err != nil {
		return nil, err
	}
	return result.Item, nil
}

// CreateItem creates a new gallery item.
func (c *Client) CreateItem(ctx context.Context, req *gallery.CreateItemRequest) (*gallery.Item, error) {
	var result gallery.ItemResponse
	if err := c.do(ctx, http.MethodPost, "/gallery", req, &result); err != nil {
		return nil, err
	}
	return result.Item, nil
}

// UpdateItem sends a partial patch.
func (c *Client) UpdateItem(ctx context.Context, id string, req *gallery.UpdateItemRequest) (*gallery.Item, error) {
	var result gallery.ItemResponse
	if err := c.do(ctx, http.MethodPut, "/gallery/"+id, req, &result); err != nil {
		return nil, err
	}
	return result.Item, nil
}

// DeleteItem removes an item, softly unless permanent is set.
func (c *Client) DeleteItem(ctx context.Context, id string, permanent bool) error {
	path := "/gallery/" + id
	if permanent {
		path += "?permanent=true"
	}
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// APIError is a non-2xx response surfaced to the operator. The server's
// message text is shown as-is; internals stay server-side.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(raw)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var envelope struct {
		Success bool                `json:"success"`
		Message string              `json:"message"`
		Data    json.RawMessage     `json:"data"`
		Error   *response.ErrorInfo `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !envelope.Success {
		apiErr := &APIError{Status: resp.StatusCode}
		if envelope.Error != nil {
			apiErr.Code = envelope.Error.Code
			apiErr.Message = envelope.Error.Message
		}
		return apiErr
	}

	if out != nil && len(envelope.Data) > 0 {
		return json.Unmarshal(envelope.Data, out)
	}
	return nil
}
