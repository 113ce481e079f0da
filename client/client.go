package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"studio/types"
)

// Client is a thin HTTP client for the studio API, used by the
// command line tool and by scripts.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a client for the API at baseURL.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type taggedResult struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	ID      string          `json:"id"`
	Token   string          `json:"token"`
	URL     string          `json:"url"`
	Result  json.RawMessage `json:"result"`
}

// Login authenticates and keeps the bearer token for later calls.
func (c *Client) Login(ctx context.Context, email, password string) error {
	res, err := c.post(ctx, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return err
	}
	c.token = res.Token
	return nil
}

// Blogs lists all articles.
func (c *Client) Blogs(ctx context.Context) ([]types.Article, error) {
	var out []types.Article
	return out, c.getJSON(ctx, "/api/blogs", &out)
}

// Projects lists all projects.
func (c *Client) Projects(ctx context.Context) ([]types.Project, error) {
	var out []types.Project
	return out, c.getJSON(ctx, "/api/projects", &out)
}

// Categories lists all categories.
func (c *Client) Categories(ctx context.Context) ([]types.Category, error) {
	var out []types.Category
	return out, c.getJSON(ctx, "/api/categories", &out)
}

// Profile fetches the profile singleton; nil when none is saved yet.
func (c *Client) Profile(ctx context.Context) (*types.Profile, error) {
	var out *types.Profile
	return out, c.getJSON(ctx, "/api/profile", &out)
}

// CreateBlog files a new article and returns its id.
func (c *Client) CreateBlog(ctx context.Context, article types.Article) (string, error) {
	res, err := c.post(ctx, "/api/blogs", article)
	if err != nil {
		return "", err
	}
	return res.ID, nil
}

// ImportFeed asks the server to import up to count items from an RSS
// feed and returns the raw import summary.
func (c *Client) ImportFeed(ctx context.Context, feedURL string, count int) (json.RawMessage, error) {
	res, err := c.post(ctx, "/api/import/feed", map[string]any{
		"url":   feedURL,
		"count": count,
	})
	if err != nil {
		return nil, err
	}
	return res.Result, nil
}

func (c *Client) post(ctx context.Context, path string, body any) (*taggedResult, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var res taggedResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	if !res.Success {
		return nil, fmt.Errorf("%s failed: %s", path, res.Error)
	}
	return &res, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s returned %d: %s", path, resp.StatusCode, body)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
