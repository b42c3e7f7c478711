package roblox

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru"
)

// DefaultTimeout bounds each lookup request.
const DefaultTimeout = 10 * time.Second

// ErrUserNotFound is returned when no account has the requested name.
var ErrUserNotFound = errors.New("roblox user not found")

// User is a Roblox account as returned by the users API.
type User struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

// ProfileURL links to the user's profile page.
func (u *User) ProfileURL() string {
	return fmt.Sprintf("https://www.roblox.com/users/%d/profile", u.ID)
}

// HeadshotURL is a 420px PNG of the user's avatar headshot.
func (u *User) HeadshotURL() string {
	return fmt.Sprintf("https://www.roblox.com/headshot-thumbnail/image?userId=%d&width=420&height=420&format=png", u.ID)
}

// Client looks up Roblox users by name. Found users are cached.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      *lru.Cache
}

// NewClient creates a Client for the users API at baseURL caching up to cacheSize users.
func NewClient(baseURL string, cacheSize int) (*Client, error) {
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile cache: %w", err)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		cache: cache,
	}, nil
}

// UserByName resolves a username, including banned accounts.
func (c *Client) UserByName(ctx context.Context, username string) (*User, error) {
	key := strings.ToLower(strings.TrimSpace(username))
	if key == "" {
		return nil, ErrUserNotFound
	}
	if cached, ok := c.cache.Get(key); ok {
		return cached.(*User), nil
	}

	payload, err := json.Marshal(map[string]any{
		"usernames":          []string{key},
		"excludeBannedUsers": false,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/usernames/users", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create lookup request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to look up roblox user: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("roblox API error (%d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		Data []User `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode lookup response: %w", err)
	}
	if len(result.Data) == 0 {
		return nil, ErrUserNotFound
	}

	user := &result.Data[0]
	if user.DisplayName == "" {
		user.DisplayName = user.Name
	}
	c.cache.Add(key, user)
	return user, nil
}
