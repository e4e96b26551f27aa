package roblox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is a Roblox web API client. Lookups that find nothing return
// (nil, nil); transport and server failures return an error so callers never
// mistake an unreachable API for a missing user.
type Client struct {
	usersURL   string
	thumbsURL  string
	httpClient *http.Client
}

// NewClient creates a Roblox API client.
func NewClient() *Client {
	return &Client{
		usersURL:  UsersAPIBase,
		thumbsURL: ThumbnailsAPIBase,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// User is a Roblox user profile.
type User struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// GetUserByUsername resolves a username to a user via the usernames endpoint.
func (c *Client) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	body, err := json.Marshal(map[string]any{
		"usernames":          []string{username},
		"excludeBannedUsers": true,
	})
	if err != nil {
		return nil, err
	}

	url := c.usersURL + "/usernames/users"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("roblox API error: %s - %s", resp.Status, string(b))
	}

	var result struct {
		Data []struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	if len(result.Data) == 0 {
		return nil, nil
	}
	return &User{ID: result.Data[0].ID, Name: result.Data[0].Name}, nil
}

// GetUser fetches a user profile, including the bio description, by ID.
func (c *Client) GetUser(ctx context.Context, userID int64) (*User, error) {
	url := fmt.Sprintf("%s/users/%d", c.usersURL, userID)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("roblox API error: %s - %s", resp.Status, string(b))
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetAvatarThumbnail fetches the avatar headshot URL for a user. If the
// render is still in progress it retries once after a short delay.
func (c *Client) GetAvatarThumbnail(ctx context.Context, userID int64) (string, error) {
	return c.getAvatarThumbnail(ctx, userID, true)
}

func (c *Client) getAvatarThumbnail(ctx context.Context, userID int64, retry bool) (string, error) {
	url := fmt.Sprintf("%s/users/avatar-headshot?userIds=%d&size=%s&format=Png&isCircular=false",
		c.thumbsURL, userID, ThumbnailSize)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("roblox API error: %s - %s", resp.Status, string(b))
	}

	var result struct {
		Data []struct {
			State    string `json:"state"`
			ImageURL string `json:"imageUrl"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}

	if len(result.Data) == 0 {
		return "", nil
	}
	if result.Data[0].State != "Completed" {
		if !retry {
			return "", nil
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(thumbnailRetryDelay):
		}
		return c.getAvatarThumbnail(ctx, userID, false)
	}

	return result.Data[0].ImageURL, nil
}
