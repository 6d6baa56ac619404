// Package client is a small HTTP client for the microblog surface, used by
// the CLI subcommands and the seeder.
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			// The server answers creates with a 303; surface it instead of
			// silently following.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// RegisterInput carries the registration form fields. UserID is required;
// the rest are optional profile data.
type RegisterInput struct {
	UserID      string
	Password    string
	Name        string
	Email       string
	Description string
	AvatarURL   string
	WebsiteURL  string
}

func (c *Client) Register(ctx context.Context, in RegisterInput) error {
	form := url.Values{}
	form.Set("user", in.UserID)
	form.Set("password", in.Password)
	form.Set("name", in.Name)
	form.Set("email", in.Email)
	form.Set("description", in.Description)
	form.Set("avatar", in.AvatarURL)
	form.Set("website", in.WebsiteURL)
	return c.postForm(ctx, "/users/", form, "", "")
}

func (c *Client) PostMessage(ctx context.Context, userID, password, text string) error {
	form := url.Values{}
	form.Set("message", text)
	return c.postForm(ctx, "/messages/", form, userID, password)
}

// Home fetches the front page. UserMessages fetches one user's message
// list. Both return the rendered body for display.
func (c *Client) Home(ctx context.Context) (string, error) {
	return c.get(ctx, "/")
}

func (c *Client) UserMessages(ctx context.Context, userID string) (string, error) {
	return c.get(ctx, "/user-messages/"+url.PathEscape(userID))
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values, userID, password string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if userID != "" {
		req.SetBasicAuth(userID, password)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%s: unexpected status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s: unexpected status %d", path, resp.StatusCode)
	}
	return string(body), nil
}
