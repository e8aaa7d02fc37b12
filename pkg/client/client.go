package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"artfolio/internal/models"
	"artfolio/internal/service"
)

// DefaultTimeout bounds every request; there are no retries.
const DefaultTimeout = 15 * time.Second

// Client talks to the Artfolio API on behalf of one session.
type Client struct {
	baseURL string
	http    *http.Client
	state   *AppState
}

// New creates a Client bound to the given state. The state's BaseURL
// wins over the argument when both are set.
func New(baseURL string, state *AppState) *Client {
	if state == nil {
		state = &AppState{}
	}
	if state.BaseURL != "" {
		baseURL = state.BaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		state:   state,
	}
}

// State exposes the session state for persistence by the caller.
func (c *Client) State() *AppState {
	return c.state
}

type authPayload struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Login authenticates and stores the session in the client state.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var payload authPayload
	err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &payload)
	if err != nil {
		return err
	}

	c.state.BaseURL = c.baseURL
	c.state.Token = payload.Token
	c.state.UserID = payload.User.ID
	c.state.Username = payload.User.Username
	return nil
}

// Signup registers a new account and stores the session.
func (c *Client) Signup(ctx context.Context, username, email, password string) error {
	var payload authPayload
	err := c.do(ctx, http.MethodPost, "/api/auth/signup", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, &payload)
	if err != nil {
		return err
	}

	c.state.BaseURL = c.baseURL
	c.state.Token = payload.Token
	c.state.UserID = payload.User.ID
	c.state.Username = payload.User.Username
	return nil
}

// Logout revokes the server-side session and resets the local state.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	c.state.Token = ""
	c.state.UserID = 0
	c.state.Username = ""
	return err
}

// Feed fetches the caller's feed page.
func (c *Client) Feed(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	path := fmt.Sprintf("/api/posts/?limit=%d&offset=%d", limit, offset)
	if err := c.do(ctx, http.MethodGet, path, nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Post fetches a single post with the viewer's membership flags.
func (c *Client) Post(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/posts/%d", id), nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// ToggleLike flips the caller's like on a post.
func (c *Client) ToggleLike(ctx context.Context, postID uint) (liked bool, likeCount int, err error) {
	var payload struct {
		Liked     bool `json:"liked"`
		LikeCount int  `json:"like_count"`
	}
	err = c.do(ctx, http.MethodPost, fmt.Sprintf("/api/posts/%d/like", postID), nil, &payload)
	return payload.Liked, payload.LikeCount, err
}

// ToggleBookmark flips the caller's bookmark on a post.
func (c *Client) ToggleBookmark(ctx context.Context, postID uint) (bool, error) {
	var payload struct {
		Bookmarked bool `json:"bookmarked"`
	}
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/posts/%d/bookmark", postID), nil, &payload)
	return payload.Bookmarked, err
}

// Comment appends a comment to a post.
func (c *Client) Comment(ctx context.Context, postID uint, content string) (*models.Comment, error) {
	var comment models.Comment
	path := fmt.Sprintf("/api/posts/%d/comments", postID)
	if err := c.do(ctx, http.MethodPost, path, map[string]string{"content": content}, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// StatsAnalysis fetches the caller's archive aggregates.
func (c *Client) StatsAnalysis(ctx context.Context) (*service.StatsAnalysis, error) {
	if !c.state.LoggedIn() {
		return nil, fmt.Errorf("not logged in")
	}
	var analysis service.StatsAnalysis
	path := fmt.Sprintf("/api/users/%d/stats/analysis", c.state.UserID)
	if err := c.do(ctx, http.MethodGet, path, nil, &analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}

// Notifications fetches the caller's notification list.
func (c *Client) Notifications(ctx context.Context, unreadOnly bool) (*service.NotificationList, error) {
	path := "/api/notifications/"
	if unreadOnly {
		path += "?unread=true"
	}
	var list service.NotificationList
	if err := c.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// APIError is a non-2xx response decoded from the error envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

func (c *Client) do(ctx context.Context, method, path string, body any, dest any) error {
	target := c.baseURL + path

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.state.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.state.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var envelope models.ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&envelope)
		message := envelope.Error
		if message == "" {
			message = resp.Status
		}
		return &APIError{Status: resp.StatusCode, Code: envelope.Code, Message: message}
	}

	if dest == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}
