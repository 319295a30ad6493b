package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/juliebook/juliebook-be/internal/models"
)

var (
	// ErrSessionExpired is returned when the server rejects the stored token.
	// The stale token has already been cleared; the caller must sign in again
	// rather than retry.
	ErrSessionExpired = errors.New("session expired, sign in again")

	// ErrLoginInFlight is returned when SignIn is called while another SignIn
	// is still outstanding, to prevent duplicate token issuance.
	ErrLoginInFlight = errors.New("a sign-in request is already in flight")
)

// NetworkError wraps a transport-level failure, so callers can tell
// "could not reach the server" apart from "the server said no".
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("network error: %v", e.Err) }
func (e *NetworkError) Unwrap() error { return e.Err }

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Client talks to the juliebook API. The Session is injected at construction
// and tags every request with the bearer token it holds.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	session       *Session
	loginInFlight atomic.Bool
}

// New creates a Client for the API at baseURL using the given session.
func New(baseURL string, session *Session) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		session:    session,
	}
}

// Session returns the session object the client was constructed with.
func (c *Client) Session() *Session {
	return c.session
}

// RegisterRequest is the /signup payload. Profile fields are optional; the
// server fills in defaults.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
	About    string `json:"about,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type cardRequest struct {
	Name string `json:"name"`
	Link string `json:"link"`
}

type profileRequest struct {
	Name  string `json:"name"`
	About string `json:"about"`
}

type avatarRequest struct {
	Avatar string `json:"avatar"`
}

// SignUp registers a new account. It does not sign the user in.
func (c *Client) SignUp(ctx context.Context, req RegisterRequest) (models.User, error) {
	var user models.User
	err := c.do(ctx, http.MethodPost, "/signup", req, &user, false)
	return user, err
}

// SignIn authenticates and stores the issued token in the session. A second
// call while one is outstanding fails with ErrLoginInFlight instead of racing
// for a duplicate token.
func (c *Client) SignIn(ctx context.Context, email, password string) error {
	if !c.loginInFlight.CompareAndSwap(false, true) {
		return ErrLoginInFlight
	}
	defer c.loginInFlight.Store(false)

	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/signin", loginRequest{Email: email, Password: password}, &resp, false); err != nil {
		return err
	}
	return c.session.SetToken(resp.Token)
}

// Logout clears the session locally. No server call is made.
func (c *Client) Logout() error {
	return c.session.Clear()
}

// Me returns the profile of the authenticated user.
func (c *Client) Me(ctx context.Context) (models.User, error) {
	var user models.User
	err := c.do(ctx, http.MethodGet, "/users/me", nil, &user, true)
	return user, err
}

// GetUser returns another user's profile by id.
func (c *Client) GetUser(ctx context.Context, id string) (models.User, error) {
	var user models.User
	err := c.do(ctx, http.MethodGet, "/users/"+id, nil, &user, true)
	return user, err
}

// UpdateProfile updates the authenticated user's name and about fields.
func (c *Client) UpdateProfile(ctx context.Context, name, about string) (models.User, error) {
	var user models.User
	err := c.do(ctx, http.MethodPatch, "/users/me", profileRequest{Name: name, About: about}, &user, true)
	return user, err
}

// UpdateAvatar updates the authenticated user's avatar URL.
func (c *Client) UpdateAvatar(ctx context.Context, avatar string) (models.User, error) {
	var user models.User
	err := c.do(ctx, http.MethodPatch, "/users/me/avatar", avatarRequest{Avatar: avatar}, &user, true)
	return user, err
}

// Cards returns the full feed.
func (c *Client) Cards(ctx context.Context) ([]models.Card, error) {
	var cards []models.Card
	err := c.do(ctx, http.MethodGet, "/cards", nil, &cards, true)
	return cards, err
}

// CreateCard adds a card to the feed.
func (c *Client) CreateCard(ctx context.Context, name, link string) (models.Card, error) {
	var card models.Card
	err := c.do(ctx, http.MethodPost, "/cards", cardRequest{Name: name, Link: link}, &card, true)
	return card, err
}

// DeleteCard removes one of the user's own cards.
func (c *Client) DeleteCard(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/cards/"+id, nil, nil, true)
}

// LikeCard records a like and returns the updated card.
func (c *Client) LikeCard(ctx context.Context, id string) (models.Card, error) {
	var card models.Card
	err := c.do(ctx, http.MethodPut, "/cards/"+id+"/likes", nil, &card, true)
	return card, err
}

// UnlikeCard removes a like and returns the updated card.
func (c *Client) UnlikeCard(ctx context.Context, id string) (models.Card, error) {
	var card models.Card
	err := c.do(ctx, http.MethodDelete, "/cards/"+id+"/likes", nil, &card, true)
	return card, err
}

// do performs one request/response cycle: marshal the body, attach the bearer
// token on authed calls, send, and decode. Transport failures come back as
// *NetworkError. A 401 on an authed call clears the stale token and returns
// ErrSessionExpired; the request is never retried with it. A 401 on a public
// call (a failed sign-in) surfaces as a plain *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}, authed bool) error {
	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	if authed {
		if token := c.session.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if authed && resp.StatusCode == http.StatusUnauthorized {
		// The stored token is no longer accepted: drop it so no later call
		// retries with it, and tell the caller to re-authenticate.
		c.session.Clear()
		return ErrSessionExpired
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Message string `json:"message"`
		}
		json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: apiErr.Message}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
