package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/juliebook/juliebook-be/internal/auth"
	"github.com/juliebook/juliebook-be/internal/database"
	"github.com/juliebook/juliebook-be/internal/services"
	"github.com/juliebook/juliebook-be/internal/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { db.Close() })

	hub := websocket.NewHub()
	go hub.Run()

	tokens := auth.NewTokenIssuer([]byte("test-secret"), time.Hour)
	router := NewRouter(
		tokens,
		hub,
		services.NewUserService(db),
		services.NewCardService(db),
		services.NewEventService(db),
		"http://localhost:3001",
	)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

// The full credential lifecycle: register, sign in, access a protected route
// with a valid token, then without one, then with garbage, then with a bad
// password.
func TestAuthFlow(t *testing.T) {
	srv := newTestServer(t)

	// Register
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/signup", "", map[string]string{
		"email":    "a@x.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, body["id"])
	assert.Equal(t, "a@x.com", body["email"])
	_, leaked := body["passwordHash"]
	assert.False(t, leaked, "response must not carry any hash field")
	_, leaked = body["password_hash"]
	assert.False(t, leaked)

	// Login
	resp, body = doJSON(t, http.MethodPost, srv.URL+"/signin", "", map[string]string{
		"email":    "a@x.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	// Whoami with the issued token
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/users/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "a@x.com", body["email"])

	// Whoami without a token
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Whoami with a garbage token
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/users/me", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Login with the wrong password
	resp, body = doJSON(t, http.MethodPost, srv.URL+"/signin", "", map[string]string{
		"email":    "a@x.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "incorrect email or password", body["message"])
}

func TestSignup_Validation(t *testing.T) {
	srv := newTestServer(t)

	// Malformed email
	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/signup", "", map[string]string{
		"email":    "not-an-email",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Short password
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/signup", "", map[string]string{
		"email":    "a@x.com",
		"password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	srv := newTestServer(t)

	payload := map[string]string{"email": "a@x.com", "password": "secret123"}
	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/signup", "", payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/signup", "", payload)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "email already registered", body["message"])
}

func TestLogin_UnknownEmailSameShapeAsWrongPassword(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/signup", "", map[string]string{
		"email": "a@x.com", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	respWrong, bodyWrong := doJSON(t, http.MethodPost, srv.URL+"/signin", "", map[string]string{
		"email": "a@x.com", "password": "wrong",
	})
	respUnknown, bodyUnknown := doJSON(t, http.MethodPost, srv.URL+"/signin", "", map[string]string{
		"email": "nobody@x.com", "password": "secret123",
	})

	assert.Equal(t, respWrong.StatusCode, respUnknown.StatusCode)
	assert.Equal(t, bodyWrong, bodyUnknown)
}

func TestProtectedCardRoutes(t *testing.T) {
	srv := newTestServer(t)

	// Mutating card routes must be gated.
	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/cards", "", map[string]string{
		"name": "Lake", "link": "https://example.com/lake.jpg",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Sign up two users.
	_, _ = doJSON(t, http.MethodPost, srv.URL+"/signup", "", map[string]string{"email": "a@x.com", "password": "secret123"})
	_, ownerLogin := doJSON(t, http.MethodPost, srv.URL+"/signin", "", map[string]string{"email": "a@x.com", "password": "secret123"})
	ownerToken := ownerLogin["token"].(string)

	_, _ = doJSON(t, http.MethodPost, srv.URL+"/signup", "", map[string]string{"email": "b@x.com", "password": "secret123"})
	_, fanLogin := doJSON(t, http.MethodPost, srv.URL+"/signin", "", map[string]string{"email": "b@x.com", "password": "secret123"})
	fanToken := fanLogin["token"].(string)

	// Owner creates a card.
	resp, card := doJSON(t, http.MethodPost, srv.URL+"/cards", ownerToken, map[string]string{
		"name": "Lake", "link": "https://example.com/lake.jpg",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	cardID := card["id"].(string)

	// Fan likes it.
	resp, liked := doJSON(t, http.MethodPut, srv.URL+"/cards/"+cardID+"/likes", fanToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, liked["likes"], 1)

	// Fan cannot delete it.
	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/cards/"+cardID, fanToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Owner can.
	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/cards/"+cardID, ownerToken, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
