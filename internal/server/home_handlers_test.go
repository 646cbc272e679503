package server

import (
	"net/http"
	"testing"
	"time"

	"warbler/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHomepageAnonymous(t *testing.T) {
	_, app := setupTestServer(t)

	resp := doGet(t, app, "/", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := readBody(t, resp)
	assert.Contains(t, body, "Sign up")
	assert.Contains(t, body, "What's Happening?")
}

func TestHomepageFeed(t *testing.T) {
	s, app := setupTestServer(t)
	me := signupTestUser(t, s, "me")
	friend := signupTestUser(t, s, "friend")
	stranger := signupTestUser(t, s, "stranger")
	require.NoError(t, s.db.Create(&models.Follow{FollowerID: me.ID, FollowedID: friend.ID}).Error)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.db.Create(&models.Message{Text: "my own warble", UserID: me.ID, Timestamp: base}).Error)
	require.NoError(t, s.db.Create(&models.Message{Text: "friendly warble", UserID: friend.ID, Timestamp: base.Add(time.Minute)}).Error)
	require.NoError(t, s.db.Create(&models.Message{Text: "stranger warble", UserID: stranger.ID, Timestamp: base.Add(2 * time.Minute)}).Error)

	sess := loginSession(t, s, me.ID)
	resp := doGet(t, app, "/", sess)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := readBody(t, resp)
	assert.Contains(t, body, "my own warble")
	assert.Contains(t, body, "friendly warble")
	assert.NotContains(t, body, "stranger warble")
}

func TestNotFoundPage(t *testing.T) {
	_, app := setupTestServer(t)

	resp := doGet(t, app, "/no/such/page", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "404")
}

func TestResponsesAreUncacheable(t *testing.T) {
	_, app := setupTestServer(t)

	for _, path := range []string{"/", "/login", "/signup"} {
		resp := doGet(t, app, path, nil)
		assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"), path)
	}
}

func TestHealthEndpoints(t *testing.T) {
	_, app := setupTestServer(t)

	resp := doGet(t, app, "/health/live", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doGet(t, app, "/health/ready", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
