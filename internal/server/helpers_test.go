package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"warbler/internal/config"
	"warbler/internal/database"
	"warbler/internal/models"
	"warbler/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	cfg := &config.Config{
		Port:            "8080",
		SessionTTLHours: 24,
		Env:             "test",
	}

	s, err := NewServerWithDeps(cfg, db, nil)
	require.NoError(t, err)

	return s, s.BuildApp()
}

func signupTestUser(t *testing.T, s *Server, username string) *models.User {
	t.Helper()
	user, err := s.authService.Signup(context.Background(), username, username+"@example.com", "secret123", "")
	require.NoError(t, err)
	return user
}

// loginSession creates a persisted session bound to the given user. A zero
// userID yields an anonymous session, useful for CSRF tokens on public forms.
func loginSession(t *testing.T, s *Server, userID uint) *session.Session {
	t.Helper()
	sess, err := s.sessions.New(context.Background())
	require.NoError(t, err)
	if userID != 0 {
		sess.Login(userID)
		require.NoError(t, s.sessions.Save(context.Background(), sess))
	}
	return sess
}

func reloadSession(t *testing.T, s *Server, id string) *session.Session {
	t.Helper()
	sess, err := s.sessions.Get(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, sess)
	return sess
}

func doGet(t *testing.T, app *fiber.App, path string, sess *session.Session) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if sess != nil {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: sess.ID})
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func doPostForm(t *testing.T, app *fiber.App, path string, sess *session.Session, form url.Values) *http.Response {
	t.Helper()
	if form == nil {
		form = url.Values{}
	}
	if sess != nil && form.Get("csrf_token") == "" {
		form.Set("csrf_token", sess.CSRFToken)
	}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if sess != nil {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: sess.ID})
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func flashMessages(sess *session.Session) []string {
	msgs := make([]string, 0, len(sess.Flashes))
	for _, f := range sess.Flashes {
		msgs = append(msgs, f.Message)
	}
	return msgs
}

func TestSafeNextTarget(t *testing.T) {
	cases := map[string]string{
		"":                        "/",
		"/":                       "/",
		"/users/3/likes":          "/users/3/likes",
		"https://evil.example":    "/",
		"//evil.example":          "/",
		"/\\evil.example":         "/",
		"javascript:alert(1)":     "/",
		"users/3":                 "/",
		"/messages/7?highlight=1": "/messages/7?highlight=1",
	}
	for in, want := range cases {
		if got := safeNextTarget(in); got != want {
			t.Errorf("safeNextTarget(%q) = %q, want %q", in, got, want)
		}
	}
}
