// Package session implements server-side sessions: an opaque id in a cookie
// maps to a JSON record in Redis holding the current user, the anti-forgery
// token, and pending flash messages.
package session

import (
	"crypto/subtle"

	"github.com/google/uuid"
)

// Flash is a one-shot notice rendered on the next page view.
type Flash struct {
	Message  string `json:"message"`
	Category string `json:"category"`
}

// Session is the per-visitor state. A zero UserID means anonymous.
type Session struct {
	ID        string  `json:"id"`
	UserID    uint    `json:"user_id"`
	CSRFToken string  `json:"csrf_token"`
	Flashes   []Flash `json:"flashes,omitempty"`
}

func newSession() *Session {
	return &Session{
		ID:        uuid.NewString(),
		CSRFToken: uuid.NewString(),
	}
}

// Login binds the session to the given user.
func (s *Session) Login(userID uint) {
	s.UserID = userID
}

// Logout detaches the session from its user. Flashes and the CSRF token
// survive so the post-logout page can still render notices.
func (s *Session) Logout() {
	s.UserID = 0
}

// LoggedIn reports whether the session is bound to a user.
func (s *Session) LoggedIn() bool {
	return s.UserID != 0
}

// AddFlash queues a notice for the next rendered page.
func (s *Session) AddFlash(message, category string) {
	s.Flashes = append(s.Flashes, Flash{Message: message, Category: category})
}

// PopFlashes returns the pending notices and clears them.
func (s *Session) PopFlashes() []Flash {
	f := s.Flashes
	s.Flashes = nil
	return f
}

// ValidCSRF compares a submitted token against the session's in constant time.
func (s *Session) ValidCSRF(token string) bool {
	if token == "" || s.CSRFToken == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(s.CSRFToken), []byte(token)) == 1
}
