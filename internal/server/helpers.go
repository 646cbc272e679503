package server

import (
	"strings"

	"warbler/internal/models"
	"warbler/internal/session"
	"warbler/web"

	"github.com/gofiber/fiber/v2"
)

// currentUser returns the logged-in user resolved by loadCurrentUser, or nil.
func currentUser(c *fiber.Ctx) *models.User {
	u, _ := c.Locals("currentUser").(*models.User)
	return u
}

// render wraps c.Render with the bindings every page expects: the current
// user, the session's anti-forgery token, and pending flash messages.
func (s *Server) render(c *fiber.Ctx, name string, bind fiber.Map) error {
	sess := session.FromCtx(c)
	if bind == nil {
		bind = fiber.Map{}
	}
	bind["CurrentUser"] = currentUser(c)
	bind["CSRFToken"] = sess.CSRFToken
	bind["Flashes"] = sess.PopFlashes()
	return c.Render(name, bind, web.MainLayout)
}

// accessUnauthorized is the single response for a missing session, a bad
// anti-forgery token, and a failed ownership check: the caller learns only
// that access was denied.
func (s *Server) accessUnauthorized(c *fiber.Ctx) error {
	session.FromCtx(c).AddFlash("Access unauthorized.", "danger")
	return c.Redirect("/")
}

// validCSRF checks the posted form token against the session.
func validCSRF(c *fiber.Ctx) bool {
	return session.FromCtx(c).ValidCSRF(c.FormValue("csrf_token"))
}

// requireUser enforces the login gate for GET pages. ok is false when no
// user is logged in; the caller must respond with accessUnauthorized.
func (s *Server) requireUser(c *fiber.Ctx) (*models.User, bool) {
	user := currentUser(c)
	return user, user != nil
}

// requireUserCSRF enforces both gates for state-mutating POST actions.
func (s *Server) requireUserCSRF(c *fiber.Ctx) (*models.User, bool) {
	user := currentUser(c)
	if user == nil || !validCSRF(c) {
		return nil, false
	}
	return user, true
}

// paramID parses the :id route parameter. ok is false when the parameter is
// not a positive integer; the caller should 404.
func paramID(c *fiber.Ctx) (uint, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

// safeNextTarget sanitizes the caller-supplied redirect target: only
// site-local paths are honored, anything else falls back to the homepage.
func safeNextTarget(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") {
		return "/"
	}
	// "//host" and "/\host" are protocol-relative escapes
	if strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

// notFoundPage renders the branded 404 page.
func (s *Server) notFoundPage(c *fiber.Ctx) error {
	c.Status(fiber.StatusNotFound)
	return s.render(c, "404", nil)
}
