package server

import (
	"fmt"

	"warbler/internal/middleware"
	"warbler/internal/models"
	"warbler/internal/session"
	"warbler/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ShowSignup handles GET /signup. Visiting the signup page always logs the
// visitor out first.
func (s *Server) ShowSignup(c *fiber.Ctx) error {
	sess := session.FromCtx(c)
	sess.Logout()
	c.Locals("currentUser", nil)
	return s.render(c, "users/signup", nil)
}

// HandleSignup handles POST /signup: create the user, log them in, and send
// them home. A taken username or email re-presents the form.
func (s *Server) HandleSignup(c *fiber.Ctx) error {
	sess := session.FromCtx(c)
	sess.Logout()
	c.Locals("currentUser", nil)

	if !validCSRF(c) {
		return s.accessUnauthorized(c)
	}

	username := c.FormValue("username")
	email := c.FormValue("email")
	password := c.FormValue("password")
	imageURL := c.FormValue("image_url")

	var errs []string
	if err := validation.ValidateUsername(username); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validation.ValidateEmail(email); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validation.ValidatePassword(password); err != nil {
		errs = append(errs, err.Error())
	}
	if len(errs) > 0 {
		return s.render(c, "users/signup", fiber.Map{
			"Errors":   errs,
			"Username": username,
			"Email":    email,
			"ImageURL": imageURL,
		})
	}

	user, err := s.authService.Signup(c.Context(), username, email, password, imageURL)
	if err != nil {
		if models.IsConflict(err) {
			sess.AddFlash("Username already taken", "danger")
			return s.render(c, "users/signup", fiber.Map{
				"Username": username,
				"Email":    email,
				"ImageURL": imageURL,
			})
		}
		return err
	}

	sess.Login(user.ID)
	return c.Redirect("/")
}

// ShowLogin handles GET /login.
func (s *Server) ShowLogin(c *fiber.Ctx) error {
	return s.render(c, "users/login", nil)
}

// HandleLogin handles POST /login.
func (s *Server) HandleLogin(c *fiber.Ctx) error {
	sess := session.FromCtx(c)

	if !validCSRF(c) {
		return s.accessUnauthorized(c)
	}

	username := c.FormValue("username")
	password := c.FormValue("password")

	user, err := s.authService.Authenticate(c.Context(), username, password)
	if err != nil {
		return err
	}
	if user == nil {
		middleware.Logins.WithLabelValues("failure").Inc()
		sess.AddFlash("Invalid credentials.", "danger")
		return s.render(c, "users/login", fiber.Map{"Username": username})
	}

	middleware.Logins.WithLabelValues("success").Inc()
	sess.Login(user.ID)
	sess.AddFlash(fmt.Sprintf("Hello, %s!", user.Username), "success")
	return c.Redirect("/")
}

// Logout handles POST /logout.
func (s *Server) Logout(c *fiber.Ctx) error {
	sess := session.FromCtx(c)

	if _, ok := s.requireUserCSRF(c); !ok {
		return s.accessUnauthorized(c)
	}

	sess.Logout()
	sess.AddFlash("Logged out successfully!", "success")
	return c.Redirect("/login")
}
