package session

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// CookieName is the session cookie.
const CookieName = "warbler_session"

const localsKey = "session"

// Middleware resolves the visitor's session from the cookie, creating a fresh
// anonymous one when absent, and persists it after the handler runs.
func Middleware(store *Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.Context()

		sess, err := store.Get(ctx, c.Cookies(CookieName))
		if err != nil {
			return err
		}
		if sess == nil {
			sess, err = store.New(ctx)
			if err != nil {
				return err
			}
		}

		c.Cookie(&fiber.Cookie{
			Name:     CookieName,
			Value:    sess.ID,
			Path:     "/",
			Expires:  time.Now().Add(store.TTL()),
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})

		c.Locals(localsKey, sess)
		if sess.LoggedIn() {
			c.Locals("userID", sess.UserID)
		}

		err = c.Next()

		// Persist mutations (login/logout, flashes) made by the handler.
		if saveErr := store.Save(c.Context(), sess); saveErr != nil && err == nil {
			err = saveErr
		}
		return err
	}
}

// FromCtx returns the request's session. It panics if the middleware did not
// run, which is a programming error.
func FromCtx(c *fiber.Ctx) *Session {
	return c.Locals(localsKey).(*Session)
}
