package server

import (
	"strings"

	"warbler/internal/models"

	"github.com/gofiber/fiber/v2"
)

// homeFeedLimit caps the homepage timeline length.
const homeFeedLimit = 100

// Homepage handles GET /. Logged-in users see the timeline of people they
// follow plus their own messages; anonymous visitors see the landing page.
func (s *Server) Homepage(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return s.render(c, "home-anon", nil)
	}

	messages, err := s.messageRepo.HomeFeed(c.Context(), user.ID, homeFeedLimit)
	if err != nil {
		return err
	}
	liked, err := s.likeRepo.LikedMessageIDs(c.Context(), user.ID)
	if err != nil {
		return err
	}

	return s.render(c, "home", fiber.Map{
		"Messages": messages,
		"Liked":    liked,
	})
}

// NotFound handles unmatched routes: a structured error payload for JSON
// clients (probes, scripts), the branded 404 page for everyone else.
func (s *Server) NotFound(c *fiber.Ctx) error {
	if wantsJSON(c) {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Page", c.Path()))
	}
	return s.notFoundPage(c)
}

func wantsJSON(c *fiber.Ctx) bool {
	return strings.Contains(c.Get(fiber.HeaderAccept), fiber.MIMEApplicationJSON)
}
