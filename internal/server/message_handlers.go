package server

import (
	"fmt"

	"warbler/internal/middleware"
	"warbler/internal/models"
	"warbler/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ShowNewMessage handles GET /messages/new.
func (s *Server) ShowNewMessage(c *fiber.Ctx) error {
	if _, ok := s.requireUser(c); !ok {
		return s.accessUnauthorized(c)
	}
	return s.render(c, "messages/create", nil)
}

// HandleNewMessage handles POST /messages/new.
func (s *Server) HandleNewMessage(c *fiber.Ctx) error {
	user, ok := s.requireUserCSRF(c)
	if !ok {
		return s.accessUnauthorized(c)
	}

	text := c.FormValue("text")
	if err := validation.ValidateMessageText(text); err != nil {
		return s.render(c, "messages/create", fiber.Map{
			"Errors": []string{err.Error()},
			"Text":   text,
		})
	}

	msg := &models.Message{Text: text, UserID: user.ID}
	if err := s.messageRepo.Create(c.Context(), msg); err != nil {
		return err
	}

	middleware.MessagesCreated.Inc()
	return c.Redirect(fmt.Sprintf("/users/%d", user.ID))
}

// ShowMessage handles GET /messages/:id.
func (s *Server) ShowMessage(c *fiber.Ctx) error {
	user, ok := s.requireUser(c)
	if !ok {
		return s.accessUnauthorized(c)
	}
	id, ok := paramID(c)
	if !ok {
		return s.notFoundPage(c)
	}

	msg, err := s.messageRepo.GetByID(c.Context(), id)
	if err != nil {
		if models.IsNotFound(err) {
			return s.notFoundPage(c)
		}
		return err
	}

	return s.render(c, "messages/show", fiber.Map{
		"Message": msg,
		"IsOwner": user.ID == msg.UserID,
	})
}

// DeleteMessage handles POST /messages/:id/delete. A missing message and a
// message owned by someone else get the same response, so the route does
// not reveal which ids exist.
func (s *Server) DeleteMessage(c *fiber.Ctx) error {
	user, ok := s.requireUserCSRF(c)
	if !ok {
		return s.accessUnauthorized(c)
	}
	id, ok := paramID(c)
	if !ok {
		return s.accessUnauthorized(c)
	}

	msg, err := s.messageRepo.GetByID(c.Context(), id)
	if err != nil {
		if models.IsNotFound(err) {
			return s.accessUnauthorized(c)
		}
		return err
	}
	if msg.UserID != user.ID {
		return s.accessUnauthorized(c)
	}

	if err := s.messageRepo.Delete(c.Context(), msg.ID); err != nil {
		return err
	}
	return c.Redirect(fmt.Sprintf("/users/%d", user.ID))
}
