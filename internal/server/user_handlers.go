package server

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"warbler/internal/models"
	"warbler/internal/service"
	"warbler/internal/session"
	"warbler/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ListUsers handles GET /users, optionally filtered by the q query parameter.
func (s *Server) ListUsers(c *fiber.Ctx) error {
	user, ok := s.requireUser(c)
	if !ok {
		return s.accessUnauthorized(c)
	}

	q := strings.TrimSpace(c.Query("q"))
	var (
		users []models.User
		err   error
	)
	if q == "" {
		users, err = s.userRepo.List(c.Context())
	} else {
		users, err = s.userRepo.Search(c.Context(), q)
	}
	if err != nil {
		return err
	}

	followingIDs, err := s.followingIDSet(c, user.ID)
	if err != nil {
		return err
	}

	return s.render(c, "users/index", fiber.Map{
		"Users":        users,
		"Query":        q,
		"FollowingIDs": followingIDs,
	})
}

// ShowUser handles GET /users/:id, the profile page with the user's messages.
func (s *Server) ShowUser(c *fiber.Ctx) error {
	viewer, ok := s.requireUser(c)
	if !ok {
		return s.accessUnauthorized(c)
	}
	id, ok := paramID(c)
	if !ok {
		return s.notFoundPage(c)
	}

	user, err := s.userRepo.GetByID(c.Context(), id)
	if err != nil {
		if models.IsNotFound(err) {
			return s.notFoundPage(c)
		}
		return err
	}

	messages, err := s.messageRepo.ListByUser(c.Context(), user.ID)
	if err != nil {
		return err
	}
	messageCount, err := s.messageRepo.CountByUser(c.Context(), user.ID)
	if err != nil {
		return err
	}
	followingCount, err := s.followRepo.CountFollowing(c.Context(), user.ID)
	if err != nil {
		return err
	}
	followerCount, err := s.followRepo.CountFollowers(c.Context(), user.ID)
	if err != nil {
		return err
	}
	likeCount, err := s.likeRepo.CountByUser(c.Context(), user.ID)
	if err != nil {
		return err
	}
	isFollowing, err := s.followRepo.IsFollowing(c.Context(), viewer.ID, user.ID)
	if err != nil {
		return err
	}
	liked, err := s.likeRepo.LikedMessageIDs(c.Context(), viewer.ID)
	if err != nil {
		return err
	}

	return s.render(c, "users/show", fiber.Map{
		"User":           user,
		"Messages":       messages,
		"MessageCount":   messageCount,
		"FollowingCount": followingCount,
		"FollowerCount":  followerCount,
		"LikeCount":      likeCount,
		"IsFollowing":    isFollowing,
		"Liked":          liked,
	})
}

// ShowFollowing handles GET /users/:id/following.
func (s *Server) ShowFollowing(c *fiber.Ctx) error {
	return s.followPage(c, "users/following", s.followRepo.Following)
}

// ShowFollowers handles GET /users/:id/followers.
func (s *Server) ShowFollowers(c *fiber.Ctx) error {
	return s.followPage(c, "users/followers", s.followRepo.Followers)
}

// followPage renders a list of users related to the profile owner. The
// follow/unfollow buttons on the page reflect the viewer's own edges.
func (s *Server) followPage(c *fiber.Ctx, view string,
	listFn func(ctx context.Context, userID uint) ([]models.User, error)) error {
	viewer, ok := s.requireUser(c)
	if !ok {
		return s.accessUnauthorized(c)
	}
	id, ok := paramID(c)
	if !ok {
		return s.notFoundPage(c)
	}

	user, err := s.userRepo.GetByID(c.Context(), id)
	if err != nil {
		if models.IsNotFound(err) {
			return s.notFoundPage(c)
		}
		return err
	}

	users, err := listFn(c.Context(), user.ID)
	if err != nil {
		return err
	}
	followingIDs, err := s.followingIDSet(c, viewer.ID)
	if err != nil {
		return err
	}

	return s.render(c, view, fiber.Map{
		"User":         user,
		"Users":        users,
		"FollowingIDs": followingIDs,
	})
}

// ShowLikes handles GET /users/:id/likes.
func (s *Server) ShowLikes(c *fiber.Ctx) error {
	viewer, ok := s.requireUser(c)
	if !ok {
		return s.accessUnauthorized(c)
	}
	id, ok := paramID(c)
	if !ok {
		return s.notFoundPage(c)
	}

	user, err := s.userRepo.GetByID(c.Context(), id)
	if err != nil {
		if models.IsNotFound(err) {
			return s.notFoundPage(c)
		}
		return err
	}

	messages, err := s.likeRepo.LikedMessages(c.Context(), user.ID)
	if err != nil {
		return err
	}
	liked, err := s.likeRepo.LikedMessageIDs(c.Context(), viewer.ID)
	if err != nil {
		return err
	}

	return s.render(c, "users/likes", fiber.Map{
		"User":     user,
		"Messages": messages,
		"Liked":    liked,
	})
}

// StartFollowing handles POST /users/follow/:id.
func (s *Server) StartFollowing(c *fiber.Ctx) error {
	user, ok := s.requireUserCSRF(c)
	if !ok {
		return s.accessUnauthorized(c)
	}
	id, ok := paramID(c)
	if !ok {
		return s.notFoundPage(c)
	}

	sess := session.FromCtx(c)
	if id == user.ID {
		sess.AddFlash("You can't follow yourself!", "danger")
		return c.Redirect("/users")
	}

	if _, err := s.userRepo.GetByID(c.Context(), id); err != nil {
		if models.IsNotFound(err) {
			return s.notFoundPage(c)
		}
		return err
	}

	if err := s.followRepo.Follow(c.Context(), user.ID, id); err != nil {
		return err
	}
	return c.Redirect(fmt.Sprintf("/users/%d/following", user.ID))
}

// StopFollowing handles POST /users/stop-following/:id.
func (s *Server) StopFollowing(c *fiber.Ctx) error {
	user, ok := s.requireUserCSRF(c)
	if !ok {
		return s.accessUnauthorized(c)
	}
	id, ok := paramID(c)
	if !ok {
		return s.notFoundPage(c)
	}

	if err := s.followRepo.Unfollow(c.Context(), user.ID, id); err != nil {
		return err
	}
	return c.Redirect(fmt.Sprintf("/users/%d/following", user.ID))
}

// LikeMessage handles POST /users/like/:id. The next query parameter sends
// the user back to the page the like button was on.
func (s *Server) LikeMessage(c *fiber.Ctx) error {
	user, ok := s.requireUserCSRF(c)
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

	next := safeNextTarget(c.Query("next"))
	if msg.UserID == user.ID {
		session.FromCtx(c).AddFlash("You cannot like your own Warble!", "danger")
		return c.Redirect(next)
	}

	if err := s.likeRepo.Like(c.Context(), user.ID, msg.ID); err != nil {
		return err
	}
	return c.Redirect(next)
}

// UnlikeMessage handles POST /users/unlike/:id.
func (s *Server) UnlikeMessage(c *fiber.Ctx) error {
	user, ok := s.requireUserCSRF(c)
	if !ok {
		return s.accessUnauthorized(c)
	}
	id, ok := paramID(c)
	if !ok {
		return s.notFoundPage(c)
	}

	if err := s.likeRepo.Unlike(c.Context(), user.ID, id); err != nil {
		return err
	}
	return c.Redirect(safeNextTarget(c.Query("next")))
}

// ShowEditProfile handles GET /users/profile, pre-filled from the current
// user.
func (s *Server) ShowEditProfile(c *fiber.Ctx) error {
	user, ok := s.requireUser(c)
	if !ok {
		return s.accessUnauthorized(c)
	}
	return s.render(c, "users/edit", fiber.Map{
		"Username":       user.Username,
		"Email":          user.Email,
		"ImageURL":       user.ImageURL,
		"HeaderImageURL": user.HeaderImageURL,
		"Bio":            user.Bio,
		"Location":       user.Location,
	})
}

// HandleEditProfile handles POST /users/profile. The current password must
// be re-entered; a wrong password discards the attempted changes.
func (s *Server) HandleEditProfile(c *fiber.Ctx) error {
	user, ok := s.requireUserCSRF(c)
	if !ok {
		return s.accessUnauthorized(c)
	}
	sess := session.FromCtx(c)

	in := service.UpdateProfileInput{
		UserID:         user.ID,
		Password:       c.FormValue("password"),
		Username:       c.FormValue("username"),
		Email:          c.FormValue("email"),
		ImageURL:       c.FormValue("image_url"),
		HeaderImageURL: c.FormValue("header_image_url"),
		Bio:            c.FormValue("bio"),
		Location:       c.FormValue("location"),
	}

	attempted := fiber.Map{
		"Username":       in.Username,
		"Email":          in.Email,
		"ImageURL":       in.ImageURL,
		"HeaderImageURL": in.HeaderImageURL,
		"Bio":            in.Bio,
		"Location":       in.Location,
	}

	var errs []string
	if err := validation.ValidateUsername(in.Username); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		errs = append(errs, err.Error())
	}
	if len(errs) > 0 {
		attempted["Errors"] = errs
		return s.render(c, "users/edit", attempted)
	}

	updated, err := s.userService.UpdateProfile(c.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWrongPassword):
			sess.AddFlash("Password incorrect!", "danger")
			return s.render(c, "users/edit", attempted)
		case models.IsConflict(err):
			sess.AddFlash("Username already taken", "danger")
			return s.render(c, "users/edit", attempted)
		default:
			return err
		}
	}

	sess.AddFlash("Profile updated successfully!", "success")
	return c.Redirect(fmt.Sprintf("/users/%d", updated.ID))
}

// DeleteAccount handles POST /users/delete: remove the account and all of
// its messages, likes, and follow edges, then end the session.
func (s *Server) DeleteAccount(c *fiber.Ctx) error {
	user, ok := s.requireUserCSRF(c)
	if !ok {
		return s.accessUnauthorized(c)
	}
	sess := session.FromCtx(c)

	if err := s.userService.DeleteAccount(c.Context(), user.ID); err != nil {
		return err
	}

	sess.Logout()
	sess.AddFlash("Account deleted successfully!", "success")
	return c.Redirect("/signup")
}

// followingIDSet returns the ids the given user follows, keyed for O(1)
// template lookups.
func (s *Server) followingIDSet(c *fiber.Ctx, userID uint) (map[uint]bool, error) {
	following, err := s.followRepo.Following(c.Context(), userID)
	if err != nil {
		return nil, err
	}
	ids := make(map[uint]bool, len(following))
	for _, u := range following {
		ids[u.ID] = true
	}
	return ids, nil
}
