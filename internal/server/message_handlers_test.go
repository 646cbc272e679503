package server

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"warbler/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessagePageRequiresLogin(t *testing.T) {
	s, app := setupTestServer(t)
	sess := loginSession(t, s, 0)

	resp := doGet(t, app, "/messages/new", sess)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	assert.Contains(t, flashMessages(reloadSession(t, s, sess.ID)), "Access unauthorized.")
}

func TestCreateMessage(t *testing.T) {
	s, app := setupTestServer(t)
	me := signupTestUser(t, s, "me")
	sess := loginSession(t, s, me.ID)

	resp := doPostForm(t, app, "/messages/new", sess, url.Values{
		"text": {"my first warble"},
	})
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, fmt.Sprintf("/users/%d", me.ID), resp.Header.Get("Location"))

	msgs, err := s.messageRepo.ListByUser(context.Background(), me.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "my first warble", msgs[0].Text)
}

func TestCreateMessageTooLong(t *testing.T) {
	s, app := setupTestServer(t)
	me := signupTestUser(t, s, "me")
	sess := loginSession(t, s, me.ID)

	resp := doPostForm(t, app, "/messages/new", sess, url.Values{
		"text": {strings.Repeat("a", models.MaxMessageLength+1)},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "message must not exceed 140 characters")

	n, err := s.messageRepo.CountByUser(context.Background(), me.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestShowMessage(t *testing.T) {
	s, app := setupTestServer(t)
	author := signupTestUser(t, s, "author")
	reader := signupTestUser(t, s, "reader")
	msg := &models.Message{Text: "a single warble", UserID: author.ID}
	require.NoError(t, s.db.Create(msg).Error)

	// another logged-in user can read it but gets no delete button
	sess := loginSession(t, s, reader.ID)
	resp := doGet(t, app, fmt.Sprintf("/messages/%d", msg.ID), sess)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "a single warble")
	assert.NotContains(t, body, "Delete")

	// the author sees the delete button
	sess = loginSession(t, s, author.ID)
	resp = doGet(t, app, fmt.Sprintf("/messages/%d", msg.ID), sess)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Delete")
}

func TestShowMessageRequiresLogin(t *testing.T) {
	s, app := setupTestServer(t)
	author := signupTestUser(t, s, "author")
	msg := &models.Message{Text: "members only", UserID: author.ID}
	require.NoError(t, s.db.Create(msg).Error)

	sess := loginSession(t, s, 0)
	resp := doGet(t, app, fmt.Sprintf("/messages/%d", msg.ID), sess)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	assert.Contains(t, flashMessages(reloadSession(t, s, sess.ID)), "Access unauthorized.")
}

func TestShowMessageMissing(t *testing.T) {
	s, app := setupTestServer(t)
	me := signupTestUser(t, s, "me")
	sess := loginSession(t, s, me.ID)

	resp := doGet(t, app, "/messages/9999", sess)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteMessage(t *testing.T) {
	s, app := setupTestServer(t)
	me := signupTestUser(t, s, "me")
	msg := &models.Message{Text: "short lived", UserID: me.ID}
	require.NoError(t, s.db.Create(msg).Error)
	sess := loginSession(t, s, me.ID)

	resp := doPostForm(t, app, fmt.Sprintf("/messages/%d/delete", msg.ID), sess, nil)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, fmt.Sprintf("/users/%d", me.ID), resp.Header.Get("Location"))

	_, err := s.messageRepo.GetByID(context.Background(), msg.ID)
	assert.True(t, models.IsNotFound(err))
}

func TestDeleteMessageNotOwner(t *testing.T) {
	s, app := setupTestServer(t)
	me := signupTestUser(t, s, "me")
	other := signupTestUser(t, s, "other")
	msg := &models.Message{Text: "not yours", UserID: other.ID}
	require.NoError(t, s.db.Create(msg).Error)
	sess := loginSession(t, s, me.ID)

	resp := doPostForm(t, app, fmt.Sprintf("/messages/%d/delete", msg.ID), sess, nil)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	assert.Contains(t, flashMessages(reloadSession(t, s, sess.ID)), "Access unauthorized.")

	_, err := s.messageRepo.GetByID(context.Background(), msg.ID)
	assert.NoError(t, err, "message survives the attempt")
}

func TestDeleteMessageMissingLooksLikeUnauthorized(t *testing.T) {
	s, app := setupTestServer(t)
	me := signupTestUser(t, s, "me")
	sess := loginSession(t, s, me.ID)

	resp := doPostForm(t, app, "/messages/9999/delete", sess, nil)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	assert.Contains(t, flashMessages(reloadSession(t, s, sess.ID)), "Access unauthorized.")
}
