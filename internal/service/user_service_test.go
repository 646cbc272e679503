package service

import (
	"context"
	"errors"
	"testing"

	"warbler/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateProfileAppliesChanges(t *testing.T) {
	repo := newTestUserRepo(t)
	auth := NewAuthService(repo)
	svc := NewUserService(repo)
	ctx := context.Background()

	user, err := auth.Signup(ctx, "finch", "finch@example.com", "secret123", "")
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, UpdateProfileInput{
		UserID:   user.ID,
		Password: "secret123",
		Username: "goldfinch",
		Email:    "goldfinch@example.com",
		Bio:      "Now with more gold",
		Location: "Treetop",
	})
	require.NoError(t, err)
	assert.Equal(t, "goldfinch", updated.Username)
	assert.Equal(t, "goldfinch@example.com", updated.Email)
	assert.Equal(t, "Now with more gold", updated.Bio)

	reloaded, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "goldfinch", reloaded.Username)
}

func TestUpdateProfileWrongPassword(t *testing.T) {
	repo := newTestUserRepo(t)
	auth := NewAuthService(repo)
	svc := NewUserService(repo)
	ctx := context.Background()

	user, err := auth.Signup(ctx, "finch", "finch@example.com", "secret123", "")
	require.NoError(t, err)

	_, err = svc.UpdateProfile(ctx, UpdateProfileInput{
		UserID:   user.ID,
		Password: "not-my-password",
		Username: "impostor",
		Email:    "impostor@example.com",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrWrongPassword))

	reloaded, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "finch", reloaded.Username, "nothing persisted on wrong password")
}

func TestUpdateProfileUsernameConflict(t *testing.T) {
	repo := newTestUserRepo(t)
	auth := NewAuthService(repo)
	svc := NewUserService(repo)
	ctx := context.Background()

	_, err := auth.Signup(ctx, "finch", "finch@example.com", "secret123", "")
	require.NoError(t, err)
	wren, err := auth.Signup(ctx, "wren", "wren@example.com", "secret123", "")
	require.NoError(t, err)

	_, err = svc.UpdateProfile(ctx, UpdateProfileInput{
		UserID:   wren.ID,
		Password: "secret123",
		Username: "finch",
		Email:    "wren@example.com",
	})
	require.Error(t, err)
	assert.True(t, models.IsConflict(err))
}

func TestDeleteAccount(t *testing.T) {
	repo := newTestUserRepo(t)
	auth := NewAuthService(repo)
	svc := NewUserService(repo)
	ctx := context.Background()

	user, err := auth.Signup(ctx, "finch", "finch@example.com", "secret123", "")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAccount(ctx, user.ID))

	_, err = repo.GetByID(ctx, user.ID)
	require.Error(t, err)
	assert.True(t, models.IsNotFound(err))
}
