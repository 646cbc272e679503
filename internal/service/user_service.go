package service

import (
	"context"
	"errors"

	"warbler/internal/models"
	"warbler/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// ErrWrongPassword is returned by UpdateProfile when the re-entered current
// password does not match; nothing is persisted in that case.
var ErrWrongPassword = errors.New("password incorrect")

// UserService implements profile edit and account deletion.
type UserService struct {
	userRepo repository.UserRepository
}

// UpdateProfileInput carries the attempted profile edit. Password is the
// user's current password, re-entered to confirm the change.
type UpdateProfileInput struct {
	UserID         uint
	Password       string
	Username       string
	Email          string
	ImageURL       string
	HeaderImageURL string
	Bio            string
	Location       string
}

// NewUserService returns a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// UpdateProfile re-checks the submitted password against the stored hash
// before applying any field changes.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)) != nil {
		return nil, ErrWrongPassword
	}

	user.Username = in.Username
	user.Email = in.Email
	user.ImageURL = in.ImageURL
	user.HeaderImageURL = in.HeaderImageURL
	user.Bio = in.Bio
	user.Location = in.Location

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteAccount removes the user; the repository cascades through messages,
// likes, and follow edges first.
func (s *UserService) DeleteAccount(ctx context.Context, userID uint) error {
	return s.userRepo.Delete(ctx, userID)
}
