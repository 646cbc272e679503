// Package service holds the application's business operations over the
// repositories.
package service

import (
	"context"

	"warbler/internal/models"
	"warbler/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// AuthService implements signup and credential verification.
type AuthService struct {
	userRepo repository.UserRepository
}

// NewAuthService returns a new AuthService.
func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

// Signup hashes the password and creates the user. Blank image URLs fall back
// to the stock avatar and banner. A duplicate username or email surfaces as a
// conflict error from the repository.
func (s *AuthService) Signup(ctx context.Context, username, email, password, imageURL string) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	if imageURL == "" {
		imageURL = models.DefaultImageURL
	}

	user := &models.User{
		Username:       username,
		Email:          email,
		Password:       string(hashed),
		ImageURL:       imageURL,
		HeaderImageURL: models.DefaultHeaderImageURL,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate looks up the user by username and verifies the password.
// It returns (nil, nil) for an unknown username or a wrong password; bad
// credentials are never an error.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, nil
	}
	return user, nil
}
