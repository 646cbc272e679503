// Package seed provides database seeding utilities for development.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"warbler/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedPassword is the shared plaintext password for every seeded user.
const SeedPassword = "password123"

// Options configures the seeder.
type Options struct {
	NumUsers    int
	NumMessages int
	ShouldClean bool
}

// Seeder populates the database with fake users, messages, follows, and
// likes.
type Seeder struct {
	db  *gorm.DB
	rng *rand.Rand
}

// NewSeeder returns a Seeder backed by the given database handle.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:  db,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll deletes all seeded rows. Dependents go first so foreign keys
// never dangle.
func (s *Seeder) ClearAll() error {
	for _, table := range []string{"likes", "follows", "messages", "users"} {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

// Run seeds the full social mesh.
func (s *Seeder) Run(opts Options) error {
	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return err
		}
	}

	users, err := s.createUsers(opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d users created", len(users))

	messages, err := s.createMessages(users, opts.NumMessages)
	if err != nil {
		return fmt.Errorf("failed to create messages: %w", err)
	}
	log.Printf("✓ %d messages created", len(messages))

	follows, err := s.createFollows(users)
	if err != nil {
		return fmt.Errorf("failed to create follows: %w", err)
	}
	log.Printf("✓ %d follow edges created", follows)

	likes, err := s.createLikes(users, messages)
	if err != nil {
		return fmt.Errorf("failed to create likes: %w", err)
	}
	log.Printf("✓ %d likes created", likes)

	return nil
}

// NewUser builds an unsaved user with fake profile data and the shared
// seed password.
func (s *Seeder) NewUser(hashed string) *models.User {
	return &models.User{
		Username:       fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(10, 999)),
		Email:          gofakeit.Email(),
		Password:       hashed,
		ImageURL:       fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		HeaderImageURL: fmt.Sprintf("https://picsum.photos/seed/%s/1200/300", gofakeit.UUID()),
		Bio:            gofakeit.Sentence(10),
		Location:       fmt.Sprintf("%s, %s", gofakeit.City(), gofakeit.StateAbr()),
	}
}

// NewMessage builds an unsaved message for the given author.
func (s *Seeder) NewMessage(userID uint) *models.Message {
	text := gofakeit.Sentence(8 + s.rng.Intn(8))
	// rune-aware truncation so a multibyte character is never split
	if runes := []rune(text); len(runes) > models.MaxMessageLength {
		text = string(runes[:models.MaxMessageLength])
	}
	return &models.Message{Text: text, UserID: userID}
}

func (s *Seeder) createUsers(n int) ([]models.User, error) {
	// one hash shared across all seeded users, bcrypt is slow on purpose
	hashed, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		user := s.NewUser(string(hashed))
		if err := s.db.Create(user).Error; err != nil {
			// duplicate fake usernames happen, skip and keep going
			continue
		}
		users = append(users, *user)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("no users created")
	}
	return users, nil
}

func (s *Seeder) createMessages(users []models.User, n int) ([]models.Message, error) {
	messages := make([]models.Message, 0, n)
	for i := 0; i < n; i++ {
		author := users[s.rng.Intn(len(users))]
		msg := s.NewMessage(author.ID)
		if err := s.db.Create(msg).Error; err != nil {
			return nil, err
		}
		messages = append(messages, *msg)
	}
	return messages, nil
}

// createFollows gives every user a handful of follow edges. No self-edges
// and no duplicates.
func (s *Seeder) createFollows(users []models.User) (int, error) {
	created := 0
	for _, follower := range users {
		targets := s.rng.Intn(8) + 1
		for i := 0; i < targets; i++ {
			followed := users[s.rng.Intn(len(users))]
			if followed.ID == follower.ID {
				continue
			}
			follow := models.Follow{FollowerID: follower.ID, FollowedID: followed.ID}
			if err := s.db.Where(&follow).FirstOrCreate(&follow).Error; err != nil {
				return created, err
			}
			created++
		}
	}
	return created, nil
}

// createLikes scatters likes across messages, never on the liker's own.
func (s *Seeder) createLikes(users []models.User, messages []models.Message) (int, error) {
	if len(messages) == 0 {
		return 0, nil
	}
	created := 0
	for _, user := range users {
		count := s.rng.Intn(6)
		for i := 0; i < count; i++ {
			msg := messages[s.rng.Intn(len(messages))]
			if msg.UserID == user.ID {
				continue
			}
			like := models.Like{UserID: user.ID, MessageID: msg.ID}
			if err := s.db.Where(&like).FirstOrCreate(&like).Error; err != nil {
				return created, err
			}
			created++
		}
	}
	return created, nil
}
