package seed

import (
	"testing"

	"warbler/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Message{},
		&models.Follow{},
		&models.Like{},
	); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	return db
}

func TestSeederRun(t *testing.T) {
	db := setupTestDB(t)
	s := NewSeeder(db)

	require.NoError(t, s.Run(Options{NumUsers: 10, NumMessages: 30, ShouldClean: true}))

	var userCount, msgCount int64
	db.Model(&models.User{}).Count(&userCount)
	db.Model(&models.Message{}).Count(&msgCount)
	assert.Greater(t, userCount, int64(0))
	assert.Equal(t, int64(30), msgCount)

	// no self-follows and no self-likes
	var selfFollows int64
	db.Model(&models.Follow{}).Where("follower_id = followed_id").Count(&selfFollows)
	assert.Equal(t, int64(0), selfFollows)

	var selfLikes int64
	db.Model(&models.Like{}).
		Joins("JOIN messages ON messages.id = likes.message_id").
		Where("likes.user_id = messages.user_id").
		Count(&selfLikes)
	assert.Equal(t, int64(0), selfLikes)

	// message texts respect the length cap
	var tooLong int64
	db.Model(&models.Message{}).Where("LENGTH(text) > ?", models.MaxMessageLength).Count(&tooLong)
	assert.Equal(t, int64(0), tooLong)
}

func TestSeederClearAll(t *testing.T) {
	db := setupTestDB(t)
	s := NewSeeder(db)

	require.NoError(t, s.Run(Options{NumUsers: 5, NumMessages: 10}))
	require.NoError(t, s.ClearAll())

	for _, model := range []any{&models.Like{}, &models.Follow{}, &models.Message{}, &models.User{}} {
		var n int64
		db.Model(model).Count(&n)
		assert.Equal(t, int64(0), n)
	}
}
