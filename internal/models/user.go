// Package models contains data structures for the application's domain models.
package models

import "time"

// Default profile images applied at signup when the user leaves them blank.
const (
	DefaultImageURL       = "/static/images/default-pic.svg"
	DefaultHeaderImageURL = "/static/images/warbler-hero.svg"
)

// User represents an account in the Warbler application.
// Rows are hard-deleted: account deletion cascades through the user's
// messages, likes, and follow edges before removing the row itself.
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Username       string    `gorm:"unique;not null" json:"username"`
	Email          string    `gorm:"unique;not null" json:"email"`
	Password       string    `gorm:"not null" json:"-"`
	ImageURL       string    `gorm:"not null" json:"image_url"`
	HeaderImageURL string    `gorm:"not null" json:"header_image_url"`
	Bio            string    `json:"bio"`
	Location       string    `json:"location"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Messages       []Message `gorm:"foreignKey:UserID" json:"messages,omitempty"`
}
