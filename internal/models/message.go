package models

import "time"

// MaxMessageLength bounds the text of a single message (a "warble").
const MaxMessageLength = 140

// Message is a short post owned by exactly one user. Messages are immutable
// after creation; the only mutation is deletion by the owner.
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Text      string    `gorm:"type:varchar(140);not null" json:"text"`
	Timestamp time.Time `gorm:"not null;autoCreateTime" json:"timestamp"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
