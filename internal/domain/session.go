package domain

import "time"

// Session records an issued session token against its user.
type Session struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"column:user_id;not null;index"`
	Token     string    `json:"-" gorm:"column:session_token;size:512;not null;index"`
	ExpiresAt time.Time `json:"expires_at" gorm:"column:expires_at;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
}

func (Session) TableName() string { return "user_sessions" }
