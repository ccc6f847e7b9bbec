package domain

import "time"

// OneTimeCode is a hashed login code. Consumed flips false→true at most once.
type OneTimeCode struct {
	ID        uint      `gorm:"primaryKey"`
	Email     string    `gorm:"column:email;size:255;not null;index"`
	CodeHash  string    `gorm:"column:otp_code;size:255;not null"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null;index"`
	Consumed  bool      `gorm:"column:is_used;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
}

func (OneTimeCode) TableName() string { return "otps" }
