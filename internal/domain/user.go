package domain

import "time"

// User is created on the first successful OTP verification for an email and
// never updated afterwards.
type User struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Email      string    `json:"email" gorm:"column:email;size:255;not null;uniqueIndex"`
	IsVerified bool      `json:"is_verified" gorm:"column:is_verified;not null;default:false"`
	CreatedAt  time.Time `json:"created_at" gorm:"column:created_at"`
}

func (User) TableName() string { return "users" }
