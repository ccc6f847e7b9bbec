package domain

import "time"

type School struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"column:name;size:100;not null"`
	Address   string    `json:"address" gorm:"column:address;type:text;not null"`
	City      string    `json:"city" gorm:"column:city;size:100;not null"`
	State     string    `json:"state" gorm:"column:state;size:100;not null"`
	Contact   string    `json:"contact" gorm:"column:contact;size:20;not null"`
	EmailID   string    `json:"email_id" gorm:"column:email_id;size:255;not null;uniqueIndex"`
	Image     *string   `json:"image" gorm:"column:image;size:1024"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;index"`
}

func (School) TableName() string { return "schools" }

// CreateSchoolRequest carries the fields accepted when adding a school.
type CreateSchoolRequest struct {
	Name    string  `json:"name" validate:"required,min=2,max=100"`
	Address string  `json:"address" validate:"required,min=5"`
	City    string  `json:"city" validate:"required,min=2,alphaspace"`
	State   string  `json:"state" validate:"required,min=2"`
	Contact string  `json:"contact" validate:"required,len=10,number"`
	EmailID string  `json:"email_id" validate:"required,email"`
	Image   *string `json:"image"`
}
