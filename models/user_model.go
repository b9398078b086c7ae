package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type User struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	FullName          string    `gorm:"size:255;not null" json:"fullName"`
	Email             string    `gorm:"size:255;not null;unique" json:"email"`
	Password          string    `gorm:"not null" json:"-"`
	Role              string    `gorm:"size:20;not null;default:'customer'" json:"role"`
	Phone             *string   `gorm:"size:30" json:"phone,omitempty"`
	Address           *string   `gorm:"size:255" json:"address,omitempty"`
	ProfilePictureURL *string   `gorm:"size:255" json:"profilePictureUrl,omitempty"`
	IsActive          bool      `gorm:"default:true" json:"isActive"`

	// Secondary indexes only. Booking and Comment rows are authoritative.
	BookingIDs []uuid.UUID `gorm:"serializer:json" json:"bookingIds"`
	CommentIDs []uuid.UUID `gorm:"serializer:json" json:"commentIds"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
