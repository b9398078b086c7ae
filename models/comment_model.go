package models

import (
	"time"

	"github.com/google/uuid"
)

type CommentStatus string

const (
	CommentPending  CommentStatus = "PENDING"
	CommentApproved CommentStatus = "APPROVED"
	CommentRejected CommentStatus = "REJECTED"
)

type AdminResponse struct {
	Text        string    `gorm:"type:text" json:"text"`
	RespondedAt time.Time `json:"respondedAt"`
}

type Comment struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"userId"`
	CarID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"carId"`
	BookingID     uuid.UUID      `gorm:"type:uuid;not null;unique" json:"bookingId"`
	Rating        int            `gorm:"not null" json:"rating"`
	Content       string         `gorm:"type:text;not null" json:"content"`
	Images        []string       `gorm:"serializer:json" json:"images"`
	Status        CommentStatus  `gorm:"size:20;not null;default:'PENDING';index" json:"status"`
	AdminResponse *AdminResponse `gorm:"embedded;embeddedPrefix:admin_response_" json:"adminResponse,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
