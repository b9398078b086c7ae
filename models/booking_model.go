package models

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingActive    BookingStatus = "ACTIVE"
	BookingCompleted BookingStatus = "COMPLETED"
	BookingCancelled BookingStatus = "CANCELLED"
)

// BlockingStatuses are the statuses that reserve a car's calendar.
var BlockingStatuses = []BookingStatus{BookingConfirmed, BookingActive}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentRefunded PaymentStatus = "REFUNDED"
	PaymentFailed   PaymentStatus = "FAILED"
)

type Booking struct {
	ID                 uuid.UUID     `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID             uuid.UUID     `gorm:"type:uuid;not null;index" json:"userId"`
	CarID              uuid.UUID     `gorm:"type:uuid;not null;index" json:"carId"`
	StartDate          time.Time     `gorm:"not null" json:"startDate"`
	EndDate            time.Time     `gorm:"not null" json:"endDate"`
	PickupLocation     string        `gorm:"size:255;not null" json:"pickupLocation"`
	DropoffLocation    string        `gorm:"size:255;not null" json:"dropoffLocation"`
	TotalAmount        float64       `gorm:"type:numeric(10,2);not null" json:"totalAmount"`
	SpecialRequests    *string       `gorm:"type:text" json:"specialRequests,omitempty"`
	Status             BookingStatus `gorm:"size:20;not null;default:'PENDING';index" json:"status"`
	PaymentStatus      PaymentStatus `gorm:"size:20;not null;default:'PENDING'" json:"paymentStatus"`
	CancellationReason *string       `gorm:"type:text" json:"cancellationReason,omitempty"`
	InvoiceNumber      string        `gorm:"size:20;not null;index" json:"invoiceNumber"`

	DurationDays int     `gorm:"-" json:"durationDays"`
	DailyRate    float64 `gorm:"-" json:"dailyRate"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingActive, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentRefunded, PaymentFailed:
		return true
	}
	return false
}
