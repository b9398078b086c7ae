package database

import (
	"context"
	"time"

	"github.com/anjiri1684/supercar_rentals/models"
	"github.com/google/uuid"
)

// Store is the persistence contract the services work against. Find*
// methods return (nil, nil) when the record does not exist. Callers get no
// cross-record atomicity unless they go through Transaction.
type Store interface {
	CarStore
	UserStore
	BookingStore
	CommentStore

	// Transaction runs fn against a store bound to a single database
	// transaction. Returning an error from fn rolls everything back.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

type CarFilter struct {
	Make      string
	Available *bool
}

type CarStore interface {
	FindCarByID(ctx context.Context, id uuid.UUID) (*models.Car, error)
	// LockCarByID loads the car and holds a row lock until the enclosing
	// transaction ends.
	LockCarByID(ctx context.Context, id uuid.UUID) (*models.Car, error)
	ListCars(ctx context.Context, filter CarFilter) ([]models.Car, error)
	CountCars(ctx context.Context) (int64, error)
	CreateCar(ctx context.Context, car *models.Car) error
	// UpdateCarDetails persists inventory fields. Rating and reference
	// columns are left untouched.
	UpdateCarDetails(ctx context.Context, car *models.Car) error
	DeleteCar(ctx context.Context, id uuid.UUID) error
	SetCarAvailability(ctx context.Context, id uuid.UUID, available bool) error
	UpdateCarRating(ctx context.Context, id uuid.UUID, averageRating float64, totalReviews int) error
	SetCarReferences(ctx context.Context, id uuid.UUID, bookingIDs, commentIDs []uuid.UUID) error
}

type UserStore interface {
	FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	CountUsers(ctx context.Context) (int64, error)
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUserProfile(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id uuid.UUID) error
	SetUserReferences(ctx context.Context, id uuid.UUID, bookingIDs, commentIDs []uuid.UUID) error
}

type BookingFilter struct {
	UserID        *uuid.UUID
	CarID         *uuid.UUID
	Statuses      []models.BookingStatus
	PaymentStatus *models.PaymentStatus
	// StartsFrom/StartsTo bound StartDate inclusively.
	StartsFrom *time.Time
	StartsTo   *time.Time
}

type BookingStore interface {
	CreateBooking(ctx context.Context, booking *models.Booking) error
	FindBookingByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	ListBookings(ctx context.Context, filter BookingFilter) ([]models.Booking, error)
	CountBookings(ctx context.Context, filter BookingFilter) (int64, error)
	// FindOverlappingBookings returns bookings on carID with a status in
	// statuses where existing.start <= end AND existing.end >= start.
	FindOverlappingBookings(ctx context.Context, carID uuid.UUID, start, end time.Time, statuses []models.BookingStatus) ([]models.Booking, error)
	SaveBooking(ctx context.Context, booking *models.Booking) error
	DeleteBooking(ctx context.Context, id uuid.UUID) error
}

type CommentFilter struct {
	CarID  *uuid.UUID
	UserID *uuid.UUID
	Status *models.CommentStatus
}

type CommentStore interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	FindCommentByID(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	FindCommentByBookingID(ctx context.Context, bookingID uuid.UUID) (*models.Comment, error)
	ListComments(ctx context.Context, filter CommentFilter) ([]models.Comment, error)
	CountComments(ctx context.Context, filter CommentFilter) (int64, error)
	SaveComment(ctx context.Context, comment *models.Comment) error
	DeleteComment(ctx context.Context, id uuid.UUID) error
}
