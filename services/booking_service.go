package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/anjiri1684/supercar_rentals/apperrors"
	"github.com/anjiri1684/supercar_rentals/database"
	"github.com/anjiri1684/supercar_rentals/events"
	"github.com/anjiri1684/supercar_rentals/metrics"
	"github.com/anjiri1684/supercar_rentals/models"
	"github.com/google/uuid"
)

const dateOnlyLayout = "2006-01-02"

type CreateBookingInput struct {
	UserID          uuid.UUID
	CarID           uuid.UUID
	StartDate       time.Time
	EndDate         time.Time
	PickupLocation  string
	DropoffLocation string
	TotalAmount     float64
	SpecialRequests *string
}

type BookingService struct {
	store  database.Store
	events events.Publisher
	now    func() time.Time
}

func NewBookingService(store database.Store, publisher events.Publisher) *BookingService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &BookingService{store: store, events: publisher, now: time.Now}
}

// WithClock replaces the time source used for invoice years and event
// timestamps.
func (s *BookingService) WithClock(now func() time.Time) *BookingService {
	s.now = now
	return s
}

// ParseBookingDate accepts RFC3339 timestamps and plain YYYY-MM-DD dates
// (interpreted as midnight UTC).
func ParseBookingDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(dateOnlyLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use RFC3339 or YYYY-MM-DD", value)
	}
	return t, nil
}

// Overlaps reports whether [aStart, aEnd] and [bStart, bEnd] intersect with
// inclusive bounds: a range ending on the instant another begins overlaps it.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !aEnd.Before(bStart)
}

func InvoiceNumber(year int, sequence int64) string {
	return fmt.Sprintf("INV-%d-%05d", year, sequence)
}

// DurationDays is ceil(|end - start|) in whole days.
func DurationDays(start, end time.Time) int {
	d := end.Sub(start)
	if d < 0 {
		d = -d
	}
	return int(math.Ceil(d.Hours() / 24))
}

// DailyRate divides the total by the rental length, treating a same-instant
// rental as one day.
func DailyRate(totalAmount float64, durationDays int) float64 {
	if durationDays < 1 {
		durationDays = 1
	}
	return math.Round(totalAmount / float64(durationDays))
}

func withDerived(b *models.Booking) *models.Booking {
	b.DurationDays = DurationDays(b.StartDate, b.EndDate)
	b.DailyRate = DailyRate(b.TotalAmount, b.DurationDays)
	return b
}

func withDerivedAll(bookings []models.Booking) []models.Booking {
	for i := range bookings {
		withDerived(&bookings[i])
	}
	if bookings == nil {
		return []models.Booking{}
	}
	return bookings
}

func (in CreateBookingInput) validate() error {
	switch {
	case in.UserID == uuid.Nil:
		return apperrors.Validation("userId is required")
	case in.CarID == uuid.Nil:
		return apperrors.Validation("carId is required")
	case in.StartDate.IsZero() || in.EndDate.IsZero():
		return apperrors.Validation("startDate and endDate are required")
	case in.StartDate.After(in.EndDate):
		return apperrors.Validation("startDate must not be after endDate")
	case strings.TrimSpace(in.PickupLocation) == "":
		return apperrors.Validation("pickupLocation is required")
	case strings.TrimSpace(in.DropoffLocation) == "":
		return apperrors.Validation("dropoffLocation is required")
	case in.TotalAmount <= 0 || math.IsNaN(in.TotalAmount) || math.IsInf(in.TotalAmount, 0):
		return apperrors.Validation("totalAmount must be a positive number")
	}
	return nil
}

// Create books a car. The conflict check, invoice sequencing, insert and
// reference-list updates share one transaction with the car row locked, so
// two requests for the same car are serialized by the database.
func (s *BookingService) Create(ctx context.Context, in CreateBookingInput) (*models.Booking, error) {
	if err := in.validate(); err != nil {
		metrics.IncBookingRejected(strings.ToLower(string(apperrors.CodeValidation)))
		return nil, err
	}

	var booking *models.Booking
	err := s.store.Transaction(ctx, func(tx database.Store) error {
		car, err := tx.LockCarByID(ctx, in.CarID)
		if err != nil {
			return apperrors.Unexpected("Failed to load car", err)
		}
		if car == nil {
			return apperrors.NotFound("Car not found")
		}
		if !car.Available {
			return apperrors.New(apperrors.CodeUnavailable, "Car is not available for booking")
		}

		conflicts, err := tx.FindOverlappingBookings(ctx, car.ID, in.StartDate, in.EndDate, models.BlockingStatuses)
		if err != nil {
			return apperrors.Unexpected("Failed to check car availability", err)
		}
		if len(conflicts) > 0 {
			return apperrors.Conflict("Car is already booked for the selected dates")
		}

		count, err := tx.CountBookings(ctx, database.BookingFilter{})
		if err != nil {
			return apperrors.Unexpected("Failed to generate invoice number", err)
		}

		b := &models.Booking{
			ID:              uuid.New(),
			UserID:          in.UserID,
			CarID:           car.ID,
			StartDate:       in.StartDate,
			EndDate:         in.EndDate,
			PickupLocation:  strings.TrimSpace(in.PickupLocation),
			DropoffLocation: strings.TrimSpace(in.DropoffLocation),
			TotalAmount:     in.TotalAmount,
			SpecialRequests: in.SpecialRequests,
			Status:          models.BookingPending,
			PaymentStatus:   models.PaymentPending,
			InvoiceNumber:   InvoiceNumber(s.now().Year(), count+1),
		}
		if err := tx.CreateBooking(ctx, b); err != nil {
			return apperrors.Unexpected("Failed to create booking", err)
		}

		if err := tx.SetCarReferences(ctx, car.ID, append(car.BookingIDs, b.ID), car.CommentIDs); err != nil {
			return apperrors.Unexpected("Failed to update car bookings", err)
		}

		user, err := tx.FindUserByID(ctx, in.UserID)
		if err != nil {
			return apperrors.Unexpected("Failed to load user", err)
		}
		if user == nil {
			log.Printf("⚠️ Booking %s references unknown user %s, skipping user index update", b.ID, in.UserID)
		} else if err := tx.SetUserReferences(ctx, user.ID, append(user.BookingIDs, b.ID), user.CommentIDs); err != nil {
			return apperrors.Unexpected("Failed to update user bookings", err)
		}

		booking = b
		return nil
	})
	if err != nil {
		metrics.IncBookingRejected(strings.ToLower(string(apperrors.CodeOf(err))))
		return nil, err
	}

	metrics.IncBookingCreated()
	s.publish(events.BookingCreated, booking)
	log.Printf("✅ Booking %s (%s) created for car %s", booking.ID, booking.InvoiceNumber, booking.CarID)
	return withDerived(booking), nil
}

// UpdateStatus applies a partial status/paymentStatus update. Transitions are
// not checked against the lifecycle graph except that completed bookings
// cannot be cancelled.
func (s *BookingService) UpdateStatus(ctx context.Context, id uuid.UUID, status *models.BookingStatus, paymentStatus *models.PaymentStatus) (*models.Booking, error) {
	if status == nil && paymentStatus == nil {
		return nil, apperrors.Validation("status or paymentStatus is required")
	}
	return s.apply(ctx, id, status, paymentStatus, nil)
}

// Cancel is UpdateStatus(CANCELLED) that also records the reason.
func (s *BookingService) Cancel(ctx context.Context, id uuid.UUID, reason *string) (*models.Booking, error) {
	cancelled := models.BookingCancelled
	return s.apply(ctx, id, &cancelled, nil, reason)
}

func (s *BookingService) apply(ctx context.Context, id uuid.UUID, status *models.BookingStatus, paymentStatus *models.PaymentStatus, reason *string) (*models.Booking, error) {
	if status != nil && !status.Valid() {
		return nil, apperrors.Validation(fmt.Sprintf("invalid status %q", *status))
	}
	if paymentStatus != nil && !paymentStatus.Valid() {
		return nil, apperrors.Validation(fmt.Sprintf("invalid paymentStatus %q", *paymentStatus))
	}

	booking, err := s.store.FindBookingByID(ctx, id)
	if err != nil {
		return nil, apperrors.Unexpected("Failed to load booking", err)
	}
	if booking == nil {
		return nil, apperrors.NotFound("Booking not found")
	}

	cancelling := status != nil && *status == models.BookingCancelled
	if cancelling && booking.Status == models.BookingCompleted {
		return nil, apperrors.New(apperrors.CodeInvalidTransition, "Completed bookings cannot be cancelled")
	}

	previous := booking.Status
	if status != nil {
		booking.Status = *status
	}
	if paymentStatus != nil {
		booking.PaymentStatus = *paymentStatus
	}
	if reason != nil && strings.TrimSpace(*reason) != "" {
		r := strings.TrimSpace(*reason)
		booking.CancellationReason = &r
	}

	if err := s.store.SaveBooking(ctx, booking); err != nil {
		return nil, apperrors.Unexpected("Failed to update booking", err)
	}

	// Released unconditionally, even if another booking still holds the car.
	if cancelling {
		if err := s.store.SetCarAvailability(ctx, booking.CarID, true); err != nil {
			return nil, apperrors.Unexpected("Failed to release car", err)
		}
	}

	if status != nil && previous != booking.Status {
		metrics.IncBookingStatusChanged(string(booking.Status))
	}
	s.publish(events.BookingStatusChanged, booking)
	return withDerived(booking), nil
}

func (s *BookingService) Get(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	booking, err := s.store.FindBookingByID(ctx, id)
	if err != nil {
		return nil, apperrors.Unexpected("Failed to load booking", err)
	}
	if booking == nil {
		return nil, apperrors.NotFound("Booking not found")
	}
	return withDerived(booking), nil
}

func (s *BookingService) List(ctx context.Context, filter database.BookingFilter) ([]models.Booking, error) {
	bookings, err := s.store.ListBookings(ctx, filter)
	if err != nil {
		return nil, apperrors.Unexpected("Failed to list bookings", err)
	}
	return withDerivedAll(bookings), nil
}

func (s *BookingService) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Booking, error) {
	return s.List(ctx, database.BookingFilter{UserID: &userID})
}

// ListByCar returns only the bookings that currently block the car's calendar.
func (s *BookingService) ListByCar(ctx context.Context, carID uuid.UUID) ([]models.Booking, error) {
	return s.List(ctx, database.BookingFilter{CarID: &carID, Statuses: models.BlockingStatuses})
}

// Delete hard-deletes a booking without lifecycle checks. Admin only.
func (s *BookingService) Delete(ctx context.Context, id uuid.UUID) error {
	booking, err := s.store.FindBookingByID(ctx, id)
	if err != nil {
		return apperrors.Unexpected("Failed to load booking", err)
	}
	if booking == nil {
		return apperrors.NotFound("Booking not found")
	}
	if err := s.store.DeleteBooking(ctx, id); err != nil {
		return apperrors.Unexpected("Failed to delete booking", err)
	}

	if car, err := s.store.FindCarByID(ctx, booking.CarID); err == nil && car != nil {
		if err := s.store.SetCarReferences(ctx, car.ID, without(car.BookingIDs, id), car.CommentIDs); err != nil {
			log.Printf("🔥 Failed to unlink booking %s from car %s: %v", id, car.ID, err)
		}
	}
	if user, err := s.store.FindUserByID(ctx, booking.UserID); err == nil && user != nil {
		if err := s.store.SetUserReferences(ctx, user.ID, without(user.BookingIDs, id), user.CommentIDs); err != nil {
			log.Printf("🔥 Failed to unlink booking %s from user %s: %v", id, user.ID, err)
		}
	}
	return nil
}

func (s *BookingService) publish(eventType string, booking *models.Booking) {
	s.events.Publish(events.Event{Type: eventType, Payload: *booking, OccurredAt: s.now()})
}

func without(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	return slices.DeleteFunc(slices.Clone(ids), func(x uuid.UUID) bool { return x == id })
}
