package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/anjiri1684/supercar_rentals/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(d int) time.Time {
	return time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC)
}

func TestFindMissingReturnsNil(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	car, err := m.FindCarByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, car)

	user, err := m.FindUserByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, user)

	booking, err := m.FindBookingByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, booking)
}

func TestFindOverlappingBookings(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	carID := uuid.New()

	confirmed := &models.Booking{CarID: carID, StartDate: date(5), EndDate: date(10), Status: models.BookingConfirmed}
	pending := &models.Booking{CarID: carID, StartDate: date(1), EndDate: date(30), Status: models.BookingPending}
	otherCar := &models.Booking{CarID: uuid.New(), StartDate: date(1), EndDate: date(30), Status: models.BookingActive}
	for _, b := range []*models.Booking{confirmed, pending, otherCar} {
		require.NoError(t, m.CreateBooking(ctx, b))
	}

	tests := []struct {
		name       string
		start, end time.Time
		want       int
	}{
		{"ends on existing start", date(1), date(5), 1},
		{"starts on existing end", date(10), date(12), 1},
		{"before", date(1), date(4), 0},
		{"after", date(11), date(20), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.FindOverlappingBookings(ctx, carID, tt.start, tt.end, models.BlockingStatuses)
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestUniqueConstraints(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, m.CreateUser(ctx, &models.User{Email: "a@example.com"}))
	err := m.CreateUser(ctx, &models.User{Email: "a@example.com"})
	assert.True(t, errors.Is(err, ErrDuplicateKey))

	bookingID := uuid.New()
	require.NoError(t, m.CreateComment(ctx, &models.Comment{BookingID: bookingID, Rating: 5}))
	err = m.CreateComment(ctx, &models.Comment{BookingID: bookingID, Rating: 1})
	assert.True(t, errors.Is(err, ErrDuplicateKey))
}

func TestUpdateCarDetailsKeepsDerivedColumns(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	car := &models.Car{Make: "Audi", Model: "R8", Year: 2021, Available: true}
	require.NoError(t, m.CreateCar(ctx, car))
	ref := uuid.New()
	require.NoError(t, m.UpdateCarRating(ctx, car.ID, 3.5, 4))
	require.NoError(t, m.SetCarReferences(ctx, car.ID, []uuid.UUID{ref}, nil))

	car.Model = "R8 V10"
	car.AverageRating = 0
	car.TotalReviews = 0
	car.BookingIDs = nil
	require.NoError(t, m.UpdateCarDetails(ctx, car))

	stored, err := m.FindCarByID(ctx, car.ID)
	require.NoError(t, err)
	assert.Equal(t, "R8 V10", stored.Model)
	assert.Equal(t, 3.5, stored.AverageRating)
	assert.Equal(t, 4, stored.TotalReviews)
	assert.Equal(t, []uuid.UUID{ref}, stored.BookingIDs)
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	car := &models.Car{Make: "Audi", Model: "R8", Images: []string{"a.jpg"}}
	require.NoError(t, m.CreateCar(ctx, car))

	got, err := m.FindCarByID(ctx, car.ID)
	require.NoError(t, err)
	got.Images[0] = "mutated.jpg"

	again, err := m.FindCarByID(ctx, car.ID)
	require.NoError(t, err)
	assert.Equal(t, "a.jpg", again.Images[0])
}

func TestListOrderingNewestFirst(t *testing.T) {
	m := NewMemoryStore()
	tick := date(1)
	m.Now = func() time.Time {
		tick = tick.Add(time.Minute)
		return tick
	}
	ctx := context.Background()
	older := &models.Booking{CarID: uuid.New(), Status: models.BookingPending}
	newer := &models.Booking{CarID: uuid.New(), Status: models.BookingPending}
	require.NoError(t, m.CreateBooking(ctx, older))
	require.NoError(t, m.CreateBooking(ctx, newer))

	list, err := m.ListBookings(ctx, BookingFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
}
