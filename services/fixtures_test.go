package services

import (
	"context"
	"testing"
	"time"

	"github.com/anjiri1684/supercar_rentals/database"
	"github.com/anjiri1684/supercar_rentals/events"
	"github.com/anjiri1684/supercar_rentals/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	store    *database.MemoryStore
	events   *events.Recorder
	ratings  *RatingAggregator
	bookings *BookingService
	comments *CommentService
	accounts *AccountService
	cars     *CarService
}

var fixedNow = time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC)

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := database.NewMemoryStore()
	rec := &events.Recorder{}
	ratings := NewRatingAggregator(store)
	clock := func() time.Time { return fixedNow }
	comments := NewCommentService(store, ratings, rec).WithClock(clock)
	return &testEnv{
		store:    store,
		events:   rec,
		ratings:  ratings,
		bookings: NewBookingService(store, rec).WithClock(clock),
		comments: comments,
		accounts: NewAccountService(store, comments).WithHashCost(4),
		cars:     NewCarService(store),
	}
}

func day(d int) time.Time {
	return time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC)
}

func (e *testEnv) seedUser(t *testing.T, email string) *models.User {
	t.Helper()
	u := &models.User{ID: uuid.New(), FullName: "Test " + email, Email: email, Role: models.RoleCustomer, IsActive: true}
	require.NoError(t, e.store.CreateUser(context.Background(), u))
	return u
}

func (e *testEnv) seedCar(t *testing.T, available bool) *models.Car {
	t.Helper()
	c := &models.Car{
		ID:        uuid.New(),
		Make:      "Ferrari",
		Model:     "SF90",
		Year:      2023,
		Available: available,
		Pricing:   models.CarPricing{Daily: 1500},
	}
	require.NoError(t, e.store.CreateCar(context.Background(), c))
	return c
}

func (e *testEnv) book(t *testing.T, user *models.User, car *models.Car, start, end time.Time) *models.Booking {
	t.Helper()
	b, err := e.bookings.Create(context.Background(), CreateBookingInput{
		UserID:          user.ID,
		CarID:           car.ID,
		StartDate:       start,
		EndDate:         end,
		PickupLocation:  "Nairobi CBD",
		DropoffLocation: "JKIA",
		TotalAmount:     6000,
	})
	require.NoError(t, err)
	return b
}

func (e *testEnv) bookWithStatus(t *testing.T, user *models.User, car *models.Car, start, end time.Time, status models.BookingStatus) *models.Booking {
	t.Helper()
	b := e.book(t, user, car, start, end)
	b, err := e.bookings.UpdateStatus(context.Background(), b.ID, &status, nil)
	require.NoError(t, err)
	return b
}
