package services

import (
	"context"
	"testing"

	"github.com/anjiri1684/supercar_rentals/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardStats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "kamau@example.com")
	car := env.seedCar(t, true)
	env.seedCar(t, false)

	confirmed := env.bookWithStatus(t, user, car, day(1), day(5), models.BookingConfirmed)
	paid := models.PaymentPaid
	_, err := env.bookings.UpdateStatus(ctx, confirmed.ID, nil, &paid)
	require.NoError(t, err)
	pending := env.book(t, user, car, day(10), day(12))
	env.review(t, user, pending, 4)

	stats, err := NewDashboardService(env.store).Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, &DashboardStats{
		TotalUsers:     1,
		TotalCars:      2,
		TotalBookings:  2,
		ActiveBookings: 1,
		PendingReviews: 1,
		TotalRevenue:   6000,
		AvailableCars:  1,
	}, stats)
}
