package services

import (
	"context"
	"testing"
	"time"

	"github.com/anjiri1684/supercar_rentals/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceIndexerRebuild(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tick := fixedNow
	env.store.Now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}

	user := env.seedUser(t, "kamau@example.com")
	car := env.seedCar(t, true)
	idle := env.seedCar(t, true)

	first := &models.Booking{UserID: user.ID, CarID: car.ID, StartDate: day(1), EndDate: day(2), Status: models.BookingPending}
	second := &models.Booking{UserID: user.ID, CarID: car.ID, StartDate: day(3), EndDate: day(4), Status: models.BookingPending}
	require.NoError(t, env.store.CreateBooking(ctx, first))
	require.NoError(t, env.store.CreateBooking(ctx, second))
	comment := &models.Comment{UserID: user.ID, CarID: car.ID, BookingID: first.ID, Rating: 4, Content: "ok", Status: models.CommentPending}
	require.NoError(t, env.store.CreateComment(ctx, comment))

	// Stale entry that no longer exists.
	require.NoError(t, env.store.SetCarReferences(ctx, idle.ID, []uuid.UUID{uuid.New()}, nil))

	report, err := NewReferenceIndexer(env.store).Rebuild(ctx)
	require.NoError(t, err)
	assert.Equal(t, IndexReport{UsersUpdated: 1, CarsUpdated: 2}, report)

	storedUser, err := env.store.FindUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{first.ID, second.ID}, storedUser.BookingIDs)
	assert.Equal(t, []uuid.UUID{comment.ID}, storedUser.CommentIDs)

	storedIdle, err := env.store.FindCarByID(ctx, idle.ID)
	require.NoError(t, err)
	assert.Empty(t, storedIdle.BookingIDs)

	again, err := NewReferenceIndexer(env.store).Rebuild(ctx)
	require.NoError(t, err)
	assert.Zero(t, again.UsersUpdated+again.CarsUpdated)
}
