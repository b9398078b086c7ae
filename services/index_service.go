package services

import (
	"context"
	"log"
	"slices"

	"github.com/anjiri1684/supercar_rentals/apperrors"
	"github.com/anjiri1684/supercar_rentals/database"
	"github.com/anjiri1684/supercar_rentals/models"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type IndexReport struct {
	UsersUpdated int `json:"usersUpdated"`
	CarsUpdated  int `json:"carsUpdated"`
}

// ReferenceIndexer rebuilds the denormalized bookingIds/commentIds lists on
// users and cars from the Booking and Comment tables.
type ReferenceIndexer struct {
	store database.Store
}

func NewReferenceIndexer(store database.Store) *ReferenceIndexer {
	return &ReferenceIndexer{store: store}
}

type refs struct {
	bookings []uuid.UUID
	comments []uuid.UUID
}

func (r *ReferenceIndexer) Rebuild(ctx context.Context) (IndexReport, error) {
	var (
		users    []models.User
		cars     []models.Car
		bookings []models.Booking
		comments []models.Comment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { users, err = r.store.ListUsers(gctx); return })
	g.Go(func() (err error) { cars, err = r.store.ListCars(gctx, database.CarFilter{}); return })
	g.Go(func() (err error) { bookings, err = r.store.ListBookings(gctx, database.BookingFilter{}); return })
	g.Go(func() (err error) { comments, err = r.store.ListComments(gctx, database.CommentFilter{}); return })
	if err := g.Wait(); err != nil {
		return IndexReport{}, apperrors.Unexpected("Failed to load records for reindex", err)
	}

	byUser := make(map[uuid.UUID]*refs)
	byCar := make(map[uuid.UUID]*refs)
	get := func(m map[uuid.UUID]*refs, id uuid.UUID) *refs {
		if m[id] == nil {
			m[id] = &refs{bookings: []uuid.UUID{}, comments: []uuid.UUID{}}
		}
		return m[id]
	}

	// Oldest first so the lists keep creation order.
	slices.Reverse(bookings)
	slices.Reverse(comments)
	for _, b := range bookings {
		get(byUser, b.UserID).bookings = append(get(byUser, b.UserID).bookings, b.ID)
		get(byCar, b.CarID).bookings = append(get(byCar, b.CarID).bookings, b.ID)
	}
	for _, c := range comments {
		get(byUser, c.UserID).comments = append(get(byUser, c.UserID).comments, c.ID)
		get(byCar, c.CarID).comments = append(get(byCar, c.CarID).comments, c.ID)
	}

	var report IndexReport
	for _, u := range users {
		want := get(byUser, u.ID)
		if slices.Equal(u.BookingIDs, want.bookings) && slices.Equal(u.CommentIDs, want.comments) {
			continue
		}
		if err := r.store.SetUserReferences(ctx, u.ID, want.bookings, want.comments); err != nil {
			return report, apperrors.Unexpected("Failed to update user references", err)
		}
		report.UsersUpdated++
	}
	for _, c := range cars {
		want := get(byCar, c.ID)
		if slices.Equal(c.BookingIDs, want.bookings) && slices.Equal(c.CommentIDs, want.comments) {
			continue
		}
		if err := r.store.SetCarReferences(ctx, c.ID, want.bookings, want.comments); err != nil {
			return report, apperrors.Unexpected("Failed to update car references", err)
		}
		report.CarsUpdated++
	}

	log.Printf("✅ Reference lists rebuilt: %d user(s), %d car(s) updated", report.UsersUpdated, report.CarsUpdated)
	return report, nil
}
