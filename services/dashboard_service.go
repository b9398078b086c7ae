package services

import (
	"context"

	"github.com/anjiri1684/supercar_rentals/apperrors"
	"github.com/anjiri1684/supercar_rentals/database"
	"github.com/anjiri1684/supercar_rentals/models"
	"golang.org/x/sync/errgroup"
)

type DashboardStats struct {
	TotalUsers     int64   `json:"totalUsers"`
	TotalCars      int64   `json:"totalCars"`
	TotalBookings  int64   `json:"totalBookings"`
	ActiveBookings int64   `json:"activeBookings"`
	PendingReviews int64   `json:"pendingReviews"`
	TotalRevenue   float64 `json:"totalRevenue"`
	AvailableCars  int     `json:"availableCars"`
}

type DashboardService struct {
	store database.Store
}

func NewDashboardService(store database.Store) *DashboardService {
	return &DashboardService{store: store}
}

func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		stats.TotalUsers, err = s.store.CountUsers(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalCars, err = s.store.CountCars(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalBookings, err = s.store.CountBookings(ctx, database.BookingFilter{})
		return err
	})
	g.Go(func() (err error) {
		stats.ActiveBookings, err = s.store.CountBookings(ctx, database.BookingFilter{Statuses: models.BlockingStatuses})
		return err
	})
	g.Go(func() (err error) {
		pending := models.CommentPending
		stats.PendingReviews, err = s.store.CountComments(ctx, database.CommentFilter{Status: &pending})
		return err
	})
	g.Go(func() error {
		paid := models.PaymentPaid
		bookings, err := s.store.ListBookings(ctx, database.BookingFilter{PaymentStatus: &paid})
		if err != nil {
			return err
		}
		for _, b := range bookings {
			stats.TotalRevenue += b.TotalAmount
		}
		return nil
	})
	g.Go(func() error {
		available := true
		cars, err := s.store.ListCars(ctx, database.CarFilter{Available: &available})
		if err != nil {
			return err
		}
		stats.AvailableCars = len(cars)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, apperrors.Unexpected("Failed to load dashboard", err)
	}
	return &stats, nil
}
