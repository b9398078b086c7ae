package services

import (
	"context"

	"github.com/anjiri1684/supercar_rentals/apperrors"
	"github.com/anjiri1684/supercar_rentals/database"
	"github.com/anjiri1684/supercar_rentals/metrics"
	"github.com/anjiri1684/supercar_rentals/models"
	"github.com/google/uuid"
)

// RecomputeRating returns the arithmetic mean of the given ratings and how
// many there were. An empty set yields (0, 0). No rounding is applied.
func RecomputeRating(approved []models.Comment) (float64, int) {
	if len(approved) == 0 {
		return 0, 0
	}
	sum := 0
	for _, c := range approved {
		sum += c.Rating
	}
	return float64(sum) / float64(len(approved)), len(approved)
}

// RatingAggregator is the only writer of Car.AverageRating and
// Car.TotalReviews.
type RatingAggregator struct {
	store database.Store
}

func NewRatingAggregator(store database.Store) *RatingAggregator {
	return &RatingAggregator{store: store}
}

// Recompute re-scans the approved comments of a car and stores the result.
func (r *RatingAggregator) Recompute(ctx context.Context, carID uuid.UUID) (float64, int, error) {
	approved := models.CommentApproved
	comments, err := r.store.ListComments(ctx, database.CommentFilter{CarID: &carID, Status: &approved})
	if err != nil {
		return 0, 0, apperrors.Unexpected("Failed to load approved reviews", err)
	}

	avg, count := RecomputeRating(comments)
	if err := r.store.UpdateCarRating(ctx, carID, avg, count); err != nil {
		return 0, 0, apperrors.Unexpected("Failed to update car rating", err)
	}
	metrics.IncRatingRecomputed()
	return avg, count, nil
}
