package services

import (
	"context"
	"testing"

	"github.com/anjiri1684/supercar_rentals/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecomputeRating(t *testing.T) {
	tests := []struct {
		name      string
		ratings   []int
		wantAvg   float64
		wantCount int
	}{
		{"none", nil, 0, 0},
		{"single", []int{3}, 3, 1},
		{"four and five", []int{4, 5}, 4.5, 2},
		{"no rounding", []int{5, 4, 4}, 13.0 / 3.0, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comments := make([]models.Comment, 0, len(tt.ratings))
			for _, r := range tt.ratings {
				comments = append(comments, models.Comment{Rating: r})
			}
			avg, count := RecomputeRating(comments)
			assert.Equal(t, tt.wantAvg, avg)
			assert.Equal(t, tt.wantCount, count)
		})
	}
}

func TestRatingAggregatorIgnoresUnapproved(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	car := env.seedCar(t, true)

	for _, c := range []models.Comment{
		{CarID: car.ID, Rating: 5, Status: models.CommentApproved},
		{CarID: car.ID, Rating: 1, Status: models.CommentPending},
		{CarID: car.ID, Rating: 1, Status: models.CommentRejected},
		{CarID: car.ID, Rating: 3, Status: models.CommentApproved},
	} {
		require.NoError(t, env.store.SaveComment(ctx, &c))
	}

	avg, count, err := env.ratings.Recompute(ctx, car.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, avg)
	assert.Equal(t, 2, count)

	stored, err := env.store.FindCarByID(ctx, car.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, stored.AverageRating)
	assert.Equal(t, 2, stored.TotalReviews)
}
