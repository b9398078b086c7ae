package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/anjiri1684/supercar_rentals/apperrors"
	"github.com/anjiri1684/supercar_rentals/database"
	"github.com/anjiri1684/supercar_rentals/events"
	"github.com/anjiri1684/supercar_rentals/metrics"
	"github.com/anjiri1684/supercar_rentals/models"
	"github.com/google/uuid"
)

const (
	MaxCommentLength = 1000
	MaxCommentImages = 5
)

type CreateCommentInput struct {
	UserID    uuid.UUID
	BookingID uuid.UUID
	Rating    int
	Content   string
	Images    []string
}

// EditCommentInput leaves nil fields unchanged.
type EditCommentInput struct {
	Rating  *int
	Content *string
	Images  []string
}

// CommentService runs the review moderation workflow. Every change to a
// car's comments is followed by a synchronous rating recompute.
type CommentService struct {
	store   database.Store
	ratings *RatingAggregator
	events  events.Publisher
	now     func() time.Time
}

func NewCommentService(store database.Store, ratings *RatingAggregator, publisher events.Publisher) *CommentService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &CommentService{store: store, ratings: ratings, events: publisher, now: time.Now}
}

func (s *CommentService) WithClock(now func() time.Time) *CommentService {
	s.now = now
	return s
}

func validateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return apperrors.Validation("rating must be an integer between 1 and 5")
	}
	return nil
}

func validateContent(content string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(content))
	if n == 0 {
		return apperrors.Validation("content is required")
	}
	if n > MaxCommentLength {
		return apperrors.Validation(fmt.Sprintf("content must be at most %d characters", MaxCommentLength))
	}
	return nil
}

func validateImages(images []string) error {
	if len(images) > MaxCommentImages {
		return apperrors.Validation(fmt.Sprintf("at most %d images are allowed", MaxCommentImages))
	}
	return nil
}

func (s *CommentService) Create(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if in.UserID == uuid.Nil || in.BookingID == uuid.Nil {
		return nil, apperrors.Validation("userId and bookingId are required")
	}
	if err := validateRating(in.Rating); err != nil {
		return nil, err
	}
	if err := validateContent(in.Content); err != nil {
		return nil, err
	}
	if err := validateImages(in.Images); err != nil {
		return nil, err
	}

	booking, err := s.store.FindBookingByID(ctx, in.BookingID)
	if err != nil {
		return nil, apperrors.Unexpected("Failed to load booking", err)
	}
	if booking == nil {
		return nil, apperrors.NotFound("Booking not found")
	}
	if booking.UserID != in.UserID {
		return nil, apperrors.Forbidden("You can only review your own bookings")
	}

	existing, err := s.store.FindCommentByBookingID(ctx, booking.ID)
	if err != nil {
		return nil, apperrors.Unexpected("Failed to check existing reviews", err)
	}
	if existing != nil {
		return nil, apperrors.Conflict("You have already reviewed this booking")
	}

	comment := &models.Comment{
		ID:        uuid.New(),
		UserID:    in.UserID,
		CarID:     booking.CarID,
		BookingID: booking.ID,
		Rating:    in.Rating,
		Content:   strings.TrimSpace(in.Content),
		Images:    in.Images,
		Status:    models.CommentPending,
	}
	if err := s.store.CreateComment(ctx, comment); err != nil {
		if errors.Is(err, database.ErrDuplicateKey) {
			return nil, apperrors.Conflict("You have already reviewed this booking")
		}
		return nil, apperrors.Unexpected("Failed to create review", err)
	}

	if err := s.link(ctx, comment); err != nil {
		return nil, err
	}
	if _, _, err := s.ratings.Recompute(ctx, comment.CarID); err != nil {
		return nil, err
	}

	s.publish(events.CommentCreated, comment)
	return comment, nil
}

// Edit lets the author change a review. The review goes back to PENDING and
// drops out of the car's rating until it is approved again.
func (s *CommentService) Edit(ctx context.Context, commentID, userID uuid.UUID, in EditCommentInput) (*models.Comment, error) {
	comment, err := s.owned(ctx, commentID, userID, "You can only edit your own reviews")
	if err != nil {
		return nil, err
	}

	if in.Rating != nil {
		if err := validateRating(*in.Rating); err != nil {
			return nil, err
		}
		comment.Rating = *in.Rating
	}
	if in.Content != nil {
		if err := validateContent(*in.Content); err != nil {
			return nil, err
		}
		comment.Content = strings.TrimSpace(*in.Content)
	}
	if in.Images != nil {
		if err := validateImages(in.Images); err != nil {
			return nil, err
		}
		comment.Images = in.Images
	}
	comment.Status = models.CommentPending

	if err := s.store.SaveComment(ctx, comment); err != nil {
		return nil, apperrors.Unexpected("Failed to update review", err)
	}
	if _, _, err := s.ratings.Recompute(ctx, comment.CarID); err != nil {
		return nil, err
	}

	s.publish(events.CommentUpdated, comment)
	return comment, nil
}

func (s *CommentService) Delete(ctx context.Context, commentID, userID uuid.UUID) error {
	comment, err := s.owned(ctx, commentID, userID, "You can only delete your own reviews")
	if err != nil {
		return err
	}
	return s.remove(ctx, comment)
}

// Moderate is the admin decision on a review. Approved and rejected reviews
// may be flipped either way by another call.
func (s *CommentService) Moderate(ctx context.Context, commentID uuid.UUID, status models.CommentStatus, response *string) (*models.Comment, error) {
	if status != models.CommentApproved && status != models.CommentRejected {
		return nil, apperrors.Validation("status must be APPROVED or REJECTED")
	}

	comment, err := s.find(ctx, commentID)
	if err != nil {
		return nil, err
	}

	comment.Status = status
	if response != nil && strings.TrimSpace(*response) != "" {
		comment.AdminResponse = &models.AdminResponse{
			Text:        strings.TrimSpace(*response),
			RespondedAt: s.now(),
		}
	}

	if err := s.store.SaveComment(ctx, comment); err != nil {
		return nil, apperrors.Unexpected("Failed to moderate review", err)
	}
	if _, _, err := s.ratings.Recompute(ctx, comment.CarID); err != nil {
		return nil, err
	}

	metrics.IncModerationDecision(string(status))
	s.publish(events.CommentModerated, comment)
	return comment, nil
}

func (s *CommentService) Get(ctx context.Context, commentID uuid.UUID) (*models.Comment, error) {
	return s.find(ctx, commentID)
}

// ListByCar returns the car's approved reviews, newest first.
func (s *CommentService) ListByCar(ctx context.Context, carID uuid.UUID) ([]models.Comment, error) {
	approved := models.CommentApproved
	return s.list(ctx, database.CommentFilter{CarID: &carID, Status: &approved})
}

func (s *CommentService) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Comment, error) {
	return s.list(ctx, database.CommentFilter{UserID: &userID})
}

func (s *CommentService) ListPending(ctx context.Context) ([]models.Comment, error) {
	pending := models.CommentPending
	return s.list(ctx, database.CommentFilter{Status: &pending})
}

// DeleteAllForUser removes every review written by userID and recomputes
// each affected car once.
func (s *CommentService) DeleteAllForUser(ctx context.Context, userID uuid.UUID) (int, error) {
	comments, err := s.store.ListComments(ctx, database.CommentFilter{UserID: &userID})
	if err != nil {
		return 0, apperrors.Unexpected("Failed to load user reviews", err)
	}

	touched := make(map[uuid.UUID]struct{})
	for _, c := range comments {
		if err := s.store.DeleteComment(ctx, c.ID); err != nil {
			return 0, apperrors.Unexpected("Failed to delete review", err)
		}
		if err := s.unlinkCar(ctx, c); err != nil {
			return 0, err
		}
		touched[c.CarID] = struct{}{}
	}
	for carID := range touched {
		if _, _, err := s.ratings.Recompute(ctx, carID); err != nil {
			return 0, err
		}
	}
	return len(comments), nil
}

func (s *CommentService) list(ctx context.Context, filter database.CommentFilter) ([]models.Comment, error) {
	comments, err := s.store.ListComments(ctx, filter)
	if err != nil {
		return nil, apperrors.Unexpected("Failed to list reviews", err)
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	return comments, nil
}

func (s *CommentService) find(ctx context.Context, commentID uuid.UUID) (*models.Comment, error) {
	comment, err := s.store.FindCommentByID(ctx, commentID)
	if err != nil {
		return nil, apperrors.Unexpected("Failed to load review", err)
	}
	if comment == nil {
		return nil, apperrors.NotFound("Review not found")
	}
	return comment, nil
}

func (s *CommentService) owned(ctx context.Context, commentID, userID uuid.UUID, denied string) (*models.Comment, error) {
	comment, err := s.find(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != userID {
		return nil, apperrors.Forbidden(denied)
	}
	return comment, nil
}

func (s *CommentService) remove(ctx context.Context, comment *models.Comment) error {
	if err := s.store.DeleteComment(ctx, comment.ID); err != nil {
		return apperrors.Unexpected("Failed to delete review", err)
	}
	if err := s.unlinkCar(ctx, *comment); err != nil {
		return err
	}
	if user, err := s.store.FindUserByID(ctx, comment.UserID); err != nil {
		return apperrors.Unexpected("Failed to load user", err)
	} else if user != nil {
		if err := s.store.SetUserReferences(ctx, user.ID, user.BookingIDs, without(user.CommentIDs, comment.ID)); err != nil {
			return apperrors.Unexpected("Failed to update user reviews", err)
		}
	}
	_, _, err := s.ratings.Recompute(ctx, comment.CarID)
	return err
}

func (s *CommentService) link(ctx context.Context, comment *models.Comment) error {
	if car, err := s.store.FindCarByID(ctx, comment.CarID); err != nil {
		return apperrors.Unexpected("Failed to load car", err)
	} else if car != nil {
		if err := s.store.SetCarReferences(ctx, car.ID, car.BookingIDs, append(car.CommentIDs, comment.ID)); err != nil {
			return apperrors.Unexpected("Failed to update car reviews", err)
		}
	}
	if user, err := s.store.FindUserByID(ctx, comment.UserID); err != nil {
		return apperrors.Unexpected("Failed to load user", err)
	} else if user != nil {
		if err := s.store.SetUserReferences(ctx, user.ID, user.BookingIDs, append(user.CommentIDs, comment.ID)); err != nil {
			return apperrors.Unexpected("Failed to update user reviews", err)
		}
	}
	return nil
}

func (s *CommentService) unlinkCar(ctx context.Context, comment models.Comment) error {
	car, err := s.store.FindCarByID(ctx, comment.CarID)
	if err != nil {
		return apperrors.Unexpected("Failed to load car", err)
	}
	if car == nil {
		return nil
	}
	if err := s.store.SetCarReferences(ctx, car.ID, car.BookingIDs, without(car.CommentIDs, comment.ID)); err != nil {
		return apperrors.Unexpected("Failed to update car reviews", err)
	}
	return nil
}

func (s *CommentService) publish(eventType string, comment *models.Comment) {
	s.events.Publish(events.Event{Type: eventType, Payload: *comment, OccurredAt: s.now()})
}
