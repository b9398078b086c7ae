package database

import (
	"context"
	"errors"
	"time"

	"github.com/anjiri1684/supercar_rentals/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrDuplicateKey is returned by Create* when a unique column collides.
var ErrDuplicateKey = gorm.ErrDuplicatedKey

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func first[T any](q *gorm.DB, conds ...any) (*T, error) {
	var out T
	if err := q.First(&out, conds...).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

// Cars

func (s *GormStore) FindCarByID(ctx context.Context, id uuid.UUID) (*models.Car, error) {
	return first[models.Car](s.db.WithContext(ctx), "id = ?", id)
}

func (s *GormStore) LockCarByID(ctx context.Context, id uuid.UUID) (*models.Car, error) {
	return first[models.Car](s.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), "id = ?", id)
}

func (s *GormStore) ListCars(ctx context.Context, filter CarFilter) ([]models.Car, error) {
	q := s.db.WithContext(ctx).Model(&models.Car{})
	if filter.Make != "" {
		q = q.Where("LOWER(make) = LOWER(?)", filter.Make)
	}
	if filter.Available != nil {
		q = q.Where("available = ?", *filter.Available)
	}
	var cars []models.Car
	err := q.Order("created_at desc").Find(&cars).Error
	return cars, err
}

func (s *GormStore) CountCars(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Car{}).Count(&count).Error
	return count, err
}

func (s *GormStore) CreateCar(ctx context.Context, car *models.Car) error {
	return s.db.WithContext(ctx).Create(car).Error
}

func (s *GormStore) UpdateCarDetails(ctx context.Context, car *models.Car) error {
	return s.db.WithContext(ctx).Model(car).
		Select("*").
		Omit("ID", "AverageRating", "TotalReviews", "BookingIDs", "CommentIDs", "CreatedAt").
		Updates(car).Error
}

func (s *GormStore) DeleteCar(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Delete(&models.Car{}, "id = ?", id).Error
}

func (s *GormStore) SetCarAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	return s.db.WithContext(ctx).Model(&models.Car{}).Where("id = ?", id).Update("available", available).Error
}

func (s *GormStore) UpdateCarRating(ctx context.Context, id uuid.UUID, averageRating float64, totalReviews int) error {
	return s.db.WithContext(ctx).Model(&models.Car{}).Where("id = ?", id).
		Updates(map[string]any{"average_rating": averageRating, "total_reviews": totalReviews}).Error
}

func (s *GormStore) SetCarReferences(ctx context.Context, id uuid.UUID, bookingIDs, commentIDs []uuid.UUID) error {
	return s.db.WithContext(ctx).Model(&models.Car{ID: id}).
		Select("BookingIDs", "CommentIDs").
		Updates(&models.Car{BookingIDs: bookingIDs, CommentIDs: commentIDs}).Error
}

// Users

func (s *GormStore) FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return first[models.User](s.db.WithContext(ctx), "id = ?", id)
}

func (s *GormStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return first[models.User](s.db.WithContext(ctx), "email = ?", email)
}

func (s *GormStore) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).Order("created_at desc").Find(&users).Error
	return users, err
}

func (s *GormStore) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error
	return count, err
}

func (s *GormStore) CreateUser(ctx context.Context, user *models.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

func (s *GormStore) UpdateUserProfile(ctx context.Context, user *models.User) error {
	return s.db.WithContext(ctx).Model(user).
		Select("FullName", "Phone", "Address", "ProfilePictureURL", "IsActive").
		Updates(user).Error
}

func (s *GormStore) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id).Error
}

func (s *GormStore) SetUserReferences(ctx context.Context, id uuid.UUID, bookingIDs, commentIDs []uuid.UUID) error {
	return s.db.WithContext(ctx).Model(&models.User{ID: id}).
		Select("BookingIDs", "CommentIDs").
		Updates(&models.User{BookingIDs: bookingIDs, CommentIDs: commentIDs}).Error
}

// Bookings

func (s *GormStore) CreateBooking(ctx context.Context, booking *models.Booking) error {
	return s.db.WithContext(ctx).Create(booking).Error
}

func (s *GormStore) FindBookingByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	return first[models.Booking](s.db.WithContext(ctx), "id = ?", id)
}

func (s *GormStore) bookingQuery(ctx context.Context, filter BookingFilter) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&models.Booking{})
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.CarID != nil {
		q = q.Where("car_id = ?", *filter.CarID)
	}
	if len(filter.Statuses) > 0 {
		q = q.Where("status IN ?", filter.Statuses)
	}
	if filter.PaymentStatus != nil {
		q = q.Where("payment_status = ?", *filter.PaymentStatus)
	}
	if filter.StartsFrom != nil {
		q = q.Where("start_date >= ?", *filter.StartsFrom)
	}
	if filter.StartsTo != nil {
		q = q.Where("start_date <= ?", *filter.StartsTo)
	}
	return q
}

func (s *GormStore) ListBookings(ctx context.Context, filter BookingFilter) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.bookingQuery(ctx, filter).Order("created_at desc").Find(&bookings).Error
	return bookings, err
}

func (s *GormStore) CountBookings(ctx context.Context, filter BookingFilter) (int64, error) {
	var count int64
	err := s.bookingQuery(ctx, filter).Count(&count).Error
	return count, err
}

func (s *GormStore) FindOverlappingBookings(ctx context.Context, carID uuid.UUID, start, end time.Time, statuses []models.BookingStatus) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.WithContext(ctx).
		Where("car_id = ? AND status IN ? AND start_date <= ? AND end_date >= ?", carID, statuses, end, start).
		Find(&bookings).Error
	return bookings, err
}

func (s *GormStore) SaveBooking(ctx context.Context, booking *models.Booking) error {
	return s.db.WithContext(ctx).Save(booking).Error
}

func (s *GormStore) DeleteBooking(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Delete(&models.Booking{}, "id = ?", id).Error
}

// Comments

func (s *GormStore) CreateComment(ctx context.Context, comment *models.Comment) error {
	return s.db.WithContext(ctx).Create(comment).Error
}

func (s *GormStore) FindCommentByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	return first[models.Comment](s.db.WithContext(ctx), "id = ?", id)
}

func (s *GormStore) FindCommentByBookingID(ctx context.Context, bookingID uuid.UUID) (*models.Comment, error) {
	return first[models.Comment](s.db.WithContext(ctx), "booking_id = ?", bookingID)
}

func (s *GormStore) commentQuery(ctx context.Context, filter CommentFilter) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&models.Comment{})
	if filter.CarID != nil {
		q = q.Where("car_id = ?", *filter.CarID)
	}
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	return q
}

func (s *GormStore) ListComments(ctx context.Context, filter CommentFilter) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.commentQuery(ctx, filter).Order("created_at desc").Find(&comments).Error
	return comments, err
}

func (s *GormStore) CountComments(ctx context.Context, filter CommentFilter) (int64, error) {
	var count int64
	err := s.commentQuery(ctx, filter).Count(&count).Error
	return count, err
}

func (s *GormStore) SaveComment(ctx context.Context, comment *models.Comment) error {
	return s.db.WithContext(ctx).Save(comment).Error
}

func (s *GormStore) DeleteComment(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Delete(&models.Comment{}, "id = ?", id).Error
}
