package database

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/anjiri1684/supercar_rentals/models"
	"github.com/google/uuid"
)

// MemoryStore is a process-local Store used by tests and local tooling.
// Transactions are serialized but not rolled back on error.
type MemoryStore struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	cars     map[uuid.UUID]models.Car
	users    map[uuid.UUID]models.User
	bookings map[uuid.UUID]models.Booking
	comments map[uuid.UUID]models.Comment

	// Now stamps CreatedAt/UpdatedAt. Defaults to time.Now.
	Now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cars:     make(map[uuid.UUID]models.Car),
		users:    make(map[uuid.UUID]models.User),
		bookings: make(map[uuid.UUID]models.Booking),
		comments: make(map[uuid.UUID]models.Comment),
		Now:      time.Now,
	}
}

func (m *MemoryStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	return fn(m)
}

func (m *MemoryStore) stamp(created, updated *time.Time) {
	now := m.Now()
	if created != nil && created.IsZero() {
		*created = now
	}
	*updated = now
}

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func cloneCar(c models.Car) models.Car {
	c.Images = slices.Clone(c.Images)
	c.BookingIDs = slices.Clone(c.BookingIDs)
	c.CommentIDs = slices.Clone(c.CommentIDs)
	return c
}

func cloneUser(u models.User) models.User {
	u.BookingIDs = slices.Clone(u.BookingIDs)
	u.CommentIDs = slices.Clone(u.CommentIDs)
	return u
}

func cloneComment(c models.Comment) models.Comment {
	c.Images = slices.Clone(c.Images)
	if c.AdminResponse != nil {
		r := *c.AdminResponse
		c.AdminResponse = &r
	}
	return c
}

// Cars

func (m *MemoryStore) FindCarByID(ctx context.Context, id uuid.UUID) (*models.Car, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	car, ok := m.cars[id]
	if !ok {
		return nil, nil
	}
	car = cloneCar(car)
	return &car, nil
}

func (m *MemoryStore) LockCarByID(ctx context.Context, id uuid.UUID) (*models.Car, error) {
	return m.FindCarByID(ctx, id)
}

func (m *MemoryStore) ListCars(ctx context.Context, filter CarFilter) ([]models.Car, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Car
	for _, car := range m.cars {
		if filter.Make != "" && !strings.EqualFold(car.Make, filter.Make) {
			continue
		}
		if filter.Available != nil && car.Available != *filter.Available {
			continue
		}
		out = append(out, cloneCar(car))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryStore) CountCars(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.cars)), nil
}

func (m *MemoryStore) CreateCar(ctx context.Context, car *models.Car) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ensureID(&car.ID)
	m.stamp(&car.CreatedAt, &car.UpdatedAt)
	m.cars[car.ID] = cloneCar(*car)
	return nil
}

func (m *MemoryStore) UpdateCarDetails(ctx context.Context, car *models.Car) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.cars[car.ID]
	if !ok {
		return nil
	}
	updated := cloneCar(*car)
	updated.AverageRating = existing.AverageRating
	updated.TotalReviews = existing.TotalReviews
	updated.BookingIDs = existing.BookingIDs
	updated.CommentIDs = existing.CommentIDs
	updated.CreatedAt = existing.CreatedAt
	m.stamp(nil, &updated.UpdatedAt)
	m.cars[car.ID] = updated
	return nil
}

func (m *MemoryStore) DeleteCar(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.cars, id)
	return nil
}

func (m *MemoryStore) SetCarAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if car, ok := m.cars[id]; ok {
		car.Available = available
		m.stamp(nil, &car.UpdatedAt)
		m.cars[id] = car
	}
	return nil
}

func (m *MemoryStore) UpdateCarRating(ctx context.Context, id uuid.UUID, averageRating float64, totalReviews int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if car, ok := m.cars[id]; ok {
		car.AverageRating = averageRating
		car.TotalReviews = totalReviews
		m.stamp(nil, &car.UpdatedAt)
		m.cars[id] = car
	}
	return nil
}

func (m *MemoryStore) SetCarReferences(ctx context.Context, id uuid.UUID, bookingIDs, commentIDs []uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if car, ok := m.cars[id]; ok {
		car.BookingIDs = slices.Clone(bookingIDs)
		car.CommentIDs = slices.Clone(commentIDs)
		m.cars[id] = car
	}
	return nil
}

// Users

func (m *MemoryStore) FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	user = cloneUser(user)
	return &user, nil
}

func (m *MemoryStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, user := range m.users {
		if user.Email == email {
			user = cloneUser(user)
			return &user, nil
		}
	}
	return nil, nil
}

func (m *MemoryStore) ListUsers(ctx context.Context) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.User, 0, len(m.users))
	for _, user := range m.users {
		out = append(out, cloneUser(user))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryStore) CountUsers(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.users)), nil
}

func (m *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return ErrDuplicateKey
		}
	}
	ensureID(&user.ID)
	m.stamp(&user.CreatedAt, &user.UpdatedAt)
	m.users[user.ID] = cloneUser(*user)
	return nil
}

func (m *MemoryStore) UpdateUserProfile(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.users[user.ID]
	if !ok {
		return nil
	}
	existing.FullName = user.FullName
	existing.Phone = user.Phone
	existing.Address = user.Address
	existing.ProfilePictureURL = user.ProfilePictureURL
	existing.IsActive = user.IsActive
	m.stamp(nil, &existing.UpdatedAt)
	m.users[user.ID] = existing
	return nil
}

func (m *MemoryStore) DeleteUser(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
	return nil
}

func (m *MemoryStore) SetUserReferences(ctx context.Context, id uuid.UUID, bookingIDs, commentIDs []uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.users[id]; ok {
		user.BookingIDs = slices.Clone(bookingIDs)
		user.CommentIDs = slices.Clone(commentIDs)
		m.users[id] = user
	}
	return nil
}

// Bookings

func (m *MemoryStore) CreateBooking(ctx context.Context, booking *models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ensureID(&booking.ID)
	m.stamp(&booking.CreatedAt, &booking.UpdatedAt)
	m.bookings[booking.ID] = *booking
	return nil
}

func (m *MemoryStore) FindBookingByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	booking, ok := m.bookings[id]
	if !ok {
		return nil, nil
	}
	return &booking, nil
}

func (f BookingFilter) matches(b models.Booking) bool {
	if f.UserID != nil && b.UserID != *f.UserID {
		return false
	}
	if f.CarID != nil && b.CarID != *f.CarID {
		return false
	}
	if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, b.Status) {
		return false
	}
	if f.PaymentStatus != nil && b.PaymentStatus != *f.PaymentStatus {
		return false
	}
	if f.StartsFrom != nil && b.StartDate.Before(*f.StartsFrom) {
		return false
	}
	if f.StartsTo != nil && b.StartDate.After(*f.StartsTo) {
		return false
	}
	return true
}

func (m *MemoryStore) ListBookings(ctx context.Context, filter BookingFilter) ([]models.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Booking
	for _, booking := range m.bookings {
		if filter.matches(booking) {
			out = append(out, booking)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryStore) CountBookings(ctx context.Context, filter BookingFilter) (int64, error) {
	bookings, err := m.ListBookings(ctx, filter)
	return int64(len(bookings)), err
}

func (m *MemoryStore) FindOverlappingBookings(ctx context.Context, carID uuid.UUID, start, end time.Time, statuses []models.BookingStatus) ([]models.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Booking
	for _, b := range m.bookings {
		if b.CarID != carID || !slices.Contains(statuses, b.Status) {
			continue
		}
		if !b.StartDate.After(end) && !b.EndDate.Before(start) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *MemoryStore) SaveBooking(ctx context.Context, booking *models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ensureID(&booking.ID)
	m.stamp(&booking.CreatedAt, &booking.UpdatedAt)
	m.bookings[booking.ID] = *booking
	return nil
}

func (m *MemoryStore) DeleteBooking(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.bookings, id)
	return nil
}

// Comments

func (m *MemoryStore) CreateComment(ctx context.Context, comment *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.comments {
		if existing.BookingID == comment.BookingID {
			return ErrDuplicateKey
		}
	}
	ensureID(&comment.ID)
	m.stamp(&comment.CreatedAt, &comment.UpdatedAt)
	m.comments[comment.ID] = cloneComment(*comment)
	return nil
}

func (m *MemoryStore) FindCommentByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	comment, ok := m.comments[id]
	if !ok {
		return nil, nil
	}
	comment = cloneComment(comment)
	return &comment, nil
}

func (m *MemoryStore) FindCommentByBookingID(ctx context.Context, bookingID uuid.UUID) (*models.Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, comment := range m.comments {
		if comment.BookingID == bookingID {
			comment = cloneComment(comment)
			return &comment, nil
		}
	}
	return nil, nil
}

func (f CommentFilter) matches(c models.Comment) bool {
	if f.CarID != nil && c.CarID != *f.CarID {
		return false
	}
	if f.UserID != nil && c.UserID != *f.UserID {
		return false
	}
	if f.Status != nil && c.Status != *f.Status {
		return false
	}
	return true
}

func (m *MemoryStore) ListComments(ctx context.Context, filter CommentFilter) ([]models.Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Comment
	for _, comment := range m.comments {
		if filter.matches(comment) {
			out = append(out, cloneComment(comment))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryStore) CountComments(ctx context.Context, filter CommentFilter) (int64, error) {
	comments, err := m.ListComments(ctx, filter)
	return int64(len(comments)), err
}

func (m *MemoryStore) SaveComment(ctx context.Context, comment *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ensureID(&comment.ID)
	m.stamp(&comment.CreatedAt, &comment.UpdatedAt)
	m.comments[comment.ID] = cloneComment(*comment)
	return nil
}

func (m *MemoryStore) DeleteComment(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.comments, id)
	return nil
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*GormStore)(nil)
)
