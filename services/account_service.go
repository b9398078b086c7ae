package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/anjiri1684/supercar_rentals/apperrors"
	"github.com/anjiri1684/supercar_rentals/database"
	"github.com/anjiri1684/supercar_rentals/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type RegisterInput struct {
	FullName string
	Email    string
	Password string
	Phone    *string
}

// ProfileInput leaves nil fields unchanged.
type ProfileInput struct {
	FullName          *string
	Phone             *string
	Address           *string
	ProfilePictureURL *string
}

type AccountService struct {
	store    database.Store
	comments *CommentService
	hashCost int
}

func NewAccountService(store database.Store, comments *CommentService) *AccountService {
	return &AccountService{store: store, comments: comments, hashCost: bcrypt.DefaultCost}
}

// WithHashCost lowers the bcrypt cost; tests use bcrypt.MinCost.
func (s *AccountService) WithHashCost(cost int) *AccountService {
	s.hashCost = cost
	return s
}

func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	return s.create(ctx, in, models.RoleCustomer)
}

func (s *AccountService) create(ctx context.Context, in RegisterInput, role string) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" || strings.TrimSpace(in.FullName) == "" {
		return nil, apperrors.Validation("fullName, email and password are required")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, apperrors.Unexpected("Failed to hash password", err)
	}

	user := &models.User{
		ID:       uuid.New(),
		FullName: strings.TrimSpace(in.FullName),
		Email:    email,
		Password: string(hashedPassword),
		Role:     role,
		Phone:    in.Phone,
		IsActive: true,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicateKey) {
			return nil, apperrors.Conflict("Email already exists")
		}
		return nil, apperrors.Unexpected("Failed to create user", err)
	}
	return user, nil
}

func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.store.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, apperrors.Unexpected("Failed to load user", err)
	}
	if user == nil {
		return nil, apperrors.Forbidden("Invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperrors.Forbidden("Invalid email or password")
	}
	if !user.IsActive {
		return nil, apperrors.Forbidden("Account is deactivated")
	}
	return user, nil
}

// FindByID is the user lookup consumed by the booking and review flows.
func (s *AccountService) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.store.FindUserByID(ctx, id)
	if err != nil {
		return nil, apperrors.Unexpected("Failed to load user", err)
	}
	if user == nil {
		return nil, apperrors.NotFound("User not found")
	}
	return user, nil
}

func (s *AccountService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, apperrors.Unexpected("Failed to list users", err)
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

func (s *AccountService) UpdateProfile(ctx context.Context, id uuid.UUID, in ProfileInput) (*models.User, error) {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.FullName != nil {
		if strings.TrimSpace(*in.FullName) == "" {
			return nil, apperrors.Validation("fullName cannot be empty")
		}
		user.FullName = strings.TrimSpace(*in.FullName)
	}
	if in.Phone != nil {
		user.Phone = in.Phone
	}
	if in.Address != nil {
		user.Address = in.Address
	}
	if in.ProfilePictureURL != nil {
		user.ProfilePictureURL = in.ProfilePictureURL
	}

	if err := s.store.UpdateUserProfile(ctx, user); err != nil {
		return nil, apperrors.Unexpected("Failed to update profile", err)
	}
	return user, nil
}

// DeleteUser removes the account and every review it wrote. Bookings are
// kept for the rental history.
func (s *AccountService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if _, err := s.FindByID(ctx, id); err != nil {
		return err
	}
	removed, err := s.comments.DeleteAllForUser(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteUser(ctx, id); err != nil {
		return apperrors.Unexpected("Failed to delete user", err)
	}
	log.Printf("✅ Deleted user %s and %d review(s)", id, removed)
	return nil
}

// SeedAdmin creates the admin account once. An existing account with the
// same email is left as is.
func (s *AccountService) SeedAdmin(ctx context.Context, email, password, fullName string) error {
	if email == "" || password == "" {
		log.Println("⚠️ ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin seed.")
		return nil
	}

	existing, err := s.store.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return apperrors.Unexpected("Failed to check for admin user", err)
	}
	if existing != nil {
		log.Println("Admin user already exists.")
		return nil
	}

	if fullName == "" {
		fullName = "Administrator"
	}
	if _, err := s.create(ctx, RegisterInput{FullName: fullName, Email: email, Password: password}, models.RoleAdmin); err != nil {
		return err
	}
	log.Println("✅ Admin user seeded successfully")
	return nil
}
