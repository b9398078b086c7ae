package handlers

import (
	"fmt"
	"html"
	"time"

	"github.com/anjiri1684/supercar_rentals/middleware"
	"github.com/anjiri1684/supercar_rentals/models"
	"github.com/anjiri1684/supercar_rentals/notifications"
	"github.com/anjiri1684/supercar_rentals/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AuthHandler struct {
	accounts *services.AccountService
	mailer   notifications.Mailer
	secret   string
}

func NewAuthHandler(accounts *services.AccountService, mailer notifications.Mailer, secret string) *AuthHandler {
	return &AuthHandler{accounts: accounts, mailer: mailer, secret: secret}
}

type RegisterRequest struct {
	FullName string  `json:"fullName" validate:"required,min=2"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6"`
	Phone    *string `json:"phone,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	FullName          *string `json:"fullName"`
	Phone             *string `json:"phone"`
	Address           *string `json:"address"`
	ProfilePictureURL *string `json:"profilePictureUrl" validate:"omitempty,url"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserResponse(u *models.User) UserResponse {
	return UserResponse{ID: u.ID, FullName: u.FullName, Email: u.Email, Role: u.Role, CreatedAt: u.CreatedAt}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	user, err := h.accounts.Register(c.UserContext(), services.RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
	})
	if err != nil {
		return respondError(c, err)
	}

	if h.mailer != nil {
		go h.mailer.SendEmail(user.FullName, user.Email, "Welcome to Supercar Rentals!",
			fmt.Sprintf("<h1>Welcome, %s!</h1><p>Thank you for registering. Your first drive is a few clicks away.</p>", html.EscapeString(user.FullName)))
	}

	return c.Status(fiber.StatusCreated).JSON(toUserResponse(user))
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	user, err := h.accounts.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	t, err := middleware.IssueToken(h.secret, user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to create token"})
	}

	return c.JSON(fiber.Map{"token": t, "user": toUserResponse(user)})
}

func (h *AuthHandler) GetProfile(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, err)
	}
	user, err := h.accounts.FindByID(c.UserContext(), p.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, err)
	}
	var req UpdateProfileRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	user, err := h.accounts.UpdateProfile(c.UserContext(), p.UserID, services.ProfileInput{
		FullName:          req.FullName,
		Phone:             req.Phone,
		Address:           req.Address,
		ProfilePictureURL: req.ProfilePictureURL,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}
