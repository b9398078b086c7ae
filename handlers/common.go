package handlers

import (
	"errors"
	"log"

	"github.com/anjiri1684/supercar_rentals/apperrors"
	"github.com/anjiri1684/supercar_rentals/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var validate = validator.New()

func respondError(c *fiber.Ctx, err error) error {
	code := apperrors.CodeOf(err)
	if code == apperrors.CodeUnexpected {
		log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
	}
	return c.Status(apperrors.HTTPStatus(code)).JSON(fiber.Map{"message": apperrors.MessageOf(err)})
}

// ErrorHandler is the app-wide fallback for errors returned by handlers and
// middleware.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
	}
	return respondError(c, err)
}

func parseBody(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return apperrors.Validation("Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return apperrors.Validation(err.Error())
	}
	return nil
}

func paramID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperrors.Validation("Invalid " + name)
	}
	return id, nil
}

// queryID parses an optional UUID query parameter.
func queryID(c *fiber.Ctx, key string) (*uuid.UUID, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return nil, apperrors.Validation("Invalid " + key)
	}
	return &id, nil
}

func principal(c *fiber.Ctx) (middleware.Principal, error) {
	p, err := middleware.CurrentUser(c)
	if err != nil {
		return p, apperrors.Forbidden("Invalid token claims")
	}
	return p, nil
}

// selfOrAdmin rejects non-admins acting on another user's resources.
func selfOrAdmin(p middleware.Principal, userID uuid.UUID) error {
	if p.IsAdmin() || p.UserID == userID {
		return nil
	}
	return apperrors.Forbidden("You can only access your own resources")
}
