package handlers

import (
	"strconv"

	"github.com/anjiri1684/supercar_rentals/apperrors"
	"github.com/anjiri1684/supercar_rentals/database"
	"github.com/anjiri1684/supercar_rentals/models"
	"github.com/anjiri1684/supercar_rentals/services"
	"github.com/gofiber/fiber/v2"
)

type CarHandler struct {
	cars     *services.CarService
	currency *services.CurrencyConverter
}

func NewCarHandler(cars *services.CarService, currency *services.CurrencyConverter) *CarHandler {
	return &CarHandler{cars: cars, currency: currency}
}

type CarRequest struct {
	Make           string                   `json:"make" validate:"required"`
	Model          string                   `json:"model" validate:"required"`
	Year           int                      `json:"year" validate:"required,min=1886"`
	Specifications models.CarSpecifications `json:"specifications"`
	Images         []string                 `json:"images" validate:"max=20,dive,url"`
	Available      *bool                    `json:"available"`
	Pricing        models.CarPricing        `json:"pricing"`
}

type AvailabilityRequest struct {
	Available *bool `json:"available" validate:"required"`
}

func (r CarRequest) input() services.CarInput {
	return services.CarInput{
		Make:           r.Make,
		Model:          r.Model,
		Year:           r.Year,
		Specifications: r.Specifications,
		Images:         r.Images,
		Available:      r.Available,
		Pricing:        r.Pricing,
	}
}

func (h *CarHandler) List(c *fiber.Ctx) error {
	filter := database.CarFilter{Make: c.Query("make")}
	if v := c.Query("available"); v != "" {
		available, err := strconv.ParseBool(v)
		if err != nil {
			return respondError(c, apperrors.Validation("available must be true or false"))
		}
		filter.Available = &available
	}

	cars, err := h.cars.List(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cars)
}

// Get returns a car. With ?currency=XXX the response also carries the
// pricing converted from USD.
func (h *CarHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	car, err := h.cars.FindByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}

	currency := c.Query("currency")
	if currency == "" || h.currency == nil {
		return c.JSON(car)
	}
	quote, err := h.currency.QuotePricing(c.UserContext(), car.Pricing, currency)
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"message": "Could not retrieve exchange rate"})
	}
	return c.JSON(fiber.Map{"car": car, "currency": currency, "quotedPricing": quote})
}

func (h *CarHandler) Create(c *fiber.Ctx) error {
	var req CarRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	car, err := h.cars.Create(c.UserContext(), req.input())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(car)
}

func (h *CarHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req CarRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	car, err := h.cars.Update(c.UserContext(), id, req.input())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(car)
}

func (h *CarHandler) SetAvailability(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req AvailabilityRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	car, err := h.cars.SetAvailability(c.UserContext(), id, *req.Available)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(car)
}

func (h *CarHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.cars.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Car deleted successfully"})
}
