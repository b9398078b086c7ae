package routes

import (
	"github.com/anjiri1684/supercar_rentals/handlers"
	"github.com/anjiri1684/supercar_rentals/middleware"
	"github.com/gofiber/fiber/v2"
)

func CarRoutes(api fiber.Router, h *handlers.CarHandler, protected fiber.Handler) {
	admin := middleware.AdminRequired()

	cars := api.Group("/cars")
	cars.Get("", h.List)
	cars.Get("/:id", h.Get)
	cars.Post("", protected, admin, h.Create)
	cars.Put("/:id", protected, admin, h.Update)
	cars.Patch("/:id/availability", protected, admin, h.SetAvailability)
	cars.Delete("/:id", protected, admin, h.Delete)
}
