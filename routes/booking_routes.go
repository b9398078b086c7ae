package routes

import (
	"github.com/anjiri1684/supercar_rentals/handlers"
	"github.com/anjiri1684/supercar_rentals/middleware"
	"github.com/gofiber/fiber/v2"
)

func BookingRoutes(api fiber.Router, h *handlers.BookingHandler, protected fiber.Handler) {
	admin := middleware.AdminRequired()

	bookings := api.Group("/bookings", protected)
	bookings.Post("", h.Create)
	bookings.Get("", admin, h.List)
	bookings.Get("/user/:userId", h.ListByUser)
	bookings.Get("/car/:carId", h.ListByCar)
	bookings.Get("/:id", h.Get)
	bookings.Get("/:id/invoice", h.Invoice)
	bookings.Patch("/:id/status", admin, h.UpdateStatus)
	bookings.Post("/:id/cancel", h.Cancel)
	bookings.Delete("/:id", admin, h.Delete)
}
