package routes

import (
	"github.com/anjiri1684/supercar_rentals/handlers"
	"github.com/anjiri1684/supercar_rentals/middleware"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(api fiber.Router, h *handlers.AdminHandler, protected fiber.Handler) {
	admin := api.Group("/admin", protected, middleware.AdminRequired())

	admin.Get("/dashboard", h.Dashboard)
	admin.Post("/reindex", h.Reindex)

	reports := admin.Group("/reports")
	reports.Get("/bookings", h.BookingsReport)

	users := admin.Group("/users")
	users.Get("", h.ListUsers)
	users.Delete("/:userId", h.DeleteUser)
}
