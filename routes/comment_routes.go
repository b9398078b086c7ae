package routes

import (
	"github.com/anjiri1684/supercar_rentals/handlers"
	"github.com/anjiri1684/supercar_rentals/middleware"
	"github.com/gofiber/fiber/v2"
)

func CommentRoutes(api fiber.Router, h *handlers.CommentHandler, protected, limit fiber.Handler) {
	admin := middleware.AdminRequired()

	comments := api.Group("/comments")
	comments.Get("/car/:carId", h.ListByCar)
	comments.Get("/pending", protected, admin, h.ListPending)
	comments.Get("/user/:userId", protected, h.ListByUser)
	comments.Post("", protected, limit, h.Create)
	comments.Put("/:id", protected, h.Update)
	comments.Delete("/:id", protected, h.Delete)
	comments.Patch("/:id/moderate", protected, admin, h.Moderate)
}
