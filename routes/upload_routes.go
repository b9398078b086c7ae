package routes

import (
	"github.com/anjiri1684/supercar_rentals/handlers"
	"github.com/gofiber/fiber/v2"
)

func UploadRoutes(api fiber.Router, h *handlers.UploadHandler, protected fiber.Handler) {
	uploads := api.Group("/uploads", protected)
	uploads.Get("/signature", h.Signature)
}
