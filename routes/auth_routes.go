package routes

import (
	"github.com/anjiri1684/supercar_rentals/handlers"
	"github.com/gofiber/fiber/v2"
)

func AuthRoutes(api fiber.Router, h *handlers.AuthHandler, protected, limit fiber.Handler) {
	auth := api.Group("/auth")
	auth.Post("/register", h.Register)
	auth.Post("/login", limit, h.Login)

	profile := api.Group("/profile", protected)
	profile.Get("", h.GetProfile)
	profile.Put("", h.UpdateProfile)
}
