package routes

import (
	"time"

	"github.com/anjiri1684/supercar_rentals/handlers"
	"github.com/anjiri1684/supercar_rentals/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Auth     *handlers.AuthHandler
	Cars     *handlers.CarHandler
	Bookings *handlers.BookingHandler
	Comments *handlers.CommentHandler
	Admin    *handlers.AdminHandler
	Uploads  *handlers.UploadHandler
	Ws       *handlers.WsHandler
}

type Options struct {
	JWTSecret string
	// AccessLog enables the request logger middleware.
	AccessLog bool
	// RateLimit caps login and review submissions per IP per minute. Zero
	// disables limiting.
	RateLimit int
}

func NewApp(h Handlers, opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:       "Supercar Rentals",
		CaseSensitive: true,
		ReadTimeout:   15 * time.Second,
		WriteTimeout:  30 * time.Second,
		IdleTimeout:   60 * time.Second,
		ErrorHandler:  handlers.ErrorHandler,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Content-Disposition",
		MaxAge:        86400,
	}))
	app.Use(recover.New())
	if opts.AccessLog {
		app.Use(logger.New(logger.Config{
			TimeFormat: "2006-01-02 15:04:05",
			TimeZone:   "Africa/Nairobi",
			Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api/v1")
	protected := middleware.Protected(opts.JWTSecret)

	AuthRoutes(api, h.Auth, protected, newLimit(opts.RateLimit))
	CarRoutes(api, h.Cars, protected)
	BookingRoutes(api, h.Bookings, protected)
	CommentRoutes(api, h.Comments, protected, newLimit(opts.RateLimit))
	AdminRoutes(api, h.Admin, protected)
	UploadRoutes(api, h.Uploads, protected)
	if h.Ws != nil {
		WsRoutes(api, h.Ws)
	}

	return app
}

// newLimit returns a limiter with its own per-IP counters. Zero disables
// limiting.
func newLimit(max int) fiber.Handler {
	if max <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return middleware.RateLimit(max, time.Minute)
}
