package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	config "github.com/anjiri1684/supercar_rentals/configs"
	"github.com/anjiri1684/supercar_rentals/database"
	"github.com/anjiri1684/supercar_rentals/events"
	"github.com/anjiri1684/supercar_rentals/handlers"
	"github.com/anjiri1684/supercar_rentals/jobs"
	"github.com/anjiri1684/supercar_rentals/metrics"
	"github.com/anjiri1684/supercar_rentals/notifications"
	"github.com/anjiri1684/supercar_rentals/routes"
	"github.com/anjiri1684/supercar_rentals/services"
	"github.com/anjiri1684/supercar_rentals/websocket"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	secret := config.Config("JWT_SECRET")
	if secret == "" {
		log.Fatal("🔥 JWT_SECRET is required")
	}

	database.ConnectDB()
	database.Migrate()
	metrics.Register()
	store := database.NewGormStore(database.DB)

	mailer := notifications.NewEmailService(
		config.Config("BREVO_API_KEY"),
		config.Config("EMAIL_SENDER"),
		config.Config("EMAIL_SENDER_NAME"),
	)

	hub := websocket.NewHub()
	go hub.Run(ctx)
	publisher := events.Fanout{hub, notifications.NewBookingNotifier(store, mailer)}

	ratings := services.NewRatingAggregator(store)
	comments := services.NewCommentService(store, ratings, publisher)
	accounts := services.NewAccountService(store, comments)
	bookings := services.NewBookingService(store, publisher)
	cars := services.NewCarService(store)
	indexer := services.NewReferenceIndexer(store)
	currency := services.NewCurrencyConverter(config.Config("EXCHANGE_RATE_API_KEY"))
	cloudinaryURL := config.Config("CLOUDINARY_URL")

	if err := accounts.SeedAdmin(ctx, config.Config("ADMIN_EMAIL"), config.Config("ADMIN_PASSWORD"), config.Config("ADMIN_FULL_NAME")); err != nil {
		log.Printf("🔥 Failed to seed admin user: %v", err)
	}
	if path := config.Config("CAR_CATALOG_PATH"); path != "" {
		if catalog, err := config.LoadCatalog(path); err != nil {
			log.Printf("🔥 Failed to load car catalog: %v", err)
		} else if _, err := cars.SeedCatalog(ctx, catalog); err != nil {
			log.Printf("🔥 Failed to seed car catalog: %v", err)
		}
	}
	go func() {
		if _, err := currency.FetchRates(ctx); err != nil {
			log.Printf("⚠️ Exchange rates unavailable at startup: %v", err)
		}
	}()

	scheduler, err := jobs.Start(ctx, jobs.Schedule{
		Reminders: jobs.NewPickupReminders(store, mailer),
		Overdue:   &jobs.OverdueReturns{Store: store, Mailer: mailer, AdminEmail: config.Config("ADMIN_EMAIL"), Now: time.Now},
		Indexer:   indexer,
	})
	if err != nil {
		log.Fatalf("🔥 Failed to schedule jobs: %v", err)
	}
	defer scheduler.Stop()

	app := routes.NewApp(routes.Handlers{
		Auth:     handlers.NewAuthHandler(accounts, mailer, secret),
		Cars:     handlers.NewCarHandler(cars, currency),
		Bookings: handlers.NewBookingHandler(bookings, services.NewInvoiceService(store, nil, cloudinaryURL)),
		Comments: handlers.NewCommentHandler(comments),
		Admin:    handlers.NewAdminHandler(services.NewDashboardService(store), services.NewReportService(store), indexer, accounts),
		Uploads:  handlers.NewUploadHandler(cloudinaryURL),
		Ws:       handlers.NewWsHandler(hub, secret),
	}, routes.Options{JWTSecret: secret, AccessLog: true, RateLimit: 20})

	go func() {
		<-ctx.Done()
		log.Println("Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("🔥 Server shutdown failed: %v", err)
		}
	}()

	port := config.ConfigDefault("PORT", "8080")
	log.Printf("✅ Server is running on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}
