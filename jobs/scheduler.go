package jobs

import (
	"context"
	"log"

	"github.com/anjiri1684/supercar_rentals/services"
	"github.com/robfig/cron/v3"
)

type Schedule struct {
	Reminders *PickupReminders
	Overdue   *OverdueReturns
	Indexer   *services.ReferenceIndexer
}

// Start registers the recurring jobs and starts the cron runner.
func Start(ctx context.Context, s Schedule) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc("@hourly", func() { s.Reminders.Run(ctx) }); err != nil {
		return nil, err
	}
	if _, err := c.AddFunc("*/30 * * * *", func() { s.Overdue.Run(ctx) }); err != nil {
		return nil, err
	}
	if _, err := c.AddFunc("0 3 * * *", func() {
		if _, err := s.Indexer.Rebuild(ctx); err != nil {
			log.Printf("🔥 Nightly reindex failed: %v", err)
		}
	}); err != nil {
		return nil, err
	}
	c.Start()
	log.Println("✅ Cron jobs scheduled successfully.")
	return c, nil
}
