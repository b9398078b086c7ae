package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	config "github.com/anjiri1684/supercar_rentals/configs"
	"github.com/anjiri1684/supercar_rentals/database"
	"github.com/anjiri1684/supercar_rentals/events"
	"github.com/anjiri1684/supercar_rentals/services"
	"github.com/urfave/cli/v3"
	"gorm.io/gorm"
)

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "rentctl",
		Usage: "operator tooling for the supercar rentals database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "database-url",
				Usage:   "postgres connection string (defaults to DATABASE_URL)",
				Sources: cli.EnvVars("DATABASE_URL"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "create or update the database schema",
				Action: runMigrate,
			},
			{
				Name:  "seed",
				Usage: "create the admin account and load the car catalog",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "catalog",
						Usage: "path to a YAML car catalog",
						Value: "configs/cars.yaml",
					},
				},
				Action: runSeed,
			},
			{
				Name:   "reindex",
				Usage:  "rebuild bookingIds and commentIds on users and cars",
				Action: runReindex,
			},
			{
				Name:  "export",
				Usage: "write the bookings report to an xlsx file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "from", Usage: "first start date (YYYY-MM-DD)"},
					&cli.StringFlag{Name: "to", Usage: "last start date (YYYY-MM-DD)"},
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file (defaults to a dated name)"},
				},
				Action: runExport,
			},
		},
	}
}

func openDB(cmd *cli.Command) (*gorm.DB, error) {
	dsn := cmd.String("database-url")
	if dsn == "" {
		dsn = config.Config("DATABASE_URL")
	}
	if dsn == "" {
		return nil, fmt.Errorf("no database url: set --database-url or DATABASE_URL")
	}
	db, err := database.Open(dsn)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	return db, nil
}

func openStore(cmd *cli.Command) (*database.GormStore, error) {
	db, err := openDB(cmd)
	if err != nil {
		return nil, err
	}
	return database.NewGormStore(db), nil
}

func runMigrate(ctx context.Context, cmd *cli.Command) error {
	db, err := openDB(cmd)
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	log.Println("✅ Database migration successful")
	return nil
}

func runSeed(ctx context.Context, cmd *cli.Command) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}

	ratings := services.NewRatingAggregator(store)
	accounts := services.NewAccountService(store, services.NewCommentService(store, ratings, events.Nop{}))
	if err := accounts.SeedAdmin(ctx, config.Config("ADMIN_EMAIL"), config.Config("ADMIN_PASSWORD"), config.Config("ADMIN_FULL_NAME")); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	path := cmd.String("catalog")
	if path == "" {
		return nil
	}
	catalog, err := config.LoadCatalog(path)
	if err != nil {
		return err
	}
	created, err := services.NewCarService(store).SeedCatalog(ctx, catalog)
	if err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	log.Printf("✅ Seeded %d of %d catalog cars", created, len(catalog.Cars))
	return nil
}

func runReindex(ctx context.Context, cmd *cli.Command) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	report, err := services.NewReferenceIndexer(store).Rebuild(ctx)
	if err != nil {
		return fmt.Errorf("reindex: %w", err)
	}
	log.Printf("✅ Reindexed %d users and %d cars", report.UsersUpdated, report.CarsUpdated)
	return nil
}

func runExport(ctx context.Context, cmd *cli.Command) error {
	from, to, err := exportRange(cmd.String("from"), cmd.String("to"))
	if err != nil {
		return err
	}
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	data, err := services.NewReportService(store).BookingsReport(ctx, from, to)
	if err != nil {
		return fmt.Errorf("build report: %w", err)
	}

	out := cmd.String("out")
	if out == "" {
		out = services.ReportFileName(from, to)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	log.Printf("✅ Wrote %s", out)
	return nil
}

// exportRange parses the optional --from/--to pair. Empty values leave the
// corresponding bound zero.
func exportRange(fromValue, toValue string) (time.Time, time.Time, error) {
	var from, to time.Time
	var err error
	if fromValue != "" {
		if from, err = services.ParseBookingDate(fromValue); err != nil {
			return from, to, fmt.Errorf("invalid --from: %w", err)
		}
	}
	if toValue != "" {
		if to, err = services.ParseBookingDate(toValue); err != nil {
			return from, to, fmt.Errorf("invalid --to: %w", err)
		}
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return from, to, fmt.Errorf("--to must not be before --from")
	}
	return from, to, nil
}
