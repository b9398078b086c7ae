package jobs

import (
	"context"
	"log"
	"time"

	"github.com/anjiri1684/supercar_rentals/database"
	"github.com/anjiri1684/supercar_rentals/models"
	"github.com/anjiri1684/supercar_rentals/notifications"
)

// OverdueReturns alerts the operator about ACTIVE bookings whose end date has
// passed. Booking status is left for an admin to settle.
type OverdueReturns struct {
	Store      database.Store
	Mailer     notifications.Mailer
	AdminEmail string
	Now        func() time.Time
}

func (j *OverdueReturns) Run(ctx context.Context) []models.Booking {
	log.Println("Running job: CheckForOverdueReturns...")

	active, err := j.Store.ListBookings(ctx, database.BookingFilter{
		Statuses: []models.BookingStatus{models.BookingActive},
	})
	if err != nil {
		log.Printf("Error checking for overdue returns: %v", err)
		return nil
	}

	now := j.Now()
	var overdue []models.Booking
	for _, b := range active {
		if b.EndDate.Before(now) {
			overdue = append(overdue, b)
		}
	}
	if len(overdue) == 0 {
		log.Println("No overdue returns found.")
		return nil
	}

	body := "<h1>Overdue returns</h1><ul>"
	for _, b := range overdue {
		body += "<li>" + b.InvoiceNumber + " (car " + b.CarID.String() + "), due " + b.EndDate.Format("2006-01-02") + "</li>"
	}
	body += "</ul>"
	if j.AdminEmail != "" {
		if err := j.Mailer.SendEmail("", j.AdminEmail, "Overdue vehicle returns", body); err != nil {
			log.Printf("🔥 Failed to send overdue alert: %v", err)
		}
	}

	log.Printf("⚠️ %d booking(s) overdue for return.", len(overdue))
	return overdue
}
