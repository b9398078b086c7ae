package jobs

import (
	"context"
	"fmt"
	"html"
	"log"
	"time"

	"github.com/anjiri1684/supercar_rentals/database"
	"github.com/anjiri1684/supercar_rentals/models"
	"github.com/anjiri1684/supercar_rentals/notifications"
)

// PickupReminders emails customers whose confirmed booking starts in the
// next [Lead, Lead+Window) span. Scheduled once per Window.
type PickupReminders struct {
	Store  database.Store
	Mailer notifications.Mailer
	Lead   time.Duration
	Window time.Duration
	Now    func() time.Time
}

func NewPickupReminders(store database.Store, mailer notifications.Mailer) *PickupReminders {
	return &PickupReminders{Store: store, Mailer: mailer, Lead: 24 * time.Hour, Window: time.Hour, Now: time.Now}
}

// Run returns how many reminders were sent.
func (j *PickupReminders) Run(ctx context.Context) int {
	log.Println("Running job: SendPickupReminders...")

	lowerBound := j.Now().Add(j.Lead)
	upperBound := lowerBound.Add(j.Window - time.Nanosecond)

	upcoming, err := j.Store.ListBookings(ctx, database.BookingFilter{
		Statuses:   []models.BookingStatus{models.BookingConfirmed},
		StartsFrom: &lowerBound,
		StartsTo:   &upperBound,
	})
	if err != nil {
		log.Printf("Error checking for upcoming pickups: %v", err)
		return 0
	}

	sent := 0
	for _, booking := range upcoming {
		user, err := j.Store.FindUserByID(ctx, booking.UserID)
		if err != nil || user == nil {
			log.Printf("⚠️ No user for booking %s, skipping reminder", booking.ID)
			continue
		}

		emailSubject := "Reminder: Your supercar pickup is tomorrow"
		emailBody := fmt.Sprintf(
			"<h1>Pickup Reminder</h1><p>Hi %s,</p><p>Your booking <b>%s</b> starts at %s.</p><p><b>Pickup:</b> %s</p>",
			html.EscapeString(user.FullName),
			booking.InvoiceNumber,
			booking.StartDate.Format("Mon Jan 2, 15:04"),
			html.EscapeString(booking.PickupLocation),
		)
		if err := j.Mailer.SendEmail(user.FullName, user.Email, emailSubject, emailBody); err != nil {
			log.Printf("🔥 Failed to send pickup reminder for booking %s: %v", booking.ID, err)
			continue
		}
		sent++
	}
	if sent > 0 {
		log.Printf("Sent %d pickup reminder(s).", sent)
	}
	return sent
}
