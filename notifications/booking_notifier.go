package notifications

import (
	"context"
	"fmt"
	"html"
	"log"

	"github.com/anjiri1684/supercar_rentals/database"
	"github.com/anjiri1684/supercar_rentals/events"
	"github.com/anjiri1684/supercar_rentals/models"
	"github.com/google/uuid"
)

// BookingNotifier emails customers about their bookings and reviews. It is
// an events.Publisher; sends run on their own goroutine.
type BookingNotifier struct {
	store  database.Store
	mailer Mailer
	async  bool
}

func NewBookingNotifier(store database.Store, mailer Mailer) *BookingNotifier {
	return &BookingNotifier{store: store, mailer: mailer, async: true}
}

func (n *BookingNotifier) Publish(event events.Event) {
	if n.async {
		go n.handle(event)
		return
	}
	n.handle(event)
}

func (n *BookingNotifier) handle(event events.Event) {
	subject, body, userID, ok := n.compose(event)
	if !ok {
		return
	}
	user, err := n.store.FindUserByID(context.Background(), userID)
	if err != nil {
		log.Printf("🔥 Failed to load user %s for %s email: %v", userID, event.Type, err)
		return
	}
	if user == nil {
		log.Printf("⚠️ Skipping %s email: user %s not found", event.Type, userID)
		return
	}
	if err := n.mailer.SendEmail(user.FullName, user.Email, subject, body); err != nil {
		log.Printf("🔥 Failed to send %s email to %s: %v", event.Type, user.Email, err)
	}
}

func (n *BookingNotifier) compose(event events.Event) (subject, body string, owner uuid.UUID, ok bool) {
	switch p := event.Payload.(type) {
	case models.Booking:
		switch event.Type {
		case events.BookingCreated:
			return "We received your booking " + p.InvoiceNumber,
				fmt.Sprintf("<h1>Booking received</h1><p>Your booking <b>%s</b> from %s to %s is pending confirmation.</p><p>Pickup: %s</p>",
					p.InvoiceNumber, p.StartDate.Format("Jan 2, 2006"), p.EndDate.Format("Jan 2, 2006"), html.EscapeString(p.PickupLocation)),
				p.UserID, true
		case events.BookingStatusChanged:
			if p.Status != models.BookingConfirmed && p.Status != models.BookingCancelled {
				return "", "", owner, false
			}
			return fmt.Sprintf("Booking %s is %s", p.InvoiceNumber, p.Status),
				fmt.Sprintf("<h1>Booking update</h1><p>Your booking <b>%s</b> is now <b>%s</b>.</p>", p.InvoiceNumber, p.Status),
				p.UserID, true
		}
	case models.Comment:
		if event.Type == events.CommentModerated && p.Status == models.CommentApproved {
			return "Your review is live",
				"<h1>Thank you!</h1><p>Your review has been approved and is now visible to other customers.</p>",
				p.UserID, true
		}
	}
	return "", "", owner, false
}
