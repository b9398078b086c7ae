// Package events defines the notifications services emit for live admin
// dashboards.
package events

import (
	"sync"
	"time"

	"github.com/anjiri1684/supercar_rentals/models"
	"github.com/google/uuid"
)

const (
	BookingCreated       = "booking.created"
	BookingStatusChanged = "booking.status_changed"
	CommentCreated       = "comment.created"
	CommentUpdated       = "comment.updated"
	CommentModerated     = "comment.moderated"
)

type Event struct {
	Type       string    `json:"type"`
	Payload    any       `json:"payload"`
	OccurredAt time.Time `json:"occurredAt"`
}

type Publisher interface {
	Publish(event Event)
}

// OwnerOf returns the user the event's payload belongs to, or uuid.Nil.
func OwnerOf(e Event) uuid.UUID {
	switch p := e.Payload.(type) {
	case models.Booking:
		return p.UserID
	case models.Comment:
		return p.UserID
	}
	return uuid.Nil
}

// Fanout delivers each event to every publisher in order.
type Fanout []Publisher

func (f Fanout) Publish(event Event) {
	for _, p := range f {
		p.Publish(event)
	}
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(Event) {}

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	Events []Event
}

func (r *Recorder) Publish(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, event)
}

func (r *Recorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.Events))
	for _, e := range r.Events {
		out = append(out, e.Type)
	}
	return out
}
