package events

import (
	"testing"

	"github.com/anjiri1684/supercar_rentals/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestFanout(t *testing.T) {
	a, b := &Recorder{}, &Recorder{}
	Fanout{a, Nop{}, b}.Publish(Event{Type: BookingCreated})

	assert.Equal(t, []string{BookingCreated}, a.Types())
	assert.Equal(t, []string{BookingCreated}, b.Types())
}

func TestOwnerOf(t *testing.T) {
	id := uuid.New()
	assert.Equal(t, id, OwnerOf(Event{Payload: models.Booking{UserID: id}}))
	assert.Equal(t, id, OwnerOf(Event{Payload: models.Comment{UserID: id}}))
	assert.Equal(t, uuid.Nil, OwnerOf(Event{Payload: "other"}))
}
