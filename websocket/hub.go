package websocket

import (
	"context"
	"log"

	"github.com/anjiri1684/supercar_rentals/events"
	"github.com/google/uuid"
)

// Conn is the subset of a websocket connection the hub writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

type Client struct {
	UserID uuid.UUID
	Admin  bool
	Conn   Conn
}

// Hub fans service events out to connected admin dashboards. Customers may
// connect but only receive events about their own bookings and reviews.
type Hub struct {
	clients    map[*Client]bool
	Register   chan *Client
	Unregister chan *Client
	broadcast  chan events.Event
	done       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		broadcast:  make(chan events.Event, 64),
		done:       make(chan struct{}),
	}
}

// Join registers a client with the running hub. It reports false once the
// hub has stopped.
func (h *Hub) Join(client *Client) bool {
	select {
	case h.Register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Leave unregisters a client. It returns immediately after the hub stops.
func (h *Hub) Leave(client *Client) {
	select {
	case h.Unregister <- client:
	case <-h.done:
	}
}

// Publish queues an event for delivery. Events are dropped when the queue is
// full so that services never block on slow sockets.
func (h *Hub) Publish(event events.Event) {
	select {
	case h.broadcast <- event:
	default:
		log.Printf("⚠️ Websocket hub queue full, dropping %s event", event.Type)
	}
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				client.Conn.Close()
				delete(h.clients, client)
			}
			return
		case client := <-h.Register:
			log.Printf("Client registered: %s (admin=%t)", client.UserID, client.Admin)
			h.clients[client] = true
		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				log.Printf("Client unregistered: %s", client.UserID)
				delete(h.clients, client)
			}
		case event := <-h.broadcast:
			owner := events.OwnerOf(event)
			for client := range h.clients {
				if !client.Admin && client.UserID != owner {
					continue
				}
				if err := client.Conn.WriteJSON(event); err != nil {
					log.Printf("Error sending %s to client %s: %v", event.Type, client.UserID, err)
					client.Conn.Close()
					delete(h.clients, client)
				}
			}
		}
	}
}
