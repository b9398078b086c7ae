package handlers

import (
	"log"

	"github.com/anjiri1684/supercar_rentals/middleware"
	"github.com/anjiri1684/supercar_rentals/websocket"
	websocketcontrib "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type WsHandler struct {
	hub    *websocket.Hub
	secret string
}

func NewWsHandler(hub *websocket.Hub, secret string) *WsHandler {
	return &WsHandler{hub: hub, secret: secret}
}

type authMessage struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

// ServeWs authenticates the socket with its first message and then keeps it
// registered with the hub until the client goes away. Inbound messages after
// auth are ignored.
func (h *WsHandler) ServeWs(c *websocketcontrib.Conn) {
	var authMsg authMessage
	if err := c.ReadJSON(&authMsg); err != nil || authMsg.Type != "auth" {
		log.Printf("WebSocket auth failed: invalid or missing auth message, error: %v", err)
		_ = c.WriteJSON(fiber.Map{"message": "Invalid or missing auth message"})
		c.Close()
		return
	}

	p, err := middleware.ParseToken(h.secret, authMsg.Token)
	if err != nil {
		log.Printf("WebSocket auth failed: invalid token, error: %v", err)
		_ = c.WriteJSON(fiber.Map{"message": "Invalid token"})
		c.Close()
		return
	}

	// The hub owns writes once the client is registered.
	_ = c.WriteJSON(fiber.Map{"type": "auth.ok"})
	client := &websocket.Client{UserID: p.UserID, Admin: p.IsAdmin(), Conn: c}
	if !h.hub.Join(client) {
		c.Close()
		return
	}
	defer func() {
		h.hub.Leave(client)
		c.Close()
	}()

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			if websocketcontrib.IsCloseError(err, websocketcontrib.CloseGoingAway, websocketcontrib.CloseAbnormalClosure) {
				log.Printf("WebSocket closed for client %s: %v", p.UserID, err)
			} else {
				log.Printf("WebSocket read error for client %s: %v", p.UserID, err)
			}
			return
		}
	}
}
