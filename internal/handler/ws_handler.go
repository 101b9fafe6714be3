package handler

import (
	"go-inventory-tracker/internal/ws"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const ownerLocal = "ws_owner_id"

type WSHandler struct {
	hub *ws.Hub
}

func NewWSHandler(hub *ws.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

// Upgrade admits authenticated websocket upgrades and pins the connection to the caller.
func (h *WSHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	c.Locals(ownerLocal, owner)
	return c.Next()
}

// Stream keeps the connection registered until the client goes away.
func (h *WSHandler) Stream() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		owner, ok := conn.Locals(ownerLocal).(uuid.UUID)
		if !ok {
			_ = conn.Close()
			return
		}

		client := &ws.Client{OwnerID: owner, Conn: conn}
		if !h.hub.Register(client) {
			_ = conn.Close()
			return
		}
		defer h.hub.Unregister(client)

		for {
			// Keep alive loop
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	})
}
