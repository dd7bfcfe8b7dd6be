// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"strconv"

	"pawhaven/internal/middleware"
	"pawhaven/internal/observability"
	"pawhaven/internal/realtime"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebsocketHandler handles GET /api/ws, the realtime push channel.
// The handshake may carry a JWT in the token query param; a valid one
// joins the user's room. Guests, including callers whose token fails
// validation, stay connected but unaddressed and receive no user
// events.
func (s *Server) WebsocketHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		observability.ActiveWebSockets.Inc()
		defer observability.ActiveWebSockets.Dec()

		ctx := context.Background()

		// A bad or expired token degrades to a guest connection,
		// same as presenting no token at all.
		userID := uint(0)
		if token := conn.Query("token"); token != "" {
			if id, ok := s.validateToken(ctx, token); ok {
				userID = id
			}
		}

		var client *realtime.Client
		if userID != 0 {
			registered, err := s.hub.Register(userID, conn)
			if err != nil {
				middleware.Logger.Warn("websocket registration refused",
					"user_id", userID, "error", err)
				_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"error","payload":{"message":"`+err.Error()+`"}}`))
				_ = conn.Close()
				return
			}
			client = registered
			middleware.Logger.Info("websocket connected", "user_id", userID)
		} else {
			// Guest connection: pumps run but no room membership
			client = realtime.NewClient(s.hub, conn, 0)
		}

		client.TrySend([]byte(`{"type":"connected","payload":{"user_id":` + strconv.FormatUint(uint64(userID), 10) + `}}`))

		// Write pump in a goroutine, read pump blocks this handler
		go client.WritePump()
		client.ReadPump()

		if userID != 0 {
			middleware.Logger.Info("websocket disconnected", "user_id", userID)
		}
	})
}
