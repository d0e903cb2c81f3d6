package app

import (
	"context"
	"encoding/json"
	"time"

	"realtime_chat_service/internal/chat/domain"
	"realtime_chat_service/pkg/logger"
	"realtime_chat_service/pkg/middlewares"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

// ChatWebsocketHandler bridges one websocket connection to the hub
type ChatWebsocketHandler struct {
	hub *Hub
}

// NewChatWebsocketHandler create ChatWebsocketHandler
func NewChatWebsocketHandler(hub *Hub) *ChatWebsocketHandler {
	return &ChatWebsocketHandler{hub: hub}
}

// HandleConnection is the entry point for an upgraded websocket connection.
// The identity was bound to locals by the JWT middleware before the upgrade.
func (h *ChatWebsocketHandler) HandleConnection(ctx context.Context, conn *websocket.Conn) {
	userID, _ := conn.Locals(middlewares.TokenUserID).(string)
	username, _ := conn.Locals(middlewares.TokenUsername).(string)
	logger.Log.Info("websocket connection", zap.String("userID", userID), zap.String("username", username))

	client := h.hub.Register(userID, username)

	ticker := time.NewTicker(10 * time.Minute)
	ctxClose, cancel := context.WithCancel(context.Background())

	defer func() {
		ticker.Stop()
		cancel()
		// cleanup runs on in-memory state only; safe after transport death
		h.hub.Unregister(client.ID())
		conn.Close()
		logger.Log.Info("websocket close", zap.String("username", username))
	}()

	conn.SetCloseHandler(func(code int, text string) error {
		logger.Log.Infof("WebSocket closed:", conn.RemoteAddr())
		return nil
	})

	conn.SetPongHandler(func(appData string) error {
		return nil
	})

	// writer: drain the hub's outbound queue for this connection
	go func() {
		for evt := range client.Events() {
			if err := conn.WriteJSON(evt); err != nil {
				logger.Log.Errorf("write event error:", err, zap.String("username", username))
				return
			}
		}
	}()

	// keepalive pings
	go func() {
		for {
			select {
			case <-ticker.C:
				if err := conn.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
					logger.Log.Errorf("Ping error:", err)
					return
				}
			case <-ctxClose.Done():
				return
			}
		}
	}()

	for {
		mt, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				logger.Log.Infof("Connection closed:", err)
			} else {
				logger.Log.Errorf("websocket read error:", err)
			}
			return
		}
		if mt != websocket.TextMessage {
			continue
		}
		h.dispatch(client.ID(), message)
	}
}

func (h *ChatWebsocketHandler) dispatch(connID string, msg []byte) {
	var req domain.WSRequest
	if err := json.Unmarshal(msg, &req); err != nil {
		logger.Log.Errorf("json unmarshal error:", err)
		return
	}

	switch domain.Action(req.Action) {
	case domain.JoinRoom:
		h.hub.JoinRoom(connID, req.Room)

	case domain.LeaveRoom:
		h.hub.LeaveRoom(connID, req.Room)

	case domain.SendMessage:
		h.hub.SendMessage(connID, req)

	case domain.AddReaction:
		h.hub.AddReaction(connID, req.MessageID, req.Reaction)

	case domain.Typing:
		h.hub.SetTyping(connID, req.Room, req.IsTyping)

	case domain.PrivateMessage:
		h.hub.SendPrivateMessage(connID, req.To, req.Message)

	case domain.MarkMessageRead:
		h.hub.MarkRead(connID, req.MessageID, req.Room)

	case domain.UpdateStatus:
		h.hub.UpdateStatus(connID, req.Status)

	default:
		logger.Log.Warn("unknown websocket action", zap.String("action", req.Action))
	}
}
