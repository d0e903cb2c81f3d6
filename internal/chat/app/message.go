package app

import (
	"context"
	"time"

	"realtime_chat_service/internal/chat/domain"
	"realtime_chat_service/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const archiveTimeout = 5 * time.Second

// SendMessage build a message from the request, store it, and broadcast
// receive_message to the room. The room is created when it does not exist
// yet. The sender counts as having read their own message.
func (h *Hub) SendMessage(connID string, req domain.WSRequest) (domain.ChatMessage, bool) {
	h.mu.Lock()

	c, ok := h.clients[connID]
	if !ok {
		h.mu.Unlock()
		return domain.ChatMessage{}, false
	}

	roomName := req.Room
	if roomName == "" {
		roomName = DefaultRoom
	}

	msg := &domain.ChatMessage{
		ID:        uuid.New().String(),
		Sender:    c.Username(),
		SenderID:  connID,
		Message:   req.Message,
		Room:      roomName,
		FileURL:   req.FileURL,
		FileName:  req.FileName,
		FileType:  req.FileType,
		Timestamp: time.Now(),
		Reactions: make(map[string][]string),
		ReadBy:    []string{connID},
	}

	h.ensureRoomLocked(roomName)
	h.history.Append(roomName, msg)

	out := msg.Clone()
	h.broadcastRoomLocked(roomName, domain.Event{Event: domain.EventReceiveMessage, Payload: out}, "")
	h.mu.Unlock()

	if h.archiver != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
			defer cancel()
			if err := h.archiver.Archive(ctx, out); err != nil {
				logger.Log.Errorf("archive message failed:", err, zap.String("messageID", out.ID))
			}
		}()
	}

	return out, true
}

// AddReaction record the caller's reaction on a stored message. An unknown
// (evicted) message id is absorbed silently. The reaction notice goes to
// every connection, not just the room.
func (h *Hub) AddReaction(connID, messageID, reaction string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.clients[connID]
	if !ok {
		return
	}

	if !h.history.AddReaction(messageID, reaction, c.Username()) {
		return
	}

	h.broadcastLocked(domain.Event{
		Event:   domain.EventMessageReaction,
		Payload: domain.ReactionEvent{MessageID: messageID, Reaction: reaction, User: c.Username()},
	})
}

// MarkRead record a read receipt. The notice goes to the room only the first
// time this connection marks the message; unknown ids are absorbed silently.
func (h *Hub) MarkRead(connID, messageID, roomName string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[connID]; !ok {
		return
	}
	if roomName == "" {
		roomName = DefaultRoom
	}

	if !h.history.MarkRead(messageID, connID) {
		return
	}

	h.broadcastRoomLocked(roomName, domain.Event{
		Event:   domain.EventMessageRead,
		Payload: domain.ReadEvent{MessageID: messageID, ReadBy: connID},
	}, "")
}

// SendPrivateMessage deliver a direct message to the first live connection
// whose username matches, echoing it back to the sender as well. No match
// means the message is dropped without a trace.
func (h *Hub) SendPrivateMessage(connID, to, message string) (domain.ChatMessage, bool) {
	h.mu.Lock()

	c, ok := h.clients[connID]
	if !ok {
		h.mu.Unlock()
		return domain.ChatMessage{}, false
	}

	var target *Client
	for _, id := range h.order {
		if h.clients[id].Username() == to {
			target = h.clients[id]
			break
		}
	}
	if target == nil {
		h.mu.Unlock()
		logger.Log.Debug("private message to unknown recipient dropped", zap.String("to", to))
		return domain.ChatMessage{}, false
	}

	msg := &domain.ChatMessage{
		ID:        uuid.New().String(),
		Sender:    c.Username(),
		SenderID:  connID,
		Message:   message,
		Timestamp: time.Now(),
		Reactions: make(map[string][]string),
		ReadBy:    []string{connID},
		IsPrivate: true,
		To:        to,
	}

	h.history.AppendPrivate(domain.ConversationKey(c.Username(), to), msg)

	out := msg.Clone()
	evt := domain.Event{Event: domain.EventPrivateMessage, Payload: out}
	target.deliver(evt)
	if target.ID() != connID {
		c.deliver(evt)
	}
	h.mu.Unlock()

	if h.archiver != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
			defer cancel()
			if err := h.archiver.Archive(ctx, out); err != nil {
				logger.Log.Errorf("archive private message failed:", err, zap.String("messageID", out.ID))
			}
		}()
	}

	return out, true
}

// UpdateStatus change the connection's status string and tell everyone
func (h *Hub) UpdateStatus(connID, status string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.clients[connID]
	if !ok {
		return
	}

	c.conn.Status = status
	h.broadcastLocked(domain.Event{
		Event:   domain.EventUserStatusUpdate,
		Payload: domain.StatusEvent{UserID: connID, Status: status},
	})
}
