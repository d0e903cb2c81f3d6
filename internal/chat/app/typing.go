package app

import (
	"sort"

	"realtime_chat_service/internal/chat/domain"
	"realtime_chat_service/pkg"
)

// SetTyping upsert or clear the caller's typing entry for a room, then send
// the distinct usernames still typing to every other member. No timers: the
// client is responsible for the stop-typing signal.
func (h *Hub) SetTyping(connID, roomName string, isTyping bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.clients[connID]
	if !ok {
		return
	}
	if roomName == "" {
		roomName = DefaultRoom
	}

	typers := h.typing[roomName]
	if typers == nil {
		typers = make(map[string]string)
		h.typing[roomName] = typers
	}

	if isTyping {
		typers[connID] = c.Username()
	} else {
		delete(typers, connID)
	}

	usernames := make([]string, 0, len(typers))
	for _, name := range typers {
		if !pkg.Contains(usernames, name) {
			usernames = append(usernames, name)
		}
	}
	sort.Strings(usernames)

	h.broadcastRoomLocked(roomName, domain.Event{Event: domain.EventTypingUsers, Payload: usernames}, connID)
}

// TypingUsers distinct usernames currently typing in a room
func (h *Hub) TypingUsers(roomName string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	usernames := make([]string, 0, len(h.typing[roomName]))
	for _, name := range h.typing[roomName] {
		if !pkg.Contains(usernames, name) {
			usernames = append(usernames, name)
		}
	}
	sort.Strings(usernames)
	return usernames
}
