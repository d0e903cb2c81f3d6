package app

import (
	"realtime_chat_service/internal/chat/domain"
	"realtime_chat_service/pkg"
)

// JoinRoom add the connection to roomName, creating the room on first
// reference. Joining twice is a membership no-op, but the join notices are
// emitted every time.
func (h *Hub) JoinRoom(connID, roomName string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.clients[connID]
	if !ok {
		return
	}

	r := h.ensureRoomLocked(roomName)
	if !pkg.Contains(r.members, connID) {
		r.members = append(r.members, connID)
	}

	c.deliver(domain.Event{Event: domain.EventRoomJoined, Payload: roomName})
	h.broadcastRoomLocked(roomName, domain.Event{
		Event:   domain.EventUserJoinedRoom,
		Payload: domain.RoomEvent{Username: c.Username(), Room: roomName},
	}, "")
}

// LeaveRoom remove the connection from roomName. Leaving a room you are not
// in is a membership no-op; the leave notice still goes to the room's
// remaining members either way.
func (h *Hub) LeaveRoom(connID, roomName string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.clients[connID]
	if !ok {
		return
	}

	if r, ok := h.rooms[roomName]; ok {
		r.members = removeString(r.members, connID)
	}

	h.broadcastRoomLocked(roomName, domain.Event{
		Event:   domain.EventUserLeftRoom,
		Payload: domain.RoomEvent{Username: c.Username(), Room: roomName},
	}, "")
}
