package app

import (
	"sync"

	"realtime_chat_service/internal/chat/domain"
	"realtime_chat_service/internal/chat/repository"
	"realtime_chat_service/pkg"
	"realtime_chat_service/pkg/logger"

	"go.uber.org/zap"
)

// DefaultRoom every connection joins on registration
const DefaultRoom = "general"

// Hub owns all live chat state: the connection registry, room memberships,
// typing maps, and the history store. Every mutation goes through a hub
// method under one lock; fan-out never blocks on a slow consumer because
// delivery is a non-blocking push onto each client's buffered queue.
type Hub struct {
	mu        sync.RWMutex
	clients   map[string]*Client
	order     []string // connection ids, arrival order
	rooms     map[string]*room
	roomOrder []string // room names, creation order
	typing    map[string]map[string]string // room -> connection id -> username

	history  *repository.HistoryStore
	archiver repository.MessageArchiver
}

type room struct {
	name    string
	members []string // connection ids, arrival order
}

// NewHub create a hub with the default room pre-created. archiver may be nil.
func NewHub(history *repository.HistoryStore, archiver repository.MessageArchiver) *Hub {
	h := &Hub{
		clients:  make(map[string]*Client),
		rooms:    make(map[string]*room),
		typing:   make(map[string]map[string]string),
		history:  history,
		archiver: archiver,
	}
	h.rooms[DefaultRoom] = &room{name: DefaultRoom}
	h.roomOrder = append(h.roomOrder, DefaultRoom)
	return h
}

// Register bind an authenticated identity to a new connection, auto-join the
// default room, and broadcast the refreshed user list plus a join notice.
func (h *Hub) Register(userID, username string) *Client {
	c := newClient(userID, username)

	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[c.ID()] = c
	h.order = append(h.order, c.ID())

	general := h.ensureRoomLocked(DefaultRoom)
	general.members = append(general.members, c.ID())

	h.broadcastLocked(domain.Event{Event: domain.EventUserList, Payload: h.userListLocked()})
	h.broadcastLocked(domain.Event{Event: domain.EventUserJoined, Payload: domain.UserRef{Username: username, ID: c.ID()}})

	logger.Log.Info("connection registered", zap.String("username", username), zap.String("connID", c.ID()))
	return c
}

// Unregister tear down one connection: presence broadcast, removal from every
// room and typing map, registry removal, then a refreshed user list. A second
// call for the same id is a no-op.
func (h *Hub) Unregister(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.clients[connID]
	if !ok {
		return
	}
	username := c.Username()

	h.broadcastLocked(domain.Event{Event: domain.EventUserLeft, Payload: domain.UserRef{Username: username, ID: connID}})

	for _, name := range h.roomOrder {
		r := h.rooms[name]
		if !pkg.Contains(r.members, connID) {
			continue
		}
		r.members = removeString(r.members, connID)
		h.broadcastRoomLocked(name, domain.Event{
			Event:   domain.EventUserLeftRoom,
			Payload: domain.RoomEvent{Username: username, Room: name},
		}, "")
	}

	for _, typers := range h.typing {
		delete(typers, connID)
	}

	delete(h.clients, connID)
	h.order = removeString(h.order, connID)
	c.close()

	h.broadcastLocked(domain.Event{Event: domain.EventUserList, Payload: h.userListLocked()})

	logger.Log.Info("connection unregistered", zap.String("username", username), zap.String("connID", connID))
}

// Users registry snapshot in arrival order
func (h *Hub) Users() []domain.Connection {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.userListLocked()
}

// Rooms room summaries in creation order
func (h *Hub) Rooms() []domain.RoomInfo {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]domain.RoomInfo, 0, len(h.roomOrder))
	for _, name := range h.roomOrder {
		out = append(out, domain.RoomInfo{
			Name:         name,
			UserCount:    len(h.rooms[name].members),
			MessageCount: h.history.RoomMessageCount(name),
		})
	}
	return out
}

// History read access for the REST layer
func (h *Hub) History() *repository.HistoryStore {
	return h.history
}

// RoomMembers member connection ids of a room, arrival order
func (h *Hub) RoomMembers(roomName string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	r, ok := h.rooms[roomName]
	if !ok {
		return nil
	}
	return append([]string(nil), r.members...)
}

func (h *Hub) ensureRoomLocked(name string) *room {
	r, ok := h.rooms[name]
	if !ok {
		r = &room{name: name}
		h.rooms[name] = r
		h.roomOrder = append(h.roomOrder, name)
	}
	return r
}

func (h *Hub) userListLocked() []domain.Connection {
	out := make([]domain.Connection, 0, len(h.order))
	for _, id := range h.order {
		out = append(out, h.clients[id].Info())
	}
	return out
}

func (h *Hub) broadcastLocked(evt domain.Event) {
	for _, id := range h.order {
		h.clients[id].deliver(evt)
	}
}

// broadcastRoomLocked deliver evt to every member of roomName except the
// connection id given in except (empty means no exclusion).
func (h *Hub) broadcastRoomLocked(roomName string, evt domain.Event, except string) {
	r, ok := h.rooms[roomName]
	if !ok {
		return
	}
	for _, id := range r.members {
		if id == except {
			continue
		}
		if c, ok := h.clients[id]; ok {
			c.deliver(evt)
		}
	}
}

func removeString(slice []string, val string) []string {
	out := slice[:0]
	for _, v := range slice {
		if v != val {
			out = append(out, v)
		}
	}
	return out
}
