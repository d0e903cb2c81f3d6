package repository

import (
	"sync"

	"realtime_chat_service/internal/chat/domain"
	"realtime_chat_service/pkg"
)

const (
	// RoomHistoryLimit per-room message capacity, FIFO eviction
	RoomHistoryLimit = 100
	// GlobalHistoryLimit global message capacity, FIFO eviction
	GlobalHistoryLimit = 500
)

// HistoryStore bounded in-memory message history: one buffer per room, one
// global buffer for id lookup, and per-pair private conversation logs. Both
// bounded buffers hold pointers to the same message objects, so a reaction
// recorded through the global index stays visible in room pagination. The two
// buffers evict independently; an id evicted from the global buffer is gone
// for reaction and read-receipt lookups even if the room still holds it.
type HistoryStore struct {
	mu      sync.RWMutex
	rooms   map[string][]*domain.ChatMessage
	global  []*domain.ChatMessage
	private map[string][]*domain.ChatMessage
}

// NewHistoryStore create an empty HistoryStore
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{
		rooms:   make(map[string][]*domain.ChatMessage),
		private: make(map[string][]*domain.ChatMessage),
	}
}

// Append push msg onto the room buffer and the global buffer, evicting the
// oldest entry of either once it runs past capacity.
func (s *HistoryStore) Append(room string, msg *domain.ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf := append(s.rooms[room], msg)
	if len(buf) > RoomHistoryLimit {
		buf = buf[1:]
	}
	s.rooms[room] = buf

	s.global = append(s.global, msg)
	if len(s.global) > GlobalHistoryLimit {
		s.global = s.global[1:]
	}
}

// Paginate address the room buffer in reverse-chronological pages: page 1 is
// the most recent limit messages, newest first. hasMore reports whether older
// messages remain below this page.
func (s *HistoryStore) Paginate(room string, page, limit int) ([]domain.ChatMessage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.rooms[room]
	n := len(msgs)

	start := (page - 1) * limit
	end := start + limit

	lo := n - end
	if lo < 0 {
		lo = 0
	}
	hi := n - start
	if hi < 0 {
		hi = 0
	}

	out := make([]domain.ChatMessage, 0, hi-lo)
	for i := hi - 1; i >= lo; i-- {
		out = append(out, msgs[i].Clone())
	}

	return out, n > end
}

// FindByID scan the global buffer only; evicted ids report false.
func (s *HistoryStore) FindByID(id string) (domain.ChatMessage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if msg := s.findLocked(id); msg != nil {
		return msg.Clone(), true
	}
	return domain.ChatMessage{}, false
}

// AddReaction record username under symbol on the stored message. Returns
// false when the message is unknown or the user already reacted with that
// symbol.
func (s *HistoryStore) AddReaction(messageID, symbol, username string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := s.findLocked(messageID)
	if msg == nil {
		return false
	}

	if msg.Reactions == nil {
		msg.Reactions = make(map[string][]string)
	}
	if pkg.Contains(msg.Reactions[symbol], username) {
		return false
	}
	msg.Reactions[symbol] = append(msg.Reactions[symbol], username)
	return true
}

// MarkRead record connID in the message's readBy set. Returns false when the
// message is unknown or the connection already read it.
func (s *HistoryStore) MarkRead(messageID, connID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := s.findLocked(messageID)
	if msg == nil {
		return false
	}

	if pkg.Contains(msg.ReadBy, connID) {
		return false
	}
	msg.ReadBy = append(msg.ReadBy, connID)
	return true
}

// AppendPrivate append msg to the conversation log under key
func (s *HistoryStore) AppendPrivate(key string, msg *domain.ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.private[key] = append(s.private[key], msg)
}

// PrivateConversation snapshot of the conversation log under key
func (s *HistoryStore) PrivateConversation(key string) []domain.ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.private[key]
	out := make([]domain.ChatMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.Clone())
	}
	return out
}

// RoomMessageCount messages currently buffered for room
func (s *HistoryStore) RoomMessageCount(room string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.rooms[room])
}

func (s *HistoryStore) findLocked(id string) *domain.ChatMessage {
	for _, msg := range s.global {
		if msg.ID == id {
			return msg
		}
	}
	return nil
}
