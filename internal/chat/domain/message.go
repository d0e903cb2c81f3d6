package domain

import (
	"sort"
	"strings"
	"time"
)

// ChatMessage one chat message. Room messages carry the room name; private
// messages carry IsPrivate and the recipient username instead.
type ChatMessage struct {
	ID        string              `json:"id"`
	Sender    string              `json:"sender"`
	SenderID  string              `json:"senderId"`
	Message   string              `json:"message"`
	Room      string              `json:"room,omitempty"`
	FileURL   string              `json:"fileUrl,omitempty"`
	FileName  string              `json:"fileName,omitempty"`
	FileType  string              `json:"fileType,omitempty"`
	Timestamp time.Time           `json:"timestamp"`
	Reactions map[string][]string `json:"reactions"`
	ReadBy    []string            `json:"readBy"`
	IsPrivate bool                `json:"isPrivate,omitempty"`
	To        string              `json:"to,omitempty"`
}

// Clone returns a deep copy safe to hand to readers while the original keeps
// being mutated under the store lock.
func (m *ChatMessage) Clone() ChatMessage {
	out := *m

	if m.Reactions != nil {
		out.Reactions = make(map[string][]string, len(m.Reactions))
		for symbol, users := range m.Reactions {
			out.Reactions[symbol] = append([]string(nil), users...)
		}
	}
	out.ReadBy = append([]string(nil), m.ReadBy...)

	return out
}

// ConversationKey canonical key for the private conversation between two
// usernames: lexicographically sorted, hyphen-joined.
func ConversationKey(a, b string) string {
	pair := []string{a, b}
	sort.Strings(pair)
	return strings.Join(pair, "-")
}
