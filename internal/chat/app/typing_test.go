package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"realtime_chat_service/internal/chat/domain"
)

func TestTypingBroadcastExcludesTyper(t *testing.T) {
	h := newTestHub()

	alice := h.Register("u-alice", "alice")
	bob := h.Register("u-bob", "bob")
	drain(alice)
	drain(bob)

	h.SetTyping(alice.ID(), DefaultRoom, true)

	assert.Empty(t, eventsOf(drain(alice), domain.EventTypingUsers))

	bobEvts := eventsOf(drain(bob), domain.EventTypingUsers)
	require.Len(t, bobEvts, 1)
	assert.Equal(t, []string{"alice"}, bobEvts[0].Payload)
}

func TestTypingStopClearsEntry(t *testing.T) {
	h := newTestHub()

	alice := h.Register("u-alice", "alice")
	bob := h.Register("u-bob", "bob")

	h.SetTyping(alice.ID(), DefaultRoom, true)
	h.SetTyping(alice.ID(), DefaultRoom, false)
	drain(alice)
	drain(bob)

	assert.Empty(t, h.TypingUsers(DefaultRoom))

	h.SetTyping(bob.ID(), DefaultRoom, true)
	typing := eventsOf(drain(alice), domain.EventTypingUsers)
	require.Len(t, typing, 1)
	assert.Equal(t, []string{"bob"}, typing[0].Payload)
}

func TestTypingUsernamesDeduplicated(t *testing.T) {
	h := newTestHub()

	// two connections for the same username
	a1 := h.Register("u-alice", "alice")
	a2 := h.Register("u-alice", "alice")
	h.Register("u-bob", "bob")

	h.SetTyping(a1.ID(), DefaultRoom, true)
	h.SetTyping(a2.ID(), DefaultRoom, true)

	assert.Equal(t, []string{"alice"}, h.TypingUsers(DefaultRoom))
}

func TestTypingEmptyRoomDefaultsToGeneral(t *testing.T) {
	h := newTestHub()

	alice := h.Register("u-alice", "alice")
	h.SetTyping(alice.ID(), "", true)

	assert.Equal(t, []string{"alice"}, h.TypingUsers(DefaultRoom))
}
