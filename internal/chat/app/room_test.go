package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"realtime_chat_service/internal/chat/domain"
)

func TestJoinRoomCreatesRoomAndNotifies(t *testing.T) {
	h := newTestHub()

	alice := h.Register("u-alice", "alice")
	bob := h.Register("u-bob", "bob")
	drain(alice)
	drain(bob)

	h.JoinRoom(alice.ID(), "random")
	h.JoinRoom(bob.ID(), "random")

	assert.Equal(t, []string{alice.ID(), bob.ID()}, h.RoomMembers("random"))

	aliceEvts := drain(alice)
	joined := eventsOf(aliceEvts, domain.EventRoomJoined)
	require.Len(t, joined, 1)
	assert.Equal(t, "random", joined[0].Payload)

	// alice also saw bob arrive in the room
	arrivals := eventsOf(aliceEvts, domain.EventUserJoinedRoom)
	require.Len(t, arrivals, 2)
	assert.Equal(t, domain.RoomEvent{Username: "bob", Room: "random"}, arrivals[1].Payload)
}

func TestJoinRoomTwiceKeepsSingleMembership(t *testing.T) {
	h := newTestHub()

	alice := h.Register("u-alice", "alice")
	h.JoinRoom(alice.ID(), "random")
	h.JoinRoom(alice.ID(), "random")

	assert.Equal(t, []string{alice.ID()}, h.RoomMembers("random"))
}

func TestLeaveRoomNotifiesRemainingMembers(t *testing.T) {
	h := newTestHub()

	alice := h.Register("u-alice", "alice")
	bob := h.Register("u-bob", "bob")
	h.JoinRoom(alice.ID(), "random")
	h.JoinRoom(bob.ID(), "random")
	drain(bob)

	h.LeaveRoom(alice.ID(), "random")

	assert.Equal(t, []string{bob.ID()}, h.RoomMembers("random"))

	left := eventsOf(drain(bob), domain.EventUserLeftRoom)
	require.Len(t, left, 1)
	assert.Equal(t, domain.RoomEvent{Username: "alice", Room: "random"}, left[0].Payload)
}

func TestLeaveRoomNotJoinedIsMembershipNoOp(t *testing.T) {
	h := newTestHub()

	alice := h.Register("u-alice", "alice")
	bob := h.Register("u-bob", "bob")
	h.JoinRoom(bob.ID(), "random")

	h.LeaveRoom(alice.ID(), "random")

	assert.Equal(t, []string{bob.ID()}, h.RoomMembers("random"))
}
