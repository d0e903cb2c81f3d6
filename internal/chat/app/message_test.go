package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"realtime_chat_service/internal/chat/domain"
	"realtime_chat_service/internal/chat/repository"
)

type captureArchiver struct {
	ch chan domain.ChatMessage
}

func newCaptureArchiver() *captureArchiver {
	return &captureArchiver{ch: make(chan domain.ChatMessage, 8)}
}

func (a *captureArchiver) Archive(ctx context.Context, msg domain.ChatMessage) error {
	a.ch <- msg
	return nil
}

func (a *captureArchiver) wait(t *testing.T) domain.ChatMessage {
	t.Helper()
	select {
	case msg := <-a.ch:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("no message archived")
		return domain.ChatMessage{}
	}
}

func TestSendMessageStoresAndBroadcasts(t *testing.T) {
	h := newTestHub()

	alice := h.Register("u-alice", "alice")
	bob := h.Register("u-bob", "bob")
	drain(alice)
	drain(bob)

	msg, ok := h.SendMessage(alice.ID(), domain.WSRequest{Message: "hello"})
	require.True(t, ok)
	assert.Equal(t, "alice", msg.Sender)
	assert.Equal(t, alice.ID(), msg.SenderID)
	assert.Equal(t, DefaultRoom, msg.Room)
	assert.Equal(t, []string{alice.ID()}, msg.ReadBy)
	assert.NotEmpty(t, msg.ID)

	for _, c := range []*Client{alice, bob} {
		recv := eventsOf(drain(c), domain.EventReceiveMessage)
		require.Len(t, recv, 1)
		assert.Equal(t, msg, recv[0].Payload)
	}

	page, hasMore := h.History().Paginate(DefaultRoom, 1, 20)
	require.Len(t, page, 1)
	assert.Equal(t, "hello", page[0].Message)
	assert.False(t, hasMore)
}

func TestSendMessageCreatesMissingRoom(t *testing.T) {
	h := newTestHub()

	alice := h.Register("u-alice", "alice")
	_, ok := h.SendMessage(alice.ID(), domain.WSRequest{Room: "brand-new", Message: "first"})
	require.True(t, ok)

	rooms := h.Rooms()
	require.Len(t, rooms, 2)
	assert.Equal(t, "brand-new", rooms[1].Name)
	assert.Equal(t, 1, rooms[1].MessageCount)
}

func TestSendMessageCarriesAttachmentFields(t *testing.T) {
	h := newTestHub()

	alice := h.Register("u-alice", "alice")
	msg, ok := h.SendMessage(alice.ID(), domain.WSRequest{
		Message:  "see attached",
		FileURL:  "/uploads/123-cat.png",
		FileName: "cat.png",
		FileType: "image/png",
	})
	require.True(t, ok)
	assert.Equal(t, "/uploads/123-cat.png", msg.FileURL)
	assert.Equal(t, "cat.png", msg.FileName)
	assert.Equal(t, "image/png", msg.FileType)
}

func TestAddReactionBroadcastsToEveryone(t *testing.T) {
	h := newTestHub()

	alice := h.Register("u-alice", "alice")
	bob := h.Register("u-bob", "bob")
	carol := h.Register("u-carol", "carol")
	h.JoinRoom(alice.ID(), "private-room")

	msg, _ := h.SendMessage(alice.ID(), domain.WSRequest{Room: "private-room", Message: "react to me"})
	drain(alice)
	drain(bob)
	drain(carol)

	h.AddReaction(bob.ID(), msg.ID, "👍")

	// reaction notices reach every connection, room membership does not matter
	for _, c := range []*Client{alice, bob, carol} {
		reactions := eventsOf(drain(c), domain.EventMessageReaction)
		require.Len(t, reactions, 1)
		assert.Equal(t, domain.ReactionEvent{MessageID: msg.ID, Reaction: "👍", User: "bob"}, reactions[0].Payload)
	}

	stored, found := h.History().FindByID(msg.ID)
	require.True(t, found)
	assert.Equal(t, []string{"bob"}, stored.Reactions["👍"])
}

func TestAddReactionDuplicateIsSilent(t *testing.T) {
	h := newTestHub()

	alice := h.Register("u-alice", "alice")
	bob := h.Register("u-bob", "bob")
	msg, _ := h.SendMessage(alice.ID(), domain.WSRequest{Message: "react"})

	h.AddReaction(bob.ID(), msg.ID, "👍")
	drain(alice)
	drain(bob)

	h.AddReaction(bob.ID(), msg.ID, "👍")

	assert.Empty(t, eventsOf(drain(alice), domain.EventMessageReaction))

	stored, _ := h.History().FindByID(msg.ID)
	assert.Equal(t, []string{"bob"}, stored.Reactions["👍"])
}

func TestAddReactionUnknownMessageIsSilent(t *testing.T) {
	h := newTestHub()

	alice := h.Register("u-alice", "alice")
	bob := h.Register("u-bob", "bob")
	drain(alice)

	h.AddReaction(bob.ID(), "no-such-id", "🔥")

	assert.Empty(t, eventsOf(drain(alice), domain.EventMessageReaction))
}

func TestMarkReadNotifiesRoomOnce(t *testing.T) {
	h := newTestHub()

	alice := h.Register("u-alice", "alice")
	bob := h.Register("u-bob", "bob")
	msg, _ := h.SendMessage(alice.ID(), domain.WSRequest{Message: "read me"})
	drain(alice)
	drain(bob)

	h.MarkRead(bob.ID(), msg.ID, "")

	reads := eventsOf(drain(alice), domain.EventMessageRead)
	require.Len(t, reads, 1)
	assert.Equal(t, domain.ReadEvent{MessageID: msg.ID, ReadBy: bob.ID()}, reads[0].Payload)

	// second mark by the same connection stays quiet
	h.MarkRead(bob.ID(), msg.ID, "")
	assert.Empty(t, eventsOf(drain(alice), domain.EventMessageRead))

	stored, _ := h.History().FindByID(msg.ID)
	assert.Equal(t, []string{alice.ID(), bob.ID()}, stored.ReadBy)
}

func TestPrivateMessageReachesBothPartiesOnly(t *testing.T) {
	h := newTestHub()

	alice := h.Register("u-alice", "alice")
	bob := h.Register("u-bob", "bob")
	carol := h.Register("u-carol", "carol")
	drain(alice)
	drain(bob)
	drain(carol)

	msg, ok := h.SendPrivateMessage(alice.ID(), "bob", "psst")
	require.True(t, ok)
	assert.True(t, msg.IsPrivate)
	assert.Equal(t, "bob", msg.To)
	assert.Empty(t, msg.Room)

	for _, c := range []*Client{alice, bob} {
		pms := eventsOf(drain(c), domain.EventPrivateMessage)
		require.Len(t, pms, 1)
		assert.Equal(t, msg, pms[0].Payload)
	}
	assert.Empty(t, eventsOf(drain(carol), domain.EventPrivateMessage))

	conv := h.History().PrivateConversation(domain.ConversationKey("alice", "bob"))
	require.Len(t, conv, 1)
	assert.Equal(t, "psst", conv[0].Message)
}

func TestPrivateMessageUnknownRecipientDropped(t *testing.T) {
	h := newTestHub()

	alice := h.Register("u-alice", "alice")
	drain(alice)

	_, ok := h.SendPrivateMessage(alice.ID(), "nobody", "hello?")
	assert.False(t, ok)
	assert.Empty(t, eventsOf(drain(alice), domain.EventPrivateMessage))
	assert.Empty(t, h.History().PrivateConversation(domain.ConversationKey("alice", "nobody")))
}

func TestPrivateMessageFirstMatchingConnectionWins(t *testing.T) {
	h := newTestHub()

	alice := h.Register("u-alice", "alice")
	b1 := h.Register("u-bob", "bob")
	b2 := h.Register("u-bob", "bob")
	drain(b1)
	drain(b2)

	_, ok := h.SendPrivateMessage(alice.ID(), "bob", "which one")
	require.True(t, ok)

	assert.Len(t, eventsOf(drain(b1), domain.EventPrivateMessage), 1)
	assert.Empty(t, eventsOf(drain(b2), domain.EventPrivateMessage))
}

func TestUpdateStatusBroadcast(t *testing.T) {
	h := newTestHub()

	alice := h.Register("u-alice", "alice")
	bob := h.Register("u-bob", "bob")
	drain(bob)

	h.UpdateStatus(alice.ID(), "away")

	users := h.Users()
	assert.Equal(t, "away", users[0].Status)

	updates := eventsOf(drain(bob), domain.EventUserStatusUpdate)
	require.Len(t, updates, 1)
	assert.Equal(t, domain.StatusEvent{UserID: alice.ID(), Status: "away"}, updates[0].Payload)
}

func TestMessagesFlowToArchiver(t *testing.T) {
	archiver := newCaptureArchiver()
	h := NewHub(repository.NewHistoryStore(), archiver)

	alice := h.Register("u-alice", "alice")
	h.Register("u-bob", "bob")

	sent, _ := h.SendMessage(alice.ID(), domain.WSRequest{Message: "for the record"})
	archived := archiver.wait(t)
	assert.Equal(t, sent.ID, archived.ID)

	pm, _ := h.SendPrivateMessage(alice.ID(), "bob", "also recorded")
	archived = archiver.wait(t)
	assert.Equal(t, pm.ID, archived.ID)
	assert.True(t, archived.IsPrivate)
}
