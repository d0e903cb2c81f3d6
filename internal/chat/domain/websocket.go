package domain

// Action websocket request action
type Action string

const (
	// JoinRoom websocket action join_room
	JoinRoom Action = "join_room"
	// LeaveRoom websocket action leave_room
	LeaveRoom Action = "leave_room"
	// SendMessage websocket action send_message
	SendMessage Action = "send_message"
	// AddReaction websocket action add_reaction
	AddReaction Action = "add_reaction"
	// Typing websocket action typing
	Typing Action = "typing"
	// PrivateMessage websocket action private_message
	PrivateMessage Action = "private_message"
	// MarkMessageRead websocket action mark_message_read
	MarkMessageRead Action = "mark_message_read"
	// UpdateStatus websocket action update_status
	UpdateStatus Action = "update_status"
)

// EventType outbound event name
type EventType string

const (
	// EventUserList full connection list, sent on join and leave
	EventUserList EventType = "user_list"
	// EventUserJoined presence broadcast for a new connection
	EventUserJoined EventType = "user_joined"
	// EventRoomJoined ack to the joining connection
	EventRoomJoined EventType = "room_joined"
	// EventUserJoinedRoom room-level join notice
	EventUserJoinedRoom EventType = "user_joined_room"
	// EventUserLeftRoom room-level leave notice
	EventUserLeftRoom EventType = "user_left_room"
	// EventReceiveMessage a room message
	EventReceiveMessage EventType = "receive_message"
	// EventMessageReaction a reaction was added
	EventMessageReaction EventType = "message_reaction"
	// EventTypingUsers usernames currently typing in a room
	EventTypingUsers EventType = "typing_users"
	// EventPrivateMessage a direct message, delivered to both parties
	EventPrivateMessage EventType = "private_message"
	// EventMessageRead a read receipt
	EventMessageRead EventType = "message_read"
	// EventUserStatusUpdate a connection changed its status string
	EventUserStatusUpdate EventType = "user_status_update"
	// EventUserLeft presence broadcast for a closed connection
	EventUserLeft EventType = "user_left"
)

// WSRequest websocket request, one flat frame for every action
type WSRequest struct {
	Action    string `json:"action"`
	Room      string `json:"room"`
	Message   string `json:"message"`
	FileURL   string `json:"fileUrl"`
	FileName  string `json:"fileName"`
	FileType  string `json:"fileType"`
	MessageID string `json:"messageId"`
	Reaction  string `json:"reaction"`
	IsTyping  bool   `json:"isTyping"`
	To        string `json:"to"`
	Status    string `json:"status"`
}

// Event outbound envelope
type Event struct {
	Event   EventType   `json:"event"`
	Payload interface{} `json:"payload,omitempty"`
}

// UserRef identifies a connection in presence events
type UserRef struct {
	Username string `json:"username"`
	ID       string `json:"id"`
}

// RoomEvent payload for user_joined_room / user_left_room
type RoomEvent struct {
	Username string `json:"username"`
	Room     string `json:"room"`
}

// ReactionEvent payload for message_reaction
type ReactionEvent struct {
	MessageID string `json:"messageId"`
	Reaction  string `json:"reaction"`
	User      string `json:"user"`
}

// ReadEvent payload for message_read; ReadBy carries the connection id
type ReadEvent struct {
	MessageID string `json:"messageId"`
	ReadBy    string `json:"readBy"`
}

// StatusEvent payload for user_status_update; UserID carries the connection id
type StatusEvent struct {
	UserID string `json:"userId"`
	Status string `json:"status"`
}
