package domain

import "time"

// StatusOnline default status of a freshly registered connection
const StatusOnline = "online"

// Connection one live authenticated client session
type Connection struct {
	ID       string    `json:"id"`
	UserID   string    `json:"userId"`
	Username string    `json:"username"`
	Status   string    `json:"status"`
	LastSeen time.Time `json:"lastSeen"`
}

// RoomInfo room summary for the introspection endpoints
type RoomInfo struct {
	Name         string `json:"name"`
	UserCount    int    `json:"userCount"`
	MessageCount int    `json:"messageCount"`
}
