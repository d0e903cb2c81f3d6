package domain

import (
	"time"

	"realtime_chat_service/pkg/encrypt"
)

// MemberStatus account status
type MemberStatus int

const (
	// MemberStatusOffLine account has no live session
	MemberStatusOffLine MemberStatus = iota
	// MemberStatusOnLine account has a live session
	MemberStatusOnLine
)

// Member a registered account, only present in strict auth mode
type Member struct {
	ID       int64
	MemberID string
	Username string
	Password string
	Status   MemberStatus
}

// MemberSession one issued login session
type MemberSession struct {
	Token        string    `json:"Token"`
	MemberID     string    `json:"MemberID"`
	CreatedAt    time.Time `json:"CreatedAt"`
	LastActivity time.Time `json:"LastActivity"`
	ExpiredAt    time.Time `json:"ExpiredAt"`
}

// IsPasswordMatch check the stored hash against a plaintext password
func (m *Member) IsPasswordMatch(inputPwd string) error {
	return encrypt.CheckPassword(m.Password, inputPwd)
}

// IsExpired check whether the session ran out
func (s *MemberSession) IsExpired() bool {
	return time.Now().After(s.ExpiredAt)
}

// MemberQuery join conditions used to query members
type MemberQuery struct {
	ID       *int64  `db:"id"`
	MemberID *string `db:"member_id"`
	Username *string `db:"username"`
}
