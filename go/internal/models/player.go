package models

import (
	"time"

	"github.com/google/uuid"
)

// Player represents a participant of a room
type Player struct {
	ID        int       `json:"id"`
	RoomID    uuid.UUID `json:"room_id"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username,omitempty"`
	FirstName string    `json:"first_name,omitempty"`
	Team      string    `json:"team,omitempty"`
	Score     int       `json:"score"`
	IsHost    bool      `json:"is_host"`
	JoinedAt  time.Time `json:"joined_at"`
}

// DisplayName returns the first name, falling back to the username.
func (p Player) DisplayName() string {
	if p.FirstName != "" {
		return p.FirstName
	}
	if p.Username != "" {
		return "@" + p.Username
	}
	return "player"
}
