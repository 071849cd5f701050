package models

import (
	"time"

	"github.com/google/uuid"
)

// RoomStatus defines the lifecycle status of a room.
type RoomStatus string

const (
	RoomStatusLobby    RoomStatus = "lobby"
	RoomStatusPlaying  RoomStatus = "playing"
	RoomStatusFinished RoomStatus = "finished"
)

// rank orders statuses along the only legal path lobby -> playing -> finished.
func (s RoomStatus) rank() int {
	switch s {
	case RoomStatusLobby:
		return 0
	case RoomStatusPlaying:
		return 1
	case RoomStatusFinished:
		return 2
	default:
		return -1
	}
}

// Valid reports whether s is one of the known statuses.
func (s RoomStatus) Valid() bool {
	return s.rank() >= 0
}

// CanAdvanceTo reports whether next is the immediate successor of s.
// Staying on the same status is not an advance.
func (s RoomStatus) CanAdvanceTo(next RoomStatus) bool {
	return s.Valid() && next.Valid() && next.rank() == s.rank()+1
}

const (
	MinTeams = 2
	MaxTeams = 5
)

// Room represents one game session.
type Room struct {
	ID                 uuid.UUID  `json:"id"`
	Status             RoomStatus `json:"status"`
	CurrentRound       int        `json:"current_round"`
	CurrentExplainerID *int64     `json:"current_explainer_id,omitempty"`
	RoundEndAt         *time.Time `json:"round_end_at,omitempty"`
	Category           string     `json:"category"`
	NumTeams           int        `json:"num_teams"`
	TeamNames          []string   `json:"team_names"`
	CreatedAt          time.Time  `json:"created_at"`
}

// HasTeam reports whether team is one of the room's configured team names.
func (r *Room) HasTeam(team string) bool {
	if r == nil {
		return false
	}
	for _, name := range r.TeamNames {
		if name == team {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the room.
func (r *Room) Clone() *Room {
	if r == nil {
		return nil
	}
	c := *r
	if r.CurrentExplainerID != nil {
		id := *r.CurrentExplainerID
		c.CurrentExplainerID = &id
	}
	if r.RoundEndAt != nil {
		at := *r.RoundEndAt
		c.RoundEndAt = &at
	}
	c.TeamNames = append([]string(nil), r.TeamNames...)
	return &c
}
