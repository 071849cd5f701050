package store

import (
	"github.com/YarikYar/alias/go/internal/models"
)

// State is an immutable snapshot of the session. Snapshots handed out by the
// Store are deep copies and may be kept and read freely.
type State struct {
	Version     uint64               `json:"version"`
	User        *models.TelegramUser `json:"user,omitempty"`
	Room        *models.Room         `json:"room,omitempty"`
	Players     []models.Player      `json:"players"`
	CurrentWord *models.Word         `json:"current_word,omitempty"`
	SecondsLeft int                  `json:"seconds_left"`
	TeamScores  map[string]int       `json:"team_scores"`
	Connected   bool                 `json:"connected"`
}

// IsHost reports whether the local user's roster entry carries the host flag.
func (s State) IsHost() bool {
	p, ok := s.MyPlayer()
	return ok && p.IsHost
}

// IsExplainer reports whether the local user explains in the current round.
func (s State) IsExplainer() bool {
	if s.User == nil || s.Room == nil || s.Room.Status != models.RoomStatusPlaying {
		return false
	}
	return s.Room.CurrentExplainerID != nil && *s.Room.CurrentExplainerID == s.User.ID
}

// MyPlayer returns the roster entry of the local user.
func (s State) MyPlayer() (models.Player, bool) {
	if s.User == nil {
		return models.Player{}, false
	}
	for _, p := range s.Players {
		if p.UserID == s.User.ID {
			return p, true
		}
	}
	return models.Player{}, false
}

// TeamPlayers returns the roster filtered by team, in roster order.
func (s State) TeamPlayers(team string) []models.Player {
	var out []models.Player
	for _, p := range s.Players {
		if p.Team == team {
			out = append(out, p)
		}
	}
	return out
}

func (s State) clone() State {
	c := s
	if s.User != nil {
		u := *s.User
		c.User = &u
	}
	c.Room = s.Room.Clone()
	c.Players = append([]models.Player{}, s.Players...)
	if s.CurrentWord != nil {
		w := *s.CurrentWord
		c.CurrentWord = &w
	}
	c.TeamScores = make(map[string]int, len(s.TeamScores))
	for k, v := range s.TeamScores {
		c.TeamScores[k] = v
	}
	return c
}
