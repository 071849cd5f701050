package models

import "github.com/google/uuid"

// GameStats is the end-of-game summary served by the stats endpoint.
type GameStats struct {
	RoomID     uuid.UUID      `json:"room_id"`
	TeamScores map[string]int `json:"team_scores"`
	Players    []PlayerStats  `json:"players"`
	Rounds     []RoundStats   `json:"rounds"`
}

// PlayerStats holds per-player totals
type PlayerStats struct {
	UserID       int64  `json:"user_id"`
	FirstName    string `json:"first_name"`
	Team         string `json:"team"`
	Score        int    `json:"score"`
	WordsGuessed int    `json:"words_guessed"`
	WordsMissed  int    `json:"words_missed"`
}

// RoundStats holds per-round totals
type RoundStats struct {
	RoundNum     int   `json:"round_num"`
	ExplainerID  int64 `json:"explainer_id"`
	WordsGuessed int   `json:"words_guessed"`
	WordsMissed  int   `json:"words_missed"`
}
