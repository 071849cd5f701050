package events

import (
	"time"

	"github.com/YarikYar/alias/go/internal/models"
)

// PlayerJoined is sent when a player enters the room or rejoins it
type PlayerJoined struct {
	Player models.Player `json:"player"`
}

// PlayerLeft is sent when a player leaves the room
type PlayerLeft struct {
	UserID int64 `json:"user_id"`
}

// TeamChanged is sent when a player switches team in the lobby
type TeamChanged struct {
	UserID int64  `json:"user_id"`
	Team   string `json:"team"`
}

// GameStarted is sent once when the host starts the game
type GameStarted struct {
	ExplainerID int64 `json:"explainer_id"`
	RoundEndAt  int64 `json:"round_end_at"` // unix seconds
}

// RoundEndTime returns RoundEndAt as a time, or nil when unset.
func (e GameStarted) RoundEndTime() *time.Time {
	if e.RoundEndAt <= 0 {
		return nil
	}
	t := time.Unix(e.RoundEndAt, 0).UTC()
	return &t
}

// NewWord carries the next word for the explainer
type NewWord struct {
	WordID int    `json:"word_id"`
	Word   string `json:"word"`
}

// WordResult reports whether the current word was guessed
type WordResult struct {
	WordID  int    `json:"word_id"`
	Word    string `json:"word"`
	Guessed bool   `json:"guessed"`
}

// Timer is the periodic round countdown
type Timer struct {
	SecondsLeft int `json:"seconds_left"`
}

// RoundEnd closes a round and names the next explainer
type RoundEnd struct {
	Round         int            `json:"round"`
	TeamScores    map[string]int `json:"team_scores"`
	NextExplainer int64          `json:"next_explainer"`
}

// GameEnd closes the game
type GameEnd struct {
	Winner     string         `json:"winner"`
	TeamScores map[string]int `json:"team_scores"`
}

// ScoreUpdate replaces the scoreboard mid-round
type ScoreUpdate struct {
	TeamScores map[string]int `json:"team_scores"`
}

// ServerError is an explicit error reported by the server
type ServerError struct {
	Message string `json:"message"`
}

// RoomState is a full snapshot of the room, sent to resync a client
type RoomState struct {
	Room    models.Room     `json:"room"`
	Players []models.Player `json:"players"`
}

func (PlayerJoined) Type() MessageType { return MsgTypePlayerJoined }
func (PlayerLeft) Type() MessageType   { return MsgTypePlayerLeft }
func (TeamChanged) Type() MessageType  { return MsgTypeTeamChanged }
func (GameStarted) Type() MessageType  { return MsgTypeGameStarted }
func (NewWord) Type() MessageType      { return MsgTypeNewWord }
func (WordResult) Type() MessageType   { return MsgTypeWordResult }
func (Timer) Type() MessageType        { return MsgTypeTimer }
func (RoundEnd) Type() MessageType     { return MsgTypeRoundEnd }
func (GameEnd) Type() MessageType      { return MsgTypeGameEnd }
func (ScoreUpdate) Type() MessageType  { return MsgTypeScoreUpdate }
func (ServerError) Type() MessageType  { return MsgTypeError }
func (RoomState) Type() MessageType    { return MsgTypeRoomState }

func (e PlayerJoined) Accept(h Handler) { h.PlayerJoined(e) }
func (e PlayerLeft) Accept(h Handler)   { h.PlayerLeft(e) }
func (e TeamChanged) Accept(h Handler)  { h.TeamChanged(e) }
func (e GameStarted) Accept(h Handler)  { h.GameStarted(e) }
func (e NewWord) Accept(h Handler)      { h.NewWord(e) }
func (e WordResult) Accept(h Handler)   { h.WordResult(e) }
func (e Timer) Accept(h Handler)        { h.Timer(e) }
func (e RoundEnd) Accept(h Handler)     { h.RoundEnd(e) }
func (e GameEnd) Accept(h Handler)      { h.GameEnd(e) }
func (e ScoreUpdate) Accept(h Handler)  { h.ScoreUpdate(e) }
func (e ServerError) Accept(h Handler)  { h.ServerError(e) }
func (e RoomState) Accept(h Handler)    { h.RoomState(e) }
