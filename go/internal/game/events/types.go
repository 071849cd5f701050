package events

import "encoding/json"

// MessageType is the "type" tag of a frame
type MessageType string

const (
	// Client -> Server
	MsgTypeSwipe MessageType = "swipe"

	// Server -> Client
	MsgTypePlayerJoined MessageType = "player_joined"
	MsgTypePlayerLeft   MessageType = "player_left"
	MsgTypeTeamChanged  MessageType = "team_changed"
	MsgTypeGameStarted  MessageType = "game_started"
	MsgTypeNewWord      MessageType = "new_word"
	MsgTypeWordResult   MessageType = "word_result"
	MsgTypeTimer        MessageType = "timer"
	MsgTypeRoundEnd     MessageType = "round_end"
	MsgTypeGameEnd      MessageType = "game_end"
	MsgTypeScoreUpdate  MessageType = "score_update"
	MsgTypeError        MessageType = "error"
	MsgTypeRoomState    MessageType = "room_state"
)

// Frame is the envelope of every inbound message
type Frame struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Event is the closed set of inbound events. Only types in this package
// implement it.
type Event interface {
	Type() MessageType
	Accept(h Handler)
}

// Handler has one method per inbound event type. Adding an event type means
// adding a method here, which breaks every Handler that does not handle it.
type Handler interface {
	PlayerJoined(e PlayerJoined)
	PlayerLeft(e PlayerLeft)
	TeamChanged(e TeamChanged)
	GameStarted(e GameStarted)
	NewWord(e NewWord)
	WordResult(e WordResult)
	Timer(e Timer)
	RoundEnd(e RoundEnd)
	GameEnd(e GameEnd)
	ScoreUpdate(e ScoreUpdate)
	ServerError(e ServerError)
	RoomState(e RoomState)
}
