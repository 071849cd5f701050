package events

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/YarikYar/alias/go/internal/models"
)

var (
	// ErrDecode wraps every failure to turn a frame into an Event.
	ErrDecode = errors.New("decode frame")
	// ErrUnknownType is returned for a well-formed frame with an unrecognised tag.
	ErrUnknownType = errors.New("unknown message type")
	// ErrInvalidPayload is returned when a payload misses required fields.
	ErrInvalidPayload = errors.New("invalid payload")
)

// Decode parses one raw frame and validates its payload. Every error it
// returns satisfies errors.Is(err, ErrDecode).
func Decode(data []byte) (Event, error) {
	var frame Frame
	if err := json.Unmarshal(data, &frame); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if frame.Type == "" {
		return nil, fmt.Errorf("%w: missing type", ErrDecode)
	}
	return ParseFrame(frame)
}

// ParseFrame builds the typed event for an already split envelope
func ParseFrame(frame Frame) (Event, error) {
	switch frame.Type {
	case MsgTypePlayerJoined:
		p, err := unmarshalPayload[struct {
			Player *models.Player `json:"player"`
		}](frame)
		if err != nil {
			return nil, err
		}
		if p.Player == nil || p.Player.UserID == 0 {
			return nil, invalid(frame.Type, "player.user_id is required")
		}
		return PlayerJoined{Player: *p.Player}, nil

	case MsgTypePlayerLeft:
		p, err := unmarshalPayload[struct {
			UserID *int64 `json:"user_id"`
		}](frame)
		if err != nil {
			return nil, err
		}
		if p.UserID == nil {
			return nil, invalid(frame.Type, "user_id is required")
		}
		return PlayerLeft{UserID: *p.UserID}, nil

	case MsgTypeTeamChanged:
		p, err := unmarshalPayload[struct {
			UserID *int64 `json:"user_id"`
			Team   string `json:"team"`
		}](frame)
		if err != nil {
			return nil, err
		}
		if p.UserID == nil || p.Team == "" {
			return nil, invalid(frame.Type, "user_id and team are required")
		}
		return TeamChanged{UserID: *p.UserID, Team: p.Team}, nil

	case MsgTypeGameStarted:
		p, err := unmarshalPayload[struct {
			ExplainerID *int64 `json:"explainer_id"`
			RoundEndAt  int64  `json:"round_end_at"`
		}](frame)
		if err != nil {
			return nil, err
		}
		if p.ExplainerID == nil {
			return nil, invalid(frame.Type, "explainer_id is required")
		}
		return GameStarted{ExplainerID: *p.ExplainerID, RoundEndAt: p.RoundEndAt}, nil

	case MsgTypeNewWord:
		p, err := unmarshalPayload[struct {
			WordID *int   `json:"word_id"`
			Word   string `json:"word"`
		}](frame)
		if err != nil {
			return nil, err
		}
		if p.WordID == nil || p.Word == "" {
			return nil, invalid(frame.Type, "word_id and word are required")
		}
		return NewWord{WordID: *p.WordID, Word: p.Word}, nil

	case MsgTypeWordResult:
		p, err := unmarshalPayload[struct {
			WordID  *int   `json:"word_id"`
			Word    string `json:"word"`
			Guessed *bool  `json:"guessed"`
		}](frame)
		if err != nil {
			return nil, err
		}
		if p.WordID == nil || p.Guessed == nil {
			return nil, invalid(frame.Type, "word_id and guessed are required")
		}
		return WordResult{WordID: *p.WordID, Word: p.Word, Guessed: *p.Guessed}, nil

	case MsgTypeTimer:
		p, err := unmarshalPayload[struct {
			SecondsLeft *int `json:"seconds_left"`
		}](frame)
		if err != nil {
			return nil, err
		}
		if p.SecondsLeft == nil || *p.SecondsLeft < 0 {
			return nil, invalid(frame.Type, "seconds_left must be a non-negative number")
		}
		return Timer{SecondsLeft: *p.SecondsLeft}, nil

	case MsgTypeRoundEnd:
		p, err := unmarshalPayload[struct {
			Round         *int           `json:"round"`
			TeamScores    map[string]int `json:"team_scores"`
			NextExplainer *int64         `json:"next_explainer"`
		}](frame)
		if err != nil {
			return nil, err
		}
		if p.Round == nil || *p.Round < 0 || p.TeamScores == nil || p.NextExplainer == nil {
			return nil, invalid(frame.Type, "round, team_scores and next_explainer are required")
		}
		return RoundEnd{Round: *p.Round, TeamScores: p.TeamScores, NextExplainer: *p.NextExplainer}, nil

	case MsgTypeGameEnd:
		p, err := unmarshalPayload[GameEnd](frame)
		if err != nil {
			return nil, err
		}
		if p.TeamScores == nil {
			return nil, invalid(frame.Type, "team_scores is required")
		}
		return p, nil

	case MsgTypeScoreUpdate:
		p, err := unmarshalPayload[ScoreUpdate](frame)
		if err != nil {
			return nil, err
		}
		if p.TeamScores == nil {
			return nil, invalid(frame.Type, "team_scores is required")
		}
		return p, nil

	case MsgTypeError:
		p, err := unmarshalPayload[struct {
			Message *string `json:"message"`
		}](frame)
		if err != nil {
			return nil, err
		}
		if p.Message == nil {
			return nil, invalid(frame.Type, "message is required")
		}
		return ServerError{Message: *p.Message}, nil

	case MsgTypeRoomState:
		p, err := unmarshalPayload[struct {
			Room    *models.Room    `json:"room"`
			Players []models.Player `json:"players"`
		}](frame)
		if err != nil {
			return nil, err
		}
		if p.Room == nil || p.Room.ID == uuid.Nil || !p.Room.Status.Valid() {
			return nil, invalid(frame.Type, "room with id and status is required")
		}
		if p.Players == nil {
			p.Players = []models.Player{}
		}
		return RoomState{Room: *p.Room, Players: p.Players}, nil

	default:
		return nil, fmt.Errorf("%w: %w: %q", ErrDecode, ErrUnknownType, frame.Type)
	}
}

func unmarshalPayload[T any](frame Frame) (T, error) {
	var payload T
	raw := bytes.TrimSpace(frame.Payload)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return payload, invalid(frame.Type, "payload is required")
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return payload, fmt.Errorf("%w: %s payload: %v", ErrDecode, frame.Type, err)
	}
	return payload, nil
}

func invalid(t MessageType, reason string) error {
	return fmt.Errorf("%w: %w: %s: %s", ErrDecode, ErrInvalidPayload, t, reason)
}
