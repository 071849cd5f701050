package events

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YarikYar/alias/go/internal/models"
)

func TestDecodeValidFrames(t *testing.T) {
	cases := []struct {
		name  string
		frame string
		want  Event
	}{
		{
			name:  "player joined",
			frame: `{"type":"player_joined","payload":{"player":{"id":3,"user_id":42,"first_name":"Ann","team":"A","score":2,"is_host":true}}}`,
			want:  PlayerJoined{Player: models.Player{ID: 3, UserID: 42, FirstName: "Ann", Team: "A", Score: 2, IsHost: true}},
		},
		{
			name:  "player left",
			frame: `{"type":"player_left","payload":{"user_id":42}}`,
			want:  PlayerLeft{UserID: 42},
		},
		{
			name:  "team changed",
			frame: `{"type":"team_changed","payload":{"user_id":42,"team":"B"}}`,
			want:  TeamChanged{UserID: 42, Team: "B"},
		},
		{
			name:  "game started",
			frame: `{"type":"game_started","payload":{"explainer_id":7,"round_end_at":1700000000}}`,
			want:  GameStarted{ExplainerID: 7, RoundEndAt: 1700000000},
		},
		{
			name:  "new word",
			frame: `{"type":"new_word","payload":{"word_id":11,"word":"apple"}}`,
			want:  NewWord{WordID: 11, Word: "apple"},
		},
		{
			name:  "word result",
			frame: `{"type":"word_result","payload":{"word_id":11,"word":"apple","guessed":false}}`,
			want:  WordResult{WordID: 11, Word: "apple", Guessed: false},
		},
		{
			name:  "timer at zero",
			frame: `{"type":"timer","payload":{"seconds_left":0}}`,
			want:  Timer{SecondsLeft: 0},
		},
		{
			name:  "round end",
			frame: `{"type":"round_end","payload":{"round":1,"team_scores":{"A":3,"B":1},"next_explainer":8}}`,
			want:  RoundEnd{Round: 1, TeamScores: map[string]int{"A": 3, "B": 1}, NextExplainer: 8},
		},
		{
			name:  "game end",
			frame: `{"type":"game_end","payload":{"winner":"A","team_scores":{"A":5,"B":4}}}`,
			want:  GameEnd{Winner: "A", TeamScores: map[string]int{"A": 5, "B": 4}},
		},
		{
			name:  "score update",
			frame: `{"type":"score_update","payload":{"team_scores":{"A":1,"B":0}}}`,
			want:  ScoreUpdate{TeamScores: map[string]int{"A": 1, "B": 0}},
		},
		{
			name:  "server error",
			frame: `{"type":"error","payload":{"message":"not your turn"}}`,
			want:  ServerError{Message: "not your turn"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ev, err := Decode([]byte(tc.frame))
			require.NoError(t, err)
			assert.Equal(t, tc.want, ev)
			assert.Equal(t, tc.want.Type(), ev.Type())
		})
	}
}

func TestDecodeRoomState(t *testing.T) {
	frame := `{"type":"room_state","payload":{"room":{"id":"4b1c4a8e-1b6d-4d55-9a63-6f5b0c6f3b9e","status":"lobby","team_names":["A","B"]}}}`

	ev, err := Decode([]byte(frame))
	require.NoError(t, err)

	state, ok := ev.(RoomState)
	require.True(t, ok)
	assert.Equal(t, models.RoomStatusLobby, state.Room.Status)
	assert.Equal(t, []string{"A", "B"}, state.Room.TeamNames)
	assert.NotNil(t, state.Players)
	assert.Empty(t, state.Players)
}

func TestDecodeRejectsMalformedFrames(t *testing.T) {
	cases := []struct {
		name    string
		frame   string
		unknown bool
		invalid bool
	}{
		{name: "not json", frame: `{"type":`},
		{name: "array", frame: `[1,2,3]`},
		{name: "missing type", frame: `{"payload":{}}`},
		{name: "unknown type", frame: `{"type":"vote_pause","payload":{}}`, unknown: true},
		{name: "missing payload", frame: `{"type":"timer"}`, invalid: true},
		{name: "null payload", frame: `{"type":"player_left","payload":null}`, invalid: true},
		{name: "wrong field type", frame: `{"type":"timer","payload":{"seconds_left":"ten"}}`},
		{name: "negative timer", frame: `{"type":"timer","payload":{"seconds_left":-1}}`, invalid: true},
		{name: "player without user id", frame: `{"type":"player_joined","payload":{"player":{"first_name":"x"}}}`, invalid: true},
		{name: "team change without team", frame: `{"type":"team_changed","payload":{"user_id":1}}`, invalid: true},
		{name: "game started without explainer", frame: `{"type":"game_started","payload":{"round_end_at":5}}`, invalid: true},
		{name: "new word without text", frame: `{"type":"new_word","payload":{"word_id":1}}`, invalid: true},
		{name: "word result without outcome", frame: `{"type":"word_result","payload":{"word_id":1}}`, invalid: true},
		{name: "round end without scores", frame: `{"type":"round_end","payload":{"round":1,"next_explainer":2}}`, invalid: true},
		{name: "game end without scores", frame: `{"type":"game_end","payload":{"winner":"A"}}`, invalid: true},
		{name: "score update without scores", frame: `{"type":"score_update","payload":{}}`, invalid: true},
		{name: "error without message", frame: `{"type":"error","payload":{}}`, invalid: true},
		{name: "room state with bad status", frame: `{"type":"room_state","payload":{"room":{"id":"4b1c4a8e-1b6d-4d55-9a63-6f5b0c6f3b9e","status":"paused"}}}`, invalid: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ev, err := Decode([]byte(tc.frame))
			require.Error(t, err)
			assert.Nil(t, ev)
			assert.True(t, errors.Is(err, ErrDecode))
			assert.Equal(t, tc.unknown, errors.Is(err, ErrUnknownType))
			assert.Equal(t, tc.invalid, errors.Is(err, ErrInvalidPayload))
		})
	}
}

func TestEncodeFlattensPayload(t *testing.T) {
	data, err := EncodeSwipe(ActionUp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"swipe","action":"up"}`, string(data))

	data, err = Encode(MsgTypeSwipe, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"swipe"}`, string(data))

	data, err = Encode("vote_start", map[string]any{"type": "ignored", "n": 1})
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "vote_start", decoded["type"])
	assert.Equal(t, float64(1), decoded["n"])
}

func TestEncodeRejectsBadInput(t *testing.T) {
	_, err := EncodeSwipe("sideways")
	assert.Error(t, err)

	_, err = Encode(MsgTypeSwipe, []int{1, 2})
	assert.Error(t, err)
}

func TestGameStartedRoundEndTime(t *testing.T) {
	assert.Nil(t, GameStarted{}.RoundEndTime())
	at := GameStarted{RoundEndAt: 1700000000}.RoundEndTime()
	require.NotNil(t, at)
	assert.Equal(t, int64(1700000000), at.Unix())
}
