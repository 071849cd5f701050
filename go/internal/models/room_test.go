package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoomStatusCanAdvanceTo(t *testing.T) {
	cases := []struct {
		from, to RoomStatus
		want     bool
	}{
		{RoomStatusLobby, RoomStatusPlaying, true},
		{RoomStatusPlaying, RoomStatusFinished, true},
		{RoomStatusLobby, RoomStatusFinished, false},
		{RoomStatusPlaying, RoomStatusLobby, false},
		{RoomStatusFinished, RoomStatusPlaying, false},
		{RoomStatusPlaying, RoomStatusPlaying, false},
		{RoomStatus("paused"), RoomStatusPlaying, false},
	}

	for _, tc := range cases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			assert.Equal(t, tc.want, tc.from.CanAdvanceTo(tc.to))
		})
	}
}

func TestRoomCloneIsDeep(t *testing.T) {
	explainer := int64(7)
	room := &Room{Status: RoomStatusPlaying, CurrentExplainerID: &explainer, TeamNames: []string{"A", "B"}}

	c := room.Clone()
	*c.CurrentExplainerID = 9
	c.TeamNames[0] = "Z"

	assert.Equal(t, int64(7), *room.CurrentExplainerID)
	assert.Equal(t, "A", room.TeamNames[0])
	assert.True(t, room.HasTeam("B"))
	assert.False(t, room.HasTeam("Z"))
}
