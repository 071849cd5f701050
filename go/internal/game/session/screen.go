package session

import (
	"github.com/YarikYar/alias/go/internal/game/store"
	"github.com/YarikYar/alias/go/internal/models"
)

// Screen is the view the client should show for a state
type Screen string

const (
	ScreenHome  Screen = "home"
	ScreenLobby Screen = "lobby"
	ScreenGame  Screen = "game"
	ScreenStats Screen = "stats"
)

// ScreenFor picks the screen from the room status
func ScreenFor(s store.State) Screen {
	if s.Room == nil {
		return ScreenHome
	}
	switch s.Room.Status {
	case models.RoomStatusPlaying:
		return ScreenGame
	case models.RoomStatusFinished:
		return ScreenStats
	default:
		return ScreenLobby
	}
}
