package gateway

import (
	"github.com/rs/zerolog/log"

	"github.com/YarikYar/alias/go/internal/game/events"
	"github.com/YarikYar/alias/go/internal/game/store"
)

// SwipeSender sends one swipe action
type SwipeSender interface {
	SendSwipe(action events.Action) bool
}

// ExplainerGate forwards swipes only while the local user explains the
// current round. Everyone else's swipes stay on the device.
type ExplainerGate struct {
	store  *store.Store
	sender SwipeSender
}

// NewExplainerGate creates a gate in front of sender
func NewExplainerGate(st *store.Store, sender SwipeSender) *ExplainerGate {
	return &ExplainerGate{store: st, sender: sender}
}

func (g *ExplainerGate) SendSwipe(action events.Action) bool {
	if !g.store.IsExplainer() {
		log.Debug().Str("action", string(action)).Msg("ignoring swipe from non-explainer")
		return false
	}
	return g.sender.SendSwipe(action)
}
