package gateway

import (
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/YarikYar/alias/go/internal/game/events"
	"github.com/YarikYar/alias/go/internal/game/store"
	"github.com/YarikYar/alias/go/internal/models"
)

// Observer is told about every event after it has been applied
type Observer interface {
	EventApplied(roomID string, event events.Event)
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(roomID string, event events.Event)

func (fn ObserverFunc) EventApplied(roomID string, event events.Event) { fn(roomID, event) }

// Dispatcher projects inbound events onto the session store. Each event is
// applied as one store batch. Events the store rejects are counted as
// skipped and are not passed to observers.
type Dispatcher struct {
	store     *store.Store
	observers []Observer

	applied   atomic.Uint64
	skipped   atomic.Uint64
	dropped   atomic.Uint64
	lastEvent atomic.Int64 // unix nanos
}

// DispatchStats counts frames seen by a Dispatcher
type DispatchStats struct {
	EventsApplied uint64     `json:"events_applied"`
	EventsSkipped uint64     `json:"events_skipped"`
	FramesDropped uint64     `json:"frames_dropped"`
	LastEventAt   *time.Time `json:"last_event_at,omitempty"`
}

var _ FrameHandler = (*Dispatcher)(nil)

// NewDispatcher creates a dispatcher writing to st
func NewDispatcher(st *store.Store, observers ...Observer) *Dispatcher {
	return &Dispatcher{
		store:     st,
		observers: observers,
	}
}

// AddObserver registers o. Not safe to call while frames are being handled.
func (d *Dispatcher) AddObserver(o Observer) {
	d.observers = append(d.observers, o)
}

// HandleFrame decodes and applies one raw frame. Frames that fail to decode
// are logged and dropped.
func (d *Dispatcher) HandleFrame(data []byte) {
	event, err := events.Decode(data)
	if err != nil {
		d.dropped.Add(1)
		log.Warn().Err(err).Int("size", len(data)).Msg("dropping undecodable frame")
		return
	}
	d.Dispatch(event)
}

// Dispatch applies an already decoded event and reports whether the store
// accepted it.
func (d *Dispatcher) Dispatch(event events.Event) bool {
	p := projection{store: d.store}
	event.Accept(&p)
	if !p.changed {
		d.skipped.Add(1)
		log.Debug().Str("type", string(event.Type())).Msg("event left state unchanged")
		return false
	}
	d.applied.Add(1)
	d.lastEvent.Store(time.Now().UnixNano())

	if len(d.observers) == 0 {
		return true
	}
	roomID := ""
	if room := d.store.Room(); room != nil {
		roomID = room.ID.String()
	}
	for _, o := range d.observers {
		o.EventApplied(roomID, event)
	}
	return true
}

// Stats returns the frame counters
func (d *Dispatcher) Stats() DispatchStats {
	stats := DispatchStats{
		EventsApplied: d.applied.Load(),
		EventsSkipped: d.skipped.Load(),
		FramesDropped: d.dropped.Load(),
	}
	if ns := d.lastEvent.Load(); ns != 0 {
		t := time.Unix(0, ns).UTC()
		stats.LastEventAt = &t
	}
	return stats
}

// projection applies one event to the store and records whether the batch
// changed anything.
type projection struct {
	store   *store.Store
	changed bool
}

var _ events.Handler = (*projection)(nil)

func (p *projection) apply(fn func(tx *store.Tx)) {
	p.changed = p.store.Apply(fn)
}

func (p *projection) PlayerJoined(e events.PlayerJoined) {
	p.apply(func(tx *store.Tx) {
		tx.UpsertPlayer(e.Player)
	})
	log.Debug().Int64("user_id", e.Player.UserID).Str("team", e.Player.Team).Msg("player joined")
}

func (p *projection) PlayerLeft(e events.PlayerLeft) {
	p.apply(func(tx *store.Tx) {
		tx.RemovePlayer(e.UserID)
	})
	log.Debug().Int64("user_id", e.UserID).Msg("player left")
}

func (p *projection) TeamChanged(e events.TeamChanged) {
	p.apply(func(tx *store.Tx) {
		tx.SetPlayerTeam(e.UserID, e.Team)
	})
}

func (p *projection) GameStarted(e events.GameStarted) {
	p.apply(func(tx *store.Tx) {
		tx.StartGame(e.ExplainerID, e.RoundEndTime())
	})
	if p.changed {
		log.Info().Int64("explainer_id", e.ExplainerID).Msg("game started")
	}
}

func (p *projection) NewWord(e events.NewWord) {
	p.apply(func(tx *store.Tx) {
		tx.SetWord(&models.Word{ID: e.WordID, Word: e.Word})
	})
}

func (p *projection) WordResult(e events.WordResult) {
	p.apply(func(tx *store.Tx) {
		tx.SetWord(nil)
	})
	log.Debug().Int("word_id", e.WordID).Bool("guessed", e.Guessed).Msg("word resolved")
}

func (p *projection) Timer(e events.Timer) {
	p.apply(func(tx *store.Tx) {
		tx.SetSecondsLeft(e.SecondsLeft)
	})
}

func (p *projection) RoundEnd(e events.RoundEnd) {
	p.apply(func(tx *store.Tx) {
		tx.EndRound(e.Round, e.TeamScores, e.NextExplainer)
	})
	if p.changed {
		log.Info().
			Int("round", e.Round).
			Int64("next_explainer", e.NextExplainer).
			Msg("round ended")
	}
}

func (p *projection) GameEnd(e events.GameEnd) {
	p.apply(func(tx *store.Tx) {
		tx.EndGame(e.TeamScores)
	})
	if p.changed {
		log.Info().Str("winner", e.Winner).Msg("game ended")
	}
}

func (p *projection) ScoreUpdate(e events.ScoreUpdate) {
	p.apply(func(tx *store.Tx) {
		tx.SetTeamScores(e.TeamScores)
	})
}

func (p *projection) ServerError(e events.ServerError) {
	log.Error().Str("message", e.Message).Msg("server reported error")
}

func (p *projection) RoomState(e events.RoomState) {
	p.apply(func(tx *store.Tx) {
		room := e.Room
		if !tx.SetRoom(&room) {
			return
		}
		tx.SetPlayers(e.Players)
	})
	if p.changed {
		log.Info().
			Str("room_id", e.Room.ID.String()).
			Str("status", string(e.Room.Status)).
			Int("players", len(e.Players)).
			Msg("room state resynced")
	}
}

// TrackConnection returns an observer that mirrors the channel status into
// the store's connection flag.
func TrackConnection(st *store.Store) StatusObserver {
	return func(state ConnectionState) {
		st.SetConnected(state.Status == StatusConnected)
	}
}
