package store

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/YarikYar/alias/go/internal/models"
)

// DefaultRoundSeconds is the length of one round as shown by the countdown.
const DefaultRoundSeconds = 60

// Store is the canonical session state for one active room. All mutations go
// through Apply, which runs a batch under a single lock so readers never see
// part of an event applied.
type Store struct {
	mu    sync.RWMutex
	state State

	// notifyMu serialises batch + notification so subscribers observe
	// versions in order.
	notifyMu    sync.Mutex
	subscribers map[int]func(State)
	nextSubID   int

	roundLength int
}

// Option configures a Store
type Option func(*Store)

// WithRoundSeconds overrides the round length used to reset the countdown.
func WithRoundSeconds(seconds int) Option {
	return func(s *Store) {
		if seconds > 0 {
			s.roundLength = seconds
		}
	}
}

// WithUser sets the local user identity at construction.
func WithUser(user *models.TelegramUser) Option {
	return func(s *Store) {
		if user != nil {
			u := *user
			s.state.User = &u
		}
	}
}

// New creates a store in its initial configuration
func New(opts ...Option) *Store {
	s := &Store{
		subscribers: make(map[int]func(State)),
		roundLength: DefaultRoundSeconds,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state = s.initialState(s.state.User)
	return s
}

func (s *Store) initialState(user *models.TelegramUser) State {
	return State{
		User:        user,
		Players:     []models.Player{},
		SecondsLeft: s.roundLength,
		TeamScores:  map[string]int{},
	}
}

// RoundSeconds returns the configured round length
func (s *Store) RoundSeconds() int {
	return s.roundLength
}

// Apply runs fn as one atomic batch and reports whether it changed
// anything. Subscribers are notified once, after the batch, and only if it
// changed something. fn must not call back into the Store.
func (s *Store) Apply(fn func(tx *Tx)) bool {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	tx := &Tx{state: &s.state, roundLength: s.roundLength}
	fn(tx)
	if !tx.changed {
		s.mu.Unlock()
		return false
	}
	s.state.Version++
	snapshot := s.state.clone()
	s.mu.Unlock()

	s.notify(snapshot)
	return true
}

func (s *Store) notify(snapshot State) {
	for _, fn := range s.subscribers {
		fn(snapshot)
	}
}

// Subscribe registers fn to receive a snapshot after every changing batch.
// Subscribers run synchronously and may read the Store but must not mutate it.
func (s *Store) Subscribe(fn func(State)) (cancel func()) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn

	return func() {
		s.notifyMu.Lock()
		defer s.notifyMu.Unlock()
		delete(s.subscribers, id)
	}
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Reset restores the room-scoped state to its initial configuration. The
// local user is kept. It does not touch any connection.
func (s *Store) Reset() {
	s.Apply(func(tx *Tx) {
		version := tx.state.Version
		*tx.state = s.initialState(tx.state.User)
		tx.state.Version = version
		tx.changed = true
	})
	log.Debug().Msg("session store reset")
}

// SetUser sets the local user identity
func (s *Store) SetUser(user *models.TelegramUser) {
	s.Apply(func(tx *Tx) { tx.SetUser(user) })
}

// SetRoom replaces the room wholesale
func (s *Store) SetRoom(room *models.Room) {
	s.Apply(func(tx *Tx) { tx.SetRoom(room) })
}

// SetPlayers replaces the roster
func (s *Store) SetPlayers(players []models.Player) {
	s.Apply(func(tx *Tx) { tx.SetPlayers(players) })
}

// UpsertPlayer adds or replaces a roster entry
func (s *Store) UpsertPlayer(p models.Player) {
	s.Apply(func(tx *Tx) { tx.UpsertPlayer(p) })
}

// RemovePlayer drops a roster entry
func (s *Store) RemovePlayer(userID int64) {
	s.Apply(func(tx *Tx) { tx.RemovePlayer(userID) })
}

// SetPlayerTeam changes one player's team
func (s *Store) SetPlayerTeam(userID int64, team string) {
	s.Apply(func(tx *Tx) { tx.SetPlayerTeam(userID, team) })
}

// SetWord sets or clears the word in play
func (s *Store) SetWord(word *models.Word) {
	s.Apply(func(tx *Tx) { tx.SetWord(word) })
}

// SetSecondsLeft sets the countdown
func (s *Store) SetSecondsLeft(seconds int) {
	s.Apply(func(tx *Tx) { tx.SetSecondsLeft(seconds) })
}

// SetTeamScores replaces the scoreboard
func (s *Store) SetTeamScores(scores map[string]int) {
	s.Apply(func(tx *Tx) { tx.SetTeamScores(scores) })
}

// SetConnected records the channel status
func (s *Store) SetConnected(connected bool) {
	s.Apply(func(tx *Tx) { tx.SetConnected(connected) })
}

// IsHost reports whether the local user hosts the room
func (s *Store) IsHost() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsHost()
}

// IsExplainer reports whether the local user explains in the current round
func (s *Store) IsExplainer() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsExplainer()
}

// MyPlayer returns the local user's roster entry
func (s *Store) MyPlayer() (models.Player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.MyPlayer()
}

// TeamPlayers returns the players of one team
func (s *Store) TeamPlayers(team string) []models.Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.TeamPlayers(team)
}

// Room returns a copy of the current room, or nil.
func (s *Store) Room() *models.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Room.Clone()
}
