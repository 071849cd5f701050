package store

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/YarikYar/alias/go/internal/models"
)

// UnknownExplainer marks a running game whose explainer has not been
// announced to this client yet. No user has this id.
const UnknownExplainer int64 = 0

// Tx is the mutable view handed to an Apply batch. It is only valid inside
// the batch function.
type Tx struct {
	state       *State
	roundLength int
	changed     bool
}

// State returns the state as mutated so far in this batch. Do not retain it.
func (tx *Tx) State() *State {
	return tx.state
}

// Changed reports whether the batch has mutated anything so far
func (tx *Tx) Changed() bool {
	return tx.changed
}

// SetUser sets the local user identity
func (tx *Tx) SetUser(user *models.TelegramUser) {
	if user != nil {
		u := *user
		user = &u
	}
	tx.state.User = user
	tx.changed = true
}

// SetRoom replaces the room wholesale. The roster is re-checked against the
// new team names and the scoreboard is re-keyed. A snapshot of the same room
// that would move its status backward or skip a status is rejected.
func (tx *Tx) SetRoom(room *models.Room) bool {
	if cur := tx.state.Room; cur != nil && room != nil && cur.ID == room.ID &&
		cur.Status != room.Status && !cur.Status.CanAdvanceTo(room.Status) {
		log.Warn().
			Str("room_id", room.ID.String()).
			Str("from", string(cur.Status)).
			Str("to", string(room.Status)).
			Msg("ignoring room snapshot with out-of-order status")
		return false
	}

	room = room.Clone()
	if room != nil {
		switch {
		case room.Status != models.RoomStatusPlaying:
			room.CurrentExplainerID = nil
		case room.CurrentExplainerID == nil:
			// REST snapshots omit the explainer. Keep the one we know, or
			// hold UnknownExplainer until the next round event names one.
			id := UnknownExplainer
			if cur := tx.state.Room; cur != nil && cur.ID == room.ID && cur.CurrentExplainerID != nil {
				id = *cur.CurrentExplainerID
			}
			room.CurrentExplainerID = &id
		}
	}
	tx.state.Room = room
	tx.changed = true

	for i := range tx.state.Players {
		tx.state.Players[i].Team = tx.checkTeam(tx.state.Players[i].UserID, tx.state.Players[i].Team)
	}
	tx.state.TeamScores = tx.normalizeScores(tx.state.TeamScores)
	return true
}

// SetPlayers replaces the roster. Duplicate user ids collapse to the last entry.
func (tx *Tx) SetPlayers(players []models.Player) {
	tx.state.Players = []models.Player{}
	for _, p := range players {
		tx.UpsertPlayer(p)
	}
	tx.changed = true
}

// UpsertPlayer adds a player or replaces the entry with the same user id.
// The replaced entry moves to the end of the roster.
func (tx *Tx) UpsertPlayer(p models.Player) {
	p.Team = tx.checkTeam(p.UserID, p.Team)

	roster := tx.state.Players[:0:0]
	for _, existing := range tx.state.Players {
		if existing.UserID != p.UserID {
			roster = append(roster, existing)
		}
	}
	tx.state.Players = append(roster, p)
	tx.changed = true
}

// RemovePlayer drops the player with the given user id, if present
func (tx *Tx) RemovePlayer(userID int64) {
	roster := tx.state.Players[:0:0]
	for _, p := range tx.state.Players {
		if p.UserID != userID {
			roster = append(roster, p)
		}
	}
	if len(roster) != len(tx.state.Players) {
		tx.state.Players = roster
		tx.changed = true
	}
}

// SetPlayerTeam assigns a team to a player. Unknown players and teams that
// are not configured for the room are ignored.
func (tx *Tx) SetPlayerTeam(userID int64, team string) bool {
	if team != "" && !tx.state.Room.HasTeam(team) {
		log.Warn().Int64("user_id", userID).Str("team", team).Msg("ignoring team change to unconfigured team")
		return false
	}
	for i := range tx.state.Players {
		if tx.state.Players[i].UserID == userID {
			tx.state.Players[i].Team = team
			tx.changed = true
			return true
		}
	}
	log.Warn().Int64("user_id", userID).Msg("ignoring team change for unknown player")
	return false
}

// StartGame moves the room from lobby to playing and names the first
// explainer. A repeated start while already playing only updates the
// explainer. It reports false when the room cannot be playing.
func (tx *Tx) StartGame(explainerID int64, roundEndAt *time.Time) bool {
	room := tx.state.Room
	if room == nil {
		log.Warn().Msg("ignoring game start without a room")
		return false
	}

	switch room.Status {
	case models.RoomStatusLobby:
		room.Status = models.RoomStatusPlaying
		if room.CurrentRound < 1 {
			room.CurrentRound = 1
		}
		tx.state.TeamScores = tx.normalizeScores(nil)
		tx.state.SecondsLeft = tx.roundLength
		tx.state.CurrentWord = nil
	case models.RoomStatusPlaying:
	default:
		log.Warn().Str("status", string(room.Status)).Msg("ignoring game start for room that is not in lobby")
		return false
	}

	id := explainerID
	room.CurrentExplainerID = &id
	if roundEndAt != nil {
		at := *roundEndAt
		room.RoundEndAt = &at
	}
	tx.changed = true
	return true
}

// SetWord sets or clears (nil) the word in play
func (tx *Tx) SetWord(word *models.Word) {
	if word != nil {
		if tx.state.Room == nil || tx.state.Room.Status != models.RoomStatusPlaying {
			log.Warn().Int("word_id", word.ID).Msg("ignoring word outside of a running game")
			return
		}
		w := *word
		word = &w
	}
	tx.state.CurrentWord = word
	tx.changed = true
}

// SetSecondsLeft sets the countdown display value
func (tx *Tx) SetSecondsLeft(seconds int) {
	if seconds < 0 {
		seconds = 0
	}
	tx.state.SecondsLeft = seconds
	tx.changed = true
}

// SetTeamScores replaces the scoreboard wholesale
func (tx *Tx) SetTeamScores(scores map[string]int) {
	tx.state.TeamScores = tx.normalizeScores(scores)
	tx.changed = true
}

// EndRound closes round `round`: the scoreboard is replaced, the next round
// begins with the next explainer and a full timer, and the word is cleared.
func (tx *Tx) EndRound(round int, scores map[string]int, nextExplainerID int64) bool {
	room := tx.state.Room
	if room == nil || room.Status != models.RoomStatusPlaying {
		log.Warn().Int("round", round).Msg("ignoring round end outside of a running game")
		return false
	}

	tx.state.TeamScores = tx.normalizeScores(scores)
	room.CurrentRound = round + 1
	id := nextExplainerID
	room.CurrentExplainerID = &id
	room.RoundEndAt = nil
	tx.state.SecondsLeft = tx.roundLength
	tx.state.CurrentWord = nil
	tx.changed = true
	return true
}

// EndGame replaces the scoreboard and finishes the room. The status only
// moves when the room is playing; a lobby never jumps straight to finished.
// Without a room nothing changes.
func (tx *Tx) EndGame(scores map[string]int) bool {
	room := tx.state.Room
	if room == nil {
		log.Warn().Msg("ignoring game end without a room")
		return false
	}

	tx.state.TeamScores = tx.normalizeScores(scores)
	tx.state.CurrentWord = nil
	tx.changed = true
	if room.Status == models.RoomStatusFinished {
		return true
	}
	if !room.Status.CanAdvanceTo(models.RoomStatusFinished) {
		log.Warn().Str("status", string(room.Status)).Msg("ignoring game end status change")
		return false
	}
	room.Status = models.RoomStatusFinished
	room.CurrentExplainerID = nil
	room.RoundEndAt = nil
	return true
}

// SetConnected records the channel status for display
func (tx *Tx) SetConnected(connected bool) {
	if tx.state.Connected != connected {
		tx.state.Connected = connected
		tx.changed = true
	}
}

func (tx *Tx) checkTeam(userID int64, team string) string {
	if team == "" || tx.state.Room.HasTeam(team) {
		return team
	}
	log.Warn().Int64("user_id", userID).Str("team", team).Msg("dropping unconfigured team from player")
	return ""
}

// normalizeScores re-keys scores to exactly the room's team names.
func (tx *Tx) normalizeScores(scores map[string]int) map[string]int {
	out := make(map[string]int)
	if tx.state.Room == nil {
		return out
	}
	for _, name := range tx.state.Room.TeamNames {
		out[name] = scores[name]
	}
	for name := range scores {
		if _, ok := out[name]; !ok {
			log.Warn().Str("team", name).Msg("dropping score for unconfigured team")
		}
	}
	return out
}
