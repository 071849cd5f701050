package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/YarikYar/alias/go/clients/alias_api_client"
	"github.com/YarikYar/alias/go/internal/game/store"
	"github.com/YarikYar/alias/go/internal/models"
	"github.com/YarikYar/alias/go/internal/platform"
)

// ErrNoRoom is returned by room operations while no room is active
var ErrNoRoom = errors.New("no active room")

// RoomsAPI is the backend room API
type RoomsAPI interface {
	GetRoom(ctx context.Context, roomID uuid.UUID) (*alias_api_client.RoomResponse, error)
	CreateRoom(ctx context.Context, req alias_api_client.CreateRoomRequest) (*alias_api_client.CreateRoomResponse, error)
	JoinRoom(ctx context.Context, roomID uuid.UUID) (*models.Player, error)
	ChangeTeam(ctx context.Context, roomID uuid.UUID, team string) (*models.Player, error)
	StartGame(ctx context.Context, roomID uuid.UUID) (models.RoomStatus, error)
	GetStats(ctx context.Context, roomID uuid.UUID) (*models.GameStats, error)
}

// Channel is the live connection to a room. *gateway.Manager satisfies it.
type Channel interface {
	Connect(roomID uuid.UUID)
	Disconnect()
}

// Client ties the room lifecycle together: it loads rooms over REST, keeps
// the store and the channel bound to the same room, and remembers the room
// across restarts.
type Client struct {
	store   *store.Store
	api     RoomsAPI
	channel Channel
	slot    platform.RoomSlot
}

// NewClient creates a session client. A nil slot remembers nothing.
func NewClient(st *store.Store, api RoomsAPI, channel Channel, slot platform.RoomSlot) *Client {
	if slot == nil {
		slot = &platform.MemorySlot{}
	}
	return &Client{
		store:   st,
		api:     api,
		channel: channel,
		slot:    slot,
	}
}

// Store returns the session store
func (c *Client) Store() *store.Store {
	return c.store
}

// Resume enters the room named by startParam, or the remembered room when
// startParam is empty. It reports false when there is no room to resume. A
// room that cannot be loaded is forgotten.
func (c *Client) Resume(ctx context.Context, startParam string) (bool, error) {
	raw := startParam
	if raw == "" {
		saved, err := c.slot.Load(ctx)
		if errors.Is(err, platform.ErrSlotEmpty) {
			log.Debug().Msg("no room to resume")
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("failed to load saved room: %w", err)
		}
		raw = saved
	}

	roomID, err := uuid.Parse(raw)
	if err != nil {
		c.forget(ctx)
		return false, fmt.Errorf("invalid room id %q: %w", raw, err)
	}

	if err := c.Join(ctx, roomID); err != nil {
		return false, err
	}
	return true, nil
}

// Join loads the room, joins its roster if the local user is not on it yet,
// and opens the channel.
func (c *Client) Join(ctx context.Context, roomID uuid.UUID) error {
	resp, err := c.api.GetRoom(ctx, roomID)
	if err != nil {
		c.forget(ctx)
		return fmt.Errorf("failed to load room: %w", err)
	}

	c.enter(ctx, &resp.Room, resp.Players)

	user := c.store.Snapshot().User
	if user != nil && !onRoster(resp.Players, user.ID) {
		log.Info().Str("room_id", roomID.String()).Int64("user_id", user.ID).Msg("joining room")
		if _, err := c.api.JoinRoom(ctx, roomID); err != nil {
			c.leave(ctx)
			return fmt.Errorf("failed to join room: %w", err)
		}

		updated, err := c.api.GetRoom(ctx, roomID)
		if err != nil {
			c.leave(ctx)
			return fmt.Errorf("failed to refresh room: %w", err)
		}
		c.store.SetPlayers(updated.Players)
	}

	c.channel.Connect(roomID)
	return nil
}

// CreateRoom creates a room hosted by the local user and enters it
func (c *Client) CreateRoom(ctx context.Context, category string, numTeams int) (*models.Room, error) {
	resp, err := c.api.CreateRoom(ctx, alias_api_client.CreateRoomRequest{
		Category: category,
		NumTeams: numTeams,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	c.enter(ctx, &resp.Room, []models.Player{resp.Player})
	c.channel.Connect(resp.Room.ID)

	log.Info().
		Str("room_id", resp.Room.ID.String()).
		Str("category", resp.Room.Category).
		Int("num_teams", resp.Room.NumTeams).
		Msg("room created")
	return resp.Room.Clone(), nil
}

// ChangeTeam moves the local user to team
func (c *Client) ChangeTeam(ctx context.Context, team string) error {
	room := c.store.Room()
	if room == nil {
		return ErrNoRoom
	}
	if !room.HasTeam(team) {
		return fmt.Errorf("team %q is not configured for room %s", team, room.ID)
	}

	player, err := c.api.ChangeTeam(ctx, room.ID, team)
	if err != nil {
		return fmt.Errorf("failed to change team: %w", err)
	}
	c.store.SetPlayerTeam(player.UserID, player.Team)
	return nil
}

// Start asks the server to start the game. The state changes when the
// server announces it.
func (c *Client) Start(ctx context.Context) error {
	snapshot := c.store.Snapshot()
	if snapshot.Room == nil {
		return ErrNoRoom
	}
	if !snapshot.IsHost() {
		log.Warn().Str("room_id", snapshot.Room.ID.String()).Msg("starting game as non-host")
	}

	status, err := c.api.StartGame(ctx, snapshot.Room.ID)
	if err != nil {
		return fmt.Errorf("failed to start game: %w", err)
	}
	log.Info().Str("room_id", snapshot.Room.ID.String()).Str("status", string(status)).Msg("game start requested")
	return nil
}

// Stats fetches the statistics of the active room
func (c *Client) Stats(ctx context.Context) (*models.GameStats, error) {
	room := c.store.Room()
	if room == nil {
		return nil, ErrNoRoom
	}
	stats, err := c.api.GetStats(ctx, room.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}
	return stats, nil
}

// Leave forgets the room: the slot is cleared, the channel closed and the
// store reset.
func (c *Client) Leave(ctx context.Context) {
	c.leave(ctx)
}

// Close releases the channel. The room stays remembered for the next Resume.
func (c *Client) Close() error {
	c.channel.Disconnect()
	return nil
}

func (c *Client) enter(ctx context.Context, room *models.Room, players []models.Player) {
	if cur := c.store.Room(); cur != nil && cur.ID != room.ID {
		c.channel.Disconnect()
		c.store.Reset()
	}

	c.store.Apply(func(tx *store.Tx) {
		if !tx.SetRoom(room) {
			return
		}
		tx.SetPlayers(players)
	})

	if err := c.slot.Save(ctx, room.ID.String()); err != nil {
		log.Warn().Err(err).Str("room_id", room.ID.String()).Msg("failed to remember room")
	}
}

func (c *Client) leave(ctx context.Context) {
	c.forget(ctx)
	c.channel.Disconnect()
	c.store.Reset()
}

func (c *Client) forget(ctx context.Context) {
	if err := c.slot.Clear(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to clear saved room")
	}
}

func onRoster(players []models.Player, userID int64) bool {
	for _, p := range players {
		if p.UserID == userID {
			return true
		}
	}
	return false
}
