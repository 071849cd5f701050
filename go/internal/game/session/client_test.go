package session

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YarikYar/alias/go/clients/alias_api_client"
	"github.com/YarikYar/alias/go/internal/game/store"
	"github.com/YarikYar/alias/go/internal/models"
	"github.com/YarikYar/alias/go/internal/platform"
)

const me int64 = 42

type fakeAPI struct {
	rooms   map[uuid.UUID]*alias_api_client.RoomResponse
	joined  []uuid.UUID
	teams   []string
	started []uuid.UUID
	getErr  error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{rooms: make(map[uuid.UUID]*alias_api_client.RoomResponse)}
}

func (f *fakeAPI) addRoom(status models.RoomStatus, players ...models.Player) uuid.UUID {
	id := uuid.New()
	f.rooms[id] = &alias_api_client.RoomResponse{
		Room:    models.Room{ID: id, Status: status, NumTeams: 2, TeamNames: []string{"A", "B"}},
		Players: players,
	}
	return id
}

func (f *fakeAPI) GetRoom(_ context.Context, roomID uuid.UUID) (*alias_api_client.RoomResponse, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	r, ok := f.rooms[roomID]
	if !ok {
		return nil, errors.New("room not found")
	}
	cp := *r
	cp.Players = append([]models.Player(nil), r.Players...)
	return &cp, nil
}

func (f *fakeAPI) CreateRoom(_ context.Context, req alias_api_client.CreateRoomRequest) (*alias_api_client.CreateRoomResponse, error) {
	id := uuid.New()
	host := models.Player{RoomID: id, UserID: me, IsHost: true}
	f.rooms[id] = &alias_api_client.RoomResponse{
		Room:    models.Room{ID: id, Status: models.RoomStatusLobby, Category: req.Category, NumTeams: req.NumTeams, TeamNames: []string{"A", "B", "C"}[:req.NumTeams]},
		Players: []models.Player{host},
	}
	return &alias_api_client.CreateRoomResponse{Room: f.rooms[id].Room, Player: host}, nil
}

func (f *fakeAPI) JoinRoom(_ context.Context, roomID uuid.UUID) (*models.Player, error) {
	f.joined = append(f.joined, roomID)
	p := models.Player{RoomID: roomID, UserID: me}
	f.rooms[roomID].Players = append(f.rooms[roomID].Players, p)
	return &p, nil
}

func (f *fakeAPI) ChangeTeam(_ context.Context, roomID uuid.UUID, team string) (*models.Player, error) {
	f.teams = append(f.teams, team)
	return &models.Player{RoomID: roomID, UserID: me, Team: team}, nil
}

func (f *fakeAPI) StartGame(_ context.Context, roomID uuid.UUID) (models.RoomStatus, error) {
	f.started = append(f.started, roomID)
	return models.RoomStatusPlaying, nil
}

func (f *fakeAPI) GetStats(_ context.Context, roomID uuid.UUID) (*models.GameStats, error) {
	return &models.GameStats{RoomID: roomID, TeamScores: map[string]int{"A": 1, "B": 0}}, nil
}

type fakeChannel struct {
	connected []uuid.UUID
	current   uuid.UUID
}

func (c *fakeChannel) Connect(roomID uuid.UUID) {
	c.connected = append(c.connected, roomID)
	c.current = roomID
}

func (c *fakeChannel) Disconnect() {
	c.current = uuid.Nil
}

func newTestClient(t *testing.T) (*Client, *fakeAPI, *fakeChannel, *platform.MemorySlot) {
	t.Helper()
	st := store.New(store.WithUser(&models.TelegramUser{ID: me, FirstName: "Me"}))
	api := newFakeAPI()
	ch := &fakeChannel{}
	slot := &platform.MemorySlot{}
	return NewClient(st, api, ch, slot), api, ch, slot
}

func TestResumeWithNothingSaved(t *testing.T) {
	c, _, ch, _ := newTestClient(t)

	ok, err := c.Resume(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, ch.connected)
	assert.Equal(t, ScreenHome, ScreenFor(c.Store().Snapshot()))
}

func TestResumeFromStartParamJoinsRoster(t *testing.T) {
	c, api, ch, slot := newTestClient(t)
	ctx := context.Background()
	roomID := api.addRoom(models.RoomStatusLobby, models.Player{UserID: 1, IsHost: true})

	ok, err := c.Resume(ctx, roomID.String())
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, []uuid.UUID{roomID}, api.joined)
	assert.Equal(t, []uuid.UUID{roomID}, ch.connected)

	saved, err := slot.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, roomID.String(), saved)

	s := c.Store().Snapshot()
	assert.Len(t, s.Players, 2)
	_, mine := s.MyPlayer()
	assert.True(t, mine)
	assert.Equal(t, ScreenLobby, ScreenFor(s))
}

func TestResumeFromSlotSkipsJoinWhenOnRoster(t *testing.T) {
	c, api, ch, slot := newTestClient(t)
	ctx := context.Background()
	roomID := api.addRoom(models.RoomStatusPlaying, models.Player{UserID: me})
	require.NoError(t, slot.Save(ctx, roomID.String()))

	ok, err := c.Resume(ctx, "")
	require.NoError(t, err)
	require.True(t, ok)

	assert.Empty(t, api.joined)
	assert.Equal(t, []uuid.UUID{roomID}, ch.connected)
	assert.Equal(t, ScreenGame, ScreenFor(c.Store().Snapshot()))
}

func TestResumeForgetsUnknownRoom(t *testing.T) {
	c, api, ch, slot := newTestClient(t)
	ctx := context.Background()
	require.NoError(t, slot.Save(ctx, uuid.NewString()))
	api.getErr = errors.New("room not found")

	ok, err := c.Resume(ctx, "")
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Empty(t, ch.connected)

	_, err = slot.Load(ctx)
	assert.ErrorIs(t, err, platform.ErrSlotEmpty)
}

func TestResumeRejectsMalformedID(t *testing.T) {
	c, _, _, slot := newTestClient(t)
	ctx := context.Background()
	require.NoError(t, slot.Save(ctx, "not-a-room"))

	_, err := c.Resume(ctx, "")
	assert.Error(t, err)

	_, err = slot.Load(ctx)
	assert.ErrorIs(t, err, platform.ErrSlotEmpty)
}

func TestCreateRoom(t *testing.T) {
	c, _, ch, slot := newTestClient(t)
	ctx := context.Background()

	room, err := c.CreateRoom(ctx, "movies", 3)
	require.NoError(t, err)

	assert.Equal(t, []uuid.UUID{room.ID}, ch.connected)
	saved, _ := slot.Load(ctx)
	assert.Equal(t, room.ID.String(), saved)

	s := c.Store().Snapshot()
	assert.True(t, s.IsHost())
	assert.Equal(t, map[string]int{"A": 0, "B": 0, "C": 0}, s.TeamScores)
}

func TestRoomOperationsNeedRoom(t *testing.T) {
	c, _, _, _ := newTestClient(t)
	ctx := context.Background()

	assert.ErrorIs(t, c.ChangeTeam(ctx, "A"), ErrNoRoom)
	assert.ErrorIs(t, c.Start(ctx), ErrNoRoom)
	_, err := c.Stats(ctx)
	assert.ErrorIs(t, err, ErrNoRoom)
}

func TestChangeTeamAndStart(t *testing.T) {
	c, api, _, _ := newTestClient(t)
	ctx := context.Background()
	_, err := c.CreateRoom(ctx, "general", 2)
	require.NoError(t, err)

	assert.Error(t, c.ChangeTeam(ctx, "Z"))
	require.NoError(t, c.ChangeTeam(ctx, "B"))
	assert.Equal(t, []string{"B"}, api.teams)
	p, _ := c.Store().MyPlayer()
	assert.Equal(t, "B", p.Team)

	require.NoError(t, c.Start(ctx))
	assert.Len(t, api.started, 1)

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TeamScores["A"])
}

func TestLeaveClearsEverything(t *testing.T) {
	c, _, ch, slot := newTestClient(t)
	ctx := context.Background()
	_, err := c.CreateRoom(ctx, "general", 2)
	require.NoError(t, err)

	c.Leave(ctx)

	assert.Equal(t, uuid.Nil, ch.current)
	_, err = slot.Load(ctx)
	assert.ErrorIs(t, err, platform.ErrSlotEmpty)

	s := c.Store().Snapshot()
	assert.Nil(t, s.Room)
	assert.Empty(t, s.Players)
	require.NotNil(t, s.User)
	assert.Equal(t, me, s.User.ID)
}

func TestCloseKeepsSlot(t *testing.T) {
	c, _, ch, slot := newTestClient(t)
	ctx := context.Background()
	room, err := c.CreateRoom(ctx, "general", 2)
	require.NoError(t, err)

	require.NoError(t, c.Close())
	assert.Equal(t, uuid.Nil, ch.current)
	saved, err := slot.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, room.ID.String(), saved)
}

func TestJoinOtherRoomResetsState(t *testing.T) {
	c, api, ch, _ := newTestClient(t)
	ctx := context.Background()
	first := api.addRoom(models.RoomStatusLobby, models.Player{UserID: me}, models.Player{UserID: 7})
	second := api.addRoom(models.RoomStatusLobby, models.Player{UserID: me})

	require.NoError(t, c.Join(ctx, first))
	require.NoError(t, c.Join(ctx, second))

	assert.Equal(t, []uuid.UUID{first, second}, ch.connected)
	s := c.Store().Snapshot()
	assert.Equal(t, second, s.Room.ID)
	assert.Len(t, s.Players, 1)
}

func TestStaleSnapshotKeepsRoster(t *testing.T) {
	c, api, _, _ := newTestClient(t)
	ctx := context.Background()
	roomID := api.addRoom(models.RoomStatusPlaying, models.Player{UserID: me})
	require.NoError(t, c.Join(ctx, roomID))

	api.rooms[roomID].Room.Status = models.RoomStatusLobby
	api.rooms[roomID].Players = append(api.rooms[roomID].Players, models.Player{UserID: 7})
	require.NoError(t, c.Join(ctx, roomID))

	s := c.Store().Snapshot()
	assert.Equal(t, models.RoomStatusPlaying, s.Room.Status)
	assert.Len(t, s.Players, 1)
}
