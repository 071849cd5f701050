package alias_api_client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/YarikYar/alias/go/internal/models"
)

// GetRoom fetches the room and its roster
func (c *AliasApiClient) GetRoom(ctx context.Context, roomID uuid.UUID) (*RoomResponse, error) {
	body, err := c.Get(ctx, fmt.Sprintf(RoomEndpoint, roomID))
	if err != nil {
		return nil, fmt.Errorf("get room %s: %w", roomID, err)
	}

	var resp RoomResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal room response: %w", err)
	}
	if resp.Players == nil {
		resp.Players = []models.Player{}
	}
	return &resp, nil
}

// CreateRoom creates a room hosted by the caller
func (c *AliasApiClient) CreateRoom(ctx context.Context, req CreateRoomRequest) (*CreateRoomResponse, error) {
	if req.Category == "" {
		req.Category = DefaultCategory
	}

	var resp CreateRoomResponse
	if err := c.postJSON(ctx, RoomsEndpoint, req, &resp); err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}
	return &resp, nil
}

// JoinRoom adds the caller to the room's roster
func (c *AliasApiClient) JoinRoom(ctx context.Context, roomID uuid.UUID) (*models.Player, error) {
	var resp PlayerResponse
	if err := c.postJSON(ctx, fmt.Sprintf(JoinEndpoint, roomID), nil, &resp); err != nil {
		return nil, fmt.Errorf("join room %s: %w", roomID, err)
	}
	return &resp.Player, nil
}

// ChangeTeam moves the caller to team
func (c *AliasApiClient) ChangeTeam(ctx context.Context, roomID uuid.UUID, team string) (*models.Player, error) {
	var resp PlayerResponse
	req := map[string]string{"team": team}
	if err := c.postJSON(ctx, fmt.Sprintf(TeamEndpoint, roomID), req, &resp); err != nil {
		return nil, fmt.Errorf("change team in room %s: %w", roomID, err)
	}
	return &resp.Player, nil
}

// StartGame asks the server to start the game. Only the host may.
func (c *AliasApiClient) StartGame(ctx context.Context, roomID uuid.UUID) (models.RoomStatus, error) {
	var resp StartResponse
	if err := c.postJSON(ctx, fmt.Sprintf(StartEndpoint, roomID), nil, &resp); err != nil {
		return "", fmt.Errorf("start game in room %s: %w", roomID, err)
	}
	return resp.Status, nil
}

// GetStats fetches the end-of-game statistics
func (c *AliasApiClient) GetStats(ctx context.Context, roomID uuid.UUID) (*models.GameStats, error) {
	body, err := c.Get(ctx, fmt.Sprintf(StatsEndpoint, roomID))
	if err != nil {
		return nil, fmt.Errorf("get stats for room %s: %w", roomID, err)
	}

	var stats models.GameStats
	if err := json.Unmarshal(body, &stats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stats response: %w", err)
	}
	return &stats, nil
}

func (c *AliasApiClient) postJSON(ctx context.Context, endpoint string, in, out any) error {
	var payload []byte
	if in != nil {
		var err error
		payload, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	body, err := c.Post(ctx, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
