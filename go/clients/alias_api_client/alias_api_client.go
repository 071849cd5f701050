package alias_api_client

import (
	"github.com/YarikYar/alias/go/clients"
	"github.com/YarikYar/alias/go/internal/models"
)

// AliasApiClient talks to the game backend's room API. Every request carries
// the platform init data in both accepted header forms.
type AliasApiClient struct {
	*clients.BaseClient
}

func NewAliasApiClient(baseURL, initData string) *AliasApiClient {
	client := &AliasApiClient{
		BaseClient: clients.NewBaseClient(baseURL),
	}

	if initData != "" {
		client.SetHeader(InitDataHeader, initData)
		client.SetHeader(AuthorizationHeader, AuthorizationScheme+" "+initData)
	}

	return client
}

// RoomResponse is returned when fetching a room
type RoomResponse struct {
	Room    models.Room     `json:"room"`
	Players []models.Player `json:"players"`
}

// CreateRoomRequest is the body of a room creation
type CreateRoomRequest struct {
	Category string `json:"category"`
	NumTeams int    `json:"num_teams,omitempty"`
}

// CreateRoomResponse is returned when a room is created
type CreateRoomResponse struct {
	Room   models.Room   `json:"room"`
	Player models.Player `json:"player"`
}

// PlayerResponse is returned by join and team changes
type PlayerResponse struct {
	Player models.Player `json:"player"`
}

// StartResponse is returned when the host starts the game
type StartResponse struct {
	Status models.RoomStatus `json:"status"`
}
