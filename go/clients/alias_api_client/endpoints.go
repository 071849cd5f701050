package alias_api_client

const (
	// API Endpoints
	RoomsEndpoint     = "/api/rooms"
	RoomEndpoint      = "/api/rooms/%s"
	JoinEndpoint      = "/api/rooms/%s/join"
	TeamEndpoint      = "/api/rooms/%s/team"
	StartEndpoint     = "/api/rooms/%s/start"
	StatsEndpoint     = "/api/rooms/%s/stats"
	DefaultCategory   = "general"
	DefaultTeamsCount = 2

	// Headers
	InitDataHeader      = "X-Telegram-Init-Data"
	AuthorizationHeader = "Authorization"
	AuthorizationScheme = "tma"
)
