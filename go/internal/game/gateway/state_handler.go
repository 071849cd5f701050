package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"

	"github.com/YarikYar/alias/go/internal/game/store"
)

// StateResponse is the body of GET /state
type StateResponse struct {
	store.State
	IsHost      bool            `json:"is_host"`
	IsExplainer bool            `json:"is_explainer"`
	Connection  ConnectionState `json:"connection"`
}

// StateHandler serves a read-only view of the session over HTTP for local
// tooling and view layers that run out of process.
type StateHandler struct {
	store      *store.Store
	manager    *Manager
	dispatcher *Dispatcher
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status     string          `json:"status"`
	Connection ConnectionState `json:"connection"`
	Dispatch   *DispatchStats  `json:"dispatch,omitempty"`
}

// NewStateHandler creates a state handler. manager and dispatcher may be nil.
func NewStateHandler(st *store.Store, manager *Manager, dispatcher *Dispatcher) *StateHandler {
	return &StateHandler{
		store:      st,
		manager:    manager,
		dispatcher: dispatcher,
	}
}

// HandleGetState handles GET /state
func (h *StateHandler) HandleGetState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snapshot := h.store.Snapshot()
	resp := StateResponse{
		State:       snapshot,
		IsHost:      snapshot.IsHost(),
		IsExplainer: snapshot.IsExplainer(),
	}
	resp.Connection = h.connection()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error().Err(err).Msg("failed to encode state response")
	}
}

// HandleHealth handles GET /health. The client is degraded while its room
// channel is down.
func (h *StateHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:     "ok",
		Connection: h.connection(),
	}
	if resp.Connection.RoomID != uuid.Nil && resp.Connection.Status != StatusConnected {
		resp.Status = "degraded"
	}
	if h.dispatcher != nil {
		stats := h.dispatcher.Stats()
		resp.Dispatch = &stats
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error().Err(err).Msg("failed to encode health response")
	}
}

func (h *StateHandler) connection() ConnectionState {
	if h.manager == nil {
		return ConnectionState{Status: StatusDisconnected}
	}
	return h.manager.State()
}

// RegisterRoutes registers the state routes on mux
func (h *StateHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/state", h.HandleGetState)
	mux.HandleFunc("/health", h.HandleHealth)
}

// Handler returns the routes wrapped with CORS for browser views
func (h *StateHandler) Handler() http.Handler {
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
		},
		AllowedOrigins: []string{"*"},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(mux)
}
