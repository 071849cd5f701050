package gateway

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/YarikYar/alias/go/internal/game/events"
)

// ConnectionStatus is the lifecycle stage of the channel
type ConnectionStatus string

const (
	StatusDisconnected ConnectionStatus = "disconnected"
	StatusConnecting   ConnectionStatus = "connecting"
	StatusConnected    ConnectionStatus = "connected"
)

// ConnectionState is what the Manager reports to observers
type ConnectionState struct {
	RoomID         uuid.UUID        `json:"room_id"`
	Status         ConnectionStatus `json:"status"`
	ReconnectArmed bool             `json:"reconnect_armed"`
}

// FrameHandler receives every inbound text frame, in delivery order
type FrameHandler interface {
	HandleFrame(data []byte)
}

// StatusObserver is told about every connection state change. Observers run
// synchronously and must not call Connect, Disconnect or Close.
type StatusObserver func(state ConnectionState)

// Manager owns the single channel to the room the client is bound to. A
// closed channel is redialed after a fixed delay for as long as the room
// stays bound.
type Manager struct {
	config    Config
	dialer    Dialer
	tokens    TokenSource
	clock     clockwork.Clock
	handler   FrameHandler
	observers []StatusObserver

	mu         sync.Mutex
	roomID     uuid.UUID
	bound      bool
	conn       Conn
	status     ConnectionStatus
	timer      clockwork.Timer
	cancelDial context.CancelFunc
	// generation changes on every bind and disposal. Dial results, read
	// loops and timer callbacks carrying an older generation are stale.
	generation uint64

	notifyMu     sync.Mutex
	lastReported ConnectionState

	writeMu sync.Mutex
}

// ManagerOption configures a Manager
type ManagerOption func(*Manager)

// WithClock replaces the real clock, for tests
func WithClock(clock clockwork.Clock) ManagerOption {
	return func(m *Manager) {
		m.clock = clock
	}
}

// WithDialer replaces the gorilla dialer
func WithDialer(d Dialer) ManagerOption {
	return func(m *Manager) {
		m.dialer = d
	}
}

// WithTokenSource sets the credential appended to the channel URL
func WithTokenSource(tokens TokenSource) ManagerOption {
	return func(m *Manager) {
		m.tokens = tokens
	}
}

// WithStatusObserver adds an observer of connection state changes
func WithStatusObserver(obs StatusObserver) ManagerOption {
	return func(m *Manager) {
		m.observers = append(m.observers, obs)
	}
}

// NewManager creates a Manager delivering frames to handler
func NewManager(config Config, handler FrameHandler, opts ...ManagerOption) *Manager {
	m := &Manager{
		config:  config.withDefaults(),
		handler: handler,
		clock:   clockwork.NewRealClock(),
		tokens:  StaticToken(""),
		status:  StatusDisconnected,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.dialer == nil {
		m.dialer = NewWebsocketDialer()
	}
	m.lastReported = ConnectionState{Status: StatusDisconnected}
	return m
}

// Connect binds the manager to roomID and opens the channel in the
// background. Connecting to the bound room again is a no-op; connecting to
// a different room disposes the previous binding first.
func (m *Manager) Connect(roomID uuid.UUID) {
	var (
		gen   uint64
		stale Conn
		dial  bool
	)
	m.update(func() {
		if m.bound && m.roomID == roomID {
			return
		}
		if m.bound {
			log.Info().
				Str("room_id", m.roomID.String()).
				Str("next_room_id", roomID.String()).
				Msg("switching room channel")
			stale = m.disposeLocked()
		}
		m.generation++
		m.bound = true
		m.roomID = roomID
		m.status = StatusConnecting
		gen = m.generation
		dial = true
	})
	closeConn(stale)

	if dial {
		go m.dial(gen)
	}
}

// Disconnect unbinds the room: the armed reconnect is cancelled and the live
// channel is closed. Nothing outlives this call.
func (m *Manager) Disconnect() {
	var stale Conn
	m.update(func() {
		if !m.bound {
			return
		}
		log.Info().Str("room_id", m.roomID.String()).Msg("disconnecting room channel")
		stale = m.disposeLocked()
	})
	closeConn(stale)
}

// Close is Disconnect for owners that hold the Manager as an io.Closer
func (m *Manager) Close() error {
	m.Disconnect()
	return nil
}

// IsConnected reports whether the channel is open
func (m *Manager) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conn != nil
}

// State returns the current connection state
func (m *Manager) State() ConnectionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stateLocked()
}

// Send writes {type, ...payload} if the channel is open. While disconnected
// the message is dropped and Send returns false.
func (m *Manager) Send(msgType events.MessageType, payload any) bool {
	m.mu.Lock()
	conn := m.conn
	roomID := m.roomID
	m.mu.Unlock()

	if conn == nil {
		log.Debug().
			Str("type", string(msgType)).
			Str("room_id", roomID.String()).
			Msg("dropping message while disconnected")
		return false
	}

	data, err := events.Encode(msgType, payload)
	if err != nil {
		log.Error().Err(err).Str("type", string(msgType)).Msg("failed to encode outbound message")
		return false
	}

	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	conn.SetWriteDeadline(time.Now().Add(m.config.WriteTimeout))
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		log.Warn().
			Err(err).
			Str("type", string(msgType)).
			Str("room_id", roomID.String()).
			Msg("failed to write message, closing channel")
		// the read loop sees the close and arms the reconnect
		conn.Close()
		return false
	}
	return true
}

// SendSwipe sends a swipe action
func (m *Manager) SendSwipe(action events.Action) bool {
	if !action.Valid() {
		log.Warn().Str("action", string(action)).Msg("refusing to send invalid swipe action")
		return false
	}
	return m.Send(events.MsgTypeSwipe, events.SwipePayload{Action: action})
}

// ChannelURL returns the channel address for roomID
func (m *Manager) ChannelURL(roomID uuid.UUID) string {
	base := strings.TrimSuffix(m.config.URL, "/")
	return base + "/ws/" + roomID.String() + "?init_data=" + url.QueryEscape(m.tokens.Token())
}

func (m *Manager) dial(gen uint64) {
	var (
		roomID uuid.UUID
		ctx    context.Context
		ok     bool
	)
	m.update(func() {
		if gen != m.generation || !m.bound {
			return
		}
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), m.config.DialTimeout)
		m.cancelDial = cancel
		m.status = StatusConnecting
		roomID = m.roomID
		ok = true
	})
	if !ok {
		return
	}

	log.Debug().Str("room_id", roomID.String()).Msg("dialing room channel")
	conn, err := m.dialer.DialContext(ctx, m.ChannelURL(roomID), nil)

	var stale Conn
	m.update(func() {
		if m.cancelDial != nil && gen == m.generation {
			m.cancelDial()
			m.cancelDial = nil
		}
		if gen != m.generation || !m.bound {
			stale = conn
			ok = false
			return
		}
		if err != nil {
			log.Warn().
				Err(err).
				Str("room_id", roomID.String()).
				Dur("retry_in", m.config.ReconnectDelay).
				Msg("failed to open room channel")
			m.status = StatusDisconnected
			m.armLocked(gen)
			ok = false
			return
		}
		m.conn = conn
		m.status = StatusConnected
	})
	if !ok {
		closeConn(stale)
		return
	}

	log.Info().Str("room_id", roomID.String()).Msg("room channel established")
	m.readLoop(gen, roomID, conn)
}

// readLoop is the only reader of conn. Frames are handed to the handler one
// at a time, in the order they arrive.
func (m *Manager) readLoop(gen uint64, roomID uuid.UUID, conn Conn) {
	defer m.channelClosed(gen, roomID, conn)

	conn.SetReadLimit(m.config.MaxMessageSize)
	conn.SetReadDeadline(time.Now().Add(m.config.ReadTimeout))
	conn.SetPingHandler(func(appData string) error {
		conn.SetReadDeadline(time.Now().Add(m.config.ReadTimeout))
		err := conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(m.config.WriteTimeout))
		if err == websocket.ErrCloseSent {
			return nil
		}
		return err
	})

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().
					Err(err).
					Str("room_id", roomID.String()).
					Msg("unexpected room channel close")
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(m.config.ReadTimeout))

		if msgType != websocket.TextMessage {
			continue
		}
		if !m.current(gen, conn) {
			return
		}
		if m.handler != nil {
			m.handler.HandleFrame(data)
		}
	}
}

// channelClosed arms the reconnect if conn was the live channel of a room
// that is still bound.
func (m *Manager) channelClosed(gen uint64, roomID uuid.UUID, conn Conn) {
	conn.Close()

	m.update(func() {
		if gen != m.generation || m.conn != conn {
			return
		}
		m.conn = nil
		m.status = StatusDisconnected
		if m.bound {
			log.Info().
				Str("room_id", roomID.String()).
				Dur("retry_in", m.config.ReconnectDelay).
				Msg("room channel closed, scheduling reconnect")
			m.armLocked(gen)
		}
	})
}

// armLocked schedules the one reconnect attempt. A timer already armed is
// kept as is.
func (m *Manager) armLocked(gen uint64) {
	if m.timer != nil {
		return
	}
	m.timer = m.clock.AfterFunc(m.config.ReconnectDelay, func() {
		m.reconnect(gen)
	})
}

func (m *Manager) reconnect(gen uint64) {
	var ok bool
	m.update(func() {
		if gen != m.generation || !m.bound {
			return
		}
		m.timer = nil
		if m.conn != nil {
			return
		}
		m.status = StatusConnecting
		ok = true
	})
	if ok {
		log.Debug().Msg("reconnecting room channel")
		go m.dial(gen)
	}
}

// disposeLocked invalidates the current binding and returns the channel
// the caller must close.
func (m *Manager) disposeLocked() Conn {
	m.generation++
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	if m.cancelDial != nil {
		m.cancelDial()
		m.cancelDial = nil
	}
	conn := m.conn
	m.conn = nil
	m.bound = false
	m.roomID = uuid.Nil
	m.status = StatusDisconnected
	return conn
}

func (m *Manager) current(gen uint64, conn Conn) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return gen == m.generation && m.conn == conn
}

func (m *Manager) stateLocked() ConnectionState {
	return ConnectionState{
		RoomID:         m.roomID,
		Status:         m.status,
		ReconnectArmed: m.timer != nil,
	}
}

// update runs fn under the state lock and reports the resulting state to
// observers if it changed. Reports are delivered in the order of updates.
func (m *Manager) update(fn func()) {
	m.notifyMu.Lock()
	defer m.notifyMu.Unlock()

	m.mu.Lock()
	fn()
	state := m.stateLocked()
	m.mu.Unlock()

	if state == m.lastReported {
		return
	}
	m.lastReported = state
	for _, obs := range m.observers {
		obs(state)
	}
}

func closeConn(conn Conn) {
	if conn == nil {
		return
	}
	conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	conn.Close()
}
