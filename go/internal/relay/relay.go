package relay

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/YarikYar/alias/go/internal/game/events"
	"github.com/YarikYar/alias/go/internal/game/gateway"
)

const (
	DirectionInbound  = "inbound"
	DirectionOutbound = "outbound"
)

// Config holds configuration for the NATS mirror
type Config struct {
	URL           string        `yaml:"nats_url"`
	SubjectPrefix string        `yaml:"subject_prefix"`
	MaxReconnects int           `yaml:"max_reconnects"`
	ReconnectWait time.Duration `yaml:"reconnect_wait"`
}

// DefaultConfig returns default relay configuration
func DefaultConfig() Config {
	return Config{
		URL:           nats.DefaultURL,
		SubjectPrefix: "alias.client",
		MaxReconnects: -1, // Infinite
		ReconnectWait: 2 * time.Second,
	}
}

// Publisher is the part of *nats.Conn the relay uses
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Envelope is the message published for every mirrored event
type Envelope struct {
	EventID   string          `json:"eventId"`
	EventType string          `json:"eventType"`
	RoomID    string          `json:"roomId"`
	Direction string          `json:"direction"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// Relay mirrors applied inbound events and sent swipes onto NATS subjects
// <prefix>.rooms.<room_id>.<type>. Publishing is best effort and never
// blocks the game.
type Relay struct {
	pub    Publisher
	prefix string
	now    func() time.Time
}

var _ gateway.Observer = (*Relay)(nil)

// New creates a relay publishing through pub
func New(pub Publisher, subjectPrefix string) *Relay {
	if subjectPrefix == "" {
		subjectPrefix = DefaultConfig().SubjectPrefix
	}
	return &Relay{
		pub:    pub,
		prefix: subjectPrefix,
		now:    time.Now,
	}
}

// Connect dials NATS and returns a relay on the connection. Close the
// connection when done.
func Connect(cfg Config) (*Relay, *nats.Conn, error) {
	opts := []nats.Option{
		nats.Name("alias-client-relay"),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return New(nc, cfg.SubjectPrefix), nc, nil
}

// Subject returns the subject for an event in a room
func (r *Relay) Subject(roomID string, eventType events.MessageType) string {
	if roomID == "" {
		roomID = "none"
	}
	return fmt.Sprintf("%s.rooms.%s.%s", r.prefix, roomID, eventType)
}

// EventApplied mirrors an inbound event
func (r *Relay) EventApplied(roomID string, event events.Event) {
	r.publish(roomID, DirectionInbound, event.Type(), event)
}

// Swipes wraps sender so that every swipe it accepts is mirrored.
// roomID is read at send time.
func (r *Relay) Swipes(sender gateway.SwipeSender, roomID func() string) gateway.SwipeSender {
	return &mirroredSender{relay: r, next: sender, roomID: roomID}
}

func (r *Relay) publish(roomID, direction string, eventType events.MessageType, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("event_type", string(eventType)).Msg("failed to marshal relay payload")
		return
	}

	envelope := Envelope{
		EventID:   uuid.NewString(),
		EventType: string(eventType),
		RoomID:    roomID,
		Direction: direction,
		Timestamp: r.now().UTC(),
		Payload:   raw,
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal relay envelope")
		return
	}

	subject := r.Subject(roomID, eventType)
	if err := r.pub.Publish(subject, data); err != nil {
		log.Warn().Err(err).Str("subject", subject).Msg("failed to publish to relay")
		return
	}
	log.Debug().Str("subject", subject).Int("size", len(data)).Msg("event relayed")
}

type mirroredSender struct {
	relay  *Relay
	next   gateway.SwipeSender
	roomID func() string
}

func (s *mirroredSender) SendSwipe(action events.Action) bool {
	if !s.next.SendSwipe(action) {
		return false
	}
	s.relay.publish(s.roomID(), DirectionOutbound, events.MsgTypeSwipe, events.SwipePayload{Action: action})
	return true
}
