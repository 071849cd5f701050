package gesture

import (
	"math"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/YarikYar/alias/go/internal/game/events"
	"github.com/YarikYar/alias/go/internal/platform"
)

const (
	DefaultThreshold         = 80.0
	DefaultVelocityThreshold = 0.5
)

// Config holds the trigger thresholds for a completed drag
type Config struct {
	// Threshold is the distance in pixels the dominant axis must exceed
	Threshold float64 `yaml:"swipe_threshold"`
	// VelocityThreshold is the release speed in px/ms that triggers regardless of distance
	VelocityThreshold float64 `yaml:"velocity_threshold"`
}

// DefaultConfig returns the thresholds used by the game screen
func DefaultConfig() Config {
	return Config{
		Threshold:         DefaultThreshold,
		VelocityThreshold: DefaultVelocityThreshold,
	}
}

// ActionSink receives classified swipes. It reports whether the action left the device.
type ActionSink interface {
	SendSwipe(action events.Action) bool
}

// SinkFunc adapts a function to ActionSink
type SinkFunc func(action events.Action) bool

func (fn SinkFunc) SendSwipe(action events.Action) bool { return fn(action) }

// State is the transient view of the drag in progress. Direction is empty
// when no axis dominates.
type State struct {
	DX        float64       `json:"dx"`
	DY        float64       `json:"dy"`
	Direction events.Action `json:"direction,omitempty"`
	Active    bool          `json:"active"`
}

// Recognizer turns one drag into at most one swipe action
type Recognizer struct {
	cfg     Config
	sink    ActionSink
	haptics platform.Haptics

	mu    sync.Mutex
	state State
}

// NewRecognizer creates a recognizer bound to sink. A nil haptics plays nothing.
func NewRecognizer(cfg Config, sink ActionSink, haptics platform.Haptics) *Recognizer {
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultThreshold
	}
	if cfg.VelocityThreshold <= 0 {
		cfg.VelocityThreshold = DefaultVelocityThreshold
	}
	if haptics == nil {
		haptics = platform.NoHaptics{}
	}
	return &Recognizer{
		cfg:     cfg,
		sink:    sink,
		haptics: haptics,
	}
}

// Press starts a drag. A press while already dragging restarts it.
func (r *Recognizer) Press() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = State{Active: true}
}

// Move records the offset from the press point. Samples outside a drag are ignored.
func (r *Recognizer) Move(dx, dy float64) {
	r.mu.Lock()
	if !r.state.Active {
		r.mu.Unlock()
		return
	}

	dir := provisional(dx, dy)
	changed := dir != "" && dir != r.state.Direction
	r.state.DX, r.state.DY, r.state.Direction = dx, dy, dir
	r.mu.Unlock()

	if changed {
		r.haptics.Feedback(platform.FeedbackLight)
	}
}

// Release ends the drag with the release velocity and classifies it. The
// drag state is cleared whether or not an action fires.
func (r *Recognizer) Release(vx, vy float64) (events.Action, bool) {
	r.mu.Lock()
	st := r.state
	r.state = State{}
	r.mu.Unlock()

	if !st.Active {
		return "", false
	}

	distance := math.Max(math.Abs(st.DX), math.Abs(st.DY))
	speed := math.Max(math.Abs(vx), math.Abs(vy))
	if distance <= r.cfg.Threshold && speed <= r.cfg.VelocityThreshold {
		return "", false
	}

	// a flick that never covered the distance goes where it was thrown
	action := classify(st.DX, st.DY)
	if distance <= r.cfg.Threshold {
		action = classify(vx, vy)
	}
	r.haptics.Feedback(pulseFor(action))

	sent := false
	if r.sink != nil {
		sent = r.sink.SendSwipe(action)
	}
	log.Debug().
		Str("action", string(action)).
		Float64("distance", distance).
		Float64("speed", speed).
		Bool("sent", sent).
		Msg("swipe recognized")

	return action, true
}

// Cancel drops the drag without classifying it
func (r *Recognizer) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = State{}
}

// State returns the drag in progress
func (r *Recognizer) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// provisional picks the dominant axis while dragging; equal magnitudes have none.
func provisional(dx, dy float64) events.Action {
	ax, ay := math.Abs(dx), math.Abs(dy)
	switch {
	case ay > ax:
		return vertical(dy)
	case ax > ay:
		return horizontal(dx)
	default:
		return ""
	}
}

// classify picks the dominant axis of an offset or a velocity; equal
// magnitudes resolve horizontally.
func classify(dx, dy float64) events.Action {
	if math.Abs(dy) > math.Abs(dx) {
		return vertical(dy)
	}
	return horizontal(dx)
}

func vertical(dy float64) events.Action {
	if dy < 0 {
		return events.ActionUp
	}
	return events.ActionDown
}

func horizontal(dx float64) events.Action {
	if dx < 0 {
		return events.ActionLeft
	}
	return events.ActionRight
}

func pulseFor(a events.Action) platform.Feedback {
	switch a {
	case events.ActionUp:
		return platform.FeedbackSuccess
	case events.ActionDown:
		return platform.FeedbackError
	case events.ActionLeft:
		return platform.FeedbackMedium
	default:
		return platform.FeedbackWarning
	}
}
