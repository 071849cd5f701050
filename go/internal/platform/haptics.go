package platform

import "github.com/rs/zerolog/log"

// Feedback is one of the pulses the host platform can play
type Feedback string

const (
	FeedbackSuccess Feedback = "success"
	FeedbackError   Feedback = "error"
	FeedbackWarning Feedback = "warning"
	FeedbackLight   Feedback = "light"
	FeedbackMedium  Feedback = "medium"
	FeedbackHeavy   Feedback = "heavy"
)

// IsNotification reports whether f is an outcome pulse rather than an impact.
func (f Feedback) IsNotification() bool {
	switch f {
	case FeedbackSuccess, FeedbackError, FeedbackWarning:
		return true
	default:
		return false
	}
}

// Haptics plays feedback pulses
type Haptics interface {
	Feedback(f Feedback)
}

// HapticsFunc adapts a function to Haptics
type HapticsFunc func(f Feedback)

func (fn HapticsFunc) Feedback(f Feedback) { fn(f) }

// NoHaptics discards every pulse
type NoHaptics struct{}

func (NoHaptics) Feedback(Feedback) {}

// LogHaptics writes pulses to the debug log. Used by the headless client.
type LogHaptics struct{}

func (LogHaptics) Feedback(f Feedback) {
	kind := "impact"
	if f.IsNotification() {
		kind = "notification"
	}
	log.Debug().Str("feedback", string(f)).Str("kind", kind).Msg("haptic pulse")
}
