package gesture

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YarikYar/alias/go/internal/game/events"
	"github.com/YarikYar/alias/go/internal/platform"
)

type recorder struct {
	mu      sync.Mutex
	actions []events.Action
	pulses  []platform.Feedback
}

func (r *recorder) SendSwipe(a events.Action) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, a)
	return true
}

func (r *recorder) Feedback(f platform.Feedback) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pulses = append(r.pulses, f)
}

func newTestRecognizer() (*Recognizer, *recorder) {
	rec := &recorder{}
	return NewRecognizer(DefaultConfig(), rec, rec), rec
}

func drag(r *Recognizer, points [][2]float64, vx, vy float64) (events.Action, bool) {
	r.Press()
	for _, p := range points {
		r.Move(p[0], p[1])
	}
	return r.Release(vx, vy)
}

func TestRelease(t *testing.T) {
	tests := []struct {
		name     string
		points   [][2]float64
		vx, vy   float64
		want     events.Action
		wantFire bool
	}{
		{
			name:     "distance triggers right",
			points:   [][2]float64{{40, 0}, {150, 0}},
			want:     events.ActionRight,
			wantFire: true,
		},
		{
			name:     "velocity triggers up below distance",
			points:   [][2]float64{{30, -20}},
			vy:       -0.6,
			want:     events.ActionUp,
			wantFire: true,
		},
		{
			name:     "velocity picks left below distance",
			points:   [][2]float64{{10, 30}},
			vx:       -0.9,
			vy:       0.2,
			want:     events.ActionLeft,
			wantFire: true,
		},
		{
			name:     "offset wins over velocity above distance",
			points:   [][2]float64{{0, -120}},
			vx:       1.5,
			want:     events.ActionUp,
			wantFire: true,
		},
		{
			name:   "tap below both thresholds",
			points: [][2]float64{{10, 5}},
			vx:     0.1,
			vy:     0.05,
		},
		{
			name:     "down",
			points:   [][2]float64{{0, 120}},
			want:     events.ActionDown,
			wantFire: true,
		},
		{
			name:     "left",
			points:   [][2]float64{{-81, 10}},
			want:     events.ActionLeft,
			wantFire: true,
		},
		{
			name:   "exactly at threshold does not trigger",
			points: [][2]float64{{80, 0}},
			vx:     0.5,
		},
		{
			name:     "tie resolves horizontally",
			points:   [][2]float64{{-100, -100}},
			want:     events.ActionLeft,
			wantFire: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, rec := newTestRecognizer()
			got, fired := drag(r, tt.points, tt.vx, tt.vy)

			assert.Equal(t, tt.wantFire, fired)
			assert.Equal(t, tt.want, got)
			if tt.wantFire {
				assert.Equal(t, []events.Action{tt.want}, rec.actions)
			} else {
				assert.Empty(t, rec.actions)
			}
			assert.Equal(t, State{}, r.State())
		})
	}
}

func TestReversalEmitsOneAction(t *testing.T) {
	r, rec := newTestRecognizer()

	_, fired := drag(r, [][2]float64{{50, 0}, {120, 0}, {20, 0}, {-40, 0}, {-130, 5}}, 0, 0)
	require.True(t, fired)
	assert.Equal(t, []events.Action{events.ActionLeft}, rec.actions)
}

func TestDirectionChangePulses(t *testing.T) {
	r, rec := newTestRecognizer()

	r.Press()
	r.Move(0, 0)   // no dominant axis
	r.Move(20, 0)  // right
	r.Move(40, 5)  // still right
	r.Move(10, 10) // tie
	r.Move(-30, 0) // left
	st := r.State()
	assert.True(t, st.Active)
	assert.Equal(t, events.ActionLeft, st.Direction)
	assert.Equal(t, -30.0, st.DX)

	assert.Equal(t, []platform.Feedback{platform.FeedbackLight, platform.FeedbackLight}, rec.pulses)
}

func TestOutcomePulses(t *testing.T) {
	tests := []struct {
		dx, dy float64
		want   platform.Feedback
	}{
		{0, -100, platform.FeedbackSuccess},
		{0, 100, platform.FeedbackError},
		{-100, 0, platform.FeedbackMedium},
		{100, 0, platform.FeedbackWarning},
	}

	for _, tt := range tests {
		r, rec := newTestRecognizer()
		r.Press()
		r.Move(tt.dx, tt.dy)
		rec.pulses = nil

		_, fired := r.Release(0, 0)
		require.True(t, fired)
		assert.Equal(t, []platform.Feedback{tt.want}, rec.pulses)
	}
}

func TestIdleInputIsIgnored(t *testing.T) {
	r, rec := newTestRecognizer()

	r.Move(200, 0)
	_, fired := r.Release(1, 1)
	assert.False(t, fired)

	r.Press()
	r.Move(200, 0)
	r.Cancel()
	_, fired = r.Release(1, 1)
	assert.False(t, fired)
	assert.Empty(t, rec.actions)
}

func TestZeroConfigUsesDefaults(t *testing.T) {
	r := NewRecognizer(Config{}, SinkFunc(func(events.Action) bool { return false }), nil)
	assert.Equal(t, DefaultConfig(), r.cfg)

	r.Press()
	r.Move(90, 0)
	got, fired := r.Release(0, 0)
	assert.True(t, fired)
	assert.Equal(t, events.ActionRight, got)
}
