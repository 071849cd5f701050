package platform

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// MainButton is the host's primary call-to-action button. The lobby view
// uses it; the sync core never does.
type MainButton interface {
	Show(text string, onClick func())
	Hide()
}

// HeadlessButton keeps the button state in memory so a terminal client can
// trigger the registered action.
type HeadlessButton struct {
	mu      sync.Mutex
	text    string
	onClick func()
	visible bool
}

func (b *HeadlessButton) Show(text string, onClick func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.text, b.onClick, b.visible = text, onClick, true
	log.Debug().Str("text", text).Msg("main button shown")
}

func (b *HeadlessButton) Hide() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.visible = false
	b.onClick = nil
}

// Visible returns the label and whether the button is shown
func (b *HeadlessButton) Visible() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text, b.visible
}

// Press runs the registered action if the button is shown. It reports
// whether anything ran.
func (b *HeadlessButton) Press() bool {
	b.mu.Lock()
	fn := b.onClick
	visible := b.visible
	b.mu.Unlock()

	if !visible || fn == nil {
		return false
	}
	fn()
	return true
}
