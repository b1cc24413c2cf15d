// Package debounce disambiguates single and double activations of stateless
// action buttons.
package debounce

import (
	"sync"
	"time"
)

// DefaultWindow is the disambiguation window for a double press.
const DefaultWindow = 300 * time.Millisecond

// Button collapses the presses of one action button into exactly one fired
// activation per logical press: a second press inside the window fires
// immediately, a lone press fires when the window expires. The pending window
// is the only cancellable unit of work; its disambiguating second press
// cancels it.
type Button struct {
	mu      sync.Mutex
	window  time.Duration
	fire    func()
	pending bool
	timer   *time.Timer
}

// NewButton creates a debounced button that calls fire once per activation.
func NewButton(window time.Duration, fire func()) *Button {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Button{window: window, fire: fire}
}

// Press registers one physical press.
func (b *Button) Press() {
	b.mu.Lock()
	if b.pending {
		b.pending = false
		if b.timer != nil {
			b.timer.Stop()
			b.timer = nil
		}
		b.mu.Unlock()
		b.fire()
		return
	}
	b.pending = true
	b.timer = time.AfterFunc(b.window, b.expire)
	b.mu.Unlock()
}

// expire fires the single-press outcome unless a second press already won.
func (b *Button) expire() {
	b.mu.Lock()
	if !b.pending {
		b.mu.Unlock()
		return
	}
	b.pending = false
	b.timer = nil
	b.mu.Unlock()
	b.fire()
}

// Stop cancels any pending window without firing.
func (b *Button) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.pending = false
}
