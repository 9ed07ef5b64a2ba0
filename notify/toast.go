package notify

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultToastDuration is how long a toast stays up when nobody hovers it.
const DefaultToastDuration = 3 * time.Second

// Toast is a transient notification that dismisses itself after its display time.
// Hovering pauses the countdown and leaving resumes it with the time that was left.
type Toast struct {
	Text string

	clock     clockwork.Clock
	mu        sync.Mutex
	remaining time.Duration
	startedAt time.Time
	timer     clockwork.Timer
	paused    bool
	done      chan struct{}
	closeOnce sync.Once
}

// NewToast shows a toast and starts its countdown.
func NewToast(clock clockwork.Clock, text string, duration time.Duration) *Toast {
	if duration <= 0 {
		duration = DefaultToastDuration
	}
	t := &Toast{
		Text:      text,
		clock:     clock,
		remaining: duration,
		done:      make(chan struct{}),
	}
	t.mu.Lock()
	t.start()
	t.mu.Unlock()
	return t
}

// start must be called with mu held.
func (t *Toast) start() {
	t.startedAt = t.clock.Now()
	t.timer = t.clock.AfterFunc(t.remaining, t.Dismiss)
}

// Pause stops the countdown (pointer entered the toast).
func (t *Toast) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.paused || t.dismissed() {
		return
	}
	t.timer.Stop()
	t.remaining -= t.clock.Since(t.startedAt)
	if t.remaining < 0 {
		t.remaining = 0
	}
	t.paused = true
}

// Resume restarts the countdown with the time left (pointer left the toast).
func (t *Toast) Resume() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.paused || t.dismissed() {
		return
	}
	t.paused = false
	t.start()
}

// Remaining returns the display time left.
func (t *Toast) Remaining() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.dismissed() {
		return 0
	}
	if t.paused {
		return t.remaining
	}
	left := t.remaining - t.clock.Since(t.startedAt)
	if left < 0 {
		return 0
	}
	return left
}

// Dismiss closes the toast early. Safe to call more than once.
func (t *Toast) Dismiss() {
	t.closeOnce.Do(func() {
		close(t.done)
	})
}

// Done is closed once the toast is dismissed.
func (t *Toast) Done() <-chan struct{} {
	return t.done
}

func (t *Toast) dismissed() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}
