package workflow

import (
	"sync"
	"time"
)

// statusBoard holds the single user-visible status line. Sticky messages
// stay until replaced; transient ones clear themselves after the configured
// window. Only one clear timer is ever pending.
type statusBoard struct {
	mu      sync.Mutex
	message string
	ttl     time.Duration
	timer   *time.Timer
}

func newStatusBoard(ttl time.Duration) *statusBoard {
	return &statusBoard{ttl: ttl}
}

func (b *statusBoard) Set(message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopTimer()
	b.message = message
}

func (b *statusBoard) SetTransient(message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopTimer()
	b.message = message
	b.timer = time.AfterFunc(b.ttl, b.clear)
}

func (b *statusBoard) Message() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.message
}

func (b *statusBoard) clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.message = ""
	b.timer = nil
}

func (b *statusBoard) stopTimer() {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}
