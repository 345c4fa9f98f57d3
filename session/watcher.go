package session

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Watcher re-runs a Validator on a fixed interval so an expiry that happens
// while a protected view is open is noticed without waiting for the next
// navigation.
type Watcher struct {
	validator Validator
	interval  time.Duration
	onExpire  func()
}

func NewWatcher(validator Validator, interval time.Duration, onExpire func()) *Watcher {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Watcher{
		validator: validator,
		interval:  interval,
		onExpire:  onExpire,
	}
}

// Run checks immediately and then every interval. When the session is found
// invalid onExpire is called once and Run returns nil. Cancelling ctx stops
// the watch and returns ctx.Err().
func (w *Watcher) Run(ctx context.Context) error {
	if !w.validator.IsValid(ctx) {
		w.expire()
		return nil
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if !w.validator.IsValid(ctx) {
				w.expire()
				return nil
			}
		}
	}
}

func (w *Watcher) expire() {
	log.Info().Msg("session expired")
	if w.onExpire != nil {
		w.onExpire()
	}
}
