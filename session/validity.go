package session

import (
	"context"
	"time"
)

// Validator reports whether the current session may access protected views.
type Validator interface {
	IsValid(ctx context.Context) bool
}

// Checker derives validity from the stored record and the wall clock. It
// keeps no state of its own, so every call reflects the store as it is now.
type Checker struct {
	store *Store
	now   func() time.Time
}

var _ Validator = (*Checker)(nil)

type CheckerOption func(*Checker)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) CheckerOption {
	return func(c *Checker) {
		c.now = now
	}
}

func NewChecker(store *Store, opts ...CheckerOption) *Checker {
	c := &Checker{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsValid is true when a record with both an access token and an expiry is
// stored and the expiry is strictly after the current second.
func (c *Checker) IsValid(ctx context.Context) bool {
	return c.store.Load(ctx).ValidAt(c.now())
}

// Remaining returns how long the stored session has left, or zero when
// there is no valid session.
func (c *Checker) Remaining(ctx context.Context) time.Duration {
	rec := c.store.Load(ctx)
	now := c.now()
	if !rec.ValidAt(now) {
		return 0
	}
	return rec.Expiry().Sub(now.Truncate(time.Second))
}

// Current returns the stored record when it is valid now, otherwise nil.
func (c *Checker) Current(ctx context.Context) *Record {
	rec := c.store.Load(ctx)
	if !rec.ValidAt(c.now()) {
		return nil
	}
	return rec
}
