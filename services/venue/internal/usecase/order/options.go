package order

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// Options represents configuration options for the order usecase.
type Options struct {
	// MaxAttempts bounds how many times a conflicting transaction is run.
	MaxAttempts int
	// BaseDelay is the backoff ceiling after the first conflict. It doubles
	// per attempt up to MaxDelay and the actual sleep is drawn uniformly
	// below the ceiling.
	BaseDelay time.Duration
	MaxDelay  time.Duration

	// SideEffectTimeout bounds publishing and notifying after a commit.
	SideEffectTimeout time.Duration

	// NewID generates order and trade ids.
	NewID func() string
	// Now stamps published events.
	Now func() time.Time
}

// DefaultOptions returns the default order usecase options.
func DefaultOptions() *Options {
	return &Options{
		MaxAttempts: 10,
		BaseDelay:   5 * time.Millisecond,
		MaxDelay:    250 * time.Millisecond,

		SideEffectTimeout: 2 * time.Second,

		NewID: newULID,
		Now:   time.Now,
	}
}

func newULID() string {
	return ulid.Make().String()
}

func (o *Options) withDefaults() *Options {
	defaults := DefaultOptions()
	if o == nil {
		return defaults
	}

	opts := *o
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaults.MaxAttempts
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = defaults.BaseDelay
	}
	if opts.MaxDelay < opts.BaseDelay {
		opts.MaxDelay = opts.BaseDelay
	}
	if opts.SideEffectTimeout <= 0 {
		opts.SideEffectTimeout = defaults.SideEffectTimeout
	}
	if opts.NewID == nil {
		opts.NewID = defaults.NewID
	}
	if opts.Now == nil {
		opts.Now = defaults.Now
	}
	return &opts
}
