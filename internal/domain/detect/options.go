package detect

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Option applies a configuration option to the Detector.
type Option func(*Detector)

// WithThreshold sets the initial firing threshold. Values outside the
// allowed range are clamped.
func WithThreshold(t float64) Option {
	return func(d *Detector) {
		if t < MinThreshold {
			t = MinThreshold
		}
		if t > MaxThreshold {
			t = MaxThreshold
		}
		d.threshold = t
	}
}

// WithCooldown overrides the cooldown window.
func WithCooldown(c time.Duration) Option {
	return func(d *Detector) {
		if c > 0 {
			d.cooldown = c
		}
	}
}

// WithClock injects a time source. Tests use a fake clock for
// deterministic cooldown behavior.
func WithClock(c clockwork.Clock) Option {
	return func(d *Detector) {
		if c != nil {
			d.clock = c
		}
	}
}
