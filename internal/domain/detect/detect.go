// Package detect converts raw motion samples into discrete pothole
// detections under a threshold and a fixed cooldown window.
package detect

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/joltlabs/jolt/internal/domain/model"
)

// Detection configuration constants.
const (
	// Cooldown is the minimum time between two accepted detections.
	Cooldown = 1000 * time.Millisecond

	// DefaultThreshold is the firing threshold in m/s².
	DefaultThreshold = 15.0

	// MinThreshold and MaxThreshold bound runtime threshold changes.
	MinThreshold = 5.0
	MaxThreshold = 30.0
)

// Decision is the outcome of evaluating one sample.
type Decision struct {
	Fires     bool
	Magnitude float64
}

// Evaluate decides whether a sample should fire a detection. It is a pure
// function of its inputs: it fires iff the sample magnitude exceeds the
// threshold and more than one cooldown has elapsed since lastFire.
func Evaluate(s model.Sample, threshold float64, lastFire, now time.Time) Decision {
	return evaluate(s, threshold, lastFire, now, Cooldown)
}

func evaluate(s model.Sample, threshold float64, lastFire, now time.Time, cooldown time.Duration) Decision {
	m := s.Magnitude()
	return Decision{
		Fires:     m > threshold && now.Sub(lastFire) > cooldown,
		Magnitude: m,
	}
}

// Detector is the stateful threshold detector. The cooldown check and the
// lastFire update happen under one lock so two near-simultaneous samples
// cannot both pass the check.
type Detector struct {
	mu        sync.Mutex
	threshold float64
	cooldown  time.Duration
	clock     clockwork.Clock
	lastFire  time.Time
}

// New creates a Detector with the default threshold and cooldown.
func New(opts ...Option) *Detector {
	d := &Detector{
		threshold: DefaultThreshold,
		cooldown:  Cooldown,
		clock:     clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Check evaluates a sample against the current threshold. On a fire the
// last-fire time advances atomically with the decision.
func (d *Detector) Check(s model.Sample) Decision {
	d.mu.Lock()
	defer d.mu.Unlock()

	dec := evaluate(s, d.threshold, d.lastFire, d.clock.Now(), d.cooldown)
	if dec.Fires {
		d.lastFire = d.clock.Now()
	}
	return dec
}

// Threshold returns the current firing threshold.
func (d *Detector) Threshold() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.threshold
}

// SetThreshold updates the firing threshold, clamped to
// [MinThreshold, MaxThreshold]. Returns the applied value.
func (d *Detector) SetThreshold(t float64) float64 {
	if t < MinThreshold {
		t = MinThreshold
	}
	if t > MaxThreshold {
		t = MaxThreshold
	}
	d.mu.Lock()
	d.threshold = t
	d.mu.Unlock()
	return t
}
