package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/joltlabs/jolt/internal/domain/detect"
	"github.com/joltlabs/jolt/internal/domain/model"
	"github.com/joltlabs/jolt/pkg/logger"
)

const errorBuffer = 8

// Monitor runs the detection loop: it consumes motion samples, fires the
// threshold detector, geotags positive detections and submits them.
type Monitor struct {
	detector *detect.Detector
	source   MotionSource
	locator  Locator
	channel  Submitter
	log      logger.Logger

	// errs surfaces user-visible failures (sensor, location). The
	// buffer is best-effort; unread errors are dropped.
	errs chan error

	mu      sync.Mutex
	release func()
	running bool
}

// MonitorOption applies a configuration option to the Monitor.
type MonitorOption func(*Monitor)

// WithDetector injects a pre-configured detector.
func WithDetector(d *detect.Detector) MonitorOption {
	return func(m *Monitor) {
		if d != nil {
			m.detector = d
		}
	}
}

// WithMonitorLogger sets a custom logger for the monitor.
func WithMonitorLogger(l logger.Logger) MonitorOption {
	return func(m *Monitor) {
		if l != nil {
			m.log = l
		}
	}
}

// NewMonitor wires the pipeline. The channel is an injected capability
// so tests can substitute a fake.
func NewMonitor(source MotionSource, locator Locator, channel Submitter, opts ...MonitorOption) *Monitor {
	m := &Monitor{
		detector: detect.New(),
		source:   source,
		locator:  locator,
		channel:  channel,
		errs:     make(chan error, errorBuffer),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.log == nil {
		m.log = logger.Get().Named("monitor")
	}
	return m
}

// Start enters detection mode: it subscribes to the motion source and
// begins evaluating samples. A source failure means detection cannot be
// enabled at all.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return nil
	}
	samples, release, err := m.source.Subscribe(ctx)
	if err != nil {
		m.report(fmt.Errorf("%w: %w", ErrSensorUnavailable, err))
		return fmt.Errorf("%w: %w", ErrSensorUnavailable, err)
	}
	m.release = release
	m.running = true
	go m.run(ctx, samples)
	m.log.Info(ctx, "detection started", logger.Float64("threshold", m.detector.Threshold()))
	return nil
}

// Stop leaves detection mode and releases the sampling subscription.
// In-flight geolocation resolutions are allowed to complete and still
// submit.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}
	m.release()
	m.release = nil
	m.running = false
}

// Running reports whether detection mode is on.
func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// SetThreshold updates the detection threshold, clamped to the allowed
// range. Returns the applied value.
func (m *Monitor) SetThreshold(t float64) float64 {
	return m.detector.SetThreshold(t)
}

// Threshold returns the current detection threshold.
func (m *Monitor) Threshold() float64 {
	return m.detector.Threshold()
}

// Errors surfaces user-visible client errors.
func (m *Monitor) Errors() <-chan error {
	return m.errs
}

func (m *Monitor) run(ctx context.Context, samples <-chan model.Sample) {
	for {
		select {
		case <-ctx.Done():
			return
		case s, ok := <-samples:
			if !ok {
				return
			}
			dec := m.detector.Check(s)
			if !dec.Fires {
				continue
			}
			// Each detection resolves its own position independently;
			// resolutions may complete out of order.
			go m.geotagAndSubmit(ctx, dec.Magnitude)
		}
	}
}

// geotagAndSubmit attaches a position to a fired detection and submits
// it. On location failure the event is dropped, never queued or retried:
// a detection without a point on the map has no identity to persist.
func (m *Monitor) geotagAndSubmit(ctx context.Context, magnitude float64) {
	pos, err := m.locator.Locate(ctx)
	if err != nil {
		m.report(fmt.Errorf("%w: %w", ErrLocationUnavailable, err))
		m.log.Warn(ctx, "dropping detection without location", logger.Error(err))
		return
	}

	sub := model.Submission{
		Latitude:  pos.Latitude,
		Longitude: pos.Longitude,
		Intensity: magnitude,
	}
	// Fire-and-forget: no ack is awaited and delivery failure is not
	// surfaced. The local list updates only via the broadcast echo.
	if err := m.channel.Submit(sub); err != nil {
		m.log.Debug(ctx, "submission not delivered", logger.Error(err))
	}
}

func (m *Monitor) report(err error) {
	select {
	case m.errs <- err:
	default:
	}
}
