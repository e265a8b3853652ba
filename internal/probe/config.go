// Package probe simulates a road probe: a synthetic motion trace and GPS
// track driving the full client pipeline against a live server.
package probe

import "time"

// Config controls a probe run.
type Config struct {
	// ServerURL is the HTTP base URL of the service, e.g. http://localhost:5000.
	ServerURL string

	// Duration bounds the whole run.
	Duration time.Duration

	// SampleInterval is the spacing between motion samples.
	SampleInterval time.Duration

	// JoltInterval is the spacing between injected pothole jolts.
	JoltInterval time.Duration

	// Threshold is the detection threshold handed to the detector.
	Threshold float64

	// StartLatitude / StartLongitude anchor the simulated GPS track.
	StartLatitude  float64
	StartLongitude float64

	// Seed makes the trace reproducible; 0 derives one from the clock.
	Seed int64
}

// DefaultConfig returns a config suitable for a local smoke run.
func DefaultConfig() *Config {
	return &Config{
		ServerURL:      "http://localhost:5000",
		Duration:       30 * time.Second,
		SampleInterval: 50 * time.Millisecond,
		JoltInterval:   3 * time.Second,
		Threshold:      15,
		StartLatitude:  12.9716,
		StartLongitude: 77.5946,
	}
}
