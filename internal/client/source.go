// Package client implements the client-side detection pipeline: motion
// sampling, threshold detection, geotagging and submission over the
// realtime channel, plus the local event feed viewers render.
package client

import (
	"context"

	"github.com/joltlabs/jolt/internal/domain/model"
)

// MotionSource supplies raw acceleration samples. Subscribe is scoped
// acquisition: the returned release func must be called exactly once to
// stop sampling, mirroring subscribe-on-start / unsubscribe-on-teardown.
//
// Sources that cannot sample (missing hardware, permission denied)
// return an error wrapping ErrSensorUnavailable.
type MotionSource interface {
	Subscribe(ctx context.Context) (<-chan model.Sample, func(), error)
}

// Position is a resolved geographic coordinate.
type Position struct {
	Latitude  float64
	Longitude float64
}

// Locator resolves the current position once per call. Resolution is
// single-shot, not continuous tracking; the timeout is whatever the
// underlying platform applies. Failures wrap ErrLocationUnavailable.
type Locator interface {
	Locate(ctx context.Context) (Position, error)
}

// Submitter carries detections upstream. Fire-and-forget: callers do not
// retry or surface delivery failures.
type Submitter interface {
	Submit(sub model.Submission) error
}
