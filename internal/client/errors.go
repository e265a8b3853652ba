package client

import "errors"

// Sentinel kinds for client-side errors. Both are user-visible: sensor
// failure forces detection off, location failure drops a single event.
var (
	ErrSensorUnavailable   = errors.New("motion sensing unavailable")
	ErrLocationUnavailable = errors.New("location unavailable")
)
