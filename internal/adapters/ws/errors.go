package ws

import "errors"

// Sentinel kinds for channel errors.
var (
	ErrUnknownKind = errors.New("unknown message kind")
	ErrUpgrade     = errors.New("websocket upgrade failed")
)
