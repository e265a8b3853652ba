package config

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrEmptyAddr     = errors.New("addr must not be empty")
	ErrInvalidBuffer = errors.New("send_buffer must be positive")
)
