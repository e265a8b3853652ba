package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrClosed = errors.New("store closed")
	ErrInsert = errors.New("insert failed")
	ErrQuery  = errors.New("query failed")
)
