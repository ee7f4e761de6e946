package service

import "errors"

var (
	ErrHistoryUnavailable = errors.New("search history unavailable")
	// ErrSuperseded is returned by a fetch cycle that a newer one replaced.
	ErrSuperseded = errors.New("superseded by a newer search")
)
