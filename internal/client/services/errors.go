package services

import "errors"

var (
	// ErrNotAuthenticated is returned by operations that need a live session
	// when IsAuthenticated reports false.
	ErrNotAuthenticated = errors.New("not authenticated")
)
