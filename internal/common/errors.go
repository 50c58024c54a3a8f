// Package common defines shared constants and sentinel errors used across
// the ScholarSphere client layers. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// ErrInvalidToken is returned when the backend hands out an empty or
	// undecodable access token.
	ErrInvalidToken = errors.New("invalid token")

	// Identifier validation errors.
	ErrInvalidFacultyID = errors.New("invalid faculty id")
)
