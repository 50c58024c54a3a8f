// Package common contains shared constants and sentinel errors used across
// ScholarSphere client components.
package common

const (
	// APIPrefix is prepended to every backend route.
	APIPrefix = "/api"

	// AuthorizationHeaderName carries the bearer access token on outbound requests.
	AuthorizationHeaderName = "Authorization"

	// RequestIDHeaderName carries a per-request correlation id.
	RequestIDHeaderName = "X-Request-ID"
)
