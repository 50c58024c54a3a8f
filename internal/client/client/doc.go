// Package client contains the client-side building blocks that talk to the
// ScholarSphere backend and bootstrap local persistence.
//
// # Overview
//
// The package provides:
//  1. The backend contract (see Client and its AuthAPI, FacultyAPI and
//     SearchAPI parts): institutions, faculty search, faculty
//     get/create/update, keywords, recommendations and the /auth routes.
//  2. A REST/JSON implementation (see HTTPClient). It keeps the renewal
//     cookie in a cookie jar, attaches the bearer token supplied by an
//     Authenticator, tags every request with an X-Request-ID, and on a 401
//     from a protected call renews the token once and retries once.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database and applying the embedded goose migrations.
//
// # Error Handling
//
// Transport failures wrap ErrUnavailable. Non-2xx responses are returned as
// *APIError, which unwraps to ErrUnauthorized for 401 and ErrNotFound for
// 404. Bodies that cannot be decoded wrap ErrInvalidResponse.
//
// # Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept
// context.Context and honor cancellation.
package client
