// Package cli provides the interactive ScholarSphere command-line client.
//
// It wires configuration, the local store, the REST client, the services
// and the signup controller, then runs an interactive REPL. Typical flow:
// sign up (claim or create a faculty profile and choose credentials) or log
// in, then browse and edit profiles.
//
// Key features:
//   - Signup with identity confirmation, resumable across restarts
//   - Login / Logout with silent session renewal
//   - Faculty search and institution list
//   - Profile view and edit, keywords with suggestions
//   - Collaborator recommendations
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
