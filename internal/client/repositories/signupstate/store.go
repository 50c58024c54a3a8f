// Package signupstate persists the faculty id of an unfinished signup so a
// restarted client can pick the linkage up again.
//
// The entry lives under its own key in the metadata table, separate from the
// post-login display cache, and is ignored (and removed) once it is older
// than the configured TTL.
package signupstate

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/scholarsphere/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/scholarsphere/internal/logging"
)

// Key is the metadata key of the signup session entry.
const Key = "signup.session"

// DefaultTTL is the expiry window of a stored faculty id.
const DefaultTTL = 24 * time.Hour

type entry struct {
	FacultyID string `json:"faculty_id"`
	Timestamp int64  `json:"timestamp"` // unix milliseconds
}

type Store struct {
	repo metadata.Repository
	ttl  time.Duration
	now  func() time.Time
	log  logging.Logger
}

type Option func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLogger(l logging.Logger) Option {
	return func(s *Store) { s.log = l }
}

// New returns a Store over repo. A non-positive ttl selects DefaultTTL.
func New(repo metadata.Repository, ttl time.Duration, opts ...Option) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Store{repo: repo, ttl: ttl, now: time.Now, log: logging.Nop()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Load returns the stored faculty id if one exists and is not expired.
// Expired or unreadable entries are deleted and reported as absent.
func (s *Store) Load(ctx context.Context) (string, bool) {
	var e entry
	ok, err := metadata.GetJSON(ctx, s.repo, Key, &e)
	if err != nil {
		s.log.Warn(ctx, "discarding unreadable signup state", "error", err)
		s.discard(ctx)
		return "", false
	}
	if !ok {
		return "", false
	}

	id := strings.TrimSpace(e.FacultyID)
	if id == "" || e.Timestamp <= 0 {
		s.discard(ctx)
		return "", false
	}

	age := s.now().Sub(time.UnixMilli(e.Timestamp))
	if age > s.ttl {
		s.log.Debug(ctx, "signup state expired", "faculty_id", id, "age", age)
		s.discard(ctx)
		return "", false
	}

	return id, true
}

// Save records facultyID with a fresh timestamp, replacing any previous
// entry.
func (s *Store) Save(ctx context.Context, facultyID string) error {
	return metadata.SetJSON(ctx, s.repo, Key, entry{
		FacultyID: facultyID,
		Timestamp: s.now().UnixMilli(),
	})
}

func (s *Store) Clear(ctx context.Context) error {
	return s.repo.Delete(ctx, Key)
}

func (s *Store) discard(ctx context.Context) {
	if err := s.repo.Delete(ctx, Key); err != nil {
		s.log.Warn(ctx, "failed to delete signup state", "error", err)
	}
}
