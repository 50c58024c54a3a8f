// Package profilecache is the non-authoritative display cache written after a
// successful login: a profile snapshot and the faculty_id marker.
//
// Nothing read from here is used for authorization. Callers that need to
// know whether the user is logged in must ask the session manager.
package profilecache

import (
	"context"
	"database/sql"
	"strings"

	"github.com/dmitrijs2005/scholarsphere/internal/client/models"
	"github.com/dmitrijs2005/scholarsphere/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/scholarsphere/internal/dbx"
	"github.com/dmitrijs2005/scholarsphere/internal/logging"
)

const (
	KeyFaculty   = "faculty"
	KeyFacultyID = "faculty_id"
)

type Cache struct {
	db  *sql.DB
	log logging.Logger
}

func New(db *sql.DB, log logging.Logger) *Cache {
	if log == nil {
		log = logging.Nop()
	}
	return &Cache{db: db, log: log}
}

// Save replaces the snapshot and the faculty_id marker atomically. A nil
// record only clears the cache.
func (c *Cache) Save(ctx context.Context, f *models.Faculty) error {
	return dbx.WithTx(ctx, c.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Delete(ctx, KeyFaculty, KeyFacultyID); err != nil {
			return err
		}
		if f == nil {
			return nil
		}
		if err := metadata.SetJSON(ctx, repo, KeyFaculty, f); err != nil {
			return err
		}
		if f.FacultyID == "" {
			return nil
		}
		return repo.Set(ctx, KeyFacultyID, []byte(f.FacultyID))
	})
}

// Load returns the cached snapshot, or nil when there is none or it cannot
// be decoded.
func (c *Cache) Load(ctx context.Context) *models.Faculty {
	var f models.Faculty
	ok, err := metadata.GetJSON(ctx, metadata.NewSQLiteRepository(c.db), KeyFaculty, &f)
	if err != nil {
		c.log.Warn(ctx, "ignoring unreadable profile snapshot", "error", err)
		return nil
	}
	if !ok {
		return nil
	}
	return &f
}

// FacultyID returns the cached marker or "".
func (c *Cache) FacultyID(ctx context.Context) string {
	raw, err := metadata.NewSQLiteRepository(c.db).Get(ctx, KeyFacultyID)
	if err != nil {
		c.log.Warn(ctx, "ignoring unreadable faculty_id marker", "error", err)
		return ""
	}
	return strings.TrimSpace(string(raw))
}

// Merge overlays a freshly fetched record onto an existing snapshot. It does
// nothing when no snapshot is cached, so a logged-out client never gains one.
func (c *Cache) Merge(ctx context.Context, f *models.Faculty) error {
	if f == nil {
		return nil
	}
	cached := c.Load(ctx)
	if cached == nil {
		return nil
	}

	merged := f.Clone()
	if merged.FacultyID == "" {
		merged.FacultyID = cached.FacultyID
	}
	return c.Save(ctx, merged)
}

func (c *Cache) Clear(ctx context.Context) error {
	return c.Save(ctx, nil)
}
