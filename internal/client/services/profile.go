package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/scholarsphere/internal/client/client"
	"github.com/dmitrijs2005/scholarsphere/internal/client/models"
	"github.com/dmitrijs2005/scholarsphere/internal/logging"
	"golang.org/x/text/cases"
)

// ProfileView is a faculty record as shown on its profile page.
type ProfileView struct {
	Faculty  *models.Faculty
	Keywords []string
	// IsOwn is true when the record belongs to the logged-in user.
	IsOwn bool
}

// ProfileService loads and edits faculty profiles.
//
// Ownership is derived from the display cache's faculty_id, and only after
// the session manager confirms the session; the cache alone never grants
// edit rights.
type ProfileService interface {
	OwnFacultyID(ctx context.Context) (string, error)
	Load(ctx context.Context, facultyID string) (*ProfileView, error)
	Save(ctx context.Context, facultyID string, f *models.Faculty, keywords []string) (*models.Faculty, error)
	SuggestKeywords(ctx context.Context, q string, limit int, exclude []string) ([]string, error)
	Recommendations(ctx context.Context, facultyID string) ([]models.Recommendation, error)
}

type profileService struct {
	api     client.FacultyAPI
	search  client.SearchAPI
	session SessionManager
	cache   DisplayCache
	log     logging.Logger
}

func NewProfileService(api client.FacultyAPI, search client.SearchAPI, session SessionManager, cache DisplayCache, log logging.Logger) ProfileService {
	if log == nil {
		log = logging.Nop()
	}
	return &profileService{api: api, search: search, session: session, cache: cache, log: log}
}

// OwnFacultyID returns the logged-in user's faculty id.
func (p *profileService) OwnFacultyID(ctx context.Context) (string, error) {
	if !p.session.IsAuthenticated(ctx) {
		return "", ErrNotAuthenticated
	}
	id := p.cache.FacultyID(ctx)
	if id == "" {
		return "", fmt.Errorf("%w: no faculty linked to this session", ErrNotAuthenticated)
	}
	return id, nil
}

// Load fetches a profile and its keywords. An empty facultyID means the
// logged-in user's own profile. A keyword fetch failure is logged and
// yields no keywords.
func (p *profileService) Load(ctx context.Context, facultyID string) (*ProfileView, error) {
	own := ""
	if p.session.IsAuthenticated(ctx) {
		own = p.cache.FacultyID(ctx)
	}

	if facultyID = strings.TrimSpace(facultyID); facultyID == "" {
		if own == "" {
			return nil, ErrNotAuthenticated
		}
		facultyID = own
	}

	f, err := p.api.GetFaculty(ctx, facultyID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	keywords, err := p.api.FacultyKeywords(ctx, facultyID)
	if err != nil {
		p.log.Warn(ctx, "failed to load keywords", "faculty_id", facultyID, "error", err)
		keywords = []string{}
	}

	return &ProfileView{
		Faculty:  f,
		Keywords: keywords,
		IsOwn:    own != "" && strings.EqualFold(own, facultyID),
	}, nil
}

// Save updates the record, then its keywords when keywords is non-nil,
// re-fetches the stored record and refreshes the display cache if the
// profile is the user's own.
func (p *profileService) Save(ctx context.Context, facultyID string, f *models.Faculty, keywords []string) (*models.Faculty, error) {
	if !p.session.IsAuthenticated(ctx) {
		return nil, ErrNotAuthenticated
	}

	if err := p.api.UpdateFaculty(ctx, facultyID, f); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if keywords != nil {
		if err := p.api.UpdateFacultyKeywords(ctx, facultyID, dedupeFold(keywords)); err != nil {
			return nil, fmt.Errorf("update keywords: %w", err)
		}
	}

	fresh, err := p.api.GetFaculty(ctx, facultyID)
	if err != nil {
		return nil, fmt.Errorf("reload profile: %w", err)
	}

	if own := p.cache.FacultyID(ctx); own != "" && strings.EqualFold(own, facultyID) {
		if err := p.cache.Merge(ctx, fresh); err != nil {
			p.log.Warn(ctx, "failed to refresh profile snapshot", "error", err)
		}
	}
	return fresh, nil
}

// SuggestKeywords returns completions for q minus the ones in exclude,
// compared case-insensitively.
func (p *profileService) SuggestKeywords(ctx context.Context, q string, limit int, exclude []string) ([]string, error) {
	suggestions, err := p.search.SearchKeywords(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("suggest keywords: %w", err)
	}

	fold := cases.Fold()
	have := make(map[string]struct{}, len(exclude))
	for _, k := range exclude {
		have[fold.String(strings.TrimSpace(k))] = struct{}{}
	}

	out := make([]string, 0, len(suggestions))
	for _, s := range suggestions {
		if _, ok := have[fold.String(strings.TrimSpace(s))]; !ok {
			out = append(out, s)
		}
	}
	return out, nil
}

// Recommendations lists suggested collaborators. An empty facultyID means
// the logged-in user.
func (p *profileService) Recommendations(ctx context.Context, facultyID string) ([]models.Recommendation, error) {
	if strings.TrimSpace(facultyID) == "" {
		own, err := p.OwnFacultyID(ctx)
		if err != nil {
			return nil, err
		}
		facultyID = own
	}
	recs, err := p.api.Recommendations(ctx, facultyID)
	if err != nil {
		return nil, fmt.Errorf("recommendations: %w", err)
	}
	return recs, nil
}

func dedupeFold(in []string) []string {
	fold := cases.Fold()
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, k := range in {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		key := fold.String(k)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, k)
	}
	return out
}
