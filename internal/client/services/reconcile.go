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

// ReconcileService classifies a claimed identity against backend records.
//
// CheckFacultyExists runs two searches in priority order: first name, last
// name and institution, looking for an exact (case-folded, trimmed) triple;
// then name only, looking for the same name at a different institution. The
// first qualifying row of each pass wins. A matched row is expanded into the
// full record; if that fetch fails the result still reports the match with a
// minimal record built from the search row.
type ReconcileService interface {
	CheckFacultyExists(ctx context.Context, claim models.IdentityClaim) (*models.MatchResult, error)
}

type facultyLookup interface {
	SearchFaculty(ctx context.Context, params models.SearchParams) ([]models.SearchResult, error)
	GetFaculty(ctx context.Context, facultyID string) (*models.Faculty, error)
}

type reconcileService struct {
	api facultyLookup
	log logging.Logger
}

func NewReconcileService(api facultyLookup, log logging.Logger) ReconcileService {
	if log == nil {
		log = logging.Nop()
	}
	return &reconcileService{api: api, log: log}
}

var _ facultyLookup = (client.Client)(nil)

// normalized is a claim or search row reduced to its comparable form.
type normalized struct {
	first, last, institution string
}

func normalize(c cases.Caser, first, last, institution string) normalized {
	f := func(s string) string { return c.String(strings.TrimSpace(s)) }
	return normalized{first: f(first), last: f(last), institution: f(institution)}
}

func (r *reconcileService) CheckFacultyExists(ctx context.Context, claim models.IdentityClaim) (*models.MatchResult, error) {
	// cases.Caser keeps state and must not be shared between goroutines
	fold := cases.Fold()
	want := normalize(fold, claim.FirstName, claim.LastName, claim.InstitutionName)

	rows, err := r.api.SearchFaculty(ctx, models.SearchParams{
		FirstName:   strings.TrimSpace(claim.FirstName),
		LastName:    strings.TrimSpace(claim.LastName),
		Institution: strings.TrimSpace(claim.InstitutionName),
	})
	if err != nil {
		return nil, fmt.Errorf("search by name and institution: %w", err)
	}
	for _, row := range rows {
		if normalize(fold, row.FirstName, row.LastName, row.InstitutionName) == want {
			return r.matched(ctx, claim, row, models.MatchPerfect), nil
		}
	}

	rows, err = r.api.SearchFaculty(ctx, models.SearchParams{
		FirstName: strings.TrimSpace(claim.FirstName),
		LastName:  strings.TrimSpace(claim.LastName),
	})
	if err != nil {
		return nil, fmt.Errorf("search by name: %w", err)
	}
	for _, row := range rows {
		got := normalize(fold, row.FirstName, row.LastName, row.InstitutionName)
		if got.first == want.first && got.last == want.last && got.institution != want.institution {
			return r.matched(ctx, claim, row, models.MatchNameOnly), nil
		}
	}

	return &models.MatchResult{Exists: false, MatchType: models.MatchNone}, nil
}

func (r *reconcileService) matched(ctx context.Context, claim models.IdentityClaim, row models.SearchResult, mt models.MatchType) *models.MatchResult {
	full, err := r.api.GetFaculty(ctx, row.FacultyID)
	if err != nil || full == nil {
		r.log.Warn(ctx, "full profile fetch failed, using search row", "faculty_id", row.FacultyID, "match_type", string(mt), "error", err)
		return &models.MatchResult{Exists: true, MatchType: mt, Faculty: fallbackRecord(claim, row)}
	}
	if full.FacultyID == "" {
		full.FacultyID = row.FacultyID
	}
	return &models.MatchResult{Exists: true, MatchType: mt, Faculty: full}
}

// fallbackRecord keeps what the search row knows and leaves every
// multi-valued field empty.
func fallbackRecord(claim models.IdentityClaim, row models.SearchResult) *models.Faculty {
	institution := row.InstitutionName
	if institution == "" {
		institution = claim.InstitutionName
	}
	departments := []string{}
	if d := strings.TrimSpace(row.DepartmentName); d != "" {
		departments = append(departments, d)
	}
	return &models.Faculty{
		FacultyID:       row.FacultyID,
		FirstName:       row.FirstName,
		LastName:        row.LastName,
		InstitutionName: institution,
		Emails:          []string{},
		Phones:          []string{},
		Departments:     departments,
		Titles:          []string{},
	}
}
