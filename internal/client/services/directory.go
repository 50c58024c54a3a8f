package services

import (
	"context"
	"fmt"
	"slices"

	"github.com/dmitrijs2005/scholarsphere/internal/client/client"
	"github.com/dmitrijs2005/scholarsphere/internal/client/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DirectoryService browses faculty and institutions.
type DirectoryService interface {
	SearchFaculty(ctx context.Context, params models.SearchParams) ([]models.SearchResult, error)
	Institutions(ctx context.Context) ([]models.Institution, error)
}

type directoryService struct {
	api client.SearchAPI
}

func NewDirectoryService(api client.SearchAPI) DirectoryService {
	return &directoryService{api: api}
}

// SearchFaculty returns no rows, without a request, when every filter is
// blank.
func (d *directoryService) SearchFaculty(ctx context.Context, params models.SearchParams) ([]models.SearchResult, error) {
	if isBlank(params.Query, params.FirstName, params.LastName, params.Department, params.Institution) {
		return []models.SearchResult{}, nil
	}
	rows, err := d.api.SearchFaculty(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("search faculty: %w", err)
	}
	return rows, nil
}

// Institutions returns the institution list ordered by name.
func (d *directoryService) Institutions(ctx context.Context) ([]models.Institution, error) {
	list, err := d.api.Institutions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list institutions: %w", err)
	}
	coll := collate.New(language.English, collate.IgnoreCase)
	slices.SortStableFunc(list, func(a, b models.Institution) int {
		return coll.CompareString(a.Name, b.Name)
	})
	return list, nil
}
