package client

import (
	"context"

	"github.com/dmitrijs2005/scholarsphere/internal/client/models"
)

// AuthAPI covers the /auth routes. Login, Refresh and Logout rely on the
// renewal cookie kept by the implementation.
type AuthAPI interface {
	RegisterCredentials(ctx context.Context, facultyID, username string, password []byte) error
	Login(ctx context.Context, username string, password []byte, rememberMe bool) (*models.LoginResult, error)
	Refresh(ctx context.Context) (string, error)
	Logout(ctx context.Context) error
	CheckUsername(ctx context.Context, username string) (*models.UsernameAvailability, error)
	CheckCredentials(ctx context.Context, facultyID string) (bool, error)
}

// FacultyAPI covers the faculty record and its satellites.
type FacultyAPI interface {
	GetFaculty(ctx context.Context, facultyID string) (*models.Faculty, error)
	CreateFaculty(ctx context.Context, f *models.Faculty) (string, error)
	UpdateFaculty(ctx context.Context, facultyID string, f *models.Faculty) error
	FacultyKeywords(ctx context.Context, facultyID string) ([]string, error)
	UpdateFacultyKeywords(ctx context.Context, facultyID string, keywords []string) error
	Recommendations(ctx context.Context, facultyID string) ([]models.Recommendation, error)
}

// SearchAPI covers the directory lookups.
type SearchAPI interface {
	Institutions(ctx context.Context) ([]models.Institution, error)
	SearchFaculty(ctx context.Context, params models.SearchParams) ([]models.SearchResult, error)
	SearchKeywords(ctx context.Context, q string, limit int) ([]string, error)
}

// Client is the full backend contract.
type Client interface {
	AuthAPI
	FacultyAPI
	SearchAPI
}

// Authenticator supplies the bearer token for outgoing requests and renews
// it once when a protected call comes back 401.
type Authenticator interface {
	AccessToken() string
	RefreshToken(ctx context.Context) bool
}
