package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/scholarsphere/internal/client/client"
	"github.com/dmitrijs2005/scholarsphere/internal/client/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var errNotFound = &client.APIError{Message: "Faculty member not found", StatusCode: 404}

// fakeAPI implements client.Client with overridable behavior per call.
type fakeAPI struct {
	mu sync.Mutex

	refreshFn func(ctx context.Context) (string, error)
	loginFn   func(username string, password []byte, rememberMe bool) (*models.LoginResult, error)
	logoutErr error

	searchFn     func(p models.SearchParams) ([]models.SearchResult, error)
	searchCalls  []models.SearchParams
	facultyByID  map[string]*models.Faculty
	getErr       error
	updateCalls  int
	keywordsByID map[string][]string
	keywordErr   error
	suggestions  []string
	institutions []models.Institution
	recs         []models.Recommendation
	lastRecID    string

	refreshCalls atomic.Int32
	logoutCalls  atomic.Int32
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{facultyByID: map[string]*models.Faculty{}, keywordsByID: map[string][]string{}}
}

func (f *fakeAPI) RegisterCredentials(context.Context, string, string, []byte) error { return nil }

func (f *fakeAPI) Login(_ context.Context, username string, password []byte, rememberMe bool) (*models.LoginResult, error) {
	return f.loginFn(username, password, rememberMe)
}

func (f *fakeAPI) Refresh(ctx context.Context) (string, error) {
	f.refreshCalls.Add(1)
	return f.refreshFn(ctx)
}

func (f *fakeAPI) Logout(context.Context) error {
	f.logoutCalls.Add(1)
	return f.logoutErr
}

func (f *fakeAPI) CheckUsername(_ context.Context, u string) (*models.UsernameAvailability, error) {
	return &models.UsernameAvailability{Username: u, Available: true}, nil
}

func (f *fakeAPI) CheckCredentials(context.Context, string) (bool, error) { return false, nil }

func (f *fakeAPI) GetFaculty(_ context.Context, id string) (*models.Faculty, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	rec, ok := f.facultyByID[id]
	if !ok {
		return nil, errNotFound
	}
	return rec.Clone(), nil
}

func (f *fakeAPI) CreateFaculty(_ context.Context, rec *models.Faculty) (string, error) {
	return "", nil
}

func (f *fakeAPI) UpdateFaculty(_ context.Context, id string, rec *models.Faculty) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	if _, ok := f.facultyByID[id]; !ok {
		return errNotFound
	}
	stored := rec.Cleaned()
	stored.FacultyID = id
	f.facultyByID[id] = stored
	return nil
}

func (f *fakeAPI) FacultyKeywords(_ context.Context, id string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.keywordErr != nil {
		return nil, f.keywordErr
	}
	return append([]string{}, f.keywordsByID[id]...), nil
}

func (f *fakeAPI) UpdateFacultyKeywords(_ context.Context, id string, kw []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keywordsByID[id] = append([]string{}, kw...)
	return nil
}

func (f *fakeAPI) Recommendations(_ context.Context, id string) ([]models.Recommendation, error) {
	f.lastRecID = id
	return f.recs, nil
}

func (f *fakeAPI) Institutions(context.Context) ([]models.Institution, error) {
	return append([]models.Institution{}, f.institutions...), nil
}

func (f *fakeAPI) SearchFaculty(_ context.Context, p models.SearchParams) ([]models.SearchResult, error) {
	f.mu.Lock()
	f.searchCalls = append(f.searchCalls, p)
	f.mu.Unlock()
	if f.searchFn == nil {
		return nil, nil
	}
	return f.searchFn(p)
}

func (f *fakeAPI) SearchKeywords(context.Context, string, int) ([]string, error) {
	return f.suggestions, nil
}

// fakeCache is an in-memory DisplayCache.
type fakeCache struct {
	mu       sync.Mutex
	snapshot *models.Faculty
	clears   int
	saveErr  error
}

func (c *fakeCache) Save(_ context.Context, f *models.Faculty) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.saveErr != nil {
		return c.saveErr
	}
	c.snapshot = f.Clone()
	return nil
}

func (c *fakeCache) Load(context.Context) *models.Faculty {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot.Clone()
}

func (c *fakeCache) FacultyID(context.Context) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snapshot == nil {
		return ""
	}
	return c.snapshot.FacultyID
}

func (c *fakeCache) Merge(_ context.Context, f *models.Faculty) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snapshot != nil {
		c.snapshot = f.Clone()
	}
	return nil
}

func (c *fakeCache) Clear(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = nil
	c.clears++
	return nil
}

// fakeSession is a SessionManager with a fixed answer.
type fakeSession struct {
	authenticated bool
}

func (s *fakeSession) IsAuthenticated(context.Context) bool { return s.authenticated }
func (s *fakeSession) RefreshToken(context.Context) bool    { return s.authenticated }
func (s *fakeSession) Login(context.Context, string, []byte, bool) (*models.Faculty, error) {
	return nil, nil
}
func (s *fakeSession) Logout(context.Context) {}
func (s *fakeSession) AccessToken() string    { return "" }

func makeJWT(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"faculty_id": "5b0f2c9e-3a51-4c1c-9d55-0f4e1d2b7a10",
		"type":       "access",
		"iat":        exp.Add(-15 * time.Minute).Unix(),
		"exp":        exp.Unix(),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}
