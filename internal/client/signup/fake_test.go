package signup

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/scholarsphere/internal/client/client"
	"github.com/dmitrijs2005/scholarsphere/internal/client/models"
	"github.com/dmitrijs2005/scholarsphere/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/scholarsphere/internal/client/repositories/profilecache"
	"github.com/dmitrijs2005/scholarsphere/internal/client/repositories/signupstate"
	"github.com/dmitrijs2005/scholarsphere/internal/client/services"
	"github.com/dmitrijs2005/scholarsphere/internal/client/token"
	"github.com/stretchr/testify/require"
)

// backend is an in-memory faculty directory with credentials.
type backend struct {
	mu sync.Mutex

	faculty   map[string]*models.Faculty
	order     []string
	creds     map[string]string // faculty_id -> username
	passwords map[string]string // username -> password
	nextID    int

	createCalls   int
	updateCalls   int
	registerCalls int
	checkCalls    int

	loginErr    error
	registerErr error
	createErr   error
	searchErr   error
}

func newBackend() *backend {
	return &backend{
		faculty:   map[string]*models.Faculty{},
		creds:     map[string]string{},
		passwords: map[string]string{},
	}
}

func (b *backend) add(f *models.Faculty) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.faculty[f.FacultyID] = f.Clone()
	b.order = append(b.order, f.FacultyID)
}

func (b *backend) record(id string) *models.Faculty {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.faculty[id].Clone()
}

func (b *backend) RegisterCredentials(_ context.Context, facultyID, username string, password []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.registerCalls++
	if b.registerErr != nil {
		return b.registerErr
	}
	if _, ok := b.passwords[username]; ok {
		return &client.APIError{Message: "Username already taken", StatusCode: 400}
	}
	if _, ok := b.creds[facultyID]; ok {
		return &client.APIError{Message: "Credentials already exist for this faculty", StatusCode: 400}
	}
	b.creds[facultyID] = username
	b.passwords[username] = string(password)
	return nil
}

func (b *backend) Login(_ context.Context, username string, password []byte, _ bool) (*models.LoginResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.loginErr != nil {
		return nil, b.loginErr
	}
	if b.passwords[username] != string(password) {
		return nil, &client.APIError{Message: "Invalid password", StatusCode: 401}
	}
	for id, u := range b.creds {
		if u == username {
			return &models.LoginResult{AccessToken: "access-" + username, Faculty: b.faculty[id].Clone()}, nil
		}
	}
	return nil, &client.APIError{Message: "Username not found", StatusCode: 404}
}

func (b *backend) Refresh(context.Context) (string, error) {
	return "", &client.APIError{Message: "No refresh token", StatusCode: 401}
}

func (b *backend) Logout(context.Context) error { return nil }

func (b *backend) CheckUsername(_ context.Context, username string) (*models.UsernameAvailability, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, taken := b.passwords[username]
	return &models.UsernameAvailability{Username: username, Available: !taken}, nil
}

func (b *backend) CheckCredentials(_ context.Context, facultyID string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.checkCalls++
	_, ok := b.creds[facultyID]
	return ok, nil
}

func (b *backend) GetFaculty(_ context.Context, id string) (*models.Faculty, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	f, ok := b.faculty[id]
	if !ok {
		return nil, &client.APIError{Message: "Faculty member not found", StatusCode: 404}
	}
	return f.Clone(), nil
}

func (b *backend) CreateFaculty(_ context.Context, f *models.Faculty) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.createCalls++
	if b.createErr != nil {
		return "", b.createErr
	}
	b.nextID++
	id := fmt.Sprintf("00000000-0000-4000-8000-%012d", b.nextID)
	rec := f.Clone()
	rec.FacultyID = id
	b.faculty[id] = rec
	b.order = append(b.order, id)
	return id, nil
}

func (b *backend) UpdateFaculty(_ context.Context, id string, f *models.Faculty) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.updateCalls++
	if _, ok := b.faculty[id]; !ok {
		return &client.APIError{Message: "Faculty member not found", StatusCode: 404}
	}
	rec := f.Clone()
	rec.FacultyID = id
	b.faculty[id] = rec
	return nil
}

func (b *backend) FacultyKeywords(context.Context, string) ([]string, error)     { return nil, nil }
func (b *backend) UpdateFacultyKeywords(context.Context, string, []string) error { return nil }
func (b *backend) Recommendations(context.Context, string) ([]models.Recommendation, error) {
	return nil, nil
}
func (b *backend) Institutions(context.Context) ([]models.Institution, error) { return nil, nil }
func (b *backend) SearchKeywords(context.Context, string, int) ([]string, error) {
	return nil, nil
}

func (b *backend) SearchFaculty(_ context.Context, p models.SearchParams) ([]models.SearchResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.searchErr != nil {
		return nil, b.searchErr
	}
	contains := func(s, sub string) bool {
		return sub == "" || strings.Contains(strings.ToLower(s), strings.ToLower(sub))
	}
	var out []models.SearchResult
	for _, id := range b.order {
		f := b.faculty[id]
		if !contains(f.FirstName, p.FirstName) || !contains(f.LastName, p.LastName) || !contains(f.InstitutionName, p.Institution) {
			continue
		}
		out = append(out, models.SearchResult{
			FacultyID:       f.FacultyID,
			FirstName:       f.FirstName,
			LastName:        f.LastName,
			InstitutionName: f.InstitutionName,
		})
	}
	return out, nil
}

var _ client.Client = (*backend)(nil)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// harness wires the controller to the real services and sqlite-backed
// stores over the fake backend.
type harness struct {
	api     *backend
	tokens  *token.MemoryStore
	cache   *profilecache.Cache
	state   *signupstate.Store
	session services.SessionManager
	clock   *clock
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	db, err := client.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	h := &harness{
		api:    newBackend(),
		tokens: token.NewMemoryStore(),
		cache:  profilecache.New(db, nil),
		clock:  &clock{t: time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)},
	}
	h.state = signupstate.New(metadata.NewSQLiteRepository(db), signupstate.DefaultTTL, signupstate.WithClock(h.clock.now))
	h.session = services.NewSessionManager(h.api, h.tokens, h.cache, nil)
	return h
}

func (h *harness) controller(opts ...Option) *Controller {
	return New(services.NewReconcileService(h.api, nil), h.api, h.session, h.state, opts...)
}

func (h *harness) stored(t *testing.T) (string, bool) {
	t.Helper()
	return h.state.Load(context.Background())
}
