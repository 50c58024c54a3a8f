package cli

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/scholarsphere/internal/client/availability"
	"github.com/dmitrijs2005/scholarsphere/internal/client/config"
	"github.com/dmitrijs2005/scholarsphere/internal/client/models"
	"github.com/dmitrijs2005/scholarsphere/internal/client/services"
	"github.com/dmitrijs2005/scholarsphere/internal/client/signup"
	"github.com/dmitrijs2005/scholarsphere/internal/logging"
)

const janeID = "5b0f2c9e-3a51-4c1c-9d55-0f4e1d2b7a10"

func jane() *models.Faculty {
	return &models.Faculty{
		FacultyID:       janeID,
		FirstName:       "Jane",
		LastName:        "Doe",
		InstitutionName: "Acme University",
		Emails:          []string{"jane@acme.edu"},
		Phones:          []string{},
		Departments:     []string{"Physics"},
		Titles:          []string{"Professor"},
	}
}

// fakeSession is a SessionManager driven by fields.
type fakeSession struct {
	authenticated bool
	loginErr      error
	loginFaculty  *models.Faculty
	loginUser     string
	loginPass     string
	remember      bool
	logouts       int
}

func (s *fakeSession) IsAuthenticated(context.Context) bool { return s.authenticated }
func (s *fakeSession) RefreshToken(context.Context) bool    { return s.authenticated }
func (s *fakeSession) AccessToken() string                  { return "" }

func (s *fakeSession) Login(_ context.Context, username string, password []byte, rememberMe bool) (*models.Faculty, error) {
	s.loginUser, s.loginPass, s.remember = username, string(password), rememberMe
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	s.authenticated = true
	return s.loginFaculty, nil
}

func (s *fakeSession) Logout(context.Context) {
	s.logouts++
	s.authenticated = false
}

// fakeCache is an in-memory DisplayCache.
type fakeCache struct {
	snapshot *models.Faculty
}

func (c *fakeCache) Save(_ context.Context, f *models.Faculty) error { c.snapshot = f.Clone(); return nil }
func (c *fakeCache) Load(context.Context) *models.Faculty           { return c.snapshot.Clone() }
func (c *fakeCache) Merge(_ context.Context, f *models.Faculty) error {
	if c.snapshot != nil {
		c.snapshot = f.Clone()
	}
	return nil
}
func (c *fakeCache) Clear(context.Context) error { c.snapshot = nil; return nil }
func (c *fakeCache) FacultyID(context.Context) string {
	if c.snapshot == nil {
		return ""
	}
	return c.snapshot.FacultyID
}

// fakeProfiles is a ProfileService over one record.
type fakeProfiles struct {
	view        *services.ProfileView
	loadErr     error
	loadedID    string
	saved       *models.Faculty
	savedKW     []string
	suggestions []string
	suggestQ    string
	recs        []models.Recommendation
}

func (p *fakeProfiles) OwnFacultyID(context.Context) (string, error) { return janeID, nil }

func (p *fakeProfiles) Load(_ context.Context, id string) (*services.ProfileView, error) {
	p.loadedID = id
	if p.loadErr != nil {
		return nil, p.loadErr
	}
	return p.view, nil
}

func (p *fakeProfiles) Save(_ context.Context, id string, f *models.Faculty, kw []string) (*models.Faculty, error) {
	p.saved, p.savedKW = f.Clone(), kw
	out := f.Clone()
	out.FacultyID = id
	return out, nil
}

func (p *fakeProfiles) SuggestKeywords(_ context.Context, q string, _ int, _ []string) ([]string, error) {
	p.suggestQ = q
	return p.suggestions, nil
}

func (p *fakeProfiles) Recommendations(context.Context, string) ([]models.Recommendation, error) {
	return p.recs, nil
}

// fakeDirectory serves fixed rows.
type fakeDirectory struct {
	rows         []models.SearchResult
	institutions []models.Institution
	err          error
	params       models.SearchParams
}

func (d *fakeDirectory) SearchFaculty(_ context.Context, p models.SearchParams) ([]models.SearchResult, error) {
	d.params = p
	return d.rows, d.err
}

func (d *fakeDirectory) Institutions(context.Context) ([]models.Institution, error) {
	return d.institutions, d.err
}

// fakeChecker resolves every username immediately.
type fakeChecker struct {
	mu      sync.Mutex
	taken   map[string]bool
	subject string
	status  availability.Status
}

func (c *fakeChecker) Update(username string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subject = username
	c.status = availability.StatusAvailable
	if c.taken[username] {
		c.status = availability.StatusUnavailable
	}
}

func (c *fakeChecker) Status() (string, availability.Status) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subject, c.status
}

func (c *fakeChecker) Verdict(username string) (bool, bool) {
	s, st := c.Status()
	if s != username || st == availability.StatusUnknown {
		return false, false
	}
	return st == availability.StatusAvailable, true
}

// fakeReconciler returns a fixed match.
type fakeReconciler struct {
	match *models.MatchResult
}

func (r *fakeReconciler) CheckFacultyExists(context.Context, models.IdentityClaim) (*models.MatchResult, error) {
	if r.match == nil {
		return &models.MatchResult{}, nil
	}
	return r.match, nil
}

// fakeBackend records signup mutations.
type fakeBackend struct {
	created    *models.Faculty
	updated    *models.Faculty
	hasCreds   bool
	registered string
}

func (b *fakeBackend) CreateFaculty(_ context.Context, f *models.Faculty) (string, error) {
	b.created = f.Clone()
	return "00000000-0000-4000-8000-000000000001", nil
}

func (b *fakeBackend) UpdateFaculty(_ context.Context, _ string, f *models.Faculty) error {
	b.updated = f.Clone()
	return nil
}

func (b *fakeBackend) CheckCredentials(context.Context, string) (bool, error) { return b.hasCreds, nil }

func (b *fakeBackend) RegisterCredentials(_ context.Context, _ string, username string, _ []byte) error {
	b.registered = username
	return nil
}

// memState is an in-memory signup StateStore.
type memState struct {
	id string
}

func (m *memState) Load(context.Context) (string, bool)        { return m.id, m.id != "" }
func (m *memState) Save(_ context.Context, id string) error { m.id = id; return nil }
func (m *memState) Clear(context.Context) error             { m.id = ""; return nil }

type testApp struct {
	*App
	out       *bytes.Buffer
	session   *fakeSession
	cache     *fakeCache
	profiles  *fakeProfiles
	directory *fakeDirectory
	checker   *fakeChecker
	recon     *fakeReconciler
	backend   *fakeBackend
	state     *memState

	purgeKeys []string
	purgeErr  error
	purges    int
}

// newTestApp builds an App over fakes that reads the given input lines.
func newTestApp(t *testing.T, lines ...string) *testApp {
	t.Helper()

	ta := &testApp{
		out:       &bytes.Buffer{},
		session:   &fakeSession{},
		cache:     &fakeCache{},
		profiles:  &fakeProfiles{},
		directory: &fakeDirectory{},
		checker:   &fakeChecker{taken: map[string]bool{}},
		recon:     &fakeReconciler{},
		backend:   &fakeBackend{},
		state:     &memState{},
	}
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.UsernameCheckDelay = time.Millisecond

	ta.App = &App{
		config:    cfg,
		session:   ta.session,
		profiles:  ta.profiles,
		directory: ta.directory,
		signup:    signup.New(ta.recon, ta.backend, ta.session, ta.state, signup.WithVerdict(ta.checker)),
		checker:   ta.checker,
		cache:     ta.cache,
		log:       logging.Nop(),
		reader:    bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n")),
		out:       ta.out,
	}
	ta.App.purge = func(context.Context) ([]string, error) {
		ta.purges++
		return ta.purgeKeys, ta.purgeErr
	}
	return ta
}

// stubPasswords makes getPassword return pws in order.
func stubPasswords(t *testing.T, pws ...string) {
	t.Helper()
	orig := getPassword
	i := 0
	getPassword = func(string, io.Writer) ([]byte, error) {
		if i >= len(pws) {
			return nil, fmt.Errorf("no more passwords")
		}
		pw := []byte(pws[i])
		i++
		return pw, nil
	}
	t.Cleanup(func() { getPassword = orig })
}
