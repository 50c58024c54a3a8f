// Package signup drives a new user from an identity claim to registered
// credentials.
//
// The flow is BasicInfo -> Confirming (only when a record matches) ->
// ProfileForm -> Credentials -> Complete, with AlreadyRegistered as a
// terminal side exit from Confirming. Only the faculty id of an unfinished
// signup is persisted; every other piece of state lives in the controller.
package signup

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/dmitrijs2005/scholarsphere/internal/client/models"
	"github.com/dmitrijs2005/scholarsphere/internal/logging"
)

const (
	minUsernameLength = 3
	minPasswordLength = 8
)

// Reconciler classifies a claim against existing records.
type Reconciler interface {
	CheckFacultyExists(ctx context.Context, claim models.IdentityClaim) (*models.MatchResult, error)
}

// Backend is the part of the API the flow mutates.
type Backend interface {
	CreateFaculty(ctx context.Context, f *models.Faculty) (string, error)
	UpdateFaculty(ctx context.Context, facultyID string, f *models.Faculty) error
	CheckCredentials(ctx context.Context, facultyID string) (bool, error)
	RegisterCredentials(ctx context.Context, facultyID, username string, password []byte) error
}

// Session performs the automatic login after registration.
type Session interface {
	Login(ctx context.Context, username string, password []byte, rememberMe bool) (*models.Faculty, error)
}

// StateStore persists the faculty id of an unfinished signup. Load reports
// false for absent or expired entries.
type StateStore interface {
	Load(ctx context.Context) (string, bool)
	Save(ctx context.Context, facultyID string) error
	Clear(ctx context.Context) error
}

// UsernameVerdict exposes the availability checker's answer for a username.
type UsernameVerdict interface {
	Verdict(username string) (available, known bool)
}

// CredentialsForm is the last step's input. The controller does not retain
// or wipe the password slices; the caller owns them.
type CredentialsForm struct {
	Username   string
	Password   []byte
	Confirm    []byte
	RememberMe bool
}

type Option func(*Controller)

// WithVerdict lets SubmitCredentials reject a username the availability
// checker has already reported as taken.
func WithVerdict(v UsernameVerdict) Option {
	return func(c *Controller) { c.verdict = v }
}

func WithLogger(l logging.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// Controller is safe for concurrent use. Operations are serialized: a step
// holds the controller until its backend calls return.
type Controller struct {
	recon   Reconciler
	api     Backend
	session Session
	store   StateStore
	verdict UsernameVerdict
	log     logging.Logger

	mu    sync.Mutex
	state State
}

func New(recon Reconciler, api Backend, session Session, store StateStore, opts ...Option) *Controller {
	c := &Controller{
		recon:   recon,
		api:     api,
		session: session,
		store:   store,
		log:     logging.Nop(),
		state:   BasicInfo{},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// State returns the current step.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SubmitBasicInfo reconciles claim. A match persists its faculty id and
// moves to Confirming; no match forgets any earlier linkage and opens an
// empty profile form.
func (c *Controller) SubmitBasicInfo(ctx context.Context, claim models.IdentityClaim) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.state.(BasicInfo); !ok {
		return c.state, ErrInvalidTransition
	}

	claim = models.IdentityClaim{
		FirstName:       strings.TrimSpace(claim.FirstName),
		LastName:        strings.TrimSpace(claim.LastName),
		InstitutionName: strings.TrimSpace(claim.InstitutionName),
	}
	c.state = BasicInfo{Claim: claim}

	verr := &ValidationError{}
	if claim.FirstName == "" {
		verr.add("first_name", "First name is required")
	}
	if claim.LastName == "" {
		verr.add("last_name", "Last name is required")
	}
	if claim.InstitutionName == "" {
		verr.add("institution_name", "Institution is required")
	}
	if err := verr.orNil(); err != nil {
		return c.state, err
	}

	surviving, resumable := c.store.Load(ctx)

	match, err := c.recon.CheckFacultyExists(ctx, claim)
	if err != nil {
		c.log.Error(ctx, "faculty check failed", "error", err)
		return c.state, err
	}

	if !match.Exists || match.Faculty == nil || match.Faculty.FacultyID == "" {
		c.clearStored(ctx)
		c.state = ProfileForm{Claim: claim, Draft: seed(claim)}
		return c.state, nil
	}

	id := match.Faculty.FacultyID
	c.persist(ctx, id)
	resumed := resumable && surviving == id
	if resumed {
		c.log.Info(ctx, "resuming unfinished signup", "faculty_id", id)
	}
	c.state = Confirming{Claim: claim, Match: match, Resumed: resumed}
	return c.state, nil
}

// ConfirmIdentity answers "is this you?". On yes it looks for existing
// credentials; a registered record ends the flow in AlreadyRegistered,
// otherwise the form opens prefilled. A yes also renews the stored signup
// state. On no the match and its persisted id are dropped and the form opens
// empty.
func (c *Controller) ConfirmIdentity(ctx context.Context, yes bool) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, ok := c.state.(Confirming)
	if !ok {
		return c.state, ErrInvalidTransition
	}

	if !yes {
		c.clearStored(ctx)
		c.state = ProfileForm{Claim: st.Claim, Draft: seed(st.Claim)}
		return c.state, nil
	}

	rec := st.Match.Faculty
	c.persist(ctx, rec.FacultyID)

	has, err := c.api.CheckCredentials(ctx, rec.FacultyID)
	if err != nil {
		c.log.Error(ctx, "credential check failed", "faculty_id", rec.FacultyID, "error", err)
		return c.state, err
	}
	if has {
		c.state = AlreadyRegistered{FacultyID: rec.FacultyID, Faculty: rec.Clone()}
		return c.state, nil
	}

	draft := rec.Clone()
	draft.FirstName = st.Claim.FirstName
	draft.LastName = st.Claim.LastName
	draft.InstitutionName = st.Claim.InstitutionName
	c.state = ProfileForm{Claim: st.Claim, FacultyID: rec.FacultyID, Draft: draft, Prefilled: true}
	return c.state, nil
}

// SubmitProfile creates the record when no faculty id is known and updates
// it in place otherwise. On failure the form stays open with draft kept.
func (c *Controller) SubmitProfile(ctx context.Context, draft *models.Faculty) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, ok := c.state.(ProfileForm)
	if !ok {
		return c.state, ErrInvalidTransition
	}
	if draft == nil {
		draft = st.Draft
	}
	st.Draft = draft.Clone()
	c.state = st

	f := draft.Cleaned()
	f.FacultyID = ""

	verr := &ValidationError{}
	if f.FirstName == "" {
		verr.add("first_name", "First name is required")
	}
	if f.LastName == "" {
		verr.add("last_name", "Last name is required")
	}
	if f.InstitutionName == "" {
		verr.add("institution_name", "Institution is required")
	}
	if err := verr.orNil(); err != nil {
		return c.state, err
	}

	id := st.FacultyID
	if id == "" {
		newID, err := c.api.CreateFaculty(ctx, f)
		if err != nil {
			c.log.Error(ctx, "create faculty failed", "error", err)
			return c.state, err
		}
		id = newID
		c.log.Info(ctx, "faculty created", "faculty_id", id)
	} else {
		if err := c.api.UpdateFaculty(ctx, id, f); err != nil {
			c.log.Error(ctx, "update faculty failed", "faculty_id", id, "error", err)
			return c.state, err
		}
		c.log.Info(ctx, "faculty updated", "faculty_id", id)
	}
	c.persist(ctx, id)

	f.FacultyID = id
	c.state = Credentials{Claim: st.Claim, FacultyID: id, Profile: f}
	return c.state, nil
}

// SubmitCredentials registers the credentials and logs in with them. A
// failed registration keeps the step; a failed login still completes the
// flow, with LoggedIn false.
func (c *Controller) SubmitCredentials(ctx context.Context, form CredentialsForm) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, ok := c.state.(Credentials)
	if !ok {
		return c.state, ErrInvalidTransition
	}

	username := strings.TrimSpace(form.Username)
	if err := c.validateCredentials(username, form); err != nil {
		return c.state, err
	}

	if err := c.api.RegisterCredentials(ctx, st.FacultyID, username, form.Password); err != nil {
		c.log.Warn(ctx, "register credentials failed", "faculty_id", st.FacultyID, "error", err)
		return c.state, err
	}
	c.log.Info(ctx, "credentials registered", "faculty_id", st.FacultyID)

	// registration is final from here on
	c.clearStored(ctx)

	fac, err := c.session.Login(ctx, username, form.Password, form.RememberMe)
	if err != nil {
		c.log.Warn(ctx, "automatic login failed", "faculty_id", st.FacultyID, "error", err)
		c.state = Complete{Faculty: st.Profile, LoggedIn: false, Message: LoginMessage}
		return c.state, nil
	}
	if fac == nil {
		fac = st.Profile
	}
	c.state = Complete{Faculty: fac, LoggedIn: true}
	return c.state, nil
}

func (c *Controller) validateCredentials(username string, form CredentialsForm) error {
	verr := &ValidationError{}

	switch {
	case username == "":
		verr.add("username", "Username is required")
	case utf8.RuneCountInString(username) < minUsernameLength:
		verr.add("username", "Username must be at least 3 characters")
	case c.verdict != nil:
		if available, known := c.verdict.Verdict(username); known && !available {
			verr.add("username", "Username is not available")
		}
	}

	switch {
	case len(form.Password) == 0:
		verr.add("password", "Password is required")
	case utf8.RuneCount(form.Password) < minPasswordLength:
		verr.add("password", "Password must be at least 8 characters")
	}

	if !bytes.Equal(form.Password, form.Confirm) {
		verr.add("confirm_password", "Passwords do not match")
	}

	return verr.orNil()
}

// Back returns to the previous step. The persisted faculty id is kept, so
// going back from Credentials leads to an update rather than a second
// create.
func (c *Controller) Back() (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch st := c.state.(type) {
	case Confirming:
		c.state = BasicInfo{Claim: st.Claim}
	case ProfileForm:
		c.state = BasicInfo{Claim: st.Claim}
	case Credentials:
		c.state = ProfileForm{Claim: st.Claim, FacultyID: st.FacultyID, Draft: st.Profile.Clone(), Prefilled: true}
	default:
		return c.state, ErrInvalidTransition
	}
	return c.state, nil
}

// Reset forgets everything, including the persisted faculty id, and starts
// over at BasicInfo.
func (c *Controller) Reset(ctx context.Context) State {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.clearStored(ctx)
	c.state = BasicInfo{}
	return c.state
}

func (c *Controller) persist(ctx context.Context, facultyID string) {
	if err := c.store.Save(ctx, facultyID); err != nil {
		c.log.Warn(ctx, "failed to persist signup state", "faculty_id", facultyID, "error", err)
	}
}

func (c *Controller) clearStored(ctx context.Context) {
	if err := c.store.Clear(ctx); err != nil {
		c.log.Warn(ctx, "failed to clear signup state", "error", err)
	}
}
