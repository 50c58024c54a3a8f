package signup

import "github.com/dmitrijs2005/scholarsphere/internal/client/models"

// State is one step of the signup flow. Each implementation carries only the
// data that is valid in that step.
type State interface {
	Name() string
	state()
}

// BasicInfo collects the identity claim. Claim holds the last submitted
// values, if any.
type BasicInfo struct {
	Claim models.IdentityClaim
}

// Confirming asks the user whether Match is them. Resumed is set when the
// matched record is the one an earlier, unfinished signup was linked to.
type Confirming struct {
	Claim   models.IdentityClaim
	Match   *models.MatchResult
	Resumed bool
}

// AlreadyRegistered is terminal: the confirmed record already has
// credentials and the user should log in instead.
type AlreadyRegistered struct {
	FacultyID string
	Faculty   *models.Faculty
}

// ProfileForm edits Draft. An empty FacultyID means the record does not
// exist yet and submitting creates it.
type ProfileForm struct {
	Claim     models.IdentityClaim
	FacultyID string
	Draft     *models.Faculty
	Prefilled bool
}

// Credentials collects the username and password for FacultyID.
type Credentials struct {
	Claim     models.IdentityClaim
	FacultyID string
	Profile   *models.Faculty
}

// Complete is reached once credentials are registered. LoggedIn reports
// whether the automatic login worked; when it did not, Message tells the
// user to log in manually.
type Complete struct {
	Faculty  *models.Faculty
	LoggedIn bool
	Message  string
}

func (BasicInfo) Name() string         { return "basic_info" }
func (Confirming) Name() string        { return "confirming" }
func (AlreadyRegistered) Name() string { return "already_registered" }
func (ProfileForm) Name() string       { return "profile_form" }
func (Credentials) Name() string       { return "credentials" }
func (Complete) Name() string          { return "complete" }

func (BasicInfo) state()         {}
func (Confirming) state()        {}
func (AlreadyRegistered) state() {}
func (ProfileForm) state()       {}
func (Credentials) state()       {}
func (Complete) state()          {}

// Terminal reports whether s ends the flow.
func Terminal(s State) bool {
	switch s.(type) {
	case Complete, AlreadyRegistered:
		return true
	}
	return false
}

// seed returns an empty draft carrying only the claimed name and
// institution.
func seed(c models.IdentityClaim) *models.Faculty {
	return &models.Faculty{
		FirstName:       c.FirstName,
		LastName:        c.LastName,
		InstitutionName: c.InstitutionName,
		Emails:          []string{},
		Phones:          []string{},
		Departments:     []string{},
		Titles:          []string{},
	}
}
