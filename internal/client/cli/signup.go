package cli

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/scholarsphere/internal/client/availability"
	"github.com/dmitrijs2005/scholarsphere/internal/client/models"
	"github.com/dmitrijs2005/scholarsphere/internal/client/signup"
	"github.com/dmitrijs2005/scholarsphere/internal/common"
)

// Navigation words accepted at any signup prompt.
const (
	cmdBack   = ":back"
	cmdCancel = ":cancel"
)

var (
	errBack   = errors.New("back")
	errCancel = errors.New("cancel")
)

// inputError marks a failure to read from the terminal, which ends the
// signup command instead of re-prompting.
type inputError struct{ err error }

func (e *inputError) Error() string { return "read input: " + e.err.Error() }
func (e *inputError) Unwrap() error { return e.err }

// verdictPoll is how often the availability verdict is polled.
const verdictPoll = 50 * time.Millisecond

// ask reads one answer and turns the navigation words into errBack and
// errCancel.
func (a *App) ask(prompt, def string) (string, error) {
	s, err := GetTextWithDefault(a.reader, prompt, def, a.out)
	if err != nil {
		return "", &inputError{err}
	}
	switch strings.ToLower(s) {
	case cmdBack:
		return "", errBack
	case cmdCancel:
		return "", errCancel
	}
	return s, nil
}

// Signup walks the user through the signup steps until the flow ends or the
// user cancels. Cancelling keeps the progress, so a later "signup" resumes
// at the same step.
func (a *App) Signup(ctx context.Context) error {
	if signup.Terminal(a.signup.State()) {
		a.signup.Reset(ctx)
	}
	a.println("Type :back to return to the previous step or :cancel to stop.")

	for {
		var err error
		switch st := a.signup.State().(type) {
		case signup.BasicInfo:
			err = a.signupBasicInfo(ctx, st)
		case signup.Confirming:
			err = a.signupConfirm(ctx, st)
		case signup.ProfileForm:
			err = a.signupProfile(ctx, st)
		case signup.Credentials:
			err = a.signupCredentials(ctx, st)
		case signup.AlreadyRegistered:
			a.printf("%s already has an account. Please login.\n", st.Faculty.FullName())
			return nil
		case signup.Complete:
			if st.LoggedIn {
				a.loggedInAs("", st.Faculty)
				a.printf("Welcome, %s!\n", st.Faculty.FullName())
			} else {
				a.println(st.Message)
			}
			return nil
		}

		var ierr *inputError
		switch {
		case err == nil:
		case errors.Is(err, errBack):
			if _, berr := a.signup.Back(); berr != nil {
				a.println("Already at the first step.")
			}
		case errors.Is(err, errCancel):
			a.println("Signup paused. Type 'signup' to continue.")
			return nil
		case errors.As(err, &ierr):
			return ierr.err
		case errors.Is(err, signup.ErrInvalidTransition):
			return err
		default:
			a.report(ctx, err)
		}
	}
}

func (a *App) signupBasicInfo(ctx context.Context, st signup.BasicInfo) error {
	a.println("Step 1: who are you?")
	first, err := a.ask("First name", st.Claim.FirstName)
	if err != nil {
		return err
	}
	last, err := a.ask("Last name", st.Claim.LastName)
	if err != nil {
		return err
	}
	inst, err := a.askInstitution(ctx, st.Claim.InstitutionName)
	if err != nil {
		return err
	}

	_, err = a.signup.SubmitBasicInfo(ctx, models.IdentityClaim{FirstName: first, LastName: last, InstitutionName: inst})
	if err == nil {
		a.track(ctx, nil)
	}
	return err
}

// askInstitution accepts an institution name or its number in the
// institution list; "?" prints the list.
func (a *App) askInstitution(ctx context.Context, def string) (string, error) {
	var list []models.Institution
	for {
		s, err := a.ask("Institution (? to list)", def)
		if err != nil {
			return "", err
		}
		if s != "?" {
			if n, ok := parseIndex(s, len(list)); ok {
				return list[n].Name, nil
			}
			return s, nil
		}
		list, err = a.directory.Institutions(ctx)
		if err != nil {
			a.report(ctx, err)
			continue
		}
		for i, inst := range list {
			a.printf("%3d. %s\n", i+1, inst.Name)
		}
	}
}

func (a *App) signupConfirm(ctx context.Context, st signup.Confirming) error {
	f := st.Match.Faculty
	if st.Resumed {
		a.println("Continuing your earlier signup.")
	}
	a.println("We found an existing profile:")
	a.printFaculty(f)
	if st.Match.MatchType == models.MatchNameOnly {
		a.printf("Note: this profile is listed at %s.\n", f.InstitutionName)
	}

	s, err := a.ask("Is this you? (y/n)", "")
	if err != nil {
		return err
	}
	switch strings.ToLower(s) {
	case "y", "yes":
		_, err = a.signup.ConfirmIdentity(ctx, true)
	case "n", "no":
		_, err = a.signup.ConfirmIdentity(ctx, false)
	default:
		return nil
	}
	return err
}

func (a *App) signupProfile(ctx context.Context, st signup.ProfileForm) error {
	if st.FacultyID == "" {
		a.println("Step 2: create your profile.")
	} else {
		a.println("Step 2: review your profile.")
	}

	draft, err := a.editFaculty(st.Draft)
	if err != nil {
		return err
	}

	_, err = a.signup.SubmitProfile(ctx, draft)
	if err == nil {
		a.track(ctx, nil)
	}
	return err
}

// editFaculty prompts for every profile field, keeping current values on
// empty input.
func (a *App) editFaculty(cur *models.Faculty) (*models.Faculty, error) {
	f := cur.Clone()
	if f == nil {
		f = &models.Faculty{}
	}

	var err error
	fields := []struct {
		prompt string
		dst    *string
	}{
		{"First name", &f.FirstName},
		{"Last name", &f.LastName},
		{"Institution", &f.InstitutionName},
	}
	for _, fl := range fields {
		if *fl.dst, err = a.ask(fl.prompt, *fl.dst); err != nil {
			return nil, err
		}
	}

	lists := []struct {
		prompt string
		dst    *[]string
	}{
		{"Emails", &f.Emails},
		{"Phones", &f.Phones},
		{"Departments", &f.Departments},
		{"Titles", &f.Titles},
	}
	for _, l := range lists {
		s, err := a.ask(l.prompt+" (comma-separated)", strings.Join(*l.dst, ", "))
		if err != nil {
			return nil, err
		}
		*l.dst = splitList(s)
	}

	more := []struct {
		prompt string
		dst    *string
	}{
		{"Biography", &f.Biography},
		{"ORCID", &f.ORCID},
		{"Google Scholar URL", &f.GoogleScholarURL},
		{"ResearchGate URL", &f.ResearchGateURL},
	}
	for _, fl := range more {
		if *fl.dst, err = a.ask(fl.prompt, *fl.dst); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func (a *App) signupCredentials(ctx context.Context, st signup.Credentials) error {
	a.println("Step 3: choose your login.")

	username, err := a.ask("Username", "")
	if err != nil {
		return err
	}
	if status := a.awaitVerdict(ctx, username); status != availability.StatusUnknown {
		a.printf("Username %q is %s\n", username, status)
	}

	password, err := getPassword("Password", a.out)
	if err != nil {
		return &inputError{err}
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword("Confirm password", a.out)
	if err != nil {
		return &inputError{err}
	}
	defer common.WipeByteArray(confirm)

	remember, err := GetYesNo(a.reader, "Remember me", false, a.out)
	if err != nil {
		return &inputError{err}
	}

	_, err = a.signup.SubmitCredentials(ctx, signup.CredentialsForm{
		Username:   username,
		Password:   password,
		Confirm:    confirm,
		RememberMe: remember,
	})
	if err == nil {
		a.track(ctx, nil)
	}
	return err
}

// awaitVerdict feeds username to the availability checker and waits for a
// definitive answer. A username the checker does not query stays unknown
// past the debounce delay; a query gets one request timeout to answer.
func (a *App) awaitVerdict(ctx context.Context, username string) availability.Status {
	a.checker.Update(username)

	started := time.NewTimer(a.config.UsernameCheckDelay + 2*verdictPoll)
	defer started.Stop()
	answered := time.NewTimer(a.config.UsernameCheckDelay + a.config.RequestTimeout)
	defer answered.Stop()
	tick := time.NewTicker(verdictPoll)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return availability.StatusUnknown
		case <-answered.C:
			return availability.StatusUnknown
		case <-started.C:
			if _, status := a.checker.Status(); status == availability.StatusUnknown {
				return status
			}
		case <-tick.C:
			subject, status := a.checker.Status()
			if subject != username {
				return availability.StatusUnknown
			}
			if status == availability.StatusAvailable || status == availability.StatusUnavailable {
				return status
			}
		}
	}
}
