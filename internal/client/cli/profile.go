package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/scholarsphere/internal/client/services"
)

const suggestionLimit = 10

// Profile prints a faculty profile and its keywords. Without an id it shows
// the logged-in user's own profile.
func (a *App) Profile(ctx context.Context, facultyID string) error {
	if facultyID == "" && !a.requireLogin(ctx) {
		return services.ErrNotAuthenticated
	}

	view, err := a.profiles.Load(ctx, facultyID)
	if err != nil {
		a.report(ctx, err)
		return err
	}
	a.track(ctx, nil)

	a.printFaculty(view.Faculty)
	if len(view.Keywords) > 0 {
		a.printf("  Keywords:    %s\n", strings.Join(view.Keywords, ", "))
	}
	if view.IsOwn {
		a.println("(this is your profile, type 'edit' to change it)")
	}
	return nil
}

// Edit walks through the user's own profile fields and keywords and saves
// them.
func (a *App) Edit(ctx context.Context) error {
	if !a.requireLogin(ctx) {
		return services.ErrNotAuthenticated
	}

	view, err := a.profiles.Load(ctx, "")
	if err != nil {
		a.report(ctx, err)
		return err
	}
	if !view.IsOwn {
		a.println("Only your own profile can be edited.")
		return services.ErrNotAuthenticated
	}

	a.println("Press Enter to keep a value, '-' to clear it, :cancel to stop.")
	f, err := a.editFaculty(view.Faculty)
	if err != nil {
		return a.editAborted(err)
	}

	keywords, err := a.editKeywords(ctx, view.Keywords)
	if err != nil {
		return a.editAborted(err)
	}

	saved, err := a.profiles.Save(ctx, view.Faculty.FacultyID, f, keywords)
	if err != nil {
		a.report(ctx, err)
		return err
	}
	a.track(ctx, nil)
	a.loggedInAs(a.userName, saved)
	a.println("Profile saved")
	return nil
}

func (a *App) editAborted(err error) error {
	if errors.Is(err, errBack) || errors.Is(err, errCancel) {
		a.println("Nothing saved.")
		return nil
	}
	return err
}

// editKeywords asks for the keyword list. Starting the answer with "?"
// prints suggestions for the rest of the line and asks again.
func (a *App) editKeywords(ctx context.Context, current []string) ([]string, error) {
	for {
		kw, err := a.ask("Keywords (comma-separated, ?term for suggestions)", strings.Join(current, ", "))
		if err != nil {
			return nil, err
		}
		q, ok := strings.CutPrefix(kw, "?")
		if !ok {
			return splitList(kw), nil
		}

		suggestions, err := a.profiles.SuggestKeywords(ctx, strings.TrimSpace(q), suggestionLimit, current)
		if err != nil {
			a.report(ctx, err)
			continue
		}
		if len(suggestions) == 0 {
			a.println("No suggestions (type at least 2 characters).")
			continue
		}
		a.printf("Suggestions: %s\n", strings.Join(suggestions, ", "))
	}
}

// Recommend lists suggested collaborators for the logged-in user.
func (a *App) Recommend(ctx context.Context) error {
	if !a.requireLogin(ctx) {
		return services.ErrNotAuthenticated
	}

	recs, err := a.profiles.Recommendations(ctx, "")
	if err != nil {
		a.report(ctx, err)
		return err
	}
	a.track(ctx, nil)

	if len(recs) == 0 {
		a.println("No recommendations yet.")
		return nil
	}
	for i, r := range recs {
		a.printf("%2d. %s %s, %s (%.0f%%)\n", i+1, r.FirstName, r.LastName, r.InstitutionName, r.MatchScore*100)
		if r.RecommendationText != "" {
			a.printf("    %s\n", r.RecommendationText)
		}
		a.printf("    id: %s\n", r.FacultyID)
	}
	return nil
}
