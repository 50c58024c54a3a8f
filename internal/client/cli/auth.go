package cli

import (
	"context"

	"github.com/dmitrijs2005/scholarsphere/internal/client/client"
	"github.com/dmitrijs2005/scholarsphere/internal/client/models"
	"github.com/dmitrijs2005/scholarsphere/internal/client/services"
	"github.com/dmitrijs2005/scholarsphere/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for username, password and "remember me" and opens a
// session. Backend errors are attributed to the username or password field
// when their message names one.
//
// The password is securely wiped before returning.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	remember, err := GetYesNo(a.reader, "Remember me", false, a.out)
	if err != nil {
		return err
	}

	f, err := a.session.Login(ctx, userName, password, remember)
	if err != nil {
		a.track(ctx, err)
		switch services.ClassifyLoginError(err) {
		case services.LoginFieldUsername:
			a.printf("  username: %s\n", client.Message(err))
		case services.LoginFieldPassword:
			a.printf("  password: %s\n", client.Message(err))
		default:
			a.report(ctx, err)
		}
		return err
	}

	a.track(ctx, nil)
	a.loggedInAs(userName, f)
	a.println("Login successful")
	return nil
}

func (a *App) loggedInAs(userName string, f *models.Faculty) {
	a.userName = userName
	if f != nil && f.FullName() != "" {
		a.userName = f.FullName()
	}
}

// Logout ends the session. Local state is cleared even when the server
// cannot be reached.
func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	a.userName = ""
	a.println("Logged out")
	return nil
}

// Status reports whether the session is live, renewing it if needed.
func (a *App) Status(ctx context.Context) error {
	if !a.session.IsAuthenticated(ctx) {
		a.userName = ""
		a.println("Not logged in")
		return nil
	}
	f := a.cache.Load(ctx)
	if f == nil {
		a.println("Logged in")
		return nil
	}
	a.loggedInAs(a.userName, f)
	a.printf("Logged in as %s (%s)\n", f.FullName(), f.FacultyID)
	return nil
}
