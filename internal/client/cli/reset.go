package cli

import (
	"context"
)

// Reset forgets everything this client keeps on disk, the cached profile and
// any paused signup, and ends the session.
func (a *App) Reset(ctx context.Context) error {
	ok, err := GetYesNo(a.reader, "Forget the cached profile and any paused signup?", false, a.out)
	if err != nil {
		return err
	}
	if !ok {
		a.println("Nothing removed.")
		return nil
	}

	keys, err := a.purge(ctx)
	if err != nil {
		a.log.Error(ctx, "failed to clear local data", "error", err)
		a.println("Error:", err)
		return err
	}

	a.session.Logout(ctx)
	a.signup.Reset(ctx)
	a.userName = ""

	a.log.Info(ctx, "local data cleared", "keys", keys)
	a.printf("Local data cleared (%d entries).\n", len(keys))
	return nil
}
