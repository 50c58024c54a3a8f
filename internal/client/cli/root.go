package cli

import (
	"context"
	"fmt"
)

func (a *App) getStatus() string {
	s := ""
	if a.userName != "" {
		s = a.userName + " "
	}
	if a.Mode != "" {
		s = s + string(a.Mode)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Root greets the user and runs the REPL until exit or EOF. A profile
// snapshot left by an earlier session only personalizes the greeting; it
// does not log anyone in.
func (a *App) Root(ctx context.Context) {
	a.println("Welcome to ScholarSphere CLI (type 'help' for commands)")
	if f := a.cache.Load(ctx); f != nil {
		a.printf("Welcome back, %s. Type 'login' to continue.\n", f.FullName())
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}
