package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Signup(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Status(ctx context.Context) error
	Search(ctx context.Context, query string) error
	Institutions(ctx context.Context) error
	Profile(ctx context.Context, facultyID string) error
	Edit(ctx context.Context) error
	Recommend(ctx context.Context) error
	Reset(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the ScholarSphere CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF or when the user types "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help               show available commands
//	  - signup             create or claim a faculty profile
//	  - login              authenticate
//	  - status             show session state
//	  - institutions       list institutions
//	  - profile <id>       show a faculty profile
//	  - reset              forget local data (cached profile, paused signup)
//	  - exit | quit        leave the program
//
//	Logged in, additionally:
//	  - search <query>     search faculty
//	  - profile [id]       show a profile, your own without an id
//	  - edit               edit your profile and keywords
//	  - recommend          list suggested collaborators
//	  - logout             log out
//
// Any errors returned by command handlers are ignored here; handlers report
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("ss %s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: search <query>, institutions, profile [id], edit, recommend, status, reset, logout, exit")
			} else {
				printlnFn("Available commands: signup, login, status, institutions, profile <id>, reset, exit")
			}

		case "signup":
			_ = a.Signup(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "status":
			_ = a.Status(ctx)

		case "search":
			if len(args) == 0 {
				printlnFn("Usage: search <query>")
				continue
			}
			_ = a.Search(ctx, strings.Join(args, " "))

		case "institutions":
			_ = a.Institutions(ctx)

		case "profile":
			id := ""
			if len(args) > 0 {
				id = args[0]
			}
			_ = a.Profile(ctx, id)

		case "edit":
			_ = a.Edit(ctx)

		case "recommend":
			_ = a.Recommend(ctx)

		case "reset":
			_ = a.Reset(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
