package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/scholarsphere/internal/client/availability"
	"github.com/dmitrijs2005/scholarsphere/internal/client/client"
	"github.com/dmitrijs2005/scholarsphere/internal/client/config"
	"github.com/dmitrijs2005/scholarsphere/internal/client/models"
	"github.com/dmitrijs2005/scholarsphere/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/scholarsphere/internal/client/repositories/profilecache"
	"github.com/dmitrijs2005/scholarsphere/internal/client/repositories/signupstate"
	"github.com/dmitrijs2005/scholarsphere/internal/client/services"
	"github.com/dmitrijs2005/scholarsphere/internal/client/signup"
	"github.com/dmitrijs2005/scholarsphere/internal/client/token"
	"github.com/dmitrijs2005/scholarsphere/internal/filex"
	"github.com/dmitrijs2005/scholarsphere/internal/logging"
)

// dbFileName is the local store inside Config.DataDir.
const dbFileName = "client.db"

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// signupFlow is the part of *signup.Controller the CLI drives.
type signupFlow interface {
	State() signup.State
	SubmitBasicInfo(ctx context.Context, claim models.IdentityClaim) (signup.State, error)
	ConfirmIdentity(ctx context.Context, yes bool) (signup.State, error)
	SubmitProfile(ctx context.Context, draft *models.Faculty) (signup.State, error)
	SubmitCredentials(ctx context.Context, form signup.CredentialsForm) (signup.State, error)
	Back() (signup.State, error)
	Reset(ctx context.Context) signup.State
}

// usernameChecker is the part of *availability.Checker the CLI drives.
type usernameChecker interface {
	Update(username string)
	Status() (string, availability.Status)
}

type App struct {
	config    *config.Config
	session   services.SessionManager
	profiles  services.ProfileService
	directory services.DirectoryService
	signup    signupFlow
	checker   usernameChecker
	cache     services.DisplayCache
	purge     func(ctx context.Context) ([]string, error)
	log       logging.Logger
	reader    *bufio.Reader
	out       io.Writer
	closers   []func() error

	userName string
	Mode     Mode
}

// NewApp opens the local store under c.DataDir and wires the HTTP client,
// the services and the signup controller.
func NewApp(c *config.Config, log logging.Logger) (*App, error) {
	ctx := context.Background()

	dir, err := filex.EnsureDir(c.DataDir)
	if err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, filepath.Join(dir, dbFileName))
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	api, err := client.NewHTTPClient(c.ServerBaseURL, client.WithTimeout(c.RequestTimeout), client.WithLogger(log))
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	a := wire(c, log, db, api)
	a.closers = append(a.closers, db.Close)
	return a, nil
}

func wire(c *config.Config, log logging.Logger, db *sql.DB, api *client.HTTPClient) *App {
	cache := profilecache.New(db, log)
	state := signupstate.New(metadata.NewSQLiteRepository(db), c.SignupStateTTL, signupstate.WithLogger(log))

	session := services.NewSessionManager(api, token.NewMemoryStore(), cache, log)
	api.SetAuthenticator(session)

	checker := availability.New(api,
		availability.WithDelay(c.UsernameCheckDelay),
		availability.WithTimeout(c.RequestTimeout),
		availability.WithLogger(log),
	)

	flow := signup.New(services.NewReconcileService(api, log), api, session, state,
		signup.WithVerdict(checker),
		signup.WithLogger(log),
	)

	return &App{
		config:    c,
		session:   session,
		profiles:  services.NewProfileService(api, api, session, cache, log),
		directory: services.NewDirectoryService(api),
		signup:    flow,
		checker:   checker,
		cache:     cache,
		purge:     func(ctx context.Context) ([]string, error) { return metadata.Purge(ctx, db) },
		log:       log,
		reader:    bufio.NewReader(os.Stdin),
		out:       os.Stdout,
		closers: []func() error{
			func() error { checker.Close(); return nil },
		},
	}
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	if a.Mode != mode {
		a.Mode = mode
		a.log.Info(ctx, "connectivity changed", "mode", string(mode))
	}
}

// track updates the connectivity mode from the outcome of a backend call.
func (a *App) track(ctx context.Context, err error) {
	if errors.Is(err, client.ErrUnavailable) {
		a.setMode(ctx, ModeOffline)
		return
	}
	a.setMode(ctx, ModeOnline)
}

// Run starts the REPL and releases local resources when it returns.
func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

func (a *App) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.log.Warn(context.Background(), "close failed", "error", err)
		}
	}
	a.closers = nil
}

func (a *App) isLoggedIn() bool {
	return a.userName != ""
}

// requireLogin reports whether the session is live, telling the user to log
// in otherwise.
func (a *App) requireLogin(ctx context.Context) bool {
	if a.session.IsAuthenticated(ctx) {
		return true
	}
	a.userName = ""
	a.println("Please login first.")
	return false
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// report prints a user-facing description of err.
func (a *App) report(ctx context.Context, err error) {
	a.track(ctx, err)

	var verr *signup.ValidationError
	switch {
	case errors.As(err, &verr):
		for field, msg := range verr.Fields {
			a.printf("  %s: %s\n", field, msg)
		}
	case errors.Is(err, client.ErrUnavailable):
		a.println("Server unavailable, please try again later.")
	case errors.Is(err, services.ErrNotAuthenticated):
		a.println("Please login first.")
	default:
		a.println("Error:", client.Message(err))
	}
}
