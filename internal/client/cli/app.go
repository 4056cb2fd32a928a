package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/useradmin/internal/client/client"
	"github.com/dmitrijs2005/useradmin/internal/client/form"
	"github.com/dmitrijs2005/useradmin/internal/client/models"
	"github.com/dmitrijs2005/useradmin/internal/client/roster"
	"github.com/dmitrijs2005/useradmin/internal/client/services"
	"github.com/dmitrijs2005/useradmin/internal/client/view"
	"github.com/dmitrijs2005/useradmin/internal/logging"
)

type App struct {
	authService services.AuthService
	directory   *services.DirectoryService
	validator   *form.Validator
	view        *view.Model
	log         logging.Logger

	reader *bufio.Reader
	out    io.Writer

	unsubscribe func()
}

// NewApp wires the console. pageSize must be one of view.PageSizes.
func NewApp(as services.AuthService, ds *services.DirectoryService, v *form.Validator, pageSize int,
	log logging.Logger, in io.Reader, out io.Writer) (*App, error) {

	m, err := view.NewModel(pageSize)
	if err != nil {
		return nil, err
	}

	a := &App{
		authService: as,
		directory:   ds,
		validator:   v,
		view:        m,
		log:         log,
		reader:      bufio.NewReader(in),
		out:         out,
	}
	a.unsubscribe = ds.Store().Subscribe(a.clampPage)
	return a, nil
}

// Run restores or asks for a session and then serves commands until exit.
func (a *App) Run(ctx context.Context) {
	defer a.authService.Close(ctx)
	defer a.unsubscribe()

	fmt.Fprintln(a.out, "User directory console (type 'help' for commands)")

	if s, err := a.authService.Restore(ctx); err == nil {
		fmt.Fprintf(a.out, "Signed in as %s\n", s.Email)
		a.reload(ctx)
	} else {
		if !errors.Is(err, services.ErrNoSession) {
			a.log.Info(ctx, "saved session not reused", "err", err)
		}
		_ = a.Login(ctx)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.authService.IsAuthenticated()
}

func (a *App) getStatus() string {
	s := a.authService.Current()
	if s == nil {
		return "(signed out)"
	}
	if n := len(a.directory.Store().Pending()); n > 0 {
		return fmt.Sprintf("(%s, %d pending)", s.Email, n)
	}
	return fmt.Sprintf("(%s)", s.Email)
}

// clampPage keeps the current page inside the roster after it shrinks.
func (a *App) clampPage(users []models.User) {
	p := view.Project(users, a.view.Params())
	if p.Pages > 0 && p.Page >= p.Pages {
		a.view.SetPage(p.Pages - 1)
	}
}

func (a *App) reload(ctx context.Context) {
	if err := a.directory.Refresh(ctx); err != nil {
		a.report(ctx, err)
	}
}

// report prints err for the operator. A rejected token ends the session.
func (a *App) report(ctx context.Context, err error) {
	var verr *form.ValidationError
	var serr *client.ServiceError

	switch {
	case errors.As(err, &verr):
		for _, field := range form.Fields {
			if msg, ok := verr.Errors[field]; ok {
				fmt.Fprintf(a.out, "  %s\n", msg)
			}
		}
	case errors.Is(err, client.ErrUnauthorized):
		fmt.Fprintln(a.out, "Your session is no longer valid. Please log in again.")
		if lerr := a.Logout(ctx); lerr != nil {
			a.log.Error(ctx, "logout failed", "err", lerr)
		}
	case errors.Is(err, client.ErrUnavailable):
		fmt.Fprintln(a.out, "The directory service is unreachable. Showing the last known data.")
	case errors.Is(err, client.ErrConflict):
		fmt.Fprintln(a.out, "A user with this email already exists.")
	case errors.Is(err, client.ErrNotFound), errors.Is(err, roster.ErrNotFound):
		fmt.Fprintln(a.out, "User not found.")
	case errors.Is(err, services.ErrProvisional):
		fmt.Fprintln(a.out, "This user is still being created. Try again in a moment.")
	case errors.As(err, &serr):
		fmt.Fprintf(a.out, "Error: %s\n", serr.Message)
	default:
		fmt.Fprintf(a.out, "Error: %s\n", err)
	}
}
