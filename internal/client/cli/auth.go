package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/useradmin/internal/client/client"
	"github.com/dmitrijs2005/useradmin/internal/client/services"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login asks for credentials and opens an admin session. Failures are
// printed; the returned error is the one from the auth service.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}

	s, err := a.authService.Login(ctx, email, password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrForbidden):
			fmt.Fprintln(a.out, services.AccessDeniedMessage)
		case errors.Is(err, client.ErrUnavailable):
			fmt.Fprintln(a.out, "The directory service is unreachable. Try again later.")
		default:
			fmt.Fprintln(a.out, services.LoginFailedMessage)
		}
		a.log.Info(ctx, "login rejected", "email", email, "err", err)
		return err
	}

	fmt.Fprintf(a.out, "Signed in as %s\n", s.Email)
	a.view.SetSearchTerm("")
	a.reload(ctx)
	return nil
}

// Logout forgets the session and the loaded roster.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	if err := a.directory.Store().Replace(nil); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out")
	return nil
}
