package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/dmitrijs2005/carrental-client/internal/client/api"
	"github.com/dmitrijs2005/carrental-client/internal/client/services"
	"github.com/dmitrijs2005/carrental-client/internal/client/session"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for the new account's fields and creates it. The user is
// not logged in afterwards.
func (a *App) Register(ctx context.Context) error {
	var req services.RegisterRequest
	var err error

	prompts := []struct {
		text string
		dst  *string
	}{
		{"Enter first name", &req.FirstName},
		{"Enter last name", &req.LastName},
		{"Enter username", &req.Username},
	}
	for _, p := range prompts {
		if *p.dst, err = getSimpleText(a.reader, p.text, a.out); err != nil {
			return err
		}
	}
	if req.Password, err = getPassword(a.reader, a.out); err != nil {
		return err
	}

	if _, err := a.authService.Register(ctx, req); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Registration successful, you can log in now.")
	return nil
}

// Login authenticates username, prompting for it when empty, and for the
// password.
func (a *App) Login(ctx context.Context, username string) error {
	var err error
	if username == "" {
		if username, err = getSimpleText(a.reader, "Enter username", a.out); err != nil {
			return err
		}
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}

	p, err := a.authService.Login(ctx, username, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Logged in as %s (id %d)\n", p.Username, p.UserID)
	return nil
}

// Logout ends the session.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

// WhoAmI prints the cached profile without contacting the server.
func (a *App) WhoAmI(ctx context.Context) error {
	writeProfile(a.out, a.session.User(), a.session.Status())
	return nil
}

// Validate re-checks the session with the user service and prints the result.
func (a *App) Validate(ctx context.Context) error {
	p, err := a.authService.ValidateSession(ctx)
	if err != nil {
		return err
	}
	if p == nil {
		fmt.Fprintln(a.out, "No valid session.")
		return nil
	}
	writeProfile(a.out, p, a.session.Status())
	return nil
}

func writeProfile(w io.Writer, p *session.Profile, status session.Status) {
	if p == nil {
		fmt.Fprintf(w, "Not logged in (%s).\n", status)
		return
	}
	fmt.Fprintf(w, "Session: %s\n", status)
	fields := p.Map()
	for _, k := range slices.Sorted(maps.Keys(fields)) {
		fmt.Fprintf(w, "  %s: %v\n", k, fields[k])
	}
}

// UserMessage turns an error into the line shown to the user.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrMissingCredentials):
		return "Username and password are required."
	case errors.Is(err, services.ErrInvalidCredentials):
		return "Invalid credentials."
	case errors.Is(err, services.ErrLoginFailed):
		if errors.Is(err, api.ErrUnavailable) {
			return "Login failed: server unavailable."
		}
		return "Login failed."
	case errors.Is(err, services.ErrRegistrationFailed):
		if errors.Is(err, api.ErrUnavailable) {
			return "Registration failed: server unavailable."
		}
		return "Registration failed."
	case errors.Is(err, services.ErrInvalidPeriod):
		return "Dates must be YYYY-MM-DD and the end must be after the start."
	case errors.Is(err, services.ErrNotLoggedIn):
		return "Please log in first."
	case errors.Is(err, api.ErrUnavailable):
		return "Server unavailable."
	case errors.Is(err, io.EOF):
		return "Input closed."
	default:
		return "Error: " + err.Error()
	}
}
