// Package services contains application services for the car rental client.
// This file defines the authentication service: login, registration, logout
// and revalidation of the stored session against the user service.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/carrental-client/internal/client/api"
	"github.com/dmitrijs2005/carrental-client/internal/client/metrics"
	"github.com/dmitrijs2005/carrental-client/internal/client/session"
	"github.com/dmitrijs2005/carrental-client/internal/logging"
	"golang.org/x/sync/singleflight"
)

// DefaultUserRole is the role assigned to self-registered accounts.
const DefaultUserRole = "USER"

var (
	ErrMissingCredentials = fmt.Errorf("username and password are required: %w", api.ErrValidation)
	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", api.ErrUnauthorized)
	ErrLoginFailed        = fmt.Errorf("login failed: %w", api.ErrService)
	ErrRegistrationFailed = fmt.Errorf("registration failed: %w", api.ErrService)
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: check credentials remotely and start a session.
//   - Register: create a new account; does not log in.
//   - Logout: end the session locally.
//   - ValidateSession: confirm the stored session with the user service.
//     Any remote failure ends the session; the caller only sees a nil profile.
//   - Boot: ValidateSession once at start-up, errors logged.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*session.Profile, error)
	Register(ctx context.Context, req RegisterRequest) (map[string]any, error)
	Logout(ctx context.Context) error
	ValidateSession(ctx context.Context) (*session.Profile, error)
	Boot(ctx context.Context)
}

// RegisterRequest holds the fields of a new account.
type RegisterRequest struct {
	FirstName string
	LastName  string
	Username  string
	Password  string
}

type authService struct {
	client  api.Client
	session session.Manager
	log     logging.Logger
	metrics *metrics.Auth

	validating singleflight.Group
}

// NewAuthService constructs an AuthService over the given API client and
// session. log and m may be nil.
func NewAuthService(client api.Client, sess session.Manager, log logging.Logger, m *metrics.Auth) AuthService {
	if log == nil {
		log = logging.NewNop()
	}
	return &authService{
		client:  client,
		session: sess,
		log:     log.With("component", "auth"),
		metrics: m,
	}
}

// Login posts username/password to the login endpoint. On 200 the session is
// set to {username, userId}. A 401 yields ErrInvalidCredentials, anything else
// ErrLoginFailed.
func (a *authService) Login(ctx context.Context, username, password string) (*session.Profile, error) {
	if username == "" || password == "" {
		a.log.Warn(ctx, "login rejected", "error", ErrMissingCredentials)
		a.metrics.Login(metrics.OutcomeInvalid)
		return nil, ErrMissingCredentials
	}

	data, err := a.client.Login(ctx, username, password)
	if err != nil {
		if api.StatusCode(err) == http.StatusUnauthorized {
			a.log.Warn(ctx, "login refused", "username", username, "error", err)
			a.metrics.Login(metrics.OutcomeUnauthorized)
			return nil, ErrInvalidCredentials
		}
		a.log.Error(ctx, "login failed", "username", username, "error", err)
		a.metrics.Login(metrics.OutcomeError)
		return nil, fmt.Errorf("%w: %w", ErrLoginFailed, err)
	}

	userID, err := userIDFrom(data)
	if err != nil {
		a.log.Error(ctx, "login response without usable userId", "username", username, "error", err)
		a.metrics.Login(metrics.OutcomeError)
		return nil, fmt.Errorf("%w: %w", ErrLoginFailed, err)
	}

	if err := a.session.SetAuth(ctx, username, password, userID); err != nil {
		a.log.Error(ctx, "saving session failed", "username", username, "error", err)
		a.metrics.Login(metrics.OutcomeError)
		return nil, fmt.Errorf("save session: %w", err)
	}

	a.log.Info(ctx, "logged in", "username", username, "user_id", userID)
	a.metrics.Login(metrics.OutcomeOK)
	return a.session.User(), nil
}

// userIDFrom pulls a positive userId out of a login response.
func userIDFrom(data map[string]any) (int64, error) {
	if _, ok := data[session.FieldUserID]; !ok {
		return 0, errors.New("response has no userId")
	}
	p := session.Profile{}.Merge(data)
	if p.UserID <= 0 {
		return 0, fmt.Errorf("unusable userId %v", data[session.FieldUserID])
	}
	return p.UserID, nil
}

// Register creates the account using the service credential the API client
// was built with. The new user is not logged in.
func (a *authService) Register(ctx context.Context, req RegisterRequest) (map[string]any, error) {
	if req.Username == "" || req.Password == "" {
		a.log.Warn(ctx, "registration rejected", "error", ErrMissingCredentials)
		a.metrics.Register(metrics.OutcomeInvalid)
		return nil, ErrMissingCredentials
	}

	data, err := a.client.CreateUser(ctx, api.CreateUserRequest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Password:  req.Password,
		UserRole:  DefaultUserRole,
	})
	if err != nil {
		a.log.Error(ctx, "registration failed", "username", req.Username, "error", err)
		a.metrics.Register(metrics.OutcomeError)
		return nil, fmt.Errorf("%w: %w", ErrRegistrationFailed, err)
	}

	a.log.Info(ctx, "registered", "username", req.Username)
	a.metrics.Register(metrics.OutcomeOK)
	return data, nil
}

func (a *authService) Logout(ctx context.Context) error {
	if err := a.session.ClearAuth(ctx); err != nil {
		a.log.Error(ctx, "logout failed", "error", err)
		return err
	}
	a.log.Info(ctx, "logged out")
	return nil
}

const validateKey = "validate"

// ValidateSession returns the confirmed profile, or nil when there is no
// valid session. Concurrent calls share one request. Remote and transport
// failures clear the session and are not returned; the error is non-nil
// only when the local store could not be written or ctx ended first.
func (a *authService) ValidateSession(ctx context.Context) (*session.Profile, error) {
	ch := a.validating.DoChan(validateKey, func() (any, error) {
		// Callers may give up; the shared request still settles the session.
		return a.validate(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		p, _ := res.Val.(*session.Profile)
		return p.Clone(), nil
	}
}

// validate checks one snapshot of the session. The session may change while
// the request is out; results are only applied to the credential that was
// checked.
func (a *authService) validate(ctx context.Context) (*session.Profile, error) {
	cred, user := a.session.Snapshot()

	if cred.IsZero() || !a.session.Durable() || user == nil || user.UserID == 0 {
		a.metrics.Validation(metrics.OutcomeNoSession)
		return nil, nil
	}

	data, err := a.client.GetUser(ctx, user.UserID, cred)
	if err != nil {
		if code := api.StatusCode(err); code != 0 {
			a.log.Warn(ctx, "session rejected by user service", "user_id", user.UserID, "status", code, "error", err)
			a.metrics.Validation(metrics.OutcomeRejected)
		} else {
			a.log.Error(ctx, "session validation failed", "user_id", user.UserID, "error", err)
			a.metrics.Validation(metrics.OutcomeError)
		}
		return nil, a.drop(ctx, cred)
	}

	p, err := a.session.ConfirmUser(ctx, cred, data)
	if err != nil {
		a.log.Error(ctx, "saving refreshed profile failed", "user_id", user.UserID, "error", err)
		a.metrics.Validation(metrics.OutcomeError)
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if p == nil {
		a.log.Debug(ctx, "session changed during validation, result discarded", "user_id", user.UserID)
		a.metrics.Validation(metrics.OutcomeSuperseded)
		return nil, nil
	}

	a.metrics.Validation(metrics.OutcomeOK)
	a.log.Debug(ctx, "session validated", "user_id", user.UserID)
	return p, nil
}

func (a *authService) drop(ctx context.Context, cred session.Credential) error {
	cleared, err := a.session.ClearAuthIf(ctx, cred)
	if err != nil {
		a.log.Error(ctx, "clearing session failed", "error", err)
		return fmt.Errorf("clear session: %w", err)
	}
	if !cleared {
		a.log.Debug(ctx, "session changed during validation, kept")
	}
	return nil
}

// Boot revalidates the stored session once at start-up.
func (a *authService) Boot(ctx context.Context) {
	p, err := a.ValidateSession(ctx)
	if err != nil {
		a.log.Error(ctx, "auth initialization failed", "error", err)
		return
	}
	if p == nil {
		a.log.Debug(ctx, "no session at start-up")
		return
	}
	a.log.Info(ctx, "session restored", "username", p.Username, "user_id", p.UserID)
}
