package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/carrental-client/internal/client/api"
	"github.com/dmitrijs2005/carrental-client/internal/client/session"
	"github.com/dmitrijs2005/carrental-client/internal/logging"
)

var (
	ErrInvalidPeriod = fmt.Errorf("rental period must be YYYY-MM-DD dates with from before to: %w", api.ErrValidation)
	ErrNotLoggedIn   = errors.New("not logged in")
)

// CatalogService lists cars and the user's bookings.
type CatalogService interface {
	AvailableCars(ctx context.Context, from, to, currency string) ([]api.Car, error)
	MyBookings(ctx context.Context) ([]api.Booking, error)
}

type catalogService struct {
	client  api.Catalog
	session session.Manager
	log     logging.Logger
}

func NewCatalogService(client api.Catalog, sess session.Manager, log logging.Logger) CatalogService {
	if log == nil {
		log = logging.NewNop()
	}
	return &catalogService{
		client:  client,
		session: sess,
		log:     log.With("component", "catalog"),
	}
}

// AvailableCars lists the cars free between from and to, priced in currency.
func (c *catalogService) AvailableCars(ctx context.Context, from, to, currency string) ([]api.Car, error) {
	start, err1 := time.Parse(time.DateOnly, from)
	end, err2 := time.Parse(time.DateOnly, to)
	if err1 != nil || err2 != nil || !end.After(start) {
		c.log.Warn(ctx, "car search rejected", "from", from, "to", to)
		return nil, ErrInvalidPeriod
	}

	cars, err := c.client.AvailableCars(ctx, api.CarFilter{From: from, To: to, Currency: currency})
	if err != nil {
		c.log.Error(ctx, "listing cars failed", "from", from, "to", to, "error", err)
		return nil, fmt.Errorf("list cars: %w", err)
	}
	return cars, nil
}

// MyBookings lists the bookings of the session's user with the session
// credential.
func (c *catalogService) MyBookings(ctx context.Context) ([]api.Booking, error) {
	cred, user := c.session.Snapshot()
	if cred.IsZero() || user == nil || user.UserID == 0 {
		return nil, ErrNotLoggedIn
	}

	bookings, err := c.client.UserBookings(ctx, user.UserID, cred)
	if err != nil {
		c.log.Error(ctx, "listing bookings failed", "user_id", user.UserID, "error", err)
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}
