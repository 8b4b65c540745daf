package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/carrental-client/internal/client/currency"
)

// Cars lists the cars free between from and to, priced in the selected
// currency.
func (a *App) Cars(ctx context.Context, from, to string) error {
	cars, err := a.catalog.AvailableCars(ctx, from, to, a.currency.Current())
	if err != nil {
		return err
	}
	if len(cars) == 0 {
		fmt.Fprintln(a.out, "No cars available for these dates.")
		return nil
	}

	for _, c := range cars {
		gear := "manual"
		if c.Automatic {
			gear = "automatic"
		}
		fmt.Fprintf(a.out, "%s  %s %s (%d, %s)  %s%.2f/day  %s\n",
			c.ID, c.Make, c.Model, c.Year, gear,
			currency.SymbolOf(c.Currency), c.PricePerDay, c.PickupLocation)
	}
	return nil
}

// Bookings lists the logged-in user's bookings.
func (a *App) Bookings(ctx context.Context) error {
	bookings, err := a.catalog.MyBookings(ctx)
	if err != nil {
		return err
	}
	if len(bookings) == 0 {
		fmt.Fprintln(a.out, "No bookings.")
		return nil
	}

	for _, b := range bookings {
		fmt.Fprintf(a.out, "%s  car %s  %s -> %s  %s%.2f\n",
			b.ID, b.CarID, b.StartDate, b.EndDate,
			currency.SymbolOf(b.Currency), b.TotalCost)
	}
	return nil
}
