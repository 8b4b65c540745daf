package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/carrental-client/internal/client/currency"
)

// Currency prints the selected currency, or switches to code when given.
func (a *App) Currency(ctx context.Context, code string) error {
	if code != "" {
		if err := a.currency.Set(ctx, code); err != nil {
			return err
		}
	}
	fmt.Fprintf(a.out, "Currency: %s (%s)\n", a.currency.Current(), a.currency.Symbol())
	if code == "" {
		fmt.Fprintf(a.out, "Available: %s\n", strings.Join(currency.Codes(), ", "))
	}
	return nil
}
