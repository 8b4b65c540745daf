// Package currency keeps the user's display currency.
package currency

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/dmitrijs2005/carrental-client/internal/client/storage"
	"github.com/dmitrijs2005/carrental-client/internal/logging"
)

// StorageKey is where the selection is persisted.
const StorageKey = "selectedCurrency"

const (
	Default = "USD"

	fallbackSymbol = "€"
)

var ErrUnknownCurrency = errors.New("unknown currency")

var symbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"CHF": "CHF",
	"JPY": "¥",
}

// Codes lists the supported currency codes in alphabetical order.
func Codes() []string {
	out := make([]string, 0, len(symbols))
	for c := range symbols {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Known reports whether code is supported. Matching is case-insensitive.
func Known(code string) bool {
	_, ok := symbols[normalize(code)]
	return ok
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Preference is the selected currency. The zero value is not usable, call New.
type Preference struct {
	mu      sync.RWMutex
	current string
	storage storage.Storage
	log     logging.Logger
}

// New returns a preference set to Default. s may be nil, in which case the
// selection is not persisted.
func New(s storage.Storage, log logging.Logger) *Preference {
	if log == nil {
		log = logging.NewNop()
	}
	return &Preference{
		current: Default,
		storage: s,
		log:     log.With("component", "currency"),
	}
}

// Init picks the starting currency. A non-empty override decides alone: a
// known code is applied and persisted like Set, an unknown one leaves
// Default and the saved value is not read. Without an override the saved
// value is used when known.
func (p *Preference) Init(ctx context.Context, override string) error {
	if override != "" {
		if Known(override) {
			return p.Set(ctx, override)
		}
		p.log.Warn(ctx, "ignoring unknown currency override", "code", override)
		return nil
	}

	if p.storage == nil {
		return nil
	}
	raw, ok, err := p.storage.Get(ctx, StorageKey)
	if err != nil {
		return fmt.Errorf("load currency: %w", err)
	}
	if !ok {
		return nil
	}

	saved := normalize(string(raw))
	if !Known(saved) {
		p.log.Warn(ctx, "saved currency is unknown, keeping default", "code", string(raw))
		return nil
	}

	p.mu.Lock()
	p.current = saved
	p.mu.Unlock()
	return nil
}

// Set switches to code and persists it. Unknown codes leave the selection
// unchanged.
func (p *Preference) Set(ctx context.Context, code string) error {
	code = normalize(code)
	if !Known(code) {
		return fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.storage != nil {
		if err := p.storage.Set(ctx, StorageKey, []byte(code)); err != nil {
			return fmt.Errorf("save currency: %w", err)
		}
	}
	p.current = code
	return nil
}

func (p *Preference) Current() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// Symbol returns the display symbol of the current currency.
func (p *Preference) Symbol() string {
	return SymbolOf(p.Current())
}

// SymbolOf returns the symbol for code, or "€" when code is unknown.
func SymbolOf(code string) string {
	if s, ok := symbols[normalize(code)]; ok {
		return s
	}
	return fallbackSymbol
}
