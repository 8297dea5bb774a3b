/*
currency.go - Currency conversion collaborator

PURPOSE:
  Converts a monetary amount between currencies as of a given date. The
  resolver treats conversion as an external collaborator: a missing rate is
  surfaced as a distinct, operator-actionable resolution failure, never a
  silent identity conversion.

IMPLEMENTATIONS:
  - RateTable (this file): in-memory date-effective rate table, used in
    tests and dev mode
  - store/sqlite: exchange_rates table with the same selection rule

RATE SELECTION:
  For a (from, to) pair the latest rate whose effective date is not after
  asOf wins. When no direct rate exists, the inverse pair is tried and
  reciprocated, so a single USD->EUR entry also serves EUR->USD.
*/
package rates

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/warp/staffing-engine/staffing"
)

// ErrNoExchangeRate is returned by converters when no rate is on file for
// the pair as of the requested date. The resolver wraps it into a
// ResolutionError with code currency_unavailable.
var ErrNoExchangeRate = errors.New("no exchange rate on file")

// CurrencyConverter converts an amount between currencies as of a date.
type CurrencyConverter interface {
	Convert(ctx context.Context, amount decimal.Decimal, from, to string, asOf staffing.Date) (decimal.Decimal, error)
}

// =============================================================================
// EXCHANGE RATE
// =============================================================================

// ExchangeRate is a date-effective conversion rate between two currencies.
type ExchangeRate struct {
	From          string
	To            string
	Rate          decimal.Decimal
	DateEffective staffing.Date
}

// =============================================================================
// RATE TABLE - In-memory CurrencyConverter
// =============================================================================

// RateTable is a thread-safe in-memory CurrencyConverter.
type RateTable struct {
	mu    sync.RWMutex
	rates map[pair][]ExchangeRate // sorted by DateEffective ascending
}

type pair struct{ from, to string }

func NewRateTable() *RateTable {
	return &RateTable{rates: make(map[pair][]ExchangeRate)}
}

// Add registers a rate. Entries for the same pair may carry different
// effective dates; the latest one not after asOf is used at conversion time.
func (rt *RateTable) Add(rate ExchangeRate) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	k := pair{from: rate.From, to: rate.To}
	entries := append(rt.rates[k], rate)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].DateEffective.Before(entries[j].DateEffective)
	})
	rt.rates[k] = entries
}

func (rt *RateTable) Convert(_ context.Context, amount decimal.Decimal, from, to string, asOf staffing.Date) (decimal.Decimal, error) {
	if from == to {
		return amount, nil
	}

	rt.mu.RLock()
	defer rt.mu.RUnlock()

	if r, ok := rt.lookup(from, to, asOf); ok {
		return amount.Mul(r), nil
	}
	// Inverse fallback: reciprocate the opposite pair.
	if r, ok := rt.lookup(to, from, asOf); ok && !r.IsZero() {
		return amount.Div(r), nil
	}
	return decimal.Zero, fmt.Errorf("%s->%s as of %s: %w", from, to, asOf, ErrNoExchangeRate)
}

// lookup returns the latest rate for the pair effective on or before asOf.
func (rt *RateTable) lookup(from, to string, asOf staffing.Date) (decimal.Decimal, bool) {
	entries := rt.rates[pair{from: from, to: to}]
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].DateEffective.BeforeOrEqual(asOf) {
			return entries[i].Rate, true
		}
	}
	return decimal.Zero, false
}
