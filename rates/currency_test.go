package rates_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/staffing-engine/rates"
	"github.com/warp/staffing-engine/staffing"
)

func TestRateTable_DateEffectiveSelection(t *testing.T) {
	// GIVEN: Two USD->EUR rates, effective Jan 1 (0.9) and May 1 (0.95)
	// WHEN: Converting as of March and as of June
	// THEN: Each conversion uses the latest rate not after its as-of date

	table := rates.NewRateTable()
	table.Add(rates.ExchangeRate{
		From: "USD", To: "EUR",
		Rate:          staffing.MustParseDecimal("0.9"),
		DateEffective: staffing.NewDate(2025, time.January, 1),
	})
	table.Add(rates.ExchangeRate{
		From: "USD", To: "EUR",
		Rate:          staffing.MustParseDecimal("0.95"),
		DateEffective: staffing.NewDate(2025, time.May, 1),
	})

	ctx := context.Background()
	amount := staffing.MustParseDecimal("100")

	march, err := table.Convert(ctx, amount, "USD", "EUR", staffing.NewDate(2025, time.March, 15))
	require.NoError(t, err)
	assert.True(t, march.Equal(staffing.MustParseDecimal("90")), "got %s", march)

	june, err := table.Convert(ctx, amount, "USD", "EUR", staffing.NewDate(2025, time.June, 15))
	require.NoError(t, err)
	assert.True(t, june.Equal(staffing.MustParseDecimal("95")), "got %s", june)
}

func TestRateTable_NoRateBeforeAsOf(t *testing.T) {
	// GIVEN: A rate effective May 1 only
	// WHEN: Converting as of March
	// THEN: ErrNoExchangeRate

	table := rates.NewRateTable()
	table.Add(rates.ExchangeRate{
		From: "USD", To: "EUR",
		Rate:          staffing.MustParseDecimal("0.95"),
		DateEffective: staffing.NewDate(2025, time.May, 1),
	})

	_, err := table.Convert(context.Background(), staffing.MustParseDecimal("100"), "USD", "EUR", staffing.NewDate(2025, time.March, 1))
	require.Error(t, err)
	assert.ErrorIs(t, err, rates.ErrNoExchangeRate)
}

func TestRateTable_InverseFallback(t *testing.T) {
	// GIVEN: Only a USD->EUR rate of 0.8 on file
	// WHEN: Converting EUR->USD
	// THEN: The reciprocal applies: 80 EUR -> 100 USD

	table := rates.NewRateTable()
	table.Add(rates.ExchangeRate{
		From: "USD", To: "EUR",
		Rate:          staffing.MustParseDecimal("0.8"),
		DateEffective: staffing.NewDate(2025, time.January, 1),
	})

	out, err := table.Convert(context.Background(), staffing.MustParseDecimal("80"), "EUR", "USD", staffing.NewDate(2025, time.June, 1))
	require.NoError(t, err)
	assert.True(t, out.Equal(staffing.MustParseDecimal("100")), "got %s", out)
}

func TestRateTable_SameCurrencyIdentity(t *testing.T) {
	table := rates.NewRateTable()

	out, err := table.Convert(context.Background(), staffing.MustParseDecimal("42.5"), "USD", "USD", staffing.NewDate(2025, time.June, 1))
	require.NoError(t, err)
	assert.True(t, out.Equal(staffing.MustParseDecimal("42.5")))
}
