package monerorpc_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hedisam/monerorpc"
)

func TestParseXMR(t *testing.T) {
	tests := map[string]struct {
		input       string
		expected    monerorpc.Amount
		errContains string
	}{
		"whole":               {input: "2", expected: 2 * monerorpc.PiconeroPerXMR},
		"fraction":            {input: "1.25", expected: 1_250_000_000_000},
		"one piconero":        {input: "0.000000000001", expected: 1},
		"trailing zeros":      {input: "0.100000000000000", expected: 100_000_000_000},
		"largest":             {input: "18446744.073709551615", expected: monerorpc.Amount(^uint64(0))},
		"finer than piconero": {input: "0.0000000000001", errContains: "decimal places"},
		"negative":            {input: "-1", errContains: "negative"},
		"overflow":            {input: "18446744.073709551616", errContains: "overflows"},
		"not a number":        {input: "one", errContains: "invalid argument"},
		"huge exponent":       {input: "1e1000000000", errContains: "overflows"},
		"largest exponent":    {input: "1e2147483647", errContains: "overflows"},
		"tiny exponent":       {input: "1e-1000000000", errContains: "decimal places"},
		"zero with exponent":  {input: "0e1000000000", expected: 0},
		"exponent at the max": {input: "1.8e7", expected: 18_000_000 * monerorpc.PiconeroPerXMR},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			amount, err := monerorpc.ParseXMR(test.input)
			if test.errContains != "" {
				assert.ErrorIs(t, err, monerorpc.ErrInvalidArgument)
				assert.ErrorContains(t, err, test.errContains)
				assert.Less(t, len(err.Error()), 200)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expected, amount)
		})
	}
}

func TestAmountXMR(t *testing.T) {
	amount := monerorpc.Amount(1_250_000_000_001)
	assert.True(t, decimal.RequireFromString("1.250000000001").Equal(amount.XMR()))
	assert.Equal(t, uint64(1_250_000_000_001), amount.Piconero())
	assert.Equal(t, "1.250000000001 XMR", amount.String())
	assert.Equal(t, "0.000000000000 XMR", monerorpc.Amount(0).String())

	back, err := monerorpc.AmountFromXMR(amount.XMR())
	require.NoError(t, err)
	assert.Equal(t, amount, back)
}
