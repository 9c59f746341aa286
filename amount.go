package monerorpc

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// PiconeroPerXMR is the number of atomic units in one XMR.
const PiconeroPerXMR = 1_000_000_000_000

const xmrDecimals = 12

// maxPiconeroDigits is the number of decimal digits of the largest Amount.
const maxPiconeroDigits = 20

// Amount is an exact quantity of piconero, the atomic unit the RPC services use on the wire.
type Amount uint64

// AmountFromXMR converts a decimal XMR quantity into an Amount.
// It fails when the value is negative, is finer than one piconero or overflows 64 bits.
func AmountFromXMR(xmr decimal.Decimal) (Amount, error) {
	if xmr.IsZero() {
		return 0, nil
	}
	if xmr.IsNegative() {
		return 0, fmt.Errorf("%w: negative amount", ErrInvalidArgument)
	}

	// integer digits of the piconero value, checked before any scaling expands the exponent
	if int64(xmr.NumDigits())+int64(xmr.Exponent())+xmrDecimals > maxPiconeroDigits {
		return 0, fmt.Errorf("%w: amount overflows", ErrInvalidArgument)
	}

	pico := xmr.Shift(xmrDecimals)
	if !pico.IsInteger() {
		return 0, fmt.Errorf("%w: amount has more than %d decimal places", ErrInvalidArgument, xmrDecimals)
	}

	n := pico.BigInt()
	if !n.IsUint64() {
		return 0, fmt.Errorf("%w: amount overflows", ErrInvalidArgument)
	}

	return Amount(n.Uint64()), nil
}

// ParseXMR parses a decimal string such as "1.25" into an Amount.
func ParseXMR(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	amount, err := AmountFromXMR(d)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", s, err)
	}
	return amount, nil
}

// XMR returns the amount as an exact decimal number of XMR.
func (a Amount) XMR() decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(uint64(a)), -xmrDecimals)
}

// Piconero returns the amount in atomic units.
func (a Amount) Piconero() uint64 {
	return uint64(a)
}

func (a Amount) String() string {
	return a.XMR().StringFixed(xmrDecimals) + " XMR"
}
