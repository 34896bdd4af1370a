// Package interval tracks the bisection search interval of the parity oracle attack.
//
// Bounds are fractions of the modulus n, stored as exact rationals.
// After k halvings the width is 2⁻ᵏ, which floating point cannot represent
// relative to n once k exceeds the 53 bits of a float64 mantissa.
package interval

import (
	"errors"
	"fmt"
	"math/big"
)

// ErrInverted is returned when an interval violates 0 ≤ low ≤ high ≤ 1.
var ErrInverted = errors.New("interval: bounds violate 0 ≤ low ≤ high ≤ 1")

var (
	zero = big.NewRat(0, 1)
	one  = big.NewRat(1, 1)
	half = big.NewRat(1, 2)
)

// Interval is [low⋅n, high⋅n), with low and high fractions of n.
//
// The zero value is not usable, use New.
type Interval struct {
	low, high *big.Rat
}

// New returns the full interval [0, 1).
func New() *Interval {
	return &Interval{
		low:  new(big.Rat).Set(zero),
		high: new(big.Rat).Set(one),
	}
}

// Low returns a copy of the lower bound.
func (iv *Interval) Low() *big.Rat {
	return new(big.Rat).Set(iv.low)
}

// High returns a copy of the upper bound.
func (iv *Interval) High() *big.Rat {
	return new(big.Rat).Set(iv.high)
}

// Width returns high - low.
func (iv *Interval) Width() *big.Rat {
	return new(big.Rat).Sub(iv.high, iv.low)
}

// Mid returns low + (high - low)/2.
func (iv *Interval) Mid() *big.Rat {
	mid := iv.Width()
	mid.Mul(mid, half)
	return mid.Add(mid, iv.low)
}

// Halve keeps the lower half of the interval if lower is true, and the upper half otherwise.
func (iv *Interval) Halve(lower bool) {
	mid := iv.Mid()
	if lower {
		iv.high = mid
	} else {
		iv.low = mid
	}
}

// Validate checks 0 ≤ low ≤ high ≤ 1.
func (iv *Interval) Validate() error {
	if iv.low.Sign() < 0 || iv.low.Cmp(iv.high) > 0 || iv.high.Cmp(one) > 0 {
		return fmt.Errorf("low = %s, high = %s: %w", iv.low.RatString(), iv.high.RatString(), ErrInverted)
	}
	return nil
}

// Floor returns ⌊r⋅n⌋ for a non-negative fraction r.
func Floor(r *big.Rat, n *big.Int) *big.Int {
	scaled := new(big.Rat).SetInt(n)
	scaled.Mul(scaled, r)
	// both are non-negative, so truncation is the floor
	return new(big.Int).Quo(scaled.Num(), scaled.Denom())
}

// Upper returns ⌊high⋅n⌋, the current best guess of the plaintext.
func (iv *Interval) Upper(n *big.Int) *big.Int {
	return Floor(iv.high, n)
}

func (iv *Interval) String() string {
	return fmt.Sprintf("[%s, %s)", iv.low.RatString(), iv.high.RatString())
}
