package bisection

import (
	"errors"
	"fmt"
)

var (
	// ErrOracle is returned when the oracle fails to answer a query.
	ErrOracle = errors.New("bisection: oracle failure")
	// ErrInterval is returned when the search interval no longer satisfies 0 ≤ low ≤ high ≤ 1.
	// This means the oracle lied, or the interval arithmetic is broken.
	ErrInterval = errors.New("bisection: interval invariant violated")
	// ErrNilCiphertext is returned when an attack is started without a ciphertext.
	ErrNilCiphertext = errors.New("bisection: nil ciphertext")
)

// Error records the round in which an attack failed.
type Error struct {
	// Round is the 0-based index of the failing round.
	Round int
	// Err is the underlying error
	Err error
}

func (e Error) Error() string {
	return fmt.Sprintf("round %d: %s", e.Round, e.Err)
}

func (e Error) Unwrap() error {
	return e.Err
}
