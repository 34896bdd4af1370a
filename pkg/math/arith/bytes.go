package arith

import (
	"math/big"

	"github.com/cronokirby/saferith"
)

// NatToBytes returns the big-endian representation of x, without any leading zero byte.
// Zero is encoded as an empty slice.
func NatToBytes(x *saferith.Nat) []byte {
	return IntToBytes(x.Big())
}

// IntToBytes is NatToBytes for a non-negative big.Int.
func IntToBytes(x *big.Int) []byte {
	b := x.Bytes()
	if b == nil {
		return []byte{}
	}
	return b
}

// NatFromBytes interprets b as a big-endian unsigned integer.
func NatFromBytes(b []byte) *saferith.Nat {
	return new(saferith.Nat).SetBytes(b)
}
