package sample

import (
	"errors"
	"io"
	"math"
	"math/big"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/parity-oracle/internal/params"
	"github.com/taurusgroup/parity-oracle/pkg/pool"
)

// trialPrimes contains the first odd primes, used to discard most candidates
// before running Miller-Rabin.
var trialPrimes = []uint64{
	3, 5, 7, 11, 13, 17, 19, 23,
	29, 31, 37, 41, 43, 47, 53, 59,
	61, 67, 71, 73, 79, 83, 89, 97,
	101, 103, 107, 109, 113, 127, 131, 137,
	139, 149, 151, 157, 163, 167, 173, 179,
	181, 191, 193, 197, 199, 211, 223, 227,
	229, 233, 239, 241, 251, 257, 263, 269,
	271, 277, 281, 283, 293, 307, 311, 313,
	317, 331, 337, 347, 349, 353, 359, 367,
	373, 379, 383, 389, 397, 401, 409, 419,
	421, 431, 433, 439, 443, 449, 457, 461,
	463, 467, 479, 487, 491, 499, 503, 509,
}

// maxDelta bounds how far from the random starting point we look for a prime.
const maxDelta = 1 << 20

var ErrPrimeTooSmall = errors.New("sample: prime size must be at least 4 bits")

// candidate returns a random odd number of exactly bits bits, with its two
// most significant bits set, so that the product of two such numbers has
// exactly 2⋅bits bits.
func candidate(rand io.Reader, bits int) *big.Int {
	lastBits := uint(bits % 8)
	if lastBits == 0 {
		lastBits = 8
	}
	buf := make([]byte, (bits+7)/8)
	mustReadBits(rand, buf)
	buf[0] &= uint8(int(1<<lastBits) - 1)
	if lastBits >= 2 {
		buf[0] |= 0b11 << (lastBits - 2)
	} else {
		buf[0] |= 1
		buf[1] |= 0b1000_0000
	}
	buf[len(buf)-1] |= 1
	return new(big.Int).SetBytes(buf)
}

// tryPrime makes a single attempt at finding a prime p of the given size,
// such that gcd(p-1, e) = 1.
//
// It starts from a random candidate and walks upwards, skipping numbers
// with a small factor.
func tryPrime(rand io.Reader, bits int, e uint64) (*saferith.Nat, bool) {
	p := candidate(rand, bits)
	scratch := new(big.Int)

	// small primes below the lower bound of our candidates cannot be equal to them
	lowerBound := uint64(math.MaxUint64)
	if bits-1 < 64 {
		lowerBound = uint64(1) << uint(bits-1)
	}
	mods := make([]uint64, 0, len(trialPrimes))
	for _, prime := range trialPrimes {
		if prime >= lowerBound {
			break
		}
		scratch.SetUint64(prime)
		mods = append(mods, scratch.Mod(p, scratch).Uint64())
	}

NextDelta:
	for delta := uint64(0); delta < maxDelta; delta += 2 {
		for i, m := range mods {
			if (m+delta)%trialPrimes[i] == 0 {
				continue NextDelta
			}
		}
		q := new(big.Int).Add(p, scratch.SetUint64(delta))
		if q.BitLen() != bits {
			return nil, false
		}
		// e must be invertible mod (p-1); e is prime, so p ≢ 1 (mod e) suffices.
		if new(big.Int).Mod(q, scratch.SetUint64(e)).Uint64() == 1 {
			continue
		}
		if !q.ProbablyPrime(params.PrimalityIterations) {
			continue
		}
		return new(saferith.Nat).SetBig(q, bits), true
	}
	return nil, false
}

// Prime returns a random prime p of exactly bits bits, with p ≢ 1 (mod e).
func Prime(rand io.Reader, bits int, e uint64) (*saferith.Nat, error) {
	if bits < 4 {
		return nil, ErrPrimeTooSmall
	}
	for {
		if p, ok := tryPrime(rand, bits, e); ok {
			return p, nil
		}
	}
}

// RSA generates the two distinct prime factors of an RSA modulus of the given size.
// Both primes have bits/2 bits, and e is invertible mod (p-1)(q-1).
//
// The primes are searched for concurrently on pl.
func RSA(rand io.Reader, pl *pool.Pool, bits int, e uint64) (p, q *saferith.Nat, err error) {
	if bits/2 < 4 {
		return nil, nil, ErrPrimeTooSmall
	}
	reader := pool.NewLockedReader(rand)
	for {
		primes := pool.Search(pl, 2, func() (*saferith.Nat, bool) {
			return tryPrime(reader, bits/2, e)
		})
		p, q = primes[0], primes[1]
		if p.Big().Cmp(q.Big()) != 0 {
			return p, q, nil
		}
	}
}
