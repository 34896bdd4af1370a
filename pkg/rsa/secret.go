package rsa

import (
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/parity-oracle/internal/params"
	"github.com/taurusgroup/parity-oracle/pkg/math/arith"
	"github.com/taurusgroup/parity-oracle/pkg/math/sample"
	"github.com/taurusgroup/parity-oracle/pkg/pool"
)

var (
	ErrKeySize        = fmt.Errorf("rsa: modulus size must be even and at least %d bits", params.MinBitsRSA)
	ErrPrimeNil       = errors.New("rsa: prime is nil")
	ErrPrimesEqual    = errors.New("rsa: prime factors must be distinct")
	ErrExponentNotInv = errors.New("rsa: public exponent is not invertible mod ϕ(N)")
)

// SecretKey is an RSA secret key.
//
// It keeps the factors of N, so that decryption can use the CRT.
type SecretKey struct {
	*PublicKey
	// p, q such that N = p⋅q
	p, q *saferith.Nat
	// d = e⁻¹ (mod ϕ(N))
	d *saferith.Nat
	// dp = d (mod p-1), dq = d (mod q-1)
	dp, dq *saferith.Nat
	// crt is N together with its factorization
	crt *arith.Modulus
}

// KeyGen generates a fresh key pair with a modulus of the given size and exponent params.E.
func KeyGen(rand io.Reader, pl *pool.Pool, bits int) (*PublicKey, *SecretKey, error) {
	if bits < params.MinBitsRSA || bits%2 != 0 {
		return nil, nil, ErrKeySize
	}
	p, q, err := sample.RSA(rand, pl, bits, params.E)
	if err != nil {
		return nil, nil, fmt.Errorf("rsa: keygen: %w", err)
	}
	sk, err := NewSecretKeyFromPrimes(p, q, params.E)
	if err != nil {
		return nil, nil, err
	}
	return sk.PublicKey, sk, nil
}

// NewSecretKeyFromPrimes returns the secret key for N = p⋅q and public exponent e.
// p and q are assumed to be prime.
func NewSecretKeyFromPrimes(p, q *saferith.Nat, e uint64) (*SecretKey, error) {
	if p == nil || q == nil {
		return nil, ErrPrimeNil
	}
	if p.Big().Cmp(q.Big()) == 0 {
		return nil, ErrPrimesEqual
	}

	one := big.NewInt(1)
	pMinus1 := new(big.Int).Sub(p.Big(), one)
	qMinus1 := new(big.Int).Sub(q.Big(), one)
	phi := new(big.Int).Mul(pMinus1, qMinus1)

	// ϕ(N) is even, so this is done with math/big rather than saferith,
	// which requires odd moduli for inversion.
	dBig := new(big.Int).ModInverse(new(big.Int).SetUint64(e), phi)
	if dBig == nil {
		return nil, ErrExponentNotInv
	}
	crt := arith.ModulusFromFactors(p, q)

	return &SecretKey{
		PublicKey: &PublicKey{
			n: arith.ModulusFromN(crt.Modulus),
			e: new(saferith.Nat).SetUint64(e),
		},
		p:   new(saferith.Nat).SetNat(p),
		q:   new(saferith.Nat).SetNat(q),
		d:   new(saferith.Nat).SetBig(dBig, phi.BitLen()),
		dp:  new(saferith.Nat).SetBig(new(big.Int).Mod(dBig, pMinus1), pMinus1.BitLen()),
		dq:  new(saferith.Nat).SetBig(new(big.Int).Mod(dBig, qMinus1), qMinus1.BitLen()),
		crt: crt,
	}, nil
}

// P returns the first of the two factors composing this key.
func (sk *SecretKey) P() *saferith.Nat {
	return sk.p
}

// Q returns the second of the two factors composing this key.
func (sk *SecretKey) Q() *saferith.Nat {
	return sk.q
}

// D returns the private exponent.
func (sk *SecretKey) D() *saferith.Nat {
	return sk.d
}

// Dec returns cᵈ (mod N). c is reduced mod N first.
func (sk *SecretKey) Dec(c *saferith.Nat) (*saferith.Nat, error) {
	if c == nil {
		return nil, ErrNilCiphertext
	}
	return sk.crt.ExpCRT(sk.crt.Reduce(c), sk.dp, sk.dq), nil
}

// DecBytes decrypts c and returns the plaintext without leading zero bytes.
func (sk *SecretKey) DecBytes(c *saferith.Nat) ([]byte, error) {
	m, err := sk.Dec(c)
	if err != nil {
		return nil, err
	}
	return arith.NatToBytes(m), nil
}
