// Package oracle implements the parity oracle: given an RSA ciphertext,
// it answers whether the corresponding plaintext is even, and nothing else.
package oracle

import (
	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/parity-oracle/pkg/rsa"
)

// Oracle answers parity queries about the decryption of ciphertexts.
type Oracle interface {
	// IsPlaintextEven returns true if the decryption of c is even.
	IsPlaintextEven(c *saferith.Nat) (bool, error)
}

// Parity is an Oracle holding an RSA secret key.
type Parity struct {
	sk *rsa.SecretKey
}

// New returns a parity oracle for sk.
func New(sk *rsa.SecretKey) *Parity {
	return &Parity{sk: sk}
}

// IsPlaintextEven decrypts c and returns whether the lowest bit of the plaintext is 0.
// Decryption errors are returned unchanged.
func (o *Parity) IsPlaintextEven(c *saferith.Nat) (bool, error) {
	m, err := o.sk.Dec(c)
	if err != nil {
		return false, err
	}
	return m.Byte(0)&1 == 0, nil
}

// PublicKey returns the public key matching the oracle's secret key.
func (o *Parity) PublicKey() *rsa.PublicKey {
	return o.sk.PublicKey
}

// Func adapts a function to the Oracle interface.
type Func func(c *saferith.Nat) (bool, error)

// IsPlaintextEven implements Oracle.
func (f Func) IsPlaintextEven(c *saferith.Nat) (bool, error) {
	return f(c)
}
