package rsa

import (
	"errors"
	"io"
	"math/big"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/parity-oracle/internal/hash"
	"github.com/taurusgroup/parity-oracle/pkg/math/arith"
)

var (
	ErrMessageTooLarge = errors.New("rsa: message is not smaller than the modulus")
	ErrNilCiphertext   = errors.New("rsa: nil ciphertext")
)

// PublicKey is a textbook RSA public key (N, e).
//
// Encryption is deterministic and unpadded, hence multiplicative:
// Enc(m₁)⋅Enc(m₂) = Enc(m₁⋅m₂ mod N).
type PublicKey struct {
	n *arith.Modulus
	e *saferith.Nat
}

// NewPublicKey returns the public key (n, e). n is not copied.
func NewPublicKey(n *saferith.Modulus, e uint64) *PublicKey {
	return &PublicKey{
		n: arith.ModulusFromN(n),
		e: new(saferith.Nat).SetUint64(e),
	}
}

// Enc returns mᵉ (mod N). m is reduced mod N first.
func (pk *PublicKey) Enc(m *saferith.Nat) *saferith.Nat {
	return pk.n.Exp(pk.n.Reduce(m), pk.e)
}

// EncBytes interprets msg as a big-endian integer and encrypts it.
// It fails if that integer is not smaller than N.
func (pk *PublicKey) EncBytes(msg []byte) (*saferith.Nat, error) {
	m := arith.NatFromBytes(msg)
	if _, _, lt := m.CmpMod(pk.n.Modulus); lt != 1 {
		return nil, ErrMessageTooLarge
	}
	return pk.Enc(m), nil
}

// N returns the modulus of the public key.
// WARNING: Do not modify the returned value.
func (pk *PublicKey) N() *arith.Modulus {
	return pk.n
}

// NBig returns a copy of N as a big.Int.
func (pk *PublicKey) NBig() *big.Int {
	return pk.n.Big()
}

// E returns the public exponent.
func (pk *PublicKey) E() uint64 {
	return pk.e.Big().Uint64()
}

// BitLen returns the number of bits of N.
func (pk *PublicKey) BitLen() int {
	return pk.n.BitLen()
}

// Equal returns true if pk and other are the same key.
func (pk *PublicKey) Equal(other *PublicKey) bool {
	return pk.n.Equal(other.n) && pk.E() == other.E()
}

// WriteTo implements io.WriterTo and should be used within the hash.Hash function.
func (pk *PublicKey) WriteTo(w io.Writer) (int64, error) {
	total := int64(0)
	for _, b := range [][]byte{pk.n.Bytes(), pk.e.Big().Bytes()} {
		n, err := w.Write(b)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Domain implements hash.WriterToWithDomain, and separates this type within hash.Hash.
func (*PublicKey) Domain() string {
	return "RSA PublicKey"
}

// Fingerprint returns a short identifier of the key, suitable for logs.
func (pk *PublicKey) Fingerprint() string {
	f, err := hash.Fingerprint("RSA Fingerprint", pk)
	if err != nil {
		panic(err)
	}
	return f
}
