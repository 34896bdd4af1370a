package rsa

import (
	"encoding"
	"errors"
	"math/big"

	"github.com/cronokirby/saferith"
	"github.com/fxamacker/cbor/v2"
)

var (
	_ encoding.BinaryMarshaler   = (*PublicKey)(nil)
	_ encoding.BinaryUnmarshaler = (*PublicKey)(nil)
	_ encoding.BinaryMarshaler   = (*SecretKey)(nil)
	_ encoding.BinaryUnmarshaler = (*SecretKey)(nil)
)

var ErrInvalidModulus = errors.New("rsa: invalid modulus")

type publicKeyMarshal struct {
	N []byte
	E uint64
}

type secretKeyMarshal struct {
	P []byte
	Q []byte
	E uint64
}

// MarshalBinary encodes (N, e) with cbor.
func (pk *PublicKey) MarshalBinary() ([]byte, error) {
	return cbor.Marshal(&publicKeyMarshal{
		N: pk.n.Bytes(),
		E: pk.E(),
	})
}

// UnmarshalBinary decodes a key produced by MarshalBinary.
func (pk *PublicKey) UnmarshalBinary(data []byte) error {
	var pm publicKeyMarshal
	if err := cbor.Unmarshal(data, &pm); err != nil {
		return err
	}
	nBig := new(big.Int).SetBytes(pm.N)
	// an RSA modulus is odd and larger than 1
	if nBig.Bit(0) != 1 || nBig.Cmp(big.NewInt(1)) <= 0 {
		return ErrInvalidModulus
	}
	*pk = *NewPublicKey(saferith.ModulusFromBytes(pm.N), pm.E)
	return nil
}

// MarshalBinary encodes the factors of N and e with cbor.
func (sk *SecretKey) MarshalBinary() ([]byte, error) {
	return cbor.Marshal(&secretKeyMarshal{
		P: sk.p.Big().Bytes(),
		Q: sk.q.Big().Bytes(),
		E: sk.E(),
	})
}

// UnmarshalBinary decodes a key produced by MarshalBinary, recomputing all derived values.
func (sk *SecretKey) UnmarshalBinary(data []byte) error {
	var sm secretKeyMarshal
	if err := cbor.Unmarshal(data, &sm); err != nil {
		return err
	}
	decoded, err := NewSecretKeyFromPrimes(
		new(saferith.Nat).SetBytes(sm.P),
		new(saferith.Nat).SetBytes(sm.Q),
		sm.E,
	)
	if err != nil {
		return err
	}
	*sk = *decoded
	return nil
}
