package rsa

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/parity-oracle/internal/params"
	"github.com/taurusgroup/parity-oracle/pkg/math/sample"
	"github.com/taurusgroup/parity-oracle/pkg/pool"
)

func nat(x uint64) *saferith.Nat {
	return new(saferith.Nat).SetUint64(x)
}

func TestTextbookKey(t *testing.T) {
	sk, err := NewSecretKeyFromPrimes(nat(61), nat(53), 17)
	require.NoError(t, err)
	pk := sk.PublicKey

	assert.Equal(t, int64(3233), pk.NBig().Int64())
	assert.Equal(t, uint64(17), pk.E())
	assert.Equal(t, int64(2753), sk.D().Big().Int64())

	c := pk.Enc(nat(65))
	assert.Equal(t, int64(2790), c.Big().Int64())
	m, err := sk.Dec(c)
	require.NoError(t, err)
	assert.Equal(t, int64(65), m.Big().Int64())

	// out of range ciphertexts are reduced mod N
	m, err = sk.Dec(nat(2790 + 3233))
	require.NoError(t, err)
	assert.Equal(t, int64(65), m.Big().Int64())
}

func TestNewSecretKeyFromPrimes(t *testing.T) {
	_, err := NewSecretKeyFromPrimes(nil, nat(53), 17)
	assert.ErrorIs(t, err, ErrPrimeNil)
	_, err = NewSecretKeyFromPrimes(nat(53), nat(53), 17)
	assert.ErrorIs(t, err, ErrPrimesEqual)
	// ϕ = 6⋅10 is divisible by 3
	_, err = NewSecretKeyFromPrimes(nat(7), nat(11), 3)
	assert.ErrorIs(t, err, ErrExponentNotInv)
}

func TestKeyGen(t *testing.T) {
	pl := pool.NewPool(0)
	defer pl.TearDown()

	for _, bits := range []int{params.MinBitsRSA, 64, 512} {
		pk, sk, err := KeyGen(rand.Reader, pl, bits)
		require.NoError(t, err)
		assert.Equal(t, bits, pk.BitLen())
		assert.Equal(t, uint64(params.E), pk.E())
		assert.True(t, pk.Equal(sk.PublicKey))

		n := new(big.Int).Mul(sk.P().Big(), sk.Q().Big())
		assert.Equal(t, 0, n.Cmp(pk.NBig()))

		for i := 0; i < 10; i++ {
			m := sample.ModN(rand.Reader, pk.N().Modulus)
			c := pk.Enc(m)
			got, err := sk.Dec(c)
			require.NoError(t, err)
			assert.Equal(t, 0, m.Big().Cmp(got.Big()), "decryption must invert encryption")
		}
	}

	for _, bits := range []int{0, params.MinBitsRSA - 2, 65} {
		_, _, err := KeyGen(rand.Reader, nil, bits)
		assert.ErrorIs(t, err, ErrKeySize)
	}
}

func TestHomomorphicDoubling(t *testing.T) {
	r := mrand.New(mrand.NewSource(0))
	pk, sk, err := KeyGen(r, nil, 256)
	require.NoError(t, err)

	two := pk.Enc(nat(2))
	m := sample.ModN(r, pk.N().Modulus)
	c := pk.Enc(m)
	for i := 0; i < 20; i++ {
		c = pk.N().Mul(c, two)
		m = pk.N().Mul(m, nat(2))
		got, err := sk.Dec(c)
		require.NoError(t, err)
		require.Equal(t, 0, m.Big().Cmp(got.Big()), "Enc(m)⋅Enc(2) must decrypt to 2m (mod N)")
	}
}

func TestEncBytes(t *testing.T) {
	r := mrand.New(mrand.NewSource(1))
	pk, sk, err := KeyGen(r, nil, params.BitsRSA)
	require.NoError(t, err)

	msg := []byte("That's why I found you don't play around with the Funky Cold Medina")
	c, err := pk.EncBytes(msg)
	require.NoError(t, err)
	got, err := sk.DecBytes(c)
	require.NoError(t, err)
	assert.Equal(t, msg, got)

	_, err = pk.EncBytes(pk.N().Bytes())
	assert.ErrorIs(t, err, ErrMessageTooLarge)
	tooLong := make([]byte, params.BytesRSA+1)
	tooLong[0] = 1
	_, err = pk.EncBytes(tooLong)
	assert.ErrorIs(t, err, ErrMessageTooLarge)

	_, err = sk.Dec(nil)
	assert.ErrorIs(t, err, ErrNilCiphertext)
}

func TestMarshal(t *testing.T) {
	r := mrand.New(mrand.NewSource(2))
	pk, sk, err := KeyGen(r, nil, 128)
	require.NoError(t, err)

	data, err := pk.MarshalBinary()
	require.NoError(t, err)
	var pk2 PublicKey
	require.NoError(t, pk2.UnmarshalBinary(data))
	assert.True(t, pk.Equal(&pk2), "different pk after unmarshal")
	assert.Equal(t, pk.Fingerprint(), pk2.Fingerprint())

	data, err = sk.MarshalBinary()
	require.NoError(t, err)
	var sk2 SecretKey
	require.NoError(t, sk2.UnmarshalBinary(data))
	assert.True(t, sk.PublicKey.Equal(sk2.PublicKey))
	assert.Equal(t, 0, sk.D().Big().Cmp(sk2.D().Big()))

	even, err := cbor.Marshal(&publicKeyMarshal{N: []byte{4}, E: 3})
	require.NoError(t, err)
	assert.ErrorIs(t, pk2.UnmarshalBinary(even), ErrInvalidModulus)
	assert.Error(t, pk2.UnmarshalBinary([]byte{0xff}))
}

func TestFingerprint(t *testing.T) {
	sk1, err := NewSecretKeyFromPrimes(nat(61), nat(53), 17)
	require.NoError(t, err)
	sk2, err := NewSecretKeyFromPrimes(nat(61), nat(53), 7)
	require.NoError(t, err)
	assert.Len(t, sk1.Fingerprint(), 16)
	assert.NotEqual(t, sk1.Fingerprint(), sk2.Fingerprint())
}
