package sample

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/parity-oracle/internal/params"
	"github.com/taurusgroup/parity-oracle/pkg/pool"
)

func TestModN(t *testing.T) {
	n := saferith.ModulusFromUint64(3 * 11 * 65519)
	for i := 0; i < 20; i++ {
		x := ModN(rand.Reader, n)
		_, _, lt := x.CmpMod(n)
		assert.Equal(t, saferith.Choice(1), lt, "ModN generated a number >= n")
	}
}

func TestUnitModN(t *testing.T) {
	n := saferith.ModulusFromUint64(3 * 11 * 65519)
	for i := 0; i < 20; i++ {
		u := UnitModN(rand.Reader, n)
		gcd := new(big.Int).GCD(nil, nil, u.Big(), n.Big())
		assert.Equal(t, int64(1), gcd.Int64())
	}
}

func TestPrime(t *testing.T) {
	r := mrand.New(mrand.NewSource(0))
	for _, bits := range []int{4, 8, 12, 32, 64, params.BitsRSAPrime} {
		p, err := Prime(r, bits, params.E)
		require.NoError(t, err)
		pBig := p.Big()
		assert.Equal(t, bits, pBig.BitLen())
		assert.True(t, pBig.ProbablyPrime(params.PrimalityIterations), "Prime generated a non prime number: %v", pBig)
		pMinus1 := new(big.Int).Sub(pBig, big.NewInt(1))
		assert.NotZero(t, new(big.Int).Mod(pMinus1, big.NewInt(params.E)).Sign(), "e must not divide p-1")
	}

	_, err := Prime(r, 3, params.E)
	assert.ErrorIs(t, err, ErrPrimeTooSmall)
}

func TestRSA(t *testing.T) {
	pl := pool.NewPool(0)
	defer pl.TearDown()

	for _, bits := range []int{16, 64, 256} {
		p, q, err := RSA(rand.Reader, pl, bits, params.E)
		require.NoError(t, err)
		assert.NotEqual(t, 0, p.Big().Cmp(q.Big()), "factors must be distinct")
		n := new(big.Int).Mul(p.Big(), q.Big())
		assert.Equal(t, bits, n.BitLen(), "modulus must have exactly the requested size")
	}

	_, _, err := RSA(rand.Reader, nil, 6, params.E)
	assert.ErrorIs(t, err, ErrPrimeTooSmall)
}

func TestRSADeterministic(t *testing.T) {
	p1, q1, err := RSA(mrand.New(mrand.NewSource(7)), nil, 64, params.E)
	require.NoError(t, err)
	p2, q2, err := RSA(mrand.New(mrand.NewSource(7)), nil, 64, params.E)
	require.NoError(t, err)
	assert.Equal(t, p1.Big(), p2.Big())
	assert.Equal(t, q1.Big(), q2.Big())
}

var resultNat *saferith.Nat

func BenchmarkPrime(b *testing.B) {
	for i := 0; i < b.N; i++ {
		resultNat, _ = Prime(rand.Reader, params.BitsRSAPrime, params.E)
	}
}
