package arith

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntToBytes_Squeeze(t *testing.T) {
	zero := IntToBytes(big.NewInt(0))
	require.NotNil(t, zero)
	assert.Empty(t, zero, "zero has no bytes")
	assert.Empty(t, NatToBytes(NatFromBytes(nil)))

	for _, k := range []int{1, 16, 128} {
		// 0x01 0x00 ... 0x00 needs exactly k bytes
		x := new(big.Int).Lsh(big.NewInt(1), uint(8*(k-1)))
		b := IntToBytes(x)
		assert.Len(t, b, k)
		assert.NotZero(t, b[0], "no leading zero byte")

		// a padded encoding is squeezed back
		padded := append(make([]byte, 3), b...)
		assert.Equal(t, b, NatToBytes(NatFromBytes(padded)))
	}
}

func TestNatFromBytes(t *testing.T) {
	msg := []byte("That's why I found you don't play around with the Funky Cold Medina")
	x := NatFromBytes(msg)
	assert.True(t, bytes.Equal(msg, NatToBytes(x)))
	assert.Equal(t, 0, new(big.Int).SetBytes(msg).Cmp(x.Big()))
}
