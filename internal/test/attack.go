package test

import (
	mrand "math/rand"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/parity-oracle/pkg/rsa"
	"golang.org/x/sync/errgroup"
)

// Key returns a deterministic RSA key pair of the given size.
func Key(t testing.TB, seed int64, bits int) (*rsa.PublicKey, *rsa.SecretKey) {
	t.Helper()
	pk, sk, err := rsa.KeyGen(mrand.New(mrand.NewSource(seed)), nil, bits)
	require.NoError(t, err)
	return pk, sk
}

// DecryptAll runs decrypt on every ciphertext concurrently,
// and returns the plaintexts in the same order, or the first error encountered.
func DecryptAll(decrypt func(*saferith.Nat) ([]byte, error), ciphertexts []*saferith.Nat) ([][]byte, error) {
	var g errgroup.Group
	g.SetLimit(8)
	results := make([][]byte, len(ciphertexts))
	for i := range ciphertexts {
		i := i
		g.Go(func() error {
			m, err := decrypt(ciphertexts[i])
			if err != nil {
				return err
			}
			results[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
