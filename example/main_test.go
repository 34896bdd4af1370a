package main

import (
	"bytes"
	"encoding/base64"
	"fmt"
	mrand "math/rand"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/parity-oracle/pkg/bisection"
	"github.com/taurusgroup/parity-oracle/pkg/oracle"
	"github.com/taurusgroup/parity-oracle/pkg/rsa"
)

func TestAttack(t *testing.T) {
	pk, sk, err := rsa.KeyGen(mrand.New(mrand.NewSource(0)), nil, 128)
	require.NoError(t, err)

	network := newNetwork(oracle.NewServer(oracle.New(sk), zerolog.Nop()))
	defer network.Close()

	var out bytes.Buffer
	d := bisection.New(oracle.NewClient(network.Send), pk, bisection.WithProgress(func(s *bisection.Step) {
		fmt.Fprintf(&out, "Iteration %d: %q\n", s.Round, s.Candidate)
	}))

	encoded := base64.StdEncoding.EncodeToString([]byte("Funky Cold"))
	require.NoError(t, attack(d, pk, encoded, &out))
	assert.Equal(t, 128, strings.Count(out.String(), "Iteration "))
	assert.True(t, strings.HasSuffix(out.String(), "Recovered: \"Funky Cold\"\n"))

	assert.Error(t, attack(d, pk, "not base64!", &out))
	tooLong := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{0xff}, 17))
	assert.ErrorIs(t, attack(d, pk, tooLong, &out), rsa.ErrMessageTooLarge)
}

func TestNetworkClosed(t *testing.T) {
	_, sk, err := rsa.KeyGen(mrand.New(mrand.NewSource(1)), nil, 64)
	require.NoError(t, err)
	network := newNetwork(oracle.NewServer(oracle.New(sk), zerolog.Nop()))
	network.Close()

	_, err = oracle.NewClient(network.Send).IsPlaintextEven(sk.N().Nat())
	assert.ErrorIs(t, err, errNetworkClosed)
}
