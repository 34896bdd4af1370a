// Package bisection recovers the plaintext of a textbook RSA ciphertext
// from a parity oracle.
//
// Multiplying a ciphertext by Enc(2) doubles its plaintext mod N. Since N is
// odd, 2m mod N is even exactly when 2m < N, that is when m lies in the lower
// half of [0, N). Each round doubles the ciphertext once more and halves the
// interval known to contain the plaintext, so after bitlen(N) rounds it
// contains a single integer.
package bisection

import (
	"fmt"
	"math/big"

	"github.com/cronokirby/saferith"
	"github.com/rs/zerolog"
	"github.com/taurusgroup/parity-oracle/pkg/math/arith"
	"github.com/taurusgroup/parity-oracle/pkg/math/interval"
	"github.com/taurusgroup/parity-oracle/pkg/oracle"
	"github.com/taurusgroup/parity-oracle/pkg/rsa"
)

// Step is the state of an attack after one round.
type Step struct {
	// Round is the 0-based index of the round.
	Round int
	// Even is the oracle's answer for this round.
	Even bool
	// Low and High are the bounds of the interval, as fractions of N.
	Low, High *big.Rat
	// Value is ⌊High⋅N⌋, the current guess for the plaintext.
	Value *big.Int
	// Candidate is Value as bytes, without leading zeros.
	Candidate []byte
}

// Option configures a Decryptor.
type Option func(*Decryptor)

// WithLogger sets the logger used to trace rounds. Plaintext guesses are never logged.
func WithLogger(log zerolog.Logger) Option {
	return func(d *Decryptor) {
		d.log = log
	}
}

// WithProgress registers a function called by Decrypt after every round.
func WithProgress(f func(*Step)) Option {
	return func(d *Decryptor) {
		d.progress = f
	}
}

// Decryptor runs the parity oracle attack against a fixed public key.
//
// A Decryptor holds no per attack state, and can be reused.
type Decryptor struct {
	oracle oracle.Oracle
	pk     *rsa.PublicKey
	// encTwo = Enc(2) = 2ᵉ (mod N)
	encTwo   *saferith.Nat
	log      zerolog.Logger
	progress func(*Step)
}

// New returns a Decryptor querying o, which must answer for the secret key matching pk.
func New(o oracle.Oracle, pk *rsa.PublicKey, opts ...Option) *Decryptor {
	d := &Decryptor{
		oracle: o,
		pk:     pk,
		encTwo: pk.Enc(new(saferith.Nat).SetUint64(2)),
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Rounds returns the number of oracle queries needed, bitlen(N).
func (d *Decryptor) Rounds() int {
	return d.pk.BitLen()
}

// Decrypt recovers the plaintext of c, without leading zero bytes.
func (d *Decryptor) Decrypt(c *saferith.Nat) ([]byte, error) {
	a := d.Start(c)
	for {
		step, err := a.Next()
		if err != nil {
			return nil, err
		}
		if step == nil {
			break
		}
		if d.progress != nil {
			d.progress(step)
		}
	}
	return a.Result()
}

// Start prepares an attack on c. No query is made until Next is called.
func (d *Decryptor) Start(c *saferith.Nat) *Attack {
	a := &Attack{
		d:        d,
		n:        d.pk.NBig(),
		interval: interval.New(),
		rounds:   d.Rounds(),
	}
	if c == nil {
		a.err = Error{Err: ErrNilCiphertext}
		return a
	}
	a.c = d.pk.N().Reduce(c)
	return a
}

// Attack is a single run of the attack, advanced one round at a time with Next.
// It cannot be restarted.
type Attack struct {
	d        *Decryptor
	n        *big.Int
	c        *saferith.Nat
	interval *interval.Interval
	round    int
	rounds   int
	err      error
}

// Next runs one round, and returns the resulting Step.
// Once all rounds have run, it returns nil, nil.
// After an error, every call returns that error.
func (a *Attack) Next() (*Step, error) {
	if a.err != nil {
		return nil, a.err
	}
	if a.Done() {
		return nil, nil
	}
	i := a.round

	// the plaintext of c is now 2ⁱ⁺¹⋅m (mod N)
	a.c = a.d.pk.N().Mul(a.c, a.d.encTwo)

	even, err := a.d.oracle.IsPlaintextEven(a.c)
	if err != nil {
		return nil, a.fail(fmt.Errorf("%w: %w", ErrOracle, err))
	}

	// even means doubling did not wrap around N
	a.interval.Halve(even)
	if err = a.interval.Validate(); err != nil {
		return nil, a.fail(fmt.Errorf("%w: %w", ErrInterval, err))
	}
	a.round++

	value := a.interval.Upper(a.n)
	a.d.log.Debug().
		Int("round", i).
		Bool("even", even).
		Int("remaining", a.rounds-a.round).
		Msg("halved interval")

	return &Step{
		Round:     i,
		Even:      even,
		Low:       a.interval.Low(),
		High:      a.interval.High(),
		Value:     value,
		Candidate: arith.IntToBytes(value),
	}, nil
}

func (a *Attack) fail(err error) error {
	a.err = Error{Round: a.round, Err: err}
	a.d.log.Error().Err(err).Int("round", a.round).Msg("attack aborted")
	return a.err
}

// Done returns true once all rounds have run, or the attack failed.
func (a *Attack) Done() bool {
	return a.err != nil || a.round >= a.rounds
}

// Rounds returns the total number of rounds of the attack.
func (a *Attack) Rounds() int {
	return a.rounds
}

// Result returns the recovered plaintext ⌊high⋅N⌋ as bytes.
// It fails if the attack has not completed.
func (a *Attack) Result() ([]byte, error) {
	if a.err != nil {
		return nil, a.err
	}
	if !a.Done() {
		return nil, fmt.Errorf("bisection: attack not finished, %d of %d rounds done", a.round, a.rounds)
	}
	a.d.log.Info().Int("rounds", a.rounds).Msg("recovered plaintext")
	return arith.IntToBytes(a.interval.Upper(a.n)), nil
}
