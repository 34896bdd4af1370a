package test

import (
	"math/big"
	"sync"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/parity-oracle/pkg/oracle"
	"github.com/taurusgroup/parity-oracle/pkg/pool"
)

// FormulaOracle answers the i-th query with the parity of 2ⁱ⁺¹⋅m (mod n),
// without looking at the ciphertext.
//
// This is what an honest oracle answers during an attack on the encryption of m,
// so it can stand in for an RSA key when testing the attack.
type FormulaOracle struct {
	m, n    *big.Int
	queries int
	mtx     sync.Mutex
}

// NewFormulaOracle returns a reference oracle for plaintext m under modulus n.
func NewFormulaOracle(m, n *big.Int) *FormulaOracle {
	return &FormulaOracle{
		m: new(big.Int).Set(m),
		n: new(big.Int).Set(n),
	}
}

// IsPlaintextEven implements oracle.Oracle.
func (o *FormulaOracle) IsPlaintextEven(*saferith.Nat) (bool, error) {
	o.mtx.Lock()
	defer o.mtx.Unlock()
	even := ExpectedParity(o.m, o.n, o.queries)
	o.queries++
	return even, nil
}

// Queries returns the number of queries answered so far.
func (o *FormulaOracle) Queries() int {
	o.mtx.Lock()
	defer o.mtx.Unlock()
	return o.queries
}

// ExpectedParity returns whether 2ⁱ⁺¹⋅m (mod n) is even.
func ExpectedParity(m, n *big.Int, i int) bool {
	x := new(big.Int).Exp(big.NewInt(2), big.NewInt(int64(i+1)), n)
	x.Mul(x, m)
	x.Mod(x, n)
	return x.Bit(0) == 0
}

// ExpectedParities returns ExpectedParity(m, n, i) for i = 0, …, rounds-1.
func ExpectedParities(pl *pool.Pool, m, n *big.Int, rounds int) []bool {
	return pool.Parallelize(pl, rounds, func(i int) bool {
		return ExpectedParity(m, n, i)
	})
}

// Recorder wraps an Oracle and records every answer it gives.
type Recorder struct {
	oracle.Oracle
	Answers []bool
}

// IsPlaintextEven implements oracle.Oracle.
func (r *Recorder) IsPlaintextEven(c *saferith.Nat) (bool, error) {
	even, err := r.Oracle.IsPlaintextEven(c)
	if err != nil {
		return false, err
	}
	r.Answers = append(r.Answers, even)
	return even, nil
}

// FailAfter returns an Oracle forwarding to o, which fails with err from query number n onwards.
func FailAfter(o oracle.Oracle, n int, err error) oracle.Oracle {
	queries := 0
	return oracle.Func(func(c *saferith.Nat) (bool, error) {
		if queries >= n {
			return false, err
		}
		queries++
		return o.IsPlaintextEven(c)
	})
}
