package arith

import (
	"github.com/cronokirby/saferith"
)

// Modulus wraps a saferith.Modulus, and accelerates exponentiation when
// the factorization n = p⋅q is known.
//
// A Modulus is safe for concurrent use. saferith may resize the limbs of its
// operands, so cached values and caller arguments are copied before each operation.
//
// Holders of an RSA public key only know n, and use ModulusFromN.
// The holder of the secret key uses ModulusFromFactors, which lets
// xᵈ (mod n) be computed with two half size exponentiations.
type Modulus struct {
	*saferith.Modulus
	p, q *saferith.Modulus
	// qNat = q, qInv = q⁻¹ (mod p)
	qNat, qInv *saferith.Nat
}

// ModulusFromN creates a simple wrapper around n. The modulus is not copied.
func ModulusFromN(n *saferith.Modulus) *Modulus {
	return &Modulus{Modulus: n}
}

// ModulusFromFactors creates the cached values needed for CRT exponentiation mod n = p⋅q.
func ModulusFromFactors(p, q *saferith.Nat) *Modulus {
	nNat := new(saferith.Nat).Mul(p, q, -1)
	pMod := saferith.ModulusFromNat(p)
	qMod := saferith.ModulusFromNat(q)
	return &Modulus{
		Modulus: saferith.ModulusFromNat(nNat),
		p:       pMod,
		q:       qMod,
		qNat:    new(saferith.Nat).SetNat(q),
		qInv:    new(saferith.Nat).ModInverse(new(saferith.Nat).Mod(q, pMod), pMod),
	}
}

// Exp returns xᵉ (mod n).
func (n *Modulus) Exp(x, e *saferith.Nat) *saferith.Nat {
	x, e = clone(x), clone(e)
	if !n.hasFactorization() {
		return new(saferith.Nat).Exp(x, e, n.Modulus)
	}
	return n.crt(
		new(saferith.Nat).Exp(new(saferith.Nat).Mod(x, n.p), e, n.p),
		new(saferith.Nat).Exp(new(saferith.Nat).Mod(x, n.q), clone(e), n.q),
	)
}

// ExpCRT returns xᵈ (mod n), given dp = d (mod p-1) and dq = d (mod q-1).
//
// It panics if n was not created with ModulusFromFactors.
func (n *Modulus) ExpCRT(x, dp, dq *saferith.Nat) *saferith.Nat {
	if !n.hasFactorization() {
		panic("arith: ExpCRT requires the factorization of n")
	}
	x = clone(x)
	return n.crt(
		new(saferith.Nat).Exp(new(saferith.Nat).Mod(x, n.p), clone(dp), n.p),
		new(saferith.Nat).Exp(new(saferith.Nat).Mod(x, n.q), clone(dq), n.q),
	)
}

// crt recombines xp = x (mod p), xq = x (mod q) into x (mod n), using Garner's formula
//
//	x = xq + q⋅[q⁻¹⋅(xp - xq) (mod p)]
func (n *Modulus) crt(xp, xq *saferith.Nat) *saferith.Nat {
	h := new(saferith.Nat).ModSub(xp, new(saferith.Nat).Mod(xq, n.p), n.p)
	h.ModMul(h, clone(n.qInv), n.p)
	x := new(saferith.Nat).Mul(h, clone(n.qNat), n.Modulus.BitLen())
	return x.ModAdd(x, xq, n.Modulus)
}

// Mul returns x⋅y (mod n).
func (n *Modulus) Mul(x, y *saferith.Nat) *saferith.Nat {
	return new(saferith.Nat).ModMul(clone(x), clone(y), n.Modulus)
}

// Reduce returns x (mod n).
func (n *Modulus) Reduce(x *saferith.Nat) *saferith.Nat {
	return new(saferith.Nat).Mod(clone(x), n.Modulus)
}

// Equal returns true if both wrap the same n.
func (n *Modulus) Equal(other *Modulus) bool {
	return n.Modulus.Nat().Eq(other.Modulus.Nat()) == 1
}

func (n Modulus) hasFactorization() bool {
	return n.p != nil && n.q != nil && n.qNat != nil && n.qInv != nil
}

func clone(x *saferith.Nat) *saferith.Nat {
	return new(saferith.Nat).SetNat(x)
}
