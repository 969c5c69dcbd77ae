package field

import (
	"github.com/cronokirby/safenum"
)

// Reducer folds a product of two reduced elements, x < p², back into
// [0, p).
type Reducer interface {
	Reduce(z, x *safenum.Nat) *safenum.Nat
}

// Generic reduces with safenum's constant-time division.
type Generic struct {
	P *safenum.Modulus
}

// Reduce sets z = x mod p and returns z.
func (g Generic) Reduce(z, x *safenum.Nat) *safenum.Nat {
	return z.Mod(x, g.P)
}

// Barrett is HAC algorithm 14.42 in radix 256. It serves primes without a
// dedicated fast reduction.
type Barrett struct {
	p    *safenum.Modulus
	pNat *safenum.Nat
	mu   *safenum.Nat
	k    int
}

// NewBarrett returns a Barrett reducer for p with the precomputed constant
// mu = floor(256^(2k) / p), k being the byte length of p.
func NewBarrett(p, mu *safenum.Nat) *Barrett {
	m := safenum.ModulusFromNat(p)
	return &Barrett{
		p:    m,
		pNat: new(safenum.Nat).SetNat(p),
		mu:   new(safenum.Nat).SetNat(mu),
		k:    (m.BitLen() + 7) / 8,
	}
}

// Reduce sets z = x mod p and returns z.
func (b *Barrett) Reduce(z, x *safenum.Nat) *safenum.Nat {
	k := b.k
	capBits := 8 * (k + 1)

	buf := x.FillBytes(make([]byte, 2*k))
	q1 := new(safenum.Nat).SetBytes(buf[:k+1])

	q2 := new(safenum.Nat).Mul(q1, b.mu, 2*capBits)
	wide := q2.FillBytes(make([]byte, 2*(k+1)))
	q3 := new(safenum.Nat).SetBytes(wide[:k+1])

	qp := new(safenum.Nat).Mul(q3, b.pNat, capBits)
	r := new(safenum.Nat).Sub(new(safenum.Nat).SetBytes(buf), qp, capBits)

	// r < 3p here.
	t := new(safenum.Nat)
	for i := 0; i < 2; i++ {
		t.Sub(r, b.pNat, capBits)
		gt, eq, _ := r.CmpMod(b.p)
		r.CondAssign(gt|eq, t)
	}
	return z.SetNat(r.Resize(b.p.BitLen()))
}
