// Package field implements constant-time arithmetic modulo an elliptic curve
// prime.
//
// Elements are *safenum.Nat values kept in [0, p). Every operation runs in
// time that depends only on the size of the modulus, never on the values of
// the operands. Multiplication and squaring compute the full double-width
// product and hand it to the curve's Reducer.
package field

import (
	"github.com/cronokirby/safenum"
	"github.com/pkg/errors"
)

var (
	// ErrInvalidLength is returned when an encoding has the wrong width.
	ErrInvalidLength = errors.New("field: invalid encoding length")
	// ErrOutOfRange is returned when an encoded value is not below p.
	ErrOutOfRange = errors.New("field: value not reduced modulo p")
)

// Field holds the modulus and reduction routine for one prime field.
type Field struct {
	p       *safenum.Modulus
	pNat    *safenum.Nat
	bits    int
	size    int
	reducer Reducer
}

// New returns a Field for the prime held in p. A nil reducer selects the
// generic reduction.
func New(p *safenum.Nat, r Reducer) *Field {
	m := safenum.ModulusFromNat(p)
	if r == nil {
		r = Generic{P: m}
	}
	bits := m.BitLen()
	return &Field{
		p:       m,
		pNat:    new(safenum.Nat).SetNat(p),
		bits:    bits,
		size:    (bits + 7) / 8,
		reducer: r,
	}
}

// Modulus returns p.
func (f *Field) Modulus() *safenum.Modulus { return f.p }

// BitLen returns the bit length of p.
func (f *Field) BitLen() int { return f.bits }

// ByteLen returns the width of an encoded element.
func (f *Field) ByteLen() int { return f.size }

// Reducer returns the reduction routine used by Mul and Square.
func (f *Field) Reducer() Reducer { return f.reducer }

// Zero returns a new element equal to 0.
func (f *Field) Zero() *safenum.Nat {
	return new(safenum.Nat).Mod(new(safenum.Nat).SetUint64(0), f.p)
}

// One returns a new element equal to 1.
func (f *Field) One() *safenum.Nat {
	return new(safenum.Nat).Mod(new(safenum.Nat).SetUint64(1), f.p)
}

// Add sets z = x + y mod p and returns z.
func (f *Field) Add(z, x, y *safenum.Nat) *safenum.Nat {
	return z.ModAdd(x, y, f.p)
}

// Sub sets z = x - y mod p and returns z.
func (f *Field) Sub(z, x, y *safenum.Nat) *safenum.Nat {
	return z.ModSub(x, y, f.p)
}

// Neg sets z = -x mod p and returns z.
func (f *Field) Neg(z, x *safenum.Nat) *safenum.Nat {
	return z.ModSub(f.Zero(), x, f.p)
}

// Mul sets z = x * y mod p and returns z.
func (f *Field) Mul(z, x, y *safenum.Nat) *safenum.Nat {
	wide := new(safenum.Nat).Mul(x, y, 2*f.bits)
	return f.reducer.Reduce(z, wide)
}

// Square sets z = x² mod p and returns z.
func (f *Field) Square(z, x *safenum.Nat) *safenum.Nat {
	return f.Mul(z, x, x)
}

// Inverse sets z = x⁻¹ mod p and returns z. The caller guarantees x != 0;
// the inverse of zero is reported as zero.
func (f *Field) Inverse(z, x *safenum.Nat) *safenum.Nat {
	zero := x.EqZero()
	z.ModInverse(x, f.p)
	return z.CondAssign(zero, f.Zero())
}

// Reduce sets z = x mod p for an x of any size and returns z.
func (f *Field) Reduce(z, x *safenum.Nat) *safenum.Nat {
	return z.Mod(x, f.p)
}

// Equal reports whether x == y.
func (f *Field) Equal(x, y *safenum.Nat) safenum.Choice {
	return x.Eq(y)
}

// IsZero reports whether x == 0.
func (f *Field) IsZero(x *safenum.Nat) safenum.Choice {
	return x.EqZero()
}

// SetBytes decodes a big-endian element of exactly ByteLen bytes. Values not
// below p are rejected.
func (f *Field) SetBytes(b []byte) (*safenum.Nat, error) {
	if len(b) != f.size {
		return nil, errors.Wrapf(ErrInvalidLength, "got %d bytes, want %d", len(b), f.size)
	}
	x := new(safenum.Nat).SetBytes(b)
	if _, _, lt := x.CmpMod(f.p); lt != 1 {
		return nil, ErrOutOfRange
	}
	return x.Mod(x, f.p), nil
}

// Bytes returns the fixed-width big-endian encoding of x.
func (f *Field) Bytes(x *safenum.Nat) []byte {
	return x.FillBytes(make([]byte, f.size))
}
