// Package group implements point arithmetic and constant-time scalar
// multiplication on the curves of package curve.
//
// A Point is either affine (x, y) or Jacobian projective (X, Y, Z) with
// x = X/Z² and y = Y/Z³. In both systems the identity is the sentinel with
// every coordinate equal to zero. This is not the textbook projective
// infinity; the add and double routines check for the sentinel explicitly
// and never feed it to the group-law formulas as if it were a curve point.
package group

import (
	"github.com/cronokirby/safenum"

	"github.com/rafaelescrich/go-ecsafe/ct"
	"github.com/rafaelescrich/go-ecsafe/curve"
	"github.com/rafaelescrich/go-ecsafe/field"
)

// Coords is the coordinate system of a Point.
type Coords int

const (
	// Affine points carry (x, y); Z is kept at zero.
	Affine Coords = iota
	// Projective points carry Jacobian (X, Y, Z).
	Projective
)

func (c Coords) String() string {
	switch c {
	case Affine:
		return "affine"
	case Projective:
		return "projective"
	default:
		return "unknown"
	}
}

// Point is a curve point in one coordinate system.
type Point struct {
	X, Y, Z *safenum.Nat
	Coords  Coords
}

// Curve binds the point engine to one set of curve parameters. It holds no
// mutable state and may be shared between goroutines.
type Curve struct {
	params *curve.Params
	f      *field.Field
	zero   *safenum.Nat
	one    *safenum.Nat
}

// New returns the engine for params.
func New(params *curve.Params) *Curve {
	return &Curve{
		params: params,
		f:      params.Field,
		zero:   params.Field.Zero(),
		one:    params.Field.One(),
	}
}

// Params returns the curve parameters.
func (c *Curve) Params() *curve.Params { return c.params }

// Identity returns the sentinel zero point in the given coordinate system.
func (c *Curve) Identity(coords Coords) *Point {
	return &Point{
		X:      c.f.Zero(),
		Y:      c.f.Zero(),
		Z:      c.f.Zero(),
		Coords: coords,
	}
}

// Generator returns the base point G in affine coordinates.
func (c *Curve) Generator() *Point {
	p := c.Identity(Affine)
	p.X.SetNat(c.params.Gx)
	p.Y.SetNat(c.params.Gy)
	return p
}

// NewAffine returns the affine point (x, y). The coordinates are reduced
// modulo p but not checked against the curve equation.
func (c *Curve) NewAffine(x, y *safenum.Nat) *Point {
	p := c.Identity(Affine)
	c.f.Reduce(p.X, x)
	c.f.Reduce(p.Y, y)
	return p
}

// Reset turns p into the sentinel zero point.
func (c *Curve) Reset(p *Point) {
	p.X.CondAssign(1, c.zero)
	p.Y.CondAssign(1, c.zero)
	p.Z.CondAssign(1, c.zero)
}

// Set copies q into p and returns p.
func (p *Point) Set(q *Point) *Point {
	p.X.SetNat(q.X)
	p.Y.SetNat(q.Y)
	p.Z.SetNat(q.Z)
	p.Coords = q.Coords
	return p
}

// Clone returns an independent copy of p.
func (p *Point) Clone() *Point {
	return &Point{
		X:      new(safenum.Nat).SetNat(p.X),
		Y:      new(safenum.Nat).SetNat(p.Y),
		Z:      new(safenum.Nat).SetNat(p.Z),
		Coords: p.Coords,
	}
}

// Select replaces p with q when yes is 1. Both must share a coordinate
// system.
func (p *Point) Select(yes safenum.Choice, q *Point) {
	p.X.CondAssign(yes, q.X)
	p.Y.CondAssign(yes, q.Y)
	p.Z.CondAssign(yes, q.Z)
}

// IsZero reports, in constant time, whether p is the sentinel zero point.
func (p *Point) IsZero() safenum.Choice {
	return p.X.EqZero() & p.Y.EqZero() & p.Z.EqZero()
}

// IsIdentity is IsZero as a bool, for public values.
func (p *Point) IsIdentity() bool {
	return ct.Bit(p.IsZero()) == 1
}

// Equal reports whether two affine points are identical.
func (p *Point) Equal(q *Point) bool {
	return ct.Bit(p.X.Eq(q.X)&p.Y.Eq(q.Y)&p.Z.Eq(q.Z)) == 1
}

// Negate sets p = -p. The sentinel stays zero.
func (c *Curve) Negate(p *Point) {
	c.f.Neg(p.Y, p.Y)
}

// ToProjective switches an affine point to Jacobian coordinates with Z = 1.
// The sentinel keeps Z = 0.
func (c *Curve) ToProjective(p *Point) {
	if p.Coords == Projective {
		return
	}
	p.Z.SetNat(c.zero)
	p.Z.CondAssign(ct.Not(p.IsZero()), c.one)
	p.Coords = Projective
}

// ToAffine switches a projective point to affine coordinates with a single
// field inversion. A point with Z = 0 becomes the affine sentinel.
func (c *Curve) ToAffine(ws *Workspace, p *Point) {
	if p.Coords == Affine {
		return
	}
	inf := p.Z.EqZero()

	ws.z.SetNat(p.Z)
	ws.sel(ws.z, inf, c.one)
	ws.inv(ws.w, ws.z)
	ws.sqr(ws.h, ws.w)
	ws.mul(ws.temp, ws.h, ws.w)
	ws.mul(p.X, p.X, ws.h)
	ws.mul(p.Y, p.Y, ws.temp)

	ws.sel(p.X, inf, c.zero)
	ws.sel(p.Y, inf, c.zero)
	p.Z.SetNat(c.zero)
	p.Coords = Affine
}

// IsOnCurve reports whether an affine point satisfies y² = x³ + ax + b. The
// sentinel is not on the curve.
func (c *Curve) IsOnCurve(p *Point) bool {
	if p.Coords != Affine {
		return false
	}
	f := c.f
	rhs := f.Square(new(safenum.Nat), p.X)
	f.Add(rhs, rhs, c.params.A)
	f.Mul(rhs, rhs, p.X)
	f.Add(rhs, rhs, c.params.B)
	lhs := f.Square(new(safenum.Nat), p.Y)

	_, _, xlt := p.X.CmpMod(c.params.P)
	_, _, ylt := p.Y.CmpMod(c.params.P)
	ok := lhs.Eq(rhs) & xlt & ylt & ct.Not(p.IsZero())
	return ct.Bit(ok) == 1
}
