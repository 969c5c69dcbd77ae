package group

import (
	"github.com/cronokirby/safenum"

	"github.com/rafaelescrich/go-ecsafe/ct"
	"github.com/rafaelescrich/go-ecsafe/scalar"
)

// ScalarMult returns k·p computed in p's coordinate system. numBits bounds
// the scalar, k < 2^numBits.
//
// The accumulator is seeded with p from the leading digit. Every further
// digit costs one doubling and one addition. The addition always runs: a
// zero digit sends it to a dummy point, a non-zero digit to the
// accumulator, and in NAF mode a negative digit adds -p. Target and addend
// are chosen with CondAssign masks, so the operation sequence and memory
// accesses do not depend on the digits. The loop length is the digit count
// of k, which reveals its bit length.
func (c *Curve) ScalarMult(ws *Workspace, p *Point, k *scalar.Secret, numBits int, mode scalar.Mode) *Point {
	stream, n := scalar.NewStream(mode, k, numBits)
	defer stream.Clear()

	acc := c.Identity(p.Coords)
	if n == 0 {
		return acc
	}

	dummy := c.Identity(p.Coords)
	neg := p.Clone()
	c.Negate(neg)
	addend := c.Identity(p.Coords)
	target := c.Identity(p.Coords)
	defer func() {
		c.Reset(dummy)
		c.Reset(neg)
		c.Reset(addend)
		c.Reset(target)
	}()

	stream.Pull()
	acc.Set(p)

	for i := 1; i < n; i++ {
		c.Double(ws, acc)

		nonZero, negative := digitMasks(stream.Pull())

		addend.Set(p)
		addend.Select(negative, neg)

		target.Set(dummy)
		target.Select(nonZero, acc)

		c.Add(ws, target, addend)

		acc.Select(nonZero, target)
		dummy.Select(ct.Not(nonZero), target)
	}
	return acc
}

// Multiply returns k·p for an affine p, running the loop in the given
// coordinate system and converting the result back to affine once.
func (c *Curve) Multiply(ws *Workspace, p *Point, k *scalar.Secret, mode scalar.Mode, coords Coords) *Point {
	in := p.Clone()
	if coords == Projective {
		c.ToProjective(in)
	}
	out := c.ScalarMult(ws, in, k, c.params.OrderBits, mode)
	c.ToAffine(ws, out)
	c.Reset(in)
	return out
}

// ScalarBaseMult returns k·G in affine coordinates.
func (c *Curve) ScalarBaseMult(ws *Workspace, k *scalar.Secret, mode scalar.Mode, coords Coords) *Point {
	return c.Multiply(ws, c.Generator(), k, mode, coords)
}

// digitMasks decodes a digit in {-1, 0, 1} into its non-zero and negative
// selectors. -1 arrives as 0xff and folds onto magnitude 1.
func digitMasks(d scalar.Digit) (nonZero, negative safenum.Choice) {
	w := uint64(uint8(d))
	minus := ct.Eq(w, 0xff)
	return ct.Choice(ct.Select(ct.Mask(minus), 1, w)), ct.Choice(minus)
}
