// Package ecdsa implements ECDSA signatures over the curves of package
// curve.
//
// Signing draws a fresh nonce for every attempt and restarts when r or s
// comes out zero. Restarts are never reported as errors; Sign returns how
// many happened so callers can count them.
package ecdsa

import (
	"hash"
	"io"

	"github.com/cronokirby/safenum"
	"github.com/pkg/errors"

	"github.com/rafaelescrich/go-ecsafe/ct"
	"github.com/rafaelescrich/go-ecsafe/group"
	"github.com/rafaelescrich/go-ecsafe/scalar"
)

// Common errors
var (
	ErrInvalidSignature  = errors.New("ecdsa: invalid signature encoding")
	ErrInvalidDigest     = errors.New("ecdsa: empty digest")
	ErrInvalidPrivateKey = errors.New("ecdsa: invalid private key")
)

// maxRestarts bounds the sign loop. A restart needs r or s to be zero, which
// happens with probability about 2/n per attempt.
const maxRestarts = 16

// Options selects how the scalar multiplications run.
type Options struct {
	Mode   scalar.Mode
	Coords group.Coords
}

// nonceSource yields the nonce for the next signing attempt.
type nonceSource func() (*scalar.Secret, error)

// Sign signs digest with d, drawing nonces from rand. It returns the
// signature and the number of restarts.
func Sign(c *group.Curve, ws *group.Workspace, rand io.Reader, d *scalar.Secret, digest []byte, opts Options) (*Signature, int, error) {
	p := c.Params()
	return sign(c, ws, d, digest, opts, func() (*scalar.Secret, error) {
		k, _, err := scalar.Sample(rand, p.N, p.Limbs)
		return k, errors.Wrap(err, "drawing nonce")
	})
}

// SignDeterministic signs digest with d using the RFC 6979 nonce derived
// from d and digest with the hash h.
func SignDeterministic(c *group.Curve, ws *group.Workspace, h func() hash.Hash, d *scalar.Secret, digest []byte, opts Options) (*Signature, int, error) {
	if !d.InRange(c.Params().N) {
		return nil, 0, ErrInvalidPrivateKey
	}
	g := newNonceGenerator(c, h, d, digest)
	defer g.clear()
	return sign(c, ws, d, digest, opts, g.next)
}

func sign(c *group.Curve, ws *group.Workspace, d *scalar.Secret, digest []byte, opts Options, nonce nonceSource) (*Signature, int, error) {
	p := c.Params()
	if len(digest) == 0 {
		return nil, 0, ErrInvalidDigest
	}
	if !d.InRange(p.N) {
		return nil, 0, ErrInvalidPrivateKey
	}

	z := hashToInt(c, digest)
	dn := d.Nat()
	defer dn.SetUint64(0)

	for restarts := 0; restarts <= maxRestarts; restarts++ {
		k, err := nonce()
		if err != nil {
			return nil, restarts, err
		}

		R := c.ScalarBaseMult(ws, k, opts.Mode, opts.Coords)
		r := new(safenum.Nat).Mod(R.X, p.N)
		c.Reset(R)

		// s = k⁻¹(z + r·d) mod n
		kn := k.Nat()
		k.Clear()
		kInv := new(safenum.Nat).ModInverse(kn, p.N)
		s := new(safenum.Nat).ModMul(r, dn, p.N)
		s.ModAdd(s, z, p.N)
		s.ModMul(s, kInv, p.N)
		kn.SetUint64(0)
		kInv.SetUint64(0)

		if ct.Bit(r.EqZero()|s.EqZero()) == 1 {
			continue
		}
		return &Signature{r: r, s: s, size: p.Bytes}, restarts, nil
	}
	return nil, maxRestarts, errors.New("ecdsa: nonce source keeps producing degenerate signatures")
}

// Verify reports whether sig is a valid signature of digest under the
// public key q, an affine point on the curve.
func Verify(c *group.Curve, ws *group.Workspace, q *group.Point, digest []byte, sig *Signature) bool {
	p := c.Params()
	if sig == nil || q == nil || len(digest) == 0 {
		return false
	}
	if !inRange(sig.r, p.N) || !inRange(sig.s, p.N) {
		return false
	}
	if !c.IsOnCurve(q) {
		return false
	}

	z := hashToInt(c, digest)
	w := new(safenum.Nat).ModInverse(sig.s, p.N)
	u1 := new(safenum.Nat).ModMul(z, w, p.N)
	u2 := new(safenum.Nat).ModMul(sig.r, w, p.N)

	// u1·G + u2·Q
	sum := c.ScalarBaseMult(ws, scalar.FromNat(u1, p.Limbs), scalar.NAF, group.Projective)
	other := c.Multiply(ws, q, scalar.FromNat(u2, p.Limbs), scalar.NAF, group.Projective)
	c.ToProjective(sum)
	c.ToProjective(other)
	c.Add(ws, sum, other)
	c.ToAffine(ws, sum)
	if sum.IsIdentity() {
		return false
	}

	x := new(safenum.Nat).Mod(sum.X, p.N)
	return ct.Bit(x.Eq(sig.r)) == 1
}

func inRange(x *safenum.Nat, n *safenum.Modulus) bool {
	if x == nil {
		return false
	}
	_, _, lt := x.CmpMod(n)
	return ct.Bit(lt&ct.Not(x.EqZero())) == 1
}

// hashToInt converts a digest to an integer modulo n, keeping the leftmost
// bits of the digest when it is longer than the order.
func hashToInt(c *group.Curve, digest []byte) *safenum.Nat {
	p := c.Params()
	z := new(safenum.Nat).SetBytes(leftmostBits(digest, p.OrderBits))
	return z.Mod(z, p.N)
}

// leftmostBits returns the first bits bits of b as a big-endian value, or b
// itself when it is not longer than that.
func leftmostBits(b []byte, bits int) []byte {
	if 8*len(b) <= bits {
		return b
	}
	size := (bits + 7) / 8
	if len(b) > size {
		b = b[:size]
	}
	out := append([]byte(nil), b...)
	excess := uint(8*len(out) - bits)
	if excess == 0 {
		return out
	}
	for i := len(out) - 1; i >= 0; i-- {
		out[i] >>= excess
		if i > 0 {
			out[i] |= out[i-1] << (8 - excess)
		}
	}
	return out
}
