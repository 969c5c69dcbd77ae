package ecdsa

import (
	"github.com/cronokirby/safenum"
	"github.com/pkg/errors"

	"github.com/rafaelescrich/go-ecsafe/group"
)

// Signature is an ECDSA signature (r, s) with both values in [1, n-1].
type Signature struct {
	r, s *safenum.Nat
	size int
}

// ParseSignature decodes r‖s, each value the curve's byte length wide.
func ParseSignature(c *group.Curve, b []byte) (*Signature, error) {
	p := c.Params()
	if len(b) != 2*p.Bytes {
		return nil, errors.Wrapf(ErrInvalidSignature, "length %d, want %d", len(b), 2*p.Bytes)
	}
	r := new(safenum.Nat).SetBytes(b[:p.Bytes])
	s := new(safenum.Nat).SetBytes(b[p.Bytes:])
	if !inRange(r, p.N) || !inRange(s, p.N) {
		return nil, errors.Wrap(ErrInvalidSignature, "value out of range")
	}
	return &Signature{
		r:    r.Mod(r, p.N),
		s:    s.Mod(s, p.N),
		size: p.Bytes,
	}, nil
}

// Bytes returns r‖s.
func (sig *Signature) Bytes() []byte {
	out := make([]byte, 2*sig.size)
	sig.r.FillBytes(out[:sig.size])
	sig.s.FillBytes(out[sig.size:])
	return out
}

// R returns r, big-endian, at the curve's byte length.
func (sig *Signature) R() []byte {
	return sig.r.FillBytes(make([]byte, sig.size))
}

// S returns s, big-endian, at the curve's byte length.
func (sig *Signature) S() []byte {
	return sig.s.FillBytes(make([]byte, sig.size))
}
