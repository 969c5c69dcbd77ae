// Package scalar holds secret scalars and the digit streams that feed
// constant-time scalar multiplication.
package scalar

import (
	"encoding/binary"

	"github.com/cronokirby/safenum"
	"github.com/pkg/errors"

	"github.com/rafaelescrich/go-ecsafe/ct"
)

// ErrTooLarge is returned when an encoding does not fit the scalar width.
var ErrTooLarge = errors.New("scalar: value wider than scalar")

// Secret is a fixed-width unsigned integer stored as little-endian 64-bit
// words. It is used for private keys and signing nonces.
type Secret struct {
	words []uint64
}

// New returns a zero Secret of the given number of 64-bit limbs.
func New(limbs int) *Secret {
	return &Secret{words: make([]uint64, limbs)}
}

// FromBytes decodes a big-endian value into a Secret of the given width.
func FromBytes(b []byte, limbs int) (*Secret, error) {
	s := New(limbs)
	if err := s.SetBytes(b); err != nil {
		return nil, err
	}
	return s, nil
}

// FromNat copies a safenum.Nat into a Secret of the given width.
func FromNat(n *safenum.Nat, limbs int) *Secret {
	buf := n.FillBytes(make([]byte, 8*limbs))
	s := New(limbs)
	s.setPadded(buf)
	ct.Zeroize(buf)
	return s
}

// SetBytes decodes a big-endian value. Leading bytes beyond the width must
// be zero.
func (s *Secret) SetBytes(b []byte) error {
	width := 8 * len(s.words)
	if len(b) > width {
		var extra byte
		for _, v := range b[:len(b)-width] {
			extra |= v
		}
		if extra != 0 {
			return errors.Wrapf(ErrTooLarge, "%d bytes into %d", len(b), width)
		}
		b = b[len(b)-width:]
	}
	buf := make([]byte, width)
	copy(buf[width-len(b):], b)
	s.setPadded(buf)
	ct.Zeroize(buf)
	return nil
}

func (s *Secret) setPadded(buf []byte) {
	n := len(s.words)
	for i := range s.words {
		off := 8 * (n - 1 - i)
		s.words[i] = binary.BigEndian.Uint64(buf[off : off+8])
	}
}

// Limbs returns the number of 64-bit words.
func (s *Secret) Limbs() int { return len(s.words) }

// Bit returns bit i (0 is least significant) as 0 or 1. Bits past the
// width read as 0.
func (s *Secret) Bit(i int) uint64 {
	if i >= 64*len(s.words) {
		return 0
	}
	return (s.words[i/64] >> uint(i%64)) & 1
}

// Bytes returns the big-endian encoding in exactly size bytes, truncating
// high bytes if size is smaller than the width.
func (s *Secret) Bytes(size int) []byte {
	n := len(s.words)
	buf := make([]byte, 8*n)
	for i, w := range s.words {
		off := 8 * (n - 1 - i)
		binary.BigEndian.PutUint64(buf[off:off+8], w)
	}
	out := make([]byte, size)
	if size >= len(buf) {
		copy(out[size-len(buf):], buf)
	} else {
		copy(out, buf[len(buf)-size:])
	}
	ct.Zeroize(buf)
	return out
}

// Nat returns the value as a safenum.Nat.
func (s *Secret) Nat() *safenum.Nat {
	b := s.Bytes(8 * len(s.words))
	n := new(safenum.Nat).SetBytes(b)
	ct.Zeroize(b)
	return n
}

// IsZero reports whether the value is zero, without branching on words.
func (s *Secret) IsZero() bool {
	var acc uint64
	for _, w := range s.words {
		acc |= w
	}
	return ct.IsZero(acc) == 1
}

// InRange reports whether 1 <= s < n. The comparison itself does not
// branch on the value.
func (s *Secret) InRange(n *safenum.Modulus) bool {
	v := s.Nat()
	_, _, lt := v.CmpMod(n)
	ok := lt & ct.Not(v.EqZero())
	v.SetUint64(0)
	return ct.Bit(ok) == 1
}

// Clone returns an independent copy.
func (s *Secret) Clone() *Secret {
	c := New(len(s.words))
	copy(c.words, s.words)
	return c
}

// Clear overwrites the words with zeros.
func (s *Secret) Clear() {
	if s == nil {
		return
	}
	ct.ZeroizeWords(s.words)
}
