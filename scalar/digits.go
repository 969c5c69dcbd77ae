package scalar

import (
	"math/bits"
	"strings"

	"github.com/pkg/errors"

	"github.com/rafaelescrich/go-ecsafe/ct"
)

// Mode selects the digit encoding of a scalar.
type Mode int

const (
	// Binary yields the bits of the scalar, digits in {0, 1}.
	Binary Mode = iota
	// NAF yields the width-2 non-adjacent form, digits in {-1, 0, 1}.
	NAF
)

// ErrUnknownMode is returned by ParseMode.
var ErrUnknownMode = errors.New("scalar: unknown digit mode")

func (m Mode) String() string {
	switch m {
	case Binary:
		return "binary"
	case NAF:
		return "naf"
	default:
		return "unknown"
	}
}

// ParseMode maps "binary" or "naf" to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "binary":
		return Binary, nil
	case "naf", "naf2":
		return NAF, nil
	}
	return Binary, errors.Wrapf(ErrUnknownMode, "%q", s)
}

// Digit is one signed digit of a scalar.
type Digit int8

// Stream yields the digits of a scalar, most significant first.
//
// The digits are computed up front without data-dependent branches. The
// number of digits the stream yields is the position of the highest non-zero
// digit, so leading zeros of the secret are skipped and its bit length shows
// in the iteration count of any loop driven by the stream. This is a known
// property of both encodings.
type Stream struct {
	digits []int8
	pos    int
}

// NewStream prepares the digits of k for numBits-bit scalars. It returns the
// stream and the number of digits it will yield. k must be below 2^numBits.
func NewStream(mode Mode, k *Secret, numBits int) (*Stream, int) {
	var digits []int8
	switch mode {
	case NAF:
		digits = nafDigits(k, numBits)
	default:
		digits = binaryDigits(k, numBits)
	}

	top := 0
	for j, d := range digits {
		nz := ct.IsZero(uint64(uint8(d))) ^ 1
		top = ct.SelectInt(nz, j+1, top)
	}
	return &Stream{digits: digits, pos: top}, top
}

func binaryDigits(k *Secret, numBits int) []int8 {
	d := make([]int8, numBits)
	for j := range d {
		d[j] = int8(k.Bit(j))
	}
	return d
}

// nafDigits computes NAF(k) as the difference of the bits of 3k and k:
// digit j is bit j+1 of 3k minus bit j+1 of k.
func nafDigits(k *Secret, numBits int) []int8 {
	n := k.Limbs()
	h := make([]uint64, n+1)
	var carryShift, carryAdd uint64
	for i := 0; i < n; i++ {
		w := k.words[i]
		twice := w<<1 | carryShift
		carryShift = w >> 63
		h[i], carryAdd = bits.Add64(w, twice, carryAdd)
	}
	h[n] = carryShift + carryAdd

	bit := func(words []uint64, i int) uint64 {
		if i >= 64*len(words) {
			return 0
		}
		return (words[i/64] >> uint(i%64)) & 1
	}

	d := make([]int8, numBits+1)
	for j := range d {
		d[j] = int8(bit(h, j+1)) - int8(k.Bit(j+1))
	}
	ct.ZeroizeWords(h)
	return d
}

// Pull returns the next digit. An exhausted stream yields 0.
func (s *Stream) Pull() Digit {
	if s.pos == 0 {
		return 0
	}
	s.pos--
	return Digit(s.digits[s.pos])
}

// Remaining returns how many digits are left.
func (s *Stream) Remaining() int { return s.pos }

// Clear overwrites the digit buffer.
func (s *Stream) Clear() {
	for i := range s.digits {
		s.digits[i] = 0
	}
	s.pos = 0
}
