package scalar

import (
	"io"

	"github.com/cronokirby/safenum"
	"github.com/pkg/errors"

	"github.com/rafaelescrich/go-ecsafe/ct"
)

// maxDraws bounds rejection sampling. Every curve order is close enough to
// a power of two that a draw is rejected with probability below one half.
const maxDraws = 64

// ErrSampling is returned when the random source keeps producing values
// outside [1, n-1].
var ErrSampling = errors.New("scalar: random source produced no usable value")

// Sample draws a uniformly random Secret in [1, n-1] from r. Each draw reads
// the byte length of n, clears the bits above the bit length of n and is
// rejected unless it lies in range. Sample returns the secret and the
// number of rejected draws.
func Sample(r io.Reader, n *safenum.Modulus, limbs int) (*Secret, int, error) {
	bits := n.BitLen()
	buf := make([]byte, (bits+7)/8)
	defer ct.Zeroize(buf)
	excess := uint(8*len(buf) - bits)

	s := New(limbs)
	for redraws := 0; redraws < maxDraws; redraws++ {
		if _, err := io.ReadFull(r, buf); err != nil {
			s.Clear()
			return nil, redraws, errors.Wrap(err, "reading random bytes")
		}
		buf[0] &= byte(0xff >> excess)
		if err := s.SetBytes(buf); err != nil {
			s.Clear()
			return nil, redraws, err
		}
		if s.InRange(n) {
			return s, redraws, nil
		}
	}
	s.Clear()
	return nil, maxDraws, ErrSampling
}
