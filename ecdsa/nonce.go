package ecdsa

import (
	"crypto/hmac"
	"hash"

	"github.com/cronokirby/safenum"

	"github.com/rafaelescrich/go-ecsafe/ct"
	"github.com/rafaelescrich/go-ecsafe/group"
	"github.com/rafaelescrich/go-ecsafe/scalar"
)

// nonceGenerator is the HMAC-DRBG of RFC 6979 section 3.2.
type nonceGenerator struct {
	h     func() hash.Hash
	k, v  []byte
	n     *safenum.Modulus
	bits  int
	limbs int
	// started is set once the first candidate has been produced; later
	// calls first step K and V past the previous candidate.
	started bool
}

func newNonceGenerator(c *group.Curve, h func() hash.Hash, d *scalar.Secret, digest []byte) *nonceGenerator {
	p := c.Params()
	size := (p.OrderBits + 7) / 8
	g := &nonceGenerator{
		h:     h,
		n:     p.N,
		bits:  p.OrderBits,
		limbs: p.Limbs,
	}

	hlen := h().Size()
	g.v = make([]byte, hlen)
	for i := range g.v {
		g.v[i] = 0x01
	}
	g.k = make([]byte, hlen)

	x := d.Bytes(size)
	defer ct.Zeroize(x)
	h1 := hashToInt(c, digest).FillBytes(make([]byte, size))

	g.k = g.mac(g.k, g.v, []byte{0x00}, x, h1)
	g.v = g.mac(g.k, g.v)
	g.k = g.mac(g.k, g.v, []byte{0x01}, x, h1)
	g.v = g.mac(g.k, g.v)
	return g
}

func (g *nonceGenerator) mac(key []byte, parts ...[]byte) []byte {
	m := hmac.New(g.h, key)
	for _, p := range parts {
		m.Write(p)
	}
	return m.Sum(nil)
}

func (g *nonceGenerator) step() {
	g.k = g.mac(g.k, g.v, []byte{0x00})
	g.v = g.mac(g.k, g.v)
}

// next returns the next candidate in [1, n-1].
func (g *nonceGenerator) next() (*scalar.Secret, error) {
	for {
		if g.started {
			g.step()
		}
		g.started = true

		var t []byte
		for 8*len(t) < g.bits {
			g.v = g.mac(g.k, g.v)
			t = append(t, g.v...)
		}
		k, err := scalar.FromBytes(leftmostBits(t, g.bits), g.limbs)
		ct.Zeroize(t)
		if err != nil {
			return nil, err
		}
		if k.InRange(g.n) {
			return k, nil
		}
		k.Clear()
	}
}

func (g *nonceGenerator) clear() {
	ct.Zeroize(g.k)
	ct.Zeroize(g.v)
}
