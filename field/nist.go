package field

import (
	"encoding/binary"

	"github.com/cronokirby/safenum"

	"github.com/rafaelescrich/go-ecsafe/ct"
)

// Fast reductions for the NIST primes, FIPS 186-4 appendix D.2.
//
// The double-width input is split into 32-bit words c0 (least significant)
// to c(2k-1). Each prime's reduction is a fixed list of k-word terms built
// from those words, written most significant word first exactly as in the
// standard. Positive and negative terms are summed column by column with
// carries, folded once each, and combined with one modular subtraction.

// z marks a zero word in a term.
const z = -1

type term struct {
	coeff uint64
	words []int8
}

type wordReducer struct {
	p   *safenum.Modulus
	k   int
	add []term
	sub []term
}

// P192 returns the fast reduction for p = 2^192 - 2^64 - 1.
func P192(p *safenum.Modulus) Reducer {
	return &wordReducer{p: p, k: 6,
		add: []term{
			{1, []int8{5, 4, 3, 2, 1, 0}},
			{1, []int8{z, z, 7, 6, 7, 6}},
			{1, []int8{9, 8, 9, 8, z, z}},
			{1, []int8{11, 10, 11, 10, 11, 10}},
		},
	}
}

// P224 returns the fast reduction for p = 2^224 - 2^96 + 1.
func P224(p *safenum.Modulus) Reducer {
	return &wordReducer{p: p, k: 7,
		add: []term{
			{1, []int8{6, 5, 4, 3, 2, 1, 0}},
			{1, []int8{10, 9, 8, 7, z, z, z}},
			{1, []int8{z, 13, 12, 11, z, z, z}},
		},
		sub: []term{
			{1, []int8{13, 12, 11, 10, 9, 8, 7}},
			{1, []int8{z, z, z, z, 13, 12, 11}},
		},
	}
}

// P256 returns the fast reduction for p = 2^256 - 2^224 + 2^192 + 2^96 - 1.
func P256(p *safenum.Modulus) Reducer {
	return &wordReducer{p: p, k: 8,
		add: []term{
			{1, []int8{7, 6, 5, 4, 3, 2, 1, 0}},
			{2, []int8{15, 14, 13, 12, 11, z, z, z}},
			{2, []int8{z, 15, 14, 13, 12, z, z, z}},
			{1, []int8{15, 14, z, z, z, 10, 9, 8}},
			{1, []int8{8, 13, 15, 14, 13, 11, 10, 9}},
		},
		sub: []term{
			{1, []int8{10, 8, z, z, z, 13, 12, 11}},
			{1, []int8{11, 9, z, z, 15, 14, 13, 12}},
			{1, []int8{12, z, 10, 9, 8, 15, 14, 13}},
			{1, []int8{13, z, 11, 10, 9, z, 15, 14}},
		},
	}
}

// P384 returns the fast reduction for p = 2^384 - 2^128 - 2^96 + 2^32 - 1.
func P384(p *safenum.Modulus) Reducer {
	return &wordReducer{p: p, k: 12,
		add: []term{
			{1, []int8{11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0}},
			{2, []int8{z, z, z, z, z, 23, 22, 21, z, z, z, z}},
			{1, []int8{23, 22, 21, 20, 19, 18, 17, 16, 15, 14, 13, 12}},
			{1, []int8{20, 19, 18, 17, 16, 15, 14, 13, 12, 23, 22, 21}},
			{1, []int8{19, 18, 17, 16, 15, 14, 13, 12, 20, z, 23, z}},
			{1, []int8{z, z, z, z, 23, 22, 21, 20, z, z, z, z}},
			{1, []int8{z, z, z, z, z, z, 23, 22, 21, z, z, 20}},
		},
		sub: []term{
			{1, []int8{22, 21, 20, 19, 18, 17, 16, 15, 14, 13, 12, 23}},
			{1, []int8{z, z, z, z, z, z, z, 23, 22, 21, 20, z}},
			{1, []int8{z, z, z, z, z, z, z, 23, 23, z, z, z}},
		},
	}
}

// Reduce sets z = x mod p and returns z.
func (r *wordReducer) Reduce(out, x *safenum.Nat) *safenum.Nat {
	buf := x.FillBytes(make([]byte, 8*r.k))
	c := make([]uint64, 2*r.k)
	for i := range c {
		off := len(buf) - 4*(i+1)
		c[i] = uint64(binary.BigEndian.Uint32(buf[off : off+4]))
	}

	pos := r.fold(c, r.add)
	neg := r.fold(c, r.sub)
	pos.Mod(pos, r.p)
	neg.Mod(neg, r.p)
	out.ModSub(pos, neg, r.p)

	ct.Zeroize(buf)
	ct.ZeroizeWords(c)
	return out
}

// fold sums the terms column-wise into k+1 words and returns the total.
func (r *wordReducer) fold(c []uint64, terms []term) *safenum.Nat {
	acc := make([]uint64, r.k+1)
	for _, t := range terms {
		for i, idx := range t.words {
			if idx == z {
				continue
			}
			acc[r.k-1-i] += t.coeff * c[idx]
		}
	}
	for i := 0; i < r.k; i++ {
		acc[i+1] += acc[i] >> 32
		acc[i] &= 0xffffffff
	}

	b := make([]byte, 4*(r.k+1))
	for i, w := range acc {
		off := len(b) - 4*(i+1)
		binary.BigEndian.PutUint32(b[off:off+4], uint32(w))
	}
	n := new(safenum.Nat).SetBytes(b)
	ct.Zeroize(b)
	ct.ZeroizeWords(acc)
	return n
}

// mersenne521 reduces modulo p = 2^521 - 1.
type mersenne521 struct {
	p *safenum.Modulus
}

// P521 returns the fast reduction for p = 2^521 - 1.
func P521(p *safenum.Modulus) Reducer {
	return mersenne521{p: p}
}

// Reduce sets z = x mod p and returns z. With x = hi·2^521 + lo the result
// is lo + hi mod p.
func (r mersenne521) Reduce(out, x *safenum.Nat) *safenum.Nat {
	const size = 132 // 1056 bits, enough for (2^521)²
	buf := x.FillBytes(make([]byte, size))

	lo := make([]byte, 66)
	copy(lo, buf[size-66:])
	lo[0] &= 0x01

	// hi = x >> 521: drop 65 bytes, then one more bit.
	hi := make([]byte, 67)
	src := buf[:size-65]
	var carry byte
	for i := range src {
		hi[i] = carry | src[i]>>1
		carry = src[i] << 7
	}

	l := new(safenum.Nat).SetBytes(lo)
	h := new(safenum.Nat).SetBytes(hi)
	l.Mod(l, r.p)
	h.Mod(h, r.p)
	out.ModAdd(l, h, r.p)

	ct.Zeroize(buf)
	ct.Zeroize(lo)
	ct.Zeroize(hi)
	return out
}
