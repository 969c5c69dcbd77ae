// Package ct provides branch-free helpers for values derived from secrets.
//
// Every function here is straight-line code over fixed-width integers. None
// of them may be rewritten with an if statement or a table lookup indexed by
// its arguments.
package ct

import (
	"runtime"

	"github.com/cronokirby/safenum"
)

// Mask expands a 0/1 bit into an all-zeros or all-ones word.
func Mask(bit uint64) uint64 {
	return -(bit & 1)
}

// Select returns a when mask is all ones and b when mask is zero.
func Select(mask, a, b uint64) uint64 {
	return b ^ ((a ^ b) & mask)
}

// IsZero returns 1 if x is zero and 0 otherwise.
func IsZero(x uint64) uint64 {
	return 1 ^ ((x | -x) >> 63)
}

// Eq returns 1 if x == y and 0 otherwise.
func Eq(x, y uint64) uint64 {
	return IsZero(x ^ y)
}

// SelectInt returns a when bit is 1 and b when bit is 0.
func SelectInt(bit uint64, a, b int) int {
	m := int(Mask(bit))
	return b ^ ((a ^ b) & m)
}

// Choice converts a 0/1 bit into a safenum.Choice.
func Choice(bit uint64) safenum.Choice {
	return safenum.Choice(bit & 1)
}

// Bit converts a safenum.Choice into a 0/1 word.
func Bit(c safenum.Choice) uint64 {
	return uint64(c) & 1
}

// Not inverts a safenum.Choice.
func Not(c safenum.Choice) safenum.Choice {
	return 1 ^ (c & 1)
}

// Zeroize overwrites buf with zeros.
func Zeroize(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
	runtime.KeepAlive(buf)
}

// ZeroizeWords overwrites w with zeros.
func ZeroizeWords(w []uint64) {
	for i := range w {
		w[i] = 0
	}
	runtime.KeepAlive(w)
}
