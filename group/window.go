package group

import (
	"github.com/rafaelescrich/go-ecsafe/ct"
	"github.com/rafaelescrich/go-ecsafe/scalar"
)

// WindowBits is the width of the fixed window.
const WindowBits = 4

// WindowTable holds 0·P, 1·P, ..., (2^WindowBits - 1)·P.
type WindowTable struct {
	points []*Point
}

// NewWindowTable precomputes the multiples of p in p's coordinate system.
func (c *Curve) NewWindowTable(ws *Workspace, p *Point) *WindowTable {
	size := 1 << WindowBits
	t := &WindowTable{points: make([]*Point, size)}
	t.points[0] = c.Identity(p.Coords)
	for i := 1; i < size; i++ {
		t.points[i] = t.points[i-1].Clone()
		c.Add(ws, t.points[i], p)
	}
	return t
}

// Len returns the number of entries.
func (t *WindowTable) Len() int { return len(t.points) }

// At returns entry i. It is for inspection only; lookups driven by secrets
// go through lookup.
func (t *WindowTable) At(i int) *Point { return t.points[i] }

// lookup copies entry idx into out by scanning the whole table.
func (t *WindowTable) lookup(out *Point, idx uint64) {
	for i, p := range t.points {
		out.Select(ct.Choice(ct.Eq(uint64(i), idx)), p)
	}
}

// ClearWindowTable resets every entry of t to the sentinel.
func (c *Curve) ClearWindowTable(t *WindowTable) {
	for _, p := range t.points {
		c.Reset(p)
	}
}

// ScalarMultWindow returns k·P using the table of P. Every window of the
// numBits-bit scalar is processed, leading zero windows included, with
// WindowBits doublings, one full table scan and one addition.
func (c *Curve) ScalarMultWindow(ws *Workspace, t *WindowTable, k *scalar.Secret, numBits int) *Point {
	coords := t.points[0].Coords
	acc := c.Identity(coords)
	entry := c.Identity(coords)
	defer c.Reset(entry)

	windows := (numBits + WindowBits - 1) / WindowBits
	for w := windows - 1; w >= 0; w-- {
		for i := 0; i < WindowBits; i++ {
			c.Double(ws, acc)
		}
		var idx uint64
		for b := WindowBits - 1; b >= 0; b-- {
			idx = idx<<1 | k.Bit(w*WindowBits+b)
		}
		c.Reset(entry)
		t.lookup(entry, idx)
		c.Add(ws, acc, entry)
	}
	return acc
}
