package group

import (
	"github.com/cronokirby/safenum"

	"github.com/rafaelescrich/go-ecsafe/ct"
)

// Result reports which case of the group law an operation hit.
type Result int

const (
	// ResultOK is the generic case.
	ResultOK Result = iota
	// ResultZero means an input was the identity; the other operand (or the
	// identity) is returned.
	ResultZero
	// ResultInfinity means the operation produced the identity: P + (-P), or
	// the double of a point with y = 0.
	ResultInfinity
	// ResultDouble means Add received equal points and used the doubling
	// formula instead.
	ResultDouble
)

func (r Result) String() string {
	switch r {
	case ResultOK:
		return "ok"
	case ResultZero:
		return "zero"
	case ResultInfinity:
		return "infinity"
	case ResultDouble:
		return "double"
	default:
		return "unknown"
	}
}

// result maps the case masks to a Result without branching. Earlier masks
// take priority.
func result(zero, inf, dbl safenum.Choice) Result {
	r := ct.SelectInt(ct.Bit(dbl), int(ResultDouble), int(ResultOK))
	r = ct.SelectInt(ct.Bit(inf), int(ResultInfinity), r)
	r = ct.SelectInt(ct.Bit(zero), int(ResultZero), r)
	return Result(r)
}

// Double sets p = 2p.
func (c *Curve) Double(ws *Workspace, p *Point) Result {
	switch p.Coords {
	case Projective:
		return c.doubleProjective(ws, p)
	default:
		return c.doubleAffine(ws, p)
	}
}

// Add sets p = p + q. Both points must use the same coordinate system.
// Equal inputs are doubled and reported as ResultDouble.
func (c *Curve) Add(ws *Workspace, p, q *Point) Result {
	switch p.Coords {
	case Projective:
		return c.addProjective(ws, p, q)
	default:
		return c.addAffine(ws, p, q)
	}
}
