package group

import (
	"github.com/cronokirby/safenum"

	"github.com/rafaelescrich/go-ecsafe/field"
)

// Workspace is the scratch storage of one point-arithmetic call chain. It
// must not be shared between goroutines. Release overwrites every element.
type Workspace struct {
	lambda, temp, x, y, z, h, w *safenum.Nat

	// e holds the extra temporaries of the projective addition.
	e [7]*safenum.Nat
	// spare receives the doubling candidate inside Add.
	spare *Point

	f     *field.Field
	zero  *safenum.Nat
	trace *Trace
}

// NewWorkspace allocates scratch sized for c.
func (c *Curve) NewWorkspace() *Workspace {
	f := c.f
	ws := &Workspace{
		lambda: f.Zero(),
		temp:   f.Zero(),
		x:      f.Zero(),
		y:      f.Zero(),
		z:      f.Zero(),
		h:      f.Zero(),
		w:      f.Zero(),
		spare:  c.Identity(Projective),
		f:      f,
		zero:   c.zero,
	}
	for i := range ws.e {
		ws.e[i] = f.Zero()
	}
	return ws
}

// SetTrace attaches a recorder that logs every field operation kind. A nil
// trace disables recording.
func (ws *Workspace) SetTrace(t *Trace) { ws.trace = t }

// Release overwrites the scratch elements with zeros.
func (ws *Workspace) Release() {
	for _, n := range ws.elements() {
		n.CondAssign(1, ws.zero)
	}
}

func (ws *Workspace) elements() []*safenum.Nat {
	out := []*safenum.Nat{
		ws.lambda, ws.temp, ws.x, ws.y, ws.z, ws.h, ws.w,
		ws.spare.X, ws.spare.Y, ws.spare.Z,
	}
	return append(out, ws.e[:]...)
}

func (ws *Workspace) record(op Op) {
	if ws.trace != nil {
		ws.trace.ops = append(ws.trace.ops, op)
	}
}

func (ws *Workspace) add(z, x, y *safenum.Nat) *safenum.Nat {
	ws.record(OpAdd)
	return ws.f.Add(z, x, y)
}

func (ws *Workspace) sub(z, x, y *safenum.Nat) *safenum.Nat {
	ws.record(OpSub)
	return ws.f.Sub(z, x, y)
}

func (ws *Workspace) mul(z, x, y *safenum.Nat) *safenum.Nat {
	ws.record(OpMul)
	return ws.f.Mul(z, x, y)
}

func (ws *Workspace) sqr(z, x *safenum.Nat) *safenum.Nat {
	ws.record(OpSqr)
	return ws.f.Square(z, x)
}

func (ws *Workspace) inv(z, x *safenum.Nat) *safenum.Nat {
	ws.record(OpInv)
	return ws.f.Inverse(z, x)
}

// sel sets z = x when yes is 1.
func (ws *Workspace) sel(z *safenum.Nat, yes safenum.Choice, x *safenum.Nat) {
	ws.record(OpSelect)
	z.CondAssign(yes, x)
}
