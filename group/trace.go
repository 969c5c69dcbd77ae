package group

// Op is the kind of a field operation recorded in a Trace.
type Op uint8

// Recorded operation kinds.
const (
	OpAdd Op = iota + 1
	OpSub
	OpMul
	OpSqr
	OpInv
	OpSelect
)

func (o Op) String() string {
	switch o {
	case OpAdd:
		return "add"
	case OpSub:
		return "sub"
	case OpMul:
		return "mul"
	case OpSqr:
		return "sqr"
	case OpInv:
		return "inv"
	case OpSelect:
		return "select"
	default:
		return "?"
	}
}

// Trace is the ordered list of field operations performed through a
// Workspace. Secret-independent code produces the same trace for any two
// secrets that drive the same number of loop iterations.
type Trace struct {
	ops []Op
}

// Ops returns the recorded operations.
func (t *Trace) Ops() []Op { return t.ops }

// Len returns the number of recorded operations.
func (t *Trace) Len() int { return len(t.ops) }

// Reset drops all recorded operations.
func (t *Trace) Reset() { t.ops = t.ops[:0] }

// Count returns how many times op was recorded.
func (t *Trace) Count(op Op) int {
	n := 0
	for _, o := range t.ops {
		if o == op {
			n++
		}
	}
	return n
}
