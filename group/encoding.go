package group

import (
	"github.com/pkg/errors"
)

// ErrInvalidPoint is returned for encodings that do not decode to a point
// on the curve.
var ErrInvalidPoint = errors.New("group: invalid point encoding")

// Bytes returns the affine point as x‖y, each coordinate exactly Bytes wide.
func (c *Curve) Bytes(p *Point) []byte {
	size := c.params.Bytes
	out := make([]byte, 2*size)
	p.X.FillBytes(out[:size])
	p.Y.FillBytes(out[size:])
	return out
}

// XBytes returns only the x coordinate of an affine point.
func (c *Curve) XBytes(p *Point) []byte {
	return p.X.FillBytes(make([]byte, c.params.Bytes))
}

// PointFromBytes decodes x‖y and checks that the result lies on the curve.
// The sentinel encoding is rejected.
func (c *Curve) PointFromBytes(b []byte) (*Point, error) {
	size := c.params.Bytes
	if len(b) != 2*size {
		return nil, errors.Wrapf(ErrInvalidPoint, "length %d, want %d", len(b), 2*size)
	}
	x, err := c.f.SetBytes(b[:size])
	if err != nil {
		return nil, errors.Wrap(ErrInvalidPoint, err.Error())
	}
	y, err := c.f.SetBytes(b[size:])
	if err != nil {
		return nil, errors.Wrap(ErrInvalidPoint, err.Error())
	}
	p := c.NewAffine(x, y)
	if !c.IsOnCurve(p) {
		return nil, errors.Wrap(ErrInvalidPoint, "not on curve")
	}
	return p, nil
}
