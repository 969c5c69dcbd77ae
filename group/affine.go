package group

import (
	"github.com/rafaelescrich/go-ecsafe/ct"
)

// doubleAffine: λ = (3x² + a) / 2y, x' = λ² - 2x, y' = λ(x - x') - y.
func (c *Curve) doubleAffine(ws *Workspace, p *Point) Result {
	zero := p.IsZero()
	yZero := p.Y.EqZero()

	ws.sqr(ws.temp, p.X)
	ws.add(ws.lambda, ws.temp, ws.temp)
	ws.add(ws.lambda, ws.lambda, ws.temp)
	ws.add(ws.lambda, ws.lambda, c.params.A)

	ws.add(ws.h, p.Y, p.Y)
	ws.sel(ws.h, yZero, c.one)
	ws.inv(ws.w, ws.h)
	ws.mul(ws.lambda, ws.lambda, ws.w)

	ws.sqr(ws.x, ws.lambda)
	ws.sub(ws.x, ws.x, p.X)
	ws.sub(ws.x, ws.x, p.X)

	ws.sub(ws.y, p.X, ws.x)
	ws.mul(ws.y, ws.y, ws.lambda)
	ws.sub(ws.y, ws.y, p.Y)

	// y = 0 covers both the sentinel and points of order two.
	ws.sel(ws.x, yZero, c.zero)
	ws.sel(ws.y, yZero, c.zero)
	p.X.SetNat(ws.x)
	p.Y.SetNat(ws.y)

	return result(zero, yZero&ct.Not(zero), 0)
}

// addAffine: λ = (yb - ya) / (xb - xa), x' = λ² - xa - xb,
// y' = λ(xa - x') - ya. When xa == xb the tangent slope is selected instead,
// so equal points are doubled and opposite points give a zero denominator,
// which is replaced by one and the result masked to the identity.
func (c *Curve) addAffine(ws *Workspace, p, q *Point) Result {
	zp := p.IsZero()
	zq := q.IsZero()
	live := ct.Not(zp) & ct.Not(zq)
	xEq := p.X.Eq(q.X)
	yEq := p.Y.Eq(q.Y)
	dbl := xEq & yEq & live

	// Chord slope.
	ws.sub(ws.lambda, q.Y, p.Y)
	ws.sub(ws.h, q.X, p.X)

	// Tangent slope.
	ws.sqr(ws.temp, p.X)
	ws.add(ws.w, ws.temp, ws.temp)
	ws.add(ws.w, ws.w, ws.temp)
	ws.add(ws.w, ws.w, c.params.A)
	ws.add(ws.z, p.Y, p.Y)

	ws.sel(ws.lambda, dbl, ws.w)
	ws.sel(ws.h, dbl, ws.z)

	denZero := ws.h.EqZero()
	ws.sel(ws.h, denZero, c.one)
	ws.inv(ws.temp, ws.h)
	ws.mul(ws.lambda, ws.lambda, ws.temp)

	ws.sqr(ws.x, ws.lambda)
	ws.sub(ws.x, ws.x, p.X)
	ws.sub(ws.x, ws.x, q.X)

	ws.sub(ws.y, p.X, ws.x)
	ws.mul(ws.y, ws.y, ws.lambda)
	ws.sub(ws.y, ws.y, p.Y)

	inf := denZero & live
	ws.sel(ws.x, inf, c.zero)
	ws.sel(ws.y, inf, c.zero)

	ws.sel(ws.x, zp, q.X)
	ws.sel(ws.y, zp, q.Y)
	ws.sel(ws.x, zq, p.X)
	ws.sel(ws.y, zq, p.Y)

	p.X.SetNat(ws.x)
	p.Y.SetNat(ws.y)

	return result(zp|zq, inf, dbl)
}
