package group

import (
	"github.com/rafaelescrich/go-ecsafe/ct"
)

// doubleProjective is dbl-2007-bl for short Weierstrass curves with any a:
//
//	XX = X², YY = Y², YYYY = YY², ZZ = Z²
//	S  = 2((X + YY)² - XX - YYYY)
//	M  = 3XX + a·ZZ²
//	X' = M² - 2S
//	Y' = M(S - X') - 8YYYY
//	Z' = (Y + Z)² - YY - ZZ
//
// The sentinel maps to itself through these formulas; a point with Y = 0
// yields Z' = 0 and is masked to the sentinel.
func (c *Curve) doubleProjective(ws *Workspace, p *Point) Result {
	zero := p.IsZero()

	ws.sqr(ws.x, p.X)
	ws.sqr(ws.y, p.Y)
	ws.sqr(ws.w, ws.y)
	ws.sqr(ws.z, p.Z)

	ws.add(ws.h, p.X, ws.y)
	ws.sqr(ws.h, ws.h)
	ws.sub(ws.h, ws.h, ws.x)
	ws.sub(ws.h, ws.h, ws.w)
	ws.add(ws.h, ws.h, ws.h)

	ws.add(ws.lambda, ws.x, ws.x)
	ws.add(ws.lambda, ws.lambda, ws.x)
	ws.sqr(ws.temp, ws.z)
	ws.mul(ws.temp, ws.temp, c.params.A)
	ws.add(ws.lambda, ws.lambda, ws.temp)

	ws.add(ws.temp, p.Y, p.Z)
	ws.sqr(ws.temp, ws.temp)
	ws.sub(ws.temp, ws.temp, ws.y)
	ws.sub(ws.temp, ws.temp, ws.z)

	ws.sqr(ws.x, ws.lambda)
	ws.sub(ws.x, ws.x, ws.h)
	ws.sub(ws.x, ws.x, ws.h)

	ws.sub(ws.y, ws.h, ws.x)
	ws.mul(ws.y, ws.y, ws.lambda)
	ws.add(ws.w, ws.w, ws.w)
	ws.add(ws.w, ws.w, ws.w)
	ws.add(ws.w, ws.w, ws.w)
	ws.sub(ws.y, ws.y, ws.w)

	inf := ws.temp.EqZero()
	ws.sel(ws.x, inf, c.zero)
	ws.sel(ws.y, inf, c.zero)

	p.X.SetNat(ws.x)
	p.Y.SetNat(ws.y)
	p.Z.SetNat(ws.temp)

	return result(zero, inf&ct.Not(zero), 0)
}

// addProjective is add-2007-bl:
//
//	U1 = X1·Z2², U2 = X2·Z1², S1 = Y1·Z2³, S2 = Y2·Z1³
//	H = U2 - U1, r = 2(S2 - S1), I = (2H)², J = H·I, V = U1·I
//	X3 = r² - J - 2V
//	Y3 = r(V - X3) - 2·S1·J
//	Z3 = ((Z1 + Z2)² - Z1² - Z2²)·H
//
// U1 == U2 means the affine x coordinates agree: equal S values select the
// doubled point, different ones the identity.
func (c *Curve) addProjective(ws *Workspace, p, q *Point) Result {
	zp := p.IsZero()
	zq := q.IsZero()
	live := ct.Not(zp) & ct.Not(zq)

	r, i, j, v, x3, y3, z3 := ws.e[0], ws.e[1], ws.e[2], ws.e[3], ws.e[4], ws.e[5], ws.e[6]

	ws.sqr(ws.z, p.Z)
	ws.sqr(ws.w, q.Z)
	ws.mul(ws.x, p.X, ws.w)
	ws.mul(ws.y, q.X, ws.z)
	ws.mul(ws.lambda, p.Y, q.Z)
	ws.mul(ws.lambda, ws.lambda, ws.w)
	ws.mul(ws.temp, q.Y, p.Z)
	ws.mul(ws.temp, ws.temp, ws.z)

	ws.sub(ws.h, ws.y, ws.x)
	hZero := ws.h.EqZero()
	sEq := ws.lambda.Eq(ws.temp)

	ws.sub(r, ws.temp, ws.lambda)
	ws.add(r, r, r)
	ws.add(i, ws.h, ws.h)
	ws.sqr(i, i)
	ws.mul(j, ws.h, i)
	ws.mul(v, ws.x, i)

	ws.sqr(x3, r)
	ws.sub(x3, x3, j)
	ws.sub(x3, x3, v)
	ws.sub(x3, x3, v)

	ws.sub(y3, v, x3)
	ws.mul(y3, y3, r)
	ws.mul(ws.lambda, ws.lambda, j)
	ws.add(ws.lambda, ws.lambda, ws.lambda)
	ws.sub(y3, y3, ws.lambda)

	ws.add(z3, p.Z, q.Z)
	ws.sqr(z3, z3)
	ws.sub(z3, z3, ws.z)
	ws.sub(z3, z3, ws.w)
	ws.mul(z3, z3, ws.h)

	dbl := hZero & sEq & live
	inf := hZero & ct.Not(sEq) & live

	// The doubling candidate is always computed.
	ws.spare.Set(p)
	dblRes := c.doubleProjective(ws, ws.spare)
	inf |= dbl & ct.Choice(ct.Eq(uint64(dblRes), uint64(ResultInfinity)))

	ws.sel(x3, dbl, ws.spare.X)
	ws.sel(y3, dbl, ws.spare.Y)
	ws.sel(z3, dbl, ws.spare.Z)

	ws.sel(x3, inf, c.zero)
	ws.sel(y3, inf, c.zero)
	ws.sel(z3, inf, c.zero)

	ws.sel(x3, zp, q.X)
	ws.sel(y3, zp, q.Y)
	ws.sel(z3, zp, q.Z)
	ws.sel(x3, zq, p.X)
	ws.sel(y3, zq, p.Y)
	ws.sel(z3, zq, p.Z)

	p.X.SetNat(x3)
	p.Y.SetNat(y3)
	p.Z.SetNat(z3)

	return result(zp|zq, inf, dbl)
}
