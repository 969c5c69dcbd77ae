package group

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rafaelescrich/go-ecsafe/curve"
	"github.com/rafaelescrich/go-ecsafe/scalar"
)

var (
	modes  = []scalar.Mode{scalar.Binary, scalar.NAF}
	coords = []Coords{Affine, Projective}
)

func TestGeneratorTimesOne(t *testing.T) {
	for _, id := range curve.IDs() {
		t.Run(id.String(), func(t *testing.T) {
			c := engine(t, id)
			ws := c.NewWorkspace()
			defer ws.Release()

			size := c.Params().Bytes
			want := append(c.Params().Gx.FillBytes(make([]byte, size)), c.Params().Gy.FillBytes(make([]byte, size))...)

			for _, mode := range modes {
				for _, cs := range coords {
					got := c.ScalarBaseMult(ws, secretOf(t, c, big.NewInt(1)), mode, cs)
					assert.Equal(t, want, c.Bytes(got), "%s/%s", mode, cs)
				}
			}
		})
	}
}

func TestSecp256r1GeneratorMatchesPublishedConstants(t *testing.T) {
	c := engine(t, curve.Secp256r1)
	ws := c.NewWorkspace()
	defer ws.Release()

	got := c.ScalarBaseMult(ws, secretOf(t, c, big.NewInt(1)), scalar.NAF, Projective)
	assert.Equal(t,
		"6b17d1f2e12c4247f8bce6e563a440f277037d812deb33a0f4a13945d898c296"+
			"4fe342e2fe1a7f9b8ee7eb4a7c0f9e162bce33576b315ececbb6406837bf51f5",
		hex.EncodeToString(c.Bytes(got)))
}

func TestScalarMultByZeroAndOrder(t *testing.T) {
	for _, id := range curve.IDs() {
		t.Run(id.String(), func(t *testing.T) {
			c := engine(t, id)
			ws := c.NewWorkspace()
			defer ws.Release()

			for _, mode := range modes {
				for _, cs := range coords {
					if testing.Short() && cs == Affine {
						continue
					}
					zero := c.ScalarBaseMult(ws, secretOf(t, c, big.NewInt(0)), mode, cs)
					assert.True(t, zero.IsIdentity(), "0·G %s/%s", mode, cs)

					n := c.ScalarBaseMult(ws, secretOf(t, c, order(c)), mode, cs)
					assert.True(t, n.IsIdentity(), "n·G %s/%s", mode, cs)
				}
			}
		})
	}
}

func TestKnownMultiples(t *testing.T) {
	for i, v := range loadVectors(t) {
		v := v
		t.Run(fmt.Sprintf("%s/%d", v.Curve, i), func(t *testing.T) {
			id, err := curve.ParseID(v.Curve)
			require.NoError(t, err)
			c := engine(t, id)
			ws := c.NewWorkspace()
			defer ws.Release()

			want, err := hex.DecodeString(v.X + v.Y)
			require.NoError(t, err)

			k := secretHex(t, c, v.K)
			got := c.ScalarBaseMult(ws, k, scalar.NAF, Projective)
			assert.Equal(t, want, c.Bytes(got))
			assert.True(t, c.IsOnCurve(got))

			if !testing.Short() {
				got = c.ScalarBaseMult(ws, k, scalar.Binary, Affine)
				assert.Equal(t, want, c.Bytes(got))
			}
		})
	}
}

func TestNAFMatchesBinary(t *testing.T) {
	rounds := 4
	if testing.Short() {
		rounds = 1
	}
	for _, id := range curve.IDs() {
		t.Run(id.String(), func(t *testing.T) {
			c := engine(t, id)
			ws := c.NewWorkspace()
			defer ws.Release()

			for i := 0; i < rounds; i++ {
				p := randomPoint(t, c)
				k := secretOf(t, c, randomScalar(t, c))
				bin := c.Multiply(ws, p, k, scalar.Binary, Projective)
				naf := c.Multiply(ws, p, k, scalar.NAF, Projective)
				assert.True(t, bin.Equal(naf))
			}
		})
	}
}

func TestAffineMatchesProjective(t *testing.T) {
	for _, id := range curve.IDs() {
		t.Run(id.String(), func(t *testing.T) {
			c := engine(t, id)
			ws := c.NewWorkspace()
			defer ws.Release()

			p := randomPoint(t, c)
			q := randomPoint(t, c)

			// Doubling.
			da := p.Clone()
			assert.Equal(t, ResultOK, c.Double(ws, da))
			dp := p.Clone()
			c.ToProjective(dp)
			assert.Equal(t, ResultOK, c.Double(ws, dp))
			assert.Equal(t, c.Bytes(da), c.Bytes(affine(c, dp)))

			// Addition of distinct points.
			sa := p.Clone()
			assert.Equal(t, ResultOK, c.Add(ws, sa, q))
			sp := p.Clone()
			c.ToProjective(sp)
			qp := q.Clone()
			c.ToProjective(qp)
			assert.Equal(t, ResultOK, c.Add(ws, sp, qp))
			assert.Equal(t, c.Bytes(sa), c.Bytes(affine(c, sp)))
			assert.True(t, c.IsOnCurve(sa))

			// Mixed inputs in projective form with Z != 1.
			c.Double(ws, qp)
			c.Double(ws, sp)
			c.Add(ws, sp, qp)
			sa2 := sa.Clone()
			c.Double(ws, sa2)
			q2 := q.Clone()
			c.Double(ws, q2)
			c.Add(ws, sa2, q2)
			assert.Equal(t, c.Bytes(sa2), c.Bytes(affine(c, sp)))

			// Full multiplication.
			k := secretOf(t, c, randomScalar(t, c))
			assert.True(t, c.Multiply(ws, p, k, scalar.NAF, Affine).Equal(c.Multiply(ws, p, k, scalar.NAF, Projective)))
		})
	}
}

func TestDoubleEqualsAddToSelf(t *testing.T) {
	for _, id := range curve.IDs() {
		t.Run(id.String(), func(t *testing.T) {
			c := engine(t, id)
			ws := c.NewWorkspace()
			defer ws.Release()

			for _, cs := range coords {
				p := randomPoint(t, c)
				if cs == Projective {
					c.ToProjective(p)
					// Give Z a value other than one.
					c.Double(ws, p)
				}

				d := p.Clone()
				assert.Equal(t, ResultOK, c.Double(ws, d))

				a := p.Clone()
				assert.Equal(t, ResultDouble, c.Add(ws, a, p.Clone()))
				assert.Equal(t, c.Bytes(affine(c, d)), c.Bytes(affine(c, a)), cs.String())

				self := p.Clone()
				assert.Equal(t, ResultDouble, c.Add(ws, self, self))
				assert.Equal(t, c.Bytes(affine(c, d)), c.Bytes(affine(c, self)), cs.String())
			}
		})
	}
}

func TestDegenerateCases(t *testing.T) {
	c := engine(t, curve.Secp256r1)
	ws := c.NewWorkspace()
	defer ws.Release()

	for _, cs := range coords {
		t.Run(cs.String(), func(t *testing.T) {
			p := randomPoint(t, c)
			if cs == Projective {
				c.ToProjective(p)
				c.Double(ws, p)
			}
			neg := p.Clone()
			c.Negate(neg)

			sum := p.Clone()
			assert.Equal(t, ResultInfinity, c.Add(ws, sum, neg))
			assert.True(t, sum.IsIdentity())

			withZero := p.Clone()
			assert.Equal(t, ResultZero, c.Add(ws, withZero, c.Identity(cs)))
			assert.Equal(t, c.Bytes(affine(c, p)), c.Bytes(affine(c, withZero)))

			fromZero := c.Identity(cs)
			assert.Equal(t, ResultZero, c.Add(ws, fromZero, p))
			assert.Equal(t, c.Bytes(affine(c, p)), c.Bytes(affine(c, fromZero)))

			zero := c.Identity(cs)
			assert.Equal(t, ResultZero, c.Double(ws, zero))
			assert.True(t, zero.IsIdentity())
			assert.Equal(t, ResultZero, c.Add(ws, zero, c.Identity(cs)))
			assert.True(t, zero.IsIdentity())

			negZero := c.Identity(cs)
			c.Negate(negZero)
			assert.True(t, negZero.IsIdentity())
		})
	}
}

func TestCoordinateConversion(t *testing.T) {
	c := engine(t, curve.Secp384r1)
	ws := c.NewWorkspace()
	defer ws.Release()

	p := randomPoint(t, c)
	q := p.Clone()
	c.ToProjective(q)
	assert.Equal(t, Projective, q.Coords)
	c.ToProjective(q)
	c.ToAffine(ws, q)
	assert.Equal(t, Affine, q.Coords)
	assert.True(t, p.Equal(q))

	z := c.Identity(Affine)
	c.ToProjective(z)
	assert.True(t, z.IsIdentity())
	c.ToAffine(ws, z)
	assert.True(t, z.IsIdentity())
	assert.False(t, c.IsOnCurve(z))
}

func TestWindowMatchesBinary(t *testing.T) {
	for _, id := range []curve.ID{curve.Secp192r1, curve.Secp256r1, curve.Secp256k1} {
		t.Run(id.String(), func(t *testing.T) {
			c := engine(t, id)
			ws := c.NewWorkspace()
			defer ws.Release()

			g := c.Generator()
			c.ToProjective(g)
			table := c.NewWindowTable(ws, g)
			defer c.ClearWindowTable(table)
			require.Equal(t, 1<<WindowBits, table.Len())
			assert.True(t, table.At(0).IsIdentity())

			for _, k := range []*big.Int{big.NewInt(0), big.NewInt(1), big.NewInt(15), big.NewInt(16), randomScalar(t, c)} {
				s := secretOf(t, c, k)
				win := c.ScalarMultWindow(ws, table, s, c.Params().OrderBits)
				c.ToAffine(ws, win)
				bin := c.ScalarBaseMult(ws, s, scalar.Binary, Projective)
				assert.True(t, bin.Equal(win), "k=%s", k)
			}
		})
	}
}

func TestPointFromBytes(t *testing.T) {
	c := engine(t, curve.Secp224r1)
	g := c.Generator()
	enc := c.Bytes(g)

	p, err := c.PointFromBytes(enc)
	require.NoError(t, err)
	assert.True(t, p.Equal(g))
	assert.Equal(t, enc[:c.Params().Bytes], c.XBytes(p))

	bad := bytes.Clone(enc)
	bad[len(bad)-1] ^= 1
	_, err = c.PointFromBytes(bad)
	assert.ErrorIs(t, err, ErrInvalidPoint)

	_, err = c.PointFromBytes(enc[1:])
	assert.ErrorIs(t, err, ErrInvalidPoint)

	_, err = c.PointFromBytes(make([]byte, len(enc)))
	assert.ErrorIs(t, err, ErrInvalidPoint)

	wide := bytes.Repeat([]byte{0xff}, len(enc))
	_, err = c.PointFromBytes(wide)
	assert.ErrorIs(t, err, ErrInvalidPoint)
}

func TestWorkspaceRelease(t *testing.T) {
	c := engine(t, curve.Secp256r1)
	ws := c.NewWorkspace()
	p := randomPoint(t, c)
	c.ToProjective(p)
	c.Add(ws, p, p.Clone())
	c.ToAffine(ws, p)

	nonZero := 0
	for _, n := range ws.elements() {
		if n.EqZero() == 0 {
			nonZero++
		}
	}
	require.NotZero(t, nonZero)

	ws.Release()
	for i, n := range ws.elements() {
		assert.Equal(t, 1, int(n.EqZero()), "element %d", i)
	}
}

func TestResultString(t *testing.T) {
	assert.Equal(t, "ok", ResultOK.String())
	assert.Equal(t, "zero", ResultZero.String())
	assert.Equal(t, "infinity", ResultInfinity.String())
	assert.Equal(t, "double", ResultDouble.String())
	assert.Equal(t, "projective", Projective.String())
}
