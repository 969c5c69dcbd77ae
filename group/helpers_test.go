package group

import (
	"crypto/rand"
	"math/big"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/rafaelescrich/go-ecsafe/curve"
	"github.com/rafaelescrich/go-ecsafe/scalar"
)

type vector struct {
	Curve string `yaml:"curve"`
	K     string `yaml:"k"`
	X     string `yaml:"x"`
	Y     string `yaml:"y"`
}

func loadVectors(t *testing.T) []vector {
	raw, err := os.ReadFile("testdata/vectors.yaml")
	require.NoError(t, err)
	var doc struct {
		Vectors []vector `yaml:"vectors"`
	}
	require.NoError(t, yaml.Unmarshal(raw, &doc))
	require.NotEmpty(t, doc.Vectors)
	return doc.Vectors
}

func engine(t testing.TB, id curve.ID) *Curve {
	params, err := curve.Lookup(id)
	require.NoError(t, err)
	return New(params)
}

func secretOf(t testing.TB, c *Curve, k *big.Int) *scalar.Secret {
	s, err := scalar.FromBytes(k.Bytes(), c.Params().Limbs)
	require.NoError(t, err)
	return s
}

func secretHex(t testing.TB, c *Curve, h string) *scalar.Secret {
	k, ok := new(big.Int).SetString(h, 16)
	require.True(t, ok, h)
	return secretOf(t, c, k)
}

func order(c *Curve) *big.Int {
	return new(big.Int).SetBytes(c.Params().NNat.Bytes())
}

func randomScalar(t testing.TB, c *Curve) *big.Int {
	n := order(c)
	k, err := rand.Int(rand.Reader, new(big.Int).Sub(n, big.NewInt(1)))
	require.NoError(t, err)
	return k.Add(k, big.NewInt(1))
}

// randomPoint returns k·G for a random k, in affine coordinates.
func randomPoint(t testing.TB, c *Curve) *Point {
	ws := c.NewWorkspace()
	defer ws.Release()
	return c.ScalarBaseMult(ws, secretOf(t, c, randomScalar(t, c)), scalar.NAF, Projective)
}

func affine(c *Curve, p *Point) *Point {
	q := p.Clone()
	ws := c.NewWorkspace()
	c.ToAffine(ws, q)
	return q
}
