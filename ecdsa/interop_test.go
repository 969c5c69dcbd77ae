package ecdsa

import (
	stdecdsa "crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"math/big"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rafaelescrich/go-ecsafe/curve"
	"github.com/rafaelescrich/go-ecsafe/group"
	"github.com/rafaelescrich/go-ecsafe/scalar"
)

func TestStdlibInterop(t *testing.T) {
	cases := []struct {
		id  curve.ID
		std elliptic.Curve
	}{
		{curve.Secp224r1, elliptic.P224()},
		{curve.Secp256r1, elliptic.P256()},
		{curve.Secp384r1, elliptic.P384()},
		{curve.Secp521r1, elliptic.P521()},
	}
	for _, tc := range cases {
		t.Run(tc.id.String(), func(t *testing.T) {
			c := engine(t, tc.id)
			ws := c.NewWorkspace()
			defer ws.Release()
			size := c.Params().Bytes

			priv, err := stdecdsa.GenerateKey(tc.std, rand.Reader)
			require.NoError(t, err)
			d, err := scalar.FromBytes(priv.D.FillBytes(make([]byte, size)), c.Params().Limbs)
			require.NoError(t, err)
			q, err := c.PointFromBytes(append(priv.X.FillBytes(make([]byte, size)), priv.Y.FillBytes(make([]byte, size))...))
			require.NoError(t, err)

			sum := sha512.Sum512([]byte("interop " + tc.id.String()))
			digest := sum[:]

			// Theirs verified by ours.
			r, s, err := stdecdsa.Sign(rand.Reader, priv, digest)
			require.NoError(t, err)
			theirs, err := ParseSignature(c, append(r.FillBytes(make([]byte, size)), s.FillBytes(make([]byte, size))...))
			require.NoError(t, err)
			assert.True(t, Verify(c, ws, q, digest, theirs))

			// Ours verified by theirs.
			ours, _, err := Sign(c, ws, rand.Reader, d, digest, Options{Mode: scalar.NAF, Coords: group.Projective})
			require.NoError(t, err)
			assert.True(t, stdecdsa.Verify(&priv.PublicKey, digest,
				new(big.Int).SetBytes(ours.R()), new(big.Int).SetBytes(ours.S())))
		})
	}
}

func TestSecp256k1VerifiesUnderBtcec(t *testing.T) {
	c := engine(t, curve.Secp256k1)
	ws := c.NewWorkspace()
	defer ws.Release()

	for i := 0; i < 3; i++ {
		d, q := keyPair(t, c, ws)
		sum := sha256.Sum256([]byte{byte(i), 'k', '1'})
		digest := sum[:]

		sig, _, err := Sign(c, ws, rand.Reader, d, digest, Options{Mode: scalar.NAF, Coords: group.Projective})
		require.NoError(t, err)

		pub, err := btcec.ParsePubKey(append([]byte{0x04}, c.Bytes(q)...))
		require.NoError(t, err)

		var r, s btcec.ModNScalar
		require.False(t, r.SetByteSlice(sig.R()))
		require.False(t, s.SetByteSlice(sig.S()))
		assert.True(t, btcecdsa.NewSignature(&r, &s).Verify(digest, pub))

		// The btcec key derived from the same secret has the same public
		// point, and its signatures verify here.
		priv, btcPub := btcec.PrivKeyFromBytes(d.Bytes(32))
		assert.Equal(t, pub.SerializeUncompressed(), btcPub.SerializeUncompressed())

		der := btcecdsa.Sign(priv, digest).Serialize()
		parsed, err := btcecdsa.ParseDERSignature(der)
		require.NoError(t, err)
		assert.True(t, parsed.Verify(digest, btcPub))

		theirs, err := ParseSignature(c, derToCompact(t, der))
		require.NoError(t, err)
		assert.True(t, Verify(c, ws, q, digest, theirs))
	}
}

// derToCompact unpacks a DER ECDSA signature into r‖s at 32 bytes each.
func derToCompact(t *testing.T, der []byte) []byte {
	require.True(t, len(der) > 8 && der[0] == 0x30)
	out := make([]byte, 64)
	off := 2
	for i := 0; i < 2; i++ {
		require.Equal(t, byte(0x02), der[off])
		n := int(der[off+1])
		v := new(big.Int).SetBytes(der[off+2 : off+2+n])
		v.FillBytes(out[32*i : 32*(i+1)])
		off += 2 + n
	}
	return out
}
