package main

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	out := &bytes.Buffer{}
	cmd := newRootCmd(viper.New(), out)
	cmd.SetArgs(args)
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.Execute()
	return out.String(), err
}

func keygen(t *testing.T, args ...string) (priv, pub string) {
	out, err := run(t, append([]string{"keygen"}, args...)...)
	require.NoError(t, err)
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		fields := strings.Fields(line)
		require.Len(t, fields, 2)
		switch fields[0] {
		case "private":
			priv = fields[1]
		case "public":
			pub = fields[1]
		}
	}
	require.NotEmpty(t, priv)
	require.NotEmpty(t, pub)
	return priv, pub
}

func TestKeygenAndECDH(t *testing.T) {
	alice, alicePub := keygen(t, "--curve", "P-384")
	bob, bobPub := keygen(t, "--curve", "secp384r1", "--window")
	assert.Len(t, alice, 96)
	assert.Len(t, alicePub, 192)

	k1, err := run(t, "ecdh", "--curve", "secp384r1", "--private", alice, "--peer", bobPub, "--final")
	require.NoError(t, err)
	k2, err := run(t, "ecdh", "--curve", "secp384r1", "--mode", "binary", "--coords", "affine", "--private", bob, "--peer", alicePub, "--final")
	require.NoError(t, err)
	assert.Equal(t, k1, k2)
	assert.Len(t, strings.TrimSpace(k1), 96)
}

func TestSignAndVerify(t *testing.T) {
	const (
		priv = "c9afa9d845ba75166b5c215767b1d6934e50c3db36e89b127b8a622b120f6721"
		pub  = "60fed4ba255a9d31c961eb74c6356d68c049b8923b61fa6ce669622e60f29fb6" +
			"7903fe1008b8bc99a41ae9e95628bc64f2f1b20c2d7e9f5177a3c294d4462299"
	)
	sum := sha256.Sum256([]byte("sample"))
	digest := hex.EncodeToString(sum[:])

	sig, err := run(t, "sign", "--private", priv, "--digest", digest, "--deterministic", "sha256")
	require.NoError(t, err)
	sig = strings.TrimSpace(sig)
	assert.Equal(t,
		"efd48b2aacb6a8fd1140dd9cd45e81d69d2c877b56aaf991c34d0ea84eaf3716"+
			"f7cb1c942d657c41d436c7a1b6e29f65f3e900dbb9aff4064dc4ab2f843acda8", sig)

	out, err := run(t, "verify", "--public", pub, "--digest", digest, "--signature", sig)
	require.NoError(t, err)
	assert.Equal(t, "valid\n", out)

	random, err := run(t, "sign", "--private", priv, "--digest", digest)
	require.NoError(t, err)
	out, err = run(t, "verify", "--public", pub, "--digest", digest, "--signature", strings.TrimSpace(random))
	require.NoError(t, err)
	assert.Equal(t, "valid\n", out)

	bad := []byte(sig)
	bad[0] = 'a'
	out, err = run(t, "verify", "--public", pub, "--digest", digest, "--signature", string(bad))
	assert.ErrorIs(t, err, errInvalidSignature)
	assert.Equal(t, "invalid\n", out)
}

func TestEnvironmentOverridesDefaults(t *testing.T) {
	t.Setenv("ECSAFE_CURVE", "secp192r1")
	t.Setenv("ECSAFE_LOG_FORMAT", "json")
	priv, pub := keygen(t)
	assert.Len(t, priv, 48)
	assert.Len(t, pub, 96)
	_, ok := os.LookupEnv("ECSAFE_CURVE")
	assert.True(t, ok)
}

func TestUsageErrors(t *testing.T) {
	_, err := run(t, "keygen", "--curve", "secp160r1")
	assert.Error(t, err)

	_, err = run(t, "keygen", "--mode", "ternary")
	assert.Error(t, err)

	_, err = run(t, "keygen", "--log-format", "xml")
	assert.Error(t, err)

	_, err = run(t, "sign", "--digest", "00")
	assert.Error(t, err)

	_, err = run(t, "sign", "--private", "zz", "--digest", "00")
	assert.Error(t, err)
}
