package prng

import (
	"bytes"
	"encoding/hex"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func seed() [32]byte {
	var s [32]byte
	for i := range s {
		s[i] = byte(i)
	}
	return s
}

func TestChaCha20KeystreamPrefix(t *testing.T) {
	g, err := NewChaCha20(seed())
	require.NoError(t, err)

	out := make([]byte, 32)
	_, err = io.ReadFull(g, out)
	require.NoError(t, err)
	assert.Equal(t, "39fd2b7dd9c5196a8dbd0377b8dc4a498a35d86fbcde6accb2cc7d4cd8ea2492", hex.EncodeToString(out))
}

func TestChaCha20ChunkingDoesNotMatter(t *testing.T) {
	a, err := NewChaCha20(seed())
	require.NoError(t, err)
	b, err := NewChaCha20(seed())
	require.NoError(t, err)

	whole := make([]byte, 200)
	_, err = a.Read(whole)
	require.NoError(t, err)

	var pieces []byte
	for _, n := range []int{1, 63, 64, 7, 65} {
		buf := bytes.Repeat([]byte{0xaa}, n)
		_, err := b.Read(buf)
		require.NoError(t, err)
		pieces = append(pieces, buf...)
	}
	assert.Equal(t, whole, pieces)
}

func TestChaCha20ConcurrentReads(t *testing.T) {
	g, err := NewChaCha20(seed())
	require.NoError(t, err)
	ref, err := NewChaCha20(seed())
	require.NoError(t, err)

	const workers, chunk = 8, 32
	var (
		mu   sync.Mutex
		seen = map[string]bool{}
	)
	var eg errgroup.Group
	for i := 0; i < workers; i++ {
		eg.Go(func() error {
			buf := make([]byte, chunk)
			if _, err := g.Read(buf); err != nil {
				return err
			}
			mu.Lock()
			seen[hex.EncodeToString(buf)] = true
			mu.Unlock()
			return nil
		})
	}
	require.NoError(t, eg.Wait())

	// Every read got its own slice of the stream.
	for i := 0; i < workers; i++ {
		buf := make([]byte, chunk)
		_, err := ref.Read(buf)
		require.NoError(t, err)
		assert.True(t, seen[hex.EncodeToString(buf)], "chunk %d", i)
	}
}

func TestDefault(t *testing.T) {
	buf := make([]byte, 32)
	_, err := io.ReadFull(Default(), buf)
	require.NoError(t, err)
	assert.NotEqual(t, make([]byte, 32), buf)
}
