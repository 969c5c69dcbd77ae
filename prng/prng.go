// Package prng provides the random sources used for key generation and
// signing nonces.
package prng

import (
	"crypto/rand"
	"io"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/crypto/chacha20"

	"github.com/rafaelescrich/go-ecsafe/ct"
)

// Default returns the operating system's CSPRNG.
func Default() io.Reader {
	return rand.Reader
}

// ChaCha20 is a deterministic generator that emits the ChaCha20 keystream
// of a 32-byte seed with a zero nonce, starting at block 0. It is safe for
// concurrent use. Callers that share one generator across goroutines get
// disjoint parts of the stream, in whatever order the reads are scheduled.
type ChaCha20 struct {
	mu     sync.Mutex
	cipher *chacha20.Cipher
}

// NewChaCha20 returns a generator keyed by seed.
func NewChaCha20(seed [32]byte) (*ChaCha20, error) {
	nonce := make([]byte, chacha20.NonceSize)
	c, err := chacha20.NewUnauthenticatedCipher(seed[:], nonce)
	ct.Zeroize(seed[:])
	if err != nil {
		return nil, errors.Wrap(err, "creating chacha20 cipher")
	}
	return &ChaCha20{cipher: c}, nil
}

// Read fills p with the next len(p) keystream bytes.
func (g *ChaCha20) Read(p []byte) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	ct.Zeroize(p)
	g.cipher.XORKeyStream(p, p)
	return len(p), nil
}
