package ecsafe

import (
	"github.com/pkg/errors"

	"github.com/rafaelescrich/go-ecsafe/curve"
	"github.com/rafaelescrich/go-ecsafe/group"
	"github.com/rafaelescrich/go-ecsafe/scalar"
)

// PublicKey is a validated point on a curve.
type PublicKey struct {
	id    curve.ID
	point *group.Point
	enc   []byte
}

// PrivateKey is a secret scalar in [1, n-1] and its public key.
type PrivateKey struct {
	d   *scalar.Secret
	pub *PublicKey
}

func (c *Context) newPrivateKey(d *scalar.Secret) (*PrivateKey, error) {
	ws := c.curve.NewWorkspace()
	defer ws.Release()

	q, err := c.publicPoint(ws, d)
	if err != nil {
		d.Clear()
		return nil, err
	}
	return &PrivateKey{
		d:   d,
		pub: &PublicKey{id: c.id, point: q, enc: c.curve.Bytes(q)},
	}, nil
}

// PrivateKeyFromBytes decodes a big-endian private key of exactly the
// curve's byte length.
func (c *Context) PrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	if len(b) != c.params.Bytes {
		return nil, errors.Wrapf(ErrInvalidPrivateKey, "length %d, want %d", len(b), c.params.Bytes)
	}
	d, err := scalar.FromBytes(b, c.params.Limbs)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidPrivateKey, err.Error())
	}
	if !d.InRange(c.params.N) {
		d.Clear()
		return nil, errors.Wrap(ErrInvalidPrivateKey, "not in [1, n-1]")
	}
	return c.newPrivateKey(d)
}

// PublicKeyFromBytes decodes and validates an x‖y public key.
func (c *Context) PublicKeyFromBytes(b []byte) (*PublicKey, error) {
	q, err := c.curve.PointFromBytes(b)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidPublicKey, err.Error())
	}
	return &PublicKey{id: c.id, point: q, enc: append([]byte(nil), b...)}, nil
}

// Public returns the public half of the key pair.
func (k *PrivateKey) Public() *PublicKey { return k.pub }

// Bytes returns the big-endian private scalar at the curve's byte length,
// or nil once the key has been cleared.
func (k *PrivateKey) Bytes() []byte {
	if k.d == nil {
		return nil
	}
	return k.d.Bytes(curve.MustLookup(k.pub.id).Bytes)
}

// Clear overwrites the private scalar. The key is unusable afterwards.
func (k *PrivateKey) Clear() {
	if k == nil || k.d == nil {
		return
	}
	k.d.Clear()
	k.d = nil
}

// Curve returns the curve of the key.
func (k *PublicKey) Curve() curve.ID { return k.id }

// Bytes returns x‖y.
func (k *PublicKey) Bytes() []byte {
	return append([]byte(nil), k.enc...)
}
