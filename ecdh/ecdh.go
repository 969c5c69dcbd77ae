// Package ecdh implements elliptic-curve Diffie-Hellman over the curves of
// package curve.
//
// Public shares and shared values use the fixed-width wire encoding of
// package group: x‖y, or x alone when Options.Final is set.
package ecdh

import (
	"github.com/pkg/errors"

	"github.com/rafaelescrich/go-ecsafe/group"
	"github.com/rafaelescrich/go-ecsafe/scalar"
)

var (
	// ErrInvalidPrivateKey is returned for secrets outside [1, n-1].
	ErrInvalidPrivateKey = errors.New("ecdh: invalid private key")
	// ErrInvalidPublicKey is returned for peer shares that do not decode
	// to a point on the curve.
	ErrInvalidPublicKey = errors.New("ecdh: invalid public key")
	// ErrInvalidSharedSecret is returned when the agreement yields the
	// identity.
	ErrInvalidSharedSecret = errors.New("ecdh: shared secret is the identity")
)

// Options selects how the scalar multiplication runs and how the result is
// encoded. The zero value uses binary digits in affine coordinates and emits
// both coordinates.
type Options struct {
	Mode   scalar.Mode
	Coords group.Coords
	// Final emits only the x coordinate of a shared point.
	Final bool
}

// Encapsulate returns the public share secret·G encoded as x‖y.
func Encapsulate(c *group.Curve, ws *group.Workspace, secret *scalar.Secret, opts Options) ([]byte, error) {
	if !secret.InRange(c.Params().N) {
		return nil, ErrInvalidPrivateKey
	}
	pub := c.ScalarBaseMult(ws, secret, opts.Mode, opts.Coords)
	return c.Bytes(pub), nil
}

// Decapsulate returns secret·peer, where peer is an x‖y encoded public
// share. The point is checked against the curve equation before use.
func Decapsulate(c *group.Curve, ws *group.Workspace, secret *scalar.Secret, peer []byte, opts Options) ([]byte, error) {
	if !secret.InRange(c.Params().N) {
		return nil, ErrInvalidPrivateKey
	}
	q, err := c.PointFromBytes(peer)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidPublicKey, err.Error())
	}

	shared := c.Multiply(ws, q, secret, opts.Mode, opts.Coords)
	defer c.Reset(shared)
	if shared.IsIdentity() {
		return nil, ErrInvalidSharedSecret
	}
	if opts.Final {
		return c.XBytes(shared), nil
	}
	return c.Bytes(shared), nil
}
