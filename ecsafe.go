// Package ecsafe provides constant-time ECDH key agreement and ECDSA
// signatures over the NIST prime curves secp192r1 through secp521r1, plus
// secp256k1.
//
// A Context fixes the curve and the way scalar multiplications run. It is
// immutable after New and may be shared between goroutines; every call
// allocates its own scratch workspace and overwrites it before returning.
package ecsafe

import (
	"hash"
	"io"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/rafaelescrich/go-ecsafe/curve"
	"github.com/rafaelescrich/go-ecsafe/ecdh"
	"github.com/rafaelescrich/go-ecsafe/ecdsa"
	"github.com/rafaelescrich/go-ecsafe/group"
	"github.com/rafaelescrich/go-ecsafe/internal/logging"
	"github.com/rafaelescrich/go-ecsafe/internal/metrics"
	"github.com/rafaelescrich/go-ecsafe/prng"
	"github.com/rafaelescrich/go-ecsafe/scalar"
)

// Common errors
var (
	ErrNilKey            = errors.New("ecsafe: nil key")
	ErrCurveMismatch     = errors.New("ecsafe: key belongs to another curve")
	ErrInvalidPrivateKey = errors.New("ecsafe: invalid private key")
	ErrInvalidPublicKey  = errors.New("ecsafe: invalid public key")
)

// Context holds the curve and configuration for all operations.
type Context struct {
	id     curve.ID
	params *curve.Params
	curve  *group.Curve

	mode   scalar.Mode
	coords group.Coords
	final  bool
	rand   io.Reader

	// table holds 0·G ... 15·G when fixed-window base multiplication is
	// enabled.
	table  *group.WindowTable
	window bool

	logger  *zap.Logger
	reg     prometheus.Registerer
	metrics *metrics.Metrics
}

// Option configures a Context.
type Option func(*Context) error

// WithCurve selects the curve. The default is secp256r1.
func WithCurve(id curve.ID) Option {
	return func(c *Context) error {
		if _, err := curve.Lookup(id); err != nil {
			return err
		}
		c.id = id
		return nil
	}
}

// WithDigitMode selects binary or NAF digits. The default is NAF.
func WithDigitMode(m scalar.Mode) Option {
	return func(c *Context) error {
		switch m {
		case scalar.Binary, scalar.NAF:
			c.mode = m
			return nil
		default:
			return errors.Wrapf(scalar.ErrUnknownMode, "%d", m)
		}
	}
}

// WithCoords selects the coordinate system scalar multiplications run in.
// The default is Projective.
func WithCoords(coords group.Coords) Option {
	return func(c *Context) error {
		switch coords {
		case group.Affine, group.Projective:
			c.coords = coords
			return nil
		default:
			return errors.Errorf("ecsafe: unknown coordinate system %d", coords)
		}
	}
}

// WithRand sets the source for private keys and signing nonces. The default
// is crypto/rand.
func WithRand(r io.Reader) Option {
	return func(c *Context) error {
		if r == nil {
			return errors.New("ecsafe: nil random source")
		}
		c.rand = r
		return nil
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *Context) error {
		if l != nil {
			c.logger = l
		}
		return nil
	}
}

// WithRegisterer registers the library counters on reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(c *Context) error {
		c.reg = reg
		return nil
	}
}

// WithFinalEncoding makes Decapsulate return only the x coordinate of the
// shared point.
func WithFinalEncoding(final bool) Option {
	return func(c *Context) error {
		c.final = final
		return nil
	}
}

// WithFixedWindow computes multiples of the base point with a precomputed
// 4-bit window table instead of the digit stream. Every window of the
// scalar is processed, so the loop length does not depend on leading zero
// bits.
func WithFixedWindow(enabled bool) Option {
	return func(c *Context) error {
		c.window = enabled
		return nil
	}
}

// New returns a Context configured by opts.
func New(opts ...Option) (*Context, error) {
	c := &Context{
		id:     curve.Secp256r1,
		mode:   scalar.NAF,
		coords: group.Projective,
		rand:   prng.Default(),
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	params, err := curve.Lookup(c.id)
	if err != nil {
		return nil, err
	}
	c.params = params
	c.curve = group.New(params)
	c.logger = c.logger.With(zap.String("curve", params.Name))

	if c.metrics, err = metrics.New(c.reg); err != nil {
		return nil, err
	}

	if c.window {
		ws := c.curve.NewWorkspace()
		g := c.curve.Generator()
		c.curve.ToProjective(g)
		c.table = c.curve.NewWindowTable(ws, g)
		ws.Release()
	}

	c.logger.Debug("context ready",
		zap.Stringer("mode", c.mode),
		zap.Stringer("coords", c.coords),
		zap.Bool("final", c.final),
		zap.Bool("window", c.window))
	return c, nil
}

// Curve returns the curve of the context.
func (c *Context) Curve() curve.ID { return c.id }

// Params returns the curve parameters.
func (c *Context) Params() *curve.Params { return c.params }

func (c *Context) ecdhOptions() ecdh.Options {
	return ecdh.Options{Mode: c.mode, Coords: c.coords, Final: c.final}
}

func (c *Context) ecdsaOptions() ecdsa.Options {
	return ecdsa.Options{Mode: c.mode, Coords: c.coords}
}

func (c *Context) countMult() {
	mode := c.mode.String()
	if c.table != nil {
		mode = "window"
	}
	c.metrics.ScalarMult(c.params.Name, mode)
}

// publicPoint computes d·G.
func (c *Context) publicPoint(ws *group.Workspace, d *scalar.Secret) (*group.Point, error) {
	c.countMult()
	if c.table != nil {
		p := c.curve.ScalarMultWindow(ws, c.table, d, c.params.OrderBits)
		c.curve.ToAffine(ws, p)
		return p, nil
	}
	enc, err := ecdh.Encapsulate(c.curve, ws, d, c.ecdhOptions())
	if err != nil {
		return nil, errors.Wrap(ErrInvalidPrivateKey, err.Error())
	}
	return c.curve.PointFromBytes(enc)
}

// GenerateKey draws a private key uniformly from [1, n-1].
func (c *Context) GenerateKey() (*PrivateKey, error) {
	d, redraws, err := scalar.Sample(c.rand, c.params.N, c.params.Limbs)
	c.metrics.KeygenRedraws(c.params.Name, redraws)
	if redraws > 0 {
		c.logger.Debug("private key redrawn", zap.Int("redraws", redraws))
	}
	if err != nil {
		return nil, errors.Wrap(err, "generating private key")
	}
	return c.newPrivateKey(d)
}

// Encapsulate generates an ephemeral key pair and returns it with the
// encoded public share x‖y.
func (c *Context) Encapsulate() (*PrivateKey, []byte, error) {
	priv, err := c.GenerateKey()
	if err != nil {
		return nil, nil, err
	}
	return priv, priv.Public().Bytes(), nil
}

// Decapsulate derives the shared value from priv and the peer's encoded
// public share.
func (c *Context) Decapsulate(priv *PrivateKey, peer []byte) ([]byte, error) {
	if err := c.checkPrivate(priv); err != nil {
		return nil, err
	}
	ws := c.curve.NewWorkspace()
	defer ws.Release()

	c.countMult()
	shared, err := ecdh.Decapsulate(c.curve, ws, priv.d, peer, c.ecdhOptions())
	if err != nil {
		c.logger.Debug("decapsulation rejected", zap.Error(err))
		return nil, err
	}
	return shared, nil
}

// Sign signs digest with priv using a nonce drawn from the context's random
// source and returns r‖s.
func (c *Context) Sign(priv *PrivateKey, digest []byte) ([]byte, error) {
	if err := c.checkPrivate(priv); err != nil {
		return nil, err
	}
	ws := c.curve.NewWorkspace()
	defer ws.Release()

	sig, restarts, err := ecdsa.Sign(c.curve, ws, c.rand, priv.d, digest, c.ecdsaOptions())
	return c.finishSign(sig, restarts, err)
}

// SignDeterministic signs digest with priv using the RFC 6979 nonce for
// the hash h and returns r‖s.
func (c *Context) SignDeterministic(priv *PrivateKey, h func() hash.Hash, digest []byte) ([]byte, error) {
	if err := c.checkPrivate(priv); err != nil {
		return nil, err
	}
	ws := c.curve.NewWorkspace()
	defer ws.Release()

	sig, restarts, err := ecdsa.SignDeterministic(c.curve, ws, h, priv.d, digest, c.ecdsaOptions())
	return c.finishSign(sig, restarts, err)
}

func (c *Context) finishSign(sig *ecdsa.Signature, restarts int, err error) ([]byte, error) {
	for i := 0; i <= restarts; i++ {
		c.countMult()
	}
	c.metrics.SignRestarts(c.params.Name, restarts)
	if restarts > 0 {
		c.logger.Debug("signing restarted", zap.Int("restarts", restarts))
	}
	if err != nil {
		return nil, err
	}
	return sig.Bytes(), nil
}

// Verify reports whether sig (r‖s) is a valid signature of digest by pub.
func (c *Context) Verify(pub *PublicKey, digest, sig []byte) bool {
	ok, reason := c.verify(pub, digest, sig)
	c.metrics.Verify(c.params.Name, ok)
	if !ok {
		c.logger.Debug("signature rejected", zap.String("reason", reason))
	}
	return ok
}

func (c *Context) verify(pub *PublicKey, digest, sig []byte) (bool, string) {
	if pub == nil {
		return false, "nil public key"
	}
	if pub.id != c.id {
		return false, "curve mismatch"
	}
	parsed, err := ecdsa.ParseSignature(c.curve, sig)
	if err != nil {
		return false, err.Error()
	}
	ws := c.curve.NewWorkspace()
	defer ws.Release()

	c.countMult()
	c.countMult()
	if !ecdsa.Verify(c.curve, ws, pub.point, digest, parsed) {
		return false, "equation does not hold"
	}
	return true, ""
}

func (c *Context) checkPrivate(priv *PrivateKey) error {
	if priv == nil || priv.d == nil {
		return ErrNilKey
	}
	if priv.pub.id != c.id {
		return errors.Wrapf(ErrCurveMismatch, "%s key on %s context", priv.pub.id, c.id)
	}
	return nil
}
