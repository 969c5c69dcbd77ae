// Package curve is the registry of supported short Weierstrass curves
// y² = x³ + ax + b over prime fields.
//
// Parameters are built once at package initialization from big-endian hex
// constants and are read-only afterwards, so a *Params may be shared by any
// number of goroutines.
package curve

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/cronokirby/safenum"
	"github.com/pkg/errors"

	"github.com/rafaelescrich/go-ecsafe/field"
)

// ID selects one of the registered curves.
type ID int

// Supported curves.
const (
	Unknown ID = iota
	Secp192r1
	Secp224r1
	Secp256r1
	Secp384r1
	Secp521r1
	Secp256k1
)

// ErrUnsupportedCurve is returned for identifiers outside the registry.
var ErrUnsupportedCurve = errors.New("curve: unsupported curve")

var names = map[ID]string{
	Secp192r1: "secp192r1",
	Secp224r1: "secp224r1",
	Secp256r1: "secp256r1",
	Secp384r1: "secp384r1",
	Secp521r1: "secp521r1",
	Secp256k1: "secp256k1",
}

var aliases = map[string]ID{
	"p-192":      Secp192r1,
	"p-224":      Secp224r1,
	"p-256":      Secp256r1,
	"prime256v1": Secp256r1,
	"p-384":      Secp384r1,
	"p-521":      Secp521r1,
}

// String returns the SEC 2 name of the curve.
func (id ID) String() string {
	if n, ok := names[id]; ok {
		return n
	}
	return fmt.Sprintf("curve(%d)", int(id))
}

// ParseID maps a SEC 2 name or NIST alias to an ID.
func ParseID(s string) (ID, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for id, n := range names {
		if n == s {
			return id, nil
		}
	}
	if id, ok := aliases[s]; ok {
		return id, nil
	}
	return Unknown, errors.Wrapf(ErrUnsupportedCurve, "%q", s)
}

// IDs lists every registered curve in ascending order.
func IDs() []ID {
	return []ID{Secp192r1, Secp224r1, Secp256r1, Secp384r1, Secp521r1, Secp256k1}
}

// Params holds the constants of one curve.
type Params struct {
	ID   ID
	Name string

	// Bits and Bytes give the size of p; Limbs counts the 64-bit words of a
	// secret scalar.
	Bits  int
	Bytes int
	Limbs int

	P    *safenum.Modulus
	PNat *safenum.Nat
	// A is the curve coefficient reduced modulo p. B is kept only to
	// validate points received from outside; the group law never reads it.
	A *safenum.Nat
	B *safenum.Nat

	Gx, Gy *safenum.Nat

	N         *safenum.Modulus
	NNat      *safenum.Nat
	OrderBits int

	// PInv is floor(256^(2·Bytes) / p), the Barrett constant for p.
	PInv *safenum.Nat

	Field *field.Field
}

// Lookup returns the parameters registered for id.
func Lookup(id ID) (*Params, error) {
	if p, ok := registry[id]; ok {
		return p, nil
	}
	return nil, errors.Wrapf(ErrUnsupportedCurve, "%s", id)
}

// MustLookup is Lookup for identifiers known to be valid.
func MustLookup(id ID) *Params {
	p, err := Lookup(id)
	if err != nil {
		panic(err)
	}
	return p
}

type definition struct {
	id      ID
	bits    int
	p, a, b string
	gx, gy  string
	n       string
	pInv    string
	reducer func(*safenum.Modulus) field.Reducer
}

func natFromHex(s string) *safenum.Nat {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(fmt.Sprintf("curve: bad constant %q: %v", s, err))
	}
	return new(safenum.Nat).SetBytes(b)
}

func build(d definition) *Params {
	pNat := natFromHex(d.p)
	p := safenum.ModulusFromNat(pNat)
	nNat := natFromHex(d.n)
	n := safenum.ModulusFromNat(nNat)
	pInv := natFromHex(d.pInv)

	var r field.Reducer
	if d.reducer != nil {
		r = d.reducer(p)
	} else {
		r = field.NewBarrett(pNat, pInv)
	}

	reduce := func(x *safenum.Nat) *safenum.Nat { return x.Mod(x, p) }
	return &Params{
		ID:        d.id,
		Name:      d.id.String(),
		Bits:      d.bits,
		Bytes:     (d.bits + 7) / 8,
		Limbs:     (d.bits + 63) / 64,
		P:         p,
		PNat:      pNat,
		A:         reduce(natFromHex(d.a)),
		B:         reduce(natFromHex(d.b)),
		Gx:        reduce(natFromHex(d.gx)),
		Gy:        reduce(natFromHex(d.gy)),
		N:         n,
		NNat:      nNat,
		OrderBits: n.BitLen(),
		PInv:      pInv,
		Field:     field.New(pNat, r),
	}
}
