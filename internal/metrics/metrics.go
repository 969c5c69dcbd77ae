// Package metrics defines the prometheus counters exported by the library.
package metrics

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ecsafe"

// CounterOpts describes one counter vector.
type CounterOpts struct {
	Name       string
	Help       string
	LabelNames []string
}

var (
	scalarMultsOpts = CounterOpts{
		Name:       "scalar_mults_total",
		Help:       "Constant-time scalar multiplications performed.",
		LabelNames: []string{"curve", "mode"},
	}
	signRestartsOpts = CounterOpts{
		Name:       "sign_restarts_total",
		Help:       "Signing attempts discarded because r or s was zero.",
		LabelNames: []string{"curve"},
	}
	verifyOpts = CounterOpts{
		Name:       "verify_total",
		Help:       "Signature verifications by outcome.",
		LabelNames: []string{"curve", "result"},
	}
	keygenRedrawsOpts = CounterOpts{
		Name:       "keygen_redraws_total",
		Help:       "Random draws rejected while sampling a private key.",
		LabelNames: []string{"curve"},
	}
)

// Metrics holds the counters. A nil *Metrics records nothing.
type Metrics struct {
	scalarMults   *prometheus.CounterVec
	signRestarts  *prometheus.CounterVec
	verifications *prometheus.CounterVec
	keygenRedraws *prometheus.CounterVec
}

// New registers the counters on reg. Counters already registered by an
// earlier call on the same registerer are reused. A nil reg returns nil.
func New(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		return nil, nil
	}
	m := &Metrics{}
	for _, c := range []struct {
		dst  **prometheus.CounterVec
		opts CounterOpts
	}{
		{&m.scalarMults, scalarMultsOpts},
		{&m.signRestarts, signRestartsOpts},
		{&m.verifications, verifyOpts},
		{&m.keygenRedraws, keygenRedrawsOpts},
	} {
		vec, err := register(reg, c.opts)
		if err != nil {
			return nil, err
		}
		*c.dst = vec
	}
	return m, nil
}

func register(reg prometheus.Registerer, o CounterOpts) (*prometheus.CounterVec, error) {
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      o.Name,
		Help:      o.Help,
	}, o.LabelNames)

	err := reg.Register(vec)
	if err == nil {
		return vec, nil
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
			return existing, nil
		}
	}
	return nil, errors.Wrapf(err, "registering %s_%s", namespace, o.Name)
}

// ScalarMult counts one scalar multiplication.
func (m *Metrics) ScalarMult(curve, mode string) {
	if m == nil {
		return
	}
	m.scalarMults.WithLabelValues(curve, mode).Inc()
}

// SignRestarts adds n discarded signing attempts.
func (m *Metrics) SignRestarts(curve string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.signRestarts.WithLabelValues(curve).Add(float64(n))
}

// Verify counts one verification with its outcome.
func (m *Metrics) Verify(curve string, ok bool) {
	if m == nil {
		return
	}
	result := "reject"
	if ok {
		result = "accept"
	}
	m.verifications.WithLabelValues(curve, result).Inc()
}

// KeygenRedraws adds n rejected key draws.
func (m *Metrics) KeygenRedraws(curve string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.keygenRedraws.WithLabelValues(curve).Add(float64(n))
}
