// Package metrics counts authentication outcomes of the client.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels.
const (
	OutcomeOK           = "ok"
	OutcomeNoSession    = "no_session"
	OutcomeRejected     = "rejected"
	OutcomeError        = "error"
	OutcomeInvalid      = "invalid"
	OutcomeUnauthorized = "unauthorized"
	OutcomeSuperseded   = "superseded"
)

// Auth holds the auth counters. A nil *Auth records nothing.
type Auth struct {
	logins      *prometheus.CounterVec
	validations *prometheus.CounterVec
	registers   *prometheus.CounterVec
}

// NewAuth creates the counters and registers them on reg.
func NewAuth(reg prometheus.Registerer) (*Auth, error) {
	a := &Auth{
		logins: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "carrental_client_login_total",
				Help: "Login attempts by outcome",
			},
			[]string{"outcome"},
		),
		validations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "carrental_client_session_validation_total",
				Help: "Session validations by outcome",
			},
			[]string{"outcome"},
		),
		registers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "carrental_client_register_total",
				Help: "Registration attempts by outcome",
			},
			[]string{"outcome"},
		),
	}
	for _, c := range []prometheus.Collector{a.logins, a.validations, a.registers} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *Auth) Login(outcome string) {
	if a == nil {
		return
	}
	a.logins.WithLabelValues(outcome).Inc()
}

func (a *Auth) Validation(outcome string) {
	if a == nil {
		return
	}
	a.validations.WithLabelValues(outcome).Inc()
}

func (a *Auth) Register(outcome string) {
	if a == nil {
		return
	}
	a.registers.WithLabelValues(outcome).Inc()
}

// LoginCounter returns the login series for outcome.
func (a *Auth) LoginCounter(outcome string) prometheus.Counter {
	return a.logins.WithLabelValues(outcome)
}

// ValidationCounter returns the session validation series for outcome.
func (a *Auth) ValidationCounter(outcome string) prometheus.Counter {
	return a.validations.WithLabelValues(outcome)
}

// Handler exposes the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
