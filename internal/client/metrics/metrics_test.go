package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuth_Counts(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := NewAuth(reg)
	require.NoError(t, err)

	a.Login(OutcomeOK)
	a.Login(OutcomeOK)
	a.Login(OutcomeUnauthorized)
	a.Validation(OutcomeRejected)
	a.Register(OutcomeInvalid)

	assert.Equal(t, 2.0, testutil.ToFloat64(a.logins.WithLabelValues(OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(a.logins.WithLabelValues(OutcomeUnauthorized)))
	assert.Equal(t, 1.0, testutil.ToFloat64(a.validations.WithLabelValues(OutcomeRejected)))
	assert.Equal(t, 1.0, testutil.ToFloat64(a.registers.WithLabelValues(OutcomeInvalid)))

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestAuth_DoubleRegisterFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewAuth(reg)
	require.NoError(t, err)

	_, err = NewAuth(reg)
	assert.Error(t, err)
}

func TestAuth_NilIsNoop(t *testing.T) {
	var a *Auth
	assert.NotPanics(t, func() {
		a.Login(OutcomeOK)
		a.Validation(OutcomeError)
		a.Register(OutcomeOK)
	})
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := NewAuth(reg)
	require.NoError(t, err)
	a.Validation(OutcomeNoSession)

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `carrental_client_session_validation_total{outcome="no_session"} 1`)
}
