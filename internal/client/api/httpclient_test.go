package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/carrental-client/internal/client/session"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPClient_GetUser_SendsHeaders(t *testing.T) {
	cred := session.EncodeCredential("alice", "pw")

	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/users/42", r.URL.Path)
		assert.Equal(t, "Basic "+string(cred), r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		_, err := uuid.Parse(r.Header.Get(RequestIDHeader))
		assert.NoError(t, err)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"userId":42,"username":"alice","firstName":"Alice"}`))
	})

	c := NewHTTPClient(srv.URL + "/api/v1/")
	got, err := c.GetUser(context.Background(), 42, cred)
	require.NoError(t, err)
	assert.Equal(t, "alice", got["username"])
	assert.Equal(t, "Alice", got["firstName"])
	assert.EqualValues(t, 42, got["userId"])
}

func TestHTTPClient_Login_UsesServiceCredential(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/users/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, session.EncodeCredential("svc", "secret").Header(), r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{"username": "alice", "password": "pw"}, body)

		_, _ = w.Write([]byte(`{"userId":7}`))
	})

	c := NewHTTPClient(srv.URL, WithServiceCredential("svc", "secret"))
	got, err := c.Login(context.Background(), "alice", "pw")
	require.NoError(t, err)
	assert.EqualValues(t, 7, got["userId"])
}

func TestHTTPClient_Login_OnlyOKAccepted(t *testing.T) {
	for _, code := range []int{http.StatusCreated, http.StatusAccepted} {
		t.Run(http.StatusText(code), func(t *testing.T) {
			srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(code)
				_, _ = w.Write([]byte(`{"userId":42}`))
			})

			c := NewHTTPClient(srv.URL)
			got, err := c.Login(context.Background(), "bob", "pw")
			require.Error(t, err)
			assert.Nil(t, got)
			assert.ErrorIs(t, err, ErrService)
			assert.Equal(t, code, StatusCode(err))
		})
	}
}

func TestHTTPClient_CreateUser_AcceptsCreated(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"userId":9}`))
	})

	c := NewHTTPClient(srv.URL)
	got, err := c.CreateUser(context.Background(), CreateUserRequest{Username: "eve", Password: "pw"})
	require.NoError(t, err)
	assert.EqualValues(t, 9, got["userId"])
}

func TestHTTPClient_NoServiceCredential_NoAuthorizationHeader(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"userId":1}`))
	})

	c := NewHTTPClient(srv.URL)
	_, err := c.Login(context.Background(), "a", "b")
	require.NoError(t, err)
}

func TestHTTPClient_CreateUser_Body(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users", r.URL.Path)
		var body CreateUserRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, CreateUserRequest{
			FirstName: "Bob", LastName: "Smith", Username: "bob", Password: "pw", UserRole: "USER",
		}, body)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"userId":"9","username":"bob"}`))
	})

	c := NewHTTPClient(srv.URL)
	got, err := c.CreateUser(context.Background(), CreateUserRequest{
		FirstName: "Bob", LastName: "Smith", Username: "bob", Password: "pw", UserRole: "USER",
	})
	require.NoError(t, err)
	assert.Equal(t, "9", got["userId"])
}

func TestHTTPClient_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		code int
		want error
	}{
		{"unauthorized", http.StatusUnauthorized, ErrUnauthorized},
		{"forbidden", http.StatusForbidden, ErrUnauthorized},
		{"not found", http.StatusNotFound, ErrNotFound},
		{"server error", http.StatusInternalServerError, ErrService},
		{"bad request", http.StatusBadRequest, ErrService},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.code)
			})

			c := NewHTTPClient(srv.URL)
			_, err := c.GetUser(context.Background(), 1, "x")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.code, StatusCode(err))

			var se *StatusError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, "nope", se.Body)
		})
	}
}

func TestHTTPClient_MalformedBody(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	_, err := NewHTTPClient(srv.URL).GetUser(context.Background(), 1, "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrService)
	assert.Zero(t, StatusCode(err))
}

func TestHTTPClient_EmptyBody(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})

	_, err := NewHTTPClient(srv.URL).GetUser(context.Background(), 1, "x")
	assert.ErrorIs(t, err, ErrService)
}

func TestHTTPClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewHTTPClient(url).GetUser(context.Background(), 1, "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestHTTPClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	c := NewHTTPClient(srv.URL, WithTimeout(50*time.Millisecond))
	_, err := c.GetUser(context.Background(), 1, "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestHTTPClient_ContextCanceled(t *testing.T) {
	var hits atomic.Int32
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHTTPClient(srv.URL).GetUser(ctx, 1, "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, hits.Load())
}

func TestHTTPClient_AvailableCars(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cars/available", r.URL.Path)
		assert.Equal(t, "currency=EUR&from=2025-06-01&to=2025-06-04", r.URL.RawQuery)
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[{"id":"c1","make":"Fiat","model":"500","year":2021,
			"pricePerDayUsd":40,"pricePerDay":36.8,"currency":"EUR","automatic":true}]`))
	})

	c := NewHTTPClient(srv.URL, WithServiceCredential("svc", "secret"))
	cars, err := c.AvailableCars(context.Background(), CarFilter{From: "2025-06-01", To: "2025-06-04", Currency: "EUR"})
	require.NoError(t, err)
	require.Len(t, cars, 1)
	assert.Equal(t, Car{
		ID: "c1", Make: "Fiat", Model: "500", Year: 2021,
		PricePerDayUSD: 40, PricePerDay: 36.8, Currency: "EUR", Automatic: true,
	}, cars[0])
}

func TestHTTPClient_UserBookings(t *testing.T) {
	cred := session.EncodeCredential("bob", "pw")
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bookings/user/42", r.URL.Path)
		assert.Equal(t, cred.Header(), r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[{"id":"b1","userId":"42","carId":"c1","startDate":"2025-06-01",
			"endDate":"2025-06-04","totalCost":120,"currency":"USD"}]`))
	})

	c := NewHTTPClient(srv.URL)
	got, err := c.UserBookings(context.Background(), 42, cred)
	require.NoError(t, err)
	assert.Equal(t, []Booking{{
		ID: "b1", UserID: "42", CarID: "c1", StartDate: "2025-06-01",
		EndDate: "2025-06-04", TotalCost: 120, Currency: "USD",
	}}, got)
}

func TestWithTimeout_IgnoresNonPositive(t *testing.T) {
	c := NewHTTPClient("http://x", WithTimeout(0))
	assert.Equal(t, DefaultTimeout, c.http.Timeout)
}
