package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/carrental-client/internal/client/session"
	"github.com/dmitrijs2005/carrental-client/internal/logging"
	"github.com/google/uuid"
)

const (
	DefaultTimeout = 10 * time.Second
	userAgent      = "carrental-client/1.0"

	// RequestIDHeader correlates client log lines with server logs.
	RequestIDHeader = "X-Request-ID"

	maxErrorBody = 512
)

// HTTPClient talks JSON over HTTP to the user service.
type HTTPClient struct {
	http      *http.Client
	endpoints Endpoints
	service   session.Credential
	log       logging.Logger
}

var (
	_ Client  = (*HTTPClient)(nil)
	_ Catalog = (*HTTPClient)(nil)
)

type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTPClient) {
		h.http = c
	}
}

// WithTimeout bounds every request. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(h *HTTPClient) {
		if d > 0 {
			h.http.Timeout = d
		}
	}
}

// WithServiceCredential sets the account used for login and registration
// calls. Without it those calls carry no Authorization header.
func WithServiceCredential(username, password string) Option {
	return func(h *HTTPClient) {
		if username == "" {
			h.service = ""
			return
		}
		h.service = session.EncodeCredential(username, password)
	}
}

func WithLogger(l logging.Logger) Option {
	return func(h *HTTPClient) {
		h.log = l
	}
}

func NewHTTPClient(baseURL string, opts ...Option) *HTTPClient {
	h := &HTTPClient{
		http:      &http.Client{Timeout: DefaultTimeout},
		endpoints: NewEndpoints(baseURL),
		log:       logging.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.log = h.log.With("component", "api")
	return h
}

func (c *HTTPClient) Endpoints() Endpoints { return c.endpoints }

func (c *HTTPClient) GetUser(ctx context.Context, id int64, cred session.Credential) (map[string]any, error) {
	var out map[string]any
	if err := c.do(ctx, http.MethodGet, c.endpoints.User(id), cred, nil, anySuccess, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (map[string]any, error) {
	var out map[string]any
	body := loginRequest{Username: username, Password: password}
	if err := c.do(ctx, http.MethodPost, c.endpoints.Login(), c.service, body, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) CreateUser(ctx context.Context, req CreateUserRequest) (map[string]any, error) {
	var out map[string]any
	if err := c.do(ctx, http.MethodPost, c.endpoints.Users(), c.service, req, anySuccess, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) AvailableCars(ctx context.Context, f CarFilter) ([]Car, error) {
	var out []Car
	if err := c.do(ctx, http.MethodGet, c.endpoints.CarsAvailable(f), "", nil, anySuccess, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) UserBookings(ctx context.Context, userID int64, cred session.Credential) ([]Booking, error) {
	var out []Booking
	if err := c.do(ctx, http.MethodGet, c.endpoints.UserBookings(userID), cred, nil, anySuccess, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// anySuccess accepts every 2xx status in do.
const anySuccess = 0

// do sends one JSON request and decodes the body into dst. want is the only
// accepted status, or anySuccess for the whole 2xx range.
func (c *HTTPClient) do(ctx context.Context, method, url string, cred session.Credential, body any, want int, dst any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set(RequestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if !cred.IsZero() {
		req.Header.Set("Authorization", cred.Header())
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug(ctx, "request failed", "method", method, "url", url, "request_id", requestID, "error", err)
		return fmt.Errorf("%w: %s %s: %w", ErrUnavailable, method, url, err)
	}
	defer resp.Body.Close()

	c.log.Debug(ctx, "request done",
		"method", method, "url", url, "status", resp.StatusCode,
		"request_id", requestID, "duration", time.Since(start))

	if !accepted(resp.StatusCode, want) {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			Method: method,
			URL:    url,
			Code:   resp.StatusCode,
			Body:   strings.TrimSpace(string(snippet)),
			kind:   kindOf(resp.StatusCode),
		}
	}

	if dst == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("empty body")
		}
		return fmt.Errorf("%w: decoding response from %s: %w", ErrService, url, err)
	}
	return nil
}

func accepted(code, want int) bool {
	if want != anySuccess {
		return code == want
	}
	return code >= 200 && code <= 299
}

func kindOf(code int) error {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return ErrService
	}
}
