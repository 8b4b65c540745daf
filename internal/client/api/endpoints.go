package api

import (
	"net/url"
	"strconv"
	"strings"
)

// Base URLs per deployment environment.
var BaseURLs = map[string]string{
	"development": "http://localhost:8080/api/v1",
	"production":  "https://carrental-backend-app.azurewebsites.net/api/v1",
}

// BaseURLFor returns the base URL of env, falling back to development.
func BaseURLFor(env string) string {
	if u, ok := BaseURLs[env]; ok {
		return u
	}
	return BaseURLs["development"]
}

// Endpoints builds REST URLs below a base URL.
type Endpoints struct {
	base string
}

func NewEndpoints(baseURL string) Endpoints {
	return Endpoints{base: strings.TrimRight(baseURL, "/")}
}

func (e Endpoints) Base() string { return e.base }

func (e Endpoints) Users() string { return e.base + "/users" }

func (e Endpoints) User(id int64) string {
	return e.base + "/users/" + strconv.FormatInt(id, 10)
}

func (e Endpoints) Login() string { return e.base + "/users/login" }

// CarFilter narrows the available-cars listing. Empty fields are omitted.
type CarFilter struct {
	From     string
	To       string
	Currency string
}

func (e Endpoints) CarsAvailable(f CarFilter) string {
	q := QueryParams(map[string]string{
		"from":     f.From,
		"to":       f.To,
		"currency": f.Currency,
	})
	if q == "" {
		return e.base + "/cars/available"
	}
	return e.base + "/cars/available?" + q
}

func (e Endpoints) UserBookings(userID int64) string {
	return e.base + "/bookings/user/" + strconv.FormatInt(userID, 10)
}

// QueryParams encodes params, skipping empty values. Keys are sorted.
func QueryParams(params map[string]string) string {
	q := url.Values{}
	for k, v := range params {
		if v != "" {
			q.Set(k, v)
		}
	}
	return q.Encode()
}
