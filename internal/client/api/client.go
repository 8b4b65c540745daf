package api

import (
	"context"

	"github.com/dmitrijs2005/carrental-client/internal/client/session"
)

// Client is the identity-service contract the auth service depends on.
// Responses are returned as raw JSON objects so that unknown profile fields
// survive into the session.
type Client interface {
	// GetUser fetches the profile of user id, authenticating as cred.
	GetUser(ctx context.Context, id int64, cred session.Credential) (map[string]any, error)
	// Login checks username/password and returns at least {"userId": ...}.
	Login(ctx context.Context, username, password string) (map[string]any, error)
	// CreateUser registers a new account.
	CreateUser(ctx context.Context, req CreateUserRequest) (map[string]any, error)
}

// Catalog reads the car and booking listings.
type Catalog interface {
	AvailableCars(ctx context.Context, f CarFilter) ([]Car, error)
	UserBookings(ctx context.Context, userID int64, cred session.Credential) ([]Booking, error)
}

// Car is one entry of the available-cars listing. PricePerDay is in Currency.
type Car struct {
	ID             string  `json:"id"`
	Make           string  `json:"make"`
	Model          string  `json:"model"`
	Year           int     `json:"year"`
	Color          string  `json:"color"`
	FuelType       string  `json:"fuelType"`
	Automatic      bool    `json:"automatic"`
	PickupLocation string  `json:"pickupLocation"`
	PricePerDayUSD float64 `json:"pricePerDayUsd"`
	PricePerDay    float64 `json:"pricePerDay"`
	Currency       string  `json:"currency"`
}

// Booking is a rental made by a user. Dates are YYYY-MM-DD.
type Booking struct {
	ID        string  `json:"id"`
	UserID    string  `json:"userId"`
	CarID     string  `json:"carId"`
	StartDate string  `json:"startDate"`
	EndDate   string  `json:"endDate"`
	TotalCost float64 `json:"totalCost"`
	Currency  string  `json:"currency"`
}

// CreateUserRequest is the body of POST /users.
type CreateUserRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	UserRole  string `json:"userRole"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
