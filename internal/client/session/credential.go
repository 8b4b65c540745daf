package session

import (
	"encoding/base64"
	"errors"
	"strings"
)

// Credential is the Basic-auth token for a username/password pair.
type Credential string

var ErrMalformedCredential = errors.New("malformed credential")

// EncodeCredential returns base64("username:password").
func EncodeCredential(username, password string) Credential {
	return Credential(base64.StdEncoding.EncodeToString([]byte(username + ":" + password)))
}

// Decode splits the credential back into username and password.
func (c Credential) Decode() (username, password string, err error) {
	raw, err := base64.StdEncoding.DecodeString(string(c))
	if err != nil {
		return "", "", ErrMalformedCredential
	}
	username, password, ok := strings.Cut(string(raw), ":")
	if !ok {
		return "", "", ErrMalformedCredential
	}
	return username, password, nil
}

// Header is the value for an Authorization header.
func (c Credential) Header() string {
	return "Basic " + string(c)
}

func (c Credential) IsZero() bool { return c == "" }
