package domain

import (
	"errors"
	"time"
)

var (
	// ErrAuth covers bad credentials and invalid or expired tokens
	ErrAuth = errors.New("authentication failed")
	// ErrNetwork covers transport failures talking to the API
	ErrNetwork = errors.New("network error")
)

// Credentials is the sign-in request body
type Credentials struct {
	Username string `json:"username" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Session holds the token issued by the API and when it stops being valid
type Session struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

// Valid reports whether the session has a token that has not expired at now
func (s Session) Valid(now time.Time) bool {
	if s.Token == "" {
		return false
	}
	return s.Expires.IsZero() || now.Before(s.Expires)
}
