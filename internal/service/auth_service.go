package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	// BcryptCost is the cost factor for hashing the admin password
	BcryptCost = 10
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid token")
)

// AuthService signs in the single configured admin and verifies issued tokens
type AuthService interface {
	SignIn(username, password string) (token string, expires time.Time, err error)
	ValidateToken(tokenString string) (*jwt.RegisteredClaims, error)
}

type authService struct {
	username     string
	passwordHash []byte
	adminID      string
	jwtSecret    string
	expiry       time.Duration
	now          func() time.Time
}

// NewAuthService creates an AuthService for one admin account
func NewAuthService(username, password, jwtSecret string, expiry time.Duration) (AuthService, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return &authService{
		username:     username,
		passwordHash: hash,
		adminID:      uuid.NewSHA1(uuid.NameSpaceURL, []byte("admin:"+username)).String(),
		jwtSecret:    jwtSecret,
		expiry:       expiry,
		now:          time.Now,
	}, nil
}

// SignIn checks the credentials and issues a signed token
func (s *authService) SignIn(username, password string) (string, time.Time, error) {
	if username != s.username {
		return "", time.Time{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return "", time.Time{}, ErrInvalidCredentials
	}

	now := s.now()
	expires := now.Add(s.expiry)
	claims := jwt.RegisteredClaims{
		Subject:   s.adminID,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return token, expires, nil
}

// ValidateToken validates a token and returns its claims
func (s *authService) ValidateToken(tokenString string) (*jwt.RegisteredClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
