package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"catalog-admin/internal/apiclient"
	"catalog-admin/internal/domain"

	"github.com/araddon/dateparse"
	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type signInResponse struct {
	Token   string      `json:"token"`
	Expired interface{} `json:"expired"`
}

// Store tracks whether the console is authenticated and with which token
type Store struct {
	client *apiclient.Client
	tokens TokenStore
	logger *zap.Logger

	mu            sync.RWMutex
	current       domain.Session
	authenticated bool
}

// NewStore creates a Store that persists tokens in tokens
func NewStore(client *apiclient.Client, tokens TokenStore, logger *zap.Logger) *Store {
	return &Store{
		client: client,
		tokens: tokens,
		logger: logger,
	}
}

// Current returns the session and whether it is authenticated
func (s *Store) Current() (domain.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.authenticated
}

// Login signs in and persists the issued token. Rejected credentials
// return an error matching domain.ErrAuth.
func (s *Store) Login(ctx context.Context, creds domain.Credentials) (domain.Session, error) {
	var resp signInResponse
	err := s.client.Do(ctx, fiber.MethodPost, s.client.SignInURL(), "", creds, &resp)
	if err != nil {
		s.setAuthenticated(domain.Session{}, false)

		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) {
			return domain.Session{}, fmt.Errorf("%w: %s", domain.ErrAuth, apiErr.Message)
		}
		return domain.Session{}, err
	}

	if resp.Token == "" {
		s.setAuthenticated(domain.Session{}, false)
		return domain.Session{}, fmt.Errorf("%w: no token issued", domain.ErrAuth)
	}

	expires, err := ParseExpiry(resp.Expired)
	if err != nil {
		s.logger.Warn("Could not parse session expiry", zap.Any("expired", resp.Expired), zap.Error(err))
	}

	sess := domain.Session{Token: resp.Token, Expires: expires}
	if err := s.tokens.Save(ctx, sess); err != nil {
		s.logger.Warn("Failed to persist session", zap.Error(err))
	}

	s.setAuthenticated(sess, true)
	s.logger.Info("Signed in", zap.Time("expires", expires))

	return sess, nil
}

// Restore recovers a persisted token and verifies it with the API.
// A token that fails verification is kept in the persisted slot.
func (s *Store) Restore(ctx context.Context) (domain.Session, bool, error) {
	sess, ok, err := s.tokens.Load(ctx)
	if err != nil {
		return domain.Session{}, false, err
	}
	if !ok {
		s.logger.Debug("No persisted session")
		return domain.Session{}, false, nil
	}

	if err := s.client.Do(ctx, fiber.MethodPost, s.client.CheckURL(), sess.Token, nil, nil); err != nil {
		s.setAuthenticated(domain.Session{}, false)
		return domain.Session{}, false, fmt.Errorf("session check failed: %w", err)
	}

	s.setAuthenticated(sess, true)
	s.logger.Info("Session restored", zap.Time("expires", sess.Expires))

	return sess, true, nil
}

func (s *Store) setAuthenticated(sess domain.Session, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = sess
	s.authenticated = ok
}

// ParseExpiry reads the API's expiry value: epoch milliseconds as a
// number or numeric string, or any recognizable date string.
func ParseExpiry(v interface{}) (time.Time, error) {
	switch e := v.(type) {
	case nil:
		return time.Time{}, nil
	case float64:
		return time.UnixMilli(int64(e)), nil
	case string:
		e = strings.TrimSpace(e)
		if e == "" {
			return time.Time{}, nil
		}
		if ms, err := strconv.ParseInt(e, 10, 64); err == nil {
			return time.UnixMilli(ms), nil
		}
		t, err := dateparse.ParseAny(e)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid expiry %q: %w", e, err)
		}
		return t, nil
	default:
		return time.Time{}, fmt.Errorf("invalid expiry type %T", v)
	}
}
