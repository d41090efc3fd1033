package session

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"catalog-admin/internal/apiclient"
	"catalog-admin/internal/config"
	"catalog-admin/internal/domain"
	"catalog-admin/internal/server"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func newFakeAPI(t *testing.T) (*config.Config, *httptest.Server) {
	t.Helper()
	cfg := config.LoadFrom(viper.New(), nil)
	srv, err := server.NewServer(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)

	cfg.API.Base = ts.URL
	cfg.API.Path = "shop"
	return cfg, ts
}

func TestLoginPersistsToken(t *testing.T) {
	cfg, _ := newFakeAPI(t)
	tokens := newTestBoltStore(t)
	store := NewStore(apiclient.New(cfg.API, zap.NewNop()), tokens, zap.NewNop())
	ctx := context.Background()

	sess, err := store.Login(ctx, domain.Credentials{Username: cfg.Admin.Username, Password: cfg.Admin.Password})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if sess.Token == "" || !sess.Expires.After(time.Now()) {
		t.Errorf("unexpected session %+v", sess)
	}

	current, ok := store.Current()
	if !ok || current.Token != sess.Token {
		t.Errorf("Current = %+v, %v", current, ok)
	}

	saved, ok, err := tokens.Load(ctx)
	if err != nil || !ok || saved.Token != sess.Token {
		t.Errorf("persisted slot = %+v, %v, %v", saved, ok, err)
	}
}

func TestLoginRejected(t *testing.T) {
	cfg, _ := newFakeAPI(t)
	tokens := newTestBoltStore(t)
	store := NewStore(apiclient.New(cfg.API, zap.NewNop()), tokens, zap.NewNop())
	ctx := context.Background()

	_, err := store.Login(ctx, domain.Credentials{Username: cfg.Admin.Username, Password: "wrong"})
	if !errors.Is(err, domain.ErrAuth) {
		t.Fatalf("expected ErrAuth, got %v", err)
	}
	if _, ok := store.Current(); ok {
		t.Error("a rejected login must leave the store unauthenticated")
	}
	if _, ok, _ := tokens.Load(ctx); ok {
		t.Error("nothing should be persisted after a rejected login")
	}
}

func TestRestore(t *testing.T) {
	cfg, _ := newFakeAPI(t)
	tokens := newTestBoltStore(t)
	client := apiclient.New(cfg.API, zap.NewNop())
	ctx := context.Background()

	first := NewStore(client, tokens, zap.NewNop())
	sess, err := first.Login(ctx, domain.Credentials{Username: cfg.Admin.Username, Password: cfg.Admin.Password})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	second := NewStore(client, tokens, zap.NewNop())
	restored, ok, err := second.Restore(ctx)
	if err != nil || !ok || restored.Token != sess.Token {
		t.Fatalf("Restore = %+v, %v, %v", restored, ok, err)
	}
	if _, ok := second.Current(); !ok {
		t.Error("restored store should be authenticated")
	}
}

func TestRestoreRejectedTokenKeepsSlot(t *testing.T) {
	cfg, _ := newFakeAPI(t)
	tokens := newTestBoltStore(t)
	ctx := context.Background()

	if err := tokens.Save(ctx, domain.Session{Token: "forged", Expires: time.Now().Add(time.Hour)}); err != nil {
		t.Fatal(err)
	}

	store := NewStore(apiclient.New(cfg.API, zap.NewNop()), tokens, zap.NewNop())
	_, ok, err := store.Restore(ctx)
	if ok || !errors.Is(err, domain.ErrAuth) {
		t.Fatalf("Restore = %v, %v; want unauthenticated with ErrAuth", ok, err)
	}
	if _, ok, _ := tokens.Load(ctx); !ok {
		t.Error("the persisted slot should survive a failed check")
	}
}

func TestRestoreWithoutTokenSkipsNetwork(t *testing.T) {
	// Nothing listens here, so any request would fail
	client := apiclient.New(config.APIConfig{Base: "http://127.0.0.1:1", Path: "shop"}, zap.NewNop())
	store := NewStore(client, newTestBoltStore(t), zap.NewNop())

	_, ok, err := store.Restore(context.Background())
	if ok || err != nil {
		t.Errorf("Restore = %v, %v; want false, nil", ok, err)
	}
}

func TestParseExpiry(t *testing.T) {
	ms := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC).UnixMilli()

	tests := []struct {
		name    string
		in      interface{}
		want    time.Time
		wantErr bool
	}{
		{"nil", nil, time.Time{}, false},
		{"number", float64(ms), time.UnixMilli(ms), false},
		{"numeric string", "1714564800000", time.UnixMilli(1714564800000), false},
		{"empty string", " ", time.Time{}, false},
		{"date string", "2024-05-01T12:00:00Z", time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), false},
		{"garbage", "not a date", time.Time{}, true},
		{"wrong type", true, time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseExpiry(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
