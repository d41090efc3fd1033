package console

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"catalog-admin/internal/dialog"
	"catalog-admin/internal/domain"
	"catalog-admin/internal/editor"
	"catalog-admin/internal/repository"

	EventBus "github.com/asaskevich/EventBus"
	"go.uber.org/zap"
)

// Topics published on the App's bus
const (
	TopicSession  = "session:changed"
	TopicProducts = "products:changed"
	TopicDialog   = "dialog:changed"
)

var (
	ErrNotAuthenticated = errors.New("not signed in")
	ErrProductNotFound  = errors.New("product not found")
	ErrNoDraft          = dialog.ErrNoDraft
)

// SessionStore is what the App needs from session.Store
type SessionStore interface {
	Login(ctx context.Context, creds domain.Credentials) (domain.Session, error)
	Restore(ctx context.Context) (domain.Session, bool, error)
	Current() (domain.Session, bool)
}

// App is the console's state: who is signed in, which products are
// loaded and what the dialog is doing.
type App struct {
	sessions SessionStore
	repo     repository.ProductRepository
	dialog   *dialog.Controller
	bus      EventBus.Bus
	logger   *zap.Logger

	generation atomic.Uint64

	mu       sync.RWMutex
	products []domain.Product
}

// New wires an App around a session store and product repository
func New(sessions SessionStore, repo repository.ProductRepository, logger *zap.Logger) *App {
	a := &App{
		sessions: sessions,
		repo:     repo,
		bus:      EventBus.New(),
		logger:   logger,
		products: []domain.Product{},
	}
	a.dialog = dialog.NewController(repo, func(ctx context.Context) {
		// Refresh failures are logged inside Refresh
		_ = a.Refresh(ctx)
	}, logger)
	return a
}

// Subscribe registers fn on topic. Handlers run synchronously on the publishing goroutine.
func (a *App) Subscribe(topic string, fn interface{}) error {
	return a.bus.Subscribe(topic, fn)
}

// Authenticated reports whether a session is active
func (a *App) Authenticated() bool {
	_, ok := a.sessions.Current()
	return ok
}

// Products returns a copy of the loaded product list
func (a *App) Products() []domain.Product {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]domain.Product{}, a.products...)
}

// Mode returns the dialog mode
func (a *App) Mode() dialog.Mode {
	return a.dialog.Mode()
}

// Start restores a persisted session and loads products when it is still valid
func (a *App) Start(ctx context.Context) error {
	_, ok, err := a.sessions.Restore(ctx)
	if err != nil {
		a.logger.Warn("Session verification failed, please sign in again", zap.Error(err))
		a.bus.Publish(TopicSession, false)
		return err
	}
	if !ok {
		return nil
	}

	a.bus.Publish(TopicSession, true)
	return a.Refresh(ctx)
}

// Login signs in and loads products
func (a *App) Login(ctx context.Context, creds domain.Credentials) error {
	if _, err := a.sessions.Login(ctx, creds); err != nil {
		a.logger.Warn("Sign in failed", zap.String("username", creds.Username), zap.Error(err))
		a.bus.Publish(TopicSession, false)
		return err
	}

	a.bus.Publish(TopicSession, true)
	return a.Refresh(ctx)
}

// Refresh reloads the product list. A failed fetch keeps the current list,
// and a fetch that finishes after a newer one started is discarded.
func (a *App) Refresh(ctx context.Context) error {
	sess, ok := a.sessions.Current()
	if !ok {
		return ErrNotAuthenticated
	}

	gen := a.generation.Add(1)
	products, err := a.repo.List(ctx, sess)
	if err != nil {
		a.logger.Error("Failed to load products", zap.Error(err))
		return err
	}

	a.mu.Lock()
	if gen != a.generation.Load() {
		a.mu.Unlock()
		a.logger.Debug("Discarding stale product list", zap.Uint64("generation", gen))
		return nil
	}
	a.products = products
	a.mu.Unlock()

	a.bus.Publish(TopicProducts, len(products))
	return nil
}

// OpenCreate opens the dialog on a blank draft
func (a *App) OpenCreate() error {
	return a.open(dialog.KindCreate, domain.Product{})
}

// OpenEdit opens the dialog on a copy of the product with id
func (a *App) OpenEdit(id string) error {
	p, err := a.find(id)
	if err != nil {
		return err
	}
	return a.open(dialog.KindEdit, p)
}

// OpenDelete opens the delete confirmation for the product with id
func (a *App) OpenDelete(id string) error {
	p, err := a.find(id)
	if err != nil {
		return err
	}
	return a.open(dialog.KindDelete, p)
}

func (a *App) open(kind dialog.Kind, p domain.Product) error {
	if !a.Authenticated() {
		return ErrNotAuthenticated
	}
	if err := a.dialog.Open(kind, p); err != nil {
		return err
	}
	a.bus.Publish(TopicDialog, a.dialog.Mode())
	return nil
}

// Confirm runs the open dialog's action
func (a *App) Confirm(ctx context.Context) error {
	sess, ok := a.sessions.Current()
	if !ok {
		return ErrNotAuthenticated
	}
	if err := a.dialog.Confirm(ctx, sess); err != nil {
		return err
	}
	a.bus.Publish(TopicDialog, a.dialog.Mode())
	return nil
}

// Cancel closes the dialog without doing anything
func (a *App) Cancel() {
	a.dialog.Close()
	a.bus.Publish(TopicDialog, a.dialog.Mode())
}

// Edit applies fn to the open draft and publishes the change.
// A failing fn leaves the draft as it was.
func (a *App) Edit(fn func(d *editor.Draft) error) error {
	if err := a.dialog.EditDraft(fn); err != nil {
		return err
	}
	a.bus.Publish(TopicDialog, a.dialog.Mode())
	return nil
}

func (a *App) find(id string) (domain.Product, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	for _, p := range a.products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, fmt.Errorf("%w: %s", ErrProductNotFound, id)
}
