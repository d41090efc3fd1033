// Package dialog drives the single product dialog through its create,
// edit and delete workflows.
package dialog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"catalog-admin/internal/domain"
	"catalog-admin/internal/editor"
	"catalog-admin/internal/repository"

	"go.uber.org/zap"
)

var (
	ErrDialogClosed = errors.New("dialog is not open")
	ErrUnknownKind  = errors.New("unknown dialog kind")
	ErrNoDraft      = errors.New("dialog has no draft")
)

// Kind selects the workflow a dialog is opened for
type Kind string

const (
	KindCreate Kind = "create"
	KindEdit   Kind = "edit"
	KindDelete Kind = "delete"
)

// Mode is one of Closed, Create, Edit or Delete
type Mode interface {
	Name() string
	isMode()
}

type Closed struct{}

// Create holds a draft started from the template
type Create struct {
	Draft *editor.Draft
}

// Edit holds a draft copied from an existing product
type Edit struct {
	Draft *editor.Draft
}

// Delete holds the product awaiting confirmation
type Delete struct {
	Product domain.Product
}

func (Closed) Name() string { return "closed" }
func (Create) Name() string { return string(KindCreate) }
func (Edit) Name() string   { return string(KindEdit) }
func (Delete) Name() string { return string(KindDelete) }

func (Closed) isMode() {}
func (Create) isMode() {}
func (Edit) isMode()   {}
func (Delete) isMode() {}

// Refresher reloads the product list after a successful mutation
type Refresher func(ctx context.Context)

// Controller owns the dialog mode and the draft while the dialog is open
type Controller struct {
	repo    repository.ProductRepository
	refresh Refresher
	logger  *zap.Logger

	mu   sync.Mutex
	mode Mode
}

// NewController creates a closed dialog
func NewController(repo repository.ProductRepository, refresh Refresher, logger *zap.Logger) *Controller {
	return &Controller{
		repo:    repo,
		refresh: refresh,
		logger:  logger,
		mode:    Closed{},
	}
}

// Mode returns a snapshot of the current mode. Drafts in the snapshot are copies.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return snapshot(c.mode)
}

func snapshot(mode Mode) Mode {
	switch m := mode.(type) {
	case Create:
		return Create{Draft: m.Draft.Clone()}
	case Edit:
		return Edit{Draft: m.Draft.Clone()}
	default:
		return mode
	}
}

// Open shows the dialog for kind. Create ignores source and starts from the template.
func (c *Controller) Open(kind Kind, source domain.Product) error {
	var mode Mode

	switch kind {
	case KindCreate:
		mode = Create{Draft: editor.Template()}
	case KindEdit:
		mode = Edit{Draft: editor.FromProduct(source)}
	case KindDelete:
		mode = Delete{Product: source}
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}

	c.mu.Lock()
	c.mode = mode
	c.mu.Unlock()

	c.logger.Debug("Dialog opened", zap.String("mode", mode.Name()), zap.String("product_id", source.ID))
	return nil
}

// Close hides the dialog
func (c *Controller) Close() {
	c.mu.Lock()
	c.mode = Closed{}
	c.mu.Unlock()
}

// Draft returns a copy of the draft being edited, or nil outside create and edit
func (c *Controller) Draft() *editor.Draft {
	c.mu.Lock()
	defer c.mu.Unlock()

	if d := c.draft(); d != nil {
		return d.Clone()
	}
	return nil
}

// EditDraft applies fn to the open draft while holding the lock.
// fn works on a copy; the copy replaces the draft only when fn succeeds.
func (c *Controller) EditDraft(fn func(d *editor.Draft) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	d := c.draft()
	if d == nil {
		return ErrNoDraft
	}

	next := d.Clone()
	if err := fn(next); err != nil {
		return err
	}

	switch c.mode.(type) {
	case Create:
		c.mode = Create{Draft: next}
	case Edit:
		c.mode = Edit{Draft: next}
	}
	return nil
}

// draft must be called with c.mu held
func (c *Controller) draft() *editor.Draft {
	switch m := c.mode.(type) {
	case Create:
		return m.Draft
	case Edit:
		return m.Draft
	default:
		return nil
	}
}

// Confirm performs the mode's mutation. On success the list is refreshed
// once and the dialog closes; on failure the dialog stays as it was.
func (c *Controller) Confirm(ctx context.Context, sess domain.Session) error {
	c.mu.Lock()
	mode := c.mode
	var payload domain.ProductPayload
	switch m := mode.(type) {
	case Create:
		payload = m.Draft.Payload()
	case Edit:
		payload = m.Draft.Payload()
	}
	c.mu.Unlock()

	var err error
	switch m := mode.(type) {
	case Create:
		err = c.repo.Create(ctx, sess, payload)
	case Edit:
		err = c.repo.Update(ctx, sess, payload.ID, payload)
	case Delete:
		err = c.repo.Delete(ctx, sess, m.Product.ID)
	default:
		return ErrDialogClosed
	}

	if err != nil {
		c.logger.Error("Dialog action failed", zap.String("mode", mode.Name()), zap.Error(err))
		return err
	}

	c.logger.Info("Dialog action succeeded", zap.String("mode", mode.Name()))
	if c.refresh != nil {
		c.refresh(ctx)
	}
	c.Close()

	return nil
}
