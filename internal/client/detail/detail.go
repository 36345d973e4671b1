// Package detail is the product screen controller.
package detail

import (
	"context"
	"errors"
	"sync"

	"github.com/dtroode/storefront/internal/logger"
	"github.com/dtroode/storefront/internal/model"
)

// Header actions of the product screen.
const (
	ActionEdit   = "edit"
	ActionSave   = "save"
	ActionDelete = "delete"
)

// ErrNotRequested is returned by ConfirmDelete without a pending request.
var ErrNotRequested = errors.New("delete was not requested")

// Detail shows one product and edits it. The product is the one passed by
// navigation and is never reloaded.
type Detail struct {
	sessions model.SessionStore
	records  model.RecordStore
	nav      model.Navigator
	logger   *logger.Logger

	mu      sync.Mutex
	draft   model.Product
	editing bool
	confirm bool
}

func New(product model.Product, sessions model.SessionStore, records model.RecordStore, nav model.Navigator, logger *logger.Logger) *Detail {
	d := &Detail{
		sessions: sessions,
		records:  records,
		nav:      nav,
		logger:   logger,
		draft:    product,
	}
	d.publishOptions(false)
	return d
}

// Product returns the product as displayed, including unsaved edits.
func (d *Detail) Product() model.Product {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.draft
}

func (d *Detail) Editing() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.editing
}

// DeleteRequested reports whether the confirmation dialog is shown.
func (d *Detail) DeleteRequested() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.confirm
}

// StartEdit enters edit mode.
func (d *Detail) StartEdit() {
	d.mu.Lock()
	changed := !d.editing
	d.editing = true
	d.mu.Unlock()

	if changed {
		d.publishOptions(true)
	}
}

// SetField changes the local draft. It does nothing outside edit mode.
func (d *Detail) SetField(field model.ProductField, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.editing {
		d.draft = d.draft.With(field, value)
	}
}

// Save writes the five fields of the draft and leaves edit mode. Fields are
// not validated.
func (d *Detail) Save(ctx context.Context) error {
	current := d.sessions.Current()
	if current == nil {
		return model.ErrNoSession
	}

	d.mu.Lock()
	draft := d.draft
	if err := model.ValidateKey(draft.ID); err != nil {
		d.mu.Unlock()
		return err
	}
	d.editing = false
	d.mu.Unlock()

	d.publishOptions(false)

	err := d.records.Update(ctx, model.ProductPath(current.UserID, draft.ID), draft.Fields())
	if err != nil {
		d.logger.Warn("Product detail: save failed",
			"product_id", draft.ID,
			"error", err.Error())
	}
	return err
}

// RequestDelete shows the confirmation dialog.
func (d *Detail) RequestDelete() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.confirm = true
}

// CancelDelete hides the confirmation dialog.
func (d *Detail) CancelDelete() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.confirm = false
}

// ConfirmDelete removes the product and goes back. It requires a prior
// RequestDelete.
func (d *Detail) ConfirmDelete(ctx context.Context) error {
	d.mu.Lock()
	if !d.confirm {
		d.mu.Unlock()
		return ErrNotRequested
	}
	d.mu.Unlock()

	current := d.sessions.Current()
	if current == nil {
		return model.ErrNoSession
	}

	d.mu.Lock()
	id := d.draft.ID
	if err := model.ValidateKey(id); err != nil {
		d.mu.Unlock()
		return err
	}
	d.confirm = false
	d.mu.Unlock()

	err := d.records.Remove(ctx, model.ProductPath(current.UserID, id))
	d.nav.GoBack()
	return err
}

func (d *Detail) publishOptions(editing bool) {
	primary := ActionEdit
	if editing {
		primary = ActionSave
	}
	d.nav.SetScreenOptions(model.ScreenProduct, model.ScreenOptions{
		HeaderShown: true,
		Actions:     []string{primary, ActionDelete},
	})
}
