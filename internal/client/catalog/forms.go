package catalog

import "github.com/dtroode/storefront/internal/model"

// ShowAddForm opens or closes the add-product form. Closing keeps the draft.
func (c *Catalog) ShowAddForm(visible bool) {
	c.mu.Lock()
	c.addVisible = visible
	c.mu.Unlock()
	c.notify()
}

func (c *Catalog) AddFormVisible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.addVisible
}

// SetAddField updates the add-product draft.
func (c *Catalog) SetAddField(field model.ProductField, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.addDraft = c.addDraft.With(field, value)
}

func (c *Catalog) AddDraft() model.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.addDraft
}

// StartEdit opens the edit form on a copy of the displayed product with id.
func (c *Catalog) StartEdit(id string) bool {
	product, ok := c.Product(id)
	if !ok {
		return false
	}

	c.mu.Lock()
	c.editing = &product
	c.menuOpen = ""
	c.mu.Unlock()
	c.notify()
	return true
}

// SetEditField updates the product being edited. It does nothing when the
// edit form is closed.
func (c *Catalog) SetEditField(field model.ProductField, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.editing != nil {
		edited := c.editing.With(field, value)
		c.editing = &edited
	}
}

// Editing returns the product in the edit form.
func (c *Catalog) Editing() (model.Product, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.editing == nil {
		return model.Product{}, false
	}
	return *c.editing, true
}

// CancelEdit closes the edit form without writing.
func (c *Catalog) CancelEdit() {
	c.mu.Lock()
	c.editing = nil
	c.mu.Unlock()
	c.notify()
}

// ShowProfileForm opens or closes the profile form.
func (c *Catalog) ShowProfileForm(visible bool) {
	c.mu.Lock()
	c.profileVisible = visible
	c.mu.Unlock()
	c.notify()
}

func (c *Catalog) ProfileFormVisible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.profileVisible
}

func (c *Catalog) SetNameDraft(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nameDraft = name
}

func (c *Catalog) NameDraft() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nameDraft
}

// OpenMenu opens the action menu of product id; an empty id closes it.
func (c *Catalog) OpenMenu(id string) {
	c.mu.Lock()
	c.menuOpen = id
	c.mu.Unlock()
	c.notify()
}

func (c *Catalog) MenuOpen() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.menuOpen
}
