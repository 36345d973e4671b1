// Package catalog is the home screen controller: the signed-in user's
// profile and product list, and the forms that change them.
package catalog

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/dtroode/storefront/internal/logger"
	"github.com/dtroode/storefront/internal/model"
)

var (
	// ErrIncompleteProduct is returned by AddProduct when name, description
	// or price is empty.
	ErrIncompleteProduct = errors.New("name, description and price are required")
	// ErrEmptyName is returned by EditProfile for an empty name.
	ErrEmptyName = errors.New("name is required")
)

// Catalog keeps a live view of the signed-in user's data. Displayed state
// changes only when a subscription emits; mutations report their own
// failures but never touch the view.
type Catalog struct {
	sessions model.SessionStore
	records  model.RecordStore
	nav      model.Navigator
	logger   *logger.Logger

	mu             sync.Mutex
	started        bool
	unsubscribe    model.Unsubscribe
	generation     uint64
	userID         uuid.UUID
	subscriptions  []model.Unsubscribe
	profile        model.UserProfile
	products       []model.Product
	profileVisible bool
	nameDraft      string
	addVisible     bool
	addDraft       model.Product
	editing        *model.Product
	menuOpen       string

	changes chan struct{}
}

func New(sessions model.SessionStore, records model.RecordStore, nav model.Navigator, logger *logger.Logger) *Catalog {
	return &Catalog{
		sessions: sessions,
		records:  records,
		nav:      nav,
		logger:   logger,
		products: []model.Product{},
		changes:  make(chan struct{}, 1),
	}
}

// Start follows the session. Only the first call subscribes.
func (c *Catalog) Start() {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.mu.Unlock()

	unsubscribe := c.sessions.Subscribe(c.onSession)

	c.mu.Lock()
	c.unsubscribe = unsubscribe
	c.mu.Unlock()
}

// Close releases the session and record subscriptions.
func (c *Catalog) Close() {
	c.mu.Lock()
	unsubscribe := c.unsubscribe
	c.unsubscribe = nil
	c.generation++
	subscriptions := c.subscriptions
	c.subscriptions = nil
	c.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	release(subscriptions)
}

// Changes is signalled after the view changes. Signals coalesce.
func (c *Catalog) Changes() <-chan struct{} {
	return c.changes
}

func (c *Catalog) onSession(session *model.Session) {
	userID := uuid.Nil
	if session != nil {
		userID = session.UserID
	}

	c.mu.Lock()
	if userID == c.userID {
		c.mu.Unlock()
		return
	}
	c.generation++
	generation := c.generation
	stale := c.subscriptions
	c.subscriptions = nil
	c.userID = userID
	c.resetLocked()
	c.mu.Unlock()

	release(stale)
	c.notify()

	if userID == uuid.Nil {
		return
	}

	c.logger.Debug("Catalog: subscribing",
		"user_id", userID)

	subscriptions := []model.Unsubscribe{
		c.records.Subscribe(model.UsersPath(userID), func(s model.Snapshot) {
			c.onProfile(generation, s)
		}),
		c.records.Subscribe(model.ProductsPath(userID), func(s model.Snapshot) {
			c.onProducts(generation, s)
		}),
	}

	c.mu.Lock()
	if c.generation != generation {
		c.mu.Unlock()
		release(subscriptions)
		return
	}
	c.subscriptions = subscriptions
	c.mu.Unlock()
}

func (c *Catalog) resetLocked() {
	c.profile = model.UserProfile{}
	c.products = []model.Product{}
	c.profileVisible, c.nameDraft = false, ""
	c.addVisible, c.addDraft = false, model.Product{}
	c.editing = nil
	c.menuOpen = ""
}

func (c *Catalog) onProfile(generation uint64, s model.Snapshot) {
	profile := model.ProfileFromSnapshot(s)
	if profile.Avatar == "" {
		profile.Avatar = model.DefaultAvatar
	}

	c.mu.Lock()
	if c.generation != generation {
		c.mu.Unlock()
		return
	}
	c.profile = profile
	c.mu.Unlock()

	c.notify()
}

func (c *Catalog) onProducts(generation uint64, s model.Snapshot) {
	products := model.ProductsFromSnapshot(s)

	c.mu.Lock()
	if c.generation != generation {
		c.mu.Unlock()
		return
	}
	c.products = products
	c.mu.Unlock()

	c.notify()
}

func (c *Catalog) notify() {
	select {
	case c.changes <- struct{}{}:
	default:
	}
}

func release(subscriptions []model.Unsubscribe) {
	for _, unsubscribe := range subscriptions {
		unsubscribe()
	}
}

// Profile returns the displayed profile.
func (c *Catalog) Profile() model.UserProfile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.profile
}

// Products returns the displayed product list in store key order.
func (c *Catalog) Products() []model.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.products)
}

// Product returns the displayed product with id.
func (c *Catalog) Product(id string) (model.Product, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, p := range c.products {
		if p.ID == id {
			return p, true
		}
	}
	return model.Product{}, false
}

func (c *Catalog) user() (uuid.UUID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.userID == uuid.Nil {
		return uuid.Nil, model.ErrNoSession
	}
	return c.userID, nil
}

// AddProduct appends the add-form draft to the catalog. The form is closed
// and the draft cleared as soon as the write is issued.
func (c *Catalog) AddProduct(ctx context.Context) (string, error) {
	c.mu.Lock()
	userID, draft := c.userID, c.addDraft
	switch {
	case userID == uuid.Nil:
		c.mu.Unlock()
		return "", model.ErrNoSession
	case draft.Name == "" || draft.Description == "" || draft.Price == "":
		c.mu.Unlock()
		return "", ErrIncompleteProduct
	}
	c.addVisible = false
	c.addDraft = model.Product{}
	c.mu.Unlock()

	c.notify()

	return c.records.Push(ctx, model.ProductsPath(userID), draft.Fields())
}

// EditProduct overwrites the whole record of product and closes the edit
// form.
func (c *Catalog) EditProduct(ctx context.Context, product model.Product) error {
	userID, err := c.user()
	if err != nil {
		return err
	}
	if err := model.ValidateKey(product.ID); err != nil {
		return err
	}

	c.mu.Lock()
	c.editing = nil
	c.mu.Unlock()
	c.notify()

	return c.records.Set(ctx, model.ProductPath(userID, product.ID), product.Fields())
}

// DeleteProduct removes the product with id.
func (c *Catalog) DeleteProduct(ctx context.Context, id string) error {
	userID, err := c.user()
	if err != nil {
		return err
	}
	if err := model.ValidateKey(id); err != nil {
		return err
	}

	c.mu.Lock()
	c.menuOpen = ""
	c.mu.Unlock()

	return c.records.Remove(ctx, model.ProductPath(userID, id))
}

// EditProfile replaces the profile name and closes the profile form.
func (c *Catalog) EditProfile(ctx context.Context, name string) error {
	userID, err := c.user()
	if err != nil {
		return err
	}
	if name == "" {
		return ErrEmptyName
	}

	c.mu.Lock()
	c.profileVisible, c.nameDraft = false, ""
	c.mu.Unlock()
	c.notify()

	return c.records.Set(ctx, model.UsersPath(userID).Child("name"), name)
}

// Logout signs out and opens the auth screen.
func (c *Catalog) Logout(ctx context.Context) error {
	if err := c.sessions.SignOut(ctx); err != nil {
		c.logger.Error("Catalog: sign-out failed",
			"error", err.Error())
		return err
	}

	c.nav.Navigate(model.ScreenAuth, nil)
	return nil
}

// OpenProduct opens the detail screen of the displayed product with id.
func (c *Catalog) OpenProduct(id string) error {
	product, ok := c.Product(id)
	if !ok {
		return model.ErrNotFound
	}

	c.nav.Navigate(model.ScreenProduct, product)
	return nil
}
