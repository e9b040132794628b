// Package ledger owns ingredient stock levels, the recipes that consume them
// and the availability of the menu items those recipes produce.
//
// All mutations go through a single *Ledger guarded by one RWMutex, so the
// availability check that precedes a deduction and the deduction itself form
// one critical section. Every operation stages its changes, writes them to the
// Store as one changeset and only then makes them visible in memory; a store
// failure leaves the ledger untouched.
package ledger

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"restoplus/internal/models"
)

// Ledger is the inventory ledger service.
type Ledger struct {
	mu sync.RWMutex

	items            map[string]models.InventoryItem
	recipes          map[string]models.Recipe
	recipeByMenuItem map[string]string
	menu             map[string]models.MenuItem

	store     Store
	logger    *zap.Logger
	observer  Observer
	notifiers []Notifier
	now       func() time.Time
	newID     func() string
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithLogger sets the structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Ledger) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithObserver sets the metrics observer.
func WithObserver(o Observer) Option {
	return func(l *Ledger) {
		if o != nil {
			l.observer = o
		}
	}
}

// WithNotifier adds an event subscriber. May be given more than once.
func WithNotifier(n Notifier) Option {
	return func(l *Ledger) {
		if n != nil {
			l.notifiers = append(l.notifiers, n)
		}
	}
}

// WithClock overrides the time source, used for LastRestocked and event stamps.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithIDGenerator overrides identity assignment.
func WithIDGenerator(newID func() string) Option {
	return func(l *Ledger) { l.newID = newID }
}

// New creates an empty ledger. store may be nil, in which case state lives
// only in memory.
func New(store Store, opts ...Option) *Ledger {
	l := &Ledger{
		items:            make(map[string]models.InventoryItem),
		recipes:          make(map[string]models.Recipe),
		recipeByMenuItem: make(map[string]string),
		menu:             make(map[string]models.MenuItem),
		store:            store,
		logger:           zap.NewNop(),
		observer:         nopObserver{},
		now:              time.Now,
		newID:            uuid.NewString,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load replaces the in-memory state with the store's contents.
func (l *Ledger) Load(ctx context.Context) error {
	if l.store == nil {
		return nil
	}
	snap, err := l.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("%w: load: %v", ErrStore, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.items = make(map[string]models.InventoryItem, len(snap.InventoryItems))
	l.recipes = make(map[string]models.Recipe, len(snap.Recipes))
	l.recipeByMenuItem = make(map[string]string, len(snap.Recipes))
	l.menu = make(map[string]models.MenuItem, len(snap.MenuItems))

	for _, item := range snap.InventoryItems {
		l.items[item.ID] = item
		l.observer.ObserveStock(item)
	}
	for _, r := range snap.Recipes {
		l.recipes[r.ID] = r
		if _, taken := l.recipeByMenuItem[r.MenuItemID]; !taken {
			l.recipeByMenuItem[r.MenuItemID] = r.ID
		}
	}
	for _, mi := range snap.MenuItems {
		l.menu[mi.ID] = mi
		l.observer.ObserveAvailability(mi)
	}

	l.logger.Info("ledger loaded",
		zap.Int("inventory_items", len(l.items)),
		zap.Int("recipes", len(l.recipes)),
		zap.Int("menu_items", len(l.menu)),
	)
	return nil
}

// update runs fn under the write lock, commits what it staged and publishes
// the resulting events once the lock is released.
func (l *Ledger) update(ctx context.Context, fn func(t *txn) error) error {
	events, err := l.updateLocked(ctx, fn)
	if err != nil {
		return err
	}
	l.publish(events)
	return nil
}

func (l *Ledger) updateLocked(ctx context.Context, fn func(t *txn) error) ([]Event, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	t := l.begin()
	if err := fn(t); err != nil {
		return nil, err
	}
	return t.commit(ctx)
}

// view runs fn under the read lock against the committed state.
func (l *Ledger) view(fn func(t *txn)) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	fn(l.begin())
}

func (l *Ledger) publish(events []Event) {
	for _, ev := range events {
		for _, n := range l.notifiers {
			n.Publish(ev)
		}
	}
}

// txn stages changes on top of the committed maps. A nil map value marks a
// deletion. Reads through a txn see staged values first.
type txn struct {
	l       *Ledger
	items   map[string]*models.InventoryItem
	recipes map[string]*models.Recipe
	menu    map[string]*models.MenuItem
}

func (l *Ledger) begin() *txn {
	return &txn{
		l:       l,
		items:   make(map[string]*models.InventoryItem),
		recipes: make(map[string]*models.Recipe),
		menu:    make(map[string]*models.MenuItem),
	}
}

func (t *txn) item(id string) (models.InventoryItem, bool) {
	if staged, ok := t.items[id]; ok {
		if staged == nil {
			return models.InventoryItem{}, false
		}
		return *staged, true
	}
	item, ok := t.l.items[id]
	return item, ok
}

func (t *txn) putItem(item models.InventoryItem) {
	t.items[item.ID] = &item
}

func (t *txn) deleteItem(id string) {
	t.items[id] = nil
}

func (t *txn) eachItem(fn func(models.InventoryItem)) {
	for id, item := range t.l.items {
		if _, staged := t.items[id]; !staged {
			fn(item)
		}
	}
	for _, staged := range t.items {
		if staged != nil {
			fn(*staged)
		}
	}
}

func (t *txn) recipe(id string) (models.Recipe, bool) {
	if staged, ok := t.recipes[id]; ok {
		if staged == nil {
			return models.Recipe{}, false
		}
		return *staged, true
	}
	r, ok := t.l.recipes[id]
	return r, ok
}

func (t *txn) putRecipe(r models.Recipe) {
	r.Ingredients = r.Ingredients.Clone()
	t.recipes[r.ID] = &r
}

func (t *txn) deleteRecipe(id string) {
	t.recipes[id] = nil
}

// recipeFor returns the recipe registered for a menu item.
func (t *txn) recipeFor(menuItemID string) (models.Recipe, bool) {
	for _, staged := range t.recipes {
		if staged != nil && staged.MenuItemID == menuItemID {
			return *staged, true
		}
	}
	if id, ok := t.l.recipeByMenuItem[menuItemID]; ok {
		if r, ok := t.recipe(id); ok && r.MenuItemID == menuItemID {
			return r, true
		}
	}
	return models.Recipe{}, false
}

func (t *txn) eachRecipe(fn func(models.Recipe)) {
	for id, r := range t.l.recipes {
		if _, staged := t.recipes[id]; !staged {
			fn(r)
		}
	}
	for _, staged := range t.recipes {
		if staged != nil {
			fn(*staged)
		}
	}
}

func (t *txn) menuItem(id string) (models.MenuItem, bool) {
	if staged, ok := t.menu[id]; ok {
		if staged == nil {
			return models.MenuItem{}, false
		}
		return *staged, true
	}
	mi, ok := t.l.menu[id]
	return mi, ok
}

func (t *txn) putMenuItem(mi models.MenuItem) {
	t.menu[mi.ID] = &mi
}

func (t *txn) deleteMenuItem(id string) {
	t.menu[id] = nil
}

// syncMode limits which availability transitions reconcile may apply.
type syncMode int

const (
	syncBoth syncMode = iota
	syncDisableOnly
	syncEnableOnly
)

// reconcile recomputes the single-unit availability of every menu item whose
// recipe consumes one of itemIDs.
func (t *txn) reconcile(mode syncMode, itemIDs ...string) {
	var menuIDs []string
	t.eachRecipe(func(r models.Recipe) {
		for _, id := range itemIDs {
			if r.Uses(id) {
				menuIDs = append(menuIDs, r.MenuItemID)
				return
			}
		}
	})
	sort.Strings(menuIDs)
	for _, id := range menuIDs {
		t.syncMenuItem(id, mode)
	}
}

// syncMenuItem sets a menu item's flag to its current single-unit availability.
// Items without a recipe keep whatever flag menu management gave them.
func (t *txn) syncMenuItem(menuItemID string, mode syncMode) {
	mi, ok := t.menuItem(menuItemID)
	if !ok {
		return
	}
	if _, ok := t.recipeFor(menuItemID); !ok {
		return
	}
	available := t.availability(menuItemID, 1).OK()
	if available == mi.IsAvailable {
		return
	}
	if (mode == syncDisableOnly && available) || (mode == syncEnableOnly && !available) {
		return
	}
	mi.IsAvailable = available
	t.putMenuItem(mi)
}

func (t *txn) changeset() Changeset {
	var cs Changeset
	for _, id := range sortedKeys(t.items) {
		if staged := t.items[id]; staged != nil {
			cs.InventoryItems = append(cs.InventoryItems, *staged)
		} else {
			cs.DeletedInventoryItems = append(cs.DeletedInventoryItems, id)
		}
	}
	for _, id := range sortedKeys(t.recipes) {
		if staged := t.recipes[id]; staged != nil {
			cs.Recipes = append(cs.Recipes, *staged)
		} else {
			cs.DeletedRecipes = append(cs.DeletedRecipes, id)
		}
	}
	for _, id := range sortedKeys(t.menu) {
		if staged := t.menu[id]; staged != nil {
			cs.MenuItems = append(cs.MenuItems, *staged)
		} else {
			cs.DeletedMenuItems = append(cs.DeletedMenuItems, id)
		}
	}
	return cs
}

// events derives the notifications implied by the staged changes.
func (t *txn) events() []Event {
	at := t.l.now()
	var events []Event
	for _, id := range sortedKeys(t.items) {
		after := t.items[id]
		before, existed := t.l.items[id]
		if after == nil || !existed {
			continue
		}
		if alert := crossedAlert(before, *after); alert != "" {
			events = append(events, Event{
				Type: EventInventoryAlert,
				At:   at,
				Alert: &InventoryAlert{
					InventoryItemID: after.ID,
					SKU:             after.SKU,
					Name:            after.Name,
					AlertType:       alert,
					CurrentStock:    after.CurrentStock,
					MinimumStock:    after.MinimumStock,
					ReorderLevel:    after.ReorderLevel,
				},
			})
		}
	}
	for _, id := range sortedKeys(t.menu) {
		after := t.menu[id]
		before, existed := t.l.menu[id]
		if after == nil || !existed || before.IsAvailable == after.IsAvailable {
			continue
		}
		events = append(events, Event{
			Type: EventAvailabilityChanged,
			At:   at,
			Availability: &AvailabilityChange{
				MenuItemID: after.ID,
				Name:       after.Name,
				Available:  after.IsAvailable,
			},
		})
	}
	return events
}

// commit writes the staged changes to the store and then to memory.
func (t *txn) commit(ctx context.Context) ([]Event, error) {
	cs := t.changeset()
	if cs.Empty() {
		return nil, nil
	}
	if t.l.store != nil {
		if err := t.l.store.Apply(ctx, cs); err != nil {
			t.l.logger.Error("changeset rejected by store", zap.Error(err))
			return nil, fmt.Errorf("%w: %v", ErrStore, err)
		}
	}

	events := t.events()
	l := t.l

	for id, staged := range t.items {
		if staged == nil {
			if old, ok := l.items[id]; ok {
				l.observer.ForgetStock(old)
			}
			delete(l.items, id)
			continue
		}
		l.items[id] = *staged
		l.observer.ObserveStock(*staged)
	}
	for id, staged := range t.recipes {
		if old, ok := l.recipes[id]; ok && l.recipeByMenuItem[old.MenuItemID] == id {
			delete(l.recipeByMenuItem, old.MenuItemID)
		}
		if staged == nil {
			delete(l.recipes, id)
			continue
		}
		l.recipes[id] = *staged
		l.recipeByMenuItem[staged.MenuItemID] = id
	}
	for id, staged := range t.menu {
		if staged == nil {
			if old, ok := l.menu[id]; ok {
				l.observer.ForgetMenuItem(old)
			}
			delete(l.menu, id)
			continue
		}
		l.menu[id] = *staged
		l.observer.ObserveAvailability(*staged)
	}
	for _, ev := range events {
		if ev.Alert != nil {
			l.observer.ObserveAlert(ev.Alert.AlertType)
		}
	}
	return events, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
