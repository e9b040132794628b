package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restoplus/internal/models"
)

var testNow = time.Date(2024, 10, 22, 15, 30, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func php(s string) models.Money {
	return models.NewMoney(dec(s), "PHP")
}

func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%03d", n)
	}
}

// recordingStore keeps every applied changeset and fails on demand.
type recordingStore struct {
	mu       sync.Mutex
	snapshot Snapshot
	applied  []Changeset
	fail     error
}

func (s *recordingStore) Load(context.Context) (Snapshot, error) {
	return s.snapshot, nil
}

func (s *recordingStore) Apply(_ context.Context, cs Changeset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	s.applied = append(s.applied, cs)
	return nil
}

func (s *recordingStore) failWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = err
}

type eventRecorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *eventRecorder) Publish(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *eventRecorder) take() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.events
	r.events = nil
	return out
}

type countingObserver struct {
	nopObserver
	mu           sync.Mutex
	deductions   map[string]int
	restorations int
	alerts       map[AlertType]int
}

func newCountingObserver() *countingObserver {
	return &countingObserver{deductions: map[string]int{}, alerts: map[AlertType]int{}}
}

func (o *countingObserver) ObserveDeduction(result string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.deductions[result]++
}

func (o *countingObserver) ObserveRestoration() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.restorations++
}

func (o *countingObserver) ObserveAlert(a AlertType) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.alerts[a]++
}

// fixture is the pizzeria the dashboard starts with: six ingredients and
// two pizzas with recipes.
type fixture struct {
	l          *Ledger
	store      *recordingStore
	events     *eventRecorder
	sku        map[string]string
	pepperoni  string
	margherita string
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	ctx := context.Background()

	f := &fixture{
		store:  &recordingStore{},
		events: &eventRecorder{},
		sku:    map[string]string{},
	}
	base := []Option{
		WithClock(func() time.Time { return testNow }),
		WithIDGenerator(sequentialIDs()),
		WithNotifier(f.events),
	}
	f.l = New(f.store, append(base, opts...)...)

	items := []models.InventoryItem{
		{SKU: "ING-001", Name: "Flour", Category: "Dry Goods", CurrentStock: dec("25000"), MinimumStock: dec("5000"), ReorderLevel: dec("10000"), Unit: models.UnitGram, UnitCost: php("0.10")},
		{SKU: "ING-002", Name: "Cheese (Mozzarella)", Category: "Dairy", CurrentStock: dec("2500"), MinimumStock: dec("500"), ReorderLevel: dec("1000"), Unit: models.UnitGram, UnitCost: php("0.60")},
		{SKU: "ING-003", Name: "Tomato Sauce", Category: "Sauces", CurrentStock: dec("2500"), MinimumStock: dec("500"), ReorderLevel: dec("1000"), Unit: models.UnitGram, UnitCost: php("0.20")},
		{SKU: "ING-004", Name: "Pepperoni", Category: "Meat", CurrentStock: dec("5000"), MinimumStock: dec("1000"), ReorderLevel: dec("2000"), Unit: models.UnitGram, UnitCost: php("0.75")},
		{SKU: "ING-005", Name: "Olive Oil", Category: "Oils", CurrentStock: dec("5000"), MinimumStock: dec("1000"), ReorderLevel: dec("2000"), Unit: models.UnitMilliliter, UnitCost: php("0.40")},
		{SKU: "ING-006", Name: "Basil (Fresh)", Category: "Herbs", CurrentStock: dec("200"), MinimumStock: dec("50"), ReorderLevel: dec("100"), Unit: models.UnitGram, UnitCost: php("2.50")},
	}
	for _, item := range items {
		added, err := f.l.AddInventoryItem(ctx, item)
		require.NoError(t, err)
		f.sku[item.SKU] = added.ID
	}

	pep, err := f.l.AddMenuItem(ctx, models.MenuItem{Name: "Pepperoni Pizza", Category: "Main Course", Price: php("750"), IsAvailable: true})
	require.NoError(t, err)
	mar, err := f.l.AddMenuItem(ctx, models.MenuItem{Name: "Margherita Pizza", Category: "Main Course", Price: php("650"), IsAvailable: true})
	require.NoError(t, err)
	f.pepperoni, f.margherita = pep.ID, mar.ID

	_, err = f.l.AddRecipe(ctx, models.Recipe{MenuItemID: f.pepperoni, Ingredients: models.IngredientList{
		{InventoryItemID: f.sku["ING-001"], Quantity: dec("250"), Unit: models.UnitGram},
		{InventoryItemID: f.sku["ING-002"], Quantity: dec("25"), Unit: models.UnitGram},
		{InventoryItemID: f.sku["ING-003"], Quantity: dec("25"), Unit: models.UnitGram},
		{InventoryItemID: f.sku["ING-004"], Quantity: dec("50"), Unit: models.UnitGram},
		{InventoryItemID: f.sku["ING-005"], Quantity: dec("10"), Unit: models.UnitMilliliter},
	}})
	require.NoError(t, err)
	_, err = f.l.AddRecipe(ctx, models.Recipe{MenuItemID: f.margherita, Ingredients: models.IngredientList{
		{InventoryItemID: f.sku["ING-001"], Quantity: dec("250"), Unit: models.UnitGram},
		{InventoryItemID: f.sku["ING-002"], Quantity: dec("30"), Unit: models.UnitGram},
		{InventoryItemID: f.sku["ING-003"], Quantity: dec("30"), Unit: models.UnitGram},
		{InventoryItemID: f.sku["ING-006"], Quantity: dec("5"), Unit: models.UnitGram},
		{InventoryItemID: f.sku["ING-005"], Quantity: dec("10"), Unit: models.UnitMilliliter},
	}})
	require.NoError(t, err)

	f.events.take()
	return f
}

func (f *fixture) stock(t *testing.T, sku string) decimal.Decimal {
	t.Helper()
	item, err := f.l.GetInventoryItem(f.sku[sku])
	require.NoError(t, err)
	return item.CurrentStock
}

func (f *fixture) stocks(t *testing.T) map[string]decimal.Decimal {
	t.Helper()
	out := map[string]decimal.Decimal{}
	for sku := range f.sku {
		out[sku] = f.stock(t, sku)
	}
	return out
}

func (f *fixture) available(t *testing.T, menuItemID string) bool {
	t.Helper()
	mi, err := f.l.GetMenuItem(menuItemID)
	require.NoError(t, err)
	return mi.IsAvailable
}

func assertStock(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

func TestLedger_FixtureLinksRecipes(t *testing.T) {
	f := newFixture(t)

	mi, err := f.l.GetMenuItem(f.margherita)
	require.NoError(t, err)
	r, ok := f.l.GetRecipeByMenuItemID(f.margherita)
	require.True(t, ok)
	assert.Equal(t, r.ID, mi.RecipeID)
	assert.True(t, mi.IsAvailable)
	assert.Len(t, f.l.ListRecipes(), 2)
	assert.Len(t, f.l.ListMenuItems(""), 2)
}

func TestLedger_Load(t *testing.T) {
	store := &recordingStore{snapshot: Snapshot{
		InventoryItems: []models.InventoryItem{
			{ID: "flour", SKU: "ING-001", Name: "Flour", CurrentStock: dec("1000"), Unit: models.UnitGram},
		},
		Recipes: []models.Recipe{
			{ID: "r1", MenuItemID: "bread", Ingredients: models.IngredientList{{InventoryItemID: "flour", Quantity: dec("500"), Unit: models.UnitGram}}},
		},
		MenuItems: []models.MenuItem{
			{ID: "bread", Name: "Bread", IsAvailable: true, RecipeID: "r1"},
		},
	}}
	l := New(store)
	require.NoError(t, l.Load(context.Background()))

	item, err := l.GetInventoryItemBySKU("ING-001")
	require.NoError(t, err)
	assert.Equal(t, "flour", item.ID)

	r, ok := l.GetRecipeByMenuItemID("bread")
	require.True(t, ok)
	assert.Equal(t, "r1", r.ID)

	assert.True(t, l.CheckAvailability("bread", 2))
	assert.False(t, l.CheckAvailability("bread", 3))
}

func TestLedger_LoadWithoutStore(t *testing.T) {
	l := New(nil)
	assert.NoError(t, l.Load(context.Background()))
	assert.Empty(t, l.ListInventoryItems(InventoryFilter{}))
}

func TestLedger_WritesThroughToStore(t *testing.T) {
	f := newFixture(t)
	before := len(f.store.applied)

	ok, err := f.l.DeductInventoryForOrder(context.Background(), f.margherita, 2)
	require.NoError(t, err)
	require.True(t, ok)

	require.Len(t, f.store.applied, before+1, "one changeset per operation")
	cs := f.store.applied[len(f.store.applied)-1]
	assert.Len(t, cs.InventoryItems, 5)
	assert.Empty(t, cs.MenuItems, "availability did not change")
}

func TestLedger_StoreFailureLeavesStateUntouched(t *testing.T) {
	f := newFixture(t)
	before := f.stocks(t)
	f.store.failWith(errors.New("disk full"))

	ok, err := f.l.DeductInventoryForOrder(context.Background(), f.margherita, 1)
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrStore)

	err = f.l.RestoreInventoryForOrder(context.Background(), f.margherita, 1)
	assert.ErrorIs(t, err, ErrStore)

	_, err = f.l.AddInventoryItem(context.Background(), models.InventoryItem{Name: "Salt", Unit: models.UnitGram})
	assert.ErrorIs(t, err, ErrStore)

	for sku, want := range before {
		assert.Truef(t, want.Equal(f.stock(t, sku)), "%s changed", sku)
	}
	assert.Len(t, f.l.ListInventoryItems(InventoryFilter{}), 6)
	assert.Empty(t, f.events.take())
}
