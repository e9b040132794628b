package database

import (
	"context"
	"fmt"

	"github.com/jinzhu/gorm"
	"go.uber.org/zap"

	"restoplus/internal/ledger"
)

// Store persists ledger state in three tables: inventory_items, recipes and menu_items.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewStore wraps an open database connection.
func NewStore(db *gorm.DB, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{db: db, logger: logger}
}

// Migrate creates or updates the ledger tables.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(
		&inventoryItemRecord{},
		&recipeRecord{},
		&menuItemRecord{},
	).Error
}

// Load reads the full ledger state.
func (s *Store) Load(ctx context.Context) (ledger.Snapshot, error) {
	db := s.db.BeginTx(ctx, nil)
	if db.Error != nil {
		return ledger.Snapshot{}, db.Error
	}
	defer db.Rollback()

	var (
		items   []inventoryItemRecord
		recipes []recipeRecord
		menu    []menuItemRecord
	)
	if err := db.Order("id").Find(&items).Error; err != nil {
		return ledger.Snapshot{}, fmt.Errorf("load inventory items: %w", err)
	}
	if err := db.Order("id").Find(&recipes).Error; err != nil {
		return ledger.Snapshot{}, fmt.Errorf("load recipes: %w", err)
	}
	if err := db.Order("id").Find(&menu).Error; err != nil {
		return ledger.Snapshot{}, fmt.Errorf("load menu items: %w", err)
	}

	var snap ledger.Snapshot
	for _, r := range items {
		snap.InventoryItems = append(snap.InventoryItems, r.model())
	}
	for _, r := range recipes {
		snap.Recipes = append(snap.Recipes, r.model())
	}
	for _, r := range menu {
		snap.MenuItems = append(snap.MenuItems, r.model())
	}
	return snap, nil
}

// Apply writes a changeset in a single transaction. Deletions run first so
// that a recipe replaced within one changeset does not trip the unique
// menu item index.
func (s *Store) Apply(ctx context.Context, cs ledger.Changeset) error {
	tx := s.db.BeginTx(ctx, nil)
	if tx.Error != nil {
		return tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := applyChangeset(tx, cs); err != nil {
		tx.Rollback()
		s.logger.Warn("changeset rolled back", zap.Error(err))
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("commit changeset: %w", err)
	}

	s.logger.Debug("changeset applied",
		zap.Int("inventory_items", len(cs.InventoryItems)),
		zap.Int("recipes", len(cs.Recipes)),
		zap.Int("menu_items", len(cs.MenuItems)),
		zap.Int("deleted", len(cs.DeletedInventoryItems)+len(cs.DeletedRecipes)+len(cs.DeletedMenuItems)),
	)
	return nil
}

func applyChangeset(tx *gorm.DB, cs ledger.Changeset) error {
	for _, id := range cs.DeletedRecipes {
		if err := tx.Where("id = ?", id).Delete(&recipeRecord{}).Error; err != nil {
			return fmt.Errorf("delete recipe %s: %w", id, err)
		}
	}
	for _, id := range cs.DeletedMenuItems {
		if err := tx.Where("id = ?", id).Delete(&menuItemRecord{}).Error; err != nil {
			return fmt.Errorf("delete menu item %s: %w", id, err)
		}
	}
	for _, id := range cs.DeletedInventoryItems {
		if err := tx.Where("id = ?", id).Delete(&inventoryItemRecord{}).Error; err != nil {
			return fmt.Errorf("delete inventory item %s: %w", id, err)
		}
	}

	for _, item := range cs.InventoryItems {
		rec := newInventoryItemRecord(item)
		if err := save(tx, &rec, rec.ID); err != nil {
			return fmt.Errorf("save inventory item %s: %w", item.ID, err)
		}
	}
	for _, mi := range cs.MenuItems {
		rec := newMenuItemRecord(mi)
		if err := save(tx, &rec, rec.ID); err != nil {
			return fmt.Errorf("save menu item %s: %w", mi.ID, err)
		}
	}
	for _, r := range cs.Recipes {
		rec := newRecipeRecord(r)
		if err := save(tx, &rec, rec.ID); err != nil {
			return fmt.Errorf("save recipe %s: %w", r.ID, err)
		}
	}
	return nil
}

// save inserts rec or updates the existing row with the same id.
func save(tx *gorm.DB, rec interface{}, id string) error {
	var count int
	if err := tx.Model(rec).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return tx.Create(rec).Error
	}
	return tx.Omit("created_at").Save(rec).Error
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}
