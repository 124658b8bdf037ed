package store

import (
	"context"
	"fmt"
	"time"

	"kitchenops/internal/models"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres" // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3"              // SQLite driver
)

// itemRow is the table representation of an inventory item.
// Dates are kept as RFC 3339 strings so every driver round-trips them unchanged.
type itemRow struct {
	ID            string `gorm:"primary_key"`
	Position      int    `gorm:"index"`
	Name          string `gorm:"not null"`
	Category      string
	Quantity      float64
	Unit          string
	Location      string
	AddedDate     string
	ExpiryDate    string
	MinStockLevel *float64
}

// TableName sets the table name for gorm
func (itemRow) TableName() string {
	return "inventory_items"
}

func toRow(item models.InventoryItem, position int) itemRow {
	return itemRow{
		ID:            item.ID,
		Position:      position,
		Name:          item.Name,
		Category:      string(item.Category),
		Quantity:      item.Quantity,
		Unit:          string(item.Unit),
		Location:      item.Location,
		AddedDate:     item.AddedDate.Format(time.RFC3339Nano),
		ExpiryDate:    item.ExpiryDate.Format(time.RFC3339Nano),
		MinStockLevel: item.MinStockLevel,
	}
}

func (r itemRow) toItem() (models.InventoryItem, error) {
	added, err := time.Parse(time.RFC3339Nano, r.AddedDate)
	if err != nil {
		return models.InventoryItem{}, fmt.Errorf("item %s: invalid added date: %w", r.ID, err)
	}
	expiry, err := time.Parse(time.RFC3339Nano, r.ExpiryDate)
	if err != nil {
		return models.InventoryItem{}, fmt.Errorf("item %s: invalid expiry date: %w", r.ID, err)
	}
	return models.InventoryItem{
		ID:            r.ID,
		Name:          r.Name,
		Category:      models.Category(r.Category),
		Quantity:      r.Quantity,
		Unit:          models.Unit(r.Unit),
		Location:      r.Location,
		AddedDate:     added,
		ExpiryDate:    expiry,
		MinStockLevel: r.MinStockLevel,
	}, nil
}

// SQLStore keeps the collection in a relational table through gorm
type SQLStore struct {
	db *gorm.DB
}

// NewSQLStore opens a sqlite or postgres database and migrates the items table
func NewSQLStore(driver, dsn string) (*SQLStore, error) {
	dialect := driver
	if driver == "sqlite" {
		dialect = "sqlite3"
	}

	db, err := gorm.Open(dialect, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	if dialect == "sqlite3" {
		// In-memory databases live per connection
		db.DB().SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&itemRow{}).Error; err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate items table: %w", err)
	}

	return &SQLStore{db: db}, nil
}

// Load returns the stored items in saved order
func (s *SQLStore) Load(ctx context.Context) ([]models.InventoryItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rows []itemRow
	if err := s.db.Order("position asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load items: %w", err)
	}

	items := make([]models.InventoryItem, 0, len(rows))
	for _, row := range rows {
		item, err := row.toItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// Save replaces the stored collection in one transaction
func (s *SQLStore) Save(ctx context.Context, items []models.InventoryItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	if err := tx.Delete(&itemRow{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to clear items: %w", err)
	}
	for i, item := range items {
		row := toRow(item, i)
		if err := tx.Create(&row).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to save item %s: %w", item.ID, err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit items: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *SQLStore) Close() error {
	return s.db.Close()
}
