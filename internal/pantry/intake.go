package pantry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"kitchenops/internal/gateway"
	"kitchenops/internal/models"

	"github.com/go-playground/validator/v10"
)

const day = 24 * time.Hour

// Intake defaults
const (
	ManualShelfLife  = 7 * day
	ScannedShelfLife = 90 * day
	scannedPrefix    = "Scanned Item "
)

var (
	// ErrNothingDetected is returned when a photo yields no items. The collection is unchanged.
	ErrNothingDetected = errors.New("no items detected in the image")
	// ErrInvalidInput wraps validation failures of manual entries.
	ErrInvalidInput = errors.New("invalid item")
	// ErrNotConfigured is returned by AI-backed operations when no provider is wired.
	ErrNotConfigured = errors.New("ai provider is not configured")
)

// Analyzer extracts items from a pantry photo
type Analyzer interface {
	AnalyzeImage(ctx context.Context, image []byte, mimeType string) ([]gateway.Detection, error)
}

// Archiver keeps a copy of intake photos
type Archiver interface {
	Store(ctx context.Context, data []byte, mimeType string) (string, error)
}

// WithAnalyzer enables photo intake
func WithAnalyzer(a Analyzer) Option {
	return func(p *Pantry) { p.analyzer = a }
}

// WithArchiver archives photos before analysis
func WithArchiver(a Archiver) Option {
	return func(p *Pantry) { p.archiver = a }
}

// NewItemInput is a manual stock entry
type NewItemInput struct {
	Name          string          `json:"name" binding:"required,max=120"`
	Category      models.Category `json:"category" binding:"required,category"`
	Quantity      float64         `json:"quantity" binding:"min=0"`
	Unit          models.Unit     `json:"unit" binding:"required,unit"`
	Location      string          `json:"location" binding:"max=120"`
	ExpiryDate    *time.Time      `json:"expiryDate"`
	MinStockLevel *float64        `json:"minStockLevel" binding:"omitempty,min=0"`
}

// RegisterValidations installs the enum validators used by NewItemInput's tags
func RegisterValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return models.Category(fl.Field().String()).Valid()
	}); err != nil {
		return err
	}
	return v.RegisterValidation("unit", func(fl validator.FieldLevel) bool {
		return models.Unit(fl.Field().String()).Valid()
	})
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	if err := RegisterValidations(v); err != nil {
		panic(err)
	}
	return v
}

// AddManual validates a manual entry and adds it. Expiry defaults to a week out.
func (p *Pantry) AddManual(ctx context.Context, in NewItemInput) (models.InventoryItem, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Location = strings.TrimSpace(in.Location)
	if err := validate.Struct(in); err != nil {
		return models.InventoryItem{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	now := p.now()
	expiry := now.Add(ManualShelfLife)
	if in.ExpiryDate != nil {
		expiry = *in.ExpiryDate
	}

	item := models.InventoryItem{
		ID:            p.newID(),
		Name:          in.Name,
		Category:      in.Category,
		Quantity:      in.Quantity,
		Unit:          in.Unit,
		Location:      in.Location,
		AddedDate:     now,
		ExpiryDate:    expiry,
		MinStockLevel: in.MinStockLevel,
	}
	if err := p.Add(ctx, item); err != nil {
		return models.InventoryItem{}, err
	}
	return item, nil
}

// Scan adds the item behind a barcode. Scanning is simulated: the code only names the item,
// and an empty code gets a random one.
func (p *Pantry) Scan(ctx context.Context, code string) (models.InventoryItem, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		code = fmt.Sprintf("%d", rand.IntN(100))
	}

	now := p.now()
	item := models.InventoryItem{
		ID:         p.newID(),
		Name:       scannedPrefix + code,
		Category:   models.CategoryDryStorage,
		Quantity:   1,
		Unit:       models.UnitPack,
		AddedDate:  now,
		ExpiryDate: now.Add(ScannedShelfLife),
	}
	if err := p.Add(ctx, item); err != nil {
		return models.InventoryItem{}, err
	}
	return item, nil
}

// Detect adds the items recognised in a pantry photo in one batch.
// Zero detections return ErrNothingDetected without touching the collection.
func (p *Pantry) Detect(ctx context.Context, image []byte, mimeType string) ([]models.InventoryItem, error) {
	if p.analyzer == nil {
		return nil, fmt.Errorf("photo intake: %w", ErrNotConfigured)
	}

	if p.archiver != nil {
		if key, err := p.archiver.Store(ctx, image, mimeType); err != nil {
			slog.Warn("Failed to archive intake photo", "error", err)
		} else {
			slog.Info("Archived intake photo", "key", key)
		}
	}

	detections, err := p.analyzer.AnalyzeImage(ctx, image, mimeType)
	if err != nil {
		return nil, err
	}
	if len(detections) == 0 {
		return nil, ErrNothingDetected
	}

	now := p.now()
	items := make([]models.InventoryItem, len(detections))
	for i, d := range detections {
		items[i] = models.InventoryItem{
			ID:         p.newID(),
			Name:       d.Name,
			Category:   d.Category,
			Quantity:   d.Quantity,
			Unit:       d.Unit,
			AddedDate:  now,
			ExpiryDate: now.Add(time.Duration(d.DaysUntilExpiry * float64(day))),
		}
	}
	if err := p.Add(ctx, items...); err != nil {
		return nil, err
	}
	return items, nil
}
