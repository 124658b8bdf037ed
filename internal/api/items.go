package api

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"kitchenops/internal/inventory"
	"kitchenops/internal/models"
	"kitchenops/internal/pantry"

	"github.com/gin-gonic/gin"
)

const (
	maxImageBytes      = 10 << 20
	nothingDetectedMsg = "No items detected. Try a clearer photo of the shelf or delivery."
)

// ItemList is the stock list response
type ItemList struct {
	Items []inventory.ItemStatus `json:"items"`
	Count int                    `json:"count"`
	Total int                    `json:"total"`
}

// Stock List handlers

func (k *KitchenAPI) ListItems(c *gin.Context) {
	sortKey, err := inventory.ParseSortKey(c.Query("sort"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	q := inventory.Query{
		Search:   c.Query("search"),
		Category: c.DefaultQuery("category", inventory.AllCategories),
		Sort:     sortKey,
	}

	all := k.Pantry.Snapshot()
	items := inventory.Annotate(inventory.View(all, q), k.Pantry.Now())
	c.JSON(http.StatusOK, ItemList{Items: items, Count: len(items), Total: len(all)})
}

func (k *KitchenAPI) UpdateItem(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, gin.H{"error": "editing items is not supported"})
}

func (k *KitchenAPI) DeleteItem(c *gin.Context) {
	id := c.Param("id")
	removed, err := k.Pantry.Delete(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}

	k.Labels.Forget(id)
	c.JSON(http.StatusOK, gin.H{"message": "Item deleted", "item": removed})
}

func (k *KitchenAPI) GetLabel(c *gin.Context) {
	id := c.Param("id")
	if _, ok := k.Pantry.Get(id); !ok {
		abortWithError(c, pantry.ErrItemNotFound)
		return
	}

	png, err := k.Labels.PNG(id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// Stock Intake handlers

func (k *KitchenAPI) CreateItem(c *gin.Context) {
	var in pantry.NewItemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := k.Pantry.AddManual(c.Request.Context(), in)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// ScanRequest carries a barcode read by the scanner
type ScanRequest struct {
	Code string `json:"code"`
}

func (k *KitchenAPI) ScanItem(c *gin.Context) {
	var req ScanRequest
	// An empty body scans a random code
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := k.Pantry.Scan(c.Request.Context(), req.Code)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (k *KitchenAPI) AnalyzeImage(c *gin.Context) {
	header, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field \"image\" is required"})
		return
	}
	if header.Size > maxImageBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image exceeds 10MB"})
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" || !strings.HasPrefix(mimeType, "image/") {
		mimeType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "upload is not an image"})
		return
	}

	items, err := k.Pantry.Detect(c.Request.Context(), data, mimeType)
	if errors.Is(err, pantry.ErrNothingDetected) {
		c.JSON(http.StatusOK, gin.H{"items": []models.InventoryItem{}, "message": nothingDetectedMsg})
		return
	}
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"items": items})
}

// Daily Specials handlers

func (k *KitchenAPI) SuggestSpecials(c *gin.Context) {
	specials, err := k.Pantry.Specials(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, specials)
}
