package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"kitchenops/internal/events"
	"kitchenops/internal/gateway"
	"kitchenops/internal/inventory"
	"kitchenops/internal/labels"
	"kitchenops/internal/logger"
	"kitchenops/internal/models"
	"kitchenops/internal/monitoring"
	"kitchenops/internal/pantry"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// KitchenAPI represents the HTTP API of the kitchen inventory
type KitchenAPI struct {
	Router  *gin.Engine
	Pantry  *pantry.Pantry
	Labels  *labels.Generator
	Hub     *events.Hub
	Monitor *monitoring.Monitor

	jwtSecret []byte
	tokenTTL  time.Duration
}

// Options configures the router
type Options struct {
	CORSOrigins []string
	JWTSecret   string
	TokenTTL    time.Duration
	Logger      *slog.Logger
}

// NewKitchenAPI creates a new kitchen API instance
func NewKitchenAPI(p *pantry.Pantry, gen *labels.Generator, hub *events.Hub, monitor *monitoring.Monitor, opts Options) *KitchenAPI {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := pantry.RegisterValidations(v); err != nil {
			slog.Error("Failed to register validators", "error", err)
		}
	}

	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 12 * time.Hour
	}

	router := gin.New()
	router.Use(gin.Recovery(), logger.GinMiddleware(opts.Logger), corsMiddleware(opts.CORSOrigins))

	api := &KitchenAPI{
		Router:    router,
		Pantry:    p,
		Labels:    gen,
		Hub:       hub,
		Monitor:   monitor,
		jwtSecret: []byte(opts.JWTSecret),
		tokenTTL:  opts.TokenTTL,
	}

	api.setupRoutes()
	return api
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
		}
	}
	if !cfg.AllowAllOrigins {
		if len(origins) == 0 {
			cfg.AllowAllOrigins = true
		} else {
			cfg.AllowOrigins = origins
		}
	}
	return cors.New(cfg)
}

// setupRoutes configures all API endpoints
func (k *KitchenAPI) setupRoutes() {
	// Health check
	k.Router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "KitchenOps API is running"})
	})

	v1 := k.Router.Group("/api/v1", k.staffContext())
	{
		v1.POST("/auth/login", k.Login)

		// Kitchen Ops
		v1.GET("/dashboard", k.GetDashboard)

		// Stock List
		v1.GET("/items", k.ListItems)
		v1.PUT("/items/:id", k.UpdateItem)
		v1.DELETE("/items/:id", k.DeleteItem)
		v1.GET("/items/:id/label.png", k.GetLabel)

		// Stock Intake
		v1.POST("/items", k.CreateItem)
		v1.POST("/items/scan", k.ScanItem)
		v1.POST("/intake/image", k.AnalyzeImage)

		// Daily Specials
		v1.POST("/specials", k.SuggestSpecials)

		// Reports
		v1.GET("/reports", k.GetReports)

		v1.GET("/feed", k.Hub.Handler)
		v1.GET("/status", k.GetStatus)
		v1.GET("/meta", k.GetMeta)
	}
}

// errorStatus maps domain errors onto HTTP status codes
func errorStatus(err error) int {
	switch {
	case errors.Is(err, pantry.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, pantry.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, gateway.ErrSlotBusy), errors.Is(err, gateway.ErrSuperseded):
		return http.StatusConflict
	case errors.Is(err, gateway.ErrGatewayFailure):
		return http.StatusBadGateway
	case errors.Is(err, pantry.ErrNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(errorStatus(err), gin.H{"error": err.Error()})
}

// Kitchen Ops handlers

func (k *KitchenAPI) GetDashboard(c *gin.Context) {
	c.JSON(http.StatusOK, inventory.BuildDashboard(k.Pantry.Snapshot(), k.Pantry.Now()))
}

// Reports handlers

func (k *KitchenAPI) GetReports(c *gin.Context) {
	c.JSON(http.StatusOK, inventory.BuildReport(k.Pantry.Snapshot(), k.Pantry.Now()))
}

// Runtime handlers

func (k *KitchenAPI) GetStatus(c *gin.Context) {
	metrics := k.Monitor.GetMetrics()
	metrics["items"] = len(k.Pantry.Snapshot())
	metrics["feed_clients"] = k.Hub.ClientCount()
	metrics["cached_labels"] = k.Labels.Cached()
	c.JSON(http.StatusOK, metrics)
}

func (k *KitchenAPI) GetMeta(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories":    models.Categories,
		"units":         models.Units,
		"recipeTypes":   models.RecipeTypes,
		"profitMargins": models.ProfitMargins,
		"sortKeys":      []inventory.SortKey{inventory.SortByExpiry, inventory.SortByName, inventory.SortByAdded},
		"thresholds": gin.H{
			"listExpiringSoonDays": inventory.ListExpiringSoonDays,
			"wasteRiskDays":        inventory.WasteRiskDays,
			"defaultMinStockLevel": inventory.DefaultMinStockLevel,
			"priorityWindowDays":   inventory.PriorityWindowDays,
		},
	})
}
