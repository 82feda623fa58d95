package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"stationops/internal/handler"
	"stationops/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	CheckInHandler   *handler.CheckInHandler
	InventoryHandler *handler.InventoryHandler
	RedisClient      *redis.Client
	NewRelicApp      *newrelic.Application
	AllowedOrigins   []string
	Logger           *zap.Logger
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware(deps.AllowedOrigins))

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes, all scoped to an operator at a station.
	v1 := router.Group("/v1")
	v1.Use(middleware.OperatorMiddleware())
	v1.Use(middleware.IdempotencyMiddleware(deps.RedisClient, deps.Logger))
	{
		// Check-in workflow routes.
		checkin := v1.Group("/checkin")
		{
			checkin.GET("", deps.CheckInHandler.Current)
			checkin.DELETE("", deps.CheckInHandler.Abandon)
			checkin.POST("/scan", deps.CheckInHandler.Scan)
			checkin.POST("/verify", deps.CheckInHandler.Verify)
			checkin.POST("/payment", deps.CheckInHandler.StartPayment)
			checkin.POST("/payment/complete", deps.CheckInHandler.CompletePayment)
			checkin.GET("/resume", deps.CheckInHandler.Resume)
			checkin.POST("/swap", deps.CheckInHandler.Swap)
			checkin.POST("/back", deps.CheckInHandler.Back)
			checkin.GET("/journal", deps.CheckInHandler.Journal)
			checkin.GET("/reconciliation", deps.CheckInHandler.Reconciliation)
		}

		// Station routes.
		stations := v1.Group("/stations")
		{
			stations.GET("/:id/batteries", deps.InventoryHandler.StationBatteries)
			stations.GET("/:id/bookings", deps.CheckInHandler.StationBookings)
		}

		// Inventory routes.
		v1.POST("/slots/:id/battery", deps.InventoryHandler.AssignBattery)
		batteries := v1.Group("/batteries")
		{
			batteries.PATCH("/:id/percentage", deps.InventoryHandler.UpdatePercentage)
			batteries.DELETE("/:id/slot", deps.InventoryHandler.RemoveBattery)
		}
	}

	return router
}
