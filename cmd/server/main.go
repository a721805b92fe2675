package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/modabox/modabox/backend/catalog-service/internal/api"
	"github.com/modabox/modabox/backend/catalog-service/internal/db"
	"github.com/modabox/modabox/backend/catalog-service/internal/logging"
	"github.com/modabox/modabox/backend/catalog-service/internal/search"
	"github.com/modabox/modabox/backend/catalog-service/internal/services"
)

func main() {
	// Load environment variables from .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	log.SetOutput(os.Stdout)

	log.Printf("Catalog Service starting (GIT_SHA=%s BUILD_TIME=%s)", os.Getenv("GIT_SHA"), os.Getenv("BUILD_TIME"))

	// Initialize database connection (non-fatal; allow process to start for /live)
	database, err := db.NewDatabase()
	if err != nil {
		log.Printf("[WARN] Database initialization failed at startup: %v", err)
	}
	if database != nil {
		defer database.Close()
	}

	// Recent-searches store: Redis when configured, in-memory otherwise
	var recents search.RecentStore
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		store, err := search.NewRedisRecentStore(redisURL)
		if err != nil {
			log.Printf("[WARN] Redis initialization failed, using in-memory recents: %v", err)
			recents = search.NewMemoryRecentStore()
		} else {
			defer store.Close()
			recents = store
		}
	} else {
		log.Println("REDIS_URL not set, using in-memory recents store")
		recents = search.NewMemoryRecentStore()
	}

	emailService := services.NewEmailService()
	if !emailService.Configured() {
		log.Println("[WARN] SMTP not configured, order emails disabled")
	}

	handler := api.NewHandler(database, emailService, search.DefaultIndex(), recents)

	router := setupRouter(handler)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	go func() {
		log.Printf("Starting server on port %s", port)
		if err := router.Run(":" + port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
}

func setupRouter(handler *api.Handler) *gin.Engine {
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(logging.JSONLogger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// Serve uploaded files for local development
	router.Static("/uploads", "./uploads")

	// Health and readiness endpoints
	router.GET("/live", func(c *gin.Context) { c.Status(200) })
	router.GET("/ready", handler.Health)
	router.GET("/health", handler.Health)

	v1 := router.Group("/api/v1")
	{
		// Parse JWT if present to expose role info for read endpoints
		v1.Use(api.OptionalAuthMiddleware())

		// Storefront reads (public)
		v1.GET("/products", handler.GetProducts)
		v1.GET("/products/:id", handler.GetProduct)
		v1.GET("/properties", handler.GetProperties)
		v1.GET("/properties/:id/values", handler.GetPropertyValues)
		v1.GET("/product-types", handler.GetProductTypes)
		v1.GET("/product-types/:id/properties", handler.GetProductTypeProperties)

		// Checkout (public)
		v1.POST("/orders", handler.CreateOrder)

		// Protected admin endpoints
		admin := v1.Group("")
		admin.Use(api.AuthMiddleware(), api.AdminMiddleware())
		{
			// Products (write + images)
			admin.POST("/products", handler.CreateProduct)
			admin.PUT("/products/:id", handler.UpdateProduct)
			admin.DELETE("/products/:id", handler.DeleteProduct)
			admin.POST("/products/:id/images", handler.UploadProductImage)
			admin.POST("/products/:id/variants/:variant_id/image", handler.UploadVariantImage)

			// Catalog definitions (write)
			admin.POST("/properties", handler.CreateProperty)
			admin.PUT("/properties/:id", handler.UpdateProperty)
			admin.DELETE("/properties/:id", handler.DeleteProperty)
			admin.POST("/properties/:id/values", handler.CreatePropertyValue)
			admin.DELETE("/properties/:id/values/:value_id", handler.DeletePropertyValue)
			admin.POST("/product-types", handler.CreateProductType)
			admin.PUT("/product-types/:id/properties", handler.SetProductTypeProperties)

			// Orders
			admin.GET("/admin/orders", handler.GetOrders)
			admin.GET("/admin/orders/:id", handler.GetOrder)
			admin.PUT("/admin/orders/:id/status", handler.UpdateOrderStatus)

			// Dashboard and search
			admin.GET("/admin/dashboard", handler.GetDashboardStats)
			admin.GET("/admin/search", handler.SearchAdmin)
			admin.GET("/admin/search/recent", handler.GetRecentSearches)
			admin.POST("/admin/search/recent", handler.AddRecentSearch)
		}
	}

	// Root endpoint for basic info
	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "catalog-service",
			"version": "1.0.0",
			"status":  "running",
		})
	})

	return router
}

// corsMiddleware adds CORS headers to allow cross-origin requests
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, X-Client-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
