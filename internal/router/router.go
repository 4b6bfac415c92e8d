// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/procurehub/orders-backend/internal/config"
	"github.com/procurehub/orders-backend/internal/handlers"
	"github.com/procurehub/orders-backend/internal/middleware"
	"github.com/procurehub/orders-backend/internal/services"
	"github.com/procurehub/orders-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config, notificationService *services.NotificationService) *gin.Engine {
	// Initialize services
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		logrus.WithError(err).Warn("Feed archive storage unavailable, imports will not be archived")
	}
	catalogService := services.NewCatalogService(db)
	importService := services.NewImportService(db, catalogService, storageService)
	basketService := services.NewBasketService(db, notificationService)
	partnerService := services.NewPartnerService(db)
	authService := services.NewAuthService(db, cfg, notificationService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	catalogHandler := handlers.NewCatalogHandler(importService, cfg.Import.MaxDocumentBytes)
	productHandler := handlers.NewProductHandler(catalogService)
	basketHandler := handlers.NewBasketHandler(basketService)
	orderHandler := handlers.NewOrderHandler(basketService)
	partnerHandler := handlers.NewPartnerHandler(partnerService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.GinLogSilencer())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/verify-email/:token", authHandler.VerifyEmail)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
			auth.GET("/contacts", middleware.AuthRequired(), authHandler.GetContacts)
			auth.POST("/contacts", middleware.AuthRequired(), authHandler.AddContact)
			auth.DELETE("/contacts/:id", middleware.AuthRequired(), authHandler.RemoveContact)
		}

		// Catalog import routes (partner only)
		catalog := v1.Group("/catalog")
		catalog.Use(middleware.AuthRequired(), middleware.PartnerRequired(), middleware.ImportRateLimit())
		{
			catalog.POST("/import", catalogHandler.ImportFeed)
			catalog.PUT("/import", catalogHandler.ImportFeed)
			catalog.DELETE("/import", catalogHandler.DeleteFeed)
		}

		// Product browsing routes (public; authenticated browsing carries
		// the user into the request log)
		products := v1.Group("/products")
		products.Use(middleware.OptionalAuth())
		{
			products.GET("", productHandler.GetProducts)
			products.GET("/:id", productHandler.GetProduct)
		}

		// Basket routes
		basket := v1.Group("/basket")
		basket.Use(middleware.AuthRequired())
		{
			basket.GET("", basketHandler.GetBasket)
			basket.POST("", basketHandler.AddOrUpdateLine)
			basket.PUT("", basketHandler.AddOrUpdateLine)
			basket.DELETE("", basketHandler.RemoveLine)
			basket.POST("/confirm", basketHandler.Confirm)
		}

		// Confirmed order routes
		orders := v1.Group("/orders")
		orders.Use(middleware.AuthRequired())
		{
			orders.GET("", orderHandler.GetOrders)
			orders.GET("/:id", orderHandler.GetOrder)
		}

		// Partner routes
		partner := v1.Group("/partner")
		partner.Use(middleware.AuthRequired(), middleware.PartnerRequired())
		{
			partner.GET("/state", partnerHandler.GetState)
			partner.POST("/state", partnerHandler.SetState)
			partner.GET("/orders", partnerHandler.GetOrders)
			partner.GET("/orders/:id", partnerHandler.GetOrder)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.POST("/partners/:id/state", partnerHandler.SetStateForPartner)
		}
	}

	return r
}
