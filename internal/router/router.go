// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/beirutvibes/menu-backend/internal/config"
	"github.com/beirutvibes/menu-backend/internal/handlers"
	"github.com/beirutvibes/menu-backend/internal/middleware"
	"github.com/beirutvibes/menu-backend/internal/services"
	"github.com/beirutvibes/menu-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize object storage")
	}

	imageService := services.NewImageService(db, storageService)
	categoryService := services.NewCategoryService(db, imageService)
	productService := services.NewProductService(db, imageService)
	menuService := services.NewMenuService(db)
	settingsService := services.NewSettingsService(db, imageService, cfg.Brand)
	authService := services.NewAuthService(db, cfg.JWT, cfg.Admin)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	menuHandler := handlers.NewMenuHandler(menuService, settingsService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	productHandler := handlers.NewProductHandler(productService, imageService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
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
	v1 := r.Group("/v1")
	{
		// Public surface: the menu and the storefront settings
		v1.GET("/menu", menuHandler.GetPublicMenu)
		v1.GET("/settings", menuHandler.GetPublicSettings)

		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", middleware.AuthRequired(), authHandler.Me)
		}

		// Admin dashboard routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired())
		admin.Use(middleware.AdminRequired(authService))
		{
			admin.GET("/menu", menuHandler.GetAdminMenu)

			categories := admin.Group("/categories")
			{
				categories.GET("", categoryHandler.GetCategories)
				categories.POST("", categoryHandler.CreateCategory)
				categories.PUT("/reorder", categoryHandler.Reorder)
				categories.PUT("/:id", categoryHandler.UpdateCategory)
				categories.PATCH("/:id/visibility", categoryHandler.SetVisibility)
				categories.DELETE("/:id", categoryHandler.DeleteCategory)
			}

			products := admin.Group("/products")
			{
				products.GET("", productHandler.GetProducts)
				products.POST("", productHandler.CreateProduct)
				products.PUT("/reorder", productHandler.Reorder)
				products.PUT("/:id", productHandler.UpdateProduct)
				products.PATCH("/:id/availability", productHandler.SetAvailability)
				products.DELETE("/:id", productHandler.DeleteProduct)
				products.POST("/:id/images", middleware.UploadRateLimit(), productHandler.UploadImages)
				products.PUT("/:id/images/reorder", productHandler.ReorderImages)
			}

			admin.DELETE("/images/:id", productHandler.DeleteImage)

			admin.GET("/settings", settingsHandler.GetSettings)
			admin.PUT("/settings", settingsHandler.UpdateSettings)
		}
	}

	return r
}
