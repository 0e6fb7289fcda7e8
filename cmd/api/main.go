package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-marketplace-api/internal/handler"
	"go-marketplace-api/internal/middleware"
	"go-marketplace-api/internal/model"
	"go-marketplace-api/internal/repository"
	"go-marketplace-api/internal/service"
	"go-marketplace-api/internal/ws"
	"go-marketplace-api/pkg/database"
	"go-marketplace-api/pkg/jwt"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup database
	db := database.ConnectDB()
	db.AutoMigrate(
		&model.Section{},
		&model.Category{},
		&model.Product{},
		&model.ProductAttribute{},
		&model.ModerationRecord{},
	)

	// 3. Seed default sections on an empty catalog
	seedDefaultSections(db)

	// 4. Setup WebSocket hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency injection (wiring layers)
	sectionRepo := repository.NewSectionRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	productRepo := repository.NewProductRepo(db)
	moderationRepo := repository.NewModerationRepo(db)

	catalogService := service.NewCatalogService(sectionRepo, categoryRepo)
	productService := service.NewProductService(productRepo, sectionRepo, categoryRepo, wsHub)
	moderationService := service.NewModerationService(productRepo, sectionRepo, moderationRepo, wsHub)
	dashService := service.NewDashboardService(productRepo, sectionRepo, categoryRepo)

	catalogHandler := handler.NewCatalogHandler(catalogService)
	productHandler := handler.NewProductHandler(productService)
	moderationHandler := handler.NewModerationHandler(moderationService)
	dashHandler := handler.NewDashboardHandler(dashService)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Marketplace Catalog API v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Request logging
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	api.Get("/sections", catalogHandler.GetSections)
	api.Get("/sections/:slug", catalogHandler.GetSection)
	api.Get("/sections/:slug/categories", catalogHandler.GetCategories)
	api.Get("/categories", catalogHandler.GetCategories)
	api.Get("/products", productHandler.GetProducts)
	api.Get("/products/:productId", productHandler.GetProduct)
	api.Get("/products/:productId/price", productHandler.GetBulkPrice)

	// ============ SELLER ROUTES ============
	seller := api.Group("/seller", middleware.RequireAuth(), middleware.RequireRole(jwt.RoleSeller, jwt.RoleAdmin))
	seller.Get("/products", productHandler.GetSellerProducts)
	seller.Post("/products", productHandler.CreateProduct)
	seller.Put("/products/:productId", productHandler.UpdateProduct)
	seller.Delete("/products/:productId", productHandler.DeleteProduct)

	// ============ ADMIN ROUTES ============
	admin := api.Group("/admin", middleware.RequireAuth(), middleware.RequireRole(jwt.RoleAdmin))
	admin.Get("/stats", dashHandler.GetStats)
	admin.Post("/sections", catalogHandler.CreateSection)
	admin.Put("/sections/:id", catalogHandler.UpdateSection)
	admin.Delete("/sections/:id", catalogHandler.DeleteSection)
	admin.Post("/categories", catalogHandler.CreateCategory)
	admin.Put("/categories/:id", catalogHandler.UpdateCategory)
	admin.Delete("/categories/:id", catalogHandler.DeleteCategory)
	admin.Get("/products", moderationHandler.GetProducts)
	admin.Post("/products/:productId/approve", moderationHandler.ApproveProduct)
	admin.Post("/products/:productId/reject", moderationHandler.RejectProduct)
	admin.Get("/products/:productId/changes", moderationHandler.GetProductChanges)
	admin.Get("/moderation-log", moderationHandler.GetModerationLog)

	// ============ INTERNAL ROUTES ============
	// Consumed by the order subsystem when a sale completes
	internal := api.Group("/internal", middleware.RequireAuth(), middleware.RequireRole(jwt.RoleAdmin))
	internal.Post("/products/:productId/stock/decrement", productHandler.DecrementStock)

	// WebSocket route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedDefaultSections creates a starter catalog when the sections table is
// empty, so a fresh deployment has something to list products under.
func seedDefaultSections(db *gorm.DB) {
	var count int64
	db.Model(&model.Section{}).Count(&count)
	if count > 0 {
		return
	}

	defaults := []model.Section{
		{
			SectionID:   model.NewPublicID("SEC"),
			Name:        "Email Accounts",
			Slug:        "email-accounts",
			Icon:        "\U0001F4E7",
			Description: "Aged and fresh email accounts from every provider",
			Order:       0,
			IsActive:    true,
			AttributeSchema: model.AttributeSchema{
				"quality": {
					Type:     model.FieldSelect,
					Label:    "Quality",
					Required: true,
					Options:  []string{"PVA", "Non-PVA"},
				},
				"country": {
					Type:  model.FieldString,
					Label: "Country",
				},
				"recovery_included": {
					Type:  model.FieldBoolean,
					Label: "Recovery email included",
				},
			},
		},
		{
			SectionID:   model.NewPublicID("SEC"),
			Name:        "Social Media",
			Slug:        "social-media",
			Icon:        "\U0001F4F1",
			Description: "Social media accounts and services",
			Order:       1,
			IsActive:    true,
			AttributeSchema: model.AttributeSchema{
				"platform": {
					Type:     model.FieldSelect,
					Label:    "Platform",
					Required: true,
					Options:  []string{"Instagram", "Twitter", "TikTok", "Facebook"},
				},
				"verified": {
					Type:  model.FieldBoolean,
					Label: "Verified",
				},
			},
		},
	}

	for i := range defaults {
		defaults[i].CreatedBy = "system"
		defaults[i].UpdatedBy = "system"
		if err := db.Create(&defaults[i]).Error; err != nil {
			log.Printf("Warning: Failed to seed section %s: %v", defaults[i].Name, err)
		}
	}
	log.Println("Seeded default sections")
}
