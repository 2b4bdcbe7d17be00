package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-campus-assets/internal/cache"
	"go-campus-assets/internal/handler"
	"go-campus-assets/internal/middleware"
	"go-campus-assets/internal/model"
	"go-campus-assets/internal/repository"
	"go-campus-assets/internal/service"
	"go-campus-assets/internal/ws"
	"go-campus-assets/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	db.AutoMigrate(&model.Resource{}, &model.Department{}, &model.User{})

	// 3. Seed default admin user
	seedAdmin(db)

	// 4. Setup Redis-backed import session store
	redisClient := cache.ConnectRedis()
	importSessions := cache.NewRedisStore(redisClient, "import-session")

	// 5. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 6. Dependency Injection (Wiring Layers)
	resourceRepo := repository.NewResourceRepo(db)
	departmentRepo := repository.NewDepartmentRepo(db)
	userRepo := repository.NewUserRepo(db)

	resourceService := service.NewResourceService(resourceRepo, departmentRepo, wsHub)
	deletionService := service.NewDeletionService(resourceRepo, departmentRepo, wsHub)
	hierarchyService := service.NewHierarchyService(resourceRepo, departmentRepo)
	searchService := service.NewSearchService(resourceRepo)
	importService := service.NewImportService(resourceRepo, departmentRepo, importSessions, wsHub)
	dashboardService := service.NewDashboardService(resourceRepo, departmentRepo)
	authService := service.NewAuthService(userRepo)

	handlers := apiHandlers{
		resources:   handler.NewResourceHandler(resourceService, searchService),
		deletion:    handler.NewDeletionHandler(hierarchyService, deletionService),
		search:      handler.NewSearchHandler(searchService, hierarchyService),
		departments: handler.NewDepartmentHandler(departmentRepo, resourceRepo),
		imports:     handler.NewImportHandler(importService),
		dashboard:   handler.NewDashboardHandler(dashboardService),
		auth:        handler.NewAuthHandler(authService),
	}

	// 7. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Campus Assets API v1.0",
	})

	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	// 8. Routes
	setupRoutes(app, handlers, userRepo)

	// WebSocket Route
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

	// 9. Graceful Shutdown
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

type apiHandlers struct {
	resources   *handler.ResourceHandler
	deletion    *handler.DeletionHandler
	search      *handler.SearchHandler
	departments *handler.DepartmentHandler
	imports     *handler.ImportHandler
	dashboard   *handler.DashboardHandler
	auth        *handler.AuthHandler
}

// setupRoutes registers the API surface. Fiber matches routes in registration
// order, so every static /resources/... path must be registered before the
// /resources/:id parameter route or the parameter captures it.
func setupRoutes(app *fiber.App, h apiHandlers, userRepo repository.UserRepository) {
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", h.auth.Login)
	auth.Post("/validate-token", h.auth.ValidateToken)
	auth.Post("/reset-password", h.auth.ResetPassword)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))
	admin := middleware.RequireRole(model.RoleAdmin)

	// Search and filters
	protected.Post("/resources/advanced-search", h.search.AdvancedSearch)
	protected.Get("/resources/filter-options", h.search.GetFilterOptions)
	protected.Get("/resources/quick-filters", h.search.GetQuickFilters)

	// Hierarchical deletion
	protected.Get("/resources/deletion/departments", h.deletion.GetDepartments)
	protected.Get("/resources/deletion/locations/:department", h.deletion.GetLocations)
	protected.Get("/resources/deletion/devices/:department/:location", h.deletion.GetDevices)
	protected.Post("/resources/deletion/preview", admin, h.deletion.PreviewDeletion)
	protected.Delete("/resources/deletion/execute", admin, h.deletion.ExecuteDeletion)

	// Resource CRUD; the :id routes go last within /resources.
	protected.Get("/resources", h.resources.ListResources)
	protected.Post("/resources", admin, h.resources.CreateResource)
	protected.Get("/resources/:id", h.resources.GetResource)
	protected.Put("/resources/:id", admin, h.resources.UpdateResource)
	protected.Delete("/resources/:id", admin, h.resources.DeleteResource)

	// Departments
	protected.Get("/departments", h.departments.GetDepartments)
	protected.Get("/departments/:department/locations", h.departments.GetDepartmentLocations)
	protected.Post("/departments", admin, h.departments.CreateDepartment)

	// Bulk import staging
	protected.Post("/imports", admin, h.imports.StageImport)
	protected.Get("/imports/:session_id", admin, h.imports.PreviewImport)
	protected.Post("/imports/:session_id/commit", admin, h.imports.CommitImport)
	protected.Delete("/imports/:session_id", admin, h.imports.DiscardImport)

	// Dashboard
	protected.Get("/dashboard/overview", h.dashboard.GetOverview)
}

// seedAdmin creates the default admin user if it does not exist yet.
func seedAdmin(db *gorm.DB) {
	userRepo := repository.NewUserRepo(db)

	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@example.com"
	}
	if _, err := userRepo.FindByEmail(email); err == nil {
		return
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}

	admin := &model.User{
		Email:    email,
		FullName: "Administrator",
		Role:     model.RoleAdmin,
		IsActive: true,
	}
	admin.CreatedBy = "system"
	admin.UpdatedBy = "system"

	if err := admin.SetPassword(password); err != nil {
		log.Printf("Warning: Failed to hash admin password: %v", err)
		return
	}
	if err := userRepo.Create(admin); err != nil {
		log.Printf("Warning: Failed to create admin user: %v", err)
		return
	}
	log.Printf("Admin user created: %s", email)
}
