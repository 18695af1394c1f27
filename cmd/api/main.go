package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adinaninacerdine/sgg-project/internal/authz"
	"github.com/adinaninacerdine/sgg-project/internal/handler"
	"github.com/adinaninacerdine/sgg-project/internal/middleware"
	"github.com/adinaninacerdine/sgg-project/internal/model"
	"github.com/adinaninacerdine/sgg-project/internal/repository"
	"github.com/adinaninacerdine/sgg-project/internal/service"
	"github.com/adinaninacerdine/sgg-project/internal/ws"
	"github.com/adinaninacerdine/sgg-project/pkg/database"

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
	db.AutoMigrate(
		&model.User{},
		&model.Ministry{},
		&model.UserMinistryPermission{},
		&model.PermissionGroup{},
		&model.Action{},
		&model.TeamMember{},
		&model.ActionHistory{},
	)

	// 3. Seed ministries, permission groups and the bootstrap admin
	seedDirectoryAndAdmin(db)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	ministryRepo := repository.NewMinistryRepo(db)
	userRepo := repository.NewUserRepo(db)
	permRepo := repository.NewPermissionRepo(db)
	actionRepo := repository.NewActionRepo(db)
	teamRepo := repository.NewTeamRepo(db)
	historyRepo := repository.NewHistoryRepo(db)

	az := authz.NewAuthorizer(actionRepo, ministryRepo, permRepo)

	authService := service.NewAuthService(userRepo, permRepo)
	userService := service.NewUserService(userRepo)
	permService := service.NewPermissionService(permRepo, ministryRepo, userRepo, db)
	actionService := service.NewActionService(actionRepo, ministryRepo, historyRepo, wsHub)
	teamService := service.NewTeamService(teamRepo, actionRepo, ministryRepo)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	permHandler := handler.NewPermissionHandler(permService, az, ministryRepo)
	actionHandler := handler.NewActionHandler(actionService)
	teamHandler := handler.NewTeamHandler(teamService)
	ministryHandler := handler.NewMinistryHandler(ministryRepo)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "SGG Action Tracker v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 7. Routes
	api := app.Group("/api")

	api.Get("/test", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "time": time.Now().Format(time.RFC3339)})
	})

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", middleware.RequireAuth(), authHandler.Me)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth())

	// Ministry directory
	protected.Get("/ministries", ministryHandler.List)
	protected.Get("/ministries/:id", ministryHandler.Get)

	// Actions (capability-gated per ministry; listing without a ministry
	// narrows to the caller's viewable set)
	actions := protected.Group("/actions")
	actions.Get("/", middleware.RequireAction(az, authz.ActionRead), actionHandler.List)
	actions.Get("/stats", middleware.RequireAction(az, authz.ActionRead), actionHandler.Overview)
	actions.Get("/stats/overview", middleware.RequireAdmin(), actionHandler.Stats)
	actions.Get("/export/csv", middleware.RequireAction(az, authz.ActionExportData), actionHandler.Export)
	actions.Post("/", middleware.RequireAction(az, authz.ActionCreate), middleware.AuditAction(historyRepo, model.HistoryCreated), actionHandler.Create)
	actions.Get("/:id", middleware.RequireAction(az, authz.ActionRead), actionHandler.Get)
	actions.Get("/:id/view", middleware.RequireAction(az, authz.ActionRead), middleware.AuditAction(historyRepo, model.HistoryViewed), actionHandler.View)
	actions.Get("/:id/history", middleware.RequireAction(az, authz.ActionRead), actionHandler.GetHistory)
	actions.Put("/:id", middleware.RequireAction(az, authz.ActionUpdate), middleware.AuditAction(historyRepo, model.HistoryUpdated), actionHandler.Update)
	actions.Delete("/:id", middleware.RequireAction(az, authz.ActionDelete), middleware.AuditAction(historyRepo, model.HistoryDeleted), actionHandler.Delete)

	// Team (the :id here is a member id, so the ministry context comes
	// from the body or the query string)
	team := protected.Group("/teams")
	team.Get("/", middleware.RequireMinistryAction(az, authz.ActionViewTeam), teamHandler.List)
	team.Get("/performance", middleware.RequireMinistryAction(az, authz.ActionViewReports), teamHandler.Performance)
	team.Get("/export/csv", middleware.RequireMinistryAction(az, authz.ActionExportData), teamHandler.Export)
	team.Get("/responsibles", teamHandler.Responsibles)
	team.Post("/", middleware.RequireMinistryAction(az, authz.ActionManageTeam), teamHandler.Create)
	team.Post("/import", middleware.RequireMinistryAction(az, authz.ActionManageTeam), teamHandler.Import)
	team.Get("/:id", middleware.RequireMinistryAction(az, authz.ActionViewTeam), teamHandler.Get)
	team.Put("/:id", middleware.RequireMinistryAction(az, authz.ActionManageTeam), teamHandler.Update)
	team.Delete("/:id", middleware.RequireMinistryAction(az, authz.ActionManageTeam), teamHandler.Delete)

	// Permission administration
	perms := protected.Group("/permissions")
	perms.Get("/check", permHandler.Check)
	perms.Get("/groups", middleware.RequireAdmin(), permHandler.Groups)
	perms.Get("/user/:userId", permHandler.GetUserPermissions)
	perms.Get("/all", middleware.RequireAdmin(), permHandler.GetAllUsersPermissions)
	perms.Post("/assign", middleware.RequireAdmin(), permHandler.Assign)
	perms.Delete("/revoke", middleware.RequireAdmin(), permHandler.Revoke)
	perms.Post("/apply-group", middleware.RequireAdmin(), permHandler.ApplyGroup)

	// Older client surface: same PermissionService behind a row-list shape
	userPerms := protected.Group("/user-permissions")
	userPerms.Get("/summary", middleware.RequireAdmin(), permHandler.Summary)
	userPerms.Post("/assign", middleware.RequireAdmin(), permHandler.BulkReplaceBody)
	userPerms.Post("/create-user", middleware.RequireAdmin(), permHandler.CreateUserWithPermissions)
	userPerms.Get("/:userId", permHandler.GetUserPermissionRows)
	userPerms.Put("/:userId", middleware.RequireAdmin(), permHandler.BulkReplace)

	// User administration
	users := protected.Group("/users", middleware.RequireAdmin())
	users.Get("/", userHandler.GetAll)
	users.Get("/pending", userHandler.GetPending)
	users.Get("/stats", userHandler.Stats)
	users.Put("/:id/activate", userHandler.Activate)
	users.Put("/:id/deactivate", userHandler.Deactivate)
	users.Put("/:id/role", userHandler.ChangeRole)
	users.Delete("/:id", userHandler.Delete)

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

	// 8. Graceful Shutdown
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
	database.Close(db)

	log.Println("Server exited")
}

// seedDirectoryAndAdmin creates the ministry directory, the permission group
// templates and a bootstrap administrator if they don't exist.
func seedDirectoryAndAdmin(db *gorm.DB) {
	ministryRepo := repository.NewMinistryRepo(db)
	permRepo := repository.NewPermissionRepo(db)
	userRepo := repository.NewUserRepo(db)

	if err := ministryRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed ministries: %v", err)
	}
	if err := permRepo.SeedDefaultGroups(); err != nil {
		log.Printf("Warning: Failed to seed permission groups: %v", err)
	}

	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@sgg.gov"
	}
	if _, err := userRepo.FindByEmail(adminEmail); err == nil {
		return
	}

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "admin123"
	}

	now := time.Now()
	admin := &model.User{
		Name:         "Administrator",
		Email:        adminEmail,
		Role:         model.RoleAdmin,
		IsSuperAdmin: true,
		IsActive:     true,
		ApprovedAt:   &now,
	}
	if err := admin.SetPassword(adminPassword); err != nil {
		log.Printf("Warning: Failed to hash admin password: %v", err)
		return
	}
	if err := userRepo.Create(admin); err != nil {
		log.Printf("Warning: Failed to create admin user: %v", err)
	} else {
		log.Printf("Admin user created: %s", adminEmail)
	}
}
