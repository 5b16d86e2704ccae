package main

import (
	"log"
	"strings"

	"gudang-backend/internal/admin"
	"gudang-backend/internal/apperr"
	"gudang-backend/internal/audit"
	"gudang-backend/internal/auth"
	"gudang-backend/internal/config"
	"gudang-backend/internal/dashboard"
	"gudang-backend/internal/database"
	"gudang-backend/internal/inventory"
	"gudang-backend/internal/models"
	"gudang-backend/internal/report"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		AppName:      "gudang-backend",
		ErrorHandler: apperr.Handler,
		BodyLimit:    10 * 1024 * 1024, // xlsx imports
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} ${latency} ${method} ${path}\n",
	}))

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	loginLimiter := limiter.New(limiter.Config{
		Max:        cfg.LoginRateLimit,
		Expiration: cfg.LoginRateWindow,
		LimitReached: func(c *fiber.Ctx) error {
			return apperr.New(apperr.KindRateLimit, "")
		},
	})
	api.Post("/auth/register-super-admin", auth.RegisterSuperAdminHandler())
	api.Post("/auth/login", loginLimiter, auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())
	protected.Post("/auth/logout", auth.LogoutHandler())

	// Produk
	protected.Get("/products", inventory.ListProductsHandler())
	protected.Post("/products", inventory.CreateProductHandler())
	protected.Post("/products/import", inventory.ImportProductsHandler())
	protected.Get("/products/groups/:name", inventory.GetProductGroupHandler())
	protected.Put("/products/groups/:name", inventory.ReplaceProductGroupHandler())
	protected.Delete("/products/groups/:name", inventory.DeleteProductGroupHandler())
	protected.Put("/products/:id", inventory.UpdateProductHandler())
	protected.Delete("/products/:id", inventory.DeleteProductHandler())

	// Stok masuk / keluar
	protected.Post("/stock-in", inventory.CreateStockInHandler())
	protected.Get("/stock-in", inventory.ListStockInHandler())
	protected.Post("/stock-out", inventory.CreateStockOutHandler())
	protected.Get("/stock-out", inventory.ListStockOutHandler())
	protected.Get("/stock/history", inventory.StockHistoryHandler())
	protected.Get("/stock/form-options", inventory.StockFormOptionsHandler())

	// Master data (read)
	protected.Get("/branches", admin.ListBranchesHandler())
	protected.Get("/outbound-categories", inventory.ListOutboundCategoriesHandler())
	protected.Get("/inbound-categories", inventory.ListInboundCategoriesHandler())

	// Laporan
	protected.Get("/reports/summary", report.SummaryHandler())
	protected.Get("/reports/stock-in", report.StockInReportHandler())
	protected.Get("/reports/stock-out", report.StockOutReportHandler())
	protected.Get("/reports/dashboard", report.DashboardHandler())
	protected.Get("/reports/export", report.ExportHandler())
	protected.Get("/dashboard/movement-chart", dashboard.MovementChartHandler())

	// Audit: own actions, or everyone's for superadmin
	protected.Get("/audit-logs", audit.ListAuditLogsHandler())

	// Super admin routes
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleSuperAdmin))

	adminRoutes.Post("/branches", admin.CreateBranchHandler())
	adminRoutes.Put("/branches/:id", admin.UpdateBranchHandler())
	adminRoutes.Delete("/branches/:id", admin.DeleteBranchHandler())

	adminRoutes.Post("/outbound-categories", inventory.CreateOutboundCategoryHandler())
	adminRoutes.Put("/outbound-categories/:id", inventory.UpdateOutboundCategoryHandler())
	adminRoutes.Delete("/outbound-categories/:id", inventory.DeleteOutboundCategoryHandler())

	adminRoutes.Get("/users", admin.ListUsersHandler())
	adminRoutes.Post("/users", admin.CreateUserHandler())
	adminRoutes.Get("/audit-logs", audit.ListAuditLogsHandler())

	log.Printf("Server berjalan di :%s", cfg.HTTPPort)
	log.Fatal(app.Listen(":" + cfg.HTTPPort))
}
