package handler

import (
	"context"
	"strings"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"shopflow/internal/access"
	"shopflow/internal/metrics"
	"shopflow/internal/middleware"
	"shopflow/internal/model"
	"shopflow/internal/prefs"
	"shopflow/internal/service"
	"shopflow/internal/ws"
)

// Deps is everything the HTTP surface needs. Metrics and Hub are optional.
type Deps struct {
	Log         logrus.FieldLogger
	Metrics     *metrics.Metrics
	Hub         *ws.Hub
	Policy      access.Policy
	Cookie      CookieConfig
	Preferences prefs.Preferences
	CORSOrigins []string
	// Health reports whether backing services are reachable.
	Health func(ctx context.Context) error

	Auth       service.AuthService
	Users      service.UserService
	Inventory  service.InventoryService
	Alerts     service.AlertService
	Categories service.CategoryService
	Suppliers  service.SupplierService
	Sales      service.SaleService
	Dashboard  service.DashboardService
	Reports    service.ReportService
	Activity   service.ActivityService
	Settings   service.SettingsService
}

// NewApp builds the fiber application with every route registered.
func NewApp(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "ShopFlow API",
		ErrorHandler: ErrorHandler(d.Log),
	})

	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(d.Log))
	if d.Metrics != nil {
		app.Use(middleware.Metrics(d.Metrics))
	}
	app.Use(recover.New())
	app.Use(corsMiddleware(d.CORSOrigins))
	app.Use(middleware.Preferences(d.Preferences))

	app.Get("/health", func(c *fiber.Ctx) error {
		status := fiber.Map{"status": "ok"}
		if d.Health != nil {
			if err := d.Health(c.UserContext()); err != nil {
				d.Log.WithError(err).Warn("health check failed")
				return c.Status(fiber.StatusServiceUnavailable).JSON(Response{Data: fiber.Map{"status": "unavailable"}})
			}
		}
		return ok(c, status)
	})
	if d.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Metrics.Registry, promhttp.HandlerOpts{})))
	}
	if d.Hub != nil {
		app.Use("/ws", func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		})
		app.Get("/ws", websocket.New(d.Hub.Serve))
	}

	authHandler := NewAuthHandler(d.Auth, d.Users, d.Cookie)
	invHandler := NewInventoryHandler(d.Inventory)
	alertHandler := NewAlertHandler(d.Alerts)
	categoryHandler := NewCategoryHandler(d.Categories)
	supplierHandler := NewSupplierHandler(d.Suppliers)
	saleHandler := NewSaleHandler(d.Sales)
	dashHandler := NewDashboardHandler(d.Dashboard, d.Reports)
	activityHandler := NewActivityHandler(d.Activity)
	userHandler := NewUserHandler(d.Users)
	roleHandler := NewRoleHandler(d.Policy)
	settingsHandler := NewSettingsHandler(d.Settings)

	requireAuth := middleware.RequireAuth(d.Auth, d.Cookie.Name)
	can := func(capability model.Capability) fiber.Handler {
		return middleware.RequireCapability(d.Policy, capability)
	}

	api := app.Group("/api")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/register", authHandler.Register)
	auth.Post("/validate-token", authHandler.ValidateToken)
	auth.Post("/logout", authHandler.Logout)

	// ============ PROTECTED ROUTES ============
	auth.Get("/me", requireAuth, authHandler.Me)
	auth.Post("/change-password", requireAuth, authHandler.ChangePassword)
	auth.Get("/users", requireAuth, can(model.CapUserManage), authHandler.Users)

	protected := api.Group("", requireAuth)

	// Products and stock
	protected.Get("/products", can(model.CapProductView), invHandler.GetProducts)
	protected.Get("/products/:id", can(model.CapProductView), invHandler.GetProduct)
	protected.Get("/products/:id/history", can(model.CapProductView), invHandler.GetHistory)
	protected.Post("/products", can(model.CapProductWrite), invHandler.CreateProduct)
	protected.Put("/products/:id", can(model.CapProductWrite), invHandler.UpdateProduct)
	protected.Delete("/products/:id", can(model.CapProductWrite), invHandler.DeleteProduct)
	protected.Post("/products/:id/adjust", can(model.CapStockAdjust), invHandler.AdjustStock)
	protected.Get("/movements", can(model.CapProductView), invHandler.GetMovements)
	protected.Get("/barcode", can(model.CapProductView), invHandler.GetBySKU)

	protected.Get("/notifications/low-stock", can(model.CapAlertView), alertHandler.GetLowStock)

	// Categories
	protected.Get("/categories", can(model.CapCategoryView), categoryHandler.List)
	protected.Get("/categories/:id", can(model.CapCategoryView), categoryHandler.Get)
	protected.Post("/categories", can(model.CapCategoryWrite), categoryHandler.Create)
	protected.Put("/categories/:id", can(model.CapCategoryWrite), categoryHandler.Update)
	protected.Delete("/categories/:id", can(model.CapCategoryWrite), categoryHandler.Delete)

	// Sales
	protected.Get("/sales", can(model.CapSaleView), saleHandler.List)
	protected.Post("/sales", can(model.CapSaleCreate), saleHandler.Create)

	// Dashboard and reports
	protected.Get("/dashboard/stock-movement", can(model.CapDashboardView), dashHandler.GetStockMovement)
	protected.Get("/reports/sales-summary", can(model.CapReportView), dashHandler.GetSalesSummary)
	protected.Get("/reports/inventory.xlsx", can(model.CapReportView), dashHandler.DownloadInventory)

	// Settings
	protected.Get("/settings/general", can(model.CapSettingsView), settingsHandler.GetGeneral)
	protected.Post("/settings/general", can(model.CapSettingsWrite), settingsHandler.SaveGeneral)
	protected.Get("/settings/theme", can(model.CapSettingsView), settingsHandler.GetTheme)
	protected.Post("/settings/theme", can(model.CapSettingsWrite), settingsHandler.SaveTheme)

	// Administration
	admin := protected.Group("/admin")
	admin.Get("/stats", can(model.CapDashboardView), dashHandler.GetDashboardStats)
	admin.Get("/activity", can(model.CapActivityView), activityHandler.GetRecent)
	admin.Get("/roles", can(model.CapUserManage), roleHandler.GetRoles)

	admin.Get("/users", can(model.CapUserManage), userHandler.GetUsers)
	admin.Get("/users/:id", can(model.CapUserManage), userHandler.GetUser)
	admin.Post("/users", can(model.CapUserManage), userHandler.CreateUser)
	admin.Put("/users/:id", can(model.CapUserManage), userHandler.UpdateUser)
	admin.Delete("/users/:id", can(model.CapUserManage), userHandler.DeleteUser)

	admin.Get("/suppliers", can(model.CapSupplierManage), supplierHandler.List)
	admin.Get("/suppliers/:id", can(model.CapSupplierManage), supplierHandler.Get)
	admin.Post("/suppliers", can(model.CapSupplierManage), supplierHandler.Create)
	admin.Put("/suppliers/:id", can(model.CapSupplierManage), supplierHandler.Update)
	admin.Delete("/suppliers/:id", can(model.CapSupplierManage), supplierHandler.Delete)

	return app
}

// corsMiddleware allows credentials only for an explicit origin list.
func corsMiddleware(origins []string) fiber.Handler {
	allowed := strings.Join(origins, ",")
	if allowed == "" || allowed == "*" {
		return cors.New()
	}
	return cors.New(cors.Config{
		AllowOrigins:     allowed,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Currency, X-Locale",
	})
}
