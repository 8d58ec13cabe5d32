package router

import (
	"time"

	"github.com/warklp/saasBarber-sub001/internal/config"
	"github.com/warklp/saasBarber-sub001/internal/handler"
	"github.com/warklp/saasBarber-sub001/internal/infra"
	"github.com/warklp/saasBarber-sub001/internal/middleware"
	"github.com/warklp/saasBarber-sub001/internal/model"
	"github.com/warklp/saasBarber-sub001/internal/repository"
	"github.com/warklp/saasBarber-sub001/internal/service"
	"github.com/warklp/saasBarber-sub001/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, smtpCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	productRepo := repository.NewProductRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	comandaRepo := repository.NewComandaRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret,
		time.Duration(cfg.JWTExpirationHours)*time.Hour,
		time.Duration(cfg.JWTRefreshHours)*time.Hour)
	catalogSvc := service.NewCatalogService(serviceRepo, customerRepo)
	productSvc := service.NewProductService(productRepo)
	stockSvc := service.NewStockService(productRepo, movementRepo, auditRepo, dispatcher)
	comandaSvc := service.NewComandaService(comandaRepo, appointmentRepo, serviceRepo,
		productRepo, dispatcher, time.Duration(cfg.CommissionWaitMS)*time.Millisecond)
	appointmentSvc := service.NewAppointmentService(appointmentRepo, comandaRepo, comandaSvc)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	catalogH := handler.NewCatalogHandler(catalogSvc)
	productsH := handler.NewProductsHandler(productSvc)
	stockH := handler.NewStockHandler(stockSvc)
	comandasH := handler.NewComandasHandler(comandaSvc, comandaRepo, cfg.BusinessName, cfg.PDFStoragePath)
	appointmentsH := handler.NewAppointmentsHandler(appointmentSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, smtpCB))

	auth := r.Group("/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	staff := middleware.RequireRole(model.RoleAdmin, model.RoleCashier)
	floor := middleware.RequireRole(model.RoleAdmin, model.RoleCashier, model.RoleBarber)

	api := r.Group("", jwtMW)
	{
		comandas := api.Group("/comandas", floor)
		{
			comandas.POST("", comandasH.Open)
			comandas.GET("", comandasH.List)
			comandas.GET("/:id", comandasH.Get)
			comandas.POST("/:id/items", comandasH.AddItem)
			comandas.DELETE("/:id/items/:itemId", comandasH.RemoveItem)
			comandas.PATCH("/:id/close", comandasH.Close)
			comandas.PATCH("/:id/cancel", comandasH.Cancel)
			comandas.GET("/:id/receipt", comandasH.Receipt)
		}

		stock := api.Group("/stock-movements", staff)
		{
			stock.POST("", stockH.Record)
			stock.GET("", stockH.List)
			stock.GET("/alerts", stockH.Alerts)
		}

		appts := api.Group("/appointments", floor)
		{
			appts.POST("", appointmentsH.Create)
			appts.GET("", appointmentsH.List)
			appts.GET("/:id", appointmentsH.Get)
			appts.PATCH("/:id/status", appointmentsH.UpdateStatus)
			appts.PATCH("/:id/complete", appointmentsH.Complete)
			appts.PATCH("/:id/cancel", appointmentsH.Cancel)
		}

		// Catalog reads for the whole floor, writes for staff
		api.GET("/products", floor, productsH.List)
		api.GET("/products/:id", floor, productsH.Get)
		products := api.Group("/products", staff)
		{
			products.POST("", productsH.Create)
			products.PATCH("/:id", productsH.Update)
			products.DELETE("/:id", productsH.Delete)
		}

		api.GET("/services", floor, catalogH.ListServices)
		services := api.Group("/services", staff)
		{
			services.POST("", catalogH.CreateService)
			services.PATCH("/:id", catalogH.UpdateService)
			services.DELETE("/:id", catalogH.DeleteService)
		}

		customers := api.Group("/customers", staff)
		{
			customers.POST("", catalogH.CreateCustomer)
			customers.GET("", catalogH.ListCustomers)
			customers.GET("/:id", catalogH.GetCustomer)
			customers.PATCH("/:id", catalogH.UpdateCustomer)
		}

		users := api.Group("/users", middleware.RequireRole(model.RoleAdmin))
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
			users.PATCH("/:id", usersH.Update)
			users.DELETE("/:id", usersH.Deactivate)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
