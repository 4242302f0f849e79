package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/fournil/internal/config"
	"github.com/polkiloo/fournil/internal/server/http/handlers"
	"github.com/polkiloo/fournil/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.Facade, cfg *config.Config, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.CORS(cfg.CORSAllowOrigins))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedExtensions([]string{".csv"})))

	authHandler := handlers.NewAuthHandler(facade)
	catalogHandler := handlers.NewCatalogHandler(facade)
	clientHandler := handlers.NewClientHandler(facade)
	batchHandler := handlers.NewBatchHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	settlementHandler := handlers.NewSettlementHandler(facade)
	planHandler := handlers.NewPlanHandler(facade)
	healthHandler := handlers.NewHealthHandler(facade)

	api := engine.Group("/api")
	api.GET("/health", healthHandler.Check)

	clients := api.Group("/clients")
	clients.POST("/register", authHandler.Register)
	clients.POST("/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.AuthRequired(facade))
	authed.GET("/catalog/products", catalogHandler.Products)
	authed.GET("/catalog/repositories", catalogHandler.Repositories)
	authed.GET("/batches/eligible", batchHandler.Eligible)
	authed.GET("/orders", orderHandler.List)
	authed.POST("/orders", orderHandler.Create)
	authed.GET("/orders/:id", orderHandler.Get)
	authed.PUT("/orders/:id", orderHandler.Edit)
	authed.DELETE("/orders/:id", orderHandler.Cancel)
	authed.GET("/wallet", settlementHandler.Wallet)

	admin := authed.Group("/admin")
	admin.Use(middleware.AdminRequired(facade))
	admin.GET("/batches", batchHandler.List)
	admin.POST("/batches", batchHandler.Create)
	admin.PUT("/batches/:id", batchHandler.Update)
	admin.DELETE("/batches/:id", batchHandler.Delete)
	admin.GET("/products", catalogHandler.AllProducts)
	admin.POST("/products", catalogHandler.CreateProduct)
	admin.PUT("/products/:id", catalogHandler.UpdateProduct)
	admin.GET("/repositories", catalogHandler.AllRepositories)
	admin.POST("/repositories", catalogHandler.CreateRepository)
	admin.PUT("/repositories/:id", catalogHandler.UpdateRepository)
	admin.GET("/clients", clientHandler.List)
	admin.PUT("/clients/:id/disabled", clientHandler.SetDisabled)
	admin.POST("/mailings", clientHandler.Mailing)
	admin.POST("/invoices", settlementHandler.Invoice)
	admin.GET("/invoices/watermark", settlementHandler.Watermark)
	admin.POST("/clients/:id/payments", settlementHandler.Payment)
	admin.GET("/plan", planHandler.Batches)
	admin.GET("/plan/:batch", planHandler.Plan)
	admin.GET("/plan/:batch/export.csv", planHandler.Export)

	return engine
}
