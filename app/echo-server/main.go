package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"myMarketplace/app/echo-server/metrics"
	"myMarketplace/app/echo-server/router"
	"myMarketplace/internal/bootstrap"
	"myMarketplace/internal/jobs"
	"myMarketplace/internal/middleware"
	"myMarketplace/internal/rest"
	"myMarketplace/pkg/config"
	"myMarketplace/pkg/logger"
	domainMetrics "myMarketplace/pkg/metrics"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting "+cfg.App.Name, "version", cfg.App.Version, "env", cfg.App.Environment)

	metrics.Init()
	domainMetrics.Init()

	app, err := bootstrap.New(cfg)
	if err != nil {
		logger.Fatal("Failed to initialise application", "error", err)
	}
	defer app.Close()

	// Init handler
	handlers := router.Handlers{
		User:     rest.NewUserHandler(app.Users, cfg.App.Environment == logger.EnvProduction),
		Category: rest.NewCategoryHandler(app.Categories, app.Validator),
		Product:  rest.NewProductHandler(app.Products),
		Cart:     rest.NewCartHandler(app.Carts, app.Wishlist, app.Validator),
		Address:  rest.NewAddressHandler(app.Addresses),
		Orders:   rest.NewOrdersHandler(app.Orders, app.Validator),
		Delivery: rest.NewDeliveryHandler(app.Delivery, app.Validator),
		Seller:   rest.NewSellerHandler(app.Analytics),
	}

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger())
	e.Use(metrics.Middleware())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	e.GET("/health", func(c echo.Context) error {
		ctx := c.Request().Context()
		sqlDB, err := app.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err == nil {
			err = app.Redis.Ping(ctx).Err()
		}
		if err != nil {
			logger.Warn("health check failed", "error", err)
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Setup routes
	authRequired := middleware.Auth(app.JWT, app.Tokens)
	api := e.Group("/api/v1")
	router.Setup(api, handlers, authRequired)

	// Assignment job
	assignmentJob := jobs.NewAssignmentJob(app.Delivery, cfg.Delivery.Schedule, cfg.Server.RequestTimeout)
	if err := assignmentJob.Start(); err != nil {
		logger.Fatal("Failed to start assignment job", "error", err)
	}

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	assignmentJob.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
