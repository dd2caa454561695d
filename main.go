package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"locshare/internal/config"
	"locshare/internal/dispatch"
	"locshare/internal/handler"
	"locshare/internal/location"
	"locshare/internal/middleware"
	"locshare/internal/permission"
	"locshare/internal/pkg/gpostgresql"
	"locshare/internal/prefstore"
	"locshare/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/useinsider/go-pkg/inslogger"
	"github.com/useinsider/go-pkg/insredis"
)

// @title Location Hand-off Service API
// @version 1.0
// @description One-action service that shares the current position and battery level over a WhatsApp deep link

// @host localhost:8080
// @BasePath /api
func main() {
	ctx := context.Background()

	appConfig := config.ReadEnvironment(ctx)
	logger := inslogger.NewLogger(inslogger.Debug)

	pool, err := gpostgresql.NewDBConnection(ctx, &appConfig.Database, logger)
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	defer gpostgresql.Close(ctx, pool, logger)

	if err := gpostgresql.EnsureSchema(ctx, pool, logger); err != nil {
		log.Fatalf("Error ensuring schema: %v", err)
	}

	redisClient := insredis.Init(insredis.Config{
		RedisHost: fmt.Sprintf("%s:%d", appConfig.Redis.Host, appConfig.Redis.Port),
	})

	store := prefstore.NewStore(pool, redisClient, logger)
	gate := permission.NewGate(&permission.DeviceProber{
		ProviderURL: appConfig.ProviderURL,
		TorchPath:   appConfig.TorchPath,
	}, logger)
	acquirer := location.NewAcquirer(
		&location.HTTPProvider{BaseURL: appConfig.ProviderURL},
		&location.SysfsBattery{CapacityPath: appConfig.BatteryPath},
		logger,
	)
	dispatcher := dispatch.NewDispatcher(appConfig.Platform, dispatch.ExecRunner{}, logger)

	machine := workflow.NewMachine(
		store,
		gate,
		acquirer,
		dispatcher,
		time.Duration(appConfig.StatusTTLSeconds)*time.Second,
		logger,
	)
	machine.Start(ctx)

	appHandler := handler.NewAppHandler(machine, logger)

	router := gin.Default()
	router.Use(middleware.PrometheusMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api")
	{
		api.GET("/state", appHandler.GetState)
		api.GET("/profile", appHandler.GetProfile)
		api.PUT("/profile", appHandler.SubmitProfile)
		api.POST("/profile/edit", appHandler.EditProfile)
		api.POST("/location/send", appHandler.SendLocation)
		api.POST("/phone/format", appHandler.FormatPhone)
		api.GET("/about", appHandler.About)
		// Flashlight ships disabled; the handler stays wired for when the
		// torch surface comes back.
		// api.POST("/torch/toggle", appHandler.ToggleTorch)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", appConfig.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Logf("Starting server on port %d", appConfig.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Error starting server: %v", err)
		}
	}()

	shutdownCtx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
	defer stop()
	<-shutdownCtx.Done()

	logger.Log("Shutdown signal received")
	timeoutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(timeoutCtx); err != nil {
		logger.Errorf("Error shutting down server: %v", err)
	}
	logger.Log("Server stopped")
}
