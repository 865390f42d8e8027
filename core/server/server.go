package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eventhub/core/cache"
	"eventhub/core/config"
	"eventhub/core/database"
	"eventhub/core/logger"
	"eventhub/core/middleware"
	"eventhub/core/realtime"
	"eventhub/core/storage"
	"eventhub/modules/auth"
	"eventhub/modules/event"
	"eventhub/modules/event/worker"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

// Run wires the whole application together and blocks until shutdown.
func Run() error {
	cfg := config.Get()

	db, err := database.InitDB(database.DatabaseConfig{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		return err
	}

	redisCache, err := cache.NewCache(cfg.Redis)
	if err != nil {
		return err
	}

	feed := realtime.NewRedisFeed(redisCache.Client())
	images := storage.NewS3Storage(cfg.Storage)
	mw := middleware.NewMiddleware(redisCache)

	var enqueuer *worker.Enqueuer
	if cfg.Worker.Enabled {
		enqueuer = worker.NewEnqueuer(cfg.Redis)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestID())
	e.Use(echoMiddleware.CORS())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := e.Group("/api/v1")
	auth.Init(api, &db, redisCache, mw)
	eventService := event.Init(api, &db, mw, feed, images, enqueuer)

	if cfg.Worker.Enabled {
		handler := worker.NewHandler(eventService)
		go func() {
			if err := worker.RunServer(cfg.Redis, cfg.Worker.Concurrency, handler); err != nil {
				logger.Error("Server:Worker:Error:", err)
			}
		}()
	}

	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			logger.Error("Server:Start:Error:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if enqueuer != nil {
		if err := enqueuer.Close(); err != nil {
			logger.Error("Server:Shutdown:EnqueuerClose:Error:", err)
		}
	}
	return e.Shutdown(ctx)
}
