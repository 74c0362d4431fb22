package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/yunqiangwu/etf-grid-master/internal/api/handlers"
	"github.com/yunqiangwu/etf-grid-master/internal/api/middleware"
	"github.com/yunqiangwu/etf-grid-master/internal/data"
	"github.com/yunqiangwu/etf-grid-master/internal/history"
	"github.com/yunqiangwu/etf-grid-master/internal/logger"
)

func main() {
	// Load .env if present; real env vars win.
	_ = godotenv.Load()

	log, err := logger.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}

	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	quotes := data.NewQuoteClient(os.Getenv("QUOTE_API_BASE"), log)

	// Run history lives in Postgres when DATABASE_URL is set, and in
	// memory otherwise.
	var store history.Store
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		pg, err := history.NewPostgresStore(context.Background(), dsn, history.DefaultLimit)
		if err != nil {
			log.Fatal("failed to connect to postgres", zap.Error(err))
		}
		defer pg.Close()
		store = pg
		log.Info("run history backed by postgres")
	} else {
		store = history.NewMemoryStore(history.DefaultLimit)
		log.Info("run history backed by memory store")
	}

	router := gin.New()
	router.Use(middleware.CORS())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.Recovery())

	backtestHandler := handlers.NewBacktestHandler(quotes, store, log)
	historyHandler := handlers.NewHistoryHandler(store)
	realtimeHandler := handlers.NewRealtimeHandler(quotes)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		api.POST("/backtest", backtestHandler.RunBacktest)

		api.GET("/history", historyHandler.ListRuns)
		api.DELETE("/history/:id", historyHandler.DeleteRun)

		api.GET("/realtime/:symbol", realtimeHandler.GetQuote)
	}

	// Serve a built frontend from web/dist when present (SPA routing).
	staticDir := os.Getenv("STATIC_DIR")
	if staticDir == "" {
		staticDir = "./web/dist"
	}
	if _, err := os.Stat(staticDir); err == nil {
		router.Static("/assets", staticDir+"/assets")
		router.StaticFile("/favicon.ico", staticDir+"/favicon.ico")
		router.NoRoute(func(c *gin.Context) {
			path := c.Request.URL.Path
			if len(path) >= 4 && path[:4] == "/api" {
				c.JSON(404, gin.H{"error": "Not found"})
			} else {
				c.File(staticDir + "/index.html")
			}
		})
		log.Info("serving static files", zap.String("dir", staticDir))
	}

	addr := fmt.Sprintf(":%s", port)
	log.Info("starting API server", zap.String("addr", addr))
	if err := router.Run(addr); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}
