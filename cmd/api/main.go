package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"lithuania-bess/internal/api/handlers"
	"lithuania-bess/internal/api/middleware"
	"lithuania-bess/internal/config"
)

func main() {
	if home, err := os.UserHomeDir(); err == nil {
		_ = godotenv.Load(filepath.Join(home, ".env"))
	}
	_ = godotenv.Load()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})

	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}

	cfg, err := config.Load(os.Getenv("BESS_CONFIG"))
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	log.Info().Str("data_dir", cfg.Data.Dir).Msg("starting")

	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())

	svc := handlers.NewService(cfg)
	revenueHandler := handlers.NewRevenueHandler(svc)
	scenarioHandler := handlers.NewScenarioHandler(svc)
	statsHandler := handlers.NewStatsHandler(svc)
	reportHandler := handlers.NewReportHandler(svc)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		api.GET("/revenue", revenueHandler.GetRevenue)
		api.POST("/revenue", revenueHandler.EstimateRevenue)
		api.GET("/projection", revenueHandler.GetProjection)

		api.GET("/scenarios", scenarioHandler.GetScenarios)
		api.GET("/projects", scenarioHandler.GetProjects)

		api.GET("/stats", statsHandler.GetStats)

		api.GET("/report.xlsx", reportHandler.GetXLSX)
		api.GET("/report.html", reportHandler.GetHTML)

		api.POST("/reload", func(c *gin.Context) {
			svc.Invalidate()
			c.JSON(200, gin.H{"status": "reloaded"})
		})
	}

	log.Info().Str("port", port).Msg("listening")
	if err := router.Run(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
