package main

import (
	"os"

	"carhub/config"
	_ "carhub/docs"
	"carhub/middleware"
	"carhub/pkg/logger"
	"carhub/pkg/mailer"
	"carhub/pkg/metrics"
	"carhub/routes"
	"carhub/services"

	"github.com/gin-gonic/gin"
)

// @title Carhub API
// @version 1.0
// @description Fleet management API for the Carhub SPA.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	config.LoadConfig()

	log := logger.New("carhub")

	if config.AppConfig.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	db, err := config.ConnectDB(log)
	if err != nil {
		log.Error("failed to set up database", logger.Error(err))
		os.Exit(1)
	}
	defer db.Close()

	redisClient := config.ConnectRedis(log)
	if redisClient != nil {
		defer redisClient.Close()
	}

	var welcomeMailer services.WelcomeMailer
	if m, err := mailer.New(); err == nil {
		welcomeMailer = m
	} else {
		log.Warning("mail disabled", logger.Error(err))
	}

	if err := os.MkdirAll(config.AppConfig.UploadDir, os.ModePerm); err != nil {
		log.Error("failed to create upload directory", logger.Error(err))
		os.Exit(1)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(metrics.Middleware())
	routes.SetupRoutes(router, db, redisClient, welcomeMailer, log)

	port := ":" + config.AppConfig.Port
	log.Info("server starting",
		logger.String("port", config.AppConfig.Port),
		logger.String("environment", config.AppConfig.AppEnv),
	)

	if err := router.Run(port); err != nil {
		log.Error("failed to start server", logger.Error(err))
		os.Exit(1)
	}
}
