package routes

import (
	"carhub/controllers"
	"carhub/middleware"
	"carhub/pkg/logger"
	"carhub/pkg/metrics"
	"carhub/repositories"
	"carhub/services"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func SetupRoutes(router *gin.Engine, db *pgxpool.Pool, redisClient *redis.Client, mailer services.WelcomeMailer, log logger.ILogger) {
	userRepo := repositories.NewUserRepository(db, log)
	carRepo := repositories.NewCarRepository(db, log)

	denylist := middleware.NewTokenDenylist(redisClient)

	authCtrl := controllers.NewAuthController(services.NewAuthService(userRepo, mailer, log), denylist)
	carCtrl := controllers.NewCarController(services.NewCarService(carRepo, log))
	userCtrl := controllers.NewUserController(services.NewUserService(userRepo, log))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
	router.GET("/metrics", metrics.Handler())

	router.POST("/auth/register", authCtrl.Register)
	router.POST("/auth/login", authCtrl.Login)

	auth := router.Group("/")
	auth.Use(middleware.AuthMiddleware(denylist))
	{
		auth.POST("/auth/logout", authCtrl.Logout)
		auth.POST("/auth/refresh", authCtrl.Refresh)
		auth.POST("/auth/me", authCtrl.Me)
		auth.PUT("/auth/profile", authCtrl.UpdateProfile)
		auth.PUT("/auth/change-password", authCtrl.ChangePassword)
		auth.POST("/auth/upload-photo", authCtrl.UploadPhoto)

		// Specific car routes are registered before the parameterized ones.
		auth.GET("/cars/search", carCtrl.SearchCars)
		auth.GET("/cars/statistics", carCtrl.GetStatistics)
		auth.PATCH("/cars/bulk-status", carCtrl.BulkUpdateStatus)
		auth.GET("/cars/status/:status", carCtrl.GetCarsByStatus)

		auth.GET("/cars", carCtrl.ListCars)
		auth.POST("/cars", carCtrl.CreateCar)
		auth.GET("/cars/:id", carCtrl.GetCar)
		auth.PUT("/cars/:id", carCtrl.UpdateCar)
		auth.DELETE("/cars/:id", carCtrl.DeleteCar)
	}

	admin := router.Group("/users")
	admin.Use(middleware.AuthMiddleware(denylist), middleware.AdminMiddleware())
	{
		admin.GET("", userCtrl.GetAllUsers)
		admin.GET("/statistics", userCtrl.GetStatistics)
		admin.GET("/:id", userCtrl.GetUserByID)
		admin.PUT("/:id", userCtrl.UpdateUser)
		admin.DELETE("/:id", userCtrl.DeleteUser)
	}

	router.Static("/uploads", "./uploads")
}
