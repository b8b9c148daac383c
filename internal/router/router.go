package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/Dreadfxl/imagensd-api/internal/cache"
	"github.com/Dreadfxl/imagensd-api/internal/config"
	"github.com/Dreadfxl/imagensd-api/internal/database"
	"github.com/Dreadfxl/imagensd-api/internal/generator"
	"github.com/Dreadfxl/imagensd-api/internal/handler"
	"github.com/Dreadfxl/imagensd-api/internal/handler/auth"
	"github.com/Dreadfxl/imagensd-api/internal/handler/images"
	"github.com/Dreadfxl/imagensd-api/internal/handler/prompts"
	"github.com/Dreadfxl/imagensd-api/internal/middleware"
)

// Setup 註冊所有路由與中介層
func Setup(e *echo.Echo, db database.DB, rdb cache.Cache, gw *generator.Gateway, cfg *config.Config) {
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{cfg.AllowedOrigin},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
	}))

	e.GET("/", handler.WelcomeHandler())
	e.GET("/health", handler.HealthHandler(db))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// 生成圖片以靜態檔案方式對外提供
	e.Static("/uploads", cfg.UploadsDir)

	api := e.Group("/api")

	api.POST("/auth/register", auth.RegisterHandler(db, cfg))
	api.POST("/auth/login", auth.LoginHandler(db, cfg))
	api.GET("/auth/profile", auth.ProfileHandler(db, rdb), middleware.RequireAuth(cfg.JWTSecret))

	apiPrompts := api.Group("/prompts", middleware.RequireAuth(cfg.JWTSecret))
	apiPrompts.GET("", prompts.ListPromptsHandler(db))
	apiPrompts.POST("", prompts.CreatePromptHandler(db))
	apiPrompts.GET("/:id", prompts.GetPromptHandler(db))
	apiPrompts.PUT("/:id", prompts.UpdatePromptHandler(db))
	apiPrompts.DELETE("/:id", prompts.DeletePromptHandler(db))

	apiImages := api.Group("/images", middleware.RequireAuth(cfg.JWTSecret))
	apiImages.POST("/generate", images.GenerateHandler(db, gw))
	apiImages.GET("", images.ListImagesHandler(db))
	apiImages.GET("/:id", images.GetImageHandler(db))
}
