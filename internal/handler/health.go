package handler

import (
	"net/http"
	"time"

	"github.com/Dreadfxl/imagensd-api/internal/api"
	"github.com/Dreadfxl/imagensd-api/internal/database"

	"github.com/labstack/echo/v4"
)

// HealthHandler 健康檢查
// @Summary     Health check
// @Description 檢查資料庫連線並回報服務狀態
// @Tags        health
// @Produce     json
// @Success     200 {object} api.HealthResponse
// @Failure     503 {object} api.HealthResponse
// @Router      /health [get]
func HealthHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		ts := time.Now().UTC().Format(time.RFC3339)
		if err := db.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, api.HealthResponse{
				Status:    "unhealthy",
				Timestamp: ts,
				Database:  "disconnected",
			})
		}
		return c.JSON(http.StatusOK, api.HealthResponse{
			Status:    "healthy",
			Timestamp: ts,
			Database:  "connected",
		})
	}
}

// WelcomeHandler 服務首頁
// @Summary     API welcome
// @Tags        health
// @Produce     json
// @Success     200 {object} map[string]interface{}
// @Router      / [get]
func WelcomeHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"message": "ImaGenSD API - Welcome",
			"version": "1.0.0",
			"endpoints": echo.Map{
				"health":  "/health",
				"auth":    "/api/auth",
				"prompts": "/api/prompts",
				"images":  "/api/images",
			},
		})
	}
}
