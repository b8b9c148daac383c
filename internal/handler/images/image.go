package images

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Dreadfxl/imagensd-api/internal/api"
	"github.com/Dreadfxl/imagensd-api/internal/database"
	"github.com/Dreadfxl/imagensd-api/internal/generator"
	"github.com/Dreadfxl/imagensd-api/internal/middleware"
	"github.com/Dreadfxl/imagensd-api/internal/service"
	"github.com/Dreadfxl/imagensd-api/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	generateImages        = (*generator.Gateway).Generate
	listGeneratedImages   = store.ListGeneratedImages
	getGeneratedImageByID = store.GetGeneratedImageByID
)

func claimsFrom(c echo.Context) (*service.CustomClaims, bool) {
	claims, ok := c.Get(middleware.ContextUserKey).(*service.CustomClaims)
	return claims, ok && claims.UserID != 0
}

// GenerateHandler 產生圖片
// @Summary     Generate images
// @Description 呼叫生成後端產圖並逐張入庫；免費帳號一次一張，付費帳號最多四張
// @Tags        images
// @Accept      json
// @Produce     json
// @Param       payload body api.GenerateRequest true "生成參數"
// @Success     201 {array}  model.GeneratedImage
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /api/images/generate [post]
func GenerateHandler(db database.DB, gw *generator.Gateway) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := claimsFrom(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}
		var req api.GenerateRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		// A disconnecting client must not abort a paid-for generation, so
		// the gateway runs on a fresh context rather than the request's.
		images, err := generateImages(gw, context.Background(), db, claims.UserID, claims.IsPremium, generator.Request{
			Prompt:         req.Prompt,
			NegativePrompt: req.NegativePrompt,
			Style:          req.Style,
			PromptID:       req.PromptID,
			Source:         generator.Source(req.Source),
			BatchSize:      req.BatchSize,
		})
		if err != nil {
			if generator.IsInvalidRequest(err) {
				return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "Failed to generate image(s)"})
		}
		return c.JSON(http.StatusCreated, images)
	}
}

// ListImagesHandler 取得圖片列表
// @Summary     List generated images
// @Description 取得當前使用者的所有生成圖片，依建立時間由新到舊排序
// @Tags        images
// @Produce     json
// @Success     200 {array}  model.GeneratedImage
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /api/images [get]
func ListImagesHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := claimsFrom(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}
		images, err := listGeneratedImages(c.Request().Context(), db, claims.UserID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to list images"})
		}
		return c.JSON(http.StatusOK, images)
	}
}

// GetImageHandler 取得單一圖片
// @Summary     Get a generated image by ID
// @Description 取得當前使用者的單一生成圖片，不存在或非本人擁有皆回 404
// @Tags        images
// @Produce     json
// @Param       id path int true "圖片 ID"
// @Success     200 {object} model.GeneratedImage
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse "圖片不存在"
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /api/images/{id} [get]
func GetImageHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := claimsFrom(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid image ID"})
		}
		img, err := getGeneratedImageByID(c.Request().Context(), db, id, claims.UserID)
		if err != nil {
			if store.IsNotFound(err) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "image not found"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to load image"})
		}
		return c.JSON(http.StatusOK, img)
	}
}
