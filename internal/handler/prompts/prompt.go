package prompts

import (
	"net/http"
	"strconv"

	"github.com/Dreadfxl/imagensd-api/internal/api"
	"github.com/Dreadfxl/imagensd-api/internal/database"
	"github.com/Dreadfxl/imagensd-api/internal/middleware"
	"github.com/Dreadfxl/imagensd-api/internal/model"
	"github.com/Dreadfxl/imagensd-api/internal/service"
	"github.com/Dreadfxl/imagensd-api/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	listPrompts   = store.ListPrompts
	getPromptByID = store.GetPromptByID
	createPrompt  = store.CreatePrompt
	updatePrompt  = store.UpdatePrompt
	deletePrompt  = store.DeletePrompt
)

// titleMaxLen is the cut point when a title is derived from the prompt text.
const titleMaxLen = 50

// deriveTitle falls back to the leading prompt text when no title was given.
func deriveTitle(title, promptText string) string {
	if title != "" {
		return title
	}
	runes := []rune(promptText)
	if len(runes) <= titleMaxLen {
		return promptText
	}
	return string(runes[:titleMaxLen]) + "..."
}

func claimsFrom(c echo.Context) (*service.CustomClaims, bool) {
	claims, ok := c.Get(middleware.ContextUserKey).(*service.CustomClaims)
	return claims, ok && claims.UserID != 0
}

// ListPromptsHandler 取得提示詞列表
// @Summary     List saved prompts
// @Description 取得當前使用者的所有提示詞，依建立時間由新到舊排序
// @Tags        prompts
// @Produce     json
// @Success     200 {array}  model.Prompt
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /api/prompts [get]
func ListPromptsHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := claimsFrom(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}
		prompts, err := listPrompts(c.Request().Context(), db, claims.UserID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to list prompts"})
		}
		return c.JSON(http.StatusOK, prompts)
	}
}

// GetPromptHandler 取得單一提示詞
// @Summary     Get a prompt by ID
// @Description 取得當前使用者的單一提示詞，不存在或非本人擁有皆回 404
// @Tags        prompts
// @Produce     json
// @Param       id path int true "提示詞 ID"
// @Success     200 {object} model.Prompt
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse "提示詞不存在"
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /api/prompts/{id} [get]
func GetPromptHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := claimsFrom(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid prompt ID"})
		}
		prompt, err := getPromptByID(c.Request().Context(), db, id, claims.UserID)
		if err != nil {
			if store.IsNotFound(err) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "prompt not found"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to load prompt"})
		}
		return c.JSON(http.StatusOK, prompt)
	}
}

// CreatePromptHandler 建立提示詞
// @Summary     Save a new prompt
// @Description 建立提示詞，未提供標題時以提示詞前 50 字作為標題
// @Tags        prompts
// @Accept      json
// @Produce     json
// @Param       payload body api.PromptRequest true "提示詞內容"
// @Success     201 {object} model.Prompt
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /api/prompts [post]
func CreatePromptHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := claimsFrom(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}
		var req api.PromptRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		prompt, err := createPrompt(c.Request().Context(), db, &model.Prompt{
			UserID:         claims.UserID,
			Title:          deriveTitle(req.Title, req.PromptText),
			PromptText:     req.PromptText,
			NegativePrompt: req.NegativePrompt,
			Style:          req.Style,
		})
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to create prompt"})
		}
		return c.JSON(http.StatusCreated, prompt)
	}
}

// UpdatePromptHandler 更新提示詞
// @Summary     Update a prompt
// @Description 更新當前使用者的提示詞，不存在或非本人擁有皆回 404
// @Tags        prompts
// @Accept      json
// @Produce     json
// @Param       id      path int                true "提示詞 ID"
// @Param       payload body api.PromptRequest true "提示詞內容"
// @Success     200 {object} model.Prompt
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse "提示詞不存在"
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /api/prompts/{id} [put]
func UpdatePromptHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := claimsFrom(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid prompt ID"})
		}
		var req api.PromptRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		prompt, err := updatePrompt(c.Request().Context(), db, &model.Prompt{
			ID:             id,
			UserID:         claims.UserID,
			Title:          deriveTitle(req.Title, req.PromptText),
			PromptText:     req.PromptText,
			NegativePrompt: req.NegativePrompt,
			Style:          req.Style,
		})
		if err != nil {
			if store.IsNotFound(err) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "prompt not found"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to update prompt"})
		}
		return c.JSON(http.StatusOK, prompt)
	}
}

// DeletePromptHandler 刪除提示詞
// @Summary     Delete a prompt
// @Description 刪除當前使用者的提示詞，不存在或非本人擁有皆回 404
// @Tags        prompts
// @Produce     json
// @Param       id path int true "提示詞 ID"
// @Success     200 {object} api.DeletePromptResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse "提示詞不存在"
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /api/prompts/{id} [delete]
func DeletePromptHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := claimsFrom(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid prompt ID"})
		}
		if err := deletePrompt(c.Request().Context(), db, id, claims.UserID); err != nil {
			if store.IsNotFound(err) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "prompt not found"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to delete prompt"})
		}
		return c.JSON(http.StatusOK, api.DeletePromptResponse{Success: true, DeletedID: id})
	}
}
