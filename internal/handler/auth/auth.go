package auth

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Dreadfxl/imagensd-api/internal/api"
	"github.com/Dreadfxl/imagensd-api/internal/cache"
	"github.com/Dreadfxl/imagensd-api/internal/config"
	"github.com/Dreadfxl/imagensd-api/internal/database"
	"github.com/Dreadfxl/imagensd-api/internal/middleware"
	"github.com/Dreadfxl/imagensd-api/internal/model"
	"github.com/Dreadfxl/imagensd-api/internal/service"
	"github.com/Dreadfxl/imagensd-api/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	hashPassword      = service.HashPassword
	authenticateUser  = service.AuthenticateUser
	issueAccessToken  = service.IssueAccessToken
	createUser        = store.CreateUser
	getUserByUsername = store.GetUserByUsername
	getUserByID       = store.GetUserByID
)

// profileCacheTTL bounds how stale a cached profile may be.
const profileCacheTTL = 5 * time.Minute

func profileCacheKey(userID int) string {
	return fmt.Sprintf("user:%d", userID)
}

func toUserResponse(u *model.User) api.UserResponse {
	return api.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		IsPremium: u.IsPremium,
		CreatedAt: u.CreatedAt,
	}
}

// RegisterHandler 註冊新帳號
// @Summary     Register a new user
// @Description 建立新帳號並回傳使用者資料與存取權杖 (Email 會自動轉小寫)
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       payload body api.RegisterRequest true "註冊資料"
// @Success     201 {object} api.AuthResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     409 {object} api.ErrorResponse "帳號或 Email 已存在"
// @Failure     500 {object} api.ErrorResponse
// @Router      /api/auth/register [post]
func RegisterHandler(db database.DB, cfg *config.Config) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.RegisterRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		hash, err := hashPassword(req.Password)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to hash password"})
		}

		req.Email = strings.ToLower(req.Email)

		user, err := createUser(c.Request().Context(), db, &model.User{
			Username:     req.Username,
			Email:        req.Email,
			PasswordHash: hash,
			IsPremium:    req.IsPremium,
		})
		if err != nil {
			if store.IsUniqueViolation(err) {
				return c.JSON(http.StatusConflict, api.ErrorResponse{Message: "Username or email already exists"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to create user"})
		}

		token, err := issueAccessToken(*user, cfg.JWTSecret, cfg.TokenTTL)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to issue token"})
		}

		return c.JSON(http.StatusCreated, api.AuthResponse{
			User:  toUserResponse(user),
			Token: token,
		})
	}
}

// LoginHandler 登入
// @Summary     Log in
// @Description 驗證帳號密碼並回傳存取權杖
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       payload body api.LoginRequest true "登入資料"
// @Success     200 {object} api.AuthResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse "帳號或密碼錯誤"
// @Failure     500 {object} api.ErrorResponse
// @Router      /api/auth/login [post]
func LoginHandler(db database.DB, cfg *config.Config) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.LoginRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		// The unknown-user and wrong-password paths answer identically so
		// the response does not reveal which usernames exist.
		user, err := getUserByUsername(c.Request().Context(), db, req.Username)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid credentials"})
		}
		if _, err := authenticateUser(c.Request().Context(), *user, req.Password); err != nil {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid credentials"})
		}

		token, err := issueAccessToken(*user, cfg.JWTSecret, cfg.TokenTTL)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to issue token"})
		}

		return c.JSON(http.StatusOK, api.AuthResponse{
			User:  toUserResponse(user),
			Token: token,
		})
	}
}

// ProfileHandler 取得當前使用者資料
// @Summary     Get current user profile
// @Description 透過存取權杖取得當前使用者資料 (帶 Redis 快取)
// @Tags        auth
// @Produce     json
// @Success     200 {object} api.UserResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse "使用者不存在"
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /api/auth/profile [get]
func ProfileHandler(db database.DB, rdb cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := c.Get(middleware.ContextUserKey).(*service.CustomClaims)
		if !ok || claims.UserID == 0 {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}

		ctx := c.Request().Context()
		key := profileCacheKey(claims.UserID)

		if rdb != nil {
			if cached, err := rdb.Get(ctx, key).Result(); err == nil {
				return c.JSONBlob(http.StatusOK, []byte(cached))
			}
		}

		user, err := getUserByID(ctx, db, claims.UserID)
		if err != nil {
			if store.IsNotFound(err) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "user not found"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to load user"})
		}

		resp := toUserResponse(user)
		if rdb != nil {
			if body, err := json.Marshal(resp); err == nil {
				// Cache errors only cost the next request a database read.
				rdb.Set(ctx, key, body, profileCacheTTL)
			}
		}
		return c.JSON(http.StatusOK, resp)
	}
}
