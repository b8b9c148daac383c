package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Dreadfxl/imagensd-api/internal/model"
	"github.com/Dreadfxl/imagensd-api/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newAuthCtx(e *echo.Echo, header string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func okHandler(c echo.Context) error { return c.NoContent(http.StatusOK) }

func TestRequireAuth(t *testing.T) {
	e := echo.New()
	mw := RequireAuth(testSecret)

	t.Run("missing header", func(t *testing.T) {
		ctx, _ := newAuthCtx(e, "")
		err := mw(okHandler)(ctx)
		require.Error(t, err)
		require.Equal(t, http.StatusUnauthorized, err.(*echo.HTTPError).Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		ctx, _ := newAuthCtx(e, "Token abc")
		err := mw(okHandler)(ctx)
		require.Error(t, err)
		require.Equal(t, http.StatusUnauthorized, err.(*echo.HTTPError).Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		ctx, _ := newAuthCtx(e, "Bearer garbage")
		err := mw(okHandler)(ctx)
		require.Error(t, err)
		require.Equal(t, http.StatusForbidden, err.(*echo.HTTPError).Code)
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := service.IssueAccessToken(model.User{ID: 1}, testSecret, -time.Minute)
		require.NoError(t, err)
		ctx, _ := newAuthCtx(e, "Bearer "+token)
		err = mw(okHandler)(ctx)
		require.Error(t, err)
		require.Equal(t, http.StatusForbidden, err.(*echo.HTTPError).Code)
	})

	t.Run("valid token injects claims", func(t *testing.T) {
		token, err := service.IssueAccessToken(model.User{ID: 7, IsPremium: true}, testSecret, time.Hour)
		require.NoError(t, err)
		ctx, rec := newAuthCtx(e, "Bearer "+token)
		require.NoError(t, mw(okHandler)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)

		claims := ctx.Get(ContextUserKey).(*service.CustomClaims)
		require.Equal(t, 7, claims.UserID)
		require.True(t, claims.IsPremium)
	})

	t.Run("bearer is case insensitive", func(t *testing.T) {
		token, err := service.IssueAccessToken(model.User{ID: 7}, testSecret, time.Hour)
		require.NoError(t, err)
		ctx, rec := newAuthCtx(e, "bearer "+token)
		require.NoError(t, mw(okHandler)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRequirePremium(t *testing.T) {
	e := echo.New()

	t.Run("no claims", func(t *testing.T) {
		ctx, _ := newAuthCtx(e, "")
		err := RequirePremium(okHandler)(ctx)
		require.Error(t, err)
		require.Equal(t, http.StatusForbidden, err.(*echo.HTTPError).Code)
	})

	t.Run("free user", func(t *testing.T) {
		ctx, _ := newAuthCtx(e, "")
		ctx.Set(ContextUserKey, &service.CustomClaims{UserID: 1})
		err := RequirePremium(okHandler)(ctx)
		require.Error(t, err)
		require.Equal(t, http.StatusForbidden, err.(*echo.HTTPError).Code)
	})

	t.Run("premium user", func(t *testing.T) {
		ctx, rec := newAuthCtx(e, "")
		ctx.Set(ContextUserKey, &service.CustomClaims{UserID: 1, IsPremium: true})
		require.NoError(t, RequirePremium(okHandler)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
	})
}
