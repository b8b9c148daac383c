package prompts

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Dreadfxl/imagensd-api/internal/database"
	"github.com/Dreadfxl/imagensd-api/internal/middleware"
	"github.com/Dreadfxl/imagensd-api/internal/model"
	"github.com/Dreadfxl/imagensd-api/internal/service"
	"github.com/Dreadfxl/imagensd-api/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func restore() {
	listPrompts = store.ListPrompts
	getPromptByID = store.GetPromptByID
	createPrompt = store.CreatePrompt
	updatePrompt = store.UpdatePrompt
	deletePrompt = store.DeletePrompt
}

type okValidator struct{}

func (okValidator) Validate(i any) error { return nil }

type errValidator struct{}

func (errValidator) Validate(i any) error { return errors.New("v") }

func newCtx(t *testing.T, e *echo.Echo, method, body, paramID string, userID int) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	if paramID != "" {
		ctx.SetParamNames("id")
		ctx.SetParamValues(paramID)
	}
	if userID != 0 {
		ctx.Set(middleware.ContextUserKey, &service.CustomClaims{UserID: userID})
	}
	return ctx, rec
}

var notFoundErr = fmt.Errorf("GetPromptByID: %w", pgx.ErrNoRows)

func TestDeriveTitle(t *testing.T) {
	require.Equal(t, "given", deriveTitle("given", "ignored text"))

	short := "a cat on a mat"
	require.Equal(t, short, deriveTitle("", short))

	long := strings.Repeat("x", 60)
	require.Equal(t, strings.Repeat("x", 50)+"...", deriveTitle("", long))

	exact := strings.Repeat("y", 50)
	require.Equal(t, exact, deriveTitle("", exact))
}

func TestListPromptsHandler(t *testing.T) {
	defer restore()
	db := &database.FakeDB{}
	e := echo.New()

	t.Run("missing claims", func(t *testing.T) {
		ctx, rec := newCtx(t, e, http.MethodGet, "", "", 0)
		require.NoError(t, ListPromptsHandler(db)(ctx))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("store error", func(t *testing.T) {
		defer restore()
		listPrompts = func(context.Context, database.DB, int) ([]model.Prompt, error) {
			return nil, errors.New("db down")
		}
		ctx, rec := newCtx(t, e, http.MethodGet, "", "", 3)
		require.NoError(t, ListPromptsHandler(db)(ctx))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("empty list is a JSON array", func(t *testing.T) {
		defer restore()
		listPrompts = func(_ context.Context, _ database.DB, userID int) ([]model.Prompt, error) {
			require.Equal(t, 3, userID)
			return []model.Prompt{}, nil
		}
		ctx, rec := newCtx(t, e, http.MethodGet, "", "", 3)
		require.NoError(t, ListPromptsHandler(db)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
	})

	t.Run("success", func(t *testing.T) {
		defer restore()
		listPrompts = func(context.Context, database.DB, int) ([]model.Prompt, error) {
			return []model.Prompt{{ID: 1, Title: "first"}, {ID: 2, Title: "second"}}, nil
		}
		ctx, rec := newCtx(t, e, http.MethodGet, "", "", 3)
		require.NoError(t, ListPromptsHandler(db)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `"title":"first"`)
	})
}

func TestGetPromptHandler(t *testing.T) {
	defer restore()
	db := &database.FakeDB{}
	e := echo.New()

	t.Run("bad id", func(t *testing.T) {
		ctx, rec := newCtx(t, e, http.MethodGet, "", "abc", 3)
		require.NoError(t, GetPromptHandler(db)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("not found or not owned", func(t *testing.T) {
		defer restore()
		getPromptByID = func(_ context.Context, _ database.DB, promptID, userID int) (*model.Prompt, error) {
			require.Equal(t, 5, promptID)
			require.Equal(t, 3, userID)
			return nil, notFoundErr
		}
		ctx, rec := newCtx(t, e, http.MethodGet, "", "5", 3)
		require.NoError(t, GetPromptHandler(db)(ctx))
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("success", func(t *testing.T) {
		defer restore()
		getPromptByID = func(context.Context, database.DB, int, int) (*model.Prompt, error) {
			return &model.Prompt{ID: 5, UserID: 3, Title: "mine"}, nil
		}
		ctx, rec := newCtx(t, e, http.MethodGet, "", "5", 3)
		require.NoError(t, GetPromptHandler(db)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `"title":"mine"`)
	})
}

func TestCreatePromptHandler(t *testing.T) {
	defer restore()
	db := &database.FakeDB{}

	t.Run("validate error", func(t *testing.T) {
		e := echo.New()
		e.Validator = errValidator{}
		ctx, rec := newCtx(t, e, http.MethodPost, `{}`, "", 3)
		require.NoError(t, CreatePromptHandler(db)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("derives title when absent", func(t *testing.T) {
		defer restore()
		var got *model.Prompt
		createPrompt = func(_ context.Context, _ database.DB, p *model.Prompt) (*model.Prompt, error) {
			got = p
			p.ID = 11
			return p, nil
		}
		e := echo.New()
		e.Validator = okValidator{}
		long := strings.Repeat("a", 60)
		ctx, rec := newCtx(t, e, http.MethodPost, `{"prompt_text":"`+long+`"}`, "", 3)
		require.NoError(t, CreatePromptHandler(db)(ctx))
		require.Equal(t, http.StatusCreated, rec.Code)
		require.Equal(t, 3, got.UserID)
		require.Equal(t, strings.Repeat("a", 50)+"...", got.Title)
	})

	t.Run("keeps an explicit title", func(t *testing.T) {
		defer restore()
		var got *model.Prompt
		createPrompt = func(_ context.Context, _ database.DB, p *model.Prompt) (*model.Prompt, error) {
			got = p
			p.ID = 12
			return p, nil
		}
		e := echo.New()
		e.Validator = okValidator{}
		ctx, rec := newCtx(t, e, http.MethodPost, `{"title":"my title","prompt_text":"a cat"}`, "", 3)
		require.NoError(t, CreatePromptHandler(db)(ctx))
		require.Equal(t, http.StatusCreated, rec.Code)
		require.Equal(t, "my title", got.Title)
	})

	t.Run("store error", func(t *testing.T) {
		defer restore()
		createPrompt = func(context.Context, database.DB, *model.Prompt) (*model.Prompt, error) {
			return nil, errors.New("db down")
		}
		e := echo.New()
		e.Validator = okValidator{}
		ctx, rec := newCtx(t, e, http.MethodPost, `{"prompt_text":"a cat"}`, "", 3)
		require.NoError(t, CreatePromptHandler(db)(ctx))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestUpdatePromptHandler(t *testing.T) {
	defer restore()
	db := &database.FakeDB{}

	t.Run("bad id", func(t *testing.T) {
		e := echo.New()
		ctx, rec := newCtx(t, e, http.MethodPut, "", "nope", 3)
		require.NoError(t, UpdatePromptHandler(db)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("not found or not owned", func(t *testing.T) {
		defer restore()
		updatePrompt = func(_ context.Context, _ database.DB, p *model.Prompt) (*model.Prompt, error) {
			require.Equal(t, 5, p.ID)
			require.Equal(t, 3, p.UserID)
			return nil, fmt.Errorf("UpdatePrompt: %w", pgx.ErrNoRows)
		}
		e := echo.New()
		e.Validator = okValidator{}
		ctx, rec := newCtx(t, e, http.MethodPut, `{"prompt_text":"a cat"}`, "5", 3)
		require.NoError(t, UpdatePromptHandler(db)(ctx))
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("success", func(t *testing.T) {
		defer restore()
		updatePrompt = func(_ context.Context, _ database.DB, p *model.Prompt) (*model.Prompt, error) {
			return p, nil
		}
		e := echo.New()
		e.Validator = okValidator{}
		ctx, rec := newCtx(t, e, http.MethodPut, `{"title":"renamed","prompt_text":"a cat"}`, "5", 3)
		require.NoError(t, UpdatePromptHandler(db)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `"title":"renamed"`)
	})
}

func TestDeletePromptHandler(t *testing.T) {
	defer restore()
	db := &database.FakeDB{}
	e := echo.New()

	t.Run("bad id", func(t *testing.T) {
		ctx, rec := newCtx(t, e, http.MethodDelete, "", "x", 3)
		require.NoError(t, DeletePromptHandler(db)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("not found or not owned", func(t *testing.T) {
		defer restore()
		deletePrompt = func(context.Context, database.DB, int, int) error {
			return fmt.Errorf("DeletePrompt: %w", pgx.ErrNoRows)
		}
		ctx, rec := newCtx(t, e, http.MethodDelete, "", "5", 3)
		require.NoError(t, DeletePromptHandler(db)(ctx))
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("success", func(t *testing.T) {
		defer restore()
		deletePrompt = func(_ context.Context, _ database.DB, promptID, userID int) error {
			require.Equal(t, 5, promptID)
			require.Equal(t, 3, userID)
			return nil
		}
		ctx, rec := newCtx(t, e, http.MethodDelete, "", "5", 3)
		require.NoError(t, DeletePromptHandler(db)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `"deleted_id":5`)
		require.Contains(t, rec.Body.String(), `"success":true`)
	})
}
