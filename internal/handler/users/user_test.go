package users

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"van-market/internal/api"
	"van-market/internal/database"
	"van-market/internal/middleware"
	"van-market/internal/model"
	"van-market/internal/service"
	"van-market/internal/store"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

type okValidator struct{}

func (okValidator) Validate(i any) error { return nil }

func restoreUserFns() func() {
	origHash := hashPassword
	origByID := getUserByID
	origList := listUsers
	origUpdate := updateUser
	origDelete := deleteUser
	return func() {
		hashPassword = origHash
		getUserByID = origByID
		listUsers = origList
		updateUser = origUpdate
		deleteUser = origDelete
	}
}

func newUserCtx(method, body, paramID string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = okValidator{}
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if paramID != "" {
		c.SetParamNames("id")
		c.SetParamValues(paramID)
	}
	return c, rec
}

func sampleUser() *model.User {
	return &model.User{
		ID:           7,
		Username:     "alice",
		Email:        "alice@example.com",
		Phone:        "+84901234567",
		PasswordHash: "$secret-hash",
		CreatedAt:    time.Now().UTC(),
	}
}

func TestGetMeHandler(t *testing.T) {
	t.Run("missing claims", func(t *testing.T) {
		ctx, rec := newUserCtx(http.MethodGet, "", "")
		require.NoError(t, GetMeHandler(&database.FakeDB{})(ctx))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("user gone", func(t *testing.T) {
		defer restoreUserFns()()
		getUserByID = func(_ context.Context, _ database.DB, _ int) (*model.User, error) {
			return nil, store.ErrNotFound
		}
		ctx, rec := newUserCtx(http.MethodGet, "", "")
		ctx.Set(middleware.ContextUserKey, &service.Claims{UserID: 7})
		require.NoError(t, GetMeHandler(&database.FakeDB{})(ctx))
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Contains(t, rec.Body.String(), "User not found")
	})

	t.Run("success omits password hash", func(t *testing.T) {
		defer restoreUserFns()()
		getUserByID = func(_ context.Context, _ database.DB, userID int) (*model.User, error) {
			require.Equal(t, 7, userID)
			return sampleUser(), nil
		}
		ctx, rec := newUserCtx(http.MethodGet, "", "")
		ctx.Set(middleware.ContextUserKey, &service.Claims{UserID: 7})
		require.NoError(t, GetMeHandler(&database.FakeDB{})(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "alice@example.com")
		require.NotContains(t, rec.Body.String(), "$secret-hash")
	})
}

func TestListUsersHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		defer restoreUserFns()()
		listUsers = func(_ context.Context, _ database.DB) ([]model.User, error) {
			return []model.User{*sampleUser()}, nil
		}
		ctx, rec := newUserCtx(http.MethodGet, "", "")
		require.NoError(t, ListUsersHandler(&database.FakeDB{})(ctx))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp []api.UserResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp, 1)
		require.Equal(t, "alice", resp[0].Username)
	})

	t.Run("empty list is a JSON array", func(t *testing.T) {
		defer restoreUserFns()()
		listUsers = func(_ context.Context, _ database.DB) ([]model.User, error) {
			return []model.User{}, nil
		}
		ctx, rec := newUserCtx(http.MethodGet, "", "")
		require.NoError(t, ListUsersHandler(&database.FakeDB{})(ctx))
		require.JSONEq(t, "[]", rec.Body.String())
	})

	t.Run("store error", func(t *testing.T) {
		defer restoreUserFns()()
		listUsers = func(_ context.Context, _ database.DB) ([]model.User, error) {
			return nil, errors.New("boom")
		}
		ctx, rec := newUserCtx(http.MethodGet, "", "")
		require.NoError(t, ListUsersHandler(&database.FakeDB{})(ctx))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestGetUserHandler(t *testing.T) {
	t.Run("malformed ID", func(t *testing.T) {
		ctx, rec := newUserCtx(http.MethodGet, "", "abc")
		require.NoError(t, GetUserHandler(&database.FakeDB{})(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "invalid user ID")
	})

	t.Run("not found", func(t *testing.T) {
		defer restoreUserFns()()
		getUserByID = func(_ context.Context, _ database.DB, _ int) (*model.User, error) {
			return nil, store.ErrNotFound
		}
		ctx, rec := newUserCtx(http.MethodGet, "", "404")
		require.NoError(t, GetUserHandler(&database.FakeDB{})(ctx))
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Contains(t, rec.Body.String(), "User not found")
	})

	t.Run("success", func(t *testing.T) {
		defer restoreUserFns()()
		getUserByID = func(_ context.Context, _ database.DB, userID int) (*model.User, error) {
			require.Equal(t, 7, userID)
			return sampleUser(), nil
		}
		ctx, rec := newUserCtx(http.MethodGet, "", "7")
		require.NoError(t, GetUserHandler(&database.FakeDB{})(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestUpdateUserHandler(t *testing.T) {
	t.Run("malformed ID", func(t *testing.T) {
		ctx, rec := newUserCtx(http.MethodPut, `{}`, "abc")
		require.NoError(t, UpdateUserHandler(&database.FakeDB{})(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("partial update lowercases email and hashes password", func(t *testing.T) {
		defer restoreUserFns()()
		hashPassword = func(pw string) (string, error) {
			require.Equal(t, "new-password", pw)
			return "$new-hash", nil
		}
		var gotUpd store.UserUpdate
		updateUser = func(_ context.Context, _ database.DB, userID int, upd store.UserUpdate) (*model.User, error) {
			require.Equal(t, 7, userID)
			gotUpd = upd
			return sampleUser(), nil
		}
		ctx, rec := newUserCtx(http.MethodPut, `{"email":"New@Example.COM","password":"new-password"}`, "7")
		require.NoError(t, UpdateUserHandler(&database.FakeDB{})(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Nil(t, gotUpd.Username)
		require.Nil(t, gotUpd.Phone)
		require.Equal(t, "new@example.com", *gotUpd.Email)
		require.Equal(t, "$new-hash", *gotUpd.PasswordHash)
	})

	t.Run("duplicate email", func(t *testing.T) {
		defer restoreUserFns()()
		updateUser = func(_ context.Context, _ database.DB, _ int, _ store.UserUpdate) (*model.User, error) {
			return nil, store.ErrDuplicateEmail
		}
		ctx, rec := newUserCtx(http.MethodPut, `{"email":"taken@example.com"}`, "7")
		require.NoError(t, UpdateUserHandler(&database.FakeDB{})(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "Email already exists")
	})

	t.Run("not found", func(t *testing.T) {
		defer restoreUserFns()()
		updateUser = func(_ context.Context, _ database.DB, _ int, _ store.UserUpdate) (*model.User, error) {
			return nil, store.ErrNotFound
		}
		ctx, rec := newUserCtx(http.MethodPut, `{"username":"bob"}`, "404")
		require.NoError(t, UpdateUserHandler(&database.FakeDB{})(ctx))
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestDeleteUserHandler(t *testing.T) {
	t.Run("malformed ID", func(t *testing.T) {
		ctx, rec := newUserCtx(http.MethodDelete, "", "abc")
		require.NoError(t, DeleteUserHandler(&database.FakeDB{})(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("not found", func(t *testing.T) {
		defer restoreUserFns()()
		deleteUser = func(_ context.Context, _ database.DB, _ int) error {
			return store.ErrNotFound
		}
		ctx, rec := newUserCtx(http.MethodDelete, "", "404")
		require.NoError(t, DeleteUserHandler(&database.FakeDB{})(ctx))
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("success", func(t *testing.T) {
		defer restoreUserFns()()
		deleteUser = func(_ context.Context, _ database.DB, userID int) error {
			require.Equal(t, 7, userID)
			return nil
		}
		ctx, rec := newUserCtx(http.MethodDelete, "", "7")
		require.NoError(t, DeleteUserHandler(&database.FakeDB{})(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "User deleted successfully")
	})
}
