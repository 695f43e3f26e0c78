package auth

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
	"van-market/internal/cache"
	"van-market/internal/database"
	"van-market/internal/model"
	"van-market/internal/service"
	"van-market/internal/store"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type errValidator struct{}

func (errValidator) Validate(i any) error { return errors.New("v") }

type okValidator struct{}

func (okValidator) Validate(i any) error { return nil }

func newJSONCtx(e *echo.Echo, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func restoreAuthFns() func() {
	origHash := hashPassword
	origCompare := comparePassword
	origCreate := createUser
	origByEmail := getUserByEmail
	origByID := getUserByID
	return func() {
		hashPassword = origHash
		comparePassword = origCompare
		createUser = origCreate
		getUserByEmail = origByEmail
		getUserByID = origByID
	}
}

func okCache() *cache.FakeCache {
	return &cache.FakeCache{
		SetFn: func(_ context.Context, _ string, _ any, _ time.Duration) *redis.StatusCmd {
			return redis.NewStatusResult("OK", nil)
		},
		DelFn: func(_ context.Context, _ ...string) *redis.IntCmd {
			return redis.NewIntResult(1, nil)
		},
	}
}

func testServices() (*service.TokenService, *service.RefreshService) {
	return service.NewTokenService([]byte("test-secret"), time.Hour),
		service.NewRefreshService(okCache(), time.Hour)
}

func TestRegisterHandler(t *testing.T) {
	tokens, refresh := testServices()

	t.Run("validation failure", func(t *testing.T) {
		e := echo.New()
		e.Validator = errValidator{}
		ctx, rec := newJSONCtx(e, `{"username":"a"}`)
		require.NoError(t, RegisterHandler(&database.FakeDB{}, tokens, refresh)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "All required fields must be filled")
	})

	t.Run("duplicate email", func(t *testing.T) {
		defer restoreAuthFns()()
		createUser = func(_ context.Context, _ database.DB, _ *model.User) (*model.User, error) {
			return nil, store.ErrDuplicateEmail
		}
		e := echo.New()
		e.Validator = okValidator{}
		ctx, rec := newJSONCtx(e, `{"username":"alice","email":"a@b.c","phone":"123","password":"pw"}`)
		require.NoError(t, RegisterHandler(&database.FakeDB{}, tokens, refresh)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "Email already exists")
		require.Contains(t, rec.Body.String(), api.CodeDuplicateEmail)
	})

	t.Run("hash failure", func(t *testing.T) {
		defer restoreAuthFns()()
		hashPassword = func(string) (string, error) { return "", errors.New("boom") }
		e := echo.New()
		e.Validator = okValidator{}
		ctx, rec := newJSONCtx(e, `{"username":"alice","email":"a@b.c","phone":"123","password":"pw"}`)
		require.NoError(t, RegisterHandler(&database.FakeDB{}, tokens, refresh)(ctx))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("success lowercases email", func(t *testing.T) {
		defer restoreAuthFns()()
		hashPassword = func(string) (string, error) { return "$hashed", nil }
		var storedEmail string
		createUser = func(_ context.Context, _ database.DB, u *model.User) (*model.User, error) {
			storedEmail = u.Email
			u.ID = 7
			u.CreatedAt = time.Now()
			return u, nil
		}
		e := echo.New()
		e.Validator = okValidator{}
		ctx, rec := newJSONCtx(e, `{"username":"alice","email":"Alice@Example.COM","phone":"123","password":"pw"}`)
		require.NoError(t, RegisterHandler(&database.FakeDB{}, tokens, refresh)(ctx))
		require.Equal(t, http.StatusCreated, rec.Code)
		require.Equal(t, "alice@example.com", storedEmail)

		var resp api.RegisterResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.NotEmpty(t, resp.AccessToken)
		require.Equal(t, "Bearer", resp.TokenType)
		require.Equal(t, "7", resp.ClientID)
		require.NotEmpty(t, resp.RefreshToken)
		require.Equal(t, "alice@example.com", resp.User.Email)
		require.NotContains(t, rec.Body.String(), "$hashed")
	})
}

func TestLoginHandler(t *testing.T) {
	tokens, refresh := testServices()
	hash, err := service.HashPassword("correct-password")
	require.NoError(t, err)

	t.Run("validation failure", func(t *testing.T) {
		e := echo.New()
		e.Validator = errValidator{}
		ctx, rec := newJSONCtx(e, `{}`)
		require.NoError(t, LoginHandler(&database.FakeDB{}, tokens, refresh)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		defer restoreAuthFns()()
		getUserByEmail = func(_ context.Context, _ database.DB, _ string) (*model.User, error) {
			return nil, store.ErrNotFound
		}
		e := echo.New()
		e.Validator = okValidator{}
		ctx, rec := newJSONCtx(e, `{"email":"nobody@example.com","password":"pw"}`)
		require.NoError(t, LoginHandler(&database.FakeDB{}, tokens, refresh)(ctx))
		unknownBody := rec.Body.String()
		require.Equal(t, http.StatusBadRequest, rec.Code)

		getUserByEmail = func(_ context.Context, _ database.DB, _ string) (*model.User, error) {
			return &model.User{ID: 7, Email: "alice@example.com", PasswordHash: hash}, nil
		}
		ctx, rec = newJSONCtx(e, `{"email":"alice@example.com","password":"wrong"}`)
		require.NoError(t, LoginHandler(&database.FakeDB{}, tokens, refresh)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.JSONEq(t, unknownBody, rec.Body.String())
		require.Contains(t, rec.Body.String(), "Invalid email or password")
	})

	t.Run("success", func(t *testing.T) {
		defer restoreAuthFns()()
		var queriedEmail string
		getUserByEmail = func(_ context.Context, _ database.DB, email string) (*model.User, error) {
			queriedEmail = email
			return &model.User{ID: 7, Username: "alice", Email: "alice@example.com", PasswordHash: hash}, nil
		}
		e := echo.New()
		e.Validator = okValidator{}
		ctx, rec := newJSONCtx(e, `{"email":"Alice@Example.com","password":"correct-password"}`)
		require.NoError(t, LoginHandler(&database.FakeDB{}, tokens, refresh)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "alice@example.com", queriedEmail)

		var resp api.LoginResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.NotEmpty(t, resp.AccessToken)
		require.NotEmpty(t, resp.RefreshToken)
		require.Equal(t, 7, resp.User.ID)

		claims, err := tokens.Verify(resp.AccessToken)
		require.NoError(t, err)
		require.Equal(t, 7, claims.UserID)
	})
}

func TestRefreshHandler(t *testing.T) {
	tokens := service.NewTokenService([]byte("test-secret"), time.Hour)

	t.Run("unknown refresh token", func(t *testing.T) {
		refresh := service.NewRefreshService(&cache.FakeCache{
			GetFn: func(_ context.Context, _ string) *redis.StringCmd {
				return redis.NewStringResult("", redis.Nil)
			},
		}, time.Hour)
		e := echo.New()
		e.Validator = okValidator{}
		ctx, rec := newJSONCtx(e, `{"refresh_token":"missing"}`)
		require.NoError(t, RefreshHandler(&database.FakeDB{}, tokens, refresh)(ctx))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Body.String(), "invalid refresh token")
	})

	t.Run("bound user deleted", func(t *testing.T) {
		defer restoreAuthFns()()
		getUserByID = func(_ context.Context, _ database.DB, _ int) (*model.User, error) {
			return nil, store.ErrNotFound
		}
		refresh := service.NewRefreshService(&cache.FakeCache{
			GetFn: func(_ context.Context, _ string) *redis.StringCmd {
				return redis.NewStringResult("7", nil)
			},
		}, time.Hour)
		e := echo.New()
		e.Validator = okValidator{}
		ctx, rec := newJSONCtx(e, `{"refresh_token":"abc"}`)
		require.NoError(t, RefreshHandler(&database.FakeDB{}, tokens, refresh)(ctx))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("success issues new access token", func(t *testing.T) {
		defer restoreAuthFns()()
		getUserByID = func(_ context.Context, _ database.DB, userID int) (*model.User, error) {
			require.Equal(t, 7, userID)
			return &model.User{ID: 7, Email: "alice@example.com"}, nil
		}
		refresh := service.NewRefreshService(&cache.FakeCache{
			GetFn: func(_ context.Context, _ string) *redis.StringCmd {
				return redis.NewStringResult("7", nil)
			},
		}, time.Hour)
		e := echo.New()
		e.Validator = okValidator{}
		ctx, rec := newJSONCtx(e, `{"refresh_token":"abc"}`)
		require.NoError(t, RefreshHandler(&database.FakeDB{}, tokens, refresh)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp api.RefreshResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "Bearer", resp.TokenType)
		claims, err := tokens.Verify(resp.AccessToken)
		require.NoError(t, err)
		require.Equal(t, 7, claims.UserID)
	})
}

func TestLogoutHandler(t *testing.T) {
	t.Run("revokes token", func(t *testing.T) {
		var deleted []string
		refresh := service.NewRefreshService(&cache.FakeCache{
			DelFn: func(_ context.Context, keys ...string) *redis.IntCmd {
				deleted = keys
				return redis.NewIntResult(1, nil)
			},
		}, time.Hour)
		e := echo.New()
		e.Validator = okValidator{}
		ctx, rec := newJSONCtx(e, `{"refresh_token":"abc"}`)
		require.NoError(t, LogoutHandler(refresh)(ctx))
		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Len(t, deleted, 1)
		require.Contains(t, deleted[0], "abc")
	})

	t.Run("validation failure", func(t *testing.T) {
		e := echo.New()
		e.Validator = errValidator{}
		_, refresh := testServices()
		ctx, rec := newJSONCtx(e, `{}`)
		require.NoError(t, LogoutHandler(refresh)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
