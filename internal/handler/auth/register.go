// File: internal/handler/auth/register.go
package auth

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"van-market/internal/api"
	"van-market/internal/database"
	"van-market/internal/model"
	"van-market/internal/service"
	"van-market/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	hashPassword    = service.HashPassword
	comparePassword = service.ComparePassword
	createUser      = store.CreateUser
	getUserByEmail  = store.GetUserByEmail
	getUserByID     = store.GetUserByID
)

// RegisterHandler 註冊新使用者並回傳存取令牌
// @Summary     Register a new user
// @Description 建立新帳號並回傳存取令牌與更新憑證 (Email 會自動轉小寫)
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body api.RegisterRequest true "註冊資料"
// @Success     201 {object} api.RegisterResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /auth/register [post]
func RegisterHandler(db database.DB, tokens *service.TokenService, refresh *service.RefreshService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.RegisterRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Code: api.CodeValidationFailed, Message: "invalid request payload"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Code: api.CodeValidationFailed, Message: "All required fields must be filled"})
		}

		req.Email = strings.ToLower(req.Email)

		hash, err := hashPassword(req.Password)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Code: api.CodeInternal, Message: "failed to hash password"})
		}

		user, err := createUser(c.Request().Context(), db, &model.User{
			Username:     req.Username,
			Email:        req.Email,
			Phone:        req.Phone,
			PasswordHash: hash,
		})
		if err != nil {
			// 唯一約束是「email 已存在」的唯一判斷來源
			if errors.Is(err, store.ErrDuplicateEmail) {
				return c.JSON(http.StatusBadRequest, api.ErrorResponse{Code: api.CodeDuplicateEmail, Message: "Email already exists"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Code: api.CodeInternal, Message: err.Error()})
		}

		accessToken, err := tokens.Issue(user.ID, user.Email)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Code: api.CodeInternal, Message: "failed to issue token"})
		}
		refreshToken, err := refresh.Issue(c.Request().Context(), user.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Code: api.CodeInternal, Message: "failed to issue refresh token"})
		}

		return c.JSON(http.StatusCreated, api.RegisterResponse{
			AccessToken:  accessToken,
			TokenType:    "Bearer",
			ClientID:     strconv.Itoa(user.ID),
			RefreshToken: refreshToken,
			User:         api.NewUserResponse(user),
		})
	}
}
