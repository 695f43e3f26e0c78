// File: internal/handler/auth/login.go
package auth

import (
	"errors"
	"net/http"
	"strings"

	"van-market/internal/api"
	"van-market/internal/database"
	"van-market/internal/service"
	"van-market/internal/store"

	"github.com/labstack/echo/v4"
)

// LoginHandler 使用 Email/Password 驗證並回傳存取令牌
// @Summary     登入使用者
// @Description 使用 Email 與 Password 進行驗證，回傳存取令牌與更新憑證
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body api.LoginRequest true "登入資料"
// @Success     200 {object} api.LoginResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /auth/login [post]
func LoginHandler(db database.DB, tokens *service.TokenService, refresh *service.RefreshService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.LoginRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Code: api.CodeValidationFailed, Message: "invalid request payload"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Code: api.CodeValidationFailed, Message: "All required fields must be filled"})
		}

		// 查無此帳號與密碼不符回應完全相同，避免帳號枚舉
		user, err := getUserByEmail(c.Request().Context(), db, strings.ToLower(req.Email))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return c.JSON(http.StatusBadRequest, api.ErrorResponse{Code: api.CodeInvalidCredentials, Message: "Invalid email or password"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Code: api.CodeInternal, Message: err.Error()})
		}
		if err := comparePassword(user.PasswordHash, req.Password); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Code: api.CodeInvalidCredentials, Message: "Invalid email or password"})
		}

		accessToken, err := tokens.Issue(user.ID, user.Email)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Code: api.CodeInternal, Message: "failed to issue token"})
		}
		refreshToken, err := refresh.Issue(c.Request().Context(), user.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Code: api.CodeInternal, Message: "failed to issue refresh token"})
		}

		return c.JSON(http.StatusOK, api.LoginResponse{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			User:         api.NewUserResponse(user),
		})
	}
}
