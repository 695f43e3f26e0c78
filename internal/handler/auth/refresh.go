// File: internal/handler/auth/refresh.go
package auth

import (
	"errors"
	"net/http"

	"van-market/internal/api"
	"van-market/internal/database"
	"van-market/internal/service"
	"van-market/internal/store"

	"github.com/labstack/echo/v4"
)

// RefreshHandler 以更新憑證換發新的存取令牌。
// 換發只接受獨立簽發的更新憑證，
// 無法驗證的存取令牌在中介層一律被拒絕。
// @Summary     Refresh access token
// @Description 使用更新憑證換發新的存取令牌
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body api.RefreshRequest true "更新憑證"
// @Success     200 {object} api.RefreshResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /auth/refresh [post]
func RefreshHandler(db database.DB, tokens *service.TokenService, refresh *service.RefreshService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.RefreshRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Code: api.CodeValidationFailed, Message: "invalid request payload"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Code: api.CodeValidationFailed, Message: "All required fields must be filled"})
		}

		userID, err := refresh.Validate(c.Request().Context(), req.RefreshToken)
		if err != nil {
			if errors.Is(err, service.ErrInvalidRefreshToken) {
				return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Code: api.CodeUnauthorized, Message: "invalid refresh token"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Code: api.CodeInternal, Message: err.Error()})
		}

		user, err := getUserByID(c.Request().Context(), db, userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Code: api.CodeUnauthorized, Message: "invalid refresh token"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Code: api.CodeInternal, Message: err.Error()})
		}

		accessToken, err := tokens.Issue(user.ID, user.Email)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Code: api.CodeInternal, Message: "failed to issue token"})
		}

		return c.JSON(http.StatusOK, api.RefreshResponse{
			AccessToken: accessToken,
			TokenType:   "Bearer",
		})
	}
}

// LogoutHandler 撤銷更新憑證
// @Summary     Logout
// @Description 撤銷更新憑證，使其不可再換發存取令牌
// @Tags        auth
// @Accept      json
// @Param       body body api.RefreshRequest true "更新憑證"
// @Success     204 "No Content"
// @Failure     400 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /auth/logout [post]
func LogoutHandler(refresh *service.RefreshService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.RefreshRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Code: api.CodeValidationFailed, Message: "invalid request payload"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Code: api.CodeValidationFailed, Message: "All required fields must be filled"})
		}
		if err := refresh.Revoke(c.Request().Context(), req.RefreshToken); err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Code: api.CodeInternal, Message: err.Error()})
		}
		return c.NoContent(http.StatusNoContent)
	}
}
