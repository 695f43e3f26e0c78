package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"van-market/internal/api"
	"van-market/internal/service"

	"github.com/labstack/echo/v4"
)

const ContextUserKey = "user"

func extractClaims(c echo.Context, tokens *service.TokenService) (*service.Claims, *api.ErrorResponse) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return nil, &api.ErrorResponse{Code: api.CodeUnauthorized, Message: "Authorization header missing"}
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, &api.ErrorResponse{Code: api.CodeUnauthorized, Message: "invalid authorization header format"}
	}
	claims, err := tokens.Verify(parts[1])
	if err != nil {
		// 驗證失敗（含過期）一律拒絕；換發須透過 /auth/refresh
		return nil, &api.ErrorResponse{Code: api.CodeUnauthorized, Message: fmt.Sprintf("invalid token: %v", err)}
	}
	return claims, nil
}

// RequireAuth 驗證 Bearer 存取令牌並將身分放入 context
func RequireAuth(tokens *service.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, errResp := extractClaims(c, tokens)
			if errResp != nil {
				return c.JSON(http.StatusUnauthorized, *errResp)
			}
			c.Set(ContextUserKey, claims)
			return next(c)
		}
	}
}
