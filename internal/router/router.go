// File: internal/router/router.go
package router

import (
	"time"

	"github.com/labstack/echo/v4"

	"van-market/internal/cache"
	"van-market/internal/database"
	"van-market/internal/handler"
	"van-market/internal/handler/auth"
	"van-market/internal/handler/products"
	"van-market/internal/handler/users"
	"van-market/internal/middleware"
	"van-market/internal/service"
	"van-market/internal/worker"
)

// Setup 註冊所有路由與中介層
func Setup(e *echo.Echo, db database.DB, cc cache.Cache, tokens *service.TokenService, refresh *service.RefreshService, wp worker.Pool, productCacheTTL time.Duration) {
	api := e.Group("/api")
	requireAuth := middleware.RequireAuth(tokens)

	// 健康檢查（需登入）
	api.GET("/ping", handler.PingHandler(db, cc), requireAuth)

	// 註冊、登入與令牌換發
	api.POST("/auth/register", auth.RegisterHandler(db, tokens, refresh))
	api.POST("/auth/login", auth.LoginHandler(db, tokens, refresh))
	api.POST("/auth/refresh", auth.RefreshHandler(db, tokens, refresh))
	api.POST("/auth/logout", auth.LogoutHandler(refresh))

	// Users CRUD
	apiUsers := api.Group("/users", requireAuth)
	apiUsers.GET("", users.ListUsersHandler(db))
	apiUsers.GET("/me", users.GetMeHandler(db))
	apiUsers.GET("/:id", users.GetUserHandler(db))
	apiUsers.PUT("/:id", users.UpdateUserHandler(db))
	apiUsers.DELETE("/:id", users.DeleteUserHandler(db))

	// Products CRUD 與搜尋
	apiProducts := api.Group("/products", requireAuth)
	apiProducts.POST("", products.CreateProductHandler(db, cc, wp))
	apiProducts.GET("", products.ListProductsHandler(db, cc, productCacheTTL))
	apiProducts.POST("/search", products.SearchProductsHandler(db))
	apiProducts.GET("/:id", products.GetProductHandler(db))
	apiProducts.PUT("/:id", products.UpdateProductHandler(db, cc, wp))
	apiProducts.DELETE("/:id", products.DeleteProductHandler(db, cc, wp))
}
