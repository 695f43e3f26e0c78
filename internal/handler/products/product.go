package products

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"van-market/internal/api"
	"van-market/internal/cache"
	"van-market/internal/database"
	"van-market/internal/model"
	"van-market/internal/store"
	"van-market/internal/worker"

	"github.com/labstack/echo/v4"
)

var (
	createProduct     = store.CreateProduct
	getProductByID    = store.GetProductByID
	listProducts      = store.ListProducts
	searchProducts    = store.SearchProducts
	updateProduct     = store.UpdateProduct
	deleteProduct     = store.DeleteProduct
	listCategories    = store.ListCategoriesByProductIDs
	listComments      = store.ListCommentsByProductIDs
	filterCategoryIDs = store.FilterExistingCategoryIDs
)

// ProductListCacheKey 商品清單快照的 Redis 鍵
const ProductListCacheKey = "products:list"

// invalidateListCache 於背景撤銷商品清單快照，不阻塞請求
func invalidateListCache(wp worker.Pool, cc cache.Cache) {
	wp.Submit(func() {
		cc.Del(context.Background(), ProductListCacheKey)
	})
}

// expandProducts 填入商品的留言與（可選）分類
func expandProducts(ctx context.Context, db database.DB, products []model.Product, withCategories bool) error {
	ids := make([]int, 0, len(products))
	for i := range products {
		ids = append(ids, products[i].ID)
	}
	comments, err := listComments(ctx, db, ids)
	if err != nil {
		return err
	}
	var categories map[int][]model.Category
	if withCategories {
		categories, err = listCategories(ctx, db, ids)
		if err != nil {
			return err
		}
	}
	for i := range products {
		products[i].Comments = comments[products[i].ID]
		if withCategories {
			products[i].Categories = categories[products[i].ID]
		}
	}
	return nil
}

// @Summary     Create a product
// @Description 建立商品；欄位皆為選填
// @Tags        products
// @Accept      json
// @Produce     json
// @Param       body body api.CreateProductRequest true "商品資料"
// @Success     201 {object} model.Product
// @Failure     400 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /products [post]
func CreateProductHandler(db database.DB, cc cache.Cache, wp worker.Pool) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.CreateProductRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Code: api.CodeValidationFailed, Message: "invalid request payload"})
		}

		product := &model.Product{
			Title:         req.Title,
			Description:   req.Description,
			Price:         req.Price,
			DiscountPrice: req.DiscountPrice,
			ImageURLs:     req.ImageURLs,
			VideoURL:      req.VideoURL,
			Size:          req.Size,
			LoadCapacity:  req.LoadCapacity,
			Engine:        req.Engine,
		}
		if product.ImageURLs == nil {
			product.ImageURLs = []string{}
		}

		created, err := createProduct(c.Request().Context(), db, product, req.Category)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Code: api.CodeInternal, Message: err.Error()})
		}

		invalidateListCache(wp, cc)
		return c.JSON(http.StatusCreated, created)
	}
}

// @Summary     List all products
// @Description 回傳所有商品並展開留言與分類；短期間內由快照供應
// @Tags        products
// @Produce     json
// @Success     200 {array} model.Product
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /products [get]
func ListProductsHandler(db database.DB, cc cache.Cache, cacheTTL time.Duration) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		if cached, err := cc.Get(ctx, ProductListCacheKey).Result(); err == nil {
			return c.JSONBlob(http.StatusOK, []byte(cached))
		}

		products, err := listProducts(ctx, db)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Code: api.CodeInternal, Message: err.Error()})
		}
		if err := expandProducts(ctx, db, products, true); err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Code: api.CodeInternal, Message: err.Error()})
		}

		if body, err := json.Marshal(products); err == nil {
			cc.Set(ctx, ProductListCacheKey, body, cacheTTL)
			return c.JSONBlob(http.StatusOK, body)
		}
		return c.JSON(http.StatusOK, products)
	}
}

// @Summary     Get a product by ID
// @Description 透過 ID 查詢商品並展開留言與分類
// @Tags        products
// @Produce     json
// @Param       id path int true "商品 ID"
// @Success     200 {object} model.Product
// @Failure     400 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /products/{id} [get]
func GetProductHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Code: api.CodeValidationFailed, Message: "invalid product ID"})
		}
		product, err := getProductByID(c.Request().Context(), db, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Code: api.CodeNotFound, Message: "Product not found"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Code: api.CodeInternal, Message: err.Error()})
		}

		items := []model.Product{*product}
		if err := expandProducts(c.Request().Context(), db, items, true); err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Code: api.CodeInternal, Message: err.Error()})
		}
		return c.JSON(http.StatusOK, items[0])
	}
}

// @Summary     Search products
// @Description 逐欄位組合搜尋條件；缺漏欄位不設限，結果展開留言
// @Tags        products
// @Accept      json
// @Produce     json
// @Param       body body api.SearchProductsRequest true "搜尋條件"
// @Success     200 {array} model.Product
// @Failure     400 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /products/search [post]
func SearchProductsHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.SearchProductsRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Code: api.CodeValidationFailed, Message: "invalid request payload"})
		}

		filter := store.ProductFilter{
			Title:         req.Title,
			Description:   req.Content,
			Size:          req.Size,
			Engine:        req.Engine,
			DiscountPrice: req.DiscountPrice,
			LoadCapacity:  req.LoadCapacity,
		}
		if req.CreatedAt != "" {
			from, err := parseSearchDate(req.CreatedAt)
			if err != nil {
				return c.JSON(http.StatusBadRequest, api.ErrorResponse{Code: api.CodeValidationFailed, Message: "invalid createdAt format"})
			}
			filter.CreatedFrom = &from
		}

		results, err := searchProducts(c.Request().Context(), db, filter)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Code: api.CodeInternal, Message: err.Error()})
		}
		if err := expandProducts(c.Request().Context(), db, results, false); err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Code: api.CodeInternal, Message: err.Error()})
		}
		return c.JSON(http.StatusOK, results)
	}
}

func parseSearchDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// @Summary     Update a product by ID
// @Description 部分更新商品欄位；分類清單僅保留存在的識別，空清單視為不變更
// @Tags        products
// @Accept      json
// @Produce     json
// @Param       id   path int                      true "商品 ID"
// @Param       body body api.UpdateProductRequest true "更新欄位"
// @Success     200 {object} model.Product
// @Failure     400 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /products/{id} [put]
func UpdateProductHandler(db database.DB, cc cache.Cache, wp worker.Pool) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Code: api.CodeValidationFailed, Message: "invalid product ID"})
		}

		var req api.UpdateProductRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Code: api.CodeValidationFailed, Message: "invalid request payload"})
		}

		// 分類識別逐一解析，格式不符者直接捨棄
		wellFormed := []int{}
		for _, raw := range req.Category {
			if cid, err := strconv.Atoi(raw); err == nil {
				wellFormed = append(wellFormed, cid)
			}
		}
		categoryIDs := []int{}
		if len(wellFormed) > 0 {
			categoryIDs, err = filterCategoryIDs(c.Request().Context(), db, wellFormed)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Code: api.CodeInternal, Message: err.Error()})
			}
		}

		upd := store.ProductUpdate{
			Title:         req.Title,
			Description:   req.Description,
			Price:         req.Price,
			DiscountPrice: req.DiscountPrice,
			ImageURLs:     req.ImageURLs,
			VideoURL:      req.VideoURL,
			Size:          req.Size,
			LoadCapacity:  req.LoadCapacity,
			Engine:        req.Engine,
			CategoryIDs:   categoryIDs,
		}

		updated, err := updateProduct(c.Request().Context(), db, id, upd)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Code: api.CodeNotFound, Message: "Product not found"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Code: api.CodeInternal, Message: err.Error()})
		}

		invalidateListCache(wp, cc)
		return c.JSON(http.StatusOK, updated)
	}
}

// @Summary     Delete a product by ID
// @Description 根據商品 ID 刪除商品
// @Tags        products
// @Produce     json
// @Param       id path int true "商品 ID"
// @Success     200 {object} api.MessageResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /products/{id} [delete]
func DeleteProductHandler(db database.DB, cc cache.Cache, wp worker.Pool) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Code: api.CodeValidationFailed, Message: "invalid product ID"})
		}
		if err := deleteProduct(c.Request().Context(), db, id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Code: api.CodeNotFound, Message: "Product not found"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Code: api.CodeInternal, Message: err.Error()})
		}

		invalidateListCache(wp, cc)
		return c.JSON(http.StatusOK, api.MessageResponse{Message: "Product deleted successfully"})
	}
}
