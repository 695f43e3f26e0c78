package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"van-market/internal/database"
	"van-market/internal/model"
)

const productColumns = `id, title, description, price, discount_price, image_urls, video_url, size, load_capacity, engine, created_at`

func scanProduct(row interface{ Scan(dest ...any) error }) (*model.Product, error) {
	p := &model.Product{}
	if err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.Price,
		&p.DiscountPrice,
		&p.ImageURLs,
		&p.VideoURL,
		&p.Size,
		&p.LoadCapacity,
		&p.Engine,
		&p.CreatedAt,
	); err != nil {
		return nil, err
	}
	return p, nil
}

// CreateProduct 新增商品並建立分類關聯
func CreateProduct(ctx context.Context, db database.DB, p *model.Product, categoryIDs []int) (*model.Product, error) {
	row := db.QueryRow(ctx,
		`INSERT INTO products (title, description, price, discount_price, image_urls, video_url, size, load_capacity, engine)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at`,
		p.Title,
		p.Description,
		p.Price,
		p.DiscountPrice,
		p.ImageURLs,
		p.VideoURL,
		p.Size,
		p.LoadCapacity,
		p.Engine,
	)
	if err := row.Scan(&p.ID, &p.CreatedAt); err != nil {
		return nil, fmt.Errorf("CreateProduct: %w", err)
	}
	if len(categoryIDs) > 0 {
		if err := linkProductCategories(ctx, db, p.ID, categoryIDs); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func GetProductByID(ctx context.Context, db database.DB, productID int) (*model.Product, error) {
	row := db.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`,
		productID,
	)
	p, err := scanProduct(row)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("GetProductByID: %w", err)
	}
	return p, nil
}

func ListProducts(ctx context.Context, db database.DB) ([]model.Product, error) {
	rows, err := db.Query(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("ListProducts: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("ListProducts: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListProducts: %w", err)
	}
	return products, nil
}

// ProductFilter 逐欄位組合搜尋條件；零值欄位不加入條件。
// 文字欄位為不分大小寫的部分比對，CreatedFrom 為 >= 比較，
// DiscountPrice / LoadCapacity 為精確比對。
type ProductFilter struct {
	Title         string
	Description   string
	Size          string
	Engine        string
	CreatedFrom   *time.Time
	DiscountPrice *float64
	LoadCapacity  *float64
}

func SearchProducts(ctx context.Context, db database.DB, f ProductFilter) ([]model.Product, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + productColumns + ` FROM products`)

	conds := []string{}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Title != "" {
		conds = append(conds, `title ILIKE '%' || `+arg(f.Title)+` || '%'`)
	}
	if f.Description != "" {
		conds = append(conds, `description ILIKE '%' || `+arg(f.Description)+` || '%'`)
	}
	if f.Size != "" {
		conds = append(conds, `size ILIKE '%' || `+arg(f.Size)+` || '%'`)
	}
	if f.Engine != "" {
		conds = append(conds, `engine ILIKE '%' || `+arg(f.Engine)+` || '%'`)
	}
	if f.CreatedFrom != nil {
		conds = append(conds, `created_at >= `+arg(*f.CreatedFrom))
	}
	if f.DiscountPrice != nil {
		conds = append(conds, `discount_price = `+arg(*f.DiscountPrice))
	}
	if f.LoadCapacity != nil {
		conds = append(conds, `load_capacity = `+arg(*f.LoadCapacity))
	}
	if len(conds) > 0 {
		sb.WriteString(` WHERE ` + strings.Join(conds, ` AND `))
	}
	sb.WriteString(` ORDER BY id`)

	rows, err := db.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("SearchProducts: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("SearchProducts: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("SearchProducts: %w", err)
	}
	return products, nil
}

// ProductUpdate 為部分更新：nil 欄位保持原值。
// CategoryIDs 為 nil 或空時不改動分類關聯。
type ProductUpdate struct {
	Title         *string
	Description   *string
	Price         *float64
	DiscountPrice *float64
	ImageURLs     []string
	VideoURL      *string
	Size          *string
	LoadCapacity  *float64
	Engine        *string
	CategoryIDs   []int
}

func UpdateProduct(ctx context.Context, db database.DB, productID int, upd ProductUpdate) (*model.Product, error) {
	var imageURLs *[]string
	if len(upd.ImageURLs) > 0 {
		imageURLs = &upd.ImageURLs
	}
	row := db.QueryRow(ctx,
		`UPDATE products SET
		   title          = COALESCE($1, title),
		   description    = COALESCE($2, description),
		   price          = COALESCE($3, price),
		   discount_price = COALESCE($4, discount_price),
		   image_urls     = COALESCE($5, image_urls),
		   video_url      = COALESCE($6, video_url),
		   size           = COALESCE($7, size),
		   load_capacity  = COALESCE($8, load_capacity),
		   engine         = COALESCE($9, engine)
		 WHERE id = $10
		 RETURNING `+productColumns,
		upd.Title,
		upd.Description,
		upd.Price,
		upd.DiscountPrice,
		imageURLs,
		upd.VideoURL,
		upd.Size,
		upd.LoadCapacity,
		upd.Engine,
		productID,
	)
	p, err := scanProduct(row)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("UpdateProduct: %w", err)
	}
	if len(upd.CategoryIDs) > 0 {
		if err := replaceProductCategories(ctx, db, productID, upd.CategoryIDs); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func DeleteProduct(ctx context.Context, db database.DB, productID int) error {
	tag, err := db.Exec(ctx,
		`DELETE FROM products WHERE id = $1`,
		productID,
	)
	if err != nil {
		return fmt.Errorf("DeleteProduct: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// FilterExistingCategoryIDs 回傳仍存在於 categories 的 ID 子集
func FilterExistingCategoryIDs(ctx context.Context, db database.DB, ids []int) ([]int, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := db.Query(ctx,
		`SELECT id FROM categories WHERE id = ANY($1) ORDER BY id`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("FilterExistingCategoryIDs: %w", err)
	}
	defer rows.Close()

	existing := []int{}
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("FilterExistingCategoryIDs: %w", err)
		}
		existing = append(existing, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("FilterExistingCategoryIDs: %w", err)
	}
	return existing, nil
}

// ListCategoriesByProductIDs 回傳 productID 對應的分類清單
func ListCategoriesByProductIDs(ctx context.Context, db database.DB, productIDs []int) (map[int][]model.Category, error) {
	result := map[int][]model.Category{}
	if len(productIDs) == 0 {
		return result, nil
	}
	rows, err := db.Query(ctx,
		`SELECT pc.product_id, c.id, c.name
		 FROM product_categories pc
		 JOIN categories c ON c.id = pc.category_id
		 WHERE pc.product_id = ANY($1)
		 ORDER BY pc.product_id, c.id`,
		productIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("ListCategoriesByProductIDs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var productID int
		var c model.Category
		if err := rows.Scan(&productID, &c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("ListCategoriesByProductIDs: %w", err)
		}
		result[productID] = append(result[productID], c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListCategoriesByProductIDs: %w", err)
	}
	return result, nil
}

// ListCommentsByProductIDs 回傳 productID 對應的留言清單
func ListCommentsByProductIDs(ctx context.Context, db database.DB, productIDs []int) (map[int][]model.Comment, error) {
	result := map[int][]model.Comment{}
	if len(productIDs) == 0 {
		return result, nil
	}
	rows, err := db.Query(ctx,
		`SELECT id, product_id, author, content, created_at
		 FROM comments
		 WHERE product_id = ANY($1)
		 ORDER BY product_id, id`,
		productIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("ListCommentsByProductIDs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.ProductID, &c.Author, &c.Content, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("ListCommentsByProductIDs: %w", err)
		}
		result[c.ProductID] = append(result[c.ProductID], c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListCommentsByProductIDs: %w", err)
	}
	return result, nil
}

func linkProductCategories(ctx context.Context, db database.DB, productID int, categoryIDs []int) error {
	_, err := db.Exec(ctx,
		`INSERT INTO product_categories (product_id, category_id)
		 SELECT $1, unnest($2::int[])
		 ON CONFLICT DO NOTHING`,
		productID,
		categoryIDs,
	)
	if err != nil {
		return fmt.Errorf("linkProductCategories: %w", err)
	}
	return nil
}

func replaceProductCategories(ctx context.Context, db database.DB, productID int, categoryIDs []int) error {
	if _, err := db.Exec(ctx,
		`DELETE FROM product_categories WHERE product_id = $1`,
		productID,
	); err != nil {
		return fmt.Errorf("replaceProductCategories: %w", err)
	}
	return linkProductCategories(ctx, db, productID, categoryIDs)
}
