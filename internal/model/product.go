package model

import "time"

type Product struct {
	ID            int       `db:"id" json:"id"`
	Title         string    `db:"title" json:"title"`
	Description   string    `db:"description" json:"description"`
	Price         float64   `db:"price" json:"price"`
	DiscountPrice float64   `db:"discount_price" json:"discountPrice"`
	ImageURLs     []string  `db:"image_urls" json:"imageUrls"`
	VideoURL      *string   `db:"video_url" json:"videoUrl,omitempty"`
	Size          string    `db:"size" json:"size"`
	LoadCapacity  float64   `db:"load_capacity" json:"loadCapacity"`
	Engine        string    `db:"engine" json:"engine"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`

	// 關聯資料，僅在展開查詢時填入
	Categories []Category `db:"-" json:"category,omitempty"`
	Comments   []Comment  `db:"-" json:"comments,omitempty"`
}
