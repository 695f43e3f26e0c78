package api

// CreateProductRequest 欄位皆為選填，與來源系統一致不做必填檢查
// swagger:model api.CreateProductRequest
type CreateProductRequest struct {
	Title         string   `json:"title" example:"Ford Transit Van"`
	Description   string   `json:"description" example:"16-seat passenger van"`
	Price         float64  `json:"price" example:"32000"`
	DiscountPrice float64  `json:"discountPrice" example:"29900"`
	ImageURLs     []string `json:"imageUrls" example:"https://cdn.example.com/van1.jpg"`
	VideoURL      *string  `json:"videoUrl,omitempty" example:"https://cdn.example.com/van1.mp4"`
	Category      []int    `json:"category" example:"1,2"`
	Size          string   `json:"size" example:"5.9m x 2.0m"`
	LoadCapacity  float64  `json:"loadCapacity" example:"1.5"`
	Engine        string   `json:"engine" example:"2.2L diesel"`
}
