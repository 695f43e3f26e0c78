package api

// SearchProductsRequest 所有欄位皆為選填；缺漏欄位不構成條件。
// Content 比對商品描述內文。CreatedAt 為 RFC3339 或 2006-01-02 日期，
// 篩選該時點（含）之後建立的商品。
// swagger:model api.SearchProductsRequest
type SearchProductsRequest struct {
	Title         string   `json:"title,omitempty" example:"van"`
	Content       string   `json:"content,omitempty" example:"diesel"`
	CreatedAt     string   `json:"createdAt,omitempty" example:"2025-01-01"`
	DiscountPrice *float64 `json:"discountPrice,omitempty" example:"100"`
	Size          string   `json:"size,omitempty"`
	LoadCapacity  *float64 `json:"loadCapacity,omitempty"`
	Engine        string   `json:"engine,omitempty"`
}
