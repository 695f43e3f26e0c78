package api

// UpdateProductRequest 為部分更新：缺漏欄位保持原值。
// Category 僅保留格式正確且存在的識別字串；結果為空時不改動分類。
// ImageURLs 僅在非空時覆寫，VideoURL 僅在有值時覆寫。
// swagger:model api.UpdateProductRequest
type UpdateProductRequest struct {
	Title         *string  `json:"title,omitempty"`
	Description   *string  `json:"description,omitempty"`
	Price         *float64 `json:"price,omitempty"`
	DiscountPrice *float64 `json:"discountPrice,omitempty"`
	ImageURLs     []string `json:"imageUrls,omitempty"`
	VideoURL      *string  `json:"videoUrl,omitempty"`
	Category      []string `json:"category,omitempty"`
	Size          *string  `json:"size,omitempty"`
	LoadCapacity  *float64 `json:"loadCapacity,omitempty"`
	Engine        *string  `json:"engine,omitempty"`
}
