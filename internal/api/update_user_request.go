package api

// UpdateUserRequest 為部分更新：缺漏欄位保持原值。
// Password 有值時會先重新哈希再寫入。
// swagger:model api.UpdateUserRequest
type UpdateUserRequest struct {
	Username *string `json:"username,omitempty" example:"alice"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email" example:"alice@example.com"`
	Phone    *string `json:"phone,omitempty" example:"+84901234567"`
	Password *string `json:"password,omitempty" example:"NewSecret123!"`
}
