package api

// swagger:model api.RegisterRequest
type RegisterRequest struct {
	Username string `json:"username" validate:"required" example:"alice"`
	Email    string `json:"email" validate:"required,email" example:"alice@example.com"`
	Phone    string `json:"phone" validate:"required" example:"+84901234567"`
	Password string `json:"password" validate:"required" example:"Secret123!"`
}
