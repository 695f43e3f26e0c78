package api

// 穩定的錯誤代碼，呼叫端以此判斷錯誤種類而非比對訊息文字
const (
	CodeValidationFailed   = "validation_failed"
	CodeDuplicateEmail     = "duplicate_email"
	CodeInvalidCredentials = "invalid_credentials"
	CodeUnauthorized       = "unauthorized"
	CodeNotFound           = "not_found"
	CodeInternal           = "internal"
)

// swagger:model api.ErrorResponse
type ErrorResponse struct {
	Code    string `json:"code" example:"validation_failed"`
	Message string `json:"message" example:"All required fields must be filled"`
}
