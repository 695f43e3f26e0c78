package api

// swagger:model api.RegisterResponse
type RegisterResponse struct {
	AccessToken  string       `json:"access_token" example:"eyJhbGciOi..."`
	TokenType    string       `json:"token_type" example:"Bearer"`
	ClientID     string       `json:"client_id" example:"1"`
	RefreshToken string       `json:"refresh_token" example:"3q2-7wKZ..."`
	User         UserResponse `json:"user"`
}

// swagger:model api.LoginResponse
type LoginResponse struct {
	AccessToken  string       `json:"access_token" example:"eyJhbGciOi..."`
	RefreshToken string       `json:"refresh_token" example:"3q2-7wKZ..."`
	User         UserResponse `json:"user"`
}

// swagger:model api.RefreshResponse
type RefreshResponse struct {
	AccessToken string `json:"access_token" example:"eyJhbGciOi..."`
	TokenType   string `json:"token_type" example:"Bearer"`
}
