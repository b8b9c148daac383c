package api

// swagger:model api.RegisterRequest
type RegisterRequest struct {
	Username  string `json:"username" form:"username" validate:"required" example:"alice"`
	Email     string `json:"email" form:"email" validate:"required,email" example:"alice@example.com"`
	Password  string `json:"password" form:"password" validate:"required,min=6" example:"Secret123!"`
	IsPremium bool   `json:"is_premium" form:"is_premium" example:"false"`
}
