package api

// swagger:model api.GenerateRequest
type GenerateRequest struct {
	Prompt         string `json:"prompt" form:"prompt" validate:"required" example:"a cat"`
	NegativePrompt string `json:"negative_prompt" form:"negative_prompt" example:"blurry"`
	Style          string `json:"style" form:"style" example:"anime"`
	PromptID       *int   `json:"prompt_id" form:"prompt_id" example:"3"`
	Source         string `json:"source" form:"source" example:"local"`
	BatchSize      int    `json:"batch_size" form:"batch_size" example:"2"`
}
