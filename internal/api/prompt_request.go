package api

// PromptRequest is shared by create and update; title is optional on
// create and derived from the prompt text when absent.
// swagger:model api.PromptRequest
type PromptRequest struct {
	Title          string `json:"title" form:"title" example:"a cat"`
	PromptText     string `json:"prompt_text" form:"prompt_text" validate:"required" example:"a cat sitting on a windowsill"`
	NegativePrompt string `json:"negative_prompt" form:"negative_prompt" example:"blurry, low quality"`
	Style          string `json:"style" form:"style" example:"photorealistic"`
}
