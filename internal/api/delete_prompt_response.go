package api

// swagger:model api.DeletePromptResponse
type DeletePromptResponse struct {
	Success   bool `json:"success" example:"true"`
	DeletedID int  `json:"deleted_id" example:"3"`
}
