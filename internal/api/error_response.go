package api

// ErrorResponse is the global error payload.
// swagger:model api.ErrorResponse
type ErrorResponse struct {
	Message string `json:"message"`
}
