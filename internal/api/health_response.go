package api

// swagger:model api.HealthResponse
type HealthResponse struct {
	Status    string `json:"status" example:"healthy"`
	Timestamp string `json:"timestamp" example:"2025-05-01T15:04:05Z"`
	Database  string `json:"database" example:"connected"`
}
