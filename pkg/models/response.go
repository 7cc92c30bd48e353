package models

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// SuccessResponse wraps boolean mutation results
type SuccessResponse struct {
	Success bool `json:"success"`
}

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}
