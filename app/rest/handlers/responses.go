package handlers

import "time"

// APIResponse is the envelope every portal endpoint speaks:
// {success:true, data:{...}} on success, {success:false, message} on failure.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// OK wraps payload data in a success envelope
func OK(data interface{}) APIResponse {
	return APIResponse{Success: true, Data: data}
}

// Fail wraps an error message in a failure envelope
func Fail(message string) APIResponse {
	return APIResponse{Success: false, Message: message}
}

// HealthResponse represents the health check payload
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	Uptime    string    `json:"uptime"`
}

// HealthStatus represents one dependency's health
type HealthStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// ReadinessResponse represents the readiness check payload
type ReadinessResponse struct {
	Status string                  `json:"status"`
	Checks map[string]HealthStatus `json:"checks"`
}
