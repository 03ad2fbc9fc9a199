package types

// Status constants for API responses
const (
	StatusOK        = "ok"
	StatusError     = "error"
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// BaseResponse contains fields common to all API responses
type BaseResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse for detailed error information
type ErrorResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Error   string      `json:"error,omitempty"`   // Error code
	Details interface{} `json:"details,omitempty"` // Additional error details
}

// ComponentStatus is the health of one dependency
type ComponentStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// HealthResponse for health check endpoint
type HealthResponse struct {
	Status         string          `json:"status"`
	Timestamp      string          `json:"timestamp"`
	Database       ComponentStatus `json:"database"`
	ActiveSessions int             `json:"activeSessions"`
}

// VersionResponse for the root endpoint
type VersionResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit,omitempty"`
	BuildTime string `json:"buildTime,omitempty"`
	Status    string `json:"status"`
}
