package api

import (
	"github.com/ssargent/logan/pkg/entry"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Port           int
	Bind           string
	APIKey         string     // Empty disables authentication
	OutputDir      string     // Where reports for uploads are written
	Mode           entry.Mode // Record parse failure handling for uploads
	MaxUploadBytes int64
	IncludeChunks  bool     // Return decoded chunks in responses
	AllowedOrigins []string // CORS origins; empty disables CORS
}

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	Status string `json:"status"`
}
