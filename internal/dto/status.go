package dto

// StatusResponse is returned by DELETE /history and DELETE /history/{id}.
type StatusResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// DemoImagesResponse lists sample image URLs for one dataset category.
type DemoImagesResponse struct {
	Images []string `json:"images"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}
