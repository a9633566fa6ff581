package dto

import "ecosort/internal/service/analytics"

// ResultResponse is the JSON answer to POST /submit.
type ResultResponse struct {
	Success    bool    `json:"success"`
	Category   string  `json:"category,omitempty"`
	Label      string  `json:"label,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	Disposal   string  `json:"disposal,omitempty"`
	Color      string  `json:"color,omitempty"`
	Error      string  `json:"error,omitempty"`
}

// AnalyticsResponse is returned by GET /api/analytics.
type AnalyticsResponse struct {
	Total  int               `json:"total"`
	Counts []int             `json:"counts"`
	Slices []analytics.Slice `json:"slices"`
}
