package dto

// PredictRequest is the body of POST /predict.
type PredictRequest struct {
	Image        string `json:"image"`
	DemoCategory string `json:"demo_category,omitempty"` // Lower-case dataset key, demo mode only
}

// PredictResponse is the backend's answer to POST /predict.
type PredictResponse struct {
	Success      bool    `json:"success"`
	Category     string  `json:"category,omitempty"`
	Confidence   float64 `json:"confidence,omitempty"`
	Error        string  `json:"error,omitempty"`
	PredictionID int64   `json:"prediction_id,omitempty"`
}
