package dto

import (
	"encoding/json"
	"time"
)

// HistoryResponse is the payload of GET /history.
type HistoryResponse struct {
	Success bool          `json:"success"`
	History []HistoryItem `json:"history"`
	Error   string        `json:"error,omitempty"`
}

// HistoryItem is one stored prediction.
type HistoryItem struct {
	ID         int64     `json:"id"`
	Thumbnail  string    `json:"thumbnail"`
	Category   string    `json:"category"`
	Confidence float64   `json:"confidence"`
	ImageData  string    `json:"image_data,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// timestampLayouts covers RFC 3339 and the zone-less ISO format the backend
// emits for UTC timestamps.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// UnmarshalJSON accepts timestamps with or without a zone; unparseable
// timestamps are left zero rather than failing the whole history.
func (h *HistoryItem) UnmarshalJSON(data []byte) error {
	type Alias HistoryItem
	aux := &struct {
		Timestamp string `json:"timestamp"`
		*Alias
	}{
		Alias: (*Alias)(h),
	}
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}

	h.Timestamp = time.Time{}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, aux.Timestamp); err == nil {
			h.Timestamp = t.UTC()
			break
		}
	}
	return nil
}
