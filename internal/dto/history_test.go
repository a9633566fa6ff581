package dto

import (
	"encoding/json"
	"testing"
	"time"
)

func TestHistoryItem_UnmarshalJSON_Timestamps(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected time.Time
	}{
		{
			name:     "zone-less isoformat with micros",
			raw:      "2025-06-15T14:30:00.123456",
			expected: time.Date(2025, 6, 15, 14, 30, 0, 123456000, time.UTC),
		},
		{
			name:     "rfc3339",
			raw:      "2025-06-15T16:30:00+02:00",
			expected: time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC),
		},
		{
			name:     "garbage",
			raw:      "yesterday",
			expected: time.Time{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := `{"id":7,"category":"Glass","confidence":91.5,"thumbnail":"data:image/png;base64,AA==","timestamp":"` + tt.raw + `"}`

			var item HistoryItem
			if err := json.Unmarshal([]byte(payload), &item); err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}

			if !item.Timestamp.Equal(tt.expected) {
				t.Errorf("Expected %s, got %s", tt.expected, item.Timestamp)
			}
			if item.ID != 7 || item.Category != "Glass" || item.Confidence != 91.5 {
				t.Errorf("Other fields not decoded: %+v", item)
			}
		})
	}
}

func TestHistoryResponse_Unmarshal(t *testing.T) {
	payload := `{"success":true,"history":[{"id":2,"category":"Metal","confidence":88,"thumbnail":"x"},{"id":1,"category":"Paper","confidence":77,"thumbnail":"y"}]}`

	var resp HistoryResponse
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if !resp.Success || len(resp.History) != 2 {
		t.Fatalf("Unexpected response: %+v", resp)
	}
	if resp.History[0].ID != 2 || resp.History[1].Category != "Paper" {
		t.Errorf("Order or content not preserved: %+v", resp.History)
	}
}
