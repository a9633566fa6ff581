package model

import (
	"math"
	"strconv"
	"time"

	"ecosort/internal/category"
	"ecosort/internal/dataurl"
)

// PredictionResult is a classification shown to the user.
type PredictionResult struct {
	Category   category.Category `json:"category"`
	Confidence float64           `json:"confidence"` // Percentage, 0-100
	Demo       bool              `json:"demo"`
	At         time.Time         `json:"at"`
}

// Percent formats a confidence value as shown to the user, e.g. "87.5%".
func Percent(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64) + "%"
}

// HistoryEntry is a past prediction as returned by the backend.
type HistoryEntry struct {
	ID         int64             `json:"id"`
	Thumbnail  dataurl.DataURL   `json:"thumbnail"`
	Category   category.Category `json:"category"`
	Confidence float64           `json:"confidence"`
	Timestamp  time.Time         `json:"timestamp"`
}

// View is the section of the page currently shown.
type View int

const (
	ViewInput View = iota
	ViewLoading
	ViewResult
)

func (v View) String() string {
	switch v {
	case ViewLoading:
		return "loading"
	case ViewResult:
		return "result"
	default:
		return "input"
	}
}

// MarshalText encodes the view by name.
func (v View) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// Theme is the persisted display theme.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// ParseTheme maps anything other than "light" to the dark default.
func ParseTheme(s string) Theme {
	if Theme(s) == ThemeLight {
		return ThemeLight
	}
	return ThemeDark
}

// Toggle returns the opposite theme.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}
