// Package analytics aggregates the cached history into per-category counts
// and renders them as a pie chart.
package analytics

import (
	"fmt"
	"io"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"ecosort/internal/category"
	"ecosort/internal/model"
)

// Default chart size in pixels.
const (
	DefaultWidth  = 320
	DefaultHeight = 320
)

// NoDataLabel is drawn when every count is zero.
const NoDataLabel = "No data"

// Series holds one count per category in enumeration order.
type Series [category.Count]int

// Slice is one category's share of the series.
type Slice struct {
	Category category.Category `json:"category"`
	Label    string            `json:"label"`
	Color    string            `json:"color"`
	Count    int               `json:"count"`
}

// Count tallies entries per category. Zero counts are kept.
func Count(entries []model.HistoryEntry) Series {
	var s Series
	for _, e := range entries {
		c := e.Category
		if c < 0 || int(c) >= category.Count {
			c = category.Other
		}
		s[c]++
	}
	return s
}

// Total is the number of counted entries.
func (s Series) Total() int {
	total := 0
	for _, n := range s {
		total += n
	}
	return total
}

// Values returns the counts as a plain slice.
func (s Series) Values() []int {
	return append([]int(nil), s[:]...)
}

// Slices lists every category with its count, in enumeration order.
func (s Series) Slices() []Slice {
	out := make([]Slice, 0, len(s))
	for _, c := range category.All() {
		out = append(out, Slice{
			Category: c,
			Label:    c.String(),
			Color:    c.Color(),
			Count:    s[c],
		})
	}
	return out
}

// RenderPie writes a PNG pie chart of s to w. Only non-zero categories get a
// slice; an empty series draws a single neutral disc.
func RenderPie(w io.Writer, s Series, width, height int) error {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}

	values := make([]chart.Value, 0, len(s))
	for _, c := range category.All() {
		if s[c] == 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: c.String(),
			Value: float64(s[c]),
			Style: sliceStyle(c.Color()),
		})
	}
	if len(values) == 0 {
		values = append(values, chart.Value{
			Label: NoDataLabel,
			Value: 1,
			Style: sliceStyle(category.Other.Color()),
		})
	}

	pie := chart.PieChart{
		Width:  width,
		Height: height,
		Values: values,
	}
	if err := pie.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render pie chart: %w", err)
	}
	return nil
}

func sliceStyle(hex string) chart.Style {
	return chart.Style{
		FillColor:   drawing.ColorFromHex(strings.TrimPrefix(hex, "#")),
		StrokeColor: drawing.ColorWhite,
		StrokeWidth: 2,
		FontColor:   drawing.ColorBlack,
	}
}
