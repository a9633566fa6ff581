package handler

import (
	"bytes"
	"net/http"
	"strconv"

	"ecosort/internal/dto"
	"ecosort/internal/logger"
	"ecosort/internal/middleware"
	"ecosort/internal/service/analytics"
	"ecosort/internal/service/flow"
)

// ChartHandler renders the category pie chart as PNG. Optional w and h query
// parameters set the size.
func ChartHandler(f *flow.Flow, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		width := atoiDefault(r.URL.Query().Get("w"), analytics.DefaultWidth)
		height := atoiDefault(r.URL.Query().Get("h"), analytics.DefaultHeight)

		var buf bytes.Buffer
		if err := analytics.RenderPie(&buf, f.Analytics(), width, height); err != nil {
			logger.Error("[%s] Chart rendering failed: %v", middleware.RequestID(r.Context()), err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-cache")
		w.Write(buf.Bytes())
	}
}

// AnalyticsHandler returns the per-category counts as JSON.
func AnalyticsHandler(f *flow.Flow) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		series := f.Analytics()
		writeJSON(w, http.StatusOK, dto.AnalyticsResponse{
			Total:  series.Total(),
			Counts: series.Values(),
			Slices: series.Slices(),
		})
	}
}

// atoiDefault parses a positive integer up to 2048, or returns def.
func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 || n > 2048 {
		return def
	}
	return n
}
