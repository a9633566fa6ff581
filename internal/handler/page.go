package handler

import (
	"embed"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"ecosort/internal/category"
	"ecosort/internal/dataurl"
	"ecosort/internal/logger"
	"ecosort/internal/middleware"
	"ecosort/internal/model"
	"ecosort/internal/service/analytics"
	"ecosort/internal/service/flow"
	"ecosort/internal/state"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.New("index.html").Funcs(template.FuncMap{
	"imageURL": imageURL,
	"percent":  model.Percent,
	"ago":      ago,
	"bytes":    func(n int64) string { return humanize.IBytes(uint64(n)) },
}).ParseFS(templateFS, "templates/index.html"))

// imageURL lets image data URLs through the template's URL sanitizer. Anything
// that is not an image renders as an empty source.
func imageURL(d dataurl.DataURL) template.URL {
	if !strings.HasPrefix(d.MimeType(), "image/") {
		return ""
	}
	return template.URL(d.String())
}

func ago(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.Time(t)
}

// pageData is everything the index template renders.
type pageData struct {
	state.Snapshot
	Alerts     []string
	Categories []category.Category
	Slices     []analytics.Slice
	Total      int
	MaxUpload  int64
}

// IndexHandler renders the page from the current state. Pending alerts are
// shown once.
func IndexHandler(f *flow.Flow, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}

		store := f.Store()
		series := f.Analytics()
		data := pageData{
			Snapshot:   store.Snapshot(),
			Alerts:     store.TakeAlerts(),
			Categories: category.All(),
			Slices:     series.Slices(),
			Total:      series.Total(),
			MaxUpload:  f.MaxUploadBytes(),
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		if err := pageTemplate.Execute(w, data); err != nil {
			logger.Error("[%s] Failed to render page: %v", middleware.RequestID(r.Context()), err)
		}
	}
}

// StateHandler returns the current state snapshot as JSON.
func StateHandler(f *flow.Flow) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, f.Store().Snapshot())
	}
}
