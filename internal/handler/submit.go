package handler

import (
	"fmt"
	"net/http"

	"ecosort/internal/dto"
	"ecosort/internal/logger"
	"ecosort/internal/service/flow"
)

// SubmitHandler classifies the held image.
func SubmitHandler(f *flow.Flow, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := f.Submit(r.Context())
		if err != nil || !wantsJSON(r) {
			finish(w, r, f, logger, err)
			return
		}

		writeJSON(w, http.StatusOK, dto.ResultResponse{
			Success:    true,
			Category:   result.Category.String(),
			Label:      result.Category.Label(),
			Confidence: result.Confidence,
			Disposal:   result.Category.Disposal(),
			Color:      result.Category.Color(),
		})
	}
}

// DownloadHandler serves the last result as a text attachment.
func DownloadHandler(f *flow.Flow, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, body, err := f.Download()
		if err != nil {
			http.Error(w, messageFor(err), statusFor(err))
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		w.Write(body)
		logger.Info("📥 Result downloaded")
	}
}
