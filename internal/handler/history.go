package handler

import (
	"net/http"
	"strconv"

	"ecosort/internal/dto"
	"ecosort/internal/logger"
	"ecosort/internal/service/flow"
)

// RefreshHistoryHandler re-fetches the history list.
func RefreshHistoryHandler(f *flow.Flow, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f.SyncHistory(r.Context()); err != nil && wantsJSON(r) {
			writeJSON(w, http.StatusBadGateway, dto.StatusResponse{Success: false, Error: err.Error()})
			return
		}
		finish(w, r, f, logger, nil)
	}
}

// ClearHistoryHandler deletes all history. Form posts must carry confirm=yes;
// DELETE requests are treated as confirmed.
func ClearHistoryHandler(f *flow.Flow, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		confirmed := r.Method == http.MethodDelete || r.FormValue("confirm") == "yes"
		finish(w, r, f, logger, f.ClearHistory(r.Context(), confirmed))
	}
}

// DeleteEntryHandler deletes one history entry given by ?id=.
func DeleteEntryHandler(f *flow.Flow, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.FormValue("id"), 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "Invalid entry id", http.StatusBadRequest)
			return
		}
		finish(w, r, f, logger, f.DeleteEntry(r.Context(), id))
	}
}
