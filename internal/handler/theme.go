package handler

import (
	"net/http"

	"ecosort/internal/logger"
	"ecosort/internal/service/flow"
)

// ToggleThemeHandler switches between the light and dark theme.
func ToggleThemeHandler(f *flow.Flow, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		theme, err := f.ToggleTheme(r.Context())
		if err != nil {
			http.Error(w, "Failed to save theme", http.StatusInternalServerError)
			return
		}
		if wantsJSON(r) {
			writeJSON(w, http.StatusOK, map[string]string{"theme": string(theme)})
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}
