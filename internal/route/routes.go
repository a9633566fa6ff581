package route

import (
	"net/http"

	"ecosort/internal/handler"
	"ecosort/internal/logger"
	"ecosort/internal/middleware"
	"ecosort/internal/service/flow"
	"ecosort/internal/service/websocket"
)

// SetupRoutes registers the page, action and API endpoints and wraps the mux
// with request logging.
func SetupRoutes(f *flow.Flow, hub *websocket.Hub, log *logger.Logger) http.Handler {
	mux := http.NewServeMux()

	// Page and state
	mux.HandleFunc("GET /", handler.IndexHandler(f, log))
	mux.HandleFunc("GET /api/state", handler.StateHandler(f))
	mux.HandleFunc("GET /ws", handler.ViewWebsocketHandler(hub, log))

	// Input acquisition
	mux.HandleFunc("POST /camera/start", handler.StartCameraHandler(f, log))
	mux.HandleFunc("POST /camera/capture", handler.CaptureCameraHandler(f, log))
	mux.HandleFunc("POST /camera/stop", handler.StopCameraHandler(f, log))
	mux.HandleFunc("POST /upload", handler.UploadHandler(f, log))
	mux.HandleFunc("POST /demo", handler.DemoHandler(f, log))

	// Submission and result
	mux.HandleFunc("POST /submit", handler.SubmitHandler(f, log))
	mux.HandleFunc("GET /result/download", handler.DownloadHandler(f, log))

	// History and analytics
	mux.HandleFunc("POST /history/refresh", handler.RefreshHistoryHandler(f, log))
	mux.HandleFunc("POST /history/clear", handler.ClearHistoryHandler(f, log))
	mux.HandleFunc("DELETE /history", handler.ClearHistoryHandler(f, log))
	mux.HandleFunc("POST /history/delete", handler.DeleteEntryHandler(f, log))
	mux.HandleFunc("GET /analytics/chart.png", handler.ChartHandler(f, log))
	mux.HandleFunc("GET /api/analytics", handler.AnalyticsHandler(f))

	mux.HandleFunc("POST /theme/toggle", handler.ToggleThemeHandler(f, log))

	// Log endpoints
	for name, file := range map[string]string{
		"info":    logger.InfoFile,
		"warning": logger.WarningFile,
		"error":   logger.ErrorFile,
	} {
		mux.HandleFunc("GET /logs/"+name, handler.ShowLogsHandler(log, file))
		mux.HandleFunc("POST /logs/"+name+"/clear", handler.ClearLogsHandler(log, file))
	}

	return middleware.RequestLogger(log)(mux)
}
