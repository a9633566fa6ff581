package handler

import (
	"errors"
	"net/http"

	"ecosort/internal/logger"
	"ecosort/internal/middleware"
	"ecosort/internal/service/flow"
)

// multipartOverhead leaves room for form boundaries around the file part.
const multipartOverhead = 1 << 20

// StartCameraHandler opens the camera and starts the live preview.
func StartCameraHandler(f *flow.Flow, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		finish(w, r, f, logger, f.StartCamera())
	}
}

// CaptureCameraHandler takes a still from the camera and releases it.
func CaptureCameraHandler(f *flow.Flow, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		finish(w, r, f, logger, f.CaptureCamera())
	}
}

// StopCameraHandler dismisses the camera.
func StopCameraHandler(f *flow.Flow, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		finish(w, r, f, logger, f.StopCamera())
	}
}

// UploadHandler accepts one image in the multipart field "image".
func UploadHandler(f *flow.Flow, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Twice the limit so files slightly over it still get a size message
		// built from their real size.
		r.Body = http.MaxBytesReader(w, r.Body, 2*f.MaxUploadBytes()+multipartOverhead)

		file, header, err := r.FormFile("image")
		if err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				finish(w, r, f, logger, f.RejectOversized(r.ContentLength))
				return
			}
			logger.Warning("[%s] Upload without a readable image field: %v", middleware.RequestID(r.Context()), err)
			finish(w, r, f, logger, f.Upload("", 0, http.NoBody))
			return
		}
		defer file.Close()

		finish(w, r, f, logger, f.Upload(header.Header.Get("Content-Type"), header.Size, file))
	}
}

// DemoHandler loads a demo image and starts the simulated classification.
func DemoHandler(f *flow.Flow, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		finish(w, r, f, logger, f.Demo(r.Context()))
	}
}
