package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"ecosort/internal/dto"
	"ecosort/internal/logger"
	"ecosort/internal/middleware"
	"ecosort/internal/service/flow"
	"ecosort/internal/state"
)

// Alerts for requests the flow refused without reporting.
const (
	MsgBusy         = "Please wait for the current classification to finish."
	MsgNoImage      = "Please capture or upload an image first."
	MsgNotConfirmed = "Please confirm clearing the history."
)

// wantsJSON reports whether the caller is a script rather than a form post.
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") ||
		r.Header.Get("X-Requested-With") == "XMLHttpRequest"
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// statusFor maps flow and state errors to HTTP statuses.
func statusFor(err error) int {
	var failure *flow.Failure
	switch {
	case errors.As(err, &failure):
		switch failure.Kind {
		case flow.KindValidation:
			return http.StatusBadRequest
		case flow.KindPermission:
			return http.StatusServiceUnavailable
		default:
			return http.StatusBadGateway
		}
	case errors.Is(err, state.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, state.ErrNoImage), errors.Is(err, flow.ErrNotConfirmed):
		return http.StatusBadRequest
	case errors.Is(err, flow.ErrNoResult):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// messageFor is the user-facing text for err.
func messageFor(err error) string {
	var failure *flow.Failure
	switch {
	case errors.As(err, &failure):
		return failure.Message
	case errors.Is(err, state.ErrBusy):
		return MsgBusy
	case errors.Is(err, state.ErrNoImage):
		return MsgNoImage
	case errors.Is(err, flow.ErrNotConfirmed):
		return MsgNotConfirmed
	case errors.Is(err, flow.ErrNoResult):
		return flow.MsgNoResult
	default:
		return "Something went wrong. Please try again."
	}
}

// finish answers an action request. Scripts get a JSON status; browsers are
// sent back to the page, which shows any alert the action raised.
func finish(w http.ResponseWriter, r *http.Request, f *flow.Flow, logger *logger.Logger, err error) {
	if err != nil {
		var failure *flow.Failure
		if !errors.As(err, &failure) {
			logger.Warning("[%s] %s %s refused: %v", middleware.RequestID(r.Context()), r.Method, r.URL.Path, err)
			if !wantsJSON(r) {
				f.Store().Alert(messageFor(err))
			}
		}
	}

	if wantsJSON(r) {
		if err != nil {
			writeJSON(w, statusFor(err), dto.StatusResponse{Success: false, Error: messageFor(err)})
			return
		}
		writeJSON(w, http.StatusOK, dto.StatusResponse{Success: true})
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
