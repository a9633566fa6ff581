// Package state holds the application state behind a single set of mutation
// methods. Every mutation notifies the registered listeners with a fresh
// snapshot once the lock is released.
package state

import (
	"errors"
	"sync"

	"ecosort/internal/dataurl"
	"ecosort/internal/model"
)

// ErrBusy is returned when a request is already in flight.
var ErrBusy = errors.New("a submission is already in progress")

// ErrNoImage is returned when submitting with no image held.
var ErrNoImage = errors.New("no image to submit")

// Snapshot is an immutable copy of the state for rendering.
type Snapshot struct {
	View           model.View              `json:"view"`
	CurrentImage   dataurl.DataURL         `json:"currentImage,omitempty"`
	PreviewCaption string                  `json:"previewCaption,omitempty"`
	PreviewVisible bool                    `json:"previewVisible"`
	SubmitEnabled  bool                    `json:"submitEnabled"`
	CameraActive   bool                    `json:"cameraActive"`
	DemoRunning    bool                    `json:"demoRunning"`
	Result         *model.PredictionResult `json:"result,omitempty"`
	History        []model.HistoryEntry    `json:"history"`
	HistoryVersion int                     `json:"historyVersion"`
	Theme          model.Theme             `json:"theme"`
	Alerts         []string                `json:"alerts,omitempty"`
}

// Listener is called after each mutation.
type Listener func(Snapshot)

// Store is the single state container.
type Store struct {
	mu           sync.Mutex
	historyLimit int

	view           model.View
	currentImage   dataurl.DataURL
	previewCaption string
	cameraActive   bool
	demoRunning    bool
	demoToken      int
	result         *model.PredictionResult
	history        []model.HistoryEntry
	historyVersion int
	theme          model.Theme
	alerts         []string

	listeners []Listener
}

// NewStore creates an empty store showing the input view.
func NewStore(historyLimit int, theme model.Theme) *Store {
	if historyLimit <= 0 {
		historyLimit = 5
	}
	return &Store{
		historyLimit: historyLimit,
		view:         model.ViewInput,
		theme:        theme,
		history:      []model.HistoryEntry{},
	}
}

// OnChange registers a listener.
func (s *Store) OnChange(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	history := make([]model.HistoryEntry, len(s.history))
	copy(history, s.history)

	var result *model.PredictionResult
	if s.result != nil {
		r := *s.result
		result = &r
	}

	return Snapshot{
		View:           s.view,
		CurrentImage:   s.currentImage,
		PreviewCaption: s.previewCaption,
		PreviewVisible: !s.currentImage.IsEmpty(),
		SubmitEnabled:  !s.currentImage.IsEmpty() && s.view == model.ViewInput,
		CameraActive:   s.cameraActive,
		DemoRunning:    s.demoRunning,
		Result:         result,
		History:        history,
		HistoryVersion: s.historyVersion,
		Theme:          s.theme,
		Alerts:         append([]string(nil), s.alerts...),
	}
}

// mutate applies fn under the lock and notifies listeners afterwards.
func (s *Store) mutate(fn func()) {
	s.mu.Lock()
	fn()
	snap := s.snapshotLocked()
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	for _, l := range listeners {
		l(snap)
	}
}

// SetImage holds a newly acquired image, replacing any previous one. A demo
// still running is superseded and its pending steps become no-ops.
func (s *Store) SetImage(img dataurl.DataURL, caption string) {
	s.mutate(func() {
		s.supersedeDemoLocked()
		s.holdImageLocked(img, caption)
	})
}

func (s *Store) holdImageLocked(img dataurl.DataURL, caption string) {
	s.currentImage = img
	s.previewCaption = caption
	s.cameraActive = false
	if s.view == model.ViewResult {
		s.view = model.ViewInput
	}
}

// supersedeDemoLocked invalidates the running demo's pending steps. A demo
// caught in its loading step will never finish, so the view returns to input.
func (s *Store) supersedeDemoLocked() {
	if s.demoRunning && s.view == model.ViewLoading {
		s.view = model.ViewInput
	}
	s.demoRunning = false
	s.demoToken++
}

// SetCameraActive records whether the live camera preview is showing.
func (s *Store) SetCameraActive(active bool) {
	s.mutate(func() {
		s.cameraActive = active
	})
}

// BeginSubmission moves to the loading view. It fails when there is nothing
// to submit or the input view is not showing.
func (s *Store) BeginSubmission() (dataurl.DataURL, error) {
	var (
		img dataurl.DataURL
		err error
	)
	s.mutate(func() {
		switch {
		case s.view != model.ViewInput:
			err = ErrBusy
		case s.currentImage.IsEmpty():
			err = ErrNoImage
		default:
			s.supersedeDemoLocked()
			img = s.currentImage
			s.view = model.ViewLoading
		}
	})
	return img, err
}

// BeginDemo starts a demo sequence and returns its token. Later demo steps
// only apply while the token is current. It fails while a request is loading.
func (s *Store) BeginDemo() (int, error) {
	var (
		token int
		err   error
	)
	s.mutate(func() {
		if s.view == model.ViewLoading {
			err = ErrBusy
			return
		}
		s.supersedeDemoLocked()
		s.demoRunning = true
		token = s.demoToken
	})
	return token, err
}

// demoStep runs fn when token still names the running demo.
func (s *Store) demoStep(token int, fn func()) bool {
	applied := false
	s.mutate(func() {
		if !s.demoRunning || s.demoToken != token {
			return
		}
		fn()
		applied = true
	})
	return applied
}

// SetDemoImage holds the demo sample for a running demo.
func (s *Store) SetDemoImage(token int, img dataurl.DataURL, caption string) bool {
	return s.demoStep(token, func() {
		s.holdImageLocked(img, caption)
	})
}

// DemoLoading shows the loading view for a running demo.
func (s *Store) DemoLoading(token int) bool {
	return s.demoStep(token, func() {
		s.view = model.ViewLoading
	})
}

// DemoResult shows the simulated result of a running demo.
func (s *Store) DemoResult(token int, result model.PredictionResult) bool {
	return s.demoStep(token, func() {
		s.result = &result
		s.view = model.ViewResult
	})
}

// FinishDemo resets acquisition at the end of a demo.
func (s *Store) FinishDemo(token int) bool {
	return s.demoStep(token, func() {
		s.resetLocked()
	})
}

// AbortDemo drops a demo that could not load its image. Nothing else changes.
func (s *Store) AbortDemo(token int) {
	s.demoStep(token, func() {
		s.demoRunning = false
	})
}

// ShowResult displays a prediction.
func (s *Store) ShowResult(result model.PredictionResult) {
	s.mutate(func() {
		s.result = &result
		s.view = model.ViewResult
	})
}

// ReturnToInput goes back to the input view keeping the current image.
func (s *Store) ReturnToInput() {
	s.mutate(func() {
		s.view = model.ViewInput
	})
}

// ResetAcquisition clears the image and preview and returns to input. The
// last result stays available for download.
func (s *Store) ResetAcquisition() {
	s.mutate(s.resetLocked)
}

func (s *Store) resetLocked() {
	s.currentImage = ""
	s.previewCaption = ""
	s.view = model.ViewInput
	s.demoRunning = false
}

// ReplaceHistory swaps the whole history cache, keeping backend order and at
// most the configured number of entries.
func (s *Store) ReplaceHistory(entries []model.HistoryEntry) {
	s.mutate(func() {
		if len(entries) > s.historyLimit {
			entries = entries[:s.historyLimit]
		}
		s.history = make([]model.HistoryEntry, len(entries))
		copy(s.history, entries)
		s.historyVersion++
	})
}

// ClearHistory empties the history cache.
func (s *Store) ClearHistory() {
	s.ReplaceHistory(nil)
}

// SetTheme changes the display theme.
func (s *Store) SetTheme(theme model.Theme) {
	s.mutate(func() {
		s.theme = theme
	})
}

// Alert queues a user-visible message.
func (s *Store) Alert(message string) {
	s.mutate(func() {
		s.alerts = append(s.alerts, message)
	})
}

// TakeAlerts returns and clears the pending alerts.
func (s *Store) TakeAlerts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	alerts := s.alerts
	s.alerts = nil
	return alerts
}
