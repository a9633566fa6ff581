// Package flow runs the capture, submit, render and history cycle on top of
// the state store.
package flow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"ecosort/internal/config"
	"ecosort/internal/dataurl"
	"ecosort/internal/logger"
	"ecosort/internal/model"
	"ecosort/internal/service/acquire"
	"ecosort/internal/service/analytics"
	"ecosort/internal/service/backend"
	"ecosort/internal/service/camera"
	"ecosort/internal/state"
)

// DownloadFilename is the name offered for result downloads.
const DownloadFilename = "ecosort_result.txt"

var (
	// ErrNoResult means no prediction has been shown yet.
	ErrNoResult = errors.New("no result to download")
	// ErrNotConfirmed means a history clear was requested without confirmation.
	ErrNotConfirmed = errors.New("clearing history requires confirmation")
	// ErrNoCamera means the flow was built without a camera.
	ErrNoCamera = errors.New("no camera configured")
)

// Backend is the part of the backend client the flow uses.
type Backend interface {
	Predict(ctx context.Context, image dataurl.DataURL, demoCategory string) (*backend.Prediction, error)
	History(ctx context.Context, limit int) ([]model.HistoryEntry, error)
	ClearHistory(ctx context.Context) error
	DeletePrediction(ctx context.Context, id int64) error
}

// Camera is a capture device with a live preview.
type Camera interface {
	Start(onFrame camera.FrameFunc) error
	Capture() ([]byte, error)
	Stop() error
	Active() bool
}

// DemoSource picks demo sample images.
type DemoSource interface {
	Acquire(ctx context.Context) (*acquire.DemoImage, error)
}

// Preferences persists user settings.
type Preferences interface {
	SetTheme(ctx context.Context, theme model.Theme) error
}

// Flow coordinates input acquisition, submission, rendering and history sync.
type Flow struct {
	cfg     *config.Config
	store   *state.Store
	backend Backend
	camera  Camera
	demo    DemoSource
	prefs   Preferences
	rng     acquire.Rand
	logger  *logger.Logger
	now     func() time.Time

	frameMu sync.RWMutex
	onFrame camera.FrameFunc

	pending sync.WaitGroup // Demo timers and background persistence
}

// NewFlow wires the flow. cam and prefs may be nil.
func NewFlow(cfg *config.Config, store *state.Store, client Backend, cam Camera, demo DemoSource, prefs Preferences, rng acquire.Rand, logger *logger.Logger) *Flow {
	return &Flow{
		cfg:     cfg,
		store:   store,
		backend: client,
		camera:  cam,
		demo:    demo,
		prefs:   prefs,
		rng:     rng,
		logger:  logger,
		now:     time.Now,
	}
}

// Store returns the state store the flow mutates.
func (f *Flow) Store() *state.Store {
	return f.store
}

// SetFrameHandler sets where live camera frames go.
func (f *Flow) SetFrameHandler(fn camera.FrameFunc) {
	f.frameMu.Lock()
	defer f.frameMu.Unlock()
	f.onFrame = fn
}

func (f *Flow) forwardFrame(jpeg []byte) {
	f.frameMu.RLock()
	fn := f.onFrame
	f.frameMu.RUnlock()
	if fn != nil {
		fn(jpeg)
	}
}

// Wait blocks until pending demo steps and background calls have finished.
func (f *Flow) Wait() {
	f.pending.Wait()
}

// ========================================
// Input acquisition
// ========================================

// StartCamera opens the camera and starts the live preview.
func (f *Flow) StartCamera() error {
	if f.camera == nil {
		return f.report(KindPermission, MsgCamera, ErrNoCamera)
	}
	if err := f.camera.Start(f.forwardFrame); err != nil {
		return f.report(KindPermission, MsgCamera, err)
	}
	f.store.SetCameraActive(true)
	return nil
}

// CaptureCamera snapshots the current frame into CurrentImage. The camera is
// released whether or not the capture worked.
func (f *Flow) CaptureCamera() error {
	if f.camera == nil {
		return f.report(KindPermission, MsgCamera, ErrNoCamera)
	}

	png, err := f.camera.Capture()
	f.store.SetCameraActive(false)
	if err != nil {
		return f.report(KindPermission, MsgCamera, err)
	}

	f.store.SetImage(dataurl.Encode("image/png", png), "")
	f.logger.Info("📸 Captured image from camera")
	return nil
}

// StopCamera dismisses the camera without capturing.
func (f *Flow) StopCamera() error {
	f.store.SetCameraActive(false)
	if f.camera == nil {
		return nil
	}
	if err := f.camera.Stop(); err != nil {
		f.logger.Warning("⚠️  Failed to stop camera: %v", err)
		return fmt.Errorf("failed to stop camera: %w", err)
	}
	return nil
}

// releaseCamera stops a running preview when another input takes over.
func (f *Flow) releaseCamera() {
	if f.camera != nil && f.camera.Active() {
		f.StopCamera()
	}
}

// Upload validates and holds an uploaded file. Rejected files alert and leave
// the state unchanged.
func (f *Flow) Upload(mimeType string, size int64, r io.Reader) error {
	img, err := acquire.ReadUpload(mimeType, size, r, f.cfg.MaxUploadBytes)
	if err != nil {
		var uploadErr *acquire.UploadError
		if errors.As(err, &uploadErr) {
			return f.report(KindValidation, uploadErr.Message, err)
		}
		return f.report(KindValidation, MsgReadFile, err)
	}

	f.releaseCamera()
	f.store.SetImage(img, "")
	f.logger.Info("📁 Image uploaded (%s)", img.MimeType())
	return nil
}

// RejectOversized reports an upload refused before it could be read because
// the request body exceeded the transport limit.
func (f *Flow) RejectOversized(size int64) error {
	if size <= f.cfg.MaxUploadBytes {
		size = f.cfg.MaxUploadBytes + 1
	}
	err := acquire.TooLarge(size, f.cfg.MaxUploadBytes)
	return f.report(KindValidation, err.Error(), err)
}

// MaxUploadBytes is the largest accepted upload.
func (f *Flow) MaxUploadBytes() int64 {
	return f.cfg.MaxUploadBytes
}

// ========================================
// Submission
// ========================================

// Submit classifies CurrentImage. On success the result is shown, history is
// refreshed and acquisition resets.
func (f *Flow) Submit(ctx context.Context) (*model.PredictionResult, error) {
	img, err := f.store.BeginSubmission()
	if err != nil {
		return nil, err
	}

	prediction, err := f.backend.Predict(ctx, img, "")
	if err != nil {
		return nil, f.predictFailure(err)
	}

	result := model.PredictionResult{
		Category:   prediction.Category,
		Confidence: prediction.Confidence,
		At:         f.now(),
	}
	f.store.ShowResult(result)
	f.logger.Info("♻️  Classified as %s (%s, backend label %q)", result.Category, model.Percent(result.Confidence), prediction.Label)

	f.SyncHistory(ctx)
	f.store.ResetAcquisition()
	return &result, nil
}

func (f *Flow) predictFailure(err error) *Failure {
	var remote *backend.RemoteError
	if errors.As(err, &remote) {
		return f.fail(KindRemote, msgPredictPrefix+remote.Error(), err)
	}
	return f.fail(KindTransport, MsgConnectBackend, err)
}

// ========================================
// Demo mode
// ========================================

// Demo loads a sample image and plays the simulated classification: preview,
// loading, result, reset. The real /predict call runs in the background to
// persist the sample. Demo steps fire once and are never cancelled; a step
// whose demo was superseded by another input does nothing.
func (f *Flow) Demo(ctx context.Context) error {
	token, err := f.store.BeginDemo()
	if err != nil {
		return err
	}
	f.releaseCamera()

	img, err := f.demo.Acquire(ctx)
	if err != nil {
		f.store.AbortDemo(token)
		return f.report(KindTransport, MsgDemoImage, err)
	}
	if !f.store.SetDemoImage(token, img.Image, img.Caption()) {
		f.logger.Info("🎲 Demo superseded before its image loaded")
		return nil
	}
	f.logger.Info("🎲 Demo image loaded: %s from %s", img.Category, img.Source)

	background := context.WithoutCancel(ctx)
	f.after(f.cfg.DemoPreviewDelay, func() {
		if !f.store.DemoLoading(token) {
			return
		}
		f.after(f.cfg.DemoProcessDelay, func() {
			result := model.PredictionResult{
				Category:   img.Category,
				Confidence: float64(90 + f.rng.Intn(10)),
				Demo:       true,
				At:         f.now(),
			}
			if !f.store.DemoResult(token, result) {
				return
			}

			f.pending.Add(1)
			go func() {
				defer f.pending.Done()
				f.persistDemo(background, img)
			}()

			f.after(f.cfg.DemoResultHold, func() {
				f.store.FinishDemo(token)
			})
		})
	})
	return nil
}

// after runs fn once after d and tracks it until it returns.
func (f *Flow) after(d time.Duration, fn func()) {
	f.pending.Add(1)
	time.AfterFunc(d, func() {
		defer f.pending.Done()
		fn()
	})
}

// persistDemo stores the demo sample in the backend. The outcome is only
// logged; history is refreshed either way.
func (f *Flow) persistDemo(ctx context.Context, img *acquire.DemoImage) {
	if _, err := f.backend.Predict(ctx, img.Image, img.Category.Key()); err != nil {
		f.logger.Warning("⚠️  Demo prediction was not stored: %v", err)
	} else {
		f.logger.Info("💾 Demo prediction stored for %s", img.Category)
	}
	f.SyncHistory(ctx)
}

// ========================================
// History
// ========================================

// SyncHistory replaces the cached history with the latest backend list. On
// failure the prior cache is kept.
func (f *Flow) SyncHistory(ctx context.Context) error {
	entries, err := f.backend.History(ctx, f.cfg.HistoryLimit)
	if err != nil {
		f.logger.Error("❌ Failed to load history: %v", err)
		return fmt.Errorf("failed to load history: %w", err)
	}
	f.store.ReplaceHistory(entries)
	return nil
}

// ClearHistory deletes every stored prediction once confirmed.
func (f *Flow) ClearHistory(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}

	if err := f.backend.ClearHistory(ctx); err != nil {
		return f.historyFailure(MsgClearHistory, err)
	}
	f.store.ClearHistory()
	f.logger.Info("🧹 History cleared")
	return nil
}

// DeleteEntry deletes one stored prediction and refreshes the history.
func (f *Flow) DeleteEntry(ctx context.Context, id int64) error {
	if err := f.backend.DeletePrediction(ctx, id); err != nil {
		return f.historyFailure(MsgDeleteEntry, err)
	}
	f.logger.Info("🗑️  Deleted history entry %d", id)
	return f.SyncHistory(ctx)
}

func (f *Flow) historyFailure(remoteMessage string, err error) *Failure {
	var remote *backend.RemoteError
	if errors.As(err, &remote) {
		return f.report(KindHistory, remoteMessage, err)
	}
	return f.report(KindHistory, MsgConnectServer, err)
}

// Analytics counts the cached history per category.
func (f *Flow) Analytics() analytics.Series {
	return analytics.Count(f.store.Snapshot().History)
}

// ========================================
// Result download and theme
// ========================================

// Download renders the last result as a text file.
func (f *Flow) Download() (string, []byte, error) {
	result := f.store.Snapshot().Result
	if result == nil {
		return "", nil, ErrNoResult
	}
	return DownloadFilename, FormatResult(*result, f.now()), nil
}

// FormatResult is the plain-text result document.
func FormatResult(r model.PredictionResult, generated time.Time) []byte {
	return []byte(fmt.Sprintf("EcoSort AI Result\nCategory: %s\nConfidence: %s\nDisposal: %s\n\nGenerated on %s",
		r.Category.Label(),
		model.Percent(r.Confidence),
		r.Category.Disposal(),
		generated.Format("2006-01-02 15:04:05"),
	))
}

// ToggleTheme flips and persists the display theme. When saving fails the
// theme is left as it was.
func (f *Flow) ToggleTheme(ctx context.Context) (model.Theme, error) {
	current := f.store.Snapshot().Theme
	next := current.Toggle()

	if f.prefs != nil {
		if err := f.prefs.SetTheme(ctx, next); err != nil {
			f.logger.Error("❌ Failed to save theme: %v", err)
			return current, fmt.Errorf("failed to save theme: %w", err)
		}
	}
	f.store.SetTheme(next)
	return next, nil
}
