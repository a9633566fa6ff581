// Package camera captures still frames from a local video device with gocv.
package camera

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"ecosort/internal/config"
	"ecosort/internal/logger"
)

var (
	// ErrUnavailable means the device could not be opened or read.
	ErrUnavailable = errors.New("camera unavailable")
	// ErrNotStarted means Capture was called without an active stream.
	ErrNotStarted = errors.New("camera not started")
)

// FrameFunc receives JPEG-encoded preview frames while the camera is active.
type FrameFunc func(jpeg []byte)

// Service owns at most one open capture device.
type Service struct {
	device     string
	previewFPS int
	logger     *logger.Logger

	mu      sync.Mutex
	capture *gocv.VideoCapture
	stop    chan struct{}
	done    chan struct{}
}

// NewService creates a camera service for cfg.CameraDevice. The device is not
// opened until Start.
func NewService(cfg *config.Config, logger *logger.Logger) *Service {
	fps := cfg.CameraPreviewFPS
	if fps <= 0 {
		fps = 10
	}
	return &Service{
		device:     cfg.CameraDevice,
		previewFPS: fps,
		logger:     logger,
	}
}

// openDevice accepts a numeric index or a path/URL understood by OpenCV.
func openDevice(device string) (*gocv.VideoCapture, error) {
	if id, err := strconv.Atoi(device); err == nil {
		return gocv.OpenVideoCapture(id)
	}
	return gocv.OpenVideoCapture(device)
}

// Start opens the device and streams preview frames to onFrame until Stop or
// Capture. Starting an active camera is a no-op.
func (s *Service) Start(onFrame FrameFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.capture != nil {
		return nil
	}

	capture, err := openDevice(s.device)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return fmt.Errorf("%w: device %s did not open", ErrUnavailable, s.device)
	}

	s.capture = capture
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.previewLoop(onFrame, s.stop, s.done)

	s.logger.Info("Camera %s started", s.device)
	return nil
}

// previewLoop reads frames at the preview rate. It holds the lock only while
// touching the device so Capture can interleave.
func (s *Service) previewLoop(onFrame FrameFunc, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(time.Second / time.Duration(s.previewFPS))
	defer ticker.Stop()

	frame := gocv.NewMat()
	defer frame.Close()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		s.mu.Lock()
		if s.capture == nil {
			s.mu.Unlock()
			return
		}
		ok := s.capture.Read(&frame)
		s.mu.Unlock()

		if !ok || frame.Empty() {
			continue
		}
		if onFrame == nil {
			continue
		}

		buf, err := gocv.IMEncode(gocv.JPEGFileExt, frame)
		if err != nil {
			s.logger.Warning("Failed to encode preview frame: %v", err)
			continue
		}
		jpeg := make([]byte, len(buf.GetBytes()))
		copy(jpeg, buf.GetBytes())
		buf.Close()

		onFrame(jpeg)
	}
}

// Capture grabs the current frame at the device's native resolution, encodes
// it as PNG and releases the device, whether or not the grab succeeded.
func (s *Service) Capture() ([]byte, error) {
	s.mu.Lock()
	if s.capture == nil {
		s.mu.Unlock()
		return nil, ErrNotStarted
	}

	frame := gocv.NewMat()
	defer frame.Close()
	ok := s.capture.Read(&frame)
	s.mu.Unlock()

	// Release the device on every path out of Capture.
	defer s.Stop()

	if !ok || frame.Empty() {
		return nil, fmt.Errorf("%w: could not read a frame", ErrUnavailable)
	}

	buf, err := gocv.IMEncode(gocv.PNGFileExt, frame)
	if err != nil {
		return nil, fmt.Errorf("failed to encode frame: %w", err)
	}
	defer buf.Close()

	png := make([]byte, len(buf.GetBytes()))
	copy(png, buf.GetBytes())

	s.logger.Info("Captured %dx%d frame from camera %s", frame.Cols(), frame.Rows(), s.device)
	return png, nil
}

// Stop ends the preview and closes the device. Stopping an idle camera is a
// no-op.
func (s *Service) Stop() error {
	s.mu.Lock()
	// A nil stop channel with an open device means another Stop is running.
	if s.capture == nil || s.stop == nil {
		s.mu.Unlock()
		return nil
	}
	stop, done := s.stop, s.done
	s.stop, s.done = nil, nil
	s.mu.Unlock()

	close(stop)
	<-done

	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.capture.Close()
	s.capture = nil
	s.logger.Info("Camera %s stopped", s.device)
	return err
}

// Active reports whether the device is open.
func (s *Service) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.capture != nil
}
