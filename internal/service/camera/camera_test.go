package camera

import (
	"errors"
	"io"
	"path/filepath"
	"testing"

	"ecosort/internal/config"
	"ecosort/internal/logger"
)

func newTestService(t *testing.T, device string) *Service {
	t.Helper()

	log, err := logger.New(t.TempDir(), io.Discard, io.Discard)
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	t.Cleanup(log.Close)
	return NewService(&config.Config{CameraDevice: device}, log)
}

func TestStart_MissingDevice(t *testing.T) {
	s := newTestService(t, filepath.Join(t.TempDir(), "no-such-video.avi"))

	err := s.Start(nil)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Expected ErrUnavailable, got %v", err)
	}
	if s.Active() {
		t.Error("Camera should not be active after a failed start")
	}
}

func TestCapture_NotStarted(t *testing.T) {
	s := newTestService(t, "0")

	if _, err := s.Capture(); !errors.Is(err, ErrNotStarted) {
		t.Errorf("Expected ErrNotStarted, got %v", err)
	}
}

func TestStop_Idle(t *testing.T) {
	s := newTestService(t, "0")

	if err := s.Stop(); err != nil {
		t.Errorf("Stopping an idle camera should be a no-op, got %v", err)
	}
}

func TestNewService_DefaultFPS(t *testing.T) {
	s := newTestService(t, "0")
	if s.previewFPS != 10 {
		t.Errorf("Expected default preview FPS 10, got %d", s.previewFPS)
	}
}
