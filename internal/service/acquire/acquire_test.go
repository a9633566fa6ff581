package acquire

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"ecosort/internal/category"
	"ecosort/internal/dataurl"
	"ecosort/internal/logger"
)

const limit = 5 * 1024 * 1024

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

// ========================================
// Upload validation
// ========================================

func TestValidateUpload(t *testing.T) {
	tests := []struct {
		name    string
		mime    string
		size    int64
		wantErr error
	}{
		{"png", "image/png", 1024, nil},
		{"jpeg uppercase", "IMAGE/JPEG", 1024, nil},
		{"exactly the limit", "image/png", limit, nil},
		{"one byte over", "image/png", limit + 1, ErrTooLarge},
		{"pdf", "application/pdf", 10, ErrNotImage},
		{"empty type", "", 10, ErrNotImage},
		{"text", "text/plain", 10, ErrNotImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUpload(tt.mime, tt.size, limit)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateUpload_Messages(t *testing.T) {
	err := ValidateUpload("application/zip", 1, limit)
	if err.Error() != "Please select a valid image file." {
		t.Errorf("Unexpected message: %s", err)
	}

	err = ValidateUpload("image/png", 6*1024*1024, limit)
	if !strings.Contains(err.Error(), "5.0 MiB") || !strings.Contains(err.Error(), "6.0 MiB") {
		t.Errorf("Expected human readable sizes, got %s", err)
	}
}

func TestReadUpload_Success(t *testing.T) {
	content := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{1}, 100)...)

	d, err := ReadUpload("image/png", int64(len(content)), bytes.NewReader(content), limit)
	if err != nil {
		t.Fatalf("ReadUpload failed: %v", err)
	}

	_, data, err := d.Decode()
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !bytes.Equal(data, content) {
		t.Error("Data URL does not round-trip the upload")
	}
}

func TestReadUpload_SniffsMissingType(t *testing.T) {
	d, err := ReadUpload("", int64(len(pngHeader)), bytes.NewReader(pngHeader), limit)
	if err != nil {
		t.Fatalf("ReadUpload failed: %v", err)
	}
	if d.MimeType() != "image/png" {
		t.Errorf("Expected sniffed image/png, got %s", d.MimeType())
	}

	_, err = ReadUpload("", 5, strings.NewReader("hello"), limit)
	if !errors.Is(err, ErrNotImage) {
		t.Errorf("Expected ErrNotImage for sniffed text, got %v", err)
	}
}

func TestReadUpload_DeclaredTypeIsNotSniffed(t *testing.T) {
	_, err := ReadUpload("application/octet-stream", int64(len(pngHeader)), bytes.NewReader(pngHeader), limit)
	if !errors.Is(err, ErrNotImage) {
		t.Errorf("Expected ErrNotImage for a declared non-image type, got %v", err)
	}
}

func TestReadUpload_UnderstatedSize(t *testing.T) {
	content := append(append([]byte{}, pngHeader...), make([]byte, 2048)...)

	_, err := ReadUpload("image/png", 10, bytes.NewReader(content), 1024)
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("Expected ErrTooLarge when body exceeds limit, got %v", err)
	}
}

// ========================================
// Demo acquisition
// ========================================

type fakeFetcher struct {
	images     map[string][]string
	listErr    error
	failURLs   map[string]bool
	listCalls  []string
	fetchCalls []string
}

func (f *fakeFetcher) DemoImages(ctx context.Context, key string) ([]string, error) {
	f.listCalls = append(f.listCalls, key)
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.images[key], nil
}

func (f *fakeFetcher) FetchImage(ctx context.Context, rawURL string) (dataurl.DataURL, error) {
	f.fetchCalls = append(f.fetchCalls, rawURL)
	if f.failURLs[rawURL] {
		return "", errors.New("fetch failed")
	}
	return dataurl.Encode("image/png", []byte(rawURL)), nil
}

// seqRand returns the queued values in order, then zeros.
type seqRand struct {
	values []int
}

func (s *seqRand) Intn(n int) int {
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[0]
	s.values = s.values[1:]
	return v % n
}

func newTestDemo(t *testing.T, f *fakeFetcher, values ...int) *DemoService {
	t.Helper()

	log, err := logger.New(t.TempDir(), io.Discard, io.Discard)
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	t.Cleanup(log.Close)
	return NewDemoService(f, &seqRand{values: values}, log)
}

func TestDemo_FromDataset(t *testing.T) {
	f := &fakeFetcher{images: map[string][]string{
		"glass": {"/dataset/glass/a.jpg", "/dataset/glass/b.jpg"},
	}}
	// DemoKeys[2] is glass, then image index 1.
	demo := newTestDemo(t, f, 2, 1)

	img, err := demo.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}

	if img.Category != category.Glass {
		t.Errorf("Expected Glass, got %s", img.Category)
	}
	if img.Source != "/dataset/glass/b.jpg" {
		t.Errorf("Expected second dataset image, got %s", img.Source)
	}
	if img.Fallback {
		t.Error("Dataset image should not be marked as fallback")
	}
	if img.Image.IsEmpty() {
		t.Error("Expected image data")
	}
	if img.Caption() != "Demo Image Preview - Glass Category" {
		t.Errorf("Unexpected caption: %s", img.Caption())
	}
}

func TestDemo_EmptyDatasetFallsBack(t *testing.T) {
	f := &fakeFetcher{images: map[string][]string{}}
	// plastic key, then gallery index 2 (Organic).
	demo := newTestDemo(t, f, 0, 2)

	img, err := demo.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}

	if !img.Fallback {
		t.Error("Expected gallery fallback")
	}
	if img.Category != category.Organic {
		t.Errorf("Expected gallery category Organic, got %s", img.Category)
	}
	if img.Source != Gallery[2].URL {
		t.Errorf("Unexpected source %s", img.Source)
	}
}

func TestDemo_ListErrorFallsBack(t *testing.T) {
	f := &fakeFetcher{listErr: errors.New("connection refused")}
	demo := newTestDemo(t, f, 1, 5)

	img, err := demo.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if img.Category != category.Other || !img.Fallback {
		t.Errorf("Expected Other gallery fallback, got %+v", img)
	}
}

func TestDemo_FetchErrorFallsBack(t *testing.T) {
	f := &fakeFetcher{
		images:   map[string][]string{"metal": {"/dataset/metal/can.jpg"}},
		failURLs: map[string]bool{"/dataset/metal/can.jpg": true},
	}
	demo := newTestDemo(t, f, 1, 0, 1)

	img, err := demo.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if !img.Fallback || img.Category != category.Metal {
		t.Errorf("Expected Metal gallery fallback, got %+v", img)
	}
	if len(f.fetchCalls) != 2 {
		t.Errorf("Expected dataset then gallery fetch, got %v", f.fetchCalls)
	}
}

func TestDemo_EverythingFails(t *testing.T) {
	failing := map[string]bool{}
	for _, g := range Gallery {
		failing[g.URL] = true
	}
	f := &fakeFetcher{listErr: errors.New("down"), failURLs: failing}
	demo := newTestDemo(t, f, 0, 0)

	_, err := demo.Acquire(context.Background())
	if !errors.Is(err, ErrDemoUnavailable) {
		t.Fatalf("Expected ErrDemoUnavailable, got %v", err)
	}
}

func TestGallery_CoversEveryCategory(t *testing.T) {
	seen := map[category.Category]bool{}
	for _, g := range Gallery {
		seen[g.Category] = true
	}
	for _, c := range category.All() {
		if !seen[c] {
			t.Errorf("Gallery has no image for %s", c)
		}
	}
}

func TestNewRand_InRange(t *testing.T) {
	r := NewRand()
	for i := 0; i < 100; i++ {
		if v := r.Intn(10); v < 0 || v >= 10 {
			t.Fatalf("Intn(10) returned %d", v)
		}
	}
}
