// Package acquire turns uploads and demo samples into data URLs ready for
// submission. Camera capture lives in the camera package.
package acquire

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dustin/go-humanize"

	"ecosort/internal/dataurl"
)

var (
	ErrNotImage = errors.New("not an image")
	ErrTooLarge = errors.New("file too large")
)

// NotImageMessage is shown when the selected file is not an image.
const NotImageMessage = "Please select a valid image file."

// UploadError explains why an upload was rejected. Message is user facing.
type UploadError struct {
	Err     error
	Message string
}

func (e *UploadError) Error() string { return e.Message }
func (e *UploadError) Unwrap() error { return e.Err }

// ValidateUpload checks the declared type and size of an upload.
// A size of exactly limit bytes is accepted.
func ValidateUpload(mimeType string, size, limit int64) error {
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(mimeType)), "image/") {
		return &UploadError{Err: ErrNotImage, Message: NotImageMessage}
	}
	if size > limit {
		return TooLarge(size, limit)
	}
	return nil
}

// TooLarge is the rejection for a file of size bytes over limit.
func TooLarge(size, limit int64) error {
	return &UploadError{
		Err:     ErrTooLarge,
		Message: fmt.Sprintf("File size must be under %s (got %s).", humanize.IBytes(uint64(limit)), humanize.IBytes(uint64(size))),
	}
}

// ReadUpload validates and reads an uploaded file into a data URL. When the
// client declared no type, the first bytes are sniffed. The declared size is
// not trusted: reading stops one byte past the limit.
func ReadUpload(mimeType string, size int64, r io.Reader, limit int64) (dataurl.DataURL, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	head = head[:n]

	if strings.TrimSpace(mimeType) == "" {
		mimeType = http.DetectContentType(head)
		if i := strings.Index(mimeType, ";"); i >= 0 {
			mimeType = mimeType[:i]
		}
	}
	if err := ValidateUpload(mimeType, size, limit); err != nil {
		return "", err
	}

	data, err := io.ReadAll(io.LimitReader(io.MultiReader(bytes.NewReader(head), r), limit+1))
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > limit {
		return "", TooLarge(int64(len(data)), limit)
	}
	return dataurl.Encode(mimeType, data), nil
}
