// Package dataurl encodes and decodes base64 data URLs and builds the small
// thumbnails shown in the history list.
package dataurl

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"net/http"
	"strings"

	"github.com/nfnt/resize"
)

const (
	// ThumbnailWidth and ThumbnailHeight bound generated history thumbnails.
	ThumbnailWidth  = 150
	ThumbnailHeight = 100
)

var ErrMalformed = errors.New("malformed data URL")

// DataURL is an inline "data:<mime>;base64,<payload>" image string.
type DataURL string

// Encode builds a data URL; an empty mime type is sniffed from the bytes.
func Encode(mimeType string, data []byte) DataURL {
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	// Drop parameters such as "; charset=utf-8" that DetectContentType may add.
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	return DataURL("data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data))
}

// FromReader reads r fully and encodes it.
func FromReader(mimeType string, r io.Reader) (DataURL, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	return Encode(mimeType, data), nil
}

// Decode returns the mime type and raw bytes of a base64 data URL.
func (d DataURL) Decode() (string, []byte, error) {
	s := string(d)
	if !strings.HasPrefix(s, "data:") {
		return "", nil, ErrMalformed
	}
	header, payload, ok := strings.Cut(s[len("data:"):], ",")
	if !ok || !strings.HasSuffix(header, ";base64") {
		return "", nil, ErrMalformed
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return strings.TrimSuffix(header, ";base64"), data, nil
}

// MimeType returns the declared mime type, or "" when malformed.
func (d DataURL) MimeType() string {
	s := string(d)
	if !strings.HasPrefix(s, "data:") {
		return ""
	}
	header, _, _ := strings.Cut(s[len("data:"):], ",")
	return strings.TrimSuffix(header, ";base64")
}

func (d DataURL) String() string { return string(d) }

// IsEmpty reports whether no image is held.
func (d DataURL) IsEmpty() bool { return d == "" }

// Thumbnail scales the image to fit 150x100 and re-encodes it as PNG.
func (d DataURL) Thumbnail() (DataURL, error) {
	_, data, err := d.Decode()
	if err != nil {
		return "", err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	thumb := resize.Thumbnail(ThumbnailWidth, ThumbnailHeight, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := png.Encode(&buf, thumb); err != nil {
		return "", fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return Encode("image/png", buf.Bytes()), nil
}
