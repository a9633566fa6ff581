package dataurl

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode test PNG: %v", err)
	}
	return buf.Bytes()
}

func TestEncodeDecode(t *testing.T) {
	raw := testPNG(t, 4, 4)
	d := Encode("image/png", raw)

	if !strings.HasPrefix(d.String(), "data:image/png;base64,") {
		t.Fatalf("Unexpected prefix: %.40s", d)
	}

	mime, data, err := d.Decode()
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if mime != "image/png" {
		t.Errorf("Expected image/png, got %s", mime)
	}
	if !bytes.Equal(data, raw) {
		t.Error("Decoded bytes differ from input")
	}
}

func TestEncode_SniffsMimeType(t *testing.T) {
	d := Encode("", testPNG(t, 2, 2))
	if d.MimeType() != "image/png" {
		t.Errorf("Expected sniffed image/png, got %q", d.MimeType())
	}

	text := Encode("", []byte("hello"))
	if text.MimeType() != "text/plain" {
		t.Errorf("Expected text/plain without parameters, got %q", text.MimeType())
	}
}

func TestDecode_Malformed(t *testing.T) {
	cases := []DataURL{
		"",
		"image/png;base64,AAAA",
		"data:image/png,AAAA",
		"data:image/png;base64",
		"data:image/png;base64,***",
	}

	for _, c := range cases {
		if _, _, err := c.Decode(); !errors.Is(err, ErrMalformed) {
			t.Errorf("Decode(%q): expected ErrMalformed, got %v", c, err)
		}
	}
}

func TestFromReader(t *testing.T) {
	d, err := FromReader("image/jpeg", strings.NewReader("jpegbytes"))
	if err != nil {
		t.Fatalf("FromReader failed: %v", err)
	}
	if d.MimeType() != "image/jpeg" {
		t.Errorf("Expected image/jpeg, got %s", d.MimeType())
	}
}

func TestThumbnail_FitsBounds(t *testing.T) {
	d := Encode("image/png", testPNG(t, 600, 300))

	thumb, err := d.Thumbnail()
	if err != nil {
		t.Fatalf("Thumbnail failed: %v", err)
	}

	_, data, err := thumb.Decode()
	if err != nil {
		t.Fatalf("Failed to decode thumbnail: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Thumbnail is not a PNG: %v", err)
	}

	b := img.Bounds()
	if b.Dx() > ThumbnailWidth || b.Dy() > ThumbnailHeight {
		t.Errorf("Thumbnail %dx%d exceeds %dx%d", b.Dx(), b.Dy(), ThumbnailWidth, ThumbnailHeight)
	}
	if b.Dx() != ThumbnailWidth {
		t.Errorf("Expected width %d for a 2:1 image, got %d", ThumbnailWidth, b.Dx())
	}
}

func TestThumbnail_NotAnImage(t *testing.T) {
	d := Encode("image/png", []byte("definitely not a png"))
	if _, err := d.Thumbnail(); err == nil {
		t.Error("Expected error for undecodable image")
	}
}
