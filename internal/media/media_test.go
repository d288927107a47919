package media

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
)

// Minimal valid file headers; mimetype sniffs these prefixes.
var (
	jpegBytes = append([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}, make([]byte, 32)...)
	pngBytes  = append([]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, make([]byte, 32)...)
)

func dataURL(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func TestParseDataURLAccepted(t *testing.T) {
	img, err := ParseDataURL(dataURL("image/jpeg", jpegBytes))
	if err != nil {
		t.Fatalf("parse jpeg: %v", err)
	}
	if img.MIME != "image/jpeg" {
		t.Errorf("mime = %q, want image/jpeg", img.MIME)
	}

	img, err = ParseDataURL(dataURL("image/png", pngBytes))
	if err != nil {
		t.Fatalf("parse png: %v", err)
	}
	if img.MIME != "image/png" {
		t.Errorf("mime = %q, want image/png", img.MIME)
	}
}

func TestParseDataURLRejectsScriptableContent(t *testing.T) {
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg"><script>alert(1)</script></svg>`)
	html := []byte(`<!doctype html><html><body>hi</body></html>`)

	// The declared MIME lies; the sniffed type is what gets rejected.
	for _, payload := range [][]byte{svg, html} {
		if _, err := ParseDataURL(dataURL("image/png", payload)); !errors.Is(err, ErrUnsupportedType) {
			t.Errorf("expected ErrUnsupportedType for %q..., got %v", payload[:10], err)
		}
	}
}

func TestParseDataURLRejectsMalformed(t *testing.T) {
	cases := []string{
		"https://example.com/image.png",
		"data:image/png,not-base64-marked",
		"data:image/png;base64",
		"data:image/png;base64,!!!not-base64!!!",
	}
	for _, c := range cases {
		if _, err := ParseDataURL(c); !errors.Is(err, ErrNotDataURL) {
			t.Errorf("expected ErrNotDataURL for %q, got %v", c, err)
		}
	}
}

func TestParseDataURLRejectsOversize(t *testing.T) {
	big := make([]byte, MaxDecodedBytes+1)
	copy(big, jpegBytes)
	if _, err := ParseDataURL(dataURL("image/jpeg", big)); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}

func TestPassthroughRoundTrip(t *testing.T) {
	img, err := ParseDataURL(dataURL("image/jpeg", jpegBytes))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	url, err := NewPassthrough().Upload(context.Background(), img)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.HasPrefix(url, "data:image/jpeg;base64,") {
		t.Errorf("unexpected passthrough url prefix: %q", url[:30])
	}

	// The passthrough output is itself a valid submission.
	if _, err := ParseDataURL(url); err != nil {
		t.Errorf("passthrough output not re-parseable: %v", err)
	}
}
