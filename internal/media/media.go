// Package media turns client-submitted data-URLs into durable image URLs.
// The core only depends on the Uploader contract: given decoded image
// bytes, return a public URL or fail with ErrUpload.
package media

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	// MaxDecodedBytes caps a single decoded image at 10MB.
	MaxDecodedBytes = 10 * 1024 * 1024
	// MaxImagesPerSubmission caps how many images one review or dorm may carry.
	MaxImagesPerSubmission = 5
)

var (
	ErrNotDataURL      = errors.New("media: not a base64 data-URL")
	ErrTooLarge        = fmt.Errorf("media: decoded image exceeds %d bytes", MaxDecodedBytes)
	ErrUnsupportedType = errors.New("media: unsupported image type")
	ErrUpload          = errors.New("media: upload failed")
)

// allowedMIME is the server-side allow-list. SVG and anything HTML/script
// adjacent is rejected to prevent stored-content XSS; the sniffed type of
// the decoded bytes is authoritative, not the data-URL header.
var allowedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

type Image struct {
	MIME string
	Data []byte
}

type Uploader interface {
	Upload(ctx context.Context, img Image) (string, error)
}

// ParseDataURL decodes a "data:<mime>;base64,<payload>" string and
// validates size and content type.
func ParseDataURL(s string) (Image, error) {
	if !strings.HasPrefix(s, "data:") {
		return Image{}, ErrNotDataURL
	}

	comma := strings.IndexByte(s, ',')
	if comma < 0 {
		return Image{}, ErrNotDataURL
	}

	meta := s[len("data:"):comma]
	if !strings.HasSuffix(meta, ";base64") {
		return Image{}, ErrNotDataURL
	}

	payload := s[comma+1:]
	if base64.StdEncoding.DecodedLen(len(payload)) > MaxDecodedBytes {
		return Image{}, ErrTooLarge
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Image{}, fmt.Errorf("%w: %v", ErrNotDataURL, err)
	}
	if len(data) > MaxDecodedBytes {
		return Image{}, ErrTooLarge
	}

	detected := mimetype.Detect(data).String()
	// mimetype may append parameters (e.g. "text/html; charset=utf-8").
	if i := strings.IndexByte(detected, ';'); i >= 0 {
		detected = strings.TrimSpace(detected[:i])
	}
	if !allowedMIME[detected] {
		return Image{}, fmt.Errorf("%w: %s", ErrUnsupportedType, detected)
	}

	return Image{MIME: detected, Data: data}, nil
}
