package media

import (
	"context"
	"encoding/base64"
)

// Passthrough is the development fallback when no bucket is configured: the
// validated image is re-encoded as a data-URL and stored inline. Not
// durable storage, but keeps local development working end to end.
type Passthrough struct{}

func NewPassthrough() Passthrough { return Passthrough{} }

func (Passthrough) Upload(_ context.Context, img Image) (string, error) {
	return "data:" + img.MIME + ";base64," + base64.StdEncoding.EncodeToString(img.Data), nil
}
