package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"dormbase/internal/media"
)

// resolveImages turns a mixed list of data-URLs and already-hosted URLs into
// hosted URLs. Plain http(s) URLs pass through untouched so edits can resend
// previously uploaded images without re-uploading them.
func (app *application) resolveImages(ctx context.Context, raw []string) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	if len(raw) > media.MaxImagesPerSubmission {
		return nil, fmt.Errorf("%w: at most %d images per submission", media.ErrTooLarge, media.MaxImagesPerSubmission)
	}

	out := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}

		if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
			out = append(out, s)
			continue
		}

		img, err := media.ParseDataURL(s)
		if err != nil {
			return nil, err
		}

		url, err := app.uploader.Upload(ctx, img)
		if err != nil {
			return nil, err
		}
		out = append(out, url)
	}

	return out, nil
}

// mediaErrorResponse maps media failures onto the wire: client mistakes are
// 400s, a failed upstream upload is a 502.
func (app *application) mediaErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, media.ErrUpload):
		app.upstreamErrorResponse(w, r, err)
	case errors.Is(err, media.ErrNotDataURL),
		errors.Is(err, media.ErrTooLarge),
		errors.Is(err, media.ErrUnsupportedType):
		app.badRequestResponse(w, r, err)
	default:
		app.internalServerError(w, r, err)
	}
}
