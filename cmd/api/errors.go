package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

func (app *application) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Errorw("internal error", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusInternalServerError, "the server encountered a problem")
}

func (app *application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("bad request", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusBadRequest, err.Error())
}

func (app *application) notFoundResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("not found", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusNotFound, "resource not found")
}

// unauthorizedErrorResponse covers a missing bearer token (401); an invalid
// or expired one goes through invalidTokenResponse (400) instead.
func (app *application) unauthorizedErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("unauthorized", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusUnauthorized, "access denied")
}

func (app *application) invalidTokenResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("invalid token", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusBadRequest, "invalid or expired token")
}

func (app *application) forbiddenResponse(w http.ResponseWriter, r *http.Request) {
	app.logger.Warnw("forbidden", "method", r.Method, "path", r.URL.Path)

	writeJSONError(w, http.StatusForbidden, "insufficient privileges")
}

func (app *application) upstreamErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Errorw("upstream failure", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusBadGateway, "an upstream service failed")
}

func (app *application) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request, retryAfter string) {
	app.logger.Warnw("rate limit exceeded", "method", r.Method, "path", r.URL.Path)

	w.Header().Set("Retry-After", retryAfter)
	writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded, retry after: "+retryAfter)
}

// failedValidationResponse lists every failing field, not just the first.
func (app *application) failedValidationResponse(w http.ResponseWriter, r *http.Request, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		app.badRequestResponse(w, r, err)
		return
	}

	type fieldError struct {
		Field  string `json:"field"`
		Reason string `json:"reason"`
	}
	type envelope struct {
		Success bool         `json:"success"`
		Message string       `json:"message"`
		Status  int          `json:"status"`
		Errors  []fieldError `json:"errors"`
	}

	out := envelope{
		Success: false,
		Message: "validation failed",
		Status:  http.StatusBadRequest,
	}
	for _, fe := range verrs {
		out.Errors = append(out.Errors, fieldError{
			Field:  strings.ToLower(fe.Field()[:1]) + fe.Field()[1:],
			Reason: validationReason(fe),
		})
	}

	app.logger.Warnw("validation failed", "method", r.Method, "path", r.URL.Path, "fields", len(out.Errors))
	writeJSON(w, http.StatusBadRequest, &out)
}

func validationReason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "password":
		return "must be at least 8 characters with one uppercase letter, one digit and one symbol"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be %s or more", fe.Param())
	case "lte":
		return fmt.Sprintf("must be %s or less", fe.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "numeric":
		return "must be numeric"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed the %q rule", fe.Tag())
	}
}
