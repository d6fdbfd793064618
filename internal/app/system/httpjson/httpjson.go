// internal/app/system/httpjson/httpjson.go
//
// Package httpjson holds the request/response helpers every feature handler
// uses: body decoding with size limits, response writing, and the single
// mapping from domain errors to HTTP status codes.
package httpjson

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/dalemusser/acadhub/internal/app/system/errs"
)

// maxBodyBytes bounds JSON request bodies. File uploads use multipart and
// are limited separately.
const maxBodyBytes = 1 << 20

// Decode reads a JSON request body into dst. Unknown fields are rejected so
// client typos fail loudly.
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errs.Validationf("invalid request body: %v", err)
	}
	return nil
}

// Respond writes v as JSON with the given status.
func Respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	// Encoding failures after WriteHeader cannot be reported to the client.
	_ = json.NewEncoder(w).Encode(v)
}

// errorBody is the uniform error payload.
type errorBody struct {
	Error string `json:"error"`
}

// Error maps a domain error to its HTTP status and writes the error payload.
// Unrecognized errors become 500 with a generic message so internals never
// leak to clients.
func Error(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	status := http.StatusInternalServerError
	msg := "internal server error"

	switch {
	case errs.IsValidation(err):
		status = http.StatusBadRequest
		msg = err.Error()
	case errors.Is(err, errs.ErrNotFound):
		status = http.StatusNotFound
		msg = "not found"
	case errors.Is(err, errs.ErrDuplicateCode):
		status = http.StatusConflict
		msg = "subject code already in use"
	case errors.Is(err, errs.ErrDuplicateEmail):
		status = http.StatusConflict
		msg = "email already registered"
	case errors.Is(err, errs.ErrConflict):
		status = http.StatusConflict
		msg = "conflicting concurrent update, retry"
	case errors.Is(err, errs.ErrForbidden):
		status = http.StatusForbidden
		msg = "forbidden"
	}

	if status == http.StatusInternalServerError && logger != nil {
		logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}

	Respond(w, status, errorBody{Error: msg})
}
