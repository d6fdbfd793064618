// internal/app/system/paging/paging.go
//
// Package paging parses list-endpoint paging parameters. Limits are capped
// so a client cannot pull an entire collection in one request.
package paging

import (
	"net/http"
	"strconv"
)

// DefaultLimit is used when the client sends no limit.
const DefaultLimit = 50

// MaxLimit caps any client-supplied limit.
const MaxLimit = 200

// ParseLimit extracts the "limit" query parameter, clamped to [1, MaxLimit].
// Missing or invalid values fall back to DefaultLimit.
func ParseLimit(r *http.Request) int64 {
	s := r.URL.Query().Get("limit")
	if s == "" {
		return DefaultLimit
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return DefaultLimit
	}
	if n > MaxLimit {
		return MaxLimit
	}
	return int64(n)
}
