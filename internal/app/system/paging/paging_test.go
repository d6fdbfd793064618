// internal/app/system/paging/paging_test.go
package paging_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/acadhub/internal/app/system/paging"
)

func TestParseLimit(t *testing.T) {
	cases := []struct {
		url  string
		want int64
	}{
		{"/list", paging.DefaultLimit},
		{"/list?limit=", paging.DefaultLimit},
		{"/list?limit=abc", paging.DefaultLimit},
		{"/list?limit=0", paging.DefaultLimit},
		{"/list?limit=-5", paging.DefaultLimit},
		{"/list?limit=25", 25},
		{"/list?limit=200", 200},
		{"/list?limit=5000", paging.MaxLimit},
	}

	for _, tc := range cases {
		r := httptest.NewRequest("GET", tc.url, nil)
		if got := paging.ParseLimit(r); got != tc.want {
			t.Errorf("ParseLimit(%q) = %d, want %d", tc.url, got, tc.want)
		}
	}
}
