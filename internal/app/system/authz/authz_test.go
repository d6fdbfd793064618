// internal/app/system/authz/authz_test.go
package authz_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dalemusser/acadhub/internal/app/system/authz"
	"github.com/dalemusser/acadhub/internal/testutil"
)

func TestValidRole(t *testing.T) {
	for _, role := range []string{"admin", "faculty", "student"} {
		if !authz.ValidRole(role) {
			t.Errorf("expected %q to be valid", role)
		}
	}
	for _, role := range []string{"", "superadmin", "Admin", "visitor"} {
		if authz.ValidRole(role) {
			t.Errorf("expected %q to be invalid", role)
		}
	}
}

func TestRequireRole(t *testing.T) {
	var called bool
	handler := authz.RequireRole(authz.RoleAdmin, authz.RoleFaculty)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))

	// No principal: 401.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized || called {
		t.Errorf("expected 401 without principal, got %d", rec.Code)
	}

	// Student against a faculty route: 403.
	rec = httptest.NewRecorder()
	req := testutil.WithPrincipal(httptest.NewRequest(http.MethodGet, "/", nil), primitive.NewObjectID(), authz.RoleStudent)
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden || called {
		t.Errorf("expected 403 for wrong role, got %d", rec.Code)
	}

	// Faculty: allowed.
	rec = httptest.NewRecorder()
	req = testutil.WithPrincipal(httptest.NewRequest(http.MethodGet, "/", nil), primitive.NewObjectID(), authz.RoleFaculty)
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !called {
		t.Errorf("expected handler to run for faculty, got %d", rec.Code)
	}
}

func TestCanManageContent(t *testing.T) {
	req := testutil.WithPrincipal(httptest.NewRequest(http.MethodGet, "/", nil), primitive.NewObjectID(), authz.RoleStudent)
	if authz.CanManageContent(req) {
		t.Error("students must not manage content")
	}

	req = testutil.WithPrincipal(httptest.NewRequest(http.MethodGet, "/", nil), primitive.NewObjectID(), authz.RoleFaculty)
	if !authz.CanManageContent(req) {
		t.Error("faculty must manage content")
	}
}
