// internal/app/features/accounts/handler_test.go
package accounts_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/dalemusser/acadhub/internal/app/features/accounts"
	"github.com/dalemusser/acadhub/internal/app/store/users"
	"github.com/dalemusser/acadhub/internal/app/system/auth"
	"github.com/dalemusser/acadhub/internal/app/system/indexes"
	"github.com/dalemusser/acadhub/internal/testutil"
)

func newAccountsHandler(t *testing.T) *accounts.Handler {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}
	store := userstore.New(db)
	mgr := auth.NewManager("test-secret-0123456789ABCDEF-0123456789", time.Hour)
	return accounts.NewHandler(store, mgr, zap.NewNop())
}

func postJSON(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestRegister_DefaultsRoleAndName(t *testing.T) {
	h := newAccountsHandler(t)

	rec := postJSON(t, h.Register, `{"email":"Ada.Lovelace@example.edu","password":"difference-engine"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
		User  struct {
			FullName string `json:"full_name"`
			Email    string `json:"email"`
			Role     string `json:"role"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a session token")
	}
	if resp.User.Email != "ada.lovelace@example.edu" {
		t.Errorf("email not lowercased: %q", resp.User.Email)
	}
	if resp.User.Role != "student" {
		t.Errorf("expected default role student, got %q", resp.User.Role)
	}
	if resp.User.FullName != "ada.lovelace" {
		t.Errorf("expected name from email local part, got %q", resp.User.FullName)
	}
	if strings.Contains(rec.Body.String(), "password_hash") {
		t.Error("response leaks the password hash")
	}
}

func TestRegister_RejectsBadInput(t *testing.T) {
	h := newAccountsHandler(t)

	cases := []struct {
		name string
		body string
	}{
		{"missing email", `{"password":"long-enough-pw"}`},
		{"malformed email", `{"email":"not-an-email","password":"long-enough-pw"}`},
		{"short password", `{"email":"a@b.edu","password":"short"}`},
		{"unknown role", `{"email":"a@b.edu","password":"long-enough-pw","role":"dean"}`},
		{"unknown field", `{"email":"a@b.edu","password":"long-enough-pw","admin":true}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postJSON(t, h.Register, tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRegister_DuplicateEmailConflicts(t *testing.T) {
	h := newAccountsHandler(t)

	body := `{"email":"repeat@example.edu","password":"long-enough-pw"}`
	if rec := postJSON(t, h.Register, body); rec.Code != http.StatusCreated {
		t.Fatalf("first register: expected 201, got %d", rec.Code)
	}
	rec := postJSON(t, h.Register, `{"email":"REPEAT@example.edu","password":"long-enough-pw"}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 for duplicate email, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestLogin_UniformFailures(t *testing.T) {
	h := newAccountsHandler(t)

	if rec := postJSON(t, h.Register,
		`{"email":"known@example.edu","password":"correct-horse-battery"}`); rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", rec.Code)
	}

	unknown := postJSON(t, h.Login, `{"email":"nobody@example.edu","password":"whatever-pw"}`)
	wrongPW := postJSON(t, h.Login, `{"email":"known@example.edu","password":"wrong-password"}`)

	if unknown.Code != http.StatusUnauthorized || wrongPW.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", unknown.Code, wrongPW.Code)
	}
	if unknown.Body.String() != wrongPW.Body.String() {
		t.Error("unknown-email and wrong-password responses should be indistinguishable")
	}

	ok := postJSON(t, h.Login, `{"email":"Known@example.edu","password":"correct-horse-battery"}`)
	if ok.Code != http.StatusOK {
		t.Errorf("expected 200 for valid login, got %d: %s", ok.Code, ok.Body.String())
	}
}
