// internal/app/features/accounts/handler.go
package accounts

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/dalemusser/acadhub/internal/app/store/users"
	"github.com/dalemusser/acadhub/internal/app/system/auth"
	"github.com/dalemusser/acadhub/internal/app/system/authz"
	"github.com/dalemusser/acadhub/internal/app/system/errs"
	"github.com/dalemusser/acadhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/acadhub/internal/app/system/httpjson"
	"github.com/dalemusser/acadhub/internal/domain/models"
)

// Handler serves registration and login.
type Handler struct {
	Users *userstore.Store
	Auth  *auth.Manager
	Log   *zap.Logger
}

// NewHandler constructs an accounts Handler.
func NewHandler(userStore *userstore.Store, authManager *auth.Manager, logger *zap.Logger) *Handler {
	return &Handler{Users: userStore, Auth: authManager, Log: logger}
}

type registerRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Register handles POST /accounts/register. Unknown roles are rejected; a
// missing role defaults to student. The full name defaults to the email's
// local part when not supplied.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		httpjson.Error(w, r, h.Log, errs.Validationf("a valid email is required"))
		return
	}
	if len(req.Password) < 8 {
		httpjson.Error(w, r, h.Log, errs.Validationf("password must be at least 8 characters"))
		return
	}

	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role == "" {
		role = authz.RoleStudent
	}
	if !authz.ValidRole(role) {
		httpjson.Error(w, r, h.Log, errs.Validationf("unknown role %q", role))
		return
	}

	fullName := htmlsanitize.Strip(req.FullName)
	if fullName == "" {
		fullName = email[:strings.Index(email, "@")]
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}

	user, err := h.Users.Create(r.Context(), models.User{
		FullName:     fullName,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	})
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}

	token, err := h.Auth.IssueToken(user)
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}

	h.Log.Info("account registered",
		zap.String("user_id", user.ID.Hex()), zap.String("role", user.Role))
	httpjson.Respond(w, http.StatusCreated, sessionResponse{Token: token, User: user})
}

// Login handles POST /accounts/login. Bad email and bad password produce the
// same response so the endpoint cannot be used to probe for accounts.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}

	user, err := h.Users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		httpjson.Respond(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		httpjson.Respond(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		return
	}

	token, err := h.Auth.IssueToken(user)
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}

	httpjson.Respond(w, http.StatusOK, sessionResponse{Token: token, User: user})
}
