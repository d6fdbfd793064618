// internal/app/system/authz/authz.go
package authz

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dalemusser/acadhub/internal/app/system/auth"
)

// UserCtx returns the caller's role and user ID with a found flag. ok=false
// means the request carried no valid principal.
func UserCtx(r *http.Request) (role string, userID primitive.ObjectID, ok bool) {
	p, ok := auth.CurrentPrincipal(r)
	if !ok {
		return "", primitive.NilObjectID, false
	}
	return p.Role, p.UserID, true
}

// IsAdmin reports whether the caller is an admin.
func IsAdmin(r *http.Request) bool {
	role, _, ok := UserCtx(r)
	return ok && role == RoleAdmin
}

// IsFaculty reports whether the caller is faculty.
func IsFaculty(r *http.Request) bool {
	role, _, ok := UserCtx(r)
	return ok && role == RoleFaculty
}

// IsStudent reports whether the caller is a student.
func IsStudent(r *http.Request) bool {
	role, _, ok := UserCtx(r)
	return ok && role == RoleStudent
}

// CanManageContent reports whether the caller may create or delete subjects,
// units, and materials. Admins and faculty can; students cannot.
func CanManageContent(r *http.Request) bool {
	role, _, ok := UserCtx(r)
	return ok && (role == RoleAdmin || role == RoleFaculty)
}

// RequireRole allows the request through only when the caller holds one of
// the listed roles. Unauthenticated requests get 401, wrong roles get 403.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, _, ok := UserCtx(r)
			if !ok {
				http.Error(w, "authentication required", http.StatusUnauthorized)
				return
			}
			if _, permitted := allowed[role]; !permitted {
				http.Error(w, "insufficient role", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
