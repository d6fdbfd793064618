// internal/app/system/authz/roles.go
package authz

// Role names. Stored lowercase on the user document and in tokens.
const (
	RoleAdmin   = "admin"
	RoleFaculty = "faculty"
	RoleStudent = "student"
)

// ValidRole reports whether role is one of the known role names.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleFaculty, RoleStudent:
		return true
	}
	return false
}
