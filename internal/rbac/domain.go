package rbac

// Application roles stored on profiles.role.
const (
	RoleAdmin    = "admin"
	RoleStandard = "standart"
	RoleGuide    = "rehber"
)

// ValidRole reports whether the given role is one the system knows.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleStandard, RoleGuide:
		return true
	}
	return false
}
