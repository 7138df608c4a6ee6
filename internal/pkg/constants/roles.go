package constants

// Company roles (must match enum_profiles_company_role).
const (
	RoleAdmin          = "admin"
	RoleProfileManager = "profile_manager"
	RolePaymentManager = "payment_manager"
	RoleUser           = "user"
)

// ValidCompanyRoles is the set of allowed DB enum values for company_role.
var ValidCompanyRoles = []string{RoleAdmin, RoleProfileManager, RolePaymentManager, RoleUser}

// IsValidCompanyRole returns true if role is one of the allowed enum values.
func IsValidCompanyRole(role string) bool {
	for _, r := range ValidCompanyRoles {
		if r == role {
			return true
		}
	}
	return false
}
