package constants

// Onboarding purposes (must match enum_profiles_onboarding_purpose).
const (
	PurposeSearch   = "SEARCH"
	PurposeRegister = "REGISTER"
	PurposeBoth     = "BOTH"
)

// Legal identifier schemes supported for company registration. Both are
// 9-digit business registration numbers.
const (
	LegalIDTypeDUNS  = "DUNS"
	LegalIDTypeSIREN = "SIREN"
)

// IsValidPurpose returns true if p is one of the allowed purpose values.
func IsValidPurpose(p string) bool {
	return p == PurposeSearch || p == PurposeRegister || p == PurposeBoth
}

// IsValidLegalIDType returns true if t is a supported legal id scheme.
func IsValidLegalIDType(t string) bool {
	return t == LegalIDTypeDUNS || t == LegalIDTypeSIREN
}
