package validation

import (
	"regexp"
	"unicode"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Phone: optional leading +, 6-15 digits (loose E.164).
var phoneRe = regexp.MustCompile(`^\+?[0-9]{6,15}$`)

// Names: letters, spaces, hyphens, apostrophes only.
var nameRe = regexp.MustCompile(`^[\p{L}\s\-']+$`)

// DUNS and SIREN are both exactly 9 digits.
var legalIDRe = regexp.MustCompile(`^\d{9}$`)

func IsValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

func IsValidPhone(phone string) bool {
	return phoneRe.MatchString(phone)
}

// IsValidPassword:
// - at least 8 characters
// - contains at least one letter
// - contains at least one number
// - contains at least one special character
func IsValidPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	hasLetter, hasDigit, hasSpecial := false, false, false
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}
	return hasLetter && hasDigit && hasSpecial
}

// IsValidName checks first/last names: 2-50 chars, letter set above.
func IsValidName(name string) bool {
	if len(name) < 2 || len(name) > 50 {
		return false
	}
	return nameRe.MatchString(name)
}

func IsValidLegalID(legalID string) bool {
	return legalIDRe.MatchString(legalID)
}

// IdentifierKind classifies a login identifier.
type IdentifierKind int

const (
	IdentifierInvalid IdentifierKind = iota
	IdentifierEmail
	IdentifierPhone
)

// ClassifyIdentifier decides whether a string is an email, a phone number,
// or neither.
func ClassifyIdentifier(s string) IdentifierKind {
	switch {
	case IsValidEmail(s):
		return IdentifierEmail
	case IsValidPhone(s):
		return IdentifierPhone
	default:
		return IdentifierInvalid
	}
}
