// Package validate holds the storefront form rules shared by the API layer
// and the bulk upload parser.
package validate

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Email reports whether the value looks like a deliverable address.
func Email(value string) bool {
	return emailPattern.MatchString(strings.TrimSpace(value))
}

// Password problem messages, returned in a stable order.
const (
	PasswordTooShort   = "password must be at least 8 characters"
	PasswordNeedsUpper = "password must contain an uppercase letter"
	PasswordNeedsLower = "password must contain a lowercase letter"
	PasswordNeedsDigit = "password must contain a digit"
)

// Password returns the list of unmet requirements; empty means the
// password is acceptable.
func Password(value string) []string {
	var problems []string
	if len(value) < 8 {
		problems = append(problems, PasswordTooShort)
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range value {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper {
		problems = append(problems, PasswordNeedsUpper)
	}
	if !hasLower {
		problems = append(problems, PasswordNeedsLower)
	}
	if !hasDigit {
		problems = append(problems, PasswordNeedsDigit)
	}
	return problems
}

var nonDigits = regexp.MustCompile(`\D`)

// ContactNumber accepts values that reduce to exactly ten digits once
// separators are stripped.
func ContactNumber(value string) bool {
	digits := nonDigits.ReplaceAllString(value, "")
	return len(digits) == 10
}

// RegisterRules adds the storefront tags to a validator instance so DTOs
// can declare them alongside the builtin rules.
func RegisterRules(v *validator.Validate) error {
	if err := v.RegisterValidation("store_email", func(fl validator.FieldLevel) bool {
		return Email(fl.Field().String())
	}); err != nil {
		return err
	}
	if err := v.RegisterValidation("store_password", func(fl validator.FieldLevel) bool {
		return len(Password(fl.Field().String())) == 0
	}); err != nil {
		return err
	}
	return v.RegisterValidation("contact_number", func(fl validator.FieldLevel) bool {
		return ContactNumber(fl.Field().String())
	})
}
