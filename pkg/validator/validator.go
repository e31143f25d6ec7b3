package validator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ParseError turns validator.ValidationErrors into a field->message map.
func ParseError(err error) map[string]string {
	errs := make(map[string]string)
	if ve, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range ve {
			errs[fe.Field()] = fmt.Sprintf("Field validation for '%s' failed on the '%s' tag", fe.Field(), fe.Tag())
		}
	} else if err != nil {
		errs["error"] = err.Error()
	}
	return errs
}

var mobileRe = regexp.MustCompile(`^[6-9][0-9]{9}$`)
var pincodeRe = regexp.MustCompile(`^[0-9]{6}$`)
var nonDigitRe = regexp.MustCompile(`[^0-9]`)

// NormalizeMobile strips spaces, dashes and a leading +91/91/0 prefix and
// checks the result is a 10-digit Indian mobile number (leading digit 6-9).
// Returns the normalized 10-digit form.
func NormalizeMobile(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("phone number is required")
	}
	s = strings.TrimPrefix(s, "+")
	s = nonDigitRe.ReplaceAllString(s, "")
	if len(s) == 12 && strings.HasPrefix(s, "91") {
		s = s[2:]
	} else if len(s) == 11 && strings.HasPrefix(s, "0") {
		s = s[1:]
	}
	if !mobileRe.MatchString(s) {
		return "", fmt.Errorf("must be a valid 10-digit Indian mobile number")
	}
	return s, nil
}

// ValidPincode reports whether s is exactly 6 digits.
func ValidPincode(s string) bool {
	return pincodeRe.MatchString(s)
}
