package validation

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	EmailPattern = `^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`

	PasswordMinLength = 8

	NameMinLength = 2
	NameMaxLength = 120

	MinGradYear = 1900
	MaxGradYear = 2100
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Email *regexp.Regexp
}{
	Email: regexp.MustCompile(EmailPattern),
}

var structValidator = validator.New()

// Struct runs go-playground validation using `validate` tags
func Struct(v interface{}) error {
	return structValidator.Struct(v)
}

// StringValidation is a small builder for single field checks
type StringValidation struct {
	Value    string
	MinLen   int
	MaxLen   int
	Required bool
	Pattern  *regexp.Regexp
}

// NewStringValidation creates a new string validation
func NewStringValidation(value string) *StringValidation {
	return &StringValidation{
		Value:    value,
		Required: true,
	}
}

// WithMinLength sets minimum length in characters
func (v *StringValidation) WithMinLength(min int) *StringValidation {
	v.MinLen = min
	return v
}

// WithMaxLength sets maximum length in characters
func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

// WithPattern sets regex pattern
func (v *StringValidation) WithPattern(pattern *regexp.Regexp) *StringValidation {
	v.Pattern = pattern
	return v
}

// Validate performs validation
func (v *StringValidation) Validate() bool {
	if v.Value == "" {
		return !v.Required
	}

	length := utf8.RuneCountInString(v.Value)
	if v.MinLen > 0 && length < v.MinLen {
		return false
	}
	if v.MaxLen > 0 && length > v.MaxLen {
		return false
	}

	if v.Pattern != nil && !v.Pattern.MatchString(v.Value) {
		return false
	}

	return true
}

// ValidFullName checks an already trimmed display name
func ValidFullName(name string) bool {
	return NewStringValidation(name).
		WithMinLength(NameMinLength).
		WithMaxLength(NameMaxLength).
		Validate()
}

// ValidEmail checks an address against the lower-cased email pattern
func ValidEmail(email string) bool {
	return NewStringValidation(strings.ToLower(strings.TrimSpace(email))).
		WithMaxLength(254).
		WithPattern(CompiledPatterns.Email).
		Validate()
}

// ValidOptionalURL accepts "" or an absolute http(s) url with a host
func ValidOptionalURL(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return true
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// ValidGradYear accepts nil or a year within the supported range
func ValidGradYear(year *int) bool {
	return year == nil || (*year >= MinGradYear && *year <= MaxGradYear)
}

// ValidPassword requires the minimum length, a letter and a digit
func ValidPassword(password string) bool {
	if len(password) < PasswordMinLength {
		return false
	}
	var letter, digit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return letter && digit
}

// SafeRedirectPath only allows same-site relative paths, falling back to def
func SafeRedirectPath(next, def string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return def
	}
	return next
}
