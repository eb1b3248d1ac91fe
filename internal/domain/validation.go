package domain

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Validation constants
const (
	MaxSubjectNameLength = 255
	MinSubjectNameLength = 1
	MaxDescriptionLength = 1024
	MaxPageSize          = 1000
	DefaultPageSize      = 50
)

// Digits with optional leading +, spaces and dashes. Persian digits are
// normalized before matching.
var phoneRegex = regexp.MustCompile(`^\+?[0-9][0-9 \-]{5,19}$`)

// ValidateSubjectName validates a subject name. Length is counted in
// characters since names are mostly written in Persian script.
func ValidateSubjectName(name string) error {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)

	if n < MinSubjectNameLength {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidSubjectName)
	}

	if n > MaxSubjectNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidSubjectName, MaxSubjectNameLength)
	}

	return nil
}

// NormalizePhone converts Persian digits and trims the number. An empty
// phone is allowed.
func NormalizePhone(phone string) (string, error) {
	phone = digitReplacerKeepSpaces.Replace(strings.TrimSpace(phone))
	if phone == "" {
		return "", nil
	}

	if !phoneRegex.MatchString(phone) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPhone, phone)
	}

	return phone, nil
}

// ValidateDescription validates free-text descriptions.
func ValidateDescription(desc string) error {
	if utf8.RuneCountInString(desc) > MaxDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d characters", ErrValidation, MaxDescriptionLength)
	}
	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}

var digitReplacerKeepSpaces = strings.NewReplacer(
	"۰", "0", "۱", "1", "۲", "2", "۳", "3", "۴", "4",
	"۵", "5", "۶", "6", "۷", "7", "۸", "8", "۹", "9",
	"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
	"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
)
