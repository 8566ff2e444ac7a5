package report

import (
	"fmt"
	"regexp"
	"strings"
)

// Field names a submission field that failed validation.
type Field string

const (
	FieldName      Field = "name"
	FieldTelephone Field = "telephone"
	FieldComments  Field = "comments"
)

// Code classifies why a field failed.
type Code string

const (
	CodeRequired Code = "required"
	CodePattern  Code = "pattern"
	CodeTooShort Code = "too_short"
)

// ValidationError reports the first field that failed validation.
type ValidationError struct {
	Field Field
	Code  Code
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("report: invalid %s: %s", e.Field, e.Code)
}

var (
	// Latin and Greek letters (including accented forms) and spaces.
	nameRe  = regexp.MustCompile(`^[A-Za-zΑ-Ωα-ωΆ-Ώά-ώ\s]+$`)
	phoneRe = regexp.MustCompile(`^[0-9]+$`)
)

const minNameLen = 5

// Validate checks submission fields in a fixed order and returns the first
// failure. Location and photo are optional and never checked here.
func Validate(name, telephone, comments string) *ValidationError {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: FieldName, Code: CodeRequired}
	}
	if !nameRe.MatchString(name) {
		return &ValidationError{Field: FieldName, Code: CodePattern}
	}
	if len([]rune(name)) < minNameLen {
		return &ValidationError{Field: FieldName, Code: CodeTooShort}
	}
	if strings.TrimSpace(telephone) == "" {
		return &ValidationError{Field: FieldTelephone, Code: CodeRequired}
	}
	if !phoneRe.MatchString(telephone) {
		return &ValidationError{Field: FieldTelephone, Code: CodePattern}
	}
	if strings.TrimSpace(comments) == "" {
		return &ValidationError{Field: FieldComments, Code: CodeRequired}
	}
	return nil
}

// SanitizePhone strips all whitespace from phone input, mirroring what the
// entry form does as the user types.
func SanitizePhone(s string) string {
	return strings.Join(strings.Fields(s), "")
}
