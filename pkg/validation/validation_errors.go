package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError is one offending field as reported to the client.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldLabels maps JSON field names to user-facing labels
var FieldLabels = map[string]string{
	"name":        "Name",
	"email":       "Email",
	"subject":     "Subject",
	"message":     "Message",
	"inquiryType": "Inquiry type",
	"category":    "Category",
	"categoryId":  "Category ID",
}

// customMessages overrides the generated text for a field/tag pair
var customMessages = map[string]string{
	"name.person_name":     "Name contains invalid characters",
	"email.email":          "Please enter a valid email address",
	"inquiryType.oneof":    "Please select a valid inquiry type",
	"inquiryType.required": "Please select an inquiry type",
}

// FormatValidationErrors converts validator.ValidationErrors to one
// FieldError per offending field, in struct order.
func FormatValidationErrors(err error) []FieldError {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		// Not a validation error, return generic message
		return []FieldError{{Field: "", Message: err.Error()}}
	}

	seen := make(map[string]bool, len(validationErrors))
	out := make([]FieldError, 0, len(validationErrors))
	for _, e := range validationErrors {
		field := e.Field()
		if seen[field] {
			continue
		}
		seen[field] = true
		out = append(out, FieldError{Field: field, Message: formatSingleError(e)})
	}
	return out
}

// TypeMismatch reports a field whose JSON value had the wrong type.
func TypeMismatch(field string) FieldError {
	return FieldError{Field: field, Message: fmt.Sprintf("%s must be text", getFieldLabel(field))}
}

// formatSingleError formats a single validation error to a user-friendly message
func formatSingleError(e validator.FieldError) string {
	field := e.Field()
	if msg, ok := customMessages[field+"."+e.Tag()]; ok {
		return msg
	}

	label := getFieldLabel(field)
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)

	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, param)

	case "max":
		return fmt.Sprintf("%s must be less than %s characters", label, param)

	case "email":
		return fmt.Sprintf("%s must be a valid email address", label)

	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(param, " ", ", "))

	case "person_name":
		return fmt.Sprintf("%s contains invalid characters", label)

	default:
		// Fallback for unknown tags
		return fmt.Sprintf("%s is invalid", label)
	}
}

// getFieldLabel returns the user-friendly label for a field
func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return formatCamelCase(fieldName)
}

// formatCamelCase converts camelCase to a capitalised, spaced label
func formatCamelCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i == 0 {
			result.WriteString(strings.ToUpper(string(r)))
			continue
		}
		if r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
		}
		result.WriteRune(r)
	}
	return result.String()
}
