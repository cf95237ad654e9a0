package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type contactForm struct {
	Name        string `json:"name" validate:"required,min=2,max=100,person_name"`
	Email       string `json:"email" validate:"required,email,max=254"`
	InquiryType string `json:"inquiryType" validate:"required,oneof=general media"`
}

func TestStructValidationReportsJSONNames(t *testing.T) {
	v := New()

	err := v.Struct(contactForm{Name: "R2-D2", Email: "nope", InquiryType: "spam"})
	require.Error(t, err)

	errs := FormatValidationErrors(err)
	assert.Equal(t, []FieldError{
		{Field: "name", Message: "Name contains invalid characters"},
		{Field: "email", Message: "Please enter a valid email address"},
		{Field: "inquiryType", Message: "Please select a valid inquiry type"},
	}, errs)
}

func TestStructValidationLengthMessages(t *testing.T) {
	v := New()

	err := v.Struct(contactForm{Name: "A", Email: "a@b.co", InquiryType: "general"})
	require.Error(t, err)
	assert.Equal(t, []FieldError{{Field: "name", Message: "Name must be at least 2 characters"}}, FormatValidationErrors(err))

	err = v.Struct(contactForm{Name: strings.Repeat("a", 101), Email: "a@b.co", InquiryType: "general"})
	require.Error(t, err)
	assert.Equal(t, "Name must be less than 100 characters", FormatValidationErrors(err)[0].Message)
}

func TestPersonName(t *testing.T) {
	v := New()
	for _, name := range []string{"Ada Lovelace", "Jean-Luc", "O'Brien", "Mary  Ann"} {
		assert.NoError(t, v.Var(name, "person_name"), name)
	}
	for _, name := range []string{"R2D2", "Robert'); DROP", "<b>x</b>", "José"} {
		assert.Error(t, v.Var(name, "person_name"), name)
	}
}

func TestTypeMismatch(t *testing.T) {
	assert.Equal(t, FieldError{Field: "name", Message: "Name must be text"}, TypeMismatch("name"))
	assert.Equal(t, FieldError{Field: "roleInterest", Message: "Role Interest must be text"}, TypeMismatch("roleInterest"))
}

func TestFormatCamelCase(t *testing.T) {
	assert.Equal(t, "Role Interest", formatCamelCase("roleInterest"))
	assert.Equal(t, "Linked In", formatCamelCase("linkedIn"))
	assert.Equal(t, "Name", getFieldLabel("name"))
}

func testSchema() Schema {
	return NewSchema(
		FieldDescriptor{Name: "name", Label: "Full Name", Kind: KindText, Required: true, MinLength: 2, MaxLength: 100},
		FieldDescriptor{Name: "email", Label: "Email Address", Kind: KindEmail, Required: true},
		FieldDescriptor{Name: "roleInterest", Label: "Role of Interest", Kind: KindSelect, Required: true, Options: []string{"Operations", "Programs"}},
		FieldDescriptor{Name: "whyAnduber", Label: "Why AnduBer?", Kind: KindTextarea, Required: true},
		FieldDescriptor{Name: "expertiseAreas", Label: "Expertise Areas", Kind: KindMultiselect, Required: true, Options: []string{"Strategy", "Legal"}},
		FieldDescriptor{Name: "dayRate", Label: "Day Rate", Kind: KindText},
		FieldDescriptor{Name: "interests", Label: "Interests", Kind: KindMultiselect},
	).WithHoneypot("website")
}

func validRaw() map[string]any {
	return map[string]any{
		"name":           "Amara Okafor",
		"email":          "amara@example.org",
		"roleInterest":   "Programs",
		"whyAnduber":     "I have run community programmes for ten years.",
		"expertiseAreas": []any{"Strategy"},
		"website":        "",
	}
}

func TestSchemaValidateAcceptsValidPayload(t *testing.T) {
	sv := NewSchemaValidator(nil)

	raw := validRaw()
	raw["name"] = "  Amara Okafor  "
	raw["unknownField"] = "dropped"

	values, errs := sv.Validate(testSchema(), raw)
	assert.Empty(t, errs)
	assert.Equal(t, "Amara Okafor", values.String("name"))
	assert.Equal(t, []string{"Strategy"}, values.Strings("expertiseAreas"))
	assert.NotContains(t, values, "dayRate")
	assert.NotContains(t, values, "interests")
	assert.NotContains(t, values, "unknownField")
	assert.NotContains(t, values, "website")
}

func TestSchemaValidateRequiredRules(t *testing.T) {
	sv := NewSchemaValidator(nil)

	values, errs := sv.Validate(testSchema(), map[string]any{})
	assert.Empty(t, values)
	assert.Equal(t, []FieldError{
		{Field: "name", Message: "Full Name is required"},
		{Field: "email", Message: "Email Address is required"},
		{Field: "roleInterest", Message: "Role of Interest is required"},
		{Field: "whyAnduber", Message: "Please provide more detail"},
		{Field: "expertiseAreas", Message: "Please select at least one option"},
	}, errs)
}

func TestSchemaValidateFieldRules(t *testing.T) {
	sv := NewSchemaValidator(nil)

	cases := []struct {
		name    string
		field   string
		value   any
		message string
	}{
		{"short textarea", "whyAnduber", "too short", "Please provide more detail"},
		{"bad email", "email", "amara@", "Please enter a valid email address"},
		{"unknown select option", "roleInterest", "Astronaut", "Please select a valid option for Role of Interest"},
		{"unknown multiselect option", "expertiseAreas", []any{"Strategy", "Juggling"}, "Please select a valid option for Expertise Areas"},
		{"empty multiselect", "expertiseAreas", []any{}, "Please select at least one option"},
		{"multiselect wrong type", "expertiseAreas", "Strategy", "Expertise Areas must be a list of options"},
		{"text wrong type", "name", 42.0, "Full Name must be text"},
		{"short name", "name", "A", "Full Name must be at least 2 characters"},
		{"long name", "name", strings.Repeat("a", 101), "Full Name must be less than 100 characters"},
		{"long optional text", "dayRate", strings.Repeat("9", 501), "Day Rate must be less than 500 characters"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := validRaw()
			raw[tc.field] = tc.value

			_, errs := sv.Validate(testSchema(), raw)
			require.Len(t, errs, 1)
			assert.Equal(t, FieldError{Field: tc.field, Message: tc.message}, errs[0])
		})
	}
}

func TestSchemaValidateHoneypotNeverFails(t *testing.T) {
	sv := NewSchemaValidator(nil)

	raw := validRaw()
	raw["website"] = "http://spam.example"

	_, errs := sv.Validate(testSchema(), raw)
	assert.Empty(t, errs)
}

func TestSchemaWithKeepsFirstDeclaration(t *testing.T) {
	s := NewSchema(FieldDescriptor{Name: "message", Kind: KindTextarea, Required: true})
	s = s.With(
		FieldDescriptor{Name: "message", Kind: KindTextarea},
		FieldDescriptor{Name: "organization", Kind: KindText},
	).WithHoneypot("website")

	require.Len(t, s.Fields, 3)
	f, ok := s.Field("message")
	require.True(t, ok)
	assert.True(t, f.Required)
	assert.Equal(t, []string{"website"}, s.HoneypotFields())
}
