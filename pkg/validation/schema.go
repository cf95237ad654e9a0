package validation

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// FieldKind tags how a submitted field is interpreted.
type FieldKind string

const (
	KindText        FieldKind = "text"
	KindEmail       FieldKind = "email"
	KindTextarea    FieldKind = "textarea"
	KindSelect      FieldKind = "select"
	KindMultiselect FieldKind = "multiselect"
	// KindHoneypot fields are accepted as-is; the bot filter inspects them.
	KindHoneypot    FieldKind = "honeypot"
)

const (
	defaultTextMax      = 500
	defaultEmailMax     = 254
	defaultTextareaMax  = 5000
	requiredTextareaMin = 10
)

// FieldDescriptor declares one field of a dynamic form.
type FieldDescriptor struct {
	Name      string
	Label     string
	Kind      FieldKind
	Required  bool
	MinLength int
	MaxLength int
	Options   []string
}

func (f FieldDescriptor) label() string {
	if f.Label != "" {
		return f.Label
	}
	return getFieldLabel(f.Name)
}

func (f FieldDescriptor) maxLength() int {
	if f.MaxLength > 0 {
		return f.MaxLength
	}
	switch f.Kind {
	case KindEmail:
		return defaultEmailMax
	case KindTextarea:
		return defaultTextareaMax
	default:
		return defaultTextMax
	}
}

// Schema is an ordered list of field descriptors.
type Schema struct {
	Fields []FieldDescriptor
}

func NewSchema(fields ...FieldDescriptor) Schema {
	return Schema{Fields: slices.Clone(fields)}
}

// With returns a copy extended by the fields whose names are not declared yet.
func (s Schema) With(fields ...FieldDescriptor) Schema {
	out := Schema{Fields: slices.Clone(s.Fields)}
	for _, f := range fields {
		if _, ok := out.Field(f.Name); !ok {
			out.Fields = append(out.Fields, f)
		}
	}
	return out
}

// WithHoneypot appends a hidden field that humans never fill in.
func (s Schema) WithHoneypot(name string) Schema {
	return s.With(FieldDescriptor{Name: name, Kind: KindHoneypot})
}

func (s Schema) Field(name string) (FieldDescriptor, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDescriptor{}, false
}

// HoneypotFields lists the names of the honeypot descriptors.
func (s Schema) HoneypotFields() []string {
	var names []string
	for _, f := range s.Fields {
		if f.Kind == KindHoneypot {
			names = append(names, f.Name)
		}
	}
	return names
}

// Values holds validated, trimmed values: string for scalar kinds and
// []string for multiselect. Absent optional fields are not present.
type Values map[string]any

func (v Values) String(name string) string {
	s, _ := v[name].(string)
	return s
}

func (v Values) Strings(name string) []string {
	s, _ := v[name].([]string)
	return s
}

// SchemaValidator interprets a Schema against a decoded JSON object.
type SchemaValidator struct {
	validate *validator.Validate
}

func NewSchemaValidator(v *validator.Validate) *SchemaValidator {
	if v == nil {
		v = New()
	}
	return &SchemaValidator{validate: v}
}

// Validate checks raw against s and returns the clean values, or one
// FieldError per offending field in schema order. Fields not declared in s
// are dropped.
func (sv *SchemaValidator) Validate(s Schema, raw map[string]any) (Values, []FieldError) {
	values := make(Values, len(s.Fields))
	var errs []FieldError

	for _, f := range s.Fields {
		if f.Kind == KindHoneypot {
			continue
		}

		var (
			val any
			msg string
		)
		if f.Kind == KindMultiselect {
			val, msg = sv.checkMulti(f, raw[f.Name])
		} else {
			val, msg = sv.checkScalar(f, raw[f.Name])
		}

		if msg != "" {
			errs = append(errs, FieldError{Field: f.Name, Message: msg})
			continue
		}
		if val != nil {
			values[f.Name] = val
		}
	}

	return values, errs
}

func (sv *SchemaValidator) checkScalar(f FieldDescriptor, raw any) (any, string) {
	var s string
	switch v := raw.(type) {
	case nil:
	case string:
		s = strings.TrimSpace(v)
	default:
		return nil, fmt.Sprintf("%s must be text", f.label())
	}

	if s == "" {
		if !f.Required {
			return nil, ""
		}
		if f.Kind == KindTextarea && f.MinLength == 0 {
			return nil, "Please provide more detail"
		}
		return nil, fmt.Sprintf("%s is required", f.label())
	}

	length := utf8.RuneCountInString(s)
	if minLen := f.MinLength; minLen > 0 && length < minLen {
		return nil, fmt.Sprintf("%s must be at least %d characters", f.label(), minLen)
	}
	if f.Kind == KindTextarea && f.Required && f.MinLength == 0 && length < requiredTextareaMin {
		return nil, "Please provide more detail"
	}
	if maxLen := f.maxLength(); length > maxLen {
		return nil, fmt.Sprintf("%s must be less than %d characters", f.label(), maxLen)
	}

	switch f.Kind {
	case KindEmail:
		if err := sv.validate.Var(s, "email"); err != nil {
			return nil, "Please enter a valid email address"
		}
	case KindSelect:
		if len(f.Options) > 0 && !slices.Contains(f.Options, s) {
			return nil, fmt.Sprintf("Please select a valid option for %s", f.label())
		}
	}

	return s, ""
}

func (sv *SchemaValidator) checkMulti(f FieldDescriptor, raw any) (any, string) {
	var selected []string
	switch v := raw.(type) {
	case nil:
	case []any:
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Sprintf("%s must be a list of options", f.label())
			}
			if s = strings.TrimSpace(s); s != "" {
				selected = append(selected, s)
			}
		}
	case []string:
		for _, s := range v {
			if s = strings.TrimSpace(s); s != "" {
				selected = append(selected, s)
			}
		}
	default:
		return nil, fmt.Sprintf("%s must be a list of options", f.label())
	}

	if len(selected) == 0 {
		if f.Required {
			return nil, "Please select at least one option"
		}
		return nil, ""
	}

	if len(f.Options) > 0 {
		for _, s := range selected {
			if !slices.Contains(f.Options, s) {
				return nil, fmt.Sprintf("Please select a valid option for %s", f.label())
			}
		}
	}
	return selected, ""
}
