package domain

import (
	"context"
	"strings"
)

// ContactRequest represents a contact form submission. Website, URL and
// PhoneNumber are honeypots hidden from human visitors.
type ContactRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100,person_name"`
	Email       string `json:"email" validate:"required,email,max=254"`
	Subject     string `json:"subject" validate:"required,min=5,max=200"`
	Message     string `json:"message" validate:"required,min=20,max=5000"`
	InquiryType string `json:"inquiryType" validate:"required,oneof=partners labs foundation general media"`

	// Honeypots take any JSON type so a bot never sees a decode error.
	Website     any `json:"website,omitempty" swaggertype:"string"`
	URL         any `json:"url,omitempty" swaggertype:"string"`
	PhoneNumber any `json:"phone_number,omitempty" swaggertype:"string"`

	// MistypedFields names fields whose JSON type did not match. The decoder
	// leaves them empty.
	MistypedFields []string `json:"-"`
}

// Normalize trims surrounding whitespace from every field.
func (r *ContactRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Subject = strings.TrimSpace(r.Subject)
	r.Message = strings.TrimSpace(r.Message)
	r.InquiryType = strings.TrimSpace(r.InquiryType)
}

// HoneypotFilled reports whether any hidden field carries a value.
func (r *ContactRequest) HoneypotFilled() bool {
	return honeypotSet(r.Website) || honeypotSet(r.URL) || honeypotSet(r.PhoneNumber)
}

// honeypotSet reports whether a decoded JSON value counts as filled in.
// Empty strings, false, zero and null do not.
func honeypotSet(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(v) != ""
	case bool:
		return v
	case float64:
		return v != 0
	case int:
		return v != 0
	default:
		return true
	}
}

var inquiryLabels = map[string]string{
	"partners":   "AnduBer Partners - Strategic Consulting",
	"labs":       "AnduBer Labs - Research Collaboration",
	"foundation": "The Gathering - Venture Capital",
	"general":    "General Inquiry",
	"media":      "Media / Press",
}

// InquiryLabel returns the display name of an inquiry type token.
func InquiryLabel(inquiryType string) string {
	if label, ok := inquiryLabels[inquiryType]; ok {
		return label
	}
	return inquiryType
}

// ContactUsecase defines the interface for contact form operations
type ContactUsecase interface {
	// Submit runs bot filtering, validation and dispatch for one submission
	Submit(ctx context.Context, req *ContactRequest, meta SubmissionMeta) Outcome
}
