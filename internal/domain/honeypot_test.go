package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHoneypotFilled(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{"absent", nil, false},
		{"empty string", "", false},
		{"whitespace", "   ", false},
		{"false", false, false},
		{"zero", float64(0), false},
		{"text", "http://bot.example", true},
		{"true", true, true},
		{"number", float64(1), true},
		{"object", map[string]any{"a": 1}, true},
		{"list", []any{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contact := &ContactRequest{Website: tt.value}
			assert.Equal(t, tt.want, contact.HoneypotFilled())

			join := JoinRequest{JoinHoneypotField: tt.value}
			assert.Equal(t, tt.want, join.HoneypotFilled())
		})
	}
}
