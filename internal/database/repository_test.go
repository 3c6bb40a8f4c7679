package database

import (
	"errors"
	"testing"

	"github.com/kozaktomas/card-generator/internal/cards"
)

func TestValidateOrder(t *testing.T) {
	current := []string{"a", "b", "c"}
	tests := []struct {
		name  string
		ids   []string
		valid bool
	}{
		{name: "same order", ids: []string{"a", "b", "c"}, valid: true},
		{name: "reversed", ids: []string{"c", "b", "a"}, valid: true},
		{name: "missing", ids: []string{"a", "b"}},
		{name: "unknown", ids: []string{"a", "b", "x"}},
		{name: "repeated", ids: []string{"a", "a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOrder(current, tt.ids)
			if tt.valid && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalidOrder) {
				t.Errorf("expected ErrInvalidOrder, got %v", err)
			}
		})
	}
}

func TestNotFound(t *testing.T) {
	if err := NotFound("x"); !errors.Is(err, cards.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
