package config

import (
	"testing"

	"github.com/matzehuels/syntree/pkg/errors"
)

type point struct {
	X     float64 `config:"x"`
	Y     float64 `config:"y"`
	Label string  `config:"label"`
	ID    uint64  `config:"id"`
}

var pointSchema = Schema{Fields: []Field{
	Required("x", Number()),
	Default("y", 0.0, Number()),
	Default("label", "", String()),
	Optional("id", Number()),
}}

func TestDecode(t *testing.T) {
	p, err := Decode[point](pointSchema, map[string]any{"x": 5, "label": "NP", "id": 7})
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if p.X != 5 {
		t.Errorf("X = %v, want 5", p.X)
	}
	if p.Y != 0 {
		t.Errorf("Y = %v, want 0", p.Y)
	}
	if p.Label != "NP" {
		t.Errorf("Label = %q, want NP", p.Label)
	}
	if p.ID != 7 {
		t.Errorf("ID = %d, want 7", p.ID)
	}
}

func TestDecodeFailureReturnsZero(t *testing.T) {
	p, err := Decode[point](pointSchema, map[string]any{"x": "5", "label": "NP"})
	if !errors.Is(err, errors.ErrCodeTypeMismatch) {
		t.Fatalf("Decode() error = %v, want TYPE_MISMATCH", err)
	}
	if p != (point{}) {
		t.Errorf("Decode() = %+v, want zero value", p)
	}
}

func TestDecodeMissingRequired(t *testing.T) {
	_, err := Decode[point](pointSchema, map[string]any{})
	if !errors.Is(err, errors.ErrCodeMissingRequired) {
		t.Errorf("Decode() error = %v, want MISSING_REQUIRED_PROPERTY", err)
	}
}

func TestDecodeUnmappedIgnored(t *testing.T) {
	s := pointSchema
	s.AcceptUnmapped = true
	p, err := Decode[point](s, map[string]any{"x": 1.5, "colour": "red"})
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if p.X != 1.5 {
		t.Errorf("X = %v, want 1.5", p.X)
	}
}
