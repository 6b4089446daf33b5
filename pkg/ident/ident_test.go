package ident

import (
	"testing"

	"github.com/matzehuels/syntree/pkg/errors"
)

func TestNextUnique(t *testing.T) {
	a := New()
	seen := make(map[ID]bool, 10000)
	for i := 0; i < 10000; i++ {
		id := a.Next()
		if !id.Valid() {
			t.Fatalf("Next() returned zero id at call %d", i)
		}
		if seen[id] {
			t.Fatalf("Next() returned duplicate id %d at call %d", id, i)
		}
		seen[id] = true
	}
}

func TestResetIsDeterministic(t *testing.T) {
	a := New()
	first := []ID{a.Next(), a.Next(), a.Next()}
	a.Reset()
	second := []ID{a.Next(), a.Next(), a.Next()}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("after Reset id[%d] = %d, want %d", i, second[i], first[i])
		}
	}
	if first[0] != 1 {
		t.Errorf("first id = %d, want 1", first[0])
	}
}

func TestZeroValueAllocator(t *testing.T) {
	var a Allocator
	if got := a.Next(); got != 1 {
		t.Errorf("zero-value Next() = %d, want 1", got)
	}
}

func TestInit(t *testing.T) {
	a := New()
	a.Init(100)
	if got := a.Next(); got != 100 {
		t.Errorf("Next() after Init(100) = %d, want 100", got)
	}
	a.Init(0)
	if got := a.Next(); got != 1 {
		t.Errorf("Next() after Init(0) = %d, want 1", got)
	}
}

func TestReserveSkipsReserved(t *testing.T) {
	a := New()
	if err := a.Reserve(2); err != nil {
		t.Fatalf("Reserve(2) error: %v", err)
	}
	if err := a.Reserve(3); err != nil {
		t.Fatalf("Reserve(3) error: %v", err)
	}
	if got := a.Peek(); got != 1 {
		t.Errorf("Peek() = %d, want 1", got)
	}
	got := []ID{a.Next(), a.Next()}
	if got[0] != 1 || got[1] != 4 {
		t.Errorf("Next() sequence = %v, want [1 4]", got)
	}
}

func TestReserveConflicts(t *testing.T) {
	a := New()
	id := a.Next()

	if err := a.Reserve(id); !errors.Is(err, errors.ErrCodeDuplicateID) {
		t.Errorf("Reserve(issued) error = %v, want DUPLICATE_ID", err)
	}
	if err := a.Reserve(10); err != nil {
		t.Fatalf("Reserve(10) error: %v", err)
	}
	if err := a.Reserve(10); !errors.Is(err, errors.ErrCodeDuplicateID) {
		t.Errorf("Reserve(10) twice error = %v, want DUPLICATE_ID", err)
	}
	if err := a.Reserve(None); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Reserve(None) error = %v, want INVALID_INPUT", err)
	}
}

func TestParse(t *testing.T) {
	id, err := Parse("42")
	if err != nil || id != 42 {
		t.Errorf("Parse(42) = %d, %v", id, err)
	}
	if id.String() != "42" {
		t.Errorf("String() = %q, want 42", id.String())
	}
	for _, bad := range []string{"", "0", "-1", "x"} {
		if _, err := Parse(bad); err == nil {
			t.Errorf("Parse(%q) should fail", bad)
		}
	}
}
