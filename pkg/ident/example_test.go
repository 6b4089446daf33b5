package ident_test

import (
	"fmt"

	"github.com/matzehuels/syntree/pkg/errors"
	"github.com/matzehuels/syntree/pkg/ident"
)

func ExampleAllocator() {
	a := ident.New()
	fmt.Println(a.Next(), a.Next())

	// IDs pinned by a loaded document are skipped.
	_ = a.Reserve(4)
	fmt.Println(a.Next(), a.Next())
	fmt.Println("Peek:", a.Peek())
	// Output:
	// 1 2
	// 3 5
	// Peek: 6
}

func ExampleAllocator_Reserve() {
	a := ident.New()
	a.Next()

	err := a.Reserve(1)
	fmt.Println(errors.GetCode(err))
	// Output:
	// DUPLICATE_ID
}
