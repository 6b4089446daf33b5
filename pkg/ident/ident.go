// Package ident allocates session-unique integer identifiers for tree entities.
//
// An [Allocator] is an explicit object owned by a tree or workspace rather than
// a process-wide registry, so tests can create isolated allocators or [Allocator.Reset]
// a shared one. Identifiers are never reused within an allocator's lifetime
// unless it is reset.
//
//	ids := ident.New()
//	a := ids.Next() // 1
//	b := ids.Next() // 2
//
// Documents loaded from disk carry their own identifiers; [Allocator.Reserve]
// records them so later calls to Next never collide with a loaded node.
package ident

import (
	"strconv"

	"github.com/matzehuels/syntree/pkg/errors"
)

// ID identifies a tree entity. The zero value means "no entity".
type ID uint64

// None is the zero ID, used for absent references such as a root's parent.
const None ID = 0

// String returns the decimal form of the ID.
func (id ID) String() string { return strconv.FormatUint(uint64(id), 10) }

// Valid reports whether id refers to an entity.
func (id ID) Valid() bool { return id != None }

// Parse converts a decimal string into an ID.
func Parse(s string) (ID, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil || v == 0 {
		return None, errors.New(errors.ErrCodeInvalidInput, "invalid id %q", s)
	}
	return ID(v), nil
}

// Allocator hands out monotonically increasing IDs.
// It is not safe for concurrent use; a tree and its allocator are mutated by
// one action at a time.
type Allocator struct {
	next     ID
	reserved map[ID]struct{}
}

// New creates an allocator whose first ID is 1.
func New() *Allocator {
	a := &Allocator{}
	a.Reset()
	return a
}

// Reset forgets every issued and reserved ID; the next call to Next returns 1.
func (a *Allocator) Reset() {
	a.Init(1)
}

// Init resets the allocator so that the next call to Next returns start
// (or the first unreserved ID after it). A start of zero is treated as 1.
func (a *Allocator) Init(start ID) {
	if start == None {
		start = 1
	}
	a.next = start
	a.reserved = make(map[ID]struct{})
}

// Next returns a fresh ID.
func (a *Allocator) Next() ID {
	if a.reserved == nil {
		a.Reset()
	}
	for {
		id := a.next
		a.next++
		if _, taken := a.reserved[id]; taken {
			delete(a.reserved, id)
			continue
		}
		return id
	}
}

// Reserve marks id as used. Reserving an ID that Next already issued, or that
// is already reserved, fails with DUPLICATE_ID.
func (a *Allocator) Reserve(id ID) error {
	if !id.Valid() {
		return errors.New(errors.ErrCodeInvalidInput, "cannot reserve the zero id")
	}
	if a.reserved == nil {
		a.Reset()
	}
	if id < a.next {
		return errors.New(errors.ErrCodeDuplicateID, "id %d already issued", id)
	}
	if _, taken := a.reserved[id]; taken {
		return errors.New(errors.ErrCodeDuplicateID, "id %d already reserved", id)
	}
	a.reserved[id] = struct{}{}
	return nil
}

// Peek returns the ID the next call to Next would return without consuming it.
func (a *Allocator) Peek() ID {
	if a.reserved == nil {
		return 1
	}
	id := a.next
	for {
		if _, taken := a.reserved[id]; !taken {
			return id
		}
		id++
	}
}
