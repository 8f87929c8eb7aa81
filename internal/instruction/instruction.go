// Package instruction defines the canonical Instruction record (component C)
// and its kind taxonomy, per spec.md §3/§4.C.
package instruction

import (
	"github.com/aledsdavies/beanscript/internal/keycatalogue"
	"github.com/aledsdavies/beanscript/internal/params"
)

// Kind is one of the twelve instruction kinds in the language.
type Kind string

const (
	Key      Kind = "key"
	Press    Kind = "press"
	Hold     Kind = "hold"
	Release  Kind = "release"
	Start    Kind = "start"
	Stop     Kind = "stop"
	Script   Kind = "script"
	Window   Kind = "window"
	Waitlist Kind = "waitlist"
	Routine  Kind = "routine"
	Random   Kind = "random"
	Group    Kind = "group"
)

// ValidKinds lists every recognized kind, used for "unknown kind" fuzzy
// suggestions.
var ValidKinds = []Kind{Key, Press, Hold, Release, Start, Stop, Script, Window, Waitlist, Routine, Random, Group}

// IsDefinition reports whether k creates a named, reusable entity that must
// appear at indent 0 unless nested inside a group (spec.md §3).
func (k Kind) IsDefinition() bool {
	switch k {
	case Key, Script, Window, Waitlist, Routine, Random, Group:
		return true
	default:
		return false
	}
}

// IsInPlaceDefinable reports whether k may appear either as a bare
// reference to an existing id or as an anonymous leaf defined in place.
func (k Kind) IsInPlaceDefinable() bool {
	switch k {
	case Press, Hold, Release:
		return true
	default:
		return false
	}
}

// IsTransaction reports whether k, at indent 0, enqueues a runtime action
// in the execution list.
func (k Kind) IsTransaction() bool {
	switch k {
	case Press, Hold, Release, Start, Stop:
		return true
	default:
		return false
	}
}

// IsScheduler reports whether k owns a dispatch policy over its children.
func (k Kind) IsScheduler() bool {
	switch k {
	case Routine, Waitlist, Random:
		return true
	default:
		return false
	}
}

// IsLeaf reports whether k is a directly-executable keystroke action.
func (k Kind) IsLeaf() bool {
	switch k {
	case Press, Hold, Release:
		return true
	default:
		return false
	}
}

// CanBeChildOf reports whether child is a legal member of a
// group/routine/waitlist/random per spec.md §3: any kind except
// script/window.
func CanBeChildOf(child Kind) bool {
	return child != Script && child != Window
}

// Instruction is the canonical unit of the program: type, identifier,
// parameters, optional button, sub-instruction ids, source line, and
// indent depth.
//
// After registration in the instruction table, only Children may grow
// (append-only); ID, Kind, Button, and Parameters are frozen.
type Instruction struct {
	ID         string                `cbor:"id"`
	Kind       Kind                  `cbor:"kind"`
	Button     *keycatalogue.ScanCode `cbor:"button,omitempty"`
	Indent     int                   `cbor:"indent"`
	Parameters params.Set            `cbor:"parameters"`
	Children   []string              `cbor:"children"`
	Line       int                   `cbor:"line"`
}

// New constructs an Instruction with the spec-mandated default parameters.
// Callers mutate the returned value (via the parse-tree builder) before it
// is registered in the instruction table; after registration, use
// AppendChild rather than touching Children directly.
func New(id string, kind Kind, line, indent int) *Instruction {
	return &Instruction{
		ID:         id,
		Kind:       kind,
		Indent:     indent,
		Parameters: params.Defaults(),
		Line:       line,
	}
}

// AppendChild records a sub-instruction id. This is the only mutation
// permitted after registration (used by the nesting resolver and by
// schedulers that accept runtime insertions).
func (i *Instruction) AppendChild(id string) {
	i.Children = append(i.Children, id)
}

// WithButton binds a key catalogue entry to this instruction.
func (i *Instruction) WithButton(code keycatalogue.ScanCode) {
	i.Button = &code
}
