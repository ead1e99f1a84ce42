// Package state holds the mutable parser-state triple threaded through
// every grammar rule: the next-identifier counter, the identifier to
// metadata map, and the position-anchored diagnostic list. It is
// exclusively owned by one parse; see spec.md §5 for the concurrency
// model (no sharing, no pooling across parses).
package state

import (
	"github.com/lintshell/shsyntax/ast"
	"github.com/lintshell/shsyntax/diag"
)

// State is the mutable record passed by pointer through every parsing
// rule. Ordered-choice backtracking rewinds the cursor but must never
// roll this back: identifiers and notes allocated on a discarded path
// stay allocated, so diagnostics produced while speculatively trying an
// alternative remain visible once the containing rule succeeds.
type State struct {
	nextID   ast.Id
	Metadata ast.Map
	Notes    []diag.ParseNote
}

func New() *State {
	return &State{Metadata: ast.Map{}}
}

// FreshID allocates the next identifier and inserts its metadata entry
// before the caller attempts to build the node's body, so that
// mid-construction diagnostics always have somewhere to attach.
func (s *State) FreshID(pos diag.Position) ast.Id {
	id := s.nextID
	s.nextID++
	s.Metadata[id] = &ast.Metadata{Position: pos}
	return id
}

// NoteAt appends a position-anchored diagnostic that concerns the
// surrounding source rather than one specific node.
func (s *State) NoteAt(pos diag.Position, sev diag.Severity, msg string) {
	s.Notes = append(s.Notes, diag.ParseNote{Position: pos, Severity: sev, Message: msg})
}

// AttachNote prepends a note onto the metadata entry for id, keeping
// the "reverse insertion order" shape spec.md's data model calls for.
func (s *State) AttachNote(id ast.Id, sev diag.Severity, msg string) {
	md, ok := s.Metadata[id]
	if !ok {
		// A note targeting an id that was never allocated is a bug in
		// the grammar, not a recoverable input condition.
		panic("state: AttachNote on unknown id")
	}
	md.Notes = append([]diag.Note{{Severity: sev, Message: msg}}, md.Notes...)
}

// IdCount reports how many identifiers have been allocated, i.e. the
// exclusive upper bound of the contiguous [0, N) range.
func (s *State) IdCount() int { return int(s.nextID) }
