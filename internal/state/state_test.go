package state

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/lintshell/shsyntax/diag"
)

func TestFreshIDMonotonicAndContiguous(t *testing.T) {
	c := qt.New(t)
	s := New()
	pos := diag.Position{Filename: "f", Line: 1, Column: 1}
	id0 := s.FreshID(pos)
	id1 := s.FreshID(pos)
	id2 := s.FreshID(pos)
	c.Assert(int(id0), qt.Equals, 0)
	c.Assert(int(id1), qt.Equals, 1)
	c.Assert(int(id2), qt.Equals, 2)
	c.Assert(s.IdCount(), qt.Equals, 3)
}

func TestFreshIDInsertsMetadataImmediately(t *testing.T) {
	c := qt.New(t)
	s := New()
	pos := diag.Position{Filename: "f", Line: 2, Column: 5}
	id := s.FreshID(pos)
	md, ok := s.Metadata[id]
	c.Assert(ok, qt.IsTrue)
	c.Assert(md.Position, qt.Equals, pos)
	c.Assert(md.Notes, qt.HasLen, 0)
}

func TestAttachNotePrependsReverseInsertionOrder(t *testing.T) {
	c := qt.New(t)
	s := New()
	id := s.FreshID(diag.Position{Filename: "f", Line: 1, Column: 1})
	s.AttachNote(id, diag.Style, "first")
	s.AttachNote(id, diag.Error, "second")
	notes := s.Metadata[id].Notes
	c.Assert(notes, qt.HasLen, 2)
	c.Assert(notes[0].Message, qt.Equals, "second")
	c.Assert(notes[1].Message, qt.Equals, "first")
}

func TestAttachNotePanicsOnUnknownID(t *testing.T) {
	c := qt.New(t)
	s := New()
	c.Assert(func() { s.AttachNote(99, diag.Error, "boom") }, qt.PanicMatches, "state: AttachNote on unknown id")
}

func TestNoteAtAppendsToNotesList(t *testing.T) {
	c := qt.New(t)
	s := New()
	pos := diag.Position{Filename: "f", Line: 3, Column: 1}
	s.NoteAt(pos, diag.Warning, "watch out")
	c.Assert(s.Notes, qt.HasLen, 1)
	c.Assert(s.Notes[0], qt.Equals, diag.ParseNote{Position: pos, Severity: diag.Warning, Message: "watch out"})
}
