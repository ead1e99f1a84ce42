package syntax

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/lintshell/shsyntax/ast"
	"github.com/lintshell/shsyntax/diag"
)

func TestDollarVariableName(t *testing.T) {
	c := qt.New(t)
	p := newParser("t.sh", []byte("$foo"), 0)
	tok, ok := p.dollarForm()
	c.Assert(ok, qt.IsTrue)
	db := tok.(*ast.DollarBraced)
	c.Assert(db.Content, qt.Equals, "foo")
}

func TestDollarPositionalSingleDigit(t *testing.T) {
	c := qt.New(t)
	p := newParser("t.sh", []byte("$1 "), 0)
	tok, ok := p.dollarForm()
	c.Assert(ok, qt.IsTrue)
	db := tok.(*ast.DollarBraced)
	c.Assert(db.Content, qt.Equals, "1")
	c.Assert(p.st.Metadata[db.TokenID()].Notes, qt.HasLen, 0)
}

func TestDollarDigitFollowedByDigitIsError(t *testing.T) {
	c := qt.New(t)
	p := newParser("t.sh", []byte("$12"), 0)
	tok, ok := p.dollarForm()
	c.Assert(ok, qt.IsTrue)
	db := tok.(*ast.DollarBraced)
	c.Assert(db.Content, qt.Equals, "1")
	notes := p.st.Metadata[db.TokenID()].Notes
	c.Assert(notes, qt.HasLen, 1)
	c.Assert(notes[0].Severity, qt.Equals, diag.Error)
	c.Assert(notes[0].Message, qt.Equals, "$N... is equivalent to ${N}...")
}

func TestDollarSpecialVariable(t *testing.T) {
	c := qt.New(t)
	p := newParser("t.sh", []byte("$@"), 0)
	tok, ok := p.dollarForm()
	c.Assert(ok, qt.IsTrue)
	db := tok.(*ast.DollarBraced)
	c.Assert(db.Content, qt.Equals, "@")
}

func TestDollarBracedConservativeContent(t *testing.T) {
	c := qt.New(t)
	p := newParser("t.sh", []byte("${foo:-bar}"), 0)
	tok, ok := p.dollarForm()
	c.Assert(ok, qt.IsTrue)
	db := tok.(*ast.DollarBraced)
	c.Assert(db.Content, qt.Equals, "foo:-bar")
}

func TestDollarBracedNestedBraceDepth(t *testing.T) {
	c := qt.New(t)
	p := newParser("t.sh", []byte("${foo:-${bar}}"), 0)
	tok, ok := p.dollarForm()
	c.Assert(ok, qt.IsTrue)
	db := tok.(*ast.DollarBraced)
	c.Assert(db.Content, qt.Equals, "foo:-${bar}")
}

func TestDollarExpansionCommandSubstitution(t *testing.T) {
	c := qt.New(t)
	p := newParser("t.sh", []byte("$(echo hi)"), 0)
	tok, ok := p.dollarForm()
	c.Assert(ok, qt.IsTrue)
	de := tok.(*ast.DollarExpansion)
	c.Assert(de.Body, qt.HasLen, 1)
}

func TestDollarArithmeticExpansion(t *testing.T) {
	c := qt.New(t)
	p := newParser("t.sh", []byte("$((1+1))"), 0)
	tok, ok := p.dollarForm()
	c.Assert(ok, qt.IsTrue)
	_, ok = tok.(*ast.DollarArithmetic)
	c.Assert(ok, qt.IsTrue)
}

func TestDollarLonelyStyleNoteAndNonConsumingLookahead(t *testing.T) {
	c := qt.New(t)
	p := newParser("t.sh", []byte("$ foo"), 0)
	before := p.c.Offset()
	tok, ok := p.dollarForm()
	c.Assert(ok, qt.IsTrue)
	lit := tok.(*ast.Literal)
	c.Assert(lit.Value, qt.Equals, "$")
	notes := p.st.Metadata[lit.TokenID()].Notes
	c.Assert(notes, qt.HasLen, 1)
	c.Assert(notes[0].Severity, qt.Equals, diag.Style)
	// Only the "$" itself was consumed; the lookahead byte stays for the
	// next parse step.
	c.Assert(p.c.Offset(), qt.Equals, before+1)
}

func TestDollarLonelyBeforeSingleQuoteHasNoNote(t *testing.T) {
	c := qt.New(t)
	p := newParser("t.sh", []byte("$'"), 0)
	tok, ok := p.dollarForm()
	c.Assert(ok, qt.IsTrue)
	lit := tok.(*ast.Literal)
	c.Assert(p.st.Metadata[lit.TokenID()].Notes, qt.HasLen, 0)
}
