package syntax

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/lintshell/shsyntax/ast"
	"github.com/lintshell/shsyntax/diag"
)

func TestBackgroundThenSemicolonIsCommonMistake(t *testing.T) {
	c := qt.New(t)
	res := ParseShellBytes("t.sh", []byte("a &; b"), 0)
	c.Assert(res.Tree, qt.Not(qt.IsNil))
	c.Assert(res.Notes, qt.HasLen, 1)
	c.Assert(res.Notes[0].Severity, qt.Equals, diag.Error)
	c.Assert(res.Notes[0].Message, qt.Equals, "It's not 'foo &; bar', just 'foo & bar'.")

	c.Assert(res.Tree.Body, qt.HasLen, 2)
	bg, ok := res.Tree.Body[0].(*ast.Backgrounded)
	c.Assert(ok, qt.IsTrue)
	_, ok = bg.Cmd.(*ast.Pipeline)
	c.Assert(ok, qt.IsTrue)
	_, ok = res.Tree.Body[1].(*ast.Pipeline)
	c.Assert(ok, qt.IsTrue)
}

func TestIfThenDirectSemicolonIsError(t *testing.T) {
	c := qt.New(t)
	res := ParseShellBytes("t.sh", []byte("if false; then; echo oo; fi"), 0)
	c.Assert(res.Tree, qt.Not(qt.IsNil))
	c.Assert(res.Notes, qt.HasLen, 1)
	c.Assert(res.Notes[0].Severity, qt.Equals, diag.Error)
	c.Assert(res.Notes[0].Message, qt.Equals, "No semicolons directly after `then`.")

	c.Assert(res.Tree.Body, qt.HasLen, 1)
	pipe := res.Tree.Body[0].(*ast.Pipeline)
	ifExpr, ok := pipe.List[0].(*ast.Redirecting).Cmd.(*ast.IfExpression)
	c.Assert(ok, qt.IsTrue)
	c.Assert(ifExpr.HasElse, qt.IsFalse)
	c.Assert(ifExpr.Branches, qt.HasLen, 1)
	c.Assert(ifExpr.Branches[0].Cond, qt.HasLen, 1)
	c.Assert(ifExpr.Branches[0].Body, qt.HasLen, 1)
}

func TestIfElseDirectSemicolonIsError(t *testing.T) {
	c := qt.New(t)
	res := ParseShellBytes("t.sh", []byte("if false; then echo a; else; echo b; fi"), 0)
	c.Assert(res.Tree, qt.Not(qt.IsNil))
	c.Assert(res.Notes, qt.HasLen, 1)
	c.Assert(res.Notes[0].Severity, qt.Equals, diag.Error)
	c.Assert(res.Notes[0].Message, qt.Equals, "No semicolons directly after `else`.")

	pipe := res.Tree.Body[0].(*ast.Pipeline)
	ifExpr := pipe.List[0].(*ast.Redirecting).Cmd.(*ast.IfExpression)
	c.Assert(ifExpr.HasElse, qt.IsTrue)
	c.Assert(ifExpr.Else, qt.HasLen, 1)
}

func TestPipelineAlwaysWrapsEvenASingleCommand(t *testing.T) {
	c := qt.New(t)
	p := newParser("t.sh", []byte("echo hi"), 0)
	tok, ok := p.pipeline()
	c.Assert(ok, qt.IsTrue)
	_, ok = tok.(*ast.Pipeline)
	c.Assert(ok, qt.IsTrue)
}

func TestPipelineMultipleStages(t *testing.T) {
	c := qt.New(t)
	p := newParser("t.sh", []byte("a | b | c"), 0)
	tok, ok := p.pipeline()
	c.Assert(ok, qt.IsTrue)
	pipe := tok.(*ast.Pipeline)
	c.Assert(pipe.List, qt.HasLen, 3)
}

func TestBangedPipeline(t *testing.T) {
	c := qt.New(t)
	p := newParser("t.sh", []byte("! a | b"), 0)
	tok, ok := p.pipeline()
	c.Assert(ok, qt.IsTrue)
	banged, ok := tok.(*ast.Banged)
	c.Assert(ok, qt.IsTrue)
	pipe := banged.Pipeline.(*ast.Pipeline)
	c.Assert(pipe.List, qt.HasLen, 2)
}

func TestAndOrLeftAssociative(t *testing.T) {
	c := qt.New(t)
	p := newParser("t.sh", []byte("a && b || c"), 0)
	tok, ok := p.andOr()
	c.Assert(ok, qt.IsTrue)
	or, ok := tok.(*ast.OrIf)
	c.Assert(ok, qt.IsTrue)
	_, ok = or.L.(*ast.AndIf)
	c.Assert(ok, qt.IsTrue)
}

func TestWhileLoop(t *testing.T) {
	c := qt.New(t)
	p := newParser("t.sh", []byte("while true; do echo hi; done"), 0)
	tok, ok := p.loopLike("while")
	c.Assert(ok, qt.IsTrue)
	w := tok.(*ast.WhileExpression)
	c.Assert(w.Cond, qt.HasLen, 1)
	c.Assert(w.Body, qt.HasLen, 1)
	c.Assert(p.st.Metadata[w.TokenID()].Notes, qt.HasLen, 0)
}

func TestForInLoop(t *testing.T) {
	c := qt.New(t)
	p := newParser("t.sh", []byte("for x in a b c; do echo $x; done"), 0)
	tok, ok := p.forIn()
	c.Assert(ok, qt.IsTrue)
	f := tok.(*ast.ForIn)
	c.Assert(f.Name, qt.Equals, "x")
	c.Assert(f.Words, qt.HasLen, 3)
	c.Assert(f.Body, qt.HasLen, 1)
}

func TestCStyleForGatedOnBashMode(t *testing.T) {
	c := qt.New(t)
	p := newParser("t.sh", []byte("for ((i=0; i<3; i++)); do echo $i; done"), 0)
	tok, ok := p.cStyleFor()
	c.Assert(ok, qt.IsTrue)
	cf := tok.(*ast.CStyleFor)
	c.Assert(cf.Init, qt.Not(qt.IsNil))
	c.Assert(cf.Cond, qt.Not(qt.IsNil))
	c.Assert(cf.Post, qt.Not(qt.IsNil))

	pp := newParser("t.sh", []byte("for ((i=0; i<3; i++)); do echo $i; done"), PosixConformant)
	_, ok = pp.cStyleFor()
	c.Assert(ok, qt.IsFalse)
}

func TestCaseExpressionTerminators(t *testing.T) {
	c := qt.New(t)
	// The third arm's terminator is glued directly to "esac" with no
	// separating space, and the second uses ";&" — both regressed a
	// bug where the leading ";" of a multi-char terminator was eaten
	// as an ordinary statement separator before caseArm could see it.
	p := newParser("t.sh", []byte("case $x in a) echo a;; b) echo b;& *) echo z;;esac"), 0)
	tok, ok := p.caseExpr()
	c.Assert(ok, qt.IsTrue)
	ce := tok.(*ast.CaseExpression)
	c.Assert(ce.Arms, qt.HasLen, 3)
	c.Assert(ce.Arms[0].Terminator, qt.Equals, ";;")
	c.Assert(ce.Arms[1].Terminator, qt.Equals, ";&")
	c.Assert(ce.Arms[2].Terminator, qt.Equals, ";;")
	c.Assert(allNotes(p), qt.HasLen, 0)
}

func TestFunctionDefPortableForm(t *testing.T) {
	c := qt.New(t)
	p := newParser("t.sh", []byte("greet() { echo hi; }"), 0)
	tok, ok := p.functionDef()
	c.Assert(ok, qt.IsTrue)
	fn := tok.(*ast.Function)
	c.Assert(fn.Name, qt.Equals, "greet")
	c.Assert(p.st.Metadata[fn.TokenID()].Notes, qt.HasLen, 0)
}

func TestFunctionDefKeywordFormIsInfoNote(t *testing.T) {
	c := qt.New(t)
	p := newParser("t.sh", []byte("function greet { echo hi; }"), 0)
	tok, ok := p.functionDef()
	c.Assert(ok, qt.IsTrue)
	fn := tok.(*ast.Function)
	notes := p.st.Metadata[fn.TokenID()].Notes
	c.Assert(notes, qt.HasLen, 1)
	c.Assert(notes[0].Severity, qt.Equals, diag.Info)
	c.Assert(notes[0].Message, qt.Equals, "Drop the keyword 'function'; it's not POSIX.")
}

func TestFunctionDefNonBraceBodyIsError(t *testing.T) {
	c := qt.New(t)
	p := newParser("t.sh", []byte("greet() (echo hi)"), 0)
	tok, ok := p.functionDef()
	c.Assert(ok, qt.IsTrue)
	fn := tok.(*ast.Function)
	c.Assert(fn.Name, qt.Equals, "greet")
	c.Assert(fn.Body, qt.IsNil)
	notes := p.st.Metadata[fn.TokenID()].Notes
	c.Assert(notes, qt.HasLen, 1)
	c.Assert(notes[0].Severity, qt.Equals, diag.Error)
	c.Assert(notes[0].Message, qt.Equals, "Expected a { body } for the function definition.")
	// The cursor is left right after the name/parens, not rewound to
	// the start of the rule, so the unconsumed "(echo hi)" remains for
	// whatever parses next.
	c.Assert(string(p.c.Remaining()), qt.Equals, "(echo hi)")
}

func TestBraceGroup(t *testing.T) {
	c := qt.New(t)
	p := newParser("t.sh", []byte("{ echo hi; }"), 0)
	tok, ok := p.braceGroup()
	c.Assert(ok, qt.IsTrue)
	bg := tok.(*ast.BraceGroup)
	c.Assert(bg.Body, qt.HasLen, 1)
}

func TestSubshell(t *testing.T) {
	c := qt.New(t)
	p := newParser("t.sh", []byte("(echo hi; echo bye)"), 0)
	tok, ok := p.subshell()
	c.Assert(ok, qt.IsTrue)
	sub := tok.(*ast.Subshell)
	c.Assert(sub.Body, qt.HasLen, 2)
}

func TestArithmeticCompound(t *testing.T) {
	c := qt.New(t)
	p := newParser("t.sh", []byte("((x++))"), 0)
	tok, ok := p.arithmeticCompound()
	c.Assert(ok, qt.IsTrue)
	_, ok = tok.(*ast.Arithmetic)
	c.Assert(ok, qt.IsTrue)
}

func TestAssignmentsBeforeCompoundCommandIsError(t *testing.T) {
	c := qt.New(t)
	p := newParser("t.sh", []byte("x=1 { echo hi; }"), 0)
	tok, ok := p.command()
	c.Assert(ok, qt.IsTrue)
	redir := tok.(*ast.Redirecting)
	notes := p.st.Metadata[redir.TokenID()].Notes
	c.Assert(notes, qt.HasLen, 1)
	c.Assert(notes[0].Message, qt.Equals, "Assignments before a compound command have no effect; move them inside.")
}
