package syntax

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/lintshell/shsyntax/ast"
)

func parseArith(c *qt.C, src string) (ast.Token, *Parser) {
	p := newParser("t.sh", []byte(src), 0)
	tok, ok := p.arithSequence()
	c.Assert(ok, qt.IsTrue)
	return tok, p
}

func TestArithSequenceAlwaysWrapsInTASequence(t *testing.T) {
	c := qt.New(t)
	tok, _ := parseArith(c, "3 * 4 +5")
	seq, ok := tok.(*ast.TASequence)
	c.Assert(ok, qt.IsTrue, qt.Commentf("got %T, want *ast.TASequence even for a single expression", tok))
	c.Assert(seq.Exprs, qt.HasLen, 1)

	add, ok := seq.Exprs[0].(*ast.TABinary)
	c.Assert(ok, qt.IsTrue)
	c.Assert(add.Op, qt.Equals, "+")

	mul, ok := add.L.(*ast.TABinary)
	c.Assert(ok, qt.IsTrue)
	c.Assert(mul.Op, qt.Equals, "*")
	c.Assert(mul.L.(*ast.TALiteral).Value, qt.Equals, "3")
	c.Assert(mul.R.(*ast.TALiteral).Value, qt.Equals, "4")

	c.Assert(add.R.(*ast.TALiteral).Value, qt.Equals, "5")
}

func TestArithSequenceMultipleCommaExprs(t *testing.T) {
	c := qt.New(t)
	tok, _ := parseArith(c, "1, 2, 3")
	seq, ok := tok.(*ast.TASequence)
	c.Assert(ok, qt.IsTrue)
	c.Assert(seq.Exprs, qt.HasLen, 3)
}

func TestArithAddIsLeftAssociative(t *testing.T) {
	c := qt.New(t)
	tok, _ := parseArith(c, "1+2+3")
	seq := tok.(*ast.TASequence)
	outer := seq.Exprs[0].(*ast.TABinary)
	c.Assert(outer.Op, qt.Equals, "+")
	c.Assert(outer.R.(*ast.TALiteral).Value, qt.Equals, "3")
	inner := outer.L.(*ast.TABinary)
	c.Assert(inner.Op, qt.Equals, "+")
	c.Assert(inner.L.(*ast.TALiteral).Value, qt.Equals, "1")
	c.Assert(inner.R.(*ast.TALiteral).Value, qt.Equals, "2")
}

func TestArithMulBindsTighterThanAdd(t *testing.T) {
	c := qt.New(t)
	tok, _ := parseArith(c, "2+3*4")
	seq := tok.(*ast.TASequence)
	add := seq.Exprs[0].(*ast.TABinary)
	c.Assert(add.Op, qt.Equals, "+")
	c.Assert(add.L.(*ast.TALiteral).Value, qt.Equals, "2")
	mul := add.R.(*ast.TABinary)
	c.Assert(mul.Op, qt.Equals, "*")
}

func TestArithParenGrouping(t *testing.T) {
	c := qt.New(t)
	tok, _ := parseArith(c, "(2+3)*4")
	seq := tok.(*ast.TASequence)
	mul := seq.Exprs[0].(*ast.TABinary)
	c.Assert(mul.Op, qt.Equals, "*")
	group := mul.L.(*ast.TASequence)
	add := group.Exprs[0].(*ast.TABinary)
	c.Assert(add.Op, qt.Equals, "+")
}

func TestArithOpNotConfusedWithLongerOperator(t *testing.T) {
	c := qt.New(t)
	tok, _ := parseArith(c, "a += 1")
	seq := tok.(*ast.TASequence)
	assign := seq.Exprs[0].(*ast.TABinary)
	c.Assert(assign.Op, qt.Equals, "+=")
	c.Assert(assign.L.(*ast.TAVariable).Name, qt.Equals, "a")
}

func TestArithTernary(t *testing.T) {
	c := qt.New(t)
	tok, _ := parseArith(c, "a ? 1 : 2")
	seq := tok.(*ast.TASequence)
	tri, ok := seq.Exprs[0].(*ast.TATrinary)
	c.Assert(ok, qt.IsTrue)
	c.Assert(tri.Cond.(*ast.TAVariable).Name, qt.Equals, "a")
	c.Assert(tri.T.(*ast.TALiteral).Value, qt.Equals, "1")
	c.Assert(tri.F.(*ast.TALiteral).Value, qt.Equals, "2")
}

func TestArithUnaryNegationAndIncrement(t *testing.T) {
	c := qt.New(t)
	tok, _ := parseArith(c, "-x")
	seq := tok.(*ast.TASequence)
	neg, ok := seq.Exprs[0].(*ast.TAUnary)
	c.Assert(ok, qt.IsTrue)
	c.Assert(neg.Op, qt.Equals, "-")

	tok2, _ := parseArith(c, "++x")
	seq2 := tok2.(*ast.TASequence)
	inc, ok := seq2.Exprs[0].(*ast.TAUnary)
	c.Assert(ok, qt.IsTrue)
	c.Assert(inc.Op, qt.Equals, "++|")

	tok3, _ := parseArith(c, "x++")
	seq3 := tok3.(*ast.TASequence)
	postinc, ok := seq3.Exprs[0].(*ast.TAUnary)
	c.Assert(ok, qt.IsTrue)
	c.Assert(postinc.Op, qt.Equals, "|++")
}

func TestArithDollarExpansionInTerm(t *testing.T) {
	c := qt.New(t)
	tok, _ := parseArith(c, "$x + 1")
	seq := tok.(*ast.TASequence)
	add := seq.Exprs[0].(*ast.TABinary)
	exp, ok := add.L.(*ast.TAExpansion)
	c.Assert(ok, qt.IsTrue)
	c.Assert(exp.Word, qt.Not(qt.IsNil))
}

func TestDollarArithmeticEndToEnd(t *testing.T) {
	c := qt.New(t)
	res := ParseShellBytes("t.sh", []byte("echo $(( 3 * 4 +5 ))\n"), 0)
	c.Assert(res.Tree, qt.Not(qt.IsNil))
	c.Assert(res.Notes, qt.HasLen, 0)

	sc := findSimpleCommand(c, res)
	c.Assert(sc.Words, qt.HasLen, 2)
	word := sc.Words[1].(*ast.NormalWord)
	c.Assert(word.Parts, qt.HasLen, 1)
	da, ok := word.Parts[0].(*ast.DollarArithmetic)
	c.Assert(ok, qt.IsTrue)
	seq, ok := da.Expr.(*ast.TASequence)
	c.Assert(ok, qt.IsTrue)
	c.Assert(seq.Exprs, qt.HasLen, 1)
	add := seq.Exprs[0].(*ast.TABinary)
	c.Assert(add.Op, qt.Equals, "+")
	mul := add.L.(*ast.TABinary)
	c.Assert(mul.Op, qt.Equals, "*")
}

// findSimpleCommand extracts the SimpleCommand of the first statement in
// a one-statement script, failing the test if the shape doesn't match.
func findSimpleCommand(c *qt.C, res *ParseResult) *ast.SimpleCommand {
	c.Assert(res.Tree.Body, qt.HasLen, 1)
	pipe, ok := res.Tree.Body[0].(*ast.Pipeline)
	c.Assert(ok, qt.IsTrue)
	c.Assert(pipe.List, qt.HasLen, 1)
	redir, ok := pipe.List[0].(*ast.Redirecting)
	c.Assert(ok, qt.IsTrue)
	sc, ok := redir.Cmd.(*ast.SimpleCommand)
	c.Assert(ok, qt.IsTrue)
	return sc
}
