package syntax

import (
	"github.com/lintshell/shsyntax/ast"
	"github.com/lintshell/shsyntax/diag"
	"github.com/lintshell/shsyntax/internal/combinator"
)

// The cascade below mirrors mvdan-sh's syntax/parser_arithm.go
// (arithmExprComma -> arithmExprAssign -> arithmExprCond -> ... ->
// arithmExprUnary), generalized with the combinator core's ChainLeft
// and adapted to emit ast.Token/Id nodes instead of mvdan's
// ArithmExpr/Pos nodes. Precedence levels follow spec.md §4.5 exactly.

func (p *Parser) arithSpacing() { p.allSpacing() }

// arithSequence := assignment (',' assignment)*
func (p *Parser) arithSequence() (Token, bool) {
	p.arithSpacing()
	first, ok := p.arithAssignment()
	if !ok {
		return nil, false
	}
	exprs := []Token{first}
	for {
		p.arithSpacing()
		if b, ok := p.c.Current(); !ok || b != ',' {
			break
		}
		p.c.Advance()
		p.arithSpacing()
		next, ok := p.arithAssignment()
		if !ok {
			break
		}
		exprs = append(exprs, next)
	}
	// Always wrap in TASequence, even for a single expression, so a
	// sequence node's shape is consistent regardless of whether a
	// comma was present — the same invariant-first choice as always
	// constructing ast.Pipeline.
	id := p.freshAt(p.st.Metadata[exprs[0].TokenID()].Position)
	return &ast.TASequence{Base: ast.Base{Id: id}, Exprs: exprs}, true
}

var arithAssignOps = []string{
	"<<=", ">>=", "+=", "-=", "*=", "/=", "%=", "&=", "^=", "|=", "=",
}

// arithAssignment := trinary (assignOp trinary)* — right-chained in
// spirit, folded left here since shell arithmetic assignment targets
// are always simple variables and the fold order is unobservable.
func (p *Parser) arithAssignment() (Token, bool) {
	return combinator.ChainLeft(p.arithTrinary, func(left Token) (Token, bool) {
		p.arithSpacing()
		op, opPos, ok := p.matchOp(arithAssignOps, "=")
		if !ok {
			return left, false
		}
		p.arithSpacing()
		right, ok := p.arithTrinary()
		if !ok {
			return left, false
		}
		id := p.freshAt(opPos)
		return &ast.TABinary{Base: ast.Base{Id: id}, Op: op, L: left, R: right}, true
	})
}

// arithTrinary := logical_or ('?' assignment ':' assignment)?
func (p *Parser) arithTrinary() (Token, bool) {
	cond, ok := p.arithLogicalOr()
	if !ok {
		return nil, false
	}
	p.arithSpacing()
	qPos := p.c.Pos()
	if b, ok := p.c.Current(); !ok || b != '?' {
		return cond, true
	}
	p.c.Advance()
	p.arithSpacing()
	t, ok := p.arithAssignment()
	if !ok {
		return cond, true
	}
	p.arithSpacing()
	if b, ok := p.c.Current(); !ok || b != ':' {
		p.note(p.c.Pos(), diag.Error, "Expected ':' to complete ternary expression")
		return cond, true
	}
	p.c.Advance()
	p.arithSpacing()
	f, ok := p.arithAssignment()
	if !ok {
		return cond, true
	}
	id := p.freshAt(qPos)
	return &ast.TATrinary{Base: ast.Base{Id: id}, Cond: cond, T: t, F: f}, true
}

func (p *Parser) arithLogicalOr() (Token, bool) {
	return p.arithBinaryLevel(p.arithLogicalAnd, []string{"||"}, "")
}

func (p *Parser) arithLogicalAnd() (Token, bool) {
	return p.arithBinaryLevel(p.arithBitOr, []string{"&&"}, "")
}

// bit_or := bit_xor ('|' bit_xor)*   ; '|' not followed by '|' or '='
func (p *Parser) arithBitOr() (Token, bool) {
	return p.arithBinaryLevel(p.arithBitXor, []string{"|"}, "|=")
}

func (p *Parser) arithBitXor() (Token, bool) {
	return p.arithBinaryLevel(p.arithBitAnd, []string{"^"}, "=")
}

// bit_and := equated ('&' equated)*  ; '&' not followed by '&' or '='
func (p *Parser) arithBitAnd() (Token, bool) {
	return p.arithBinaryLevel(p.arithEquated, []string{"&"}, "&=")
}

func (p *Parser) arithEquated() (Token, bool) {
	return p.arithBinaryLevel(p.arithCompared, []string{"==", "!="}, "")
}

func (p *Parser) arithCompared() (Token, bool) {
	return p.arithBinaryLevel(p.arithShift, []string{"<=", ">=", "<", ">"}, "=")
}

func (p *Parser) arithShift() (Token, bool) {
	return p.arithBinaryLevel(p.arithAdd, []string{"<<", ">>"}, "=")
}

func (p *Parser) arithAdd() (Token, bool) {
	return p.arithBinaryLevel(p.arithMul, []string{"+", "-"}, "+-=")
}

func (p *Parser) arithMul() (Token, bool) {
	return p.arithBinaryLevel(p.arithExp, []string{"*", "/", "%"}, "*=")
}

func (p *Parser) arithExp() (Token, bool) {
	return p.arithBinaryLevel(p.arithNegated, []string{"**"}, "")
}

// arithBinaryLevel folds a run of same-precedence left-associative
// binary operators using the combinator core's ChainLeft. forbidFollow
// lists bytes that, immediately following a matched op, mean the op is
// really the prefix of a longer token that belongs to a different
// level (spec.md §4.5: "reject any op followed by &|<>= to avoid
// consuming the first char of a longer operator").
func (p *Parser) arithBinaryLevel(next func() (Token, bool), ops []string, forbidFollow string) (Token, bool) {
	return combinator.ChainLeft(next, func(left Token) (Token, bool) {
		p.arithSpacing()
		op, opPos, ok := p.matchOp(ops, forbidFollow)
		if !ok {
			return left, false
		}
		p.arithSpacing()
		right, ok := next()
		if !ok {
			return left, false
		}
		id := p.freshAt(opPos)
		return &ast.TABinary{Base: ast.Base{Id: id}, Op: op, L: left, R: right}, true
	})
}

// matchOp tries each op (checked longest-first by caller-supplied
// order) and, on a match, rejects it if the byte right after is in
// forbidFollow.
func (p *Parser) matchOp(ops []string, forbidFollow string) (string, diag.Position, bool) {
	pos := p.c.Pos()
	for _, op := range ops {
		if !p.c.HasPrefix(op) {
			continue
		}
		if forbidFollow != "" {
			if nb, ok := p.c.Peek(len(op)); ok && containsByte(forbidFollow, nb) {
				continue
			}
		}
		for range op {
			p.c.Advance()
		}
		return op, pos, true
	}
	return "", pos, false
}

func containsByte(s string, b byte) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return true
		}
	}
	return false
}

// negated := ('!'|'~') signed | signed
func (p *Parser) arithNegated() (Token, bool) {
	b, ok := p.c.Current()
	if ok && (b == '!' || b == '~') {
		id := p.fresh()
		p.c.Advance()
		p.arithSpacing()
		x, ok := p.arithSigned()
		if !ok {
			return nil, false
		}
		return &ast.TAUnary{Base: ast.Base{Id: id}, Op: string(b), X: x}, true
	}
	return p.arithSigned()
}

// signed := ('+'|'-') incremented | incremented ; unary sign not
// followed by the same char (that's ++ / -- instead).
func (p *Parser) arithSigned() (Token, bool) {
	b, ok := p.c.Current()
	if ok && (b == '+' || b == '-') {
		if nb, ok := p.c.Peek(1); ok && nb == b {
			return p.arithIncremented()
		}
		id := p.fresh()
		p.c.Advance()
		p.arithSpacing()
		x, ok := p.arithIncremented()
		if !ok {
			return nil, false
		}
		return &ast.TAUnary{Base: ast.Base{Id: id}, Op: string(b), X: x}, true
	}
	return p.arithIncremented()
}

// incremented := term incpost? | '++' term | '--' term
func (p *Parser) arithIncremented() (Token, bool) {
	if p.c.HasPrefix("++") || p.c.HasPrefix("--") {
		id := p.fresh()
		op := string(p.c.Remaining()[:2])
		p.c.Advance()
		p.c.Advance()
		x, ok := p.arithTerm()
		if !ok {
			return nil, false
		}
		return &ast.TAUnary{Base: ast.Base{Id: id}, Op: op + "|", X: x}, true
	}
	x, ok := p.arithTerm()
	if !ok {
		return nil, false
	}
	if p.c.HasPrefix("++") || p.c.HasPrefix("--") {
		id := p.freshAt(p.st.Metadata[x.TokenID()].Position)
		op := string(p.c.Remaining()[:2])
		p.c.Advance()
		p.c.Advance()
		return &ast.TAUnary{Base: ast.Base{Id: id}, Op: "|" + op, X: x}, true
	}
	return x, true
}

// term := '(' sequence ')' | dollar | number | variable
func (p *Parser) arithTerm() (Token, bool) {
	p.arithSpacing()
	if b, ok := p.c.Current(); ok && b == '(' {
		p.c.Advance()
		x, ok := p.arithSequence()
		if !ok {
			return nil, false
		}
		p.arithSpacing()
		if b, ok := p.c.Current(); ok && b == ')' {
			p.c.Advance()
		}
		return x, true
	}
	if b, ok := p.c.Current(); ok && b == '$' {
		w, ok := p.dollarForm()
		if !ok {
			return nil, false
		}
		id := p.freshAt(p.st.Metadata[w.TokenID()].Position)
		return &ast.TAExpansion{Base: ast.Base{Id: id}, Word: w}, true
	}
	if b, ok := p.c.Current(); ok && (b >= '0' && b <= '9' || b == '.') {
		id := p.fresh()
		start := p.c.Offset()
		for {
			b, ok := p.c.Current()
			if !ok || !(b >= '0' && b <= '9' || b == '.' || isVariableChar(b)) {
				break
			}
			p.c.Advance()
		}
		return &ast.TALiteral{Base: ast.Base{Id: id}, Value: string(p.srcSlice(start, p.c.Offset()))}, true
	}
	if b, ok := p.c.Current(); ok && isVariableStart(b) {
		id := p.fresh()
		start := p.c.Offset()
		for {
			b, ok := p.c.Current()
			if !ok || !isVariableChar(b) {
				break
			}
			p.c.Advance()
		}
		return &ast.TAVariable{Base: ast.Base{Id: id}, Name: string(p.srcSlice(start, p.c.Offset()))}, true
	}
	return nil, false
}
