package syntax

import (
	"github.com/lintshell/shsyntax/ast"
	"github.com/lintshell/shsyntax/diag"
	"github.com/lintshell/shsyntax/internal/combinator"
)

// assignment recognizes "NAME=word", "NAME+=word", or either form with
// an array literal on the right (bash only). It also recognizes, and
// flags, two common mistakes: a "$" on the left of the "=", and
// whitespace around the "=" — both still parsed as an assignment so
// the rest of the analysis isn't lost to a malformed prefix.
func (p *Parser) assignment() (*ast.Assignment, bool) {
	mark := p.c.Save()
	startPos := p.c.Pos()

	dollarPrefixed := false
	skip := 0
	if b, ok := p.c.Current(); ok && b == '$' {
		if nb, ok := p.c.Peek(1); ok && isVariableStart(nb) {
			dollarPrefixed = true
			skip = 1
		}
	}
	if b, ok := p.c.Peek(skip); !ok || !isVariableStart(b) {
		p.c.Restore(mark)
		return nil, false
	}
	if dollarPrefixed {
		p.c.Advance()
	}
	nameStart := p.c.Offset()
	for {
		b, ok := p.c.Current()
		if !ok || !isVariableChar(b) {
			break
		}
		p.c.Advance()
	}
	name := string(p.srcSlice(nameStart, p.c.Offset()))

	spaceBefore := p.spacing()
	isAppend := p.c.HasPrefix("+=")
	isPlain := p.c.HasPrefix("=")
	if !isAppend && !isPlain {
		p.c.Restore(mark)
		return nil, false
	}
	if isAppend {
		p.c.Advance()
		p.c.Advance()
	} else {
		p.c.Advance()
	}
	id := p.freshAt(startPos)
	if dollarPrefixed {
		p.attach(id, diag.Error, "Don't use $ on the left side of assignments.")
	}
	spaceAfter := p.spacing()
	if spaceBefore != "" || spaceAfter != "" {
		p.attach(id, diag.Error, "Don't put spaces around the = in assignments.")
	}

	var value Token
	if p.bash() {
		if arr, ok := combinator.Try(p.c, p.arrayLiteral); ok {
			value = arr
		}
	}
	if value == nil {
		if w, ok := combinator.Try(p.c, p.word); ok {
			value = w
		} else {
			wid := p.fresh()
			value = &ast.NormalWord{Base: ast.Base{Id: wid}, Parts: []Token{&ast.Literal{Base: ast.Base{Id: p.fresh()}}}}
		}
	}
	return &ast.Assignment{Base: ast.Base{Id: id}, Name: name, Append: isAppend, Value: value}, true
}

// arrayLiteral parses "(" word* ")", the bash array-assignment value.
func (p *Parser) arrayLiteral() (Token, bool) {
	if !p.c.HasPrefix("(") {
		return nil, false
	}
	id := p.fresh()
	p.c.Advance()
	p.allSpacing()
	var words []Token
	for {
		if p.c.HasPrefix(")") {
			break
		}
		if _, ok := p.c.Current(); !ok {
			p.attach(id, diag.Error, "Expected ')' to close array literal")
			return &ast.Array{Base: ast.Base{Id: id}, Words: words}, true
		}
		w, ok := combinator.Try(p.c, p.word)
		if !ok {
			break
		}
		words = append(words, w)
		p.allSpacing()
	}
	if p.c.HasPrefix(")") {
		p.c.Advance()
	}
	return &ast.Array{Base: ast.Base{Id: id}, Words: words}, true
}
