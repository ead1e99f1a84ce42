package syntax

import (
	"github.com/lintshell/shsyntax/ast"
	"github.com/lintshell/shsyntax/diag"
	"github.com/lintshell/shsyntax/internal/combinator"
)

// dollarForm implements the ordered choice of dollar forms from
// spec.md §4.3: $((...)) arithmetic, ${...} parameter, $(...) command
// expansion, $NAME / $[0-9] / special single-char variables, and
// finally a lone "$".
func (p *Parser) dollarForm() (Token, bool) {
	if b, ok := p.c.Current(); !ok || b != '$' {
		return nil, false
	}
	return combinator.Choice(p.c,
		p.dollarArithmetic,
		p.dollarBraced,
		p.dollarExpansion,
		p.dollarVariable,
		p.dollarLonely,
	)
}

func (p *Parser) dollarArithmetic() (Token, bool) {
	if !p.c.HasPrefix("$((") {
		return nil, false
	}
	id := p.fresh()
	p.c.Advance()
	p.c.Advance()
	p.c.Advance()
	expr, ok := p.arithSequence()
	if !ok {
		return nil, false
	}
	if !p.c.HasPrefix("))") {
		p.attach(id, diag.Error, "Expected '))' to close arithmetic expansion")
		return &ast.DollarArithmetic{Base: ast.Base{Id: id}, Expr: expr}, true
	}
	p.c.Advance()
	p.c.Advance()
	return &ast.DollarArithmetic{Base: ast.Base{Id: id}, Expr: expr}, true
}

// dollarBraced parses "${" ... "}" conservatively: the interior is
// read as a generic balanced-brace literal, not a structured
// parameter-expansion parse. spec.md §9 Open Questions explicitly asks
// implementers to preserve this conservative shape.
func (p *Parser) dollarBraced() (Token, bool) {
	if !p.c.HasPrefix("${") {
		return nil, false
	}
	id := p.fresh()
	p.c.Advance()
	p.c.Advance()
	start := p.c.Offset()
	depth := 1
	for {
		b, ok := p.c.Current()
		if !ok {
			p.attach(id, diag.Error, "Expected '}' to close parameter expansion")
			break
		}
		if b == '\\' {
			if _, hasNext := p.c.Peek(1); hasNext {
				p.c.Advance()
			}
			p.c.Advance()
			continue
		}
		if b == '{' {
			depth++
		} else if b == '}' {
			depth--
			if depth == 0 {
				break
			}
		}
		p.c.Advance()
	}
	content := string(p.srcSlice(start, p.c.Offset()))
	if _, ok := p.c.Current(); ok {
		p.c.Advance() // closing }
	}
	return &ast.DollarBraced{Base: ast.Base{Id: id}, Content: content}, true
}

func (p *Parser) dollarExpansion() (Token, bool) {
	if !p.c.HasPrefix("$(") {
		return nil, false
	}
	id := p.fresh()
	p.c.Advance()
	p.c.Advance()
	p.skipSpuriousSeparators()
	var body []Token
	for {
		if p.c.HasPrefix(")") {
			break
		}
		if _, ok := p.c.Current(); !ok {
			p.attach(id, diag.Error, "Expected ')' to close command substitution")
			return &ast.DollarExpansion{Base: ast.Base{Id: id}, Body: body}, true
		}
		t, ok := p.term()
		if !ok {
			break
		}
		body = append(body, t)
		p.skipSpuriousSeparators()
	}
	if p.c.HasPrefix(")") {
		p.c.Advance()
	}
	return &ast.DollarExpansion{Base: ast.Base{Id: id}, Body: body}, true
}

// dollarVariable covers $NAME, $[0-9], and the single-character special
// parameters. All three unbraced forms share DollarBraced with the
// variant's word family table: an unbraced "$foo" and a braced
// "${foo}" carry the same conservative shape, just without the braces
// in Content.
func (p *Parser) dollarVariable() (Token, bool) {
	nb, ok := p.c.Peek(1)
	if !ok {
		return nil, false
	}
	switch {
	case isVariableStart(nb):
		id := p.fresh()
		p.c.Advance()
		start := p.c.Offset()
		for {
			b, ok := p.c.Current()
			if !ok || !isVariableChar(b) {
				break
			}
			p.c.Advance()
		}
		name := string(p.srcSlice(start, p.c.Offset()))
		return &ast.DollarBraced{Base: ast.Base{Id: id}, Content: name}, true
	case nb >= '0' && nb <= '9':
		id := p.fresh()
		p.c.Advance()
		start := p.c.Offset()
		p.c.Advance()
		name := string(p.srcSlice(start, p.c.Offset()))
		p.checkDollarDigitFollow(id)
		return &ast.DollarBraced{Base: ast.Base{Id: id}, Content: name}, true
	case isSpecialVariable(nb):
		id := p.fresh()
		p.c.Advance()
		p.c.Advance()
		p.checkDollarDigitFollow(id)
		return &ast.DollarBraced{Base: ast.Base{Id: id}, Content: string(nb)}, true
	}
	return nil, false
}

// checkDollarDigitFollow implements spec.md §4.3's "$DIGITS following a
// positional or single-char special" diagnostic: "$N..." where another
// digit immediately follows is equivalent to "${N}...".
func (p *Parser) checkDollarDigitFollow(id ast.Id) {
	if b, ok := p.c.Current(); ok && b >= '0' && b <= '9' {
		p.attach(id, diag.Error, "$N... is equivalent to ${N}...")
	}
}

// dollarLonely accepts a bare "$" with a Style note, reading the next
// character via lookahead without consuming it — spec.md §9 preserves
// this exact semantics from the source implementation.
func (p *Parser) dollarLonely() (Token, bool) {
	id := p.fresh()
	p.c.Advance()
	if nb, ok := p.c.Current(); !ok || nb != '\'' {
		p.attach(id, diag.Style, "This $ has no special meaning here; for a literal, escape it as \\$.")
	}
	return &ast.Literal{Base: ast.Base{Id: id}, Value: "$"}, true
}
