package syntax

import (
	"github.com/lintshell/shsyntax/ast"
	"github.com/lintshell/shsyntax/diag"
	"github.com/lintshell/shsyntax/internal/combinator"
)

// keywordsNeedingSeparator is checked against a NormalWord that turned
// out to be exactly one bare Literal, per spec.md §4.3's
// checkPossibleTermination: only this exact shape is flagged, richer
// shapes (e.g. a double-quoted "done") are intentionally not (see
// spec.md §9 Open Questions).
var keywordsNeedingSeparator = map[string]bool{
	"do": true, "done": true, "then": true, "fi": true, "esac": true, "}": true,
}

// word parses a normal word: one or more word parts, in the fixed
// alternation order spec.md §4.3 mandates.
func (p *Parser) word() (Token, bool) {
	startPos := p.c.Pos()
	parts, ok := combinator.Many1(func() (Token, bool) {
		return combinator.Try(p.c, p.wordPart)
	})
	if !ok {
		return nil, false
	}
	id := p.freshAt(startPos)
	nw := &ast.NormalWord{Base: ast.Base{Id: id}, Parts: parts}
	p.checkPossibleTermination(nw)
	return nw, true
}

func (p *Parser) checkPossibleTermination(nw *ast.NormalWord) {
	if len(nw.Parts) != 1 {
		return
	}
	lit, ok := nw.Parts[0].(*ast.Literal)
	if !ok {
		return
	}
	if keywordsNeedingSeparator[lit.Value] {
		p.attach(nw.Id, diag.Warning,
			"Use semicolon or linefeed before '"+lit.Value+"' (or quote to make it literal)")
	}
}

func (p *Parser) wordPart() (Token, bool) {
	return combinator.Choice(p.c,
		p.singleQuoted,
		p.doubleQuoted,
		p.extglob,
		p.dollarForm,
		p.braceExpansionPart,
		p.backTicked,
		p.normalLiteral,
	)
}

// --- single-quoted ---

func (p *Parser) singleQuoted() (Token, bool) {
	if b, ok := p.c.Current(); !ok || b != '\'' {
		return nil, false
	}
	id := p.fresh()
	p.c.Advance()
	start := p.c.Offset()
	lastAlpha := false
	for {
		b, ok := p.c.Current()
		if !ok {
			p.attach(id, diag.Error, "Missing closing quote for single quoted string")
			return &ast.SingleQuoted{Base: ast.Base{Id: id}, Value: string(p.srcSlice(start, p.c.Offset()))}, true
		}
		if b == '\'' {
			break
		}
		lastAlpha = isAlpha(b)
		p.c.Advance()
	}
	value := string(p.srcSlice(start, p.c.Offset()))
	// Single quotes have no escapes, so a trailing "\" right before the
	// closing quote is just a literal backslash and this quote really
	// does end the string — but it reads like an attempted escaped
	// quote, so flag it for the author even though nothing is wrong.
	if len(value) > 0 && value[len(value)-1] == '\\' {
		p.attach(id, diag.Info, "Want to escape a single quote? echo 'This is how it'\\''s done'.")
	}
	p.c.Advance() // closing quote
	if nb, ok := p.c.Current(); ok && isAlpha(nb) && lastAlpha {
		p.attach(id, diag.Warning, "This apostrophe terminated the single quoted string!")
	}
	return &ast.SingleQuoted{Base: ast.Base{Id: id}, Value: value}, true
}

func isAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') }

// --- double-quoted ---

func (p *Parser) doubleQuoted() (Token, bool) {
	if b, ok := p.c.Current(); !ok || b != '"' {
		return nil, false
	}
	id := p.fresh()
	p.c.Advance()
	var parts []Token
	for {
		b, ok := p.c.Current()
		if !ok {
			p.attach(id, diag.Error, "Missing closing double quote")
			break
		}
		if b == '"' {
			p.c.Advance()
			break
		}
		part, ok := combinator.Choice(p.c, p.doubleLiteral, p.dollarForm, p.backTicked)
		if !ok {
			break
		}
		parts = append(parts, part)
	}
	return &ast.DoubleQuoted{Base: ast.Base{Id: id}, Parts: parts}, true
}

func (p *Parser) doubleLiteral() (Token, bool) {
	id := p.fresh()
	start := p.c.Offset()
	var buf []byte
	for {
		b, ok := p.c.Current()
		if !ok || b == '"' || b == '$' || b == '`' {
			break
		}
		if b == '\\' {
			nb, hasNext := p.c.Peek(1)
			if hasNext && (nb == '"' || nb == '$' || nb == '`' || nb == '\\') {
				p.c.Advance()
				p.c.Advance()
				buf = append(buf, nb)
				continue
			}
			if hasNext {
				p.c.Advance()
				p.c.Advance()
				buf = append(buf, '\\', nb)
				continue
			}
			p.c.Advance()
			buf = append(buf, '\\')
			continue
		}
		if b == '\r' {
			p.note(p.c.Pos(), diag.Error, "Literal carriage return")
		}
		buf = append(buf, b)
		p.c.Advance()
	}
	if len(buf) == 0 && p.c.Offset() == start {
		return nil, false
	}
	return &ast.Literal{Base: ast.Base{Id: id}, Value: string(buf)}, true
}

// --- back-ticked ---

func (p *Parser) backTicked() (Token, bool) {
	if b, ok := p.c.Current(); !ok || b != '`' {
		return nil, false
	}
	id := p.fresh()
	p.attach(id, diag.Info, "Ignoring deprecated backtick expansion. Use $(..) instead.")
	p.c.Advance()
	var buf []byte
	for {
		b, ok := p.c.Current()
		if !ok {
			p.attach(id, diag.Error, "Missing closing backtick for command substitution")
			break
		}
		if b == '`' {
			p.c.Advance()
			break
		}
		if b == '\\' {
			if nb, ok := p.c.Peek(1); ok {
				p.c.Advance()
				p.c.Advance()
				buf = append(buf, nb)
				continue
			}
		}
		buf = append(buf, b)
		p.c.Advance()
	}
	inner := newParser(p.c.Filename, buf, p.mode)
	inner.st = p.st
	inner.skipSpuriousSeparators()
	var body []Token
	for !inner.c.AtEOF() {
		t, ok := inner.term()
		if !ok {
			break
		}
		body = append(body, t)
		inner.skipSpuriousSeparators()
	}
	return &ast.DollarExpansion{Base: ast.Base{Id: id}, Body: body}, true
}

// --- brace expansion: "{" segment* "}" ---

func (p *Parser) braceExpansionPart() (Token, bool) {
	if !p.bash() {
		return nil, false
	}
	if b, ok := p.c.Current(); !ok || b != '{' {
		return nil, false
	}
	start := p.c.Offset()
	id := p.fresh()
	p.c.Advance()
	for {
		b, ok := p.c.Current()
		if !ok {
			return nil, false
		}
		if b == '}' {
			p.c.Advance()
			break
		}
		if b == '"' {
			if _, ok := combinator.Try(p.c, p.doubleQuoted); !ok {
				return nil, false
			}
			continue
		}
		if isQuotable(b) && b != '\'' {
			return nil, false
		}
		p.c.Advance()
	}
	return &ast.BraceExpansion{Base: ast.Base{Id: id}, Value: string(p.srcSlice(start, p.c.Offset()))}, true
}

// --- extglob: leading char from ?*@!+ then "(" alt|alt ")" ---

func (p *Parser) extglob() (Token, bool) {
	b, ok := p.c.Current()
	if !ok || !isExtglobStart(b) {
		return nil, false
	}
	id := p.fresh()
	if nb, ok := p.c.Peek(1); !p.bash() || !ok || nb != '(' {
		// No "(" follows (or extglob is disabled): the leading char is
		// an ordinary literal character.
		p.c.Advance()
		return &ast.Literal{Base: ast.Base{Id: id}, Value: string(b)}, true
	}
	p.c.Advance() // kind char
	p.c.Advance() // (
	var alts [][]Token
	for {
		alt := combinator.ReluctantTill(p.c, func() (Token, bool) {
			return combinator.Try(p.c, p.wordPart)
		}, func() bool {
			return combinator.Lookahead(p.c, func() bool {
				nb, ok := p.c.Current()
				return ok && (nb == '|' || nb == ')')
			})
		})
		alts = append(alts, alt)
		nb, ok := p.c.Current()
		if !ok {
			p.attach(id, diag.Error, "Missing closing paren for extglob")
			break
		}
		if nb == '|' {
			p.c.Advance()
			continue
		}
		if nb == ')' {
			p.c.Advance()
			break
		}
	}
	return &ast.Extglob{Base: ast.Base{Id: id}, Kind: b, Alternatives: alts}, true
}

// --- normal literal ---

func (p *Parser) normalLiteral() (Token, bool) {
	id := p.fresh()
	var buf []byte
	for {
		b, ok := p.c.Current()
		if !ok {
			break
		}
		if b == '\\' {
			nb, hasNext := p.c.Peek(1)
			if !hasNext {
				break
			}
			if nb == '\n' {
				p.c.Advance()
				p.c.Advance()
				continue
			}
			if isQuotable(nb) || isExtglobStart(nb) || nb == '[' || nb == ']' {
				p.c.Advance()
				p.c.Advance()
				buf = append(buf, nb)
				continue
			}
			p.c.Advance()
			p.c.Advance()
			p.note(p.posAt(p.c.Offset()-2), diag.Warning,
				"Did you mean printf-escape? The shell just ignores the \\ here.")
			buf = append(buf, nb)
			continue
		}
		if isQuotable(b) || isExtglobStart(b) {
			break
		}
		buf = append(buf, b)
		p.c.Advance()
	}
	if len(buf) == 0 {
		return nil, false
	}
	return &ast.Literal{Base: ast.Base{Id: id}, Value: string(buf)}, true
}
