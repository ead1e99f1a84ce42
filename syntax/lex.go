package syntax

import (
	"github.com/lintshell/shsyntax/ast"
	"github.com/lintshell/shsyntax/diag"
)

// ParseMode controls optional parser behaviour, mirroring the
// teacher's own ParseMode bitmask (syntax.ParseComments,
// syntax.PosixConformant in mvdan-sh's syntax/parser.go).
type ParseMode uint

const (
	// PosixConformant disables the handful of bash-only constructs
	// (extglob, brace expansion, arrays, (( )) commands, C-style for).
	// [[ ]] conditions are still accepted in this mode.
	PosixConformant ParseMode = 1 << iota
	// IncludeComments retains comment text on the Script node instead
	// of silently discarding it.
	IncludeComments
)

func (p *Parser) bash() bool { return p.mode&PosixConformant == 0 }

// --- single-character recognizers (spec.md §4.2) ---

func isBackslash(b byte) bool        { return b == '\\' }
func isLinefeed(b byte) bool         { return b == '\n' }
func isCarriageReturn(b byte) bool   { return b == '\r' }
func isSingleQuoteByte(b byte) bool  { return b == '\'' }
func isDoubleQuoteByte(b byte) bool  { return b == '"' }

func isVariableStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isVariableChar(b byte) bool {
	return isVariableStart(b) || (b >= '0' && b <= '9')
}

func isSpecialVariable(b byte) bool {
	switch b {
	case '@', '*', '#', '?', '$', '!', '-':
		return true
	}
	return false
}

// quotable is the set of bytes that must be backslash-escaped to be
// used literally in an unquoted word.
func isQuotable(b byte) bool {
	switch b {
	case '#', '|', '&', ';', '<', '>', '(', ')', '$', '`', '\\', ' ', '\'', '"', '\t', '\n':
		return true
	}
	return false
}

func isDoubleQuotable(b byte) bool {
	switch b {
	case '"', '$', '`', '\\':
		return true
	}
	return false
}

func isExtglobStart(b byte) bool {
	switch b {
	case '?', '*', '@', '!', '+':
		return true
	}
	return false
}

// spacing consumes a run of horizontal whitespace and \<newline>
// line-continuations, then an optional trailing comment, and returns
// the raw whitespace text consumed (comment text excluded) so callers
// can tell "no space here" from "some space here".
func (p *Parser) spacing() string {
	start := p.c.Offset()
	for {
		b, ok := p.c.Current()
		if !ok {
			break
		}
		switch b {
		case ' ', '\t':
			p.c.Advance()
			continue
		}
		if b == '\\' {
			if nb, ok := p.c.Peek(1); ok && nb == '\n' {
				p.c.Advance()
				p.c.Advance()
				continue
			}
		}
		if b == '\r' {
			p.note(p.c.Pos(), diag.Error, "Literal carriage return")
			p.c.Advance()
			continue
		}
		break
	}
	text := string(p.srcSlice(start, p.c.Offset()))
	p.comment()
	return text
}

// allSpacing is spacing plus embedded newlines, applied repeatedly so
// blank lines and comment-only lines are all consumed.
func (p *Parser) allSpacing() string {
	start := p.c.Offset()
	for {
		p.spacing()
		b, ok := p.c.Current()
		if !ok || b != '\n' {
			break
		}
		p.c.Advance()
	}
	return string(p.srcSlice(start, p.c.Offset()))
}

// comment consumes a '#' up to but excluding the following newline.
func (p *Parser) comment() {
	b, ok := p.c.Current()
	if !ok || b != '#' {
		return
	}
	start := p.c.Offset()
	p.c.Advance()
	for {
		b, ok := p.c.Current()
		if !ok || b == '\n' {
			break
		}
		p.c.Advance()
	}
	if p.mode&IncludeComments != 0 {
		p.comments = append(p.comments, ast.Comment{
			Position: p.posAt(start),
			Text:     string(p.srcSlice(start+1, p.c.Offset())),
		})
	}
}

// keywordSeparatorAt reports whether the byte at the given lookahead
// offset ends a keyword: EOF, whitespace, or one of ; ( ).
func (p *Parser) keywordSeparatorAt(offset int) bool {
	b, ok := p.c.Peek(offset)
	if !ok {
		return true
	}
	switch b {
	case ' ', '\t', '\n', '\r', ';', '(', ')':
		return true
	}
	return false
}

// srcSlice and posAt are implemented in parser.go alongside the Parser
// struct definition.
