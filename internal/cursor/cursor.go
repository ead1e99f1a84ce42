// Package cursor implements the backtrackable source cursor the parser
// reads from: a byte stream with line/column tracking and unbounded
// lookahead, grounded in the byte-offset scanning style of mvdan-sh's
// lexer (syntax/lexer.go tracks p.npos over a []byte directly rather
// than decoding runes up front).
package cursor

import "github.com/lintshell/shsyntax/diag"

// Mark is an opaque snapshot of cursor state. Save/Restore round-trip
// through it; nothing outside this package inspects its fields.
type Mark struct {
	pos, line, col int
}

// Cursor scans src byte by byte, tracking 1-indexed line and column.
type Cursor struct {
	Filename string
	src      []byte
	pos      int
	line     int
	col      int
}

func New(filename string, src []byte) *Cursor {
	return &Cursor{Filename: filename, src: src, line: 1, col: 1}
}

// Save returns a Mark that Restore can rewind to. Used by Try and by
// every ordered-choice alternative that needs to back out.
func (c *Cursor) Save() Mark { return Mark{c.pos, c.line, c.col} }

func (c *Cursor) Restore(m Mark) { c.pos, c.line, c.col = m.pos, m.line, m.col }

// Mark/Reset satisfy combinator.Cursor[Mark].
func (c *Cursor) Mark() Mark   { return c.Save() }
func (c *Cursor) Reset(m Mark) { c.Restore(m) }

func (c *Cursor) AtEOF() bool { return c.pos >= len(c.src) }

// Pos returns the position of the next unread byte.
func (c *Cursor) Pos() diag.Position {
	return diag.Position{Filename: c.Filename, Line: c.line, Column: c.col}
}

// Peek looks ahead offset bytes without consuming; offset 0 is the next
// unread byte. Returns false past EOF.
func (c *Cursor) Peek(offset int) (byte, bool) {
	i := c.pos + offset
	if i < 0 || i >= len(c.src) {
		return 0, false
	}
	return c.src[i], true
}

// Current is Peek(0).
func (c *Cursor) Current() (byte, bool) { return c.Peek(0) }

// HasPrefix reports whether the unread input starts with s, without
// consuming.
func (c *Cursor) HasPrefix(s string) bool {
	if c.pos+len(s) > len(c.src) {
		return false
	}
	return string(c.src[c.pos:c.pos+len(s)]) == s
}

// Advance consumes and returns the next byte, updating line/column.
// Panics at EOF; callers must check AtEOF or Peek first.
func (c *Cursor) Advance() byte {
	b := c.src[c.pos]
	c.pos++
	if b == '\n' {
		c.line++
		c.col = 1
	} else {
		c.col++
	}
	return b
}

// ConsumeIf advances past s and returns true if the unread input starts
// with it, otherwise leaves the cursor untouched.
func (c *Cursor) ConsumeIf(s string) bool {
	if !c.HasPrefix(s) {
		return false
	}
	for range s {
		c.Advance()
	}
	return true
}

// Remaining returns the unread suffix of the source, for diagnostics
// that need to look at "what's left" (e.g. top-level trailing input).
func (c *Cursor) Remaining() []byte { return c.src[c.pos:] }

// Offset returns the current byte offset, mostly useful for tests.
func (c *Cursor) Offset() int { return c.pos }
