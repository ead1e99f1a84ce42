// Package syntax is the parser proper: the lexical layer, the word
// grammar, the conditional and arithmetic sublanguages, the command
// grammar, and the top-level driver that ties them together into
// ParseShell. It is grounded throughout in mvdan-sh's syntax package
// (syntax/lexer.go, syntax/parser.go, syntax/parser_arithm.go), adapted
// from that package's Pos/error model to the Id/Metadata/Note model
// spec.md §3 requires.
package syntax

import (
	"fmt"
	"io"

	"github.com/lintshell/shsyntax/ast"
	"github.com/lintshell/shsyntax/diag"
	"github.com/lintshell/shsyntax/internal/cursor"
	"github.com/lintshell/shsyntax/internal/state"
)

// Parser holds everything one parse needs: the cursor, the threaded
// state, and the mode flags. It is not safe for concurrent use — see
// spec.md §5 — but independent parses may run in separate goroutines
// each with their own Parser.
type Parser struct {
	c    *cursor.Cursor
	st   *state.State
	mode ParseMode
	src  []byte

	comments []ast.Comment

	// here-documents read after the next unescaped newline, in the
	// order their introducing "<<"/"<<-" token was seen.
	pendingHeredocs []*pendingHeredoc
}

type pendingHeredoc struct {
	node   *ast.HereDoc
	id     ast.Id
	endTok string
	quoted bool
	dashed bool
}

func newParser(filename string, src []byte, mode ParseMode) *Parser {
	return &Parser{
		c:    cursor.New(filename, src),
		st:   state.New(),
		mode: mode,
		src:  src,
	}
}

func (p *Parser) srcSlice(from, to int) []byte { return p.src[from:to] }

func (p *Parser) posAt(offset int) diag.Position {
	// Re-derive line/column for an offset behind the cursor's current
	// position by scanning from the start; comments are short and rare
	// enough that this is simpler than tracking a second cursor.
	line, col := 1, 1
	for _, b := range p.src[:offset] {
		if b == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return diag.Position{Filename: p.c.Filename, Line: line, Column: col}
}

// fresh allocates a node id at the cursor's current position.
func (p *Parser) fresh() ast.Id { return p.freshAt(p.c.Pos()) }

func (p *Parser) freshAt(pos diag.Position) ast.Id { return p.st.FreshID(pos) }

func (p *Parser) note(pos diag.Position, sev diag.Severity, msg string) {
	p.st.NoteAt(pos, sev, msg)
}

func (p *Parser) attach(id ast.Id, sev diag.Severity, msg string) {
	p.st.AttachNote(id, sev, msg)
}

// ParseResult is the sole return shape consumers see: either a parsed
// tree plus its metadata map, or none if parsing failed outright.
// notes is always sorted and deduplicated.
type ParseResult struct {
	Tree     *ast.Script
	Metadata ast.Map
	Notes    []diag.ParseNote
}

// ParseShell reads a full script from r and parses it, returning a
// ParseResult whose Tree is nil only on a fatal, unrecoverable parse
// failure (see spec.md §7). The returned error is reserved for I/O
// failures reading r; it is never returned for parse diagnostics,
// which always surface through ParseResult.Notes instead.
func ParseShell(filename string, r io.Reader, mode ParseMode) (*ParseResult, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("shsyntax: reading %s: %w", filename, err)
	}
	return ParseShellBytes(filename, src, mode), nil
}

// ParseShellBytes is ParseShell without the io.Reader indirection, for
// callers that already hold the source in memory.
func ParseShellBytes(filename string, src []byte, mode ParseMode) *ParseResult {
	p := newParser(filename, src, mode)
	p.skipSpuriousSeparators()

	var body []Token
	failPos := -1
	for {
		if p.c.AtEOF() {
			break
		}
		t, ok := p.term()
		if !ok {
			failPos = p.c.Offset()
			break
		}
		body = append(body, t)
		p.skipSpuriousSeparators()
	}

	if failPos >= 0 && !p.c.AtEOF() {
		p.reportFailure()
	}

	scriptID := p.freshAt(diag.Position{Filename: filename, Line: 1, Column: 1})
	script := &ast.Script{Base: ast.Base{Id: scriptID}, Body: body}
	if p.mode&IncludeComments != 0 {
		script.Comments = p.comments
	}

	notes := append([]diag.ParseNote(nil), p.st.Notes...)
	notes = append(notes, p.st.Metadata.NotesFlattened()...)
	notes = diag.SortNotes(notes)

	if failPos >= 0 {
		return &ParseResult{Tree: nil, Metadata: p.st.Metadata, Notes: notes}
	}
	return &ParseResult{Tree: script, Metadata: p.st.Metadata, Notes: notes}
}

// reportFailure converts the cursor's current position (where no
// alternative of `term` matched) into a single fatal ParseNote. The
// parser-error category priority from spec.md §4.8 (UnExpect >
// SysUnExpect > Expect > Message) collapses here to one shape, since
// this hand-rolled recursive descent parser doesn't carry the four
// separate Parsec-style error categories: any remaining unconsumed
// input is reported as an unexpected token.
func (p *Parser) reportFailure() {
	rem := p.c.Remaining()
	unexpected := "eof"
	if len(rem) > 0 {
		n := 1
		for n < len(rem) && n < 20 && !isQuotable(rem[n]) {
			n++
		}
		unexpected = string(rem[:n])
	}
	p.note(p.c.Pos(), diag.Error, fmt.Sprintf("Aborting due to unexpected %q. Is this even valid?", unexpected))
}

// Token is a private alias kept local to this package's grammar files
// for brevity; it is exactly ast.Token.
type Token = ast.Token
