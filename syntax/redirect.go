package syntax

import (
	"strings"

	"github.com/lintshell/shsyntax/ast"
	"github.com/lintshell/shsyntax/diag"
)

// redirectOps is every redirection operator this grammar recognizes,
// ordered longest-prefix-first so HasPrefix checks never mis-split a
// longer operator (e.g. "<<<" must be tried before "<<").
var redirectOps = []string{
	"<<<", "<<-", "<<", "<&", "<>", "<", ">>", ">&", ">|", ">",
}

// redirect parses one optional-fd + operator + target, per spec.md
// §4.6. It returns false without consuming anything if the cursor
// isn't at a redirection at all.
func (p *Parser) redirect() (*ast.FdRedirect, bool) {
	mark := p.c.Save()
	fdStart := p.c.Offset()
	for {
		b, ok := p.c.Current()
		if !ok || b < '0' || b > '9' {
			break
		}
		p.c.Advance()
	}
	fd := string(p.srcSlice(fdStart, p.c.Offset()))

	var op string
	for _, candidate := range redirectOps {
		if p.c.HasPrefix(candidate) {
			op = candidate
			break
		}
	}
	if op == "" {
		p.c.Restore(mark)
		return nil, false
	}

	opPos := p.c.Pos()
	for range op {
		p.c.Advance()
	}
	id := p.freshAt(opPos)

	var target Token
	switch op {
	case "<<<":
		p.spacing()
		w, ok := p.word()
		if !ok {
			p.attach(id, diag.Error, "Expected a word after <<<")
			p.c.Restore(mark)
			return nil, false
		}
		target = &ast.HereString{Base: ast.Base{Id: p.freshAt(opPos)}, Word: w}
	case "<<", "<<-":
		hd, ok := p.startHeredoc(op == "<<-")
		if !ok {
			p.attach(id, diag.Error, "Expected a here-doc end token")
			p.c.Restore(mark)
			return nil, false
		}
		target = hd
	default:
		p.spacing()
		w, ok := p.word()
		if !ok {
			p.attach(id, diag.Error, "Expected a target after "+op)
			p.c.Restore(mark)
			return nil, false
		}
		target = &ast.IoFile{Base: ast.Base{Id: p.freshAt(opPos)}, Op: op, File: w}
	}

	return &ast.FdRedirect{Base: ast.Base{Id: id}, Fd: fd, Target: target}, true
}

// startHeredoc reads the "<<"/"<<-" end token and registers a pending
// here-document to be filled in once the current line is complete
// (drainHeredocs, called by the command grammar after each newline).
func (p *Parser) startHeredoc(dashed bool) (*ast.HereDoc, bool) {
	p.spacing()
	endTok, quoted, ok := p.heredocEndToken()
	if !ok {
		return nil, false
	}
	id := p.fresh()
	hd := &ast.HereDoc{Base: ast.Base{Id: id}, Dashed: dashed, Quoted: quoted}
	p.pendingHeredocs = append(p.pendingHeredocs, &pendingHeredoc{
		node: hd, id: id, endTok: endTok, quoted: quoted, dashed: dashed,
	})
	return hd, true
}

// heredocEndToken reads the end-token word and flattens it to plain
// text: quoting only matters here to decide whether the body itself
// undergoes expansion (Quoted), never to alter the token's spelling.
func (p *Parser) heredocEndToken() (string, bool, bool) {
	w, ok := p.word()
	if !ok {
		return "", false, false
	}
	nw, ok := w.(*ast.NormalWord)
	if !ok {
		return "", false, false
	}
	var buf strings.Builder
	quoted := false
	for _, part := range nw.Parts {
		switch v := part.(type) {
		case *ast.Literal:
			buf.WriteString(v.Value)
		case *ast.SingleQuoted:
			quoted = true
			buf.WriteString(v.Value)
		case *ast.DoubleQuoted:
			quoted = true
			for _, dp := range v.Parts {
				if lit, ok := dp.(*ast.Literal); ok {
					buf.WriteString(lit.Value)
				}
			}
		}
	}
	return buf.String(), quoted, true
}

// drainHeredocs reads the pending here-document bodies, one per
// registered "<<"/"<<-" on the line just completed, in the order they
// were opened. It must be called by the command grammar right after
// consuming the newline that ends a command.
func (p *Parser) drainHeredocs() {
	pending := p.pendingHeredocs
	p.pendingHeredocs = nil
	for _, ph := range pending {
		p.readHeredocBody(ph)
	}
}

func (p *Parser) readHeredocBody(ph *pendingHeredoc) {
	var body strings.Builder
	found := false
	for !p.c.AtEOF() {
		lineStart := p.c.Offset()
		for {
			b, ok := p.c.Current()
			if !ok || b == '\n' {
				break
			}
			p.c.Advance()
		}
		line := string(p.srcSlice(lineStart, p.c.Offset()))
		hasNewline := !p.c.AtEOF()
		if hasNewline {
			p.c.Advance()
		}

		candidate := line
		if ph.dashed {
			candidate = strings.TrimLeft(line, "\t")
		}
		if candidate == ph.endTok {
			found = true
			break
		}
		if ph.dashed && candidate != ph.endTok {
			if trimmedAll := strings.TrimLeft(line, " \t"); trimmedAll == ph.endTok {
				p.attach(ph.id, diag.Error,
					"This here-doc end token needs tabs, not spaces, to line up with <<-")
				found = true
				break
			}
		}
		if !ph.dashed {
			if trimmed := strings.TrimLeft(line, " \t"); trimmed == ph.endTok && trimmed != line {
				p.attach(ph.id, diag.Error,
					"Use <<- instead of << if you want to indent the end token")
				found = true
				break
			}
		}
		if strings.EqualFold(candidate, ph.endTok) && candidate != ph.endTok {
			p.attach(ph.id, diag.Warning, "This here-doc end token has different casing than used above")
		}
		body.WriteString(line)
		if hasNewline {
			body.WriteByte('\n')
		}
	}
	if !found {
		p.attach(ph.id, diag.Error,
			"Couldn't find the end token '"+ph.endTok+"' before the end of the file, or further down.")
	}
	ph.node.Body = body.String()
}
