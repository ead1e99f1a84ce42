package syntax

import (
	"github.com/lintshell/shsyntax/ast"
	"github.com/lintshell/shsyntax/diag"
	"github.com/lintshell/shsyntax/internal/combinator"
)

// peekKeyword reports whether the cursor sits at kw, without consuming
// anything. For an identifier-shaped kw ("do", "esac", "in", ...) it
// also requires a keyword-separator byte after it, so "donefoo" isn't
// mistaken for the "done" keyword. Punctuation terminators like ";;"
// and ";&" are self-delimiting (";" can't be part of a longer word)
// and skip that check, so ";;esac" and ";;&" glued to a following
// pattern are still recognised.
func (p *Parser) peekKeyword(kw string) bool {
	if !p.c.HasPrefix(kw) {
		return false
	}
	if len(kw) == 0 || isVariableStart(kw[0]) {
		return p.keywordSeparatorAt(len(kw))
	}
	return true
}

func (p *Parser) consumeKeyword(kw string) bool {
	if !p.peekKeyword(kw) {
		return false
	}
	for range kw {
		p.c.Advance()
	}
	return true
}

// skipSpuriousSeparators consumes blank/comment lines and any stray
// ";" that has nothing before it to terminate — a legitimate trailing
// ";" after a command is always consumed by term() itself, so any ";"
// still sitting here is redundant by construction. stopWords lets a
// caller like commandListUntilKeyword protect a multi-character
// punctuation terminator (";;", ";&", ";;&") from being eaten one
// semicolon at a time before it's recognised whole.
func (p *Parser) skipSpuriousSeparators(stopWords ...string) {
	for {
		p.allSpacing()
		if !p.c.HasPrefix(";") {
			return
		}
		for _, kw := range stopWords {
			if p.peekKeyword(kw) {
				return
			}
		}
		pos := p.c.Pos()
		p.c.Advance()
		p.note(pos, diag.Style, "This semicolon is not needed here.")
	}
}

// atCommandEnd reports whether the cursor has reached something that
// ends a simple command's word list: EOF, a list/pipe operator, or a
// reserved word that only has meaning as a compound-command keyword.
func (p *Parser) atCommandEnd() bool {
	if p.c.AtEOF() {
		return true
	}
	b, _ := p.c.Current()
	switch b {
	case ';', '&', '\n', '|', ')':
		return true
	}
	for _, kw := range []string{"then", "do", "done", "fi", "esac", "elif", "else"} {
		if p.peekKeyword(kw) {
			return true
		}
	}
	return p.peekKeyword("}")
}

// commandListUntilKeyword parses term()s until EOF or one of
// stopWords is seen ahead (without consuming it).
func (p *Parser) commandListUntilKeyword(stopWords ...string) []Token {
	var body []Token
	for {
		p.skipSpuriousSeparators(stopWords...)
		if p.c.AtEOF() {
			break
		}
		stop := false
		for _, kw := range stopWords {
			if p.peekKeyword(kw) {
				stop = true
				break
			}
		}
		if stop {
			break
		}
		t, ok := p.term()
		if !ok {
			break
		}
		body = append(body, t)
	}
	return body
}

// term parses one and-or list plus its terminator, per spec.md §4.7:
// ";" ends the statement, "&" backgrounds it (and "&;" is flagged as
// the common "foo &; bar" mistake), and a trailing newline drains any
// here-documents opened on this line.
func (p *Parser) term() (Token, bool) {
	cmd, ok := p.andOr()
	if !ok {
		return nil, false
	}
	p.spacing()
	if b, ok := p.c.Current(); ok && b == '&' {
		ampPos := p.c.Pos()
		p.c.Advance()
		id := p.freshAt(ampPos)
		cmd = &ast.Backgrounded{Base: ast.Base{Id: id}, Cmd: cmd}
		mark := p.c.Save()
		p.spacing()
		if nb, ok := p.c.Current(); ok && nb == ';' {
			p.attach(id, diag.Error, "It's not 'foo &; bar', just 'foo & bar'.")
			p.c.Advance()
		} else {
			p.c.Restore(mark)
		}
	} else if ok && b == ';' {
		// Don't swallow the first ";" of a glued case-arm terminator
		// (";;", ";&", ";;&") as an ordinary statement separator; leave
		// it for caseArm's terminator check to match whole.
		if nb, ok := p.c.Peek(1); !ok || (nb != ';' && nb != '&') {
			p.c.Advance()
		}
	}
	p.spacing()
	if b, ok := p.c.Current(); ok && b == '\n' {
		p.c.Advance()
		if len(p.pendingHeredocs) > 0 {
			p.drainHeredocs()
		}
	} else if p.c.AtEOF() && len(p.pendingHeredocs) > 0 {
		p.drainHeredocs()
	}
	return cmd, true
}

// andOr folds left-associative "&&"/"||" over pipelines, allowing a
// line break right after the operator.
func (p *Parser) andOr() (Token, bool) {
	return combinator.ChainLeft(p.pipeline, func(left Token) (Token, bool) {
		mark := p.c.Save()
		p.spacing()
		opPos := p.c.Pos()
		isAnd := p.c.HasPrefix("&&")
		isOr := !isAnd && p.c.HasPrefix("||")
		if !isAnd && !isOr {
			p.c.Restore(mark)
			return left, false
		}
		p.c.Advance()
		p.c.Advance()
		p.allSpacing()
		right, ok := p.pipeline()
		if !ok {
			p.c.Restore(mark)
			return left, false
		}
		id := p.freshAt(opPos)
		if isAnd {
			return &ast.AndIf{Base: ast.Base{Id: id}, L: left, R: right}, true
		}
		return &ast.OrIf{Base: ast.Base{Id: id}, L: left, R: right}, true
	})
}

// pipeline parses an optional leading "!" and one or more commands
// joined by "|" (never "||", which andOr already owns).
func (p *Parser) pipeline() (Token, bool) {
	p.spacing()
	bangPos := p.c.Pos()
	banged := false
	if p.c.HasPrefix("!") {
		if nb, ok := p.c.Peek(1); !ok || nb == ' ' || nb == '\t' || nb == '\n' {
			banged = true
		}
	}
	if banged {
		p.c.Advance()
		p.spacing()
	}
	first, ok := p.command()
	if !ok {
		return nil, false
	}
	cmds := []Token{first}
	for {
		mark := p.c.Save()
		p.spacing()
		if p.c.HasPrefix("||") || !p.c.HasPrefix("|") {
			p.c.Restore(mark)
			break
		}
		p.c.Advance()
		p.allSpacing()
		next, ok := p.command()
		if !ok {
			p.c.Restore(mark)
			break
		}
		cmds = append(cmds, next)
	}
	id := p.freshAt(p.st.Metadata[cmds[0].TokenID()].Position)
	result := Token(&ast.Pipeline{Base: ast.Base{Id: id}, List: cmds})
	if banged {
		bid := p.freshAt(bangPos)
		return &ast.Banged{Base: ast.Base{Id: bid}, Pipeline: result}, true
	}
	return result, true
}

// command parses one compound-or-simple command plus every redirect
// attached to it, in whatever position they appeared (spec.md §4.6: a
// simple command's redirects may be interspersed with its words; a
// compound command's redirects only ever trail it). All redirects,
// regardless of position, are hoisted onto the Redirecting wrapper.
func (p *Parser) command() (Token, bool) {
	startPos := p.c.Pos()
	var redirs []*ast.FdRedirect
	var assigns []*ast.Assignment

	for {
		p.spacing()
		if r, ok := combinator.Try(p.c, p.redirect); ok {
			redirs = append(redirs, r)
			continue
		}
		if a, ok := combinator.Try(p.c, p.assignment); ok {
			assigns = append(assigns, a)
			continue
		}
		break
	}

	p.spacing()
	if core, ok := p.compoundCommand(); ok {
		for {
			p.spacing()
			r, ok := combinator.Try(p.c, p.redirect)
			if !ok {
				break
			}
			redirs = append(redirs, r)
		}
		id := p.freshAt(startPos)
		if len(assigns) > 0 {
			p.attach(id, diag.Error, "Assignments before a compound command have no effect; move them inside.")
		}
		return &ast.Redirecting{Base: ast.Base{Id: id}, Redirs: redirs, Cmd: core}, true
	}

	var words []Token
	for {
		p.spacing()
		if r, ok := combinator.Try(p.c, p.redirect); ok {
			redirs = append(redirs, r)
			continue
		}
		if len(words) == 0 {
			if a, ok := combinator.Try(p.c, p.assignment); ok {
				assigns = append(assigns, a)
				continue
			}
		}
		if p.atCommandEnd() {
			break
		}
		w, ok := combinator.Try(p.c, p.word)
		if !ok {
			break
		}
		words = append(words, w)
	}
	if len(assigns) == 0 && len(words) == 0 && len(redirs) == 0 {
		return nil, false
	}
	scID := p.freshAt(startPos)
	sc := &ast.SimpleCommand{Base: ast.Base{Id: scID}, Assignments: assigns, Words: words}
	id := p.freshAt(startPos)
	return &ast.Redirecting{Base: ast.Base{Id: id}, Redirs: redirs, Cmd: sc}, true
}

// compoundCommand is the ordered choice of every non-simple command
// shape spec.md §4.6 names, plus the C-style for loop DESIGN.md lists
// as a supplemented feature.
func (p *Parser) compoundCommand() (Token, bool) {
	return combinator.Choice(p.c,
		p.braceGroup,
		p.arithmeticCompound,
		p.subshell,
		func() (Token, bool) { return p.condition(ast.DoubleBracket) },
		func() (Token, bool) { return p.condition(ast.SingleBracket) },
		func() (Token, bool) { return p.loopLike("while") },
		func() (Token, bool) { return p.loopLike("until") },
		p.ifExpr,
		p.cStyleFor,
		p.forIn,
		p.caseExpr,
		p.functionDef,
	)
}

func (p *Parser) braceGroup() (Token, bool) {
	if b, ok := p.c.Current(); !ok || b != '{' {
		return nil, false
	}
	if !p.keywordSeparatorAt(1) {
		return nil, false
	}
	id := p.fresh()
	p.c.Advance()
	body := p.commandListUntilKeyword("}")
	if !p.consumeKeyword("}") {
		p.attach(id, diag.Error, "Expected '}' to close the group")
	}
	return &ast.BraceGroup{Base: ast.Base{Id: id}, Body: body}, true
}

func (p *Parser) arithmeticCompound() (Token, bool) {
	if !p.bash() || !p.c.HasPrefix("((") {
		return nil, false
	}
	id := p.fresh()
	p.c.Advance()
	p.c.Advance()
	expr, ok := p.arithSequence()
	if !ok {
		return nil, false
	}
	if !p.c.HasPrefix("))") {
		p.attach(id, diag.Error, "Expected '))' to close the arithmetic command")
		return &ast.Arithmetic{Base: ast.Base{Id: id}, Expr: expr}, true
	}
	p.c.Advance()
	p.c.Advance()
	return &ast.Arithmetic{Base: ast.Base{Id: id}, Expr: expr}, true
}

func (p *Parser) subshell() (Token, bool) {
	if b, ok := p.c.Current(); !ok || b != '(' {
		return nil, false
	}
	if p.bash() && p.c.HasPrefix("((") {
		return nil, false
	}
	id := p.fresh()
	p.c.Advance()
	var body []Token
	for {
		p.skipSpuriousSeparators()
		if p.c.HasPrefix(")") || p.c.AtEOF() {
			break
		}
		t, ok := p.term()
		if !ok {
			break
		}
		body = append(body, t)
	}
	if !p.c.ConsumeIf(")") {
		p.attach(id, diag.Error, "Expected ')' to close the subshell")
	}
	return &ast.Subshell{Base: ast.Base{Id: id}, Body: body}, true
}

// loopLike implements both "while" and "until", which differ only in
// keyword and node type.
func (p *Parser) loopLike(kw string) (Token, bool) {
	if !p.peekKeyword(kw) {
		return nil, false
	}
	id := p.fresh()
	p.consumeKeyword(kw)
	cond := p.commandListUntilKeyword("do")
	if !p.consumeKeyword("do") {
		p.attach(id, diag.Error, "Expected 'do' to start the loop body")
	}
	body := p.commandListUntilKeyword("done")
	if !p.consumeKeyword("done") {
		p.attach(id, diag.Error, "Put a ; or linefeed before the done.")
	}
	if kw == "while" {
		return &ast.WhileExpression{Base: ast.Base{Id: id}, Cond: cond, Body: body}, true
	}
	return &ast.UntilExpression{Base: ast.Base{Id: id}, Cond: cond, Body: body}, true
}

func (p *Parser) ifExpr() (Token, bool) {
	if !p.peekKeyword("if") {
		return nil, false
	}
	id := p.fresh()
	p.consumeKeyword("if")

	readBranch := func() ast.CondBranch {
		cond := p.commandListUntilKeyword("then")
		if !p.consumeKeyword("then") {
			p.attach(id, diag.Error, "Expected 'then'")
		} else if b, ok := p.c.Current(); ok && b == ';' {
			p.attach(id, diag.Error, "No semicolons directly after `then`.")
			p.c.Advance()
		}
		body := p.commandListUntilKeyword("elif", "else", "fi")
		return ast.CondBranch{Cond: cond, Body: body}
	}

	branches := []ast.CondBranch{readBranch()}
	for p.peekKeyword("elif") {
		p.consumeKeyword("elif")
		branches = append(branches, readBranch())
	}

	var elseBody []Token
	hasElse := false
	if p.peekKeyword("else") {
		p.consumeKeyword("else")
		hasElse = true
		if b, ok := p.c.Current(); ok && b == ';' {
			p.attach(id, diag.Error, "No semicolons directly after `else`.")
			p.c.Advance()
		}
		elseBody = p.commandListUntilKeyword("fi")
	}
	if !p.consumeKeyword("fi") {
		p.attach(id, diag.Error, "Expected 'fi' to close the if statement")
	}
	return &ast.IfExpression{Base: ast.Base{Id: id}, Branches: branches, Else: elseBody, HasElse: hasElse}, true
}

// cStyleFor is the bash extension "for (( init; cond; post )); do ...
// done"; not part of the POSIX grammar, so gated on p.bash().
func (p *Parser) cStyleFor() (Token, bool) {
	if !p.bash() || !p.peekKeyword("for") {
		return nil, false
	}
	mark := p.c.Save()
	p.consumeKeyword("for")
	p.allSpacing()
	if !p.c.HasPrefix("((") {
		p.c.Restore(mark)
		return nil, false
	}
	id := p.fresh()
	p.c.Advance()
	p.c.Advance()

	readPart := func() Token {
		p.arithSpacing()
		if b, ok := p.c.Current(); ok && b == ';' {
			return nil
		}
		e, ok := p.arithSequence()
		if !ok {
			return nil
		}
		return e
	}
	initE := readPart()
	if !p.c.ConsumeIf(";") {
		p.attach(id, diag.Error, "Expected ';' in the C-style for header")
	}
	condE := readPart()
	if !p.c.ConsumeIf(";") {
		p.attach(id, diag.Error, "Expected ';' in the C-style for header")
	}
	postE := readPart()
	p.arithSpacing()
	if !p.c.HasPrefix("))") {
		p.attach(id, diag.Error, "Expected '))' to close the C-style for header")
	} else {
		p.c.Advance()
		p.c.Advance()
	}
	p.allSpacing()
	p.c.ConsumeIf(";")
	p.allSpacing()

	var body []Token
	if p.consumeKeyword("do") {
		body = p.commandListUntilKeyword("done")
		if !p.consumeKeyword("done") {
			p.attach(id, diag.Error, "Put a ; or linefeed before the done.")
		}
	} else {
		p.allSpacing()
		if grp, ok := p.braceGroup(); ok {
			if bg, ok := grp.(*ast.BraceGroup); ok {
				body = bg.Body
			}
		} else {
			p.attach(id, diag.Error, "Expected 'do' to start the loop body")
		}
	}
	return &ast.CStyleFor{Base: ast.Base{Id: id}, Init: initE, Cond: condE, Post: postE, Body: body}, true
}

func (p *Parser) forIn() (Token, bool) {
	if !p.peekKeyword("for") {
		return nil, false
	}
	id := p.fresh()
	p.consumeKeyword("for")
	p.spacing()
	nameStart := p.c.Offset()
	for {
		b, ok := p.c.Current()
		if !ok || !isVariableChar(b) {
			break
		}
		p.c.Advance()
	}
	name := string(p.srcSlice(nameStart, p.c.Offset()))
	if name == "" {
		p.attach(id, diag.Error, "Expected a variable name after 'for'")
	}
	p.allSpacing()

	var words []Token
	if p.peekKeyword("in") {
		p.consumeKeyword("in")
		for {
			p.spacing()
			if p.c.HasPrefix(";") || p.c.HasPrefix("\n") || p.peekKeyword("do") {
				break
			}
			w, ok := combinator.Try(p.c, p.word)
			if !ok {
				break
			}
			words = append(words, w)
		}
	}
	p.allSpacing()
	p.c.ConsumeIf(";")
	p.allSpacing()
	if !p.consumeKeyword("do") {
		p.attach(id, diag.Error, "Expected 'do' to start the loop body")
	}
	body := p.commandListUntilKeyword("done")
	if !p.consumeKeyword("done") {
		p.attach(id, diag.Error, "Put a ; or linefeed before the done.")
	}
	return &ast.ForIn{Base: ast.Base{Id: id}, Name: name, Words: words, Body: body}, true
}

func (p *Parser) caseExpr() (Token, bool) {
	if !p.peekKeyword("case") {
		return nil, false
	}
	id := p.fresh()
	p.consumeKeyword("case")
	p.spacing()
	word, ok := p.word()
	if !ok {
		p.attach(id, diag.Error, "Expected a word after 'case'")
		return &ast.CaseExpression{Base: ast.Base{Id: id}}, true
	}
	p.allSpacing()
	if !p.consumeKeyword("in") {
		p.attach(id, diag.Error, "Expected 'in' after the case word")
	}

	var arms []ast.CaseArm
	for {
		p.skipSpuriousSeparators()
		if p.peekKeyword("esac") || p.c.AtEOF() {
			break
		}
		arm, ok := p.caseArm()
		if !ok {
			break
		}
		arms = append(arms, arm)
	}
	if !p.consumeKeyword("esac") {
		p.attach(id, diag.Error, "Expected 'esac' to close the case statement")
	}
	return &ast.CaseExpression{Base: ast.Base{Id: id}, Word: word, Arms: arms}, true
}

func (p *Parser) caseArm() (ast.CaseArm, bool) {
	p.c.ConsumeIf("(")
	var patterns []Token
	for {
		p.spacing()
		w, ok := combinator.Try(p.c, p.word)
		if !ok {
			break
		}
		patterns = append(patterns, w)
		p.spacing()
		if p.c.ConsumeIf("|") {
			continue
		}
		break
	}
	if len(patterns) == 0 {
		return ast.CaseArm{}, false
	}
	p.spacing()
	if !p.c.ConsumeIf(")") {
		p.note(p.c.Pos(), diag.Error, "Expected ')' after the case pattern")
	}
	body := p.commandListUntilKeyword("esac", ";;", ";&", ";;&")

	terminator := ";;"
	switch {
	case p.peekKeyword(";;&"):
		p.consumeKeyword(";;&")
		terminator = ";;&"
	case p.peekKeyword(";&"):
		p.consumeKeyword(";&")
		terminator = ";&"
	case p.peekKeyword(";;"):
		p.consumeKeyword(";;")
	}
	return ast.CaseArm{Patterns: patterns, Body: body, Terminator: terminator}, true
}

// functionDef covers both "function name { ...; }" (with the bash
// keyword, flagged as an Info-level style nit since it's not POSIX)
// and the portable "name() { ...; }" form.
func (p *Parser) functionDef() (Token, bool) {
	mark := p.c.Save()
	id := p.fresh()
	usedKeyword := false
	if p.peekKeyword("function") {
		p.consumeKeyword("function")
		p.spacing()
		usedKeyword = true
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
	if name == "" {
		p.c.Restore(mark)
		return nil, false
	}
	p.spacing()
	hasParens := p.c.HasPrefix("()")
	if hasParens {
		p.c.Advance()
		p.c.Advance()
	} else if !usedKeyword {
		p.c.Restore(mark)
		return nil, false
	}
	if usedKeyword {
		p.attach(id, diag.Info, "Drop the keyword 'function'; it's not POSIX.")
	}
	p.allSpacing()
	// The name (and, for the portable form, the parens) are already
	// committed at this point, so a body that isn't a brace group is
	// reported on the function itself rather than backing the whole
	// rule out.
	body, ok := p.braceGroup()
	if !ok {
		p.attach(id, diag.Error, "Expected a { body } for the function definition.")
		return &ast.Function{Base: ast.Base{Id: id}, Name: name, Body: nil}, true
	}
	return &ast.Function{Base: ast.Base{Id: id}, Name: name, Body: body}, true
}
