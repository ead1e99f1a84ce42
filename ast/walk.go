package ast

// Walk traverses the tree depth-first, calling fn on node and then,
// if fn returns true, on each of node's children. It is pure traversal:
// no semantic analysis, grounded in the shape of a conventional
// depth-first AST visitor (the kind every tree-shaped IR in this
// corpus exposes to its consumers).
func Walk(node Token, fn func(Token) bool) {
	if node == nil || !fn(node) {
		return
	}
	switch x := node.(type) {
	case *Script:
		walkAll(x.Body, fn)
	case *AndIf:
		Walk(x.L, fn)
		Walk(x.R, fn)
	case *OrIf:
		Walk(x.L, fn)
		Walk(x.R, fn)
	case *Banged:
		Walk(x.Pipeline, fn)
	case *Backgrounded:
		Walk(x.Cmd, fn)
	case *Pipeline:
		walkAll(x.List, fn)
	case *Redirecting:
		for _, r := range x.Redirs {
			Walk(r, fn)
		}
		Walk(x.Cmd, fn)
	case *SimpleCommand:
		for _, a := range x.Assignments {
			Walk(a, fn)
		}
		walkAll(x.Words, fn)
	case *BraceGroup:
		walkAll(x.Body, fn)
	case *Subshell:
		walkAll(x.Body, fn)
	case *IfExpression:
		for _, b := range x.Branches {
			walkAll(b.Cond, fn)
			walkAll(b.Body, fn)
		}
		walkAll(x.Else, fn)
	case *WhileExpression:
		walkAll(x.Cond, fn)
		walkAll(x.Body, fn)
	case *UntilExpression:
		walkAll(x.Cond, fn)
		walkAll(x.Body, fn)
	case *ForIn:
		walkAll(x.Words, fn)
		walkAll(x.Body, fn)
	case *CStyleFor:
		Walk(x.Init, fn)
		Walk(x.Cond, fn)
		Walk(x.Post, fn)
		walkAll(x.Body, fn)
	case *CaseExpression:
		Walk(x.Word, fn)
		for _, arm := range x.Arms {
			walkAll(arm.Patterns, fn)
			walkAll(arm.Body, fn)
		}
	case *Function:
		Walk(x.Body, fn)
	case *Condition:
		Walk(x.Expr, fn)
	case *Arithmetic:
		Walk(x.Expr, fn)
	case *FdRedirect:
		Walk(x.Target, fn)
	case *IoFile:
		Walk(x.File, fn)
	case *HereDoc:
		// body is raw text, not a sub-tree
	case *HereString:
		Walk(x.Word, fn)
	case *NormalWord:
		walkAll(x.Parts, fn)
	case *Literal:
	case *SingleQuoted:
	case *DoubleQuoted:
		walkAll(x.Parts, fn)
	case *DollarBraced:
	case *DollarExpansion:
		walkAll(x.Body, fn)
	case *DollarArithmetic:
		Walk(x.Expr, fn)
	case *Extglob:
		for _, alt := range x.Alternatives {
			walkAll(alt, fn)
		}
	case *BraceExpansion:
	case *Assignment:
		Walk(x.Value, fn)
	case *Array:
		walkAll(x.Words, fn)
	case *TCAnd:
		Walk(x.L, fn)
		Walk(x.R, fn)
	case *TCOr:
		Walk(x.L, fn)
		Walk(x.R, fn)
	case *TCNot:
		Walk(x.X, fn)
	case *TCBinary:
		Walk(x.L, fn)
		Walk(x.R, fn)
	case *TCUnary:
		Walk(x.X, fn)
	case *TCNoary:
		Walk(x.Word, fn)
	case *TCGroup:
		Walk(x.X, fn)
	case *TASequence:
		walkAll(x.Exprs, fn)
	case *TABinary:
		Walk(x.L, fn)
		Walk(x.R, fn)
	case *TATrinary:
		Walk(x.Cond, fn)
		Walk(x.T, fn)
		Walk(x.F, fn)
	case *TAUnary:
		Walk(x.X, fn)
	case *TAVariable:
	case *TAExpansion:
		Walk(x.Word, fn)
	case *TALiteral:
	}
}

func walkAll(nodes []Token, fn func(Token) bool) {
	for _, n := range nodes {
		Walk(n, fn)
	}
}
