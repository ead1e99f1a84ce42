// Package ast defines the tagged-sum syntax tree produced by a parse,
// the per-node metadata it is keyed by, and a depth-first Walk over it.
//
// Every node variant embeds Base, which carries the node's Id and
// nothing else: the tree itself holds no positions or notes. Those live
// in the Map returned alongside the tree, keyed by Id, so that
// diagnostics recorded along abandoned parse attempts stay reachable
// even after the attempt that produced them is discarded.
package ast

import (
	"fmt"

	"github.com/lintshell/shsyntax/diag"
)

// Id is a monotonically increasing tag assigned to every node at
// creation. It is unique within one parse and is the key into Map.
type Id int

func (id Id) String() string { return fmt.Sprintf("Id(%d)", int(id)) }

// Metadata is the per-node record a Map entry holds: the position the
// node was created at, and its notes in reverse insertion order (most
// recently attached first; consumers sort by severity/position instead
// of relying on this order).
type Metadata struct {
	Position diag.Position
	Notes    []diag.Note
}

// Map is the Id -> Metadata table threaded through a single parse.
type Map map[Id]*Metadata

// NotesFlattened turns every node's attached notes into position-bearing
// ParseNotes, using each node's recorded Metadata.Position.
func (m Map) NotesFlattened() []diag.ParseNote {
	var out []diag.ParseNote
	for _, md := range m {
		for _, n := range md.Notes {
			out = append(out, diag.ParseNote{
				Position: md.Position,
				Severity: n.Severity,
				Message:  n.Message,
			})
		}
	}
	return out
}

// Ids returns the set of identifiers present as keys, for the
// "tree identifiers == metadata keys" invariant check.
func (m Map) Ids() map[Id]bool {
	out := make(map[Id]bool, len(m))
	for id := range m {
		out[id] = true
	}
	return out
}

// Token is the tagged sum every AST node implements. Consumers are
// expected to type-switch on the concrete variant; there is no virtual
// dispatch beyond TokenID.
type Token interface {
	TokenID() Id
	tokenNode()
}

// Base is embedded by every Token variant to supply the shared Id
// header field and satisfy the tokenNode marker.
type Base struct {
	Id Id
}

func (b Base) TokenID() Id { return b.Id }
func (Base) tokenNode()    {}

// ConditionKind records which bracket form a condition subtree was
// parsed from, carried by every node under a Condition so diagnostics
// can tell "[" mistakes from "[[" mistakes.
type ConditionKind int

const (
	SingleBracket ConditionKind = iota
	DoubleBracket
)

func (k ConditionKind) String() string {
	if k == DoubleBracket {
		return "[[..]]"
	}
	return "[..]"
}

// --- script root ---

type Script struct {
	Base
	Body     []Token
	Comments []Comment
}

// Comment is only populated when a parse requests IncludeComments; it
// is not part of the Token sum (comments are not syntax tree nodes).
type Comment struct {
	Position diag.Position
	Text     string
}

// --- command lists ---

type AndIf struct {
	Base
	L, R Token
}

type OrIf struct {
	Base
	L, R Token
}

type Banged struct {
	Base
	Pipeline Token
}

type Backgrounded struct {
	Base
	Cmd Token
}

type Pipeline struct {
	Base
	List []Token
}

// --- commands ---

type Redirecting struct {
	Base
	Redirs []*FdRedirect
	Cmd    Token
}

type SimpleCommand struct {
	Base
	Assignments []*Assignment
	Words       []Token
}

// --- compounds ---

type BraceGroup struct {
	Base
	Body []Token
}

type Subshell struct {
	Base
	Body []Token
}

// CondBranch is one (condition, body) pair of an IfExpression: the
// initial "if" test and every "elif" that follows share this shape.
type CondBranch struct {
	Cond []Token
	Body []Token
}

type IfExpression struct {
	Base
	Branches []CondBranch
	Else     []Token
	HasElse  bool
}

type WhileExpression struct {
	Base
	Cond []Token
	Body []Token
}

type UntilExpression struct {
	Base
	Cond []Token
	Body []Token
}

type ForIn struct {
	Base
	Name  string
	Words []Token
	Body  []Token
}

// CStyleFor is the `for (( init; cond; post ))` variant bash adds on
// top of POSIX `for name in words`; not named in spec.md's ForIn but
// required for a complete command grammar (see DESIGN.md).
type CStyleFor struct {
	Base
	Init, Cond, Post Token
	Body             []Token
}

type CaseArm struct {
	Patterns []Token
	Body     []Token
	// Terminator is one of ";;", ";&", ";;&" (bash extension); ";;" if
	// the arm precedes esac without an explicit terminator.
	Terminator string
}

type CaseExpression struct {
	Base
	Word Token
	Arms []CaseArm
}

type Function struct {
	Base
	Name string
	Body Token
}

type Condition struct {
	Base
	Kind ConditionKind
	Expr Token
}

type Arithmetic struct {
	Base
	Expr Token
}

// --- redirections ---

type FdRedirect struct {
	Base
	Fd     string // empty if no explicit fd number preceded the operator
	Target Token
}

type IoFile struct {
	Base
	Op   string
	File Token
}

type HereDoc struct {
	Base
	Dashed bool
	Quoted bool
	Body   string
}

type HereString struct {
	Base
	Word Token
}

// --- words ---

type NormalWord struct {
	Base
	Parts []Token
}

type Literal struct {
	Base
	Value string
}

type SingleQuoted struct {
	Base
	Value string
}

type DoubleQuoted struct {
	Base
	Parts []Token
}

// DollarBraced is deliberately shallow: its Content is the raw interior
// text of ${...}, not a structured parameter-expansion parse. This
// mirrors the source's own conservative shape; see spec.md's Open
// Questions and DESIGN.md.
type DollarBraced struct {
	Base
	Content string
}

// DollarExpansion is $(...): a nested command list.
type DollarExpansion struct {
	Base
	Body []Token
}

type DollarArithmetic struct {
	Base
	Expr Token
}

type Extglob struct {
	Base
	Kind         byte // one of ? * @ ! +
	Alternatives [][]Token
}

type BraceExpansion struct {
	Base
	Value string
}

type Assignment struct {
	Base
	Name   string
	Append bool
	Value  Token // NormalWord or Array
}

type Array struct {
	Base
	Words []Token
}

// --- condition-expr ---

type TCAnd struct {
	Base
	Kind ConditionKind
	L, R Token
}

type TCOr struct {
	Base
	Kind ConditionKind
	L, R Token
}

type TCNot struct {
	Base
	Kind ConditionKind
	X    Token
}

type TCBinary struct {
	Base
	Kind ConditionKind
	Op   string
	L, R Token
}

type TCUnary struct {
	Base
	Kind ConditionKind
	Op   string
	X    Token
}

type TCNoary struct {
	Base
	Kind ConditionKind
	Word Token
}

type TCGroup struct {
	Base
	Kind ConditionKind
	X    Token
}

// --- arithmetic-expr ---

type TASequence struct {
	Base
	Exprs []Token
}

type TABinary struct {
	Base
	Op   string
	L, R Token
}

type TATrinary struct {
	Base
	Cond, T, F Token
}

type TAUnary struct {
	Base
	Op string
	X  Token
}

type TAVariable struct {
	Base
	Name string
}

type TAExpansion struct {
	Base
	Word Token
}

type TALiteral struct {
	Base
	Value string
}

