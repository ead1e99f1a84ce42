// Package combinator provides the generic ordered-choice, sequencing,
// repetition, and operator-chaining building blocks the grammar is
// written with. It is parameterized with generics over both the
// cursor's snapshot type and the result type of whatever rule is being
// combined — the idiomatic Go 1.18+ rendition of the parser-combinator
// core described in the specification, generalized out of the
// hand-rolled recursive-descent control flow mvdan-sh inlines directly
// into its parser methods (syntax/parser.go's got/gotRsrv/stmts and
// friends never factor this out, since Go before generics had no clean
// way to).
//
// Contract: when an alternative is discarded, only the cursor rewinds.
// Callers must not undo identifier allocation or note emission from a
// speculative branch; that bookkeeping lives outside this package, in
// the threaded parser state, precisely so Try and Choice never touch
// it.
package combinator

// Cursor is the minimal snapshot/restore surface this package needs.
// cursor.Cursor satisfies it with M = cursor.Mark.
type Cursor[M any] interface {
	Mark() M
	Reset(M)
}

// Try runs fn and rewinds the cursor if fn reports failure. It never
// touches parser state (ids/notes), only the cursor.
func Try[M any, T any](c Cursor[M], fn func() (T, bool)) (T, bool) {
	mark := c.Mark()
	v, ok := fn()
	if !ok {
		c.Reset(mark)
	}
	return v, ok
}

// Choice tries each alternative in order, backtracking between them,
// and returns the first success.
func Choice[M any, T any](c Cursor[M], alts ...func() (T, bool)) (T, bool) {
	for _, alt := range alts {
		if v, ok := Try(c, alt); ok {
			return v, ok
		}
	}
	var zero T
	return zero, false
}

// Lookahead runs fn purely to test whether it would succeed, always
// rewinding the cursor regardless of outcome. Used to build
// non-consuming end predicates for ReluctantTill.
func Lookahead[M any](c Cursor[M], fn func() bool) bool {
	mark := c.Mark()
	ok := fn()
	c.Reset(mark)
	return ok
}

// Opt runs fn and reports its result; on failure the zero value is
// returned. Opt itself never backtracks — fn is expected to already be
// wrapped in Try if it can partially consume input before failing.
func Opt[T any](fn func() (T, bool)) (T, bool) {
	v, ok := fn()
	if !ok {
		var zero T
		return zero, false
	}
	return v, true
}

// Many runs fn until it fails, collecting successes. Each attempt that
// can partially consume before failing must already be wrapped in Try
// by the caller, matching the "an alternative must not have consumed
// input on failure, or must be wrapped in try" contract.
func Many[T any](fn func() (T, bool)) []T {
	var out []T
	for {
		v, ok := fn()
		if !ok {
			return out
		}
		out = append(out, v)
	}
}

// Many1 is Many but requires at least one success.
func Many1[T any](fn func() (T, bool)) ([]T, bool) {
	items := Many(fn)
	return items, len(items) > 0
}

// ReluctantTill greedily applies p, stopping as soon as end's lookahead
// succeeds, without ever consuming what end matched. end must be
// non-consuming (build it with Lookahead, or have it already restore
// the cursor itself).
func ReluctantTill[M any, T any](c Cursor[M], p func() (T, bool), end func() bool) []T {
	var out []T
	for {
		if end() {
			return out
		}
		mark := c.Mark()
		v, ok := p()
		if !ok {
			c.Reset(mark)
			return out
		}
		out = append(out, v)
	}
}

// ChainLeft parses one term, then repeatedly tries to extend it: ext
// receives the accumulated left value and returns a new accumulated
// value plus whether it extended anything. This folds left-associative
// binary operators without recursion.
func ChainLeft[T any](term func() (T, bool), ext func(left T) (T, bool)) (T, bool) {
	left, ok := term()
	if !ok {
		return left, false
	}
	for {
		next, extended := ext(left)
		if !extended {
			return left, true
		}
		left = next
	}
}

// ChainRight parses one term, then tries once to extend it with an
// operator and a right-hand side that is itself the result of a
// recursive ChainRight call; rhs is expected to close over that
// recursion so this package doesn't need to know the term/op shape.
func ChainRight[T any](term func() (T, bool), rhs func(left T) (T, bool)) (T, bool) {
	left, ok := term()
	if !ok {
		return left, false
	}
	if right, extended := rhs(left); extended {
		return right, true
	}
	return left, true
}
