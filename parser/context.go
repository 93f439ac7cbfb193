// Package parser implements the recursive-descent SQL parser: token stream
// to statement list, with a precedence-climbing expression sub-parser.
package parser

import "github.com/rrdb/rrdb/token"

// Context carries parsing state that individual statement/expression
// parsers consult: the connection's default database, and flags describing
// the syntactic position currently being parsed.
type Context struct {
	DefaultDatabase  *string
	InParentheses    bool
	InBetweenClause  bool
	InAggregate      bool
}

// tokenQueue is a double-ended queue over a token slice, supporting peek,
// pop, and push-back, as spec.md §4.2 requires.
type tokenQueue struct {
	toks []token.Token
	pos  int
}

// newTokenQueue builds a queue over toks with CodeComment tokens dropped:
// the lexer emits them so comments remain visible in the raw token stream
// (lexer_test.go), but the grammar itself never references that kind, so
// they are filtered here rather than threaded through every parser.
func newTokenQueue(toks []token.Token) *tokenQueue {
	filtered := make([]token.Token, 0, len(toks))
	for _, t := range toks {
		if t.Kind == token.CodeComment {
			continue
		}
		filtered = append(filtered, t)
	}
	return &tokenQueue{toks: filtered}
}

func (q *tokenQueue) peek() token.Token {
	if q.pos >= len(q.toks) {
		return token.Token{Kind: token.EOF}
	}
	return q.toks[q.pos]
}

func (q *tokenQueue) peekAt(offset int) token.Token {
	idx := q.pos + offset
	if idx >= len(q.toks) {
		return token.Token{Kind: token.EOF}
	}
	return q.toks[idx]
}

func (q *tokenQueue) pop() token.Token {
	t := q.peek()
	if q.pos < len(q.toks) {
		q.pos++
	}
	return t
}

func (q *tokenQueue) pushBack() {
	if q.pos > 0 {
		q.pos--
	}
}

func (q *tokenQueue) atEOF() bool {
	return q.peek().Kind == token.EOF
}
