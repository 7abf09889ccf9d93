package plotexpr

import (
	"strings"
	"unicode/utf8"
)

// Expression = Term { ('+' | '-') Term }       split at the rightmost operator
// Term       = Factor { ('*' | '/') Factor }   split at the rightmost operator
// Factor     = Function { '^' Function }       split at the leftmost operator
// Function   = '(' Expression ')' | functag Function | Primary
// Primary    = const | x
//
// Splitting at the rightmost operator makes + - * / left-associative, and
// splitting at the leftmost makes ^ right-associative.

// Expr is a parsed expression of x. It is safe for concurrent use.
type Expr struct {
	// src is the text the expression was parsed from, if any.
	src string
	// tree is the expression as parsed.
	tree *node
	// n is tree with every subexpression that doesn't involve x folded to a
	// constant.
	n *node
}

// Parse parses an expression. The given options are applied in order.
func Parse(src string, opts ...ParseOption) (*Expr, error) {
	p := newparsectx(opts)
	toks, err := tokenize(src, &p)
	if err != nil {
		return nil, err
	}
	e, err := parsetokens(toks, utf8.RuneCountInString(src)+1)
	if err != nil {
		return nil, err
	}
	e.src = src
	return e, nil
}

// ParseTokens parses an expression from tokens such as those returned by
// Tokenize. It does not insert implicit multiplications.
func ParseTokens(toks []Token) (*Expr, error) {
	end := 1
	if len(toks) > 0 {
		last := toks[len(toks)-1]
		end = last.Pos + utf8.RuneCountInString(last.Text)
	}
	return parsetokens(toks, end)
}

func parsetokens(toks []Token, end int) (*Expr, error) {
	p := parser{toks: toks, end: end}
	n, err := p.expr(0, len(toks))
	if err != nil {
		return nil, err
	}
	return &Expr{tree: n, n: fold(n)}, nil
}

// Source returns the text the expression was parsed from. It is empty for
// expressions from ParseTokens.
func (e *Expr) Source() string {
	return e.src
}

// String creates a string representation of the parsed expression, with
// alternating round and square brackets grouping each term.
func (e *Expr) String() string {
	var b strings.Builder
	e.tree.fmt(&b, false)
	return b.String()
}

// Folded is like String, but shows the expression after folding constant
// subexpressions.
func (e *Expr) Folded() string {
	return e.n.String()
}

// Const returns the value of the expression and true if it doesn't depend on
// x.
func (e *Expr) Const() (float64, bool) {
	if e.n.tok.Kind != TokenConst {
		return 0, false
	}
	return e.n.tok.Value, true
}

// parser splits a token list into a tree. Each production works on the tokens
// in [lo, hi).
type parser struct {
	toks []Token
	// end is the column just past the end of the input.
	end int
}

// empty creates the error for an empty subexpression ended by the token at i.
func (p *parser) empty(i int) error {
	if i >= len(p.toks) {
		return &EmptyExpressionError{Col: p.end}
	}
	return &EmptyExpressionError{Col: p.toks[i].Pos, End: text(p.toks[i])}
}

func (p *parser) expr(lo, hi int) (*node, error) {
	if lo >= hi {
		return nil, p.empty(hi)
	}
	k, err := p.lastop(lo, hi, TokenAdd, TokenSub)
	if err != nil {
		return nil, err
	}
	if k < 0 {
		return p.term(lo, hi)
	}
	return p.binary(k, lo, hi, p.expr, p.term)
}

func (p *parser) term(lo, hi int) (*node, error) {
	if lo >= hi {
		return nil, p.empty(hi)
	}
	k, err := p.lastop(lo, hi, TokenMul, TokenDiv)
	if err != nil {
		return nil, err
	}
	if k < 0 {
		return p.factor(lo, hi)
	}
	return p.binary(k, lo, hi, p.term, p.factor)
}

func (p *parser) factor(lo, hi int) (*node, error) {
	if lo >= hi {
		return nil, p.empty(hi)
	}
	k, err := p.firstop(lo, hi, TokenPow)
	if err != nil {
		return nil, err
	}
	if k < 0 {
		return p.function(lo, hi)
	}
	return p.binary(k, lo, hi, p.function, p.factor)
}

// binary creates an operator node for the token at k with operands parsed from
// either side of it.
func (p *parser) binary(k, lo, hi int, left, right func(lo, hi int) (*node, error)) (*node, error) {
	l, err := left(lo, k)
	if err != nil {
		return nil, err
	}
	r, err := right(k+1, hi)
	if err != nil {
		return nil, err
	}
	return &node{tok: p.toks[k], left: l, right: r}, nil
}

func (p *parser) function(lo, hi int) (*node, error) {
	if lo >= hi {
		return nil, p.empty(hi)
	}
	tok := p.toks[lo]
	switch k := tok.Kind; {
	case k == TokenOpen:
		m, err := p.match(lo, hi)
		if err != nil {
			return nil, err
		}
		if m != hi-1 {
			return nil, &StructureError{Col: p.toks[m+1].Pos, Token: text(p.toks[m+1])}
		}
		return p.expr(lo+1, m)
	case k.IsFunc():
		arg, err := p.function(lo+1, hi)
		if err != nil {
			return nil, err
		}
		return &node{tok: tok, left: arg}, nil
	}
	return p.primary(lo, hi)
}

func (p *parser) primary(lo, hi int) (*node, error) {
	tok := p.toks[lo]
	if !tok.Kind.IsValue() {
		return nil, &StructureError{Col: tok.Pos, Token: text(tok)}
	}
	if hi-lo != 1 {
		return nil, &StructureError{Col: p.toks[lo+1].Pos, Token: text(p.toks[lo+1])}
	}
	return &node{tok: tok}, nil
}

// lastop finds the rightmost token of kind a or b outside of brackets in
// [lo, hi), or -1 if there is none.
func (p *parser) lastop(lo, hi int, a, b TokenKind) (int, error) {
	depth := 0
	for i := hi - 1; i >= lo; i-- {
		switch k := p.toks[i].Kind; {
		case k == TokenClose:
			depth++
		case k == TokenOpen:
			depth--
			if depth < 0 {
				return -1, &BracketError{Col: p.toks[i].Pos, Left: p.toks[i].Text}
			}
		case depth == 0 && (k == a || k == b):
			return i, nil
		}
	}
	if depth > 0 {
		// Find the close bracket that has no match.
		_, err := p.firstop(lo, hi, TokenNone)
		return -1, err
	}
	return -1, nil
}

// firstop finds the leftmost token of kind k outside of brackets in [lo, hi),
// or -1 if there is none.
func (p *parser) firstop(lo, hi int, k TokenKind) (int, error) {
	depth := 0
	open := -1
	for i := lo; i < hi; i++ {
		switch p.toks[i].Kind {
		case TokenOpen:
			if depth == 0 {
				open = i
			}
			depth++
		case TokenClose:
			depth--
			if depth < 0 {
				return -1, &BracketError{Col: p.toks[i].Pos, Right: p.toks[i].Text}
			}
		case k:
			if depth == 0 && k != TokenNone {
				return i, nil
			}
		}
	}
	if depth > 0 {
		return -1, &BracketError{Col: p.toks[open].Pos, Left: p.toks[open].Text}
	}
	return -1, nil
}

// match finds the close bracket matching the open bracket at lo.
func (p *parser) match(lo, hi int) (int, error) {
	depth := 0
	for i := lo; i < hi; i++ {
		switch p.toks[i].Kind {
		case TokenOpen:
			depth++
		case TokenClose:
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return -1, &BracketError{Col: p.toks[lo].Pos, Left: p.toks[lo].Text}
}

// text returns a token's text, or its kind for tokens with no text.
func text(tok Token) string {
	if tok.Text != "" {
		return tok.Text
	}
	if tok.Kind.IsOp() {
		return opsyms[tok.Kind]
	}
	return tok.Kind.String()
}
