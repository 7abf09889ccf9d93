package plotexpr

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Token is a lexical unit of an expression.
type Token struct {
	// Kind is the kind of the token.
	Kind TokenKind
	// Value is the value of a TokenConst.
	Value float64
	// Text is the source text of the token. It is empty for multiplications
	// inserted between adjacent values.
	Text string
	// Pos is the 1-based rune column of the token in the input.
	Pos int
}

func (t Token) String() string {
	return t.Kind.String() + ":" + t.Text + "@" + strconv.Itoa(t.Pos)
}

// TokenKind identifies the kind of a token.
type TokenKind int8

const (
	TokenNone TokenKind = iota
	// TokenConst is a number, e, or pi.
	TokenConst
	// TokenVar is the variable x.
	TokenVar

	TokenAdd
	TokenSub
	TokenMul
	TokenDiv
	TokenPow

	// TokenOpen is an open bracket, either ( or the | starting an absolute
	// value group.
	TokenOpen
	// TokenClose is a close bracket, either ) or the | ending an absolute
	// value group.
	TokenClose

	// Function tags. Each applies to a single argument.
	TokenAbs
	TokenLn
	TokenLog
	TokenSin
	TokenCos
	TokenTan
	TokenSec
	TokenCsc
	TokenCot
	TokenAsin
	TokenAcos
	TokenAtan
	TokenSqrt

	tokenKinds
)

var kindnames = [tokenKinds]string{
	TokenNone:  "None",
	TokenConst: "Const",
	TokenVar:   "Var",
	TokenAdd:   "Add",
	TokenSub:   "Sub",
	TokenMul:   "Mul",
	TokenDiv:   "Div",
	TokenPow:   "Pow",
	TokenOpen:  "Open",
	TokenClose: "Close",
	TokenAbs:   "Abs",
	TokenLn:    "Ln",
	TokenLog:   "Log",
	TokenSin:   "Sin",
	TokenCos:   "Cos",
	TokenTan:   "Tan",
	TokenSec:   "Sec",
	TokenCsc:   "Csc",
	TokenCot:   "Cot",
	TokenAsin:  "Asin",
	TokenAcos:  "Acos",
	TokenAtan:  "Atan",
	TokenSqrt:  "Sqrt",
}

func (k TokenKind) String() string {
	if k < 0 || k >= tokenKinds {
		return "TokenKind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindnames[k]
}

// IsOp returns whether k is a binary operator.
func (k TokenKind) IsOp() bool {
	return TokenAdd <= k && k <= TokenPow
}

// IsFunc returns whether k is a function tag.
func (k TokenKind) IsFunc() bool {
	return TokenAbs <= k && k < tokenKinds
}

// IsValue returns whether k is a constant or the variable.
func (k TokenKind) IsValue() bool {
	return k == TokenConst || k == TokenVar
}

var opkinds = map[rune]TokenKind{
	'+': TokenAdd,
	'-': TokenSub,
	'*': TokenMul,
	'/': TokenDiv,
	'^': TokenPow,
}

type lexer struct {
	// src is the input with whitespace removed, and cols holds the column of
	// each rune of src in the original input.
	src  []rune
	cols []int
	i    int
	// end is the column just past the end of the input.
	end  int
	toks []Token
	// depth is the number of open brackets, including an open abs group.
	depth int
	// abs is the depth at which the open abs group started, or -1.
	abs int
	p   *parsectx
}

// Tokenize splits an expression into tokens, inserting multiplications between
// adjacent values. Whitespace is ignored entirely.
func Tokenize(src string, opts ...ParseOption) ([]Token, error) {
	p := newparsectx(opts)
	return tokenize(src, &p)
}

func tokenize(src string, p *parsectx) ([]Token, error) {
	l := lexer{abs: -1, p: p}
	col := 0
	for _, r := range src {
		col++
		if unicode.IsSpace(r) {
			continue
		}
		l.src = append(l.src, r)
		l.cols = append(l.cols, col)
	}
	l.end = col + 1
	for l.i < len(l.src) {
		if err := l.next(); err != nil {
			return nil, err
		}
	}
	return l.finish()
}

// last returns the kind of the last token scanned, or TokenNone.
func (l *lexer) last() TokenKind {
	if len(l.toks) == 0 {
		return TokenNone
	}
	return l.toks[len(l.toks)-1].Kind
}

// endsValue returns whether the last token completes a value, so that a
// following value is multiplied by it.
func (l *lexer) endsValue() bool {
	k := l.last()
	return k.IsValue() || k == TokenClose
}

// signPos returns whether a + or - at the cursor is a sign.
func (l *lexer) signPos() bool {
	k := l.last()
	return k == TokenNone || k.IsOp() || k == TokenOpen || k.IsFunc()
}

// operand appends a token that starts a value, preceded by a multiplication
// if the last token ends one.
func (l *lexer) operand(tok Token) error {
	if l.endsValue() {
		if l.p.explicit {
			return &OperatorError{Col: tok.Pos, Operator: tok.Text, Missing: true}
		}
		l.toks = append(l.toks, Token{Kind: TokenMul, Pos: tok.Pos})
	}
	l.toks = append(l.toks, tok)
	return nil
}

// dangling returns an error if the last token is an operator that a close
// bracket would leave without a right operand.
func (l *lexer) dangling() error {
	if !l.last().IsOp() {
		return nil
	}
	tok := l.toks[len(l.toks)-1]
	return &OperatorError{Col: tok.Pos, Operator: tok.Text, Dangling: true}
}

// match returns whether the input at the cursor begins with s.
func (l *lexer) match(s string) bool {
	i := l.i
	for _, r := range s {
		if i >= len(l.src) || l.src[i] != r {
			return false
		}
		i++
	}
	return true
}

func (l *lexer) next() error {
	r := l.src[l.i]
	col := l.cols[l.i]
	switch {
	case isnumrune(r):
		tok, err := l.number()
		if err != nil {
			return err
		}
		return l.operand(tok)
	case r == '+', r == '-':
		return l.sign(r)
	case r == '*', r == '/', r == '^':
		if !l.endsValue() {
			return &OperatorError{Col: col, Operator: string(r)}
		}
		l.i++
		l.toks = append(l.toks, Token{Kind: opkinds[r], Text: string(r), Pos: col})
		return nil
	case r == '(':
		l.i++
		l.depth++
		return l.operand(Token{Kind: TokenOpen, Text: "(", Pos: col})
	case r == ')':
		if l.depth == 0 {
			return &BracketError{Col: col, Right: ")"}
		}
		if l.depth-1 == l.abs {
			return &BracketError{Col: col, Left: "|", Right: ")"}
		}
		if err := l.dangling(); err != nil {
			return err
		}
		l.i++
		l.depth--
		l.toks = append(l.toks, Token{Kind: TokenClose, Text: ")", Pos: col})
		return nil
	case r == '|':
		return l.bar(col)
	case r == 'e':
		l.i++
		return l.operand(Token{Kind: TokenConst, Value: math.E, Text: "e", Pos: col})
	case r == 'x':
		l.i++
		return l.operand(Token{Kind: TokenVar, Text: "x", Pos: col})
	case r == 'p':
		if !l.match("pi") {
			return &LexError{Text: "p", Kind: "name", Col: col}
		}
		l.i += 2
		return l.operand(Token{Kind: TokenConst, Value: math.Pi, Text: "pi", Pos: col})
	case unicode.IsLetter(r):
		for _, k := range keywords {
			name := funcnames[k]
			if l.p.nofunc[k] || !l.match(name) {
				continue
			}
			l.i += len(name)
			return l.operand(Token{Kind: k, Text: name, Pos: col})
		}
		return &LexError{Text: l.word(), Kind: "name", Col: col}
	default:
		return &LexError{Text: string(r), Col: col}
	}
}

// word returns the run of letters at the cursor, for error messages.
func (l *lexer) word() string {
	var b strings.Builder
	for i := l.i; i < len(l.src) && unicode.IsLetter(l.src[i]); i++ {
		b.WriteRune(l.src[i])
	}
	return b.String()
}

// sign scans a + or -, which is either a binary operator or a sign.
func (l *lexer) sign(r rune) error {
	col := l.cols[l.i]
	if l.i == len(l.src)-1 {
		return &OperatorError{Col: col, Operator: string(r), Dangling: true}
	}
	if !l.signPos() {
		l.i++
		l.toks = append(l.toks, Token{Kind: opkinds[r], Text: string(r), Pos: col})
		return nil
	}
	if r == '+' && l.last().IsOp() {
		// A plus sign only ever starts an expression or group.
		return &OperatorError{Col: col, Operator: "+"}
	}
	if isnumrune(l.src[l.i+1]) {
		// Nothing that ends a value precedes a sign, so there is never an
		// implicit multiplication here.
		tok, err := l.number()
		if err != nil {
			return err
		}
		l.toks = append(l.toks, tok)
		return nil
	}
	switch l.last() {
	case TokenNone, TokenOpen:
		// -x -> -1*x. Nothing to the left can bind more tightly than the
		// multiplication, so this is safe only here.
		l.i++
		if r == '-' {
			l.toks = append(l.toks,
				Token{Kind: TokenConst, Value: -1, Text: "-", Pos: col},
				Token{Kind: TokenMul, Pos: col},
			)
		}
		return nil
	}
	return &OperatorError{Col: col, Operator: string(r)}
}

// bar scans a |, which opens an absolute value group if none is open and
// closes it otherwise.
func (l *lexer) bar(col int) error {
	if l.abs < 0 {
		if l.p.nofunc[TokenAbs] {
			return &LexError{Text: "|", Kind: "name", Col: col}
		}
		if err := l.operand(Token{Kind: TokenAbs, Text: "|", Pos: col}); err != nil {
			return err
		}
		l.i++
		l.toks = append(l.toks, Token{Kind: TokenOpen, Text: "|", Pos: col})
		l.abs = l.depth
		l.depth++
		return nil
	}
	if l.depth-1 != l.abs {
		return &BracketError{Col: col, Left: "(", Right: "|"}
	}
	if err := l.dangling(); err != nil {
		return err
	}
	l.i++
	l.depth--
	l.abs = -1
	l.toks = append(l.toks, Token{Kind: TokenClose, Text: "|", Pos: col})
	return nil
}

// number scans a numeric literal at the cursor, including a leading sign if
// there is one.
func (l *lexer) number() (Token, error) {
	var b strings.Builder
	tok := Token{Kind: TokenConst, Pos: l.cols[l.i]}
	if r := l.src[l.i]; r == '+' || r == '-' {
		b.WriteRune(r)
		l.i++
	}
	var dots, digits int
	for l.i < len(l.src) && isnumrune(l.src[l.i]) {
		r := l.src[l.i]
		if r == '.' {
			dots++
		} else {
			digits++
		}
		b.WriteRune(r)
		l.i++
	}
	tok.Text = b.String()
	if dots > 1 || digits == 0 {
		return tok, &LexError{Text: tok.Text, Kind: "number", Col: tok.Pos}
	}
	v, err := strconv.ParseFloat(tok.Text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return tok, &LexError{Text: tok.Text, Kind: "number", Col: tok.Pos}
	}
	// Out of range literals are ±Inf.
	tok.Value = v
	return tok, nil
}

func (l *lexer) finish() ([]Token, error) {
	if l.abs >= 0 {
		return nil, &BracketError{Col: l.end, Left: "|"}
	}
	if l.depth > 0 {
		return nil, &BracketError{Col: l.end, Left: "("}
	}
	if err := l.dangling(); err != nil {
		return nil, err
	}
	return l.toks, nil
}

func isnumrune(r rune) bool {
	return '0' <= r && r <= '9' || r == '.'
}

// LexError indicates an invalid token. It implements InputError.
type LexError struct {
	// Text is the text of the invalid token.
	Text string
	// Kind is the type of token the lexer was scanning. This may be "number",
	// "name", or the empty string if the character can't start any token.
	Kind string
	// Col is the column at which the invalid token starts.
	Col int
}

func (err *LexError) Error() string {
	pos := "column " + strconv.Itoa(err.Col)
	if err.Kind == "" {
		return "invalid token at " + pos + ": " + err.Text
	}
	return "invalid " + err.Kind + " token at " + pos + ": " + err.Text
}

func (err *LexError) Pos() int {
	return err.Col
}

func (err *LexError) Is(target error) bool {
	return target == ErrSyntax
}
