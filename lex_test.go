package plotexpr

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestLex(t *testing.T) {
	var (
		lexerr   = (*LexError)(nil)
		operr    = (*OperatorError)(nil)
		brackerr = (*BracketError)(nil)
	)
	mul := func(pos int) Token { return Token{Kind: TokenMul, Pos: pos} }
	num := func(v float64, text string, pos int) Token {
		return Token{Kind: TokenConst, Value: v, Text: text, Pos: pos}
	}
	x := func(pos int) Token { return Token{Kind: TokenVar, Text: "x", Pos: pos} }
	cases := []struct {
		src    string
		tokens []Token
		err    error
	}{
		// spaces
		{"", nil, nil},
		{" \t \r\n ", nil, nil},
		// numbers
		{"0", []Token{num(0, "0", 1)}, nil},
		{"9876543210", []Token{num(9876543210, "9876543210", 1)}, nil},
		{"1.5", []Token{num(1.5, "1.5", 1)}, nil},
		{".5", []Token{num(0.5, ".5", 1)}, nil},
		{"5.", []Token{num(5, "5.", 1)}, nil},
		{"1 0", []Token{num(10, "10", 1)}, nil},
		{"1.2.3", nil, lexerr},
		{".", nil, lexerr},
		{"1..", nil, lexerr},
		// signs
		{"-1", []Token{num(-1, "-1", 1)}, nil},
		{"+1", []Token{num(1, "+1", 1)}, nil},
		{"3-1", []Token{num(3, "3", 1), {Kind: TokenSub, Text: "-", Pos: 2}, num(1, "1", 3)}, nil},
		{"3--1", []Token{num(3, "3", 1), {Kind: TokenSub, Text: "-", Pos: 2}, num(-1, "-1", 3)}, nil},
		{"x^-2", []Token{x(1), {Kind: TokenPow, Text: "^", Pos: 2}, num(-2, "-2", 3)}, nil},
		{"(+2)", []Token{{Kind: TokenOpen, Text: "(", Pos: 1}, num(2, "+2", 2), {Kind: TokenClose, Text: ")", Pos: 4}}, nil},
		{"(-2)", []Token{{Kind: TokenOpen, Text: "(", Pos: 1}, num(-2, "-2", 2), {Kind: TokenClose, Text: ")", Pos: 4}}, nil},
		{"sin-2", []Token{{Kind: TokenSin, Text: "sin", Pos: 1}, num(-2, "-2", 4)}, nil},
		{"-x", []Token{num(-1, "-", 1), mul(1), x(2)}, nil},
		{"+x", []Token{x(2)}, nil},
		{"(-x)", []Token{{Kind: TokenOpen, Text: "(", Pos: 1}, num(-1, "-", 2), mul(2), x(3), {Kind: TokenClose, Text: ")", Pos: 4}}, nil},
		{"2+-3", []Token{num(2, "2", 1), {Kind: TokenAdd, Text: "+", Pos: 2}, num(-3, "-3", 3)}, nil},
		{"2++3", nil, operr},
		{"x^+2", nil, operr},
		{"2^-x", nil, operr},
		{"--x", nil, operr},
		{"x-", nil, operr},
		{"x+ ", nil, operr},
		// operators
		{"*x", nil, operr},
		{"x**x", nil, operr},
		{"(/x)", nil, operr},
		{"sin^2", nil, operr},
		{"x^", nil, operr},
		{"(x*)", nil, operr},
		// names
		{"x", []Token{x(1)}, nil},
		{"e", []Token{num(math.E, "e", 1)}, nil},
		{"pi", []Token{num(math.Pi, "pi", 1)}, nil},
		{"pie", []Token{num(math.Pi, "pi", 1), mul(3), num(math.E, "e", 3)}, nil},
		{"sin x", []Token{{Kind: TokenSin, Text: "sin", Pos: 1}, x(5)}, nil},
		{"asin x", []Token{{Kind: TokenAsin, Text: "asin", Pos: 1}, x(6)}, nil},
		{"ln log", []Token{{Kind: TokenLn, Text: "ln", Pos: 1}, {Kind: TokenLog, Text: "log", Pos: 4}}, nil},
		{"exp", nil, lexerr},
		{"sinh", nil, lexerr},
		{"p", nil, lexerr},
		{"q", nil, lexerr},
		{"$", nil, lexerr},
		{"y", nil, lexerr},
		// implicit multiplication
		{"2x", []Token{num(2, "2", 1), mul(2), x(2)}, nil},
		{"2 x", []Token{num(2, "2", 1), mul(3), x(3)}, nil},
		{"2pi", []Token{num(2, "2", 1), mul(2), num(math.Pi, "pi", 2)}, nil},
		{"1e5", []Token{num(1, "1", 1), mul(2), num(math.E, "e", 2), mul(3), num(5, "5", 3)}, nil},
		{"2(x)", []Token{num(2, "2", 1), mul(2), {Kind: TokenOpen, Text: "(", Pos: 2}, x(3), {Kind: TokenClose, Text: ")", Pos: 4}}, nil},
		{"(x)(x)", []Token{
			{Kind: TokenOpen, Text: "(", Pos: 1}, x(2), {Kind: TokenClose, Text: ")", Pos: 3},
			mul(4),
			{Kind: TokenOpen, Text: "(", Pos: 4}, x(5), {Kind: TokenClose, Text: ")", Pos: 6},
		}, nil},
		{"(x)2", []Token{{Kind: TokenOpen, Text: "(", Pos: 1}, x(2), {Kind: TokenClose, Text: ")", Pos: 3}, mul(4), num(2, "2", 4)}, nil},
		{"x sin(x)", []Token{
			x(1), mul(3), {Kind: TokenSin, Text: "sin", Pos: 3},
			{Kind: TokenOpen, Text: "(", Pos: 6}, x(7), {Kind: TokenClose, Text: ")", Pos: 8},
		}, nil},
		{"xx", []Token{x(1), mul(2), x(2)}, nil},
		// abs groups
		{"|x|", []Token{
			{Kind: TokenAbs, Text: "|", Pos: 1}, {Kind: TokenOpen, Text: "|", Pos: 1}, x(2), {Kind: TokenClose, Text: "|", Pos: 3},
		}, nil},
		{"|x||x|", []Token{
			{Kind: TokenAbs, Text: "|", Pos: 1}, {Kind: TokenOpen, Text: "|", Pos: 1}, x(2), {Kind: TokenClose, Text: "|", Pos: 3},
			mul(4),
			{Kind: TokenAbs, Text: "|", Pos: 4}, {Kind: TokenOpen, Text: "|", Pos: 4}, x(5), {Kind: TokenClose, Text: "|", Pos: 6},
		}, nil},
		{"2|x|", []Token{
			num(2, "2", 1), mul(2),
			{Kind: TokenAbs, Text: "|", Pos: 2}, {Kind: TokenOpen, Text: "|", Pos: 2}, x(3), {Kind: TokenClose, Text: "|", Pos: 4},
		}, nil},
		{"|x-|", nil, operr},
		// brackets
		{"()", []Token{{Kind: TokenOpen, Text: "(", Pos: 1}, {Kind: TokenClose, Text: ")", Pos: 2}}, nil},
		{"x)", nil, brackerr},
		{"(x", nil, brackerr},
		{"((x)", nil, brackerr},
		{"|x", nil, brackerr},
		{"|(x|)", nil, brackerr},
		{"(|x)|", nil, brackerr},
	}

	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			toks, err := Tokenize(c.src)
			if c.err != nil {
				if err == nil {
					t.Fatalf("scanning %q: expected %T but got tokens %v", c.src, c.err, toks)
				}
				if reflect.TypeOf(err) != reflect.TypeOf(c.err) {
					t.Errorf("scanning %q: wrong error type: want %T, got %#v", c.src, c.err, err)
				}
				if !errors.Is(err, ErrSyntax) {
					t.Errorf("scanning %q: %v is not ErrSyntax", c.src, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("scanning %q: unexpected error %v", c.src, err)
			}
			if len(toks) != len(c.tokens) {
				t.Fatalf("scanning %q: want %v, got %v", c.src, c.tokens, toks)
			}
			for i, want := range c.tokens {
				if got := toks[i]; got != want {
					t.Errorf("scanning %q: token %d: want %v (%g), got %v (%g)", c.src, i, want, want.Value, got, got.Value)
				}
			}
		})
	}
}

func TestLexErrorPos(t *testing.T) {
	cases := []struct {
		src string
		pos int
	}{
		{"$", 1},
		{"x + $", 5},
		{"2 ** x", 4},
		{"1.2.3 + x", 1},
		{"x)", 2},
		{"(x", 3},
		{"| x", 4},
		{"x -", 3},
		{"sinq", 4},
		{"x + q", 5},
		{"2 + +3", 5},
	}
	for _, c := range cases {
		_, err := Tokenize(c.src)
		var ie InputError
		if !errors.As(err, &ie) {
			t.Errorf("%q: %v is not an InputError", c.src, err)
			continue
		}
		if got := ie.Pos(); got != c.pos {
			t.Errorf("%q: wrong position for %v: want %d, got %d", c.src, err, c.pos, got)
		}
	}
}

func TestLexOptions(t *testing.T) {
	cases := []struct {
		name string
		src  string
		opts []ParseOption
		ok   bool
	}{
		{"explicit-ok", "2*x", []ParseOption{ExplicitMultiplication()}, true},
		{"explicit-num", "2x", []ParseOption{ExplicitMultiplication()}, false},
		{"explicit-paren", "x(x)", []ParseOption{ExplicitMultiplication()}, false},
		{"explicit-abs", "x|x|", []ParseOption{ExplicitMultiplication()}, false},
		{"explicit-neg", "-x", []ParseOption{ExplicitMultiplication()}, true},
		{"nofunc", "sin x", []ParseOption{DisableFuncs("sin")}, false},
		{"nofunc-other", "cos x", []ParseOption{DisableFuncs("sin")}, true},
		{"nofunc-prefix", "asin x", []ParseOption{DisableFuncs("sin")}, true},
		{"nofunc-abs", "|x|", []ParseOption{DisableFuncs("abs")}, false},
		{"nofunc-many", "ln x", []ParseOption{DisableFuncs("sqrt"), DisableFuncs("ln", "log")}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Tokenize(c.src, c.opts...)
			if c.ok && err != nil {
				t.Errorf("%q: unexpected error %v", c.src, err)
			}
			if !c.ok && !errors.Is(err, ErrSyntax) {
				t.Errorf("%q: want syntax error, got %v", c.src, err)
			}
		})
	}
}

func TestDisableUnknownFunc(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("no panic disabling an unknown function")
		}
	}()
	DisableFuncs("sinh")
}

func TestKeywordsComplete(t *testing.T) {
	for k := TokenKind(0); k < tokenKinds; k++ {
		if !k.IsFunc() {
			if funcs[k] != nil || funcnames[k] != "" {
				t.Errorf("%v is not a function but has an implementation or name", k)
			}
			continue
		}
		if funcs[k] == nil {
			t.Errorf("no implementation for %v", k)
		}
		if funcnames[k] == "" {
			t.Errorf("no name for %v", k)
		}
	}
	if len(Funcs()) != len(funckinds) {
		t.Errorf("Funcs has %d names but there are %d functions", len(Funcs()), len(funckinds))
	}
}
