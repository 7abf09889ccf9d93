package plotexpr

import "math"

// funcs holds the implementation of each function tag. Arguments and results
// of trigonometric functions are in radians.
var funcs = [tokenKinds]func(float64) float64{
	TokenAbs:  math.Abs,
	TokenLn:   math.Log,
	TokenLog:  math.Log10,
	TokenSin:  math.Sin,
	TokenCos:  math.Cos,
	TokenTan:  math.Tan,
	TokenSec:  func(x float64) float64 { return 1 / math.Cos(x) },
	TokenCsc:  func(x float64) float64 { return 1 / math.Sin(x) },
	TokenCot:  func(x float64) float64 { return 1 / math.Tan(x) },
	TokenAsin: math.Asin,
	TokenAcos: math.Acos,
	TokenAtan: math.Atan,
	TokenSqrt: math.Sqrt,
}

var funcnames = [tokenKinds]string{
	TokenAbs:  "abs",
	TokenLn:   "ln",
	TokenLog:  "log",
	TokenSin:  "sin",
	TokenCos:  "cos",
	TokenTan:  "tan",
	TokenSec:  "sec",
	TokenCsc:  "csc",
	TokenCot:  "cot",
	TokenAsin: "asin",
	TokenAcos: "acos",
	TokenAtan: "atan",
	TokenSqrt: "sqrt",
}

// keywords is the order in which the lexer tries function names. abs is
// written only as |x|, so it has no keyword.
var keywords = []TokenKind{
	TokenAsin, TokenAcos, TokenAtan, TokenSqrt,
	TokenSin, TokenCos, TokenTan, TokenSec, TokenCsc, TokenCot,
	TokenLog, TokenLn,
}

var funckinds = func() map[string]TokenKind {
	m := make(map[string]TokenKind)
	for k, name := range funcnames {
		if name != "" {
			m[name] = TokenKind(k)
		}
	}
	return m
}()

// Funcs returns the names of the functions the parser understands, in the
// order the lexer tries them, followed by abs.
func Funcs() []string {
	r := make([]string, 0, len(keywords)+1)
	for _, k := range keywords {
		r = append(r, funcnames[k])
	}
	return append(r, funcnames[TokenAbs])
}
