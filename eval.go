package plotexpr

import "math"

// Eval evaluates the expression at x. Results outside a function's domain,
// like ln(-1) or 1/0, are NaN or infinite as IEEE-754 arithmetic gives them.
func (e *Expr) Eval(x float64) float64 {
	return e.n.eval(x)
}

func (n *node) eval(x float64) float64 {
	switch k := n.tok.Kind; k {
	case TokenConst:
		return n.tok.Value
	case TokenVar:
		return x
	case TokenAdd:
		return n.left.eval(x) + n.right.eval(x)
	case TokenSub:
		return n.left.eval(x) - n.right.eval(x)
	case TokenMul:
		return n.left.eval(x) * n.right.eval(x)
	case TokenDiv:
		return n.left.eval(x) / n.right.eval(x)
	case TokenPow:
		return math.Pow(n.left.eval(x), n.right.eval(x))
	default:
		if k.IsFunc() {
			return funcs[k](n.left.eval(x))
		}
		panic("plotexpr: invalid AST node " + n.tok.String())
	}
}

// EvalString is a shortcut to parse an expression and evaluate it at x.
func EvalString(src string, x float64) (float64, error) {
	e, err := Parse(src)
	if err != nil {
		return 0, err
	}
	return e.Eval(x), nil
}
