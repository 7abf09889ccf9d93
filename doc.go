// Package plotexpr implements the expression engine behind a function grapher.
//
// The syntax is what people type into a graphing calculator. "2x" is a
// multiplication, as are "2(x+1)", "x sin x", and "|x|pi". Whitespace is
// ignored entirely, so "x sin(x)" and "xsin(x)" are the same expression.
// There is exactly one variable, x.
//
// The operators are + - * / and ^, with the usual precedence. ^ groups to
// the right, and the rest group to the left. Functions apply to the single
// value or bracketed group after them, so "sin 2x" is (sin 2)*x. |...| is
// absolute value. The names e and pi are constants.
//
// Parse an expression once, then evaluate it for many inputs with Eval or
// produce a whole sample buffer for a viewport with Sample. Parts of an
// expression that don't depend on x are computed once, at parse time.
// Results outside a function's domain are NaN or infinite rather than errors.
package plotexpr
