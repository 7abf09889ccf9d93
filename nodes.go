package plotexpr

import (
	"strconv"
	"strings"
)

// node is a node in the expression tree. Constants and the variable have no
// children, function tags use only left, and operators use both.
type node struct {
	tok Token

	left  *node
	right *node
}

// arity returns the number of children a node of the given kind has, or -1 if
// the kind can't appear in a tree.
func arity(k TokenKind) int {
	switch {
	case k.IsValue():
		return 0
	case k.IsFunc():
		return 1
	case k.IsOp():
		return 2
	default:
		return -1
	}
}

func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b, false)
	return b.String()
}

func (n *node) fmt(b *strings.Builder, square bool) {
	var l, r byte = '(', ')'
	if square {
		l, r = '[', ']'
	}
	b.WriteByte(l)
	defer b.WriteByte(r)
	k := n.tok.Kind
	switch {
	case k == TokenConst:
		switch n.tok.Text {
		case "e", "pi":
			b.WriteString(n.tok.Text)
		default:
			b.WriteString(strconv.FormatFloat(n.tok.Value, 'g', -1, 64))
		}
	case k == TokenVar:
		b.WriteByte('x')
	case k.IsFunc():
		b.WriteString(funcnames[k])
		n.left.fmt(b, !square)
	case k.IsOp():
		n.left.fmt(b, !square)
		b.WriteByte(' ')
		b.WriteString(opsyms[k])
		b.WriteByte(' ')
		n.right.fmt(b, !square)
	default:
		panic("plotexpr: invalid node kind " + k.String() + " after writing " + b.String())
	}
}

var opsyms = [tokenKinds]string{
	TokenAdd: "+",
	TokenSub: "-",
	TokenMul: "*",
	TokenDiv: "/",
	TokenPow: "^",
}
