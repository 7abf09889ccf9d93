package plotexpr

// fold returns a copy of the tree rooted at n in which every subtree that does
// not involve x is replaced by a constant holding its value. n is unchanged.
func fold(n *node) *node {
	if n == nil {
		return nil
	}
	m := &node{tok: n.tok, left: fold(n.left), right: fold(n.right)}
	if arity(n.tok.Kind) == 0 {
		return m
	}
	if !m.left.isconst() || m.right != nil && !m.right.isconst() {
		return m
	}
	// The subtree has no variable, so the argument to eval is irrelevant.
	v := m.eval(0)
	return &node{tok: Token{Kind: TokenConst, Value: v, Pos: n.tok.Pos}}
}

func (n *node) isconst() bool {
	return n.tok.Kind == TokenConst
}
