package plotexpr

import "testing"

func TestFold(t *testing.T) {
	// Each case gives the number of constants and the total number of nodes
	// left after folding.
	cases := []struct {
		src    string
		consts int
		size   int
	}{
		{"2+3*4", 1, 1},
		{"x", 0, 1},
		{"x+2*3", 1, 3},
		{"sin(pi/2)x", 1, 3},
		{"2x*3", 2, 5},
		{"|x-1|+sqrt(4)^2", 2, 6},
		{"-x", 1, 3},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			e, err := Parse(c.src)
			if err != nil {
				t.Fatalf("%q failed to parse: %v", c.src, err)
			}
			before := e.tree.String()
			n := fold(e.tree)
			if e.tree.String() != before {
				t.Errorf("folding changed the parsed tree from %s to %s", before, e.tree)
			}
			if d, f := n.diff(e.n); d != nil || f != nil {
				t.Errorf("folding twice gave different trees %v and %v", n, e.n)
			}
			if err := n.wellformed(); err != nil {
				t.Error(err)
			}
			var consts, size int
			n.walk(func(m *node) {
				size++
				if m.isconst() {
					consts++
				}
			})
			if consts != c.consts || size != c.size {
				t.Errorf("folded %v to %v with %d constants and %d nodes, want %d and %d", e.tree, n, consts, size, c.consts, c.size)
			}
			for _, x := range []float64{-2, 0.5, 3} {
				if a, b := e.tree.eval(x), n.eval(x); a != b {
					t.Errorf("at x=%g: parsed tree gives %g, folded gives %g", x, a, b)
				}
			}
		})
	}
}

// walk calls f on each node of the tree in preorder.
func (n *node) walk(f func(*node)) {
	if n == nil {
		return
	}
	f(n)
	n.left.walk(f)
	n.right.walk(f)
}
