package plotexpr

import "strconv"

// ParseOption is an option for tokenizing and parsing.
type ParseOption interface {
	parseOption(parsectx) parsectx
}

type (
	explicitopt struct{}
	nofuncopt   []TokenKind
)

// parsectx holds the settings for one parse.
type parsectx struct {
	// explicit disables implicit multiplication.
	explicit bool
	// nofunc is the set of function tags whose names are not recognized.
	nofunc [tokenKinds]bool
}

func newparsectx(opts []ParseOption) parsectx {
	var p parsectx
	for _, opt := range opts {
		p = opt.parseOption(p)
	}
	return p
}

// ExplicitMultiplication disables implicit multiplication. Adjacent values
// like "2x" become an error instead.
func ExplicitMultiplication() ParseOption {
	return explicitopt{}
}

func (explicitopt) parseOption(p parsectx) parsectx {
	p.explicit = true
	return p
}

// DisableFuncs disables functions by name, so that using them is an error.
// Passing "abs" disables |x| groups. Panics if any name is not a function.
func DisableFuncs(names ...string) ParseOption {
	o := make(nofuncopt, 0, len(names))
	for _, name := range names {
		k, ok := funckinds[name]
		if !ok {
			panic("plotexpr: no function named " + strconv.Quote(name))
		}
		o = append(o, k)
	}
	return o
}

func (o nofuncopt) parseOption(p parsectx) parsectx {
	for _, k := range o {
		p.nofunc[k] = true
	}
	return p
}
