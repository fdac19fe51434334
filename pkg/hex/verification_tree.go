package hex

// ExternalAtomVerificationTree is a trie over literals of external-atom
// input/output nogoods, used during propagation to batch-verify which
// replacement auxiliaries are forced true or false by the current
// partial assignment. It is grounded on pldb.go's predicate-indexed
// lookup-tree idiom, specialized to literal sequences instead of fact
// tuples.
type ExternalAtomVerificationTree struct {
	root *vtNode
}

type vtNode struct {
	children map[Id]*vtNode
	// shapes ending at this node: each maps to the replacement
	// auxiliary (output) atom it forces, signed by whether the IO
	// nogood asserts it true or false.
	terminal []vtShape
}

type vtShape struct {
	output Id // the replacement auxiliary atom Id (unsigned)
	forced bool
}

// NewExternalAtomVerificationTree returns an empty tree.
func NewExternalAtomVerificationTree() *ExternalAtomVerificationTree {
	return &ExternalAtomVerificationTree{root: newVTNode()}
}

func newVTNode() *vtNode {
	return &vtNode{children: make(map[Id]*vtNode)}
}

// Insert stores one IO-nogood shape: path is the ordered sequence of
// input/output literals that, together, force output to forced.
func (t *ExternalAtomVerificationTree) Insert(path []Id, output Id, forced bool) {
	n := t.root
	for _, lit := range path {
		child, ok := n.children[lit]
		if !ok {
			child = newVTNode()
			n.children[lit] = child
		}
		n = child
	}
	n.terminal = append(n.terminal, vtShape{output: output, forced: forced})
}

// Verify walks every path whose literals are all assigned and satisfied
// (sign included) under (partial, assigned) and returns, for each path reached
// in full, the set of replacement auxiliaries it forces true and the
// set it forces false.
func (t *ExternalAtomVerificationTree) Verify(partial, assigned *Interpretation) (forcedTrue, forcedFalse []Id) {
	var walk func(n *vtNode)
	walk = func(n *vtNode) {
		for _, shape := range n.terminal {
			if shape.forced {
				forcedTrue = append(forcedTrue, shape.output)
			} else {
				forcedFalse = append(forcedFalse, shape.output)
			}
		}
		for lit, child := range n.children {
			addr := lit.Address()
			if !assigned.Get(newID(KindAtom, addr)) {
				continue
			}
			want := !lit.IsNaf()
			got := partial.Get(newID(KindAtom, addr))
			if got == want {
				walk(child)
			}
		}
	}
	walk(t.root)
	return forcedTrue, forcedFalse
}
