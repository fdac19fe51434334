package hex

// AttributeGraph is a directed graph of Attribute nodes. An edge a->b
// means "bounding a contributes to bounding b". It is built from rule
// bodies/heads (shared-variable edges) and from external-atom
// occurrences (input-to-output edges), per spec §4.6, and is grounded
// on the adjacency-map style tabling.go uses for its call graph.
type AttributeGraph struct {
	nodes   []Attribute
	index   map[Attribute]int
	adjOut  map[int][]int
	adjIn   map[int][]int
}

// NewAttributeGraph returns an empty graph.
func NewAttributeGraph() *AttributeGraph {
	return &AttributeGraph{
		index:  make(map[Attribute]int),
		adjOut: make(map[int][]int),
		adjIn:  make(map[int][]int),
	}
}

// Node interns attribute a and returns its graph-local node id.
func (g *AttributeGraph) Node(a Attribute) int {
	if i, ok := g.index[a]; ok {
		return i
	}
	i := len(g.nodes)
	g.nodes = append(g.nodes, a)
	g.index[a] = i
	return i
}

// Attribute returns the Attribute for node id n.
func (g *AttributeGraph) Attribute(n int) Attribute { return g.nodes[n] }

// NodeCount returns the number of distinct attributes in the graph.
func (g *AttributeGraph) NodeCount() int { return len(g.nodes) }

// AddEdge adds a directed edge meaning "bounding from contributes to
// bounding to". Duplicate edges are harmless no-ops for the fixpoint
// but are not deduplicated here, since safety only ever tests
// reachability/membership, never counts edges.
func (g *AttributeGraph) AddEdge(from, to Attribute) {
	fi, ti := g.Node(from), g.Node(to)
	g.adjOut[fi] = append(g.adjOut[fi], ti)
	g.adjIn[ti] = append(g.adjIn[ti], fi)
}

// Out returns the node ids that n has an edge to.
func (g *AttributeGraph) Out(n int) []int { return g.adjOut[n] }

// SCCs computes the strongly-connected components of the graph using
// Tarjan's algorithm, returning one []int of node ids per component.
// Singleton components with no self-loop are still returned (as
// 1-element components), matching the spec's "SCCs are the unit of
// malign-cycle analysis" even for acyclic attributes.
func (g *AttributeGraph) SCCs() [][]int {
	n := len(g.nodes)
	index := make([]int, n)
	low := make([]int, n)
	onStack := make([]bool, n)
	for i := range index {
		index[i] = -1
	}
	var stack []int
	var sccs [][]int
	counter := 0

	var strongconnect func(v int)
	strongconnect = func(v int) {
		index[v] = counter
		low[v] = counter
		counter++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range g.adjOut[v] {
			if index[w] == -1 {
				strongconnect(w)
				if low[w] < low[v] {
					low[v] = low[w]
				}
			} else if onStack[w] {
				if index[w] < low[v] {
					low[v] = index[w]
				}
			}
		}

		if low[v] == index[v] {
			var comp []int
			for {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[top] = false
				comp = append(comp, top)
				if top == v {
					break
				}
			}
			sccs = append(sccs, comp)
		}
	}

	for v := 0; v < n; v++ {
		if index[v] == -1 {
			strongconnect(v)
		}
	}
	return sccs
}
