// Package hierarchy defines the generic labeled tree that feeds the sunburst
// layout.
//
// A [Node] owns its children through an ordered slice. There is no parent
// pointer: passes that need ancestor information (such as color inheritance)
// carry it down explicitly while walking the tree top-down.
//
// The Value stored on a node is the face value supplied by the producer. For
// nodes with children the layout engine ignores it and sums the aggregate
// values of the children instead, see [Node.Aggregate].
package hierarchy

// Node is one element of a labeled tree.
type Node struct {
	Name     string  `json:"name"`
	Value    float64 `json:"value"`
	Depth    int     `json:"depth"`
	Children []*Node `json:"children,omitempty"`
}

// New creates a node with the given name and face value.
func New(name string, value float64) *Node {
	return &Node{Name: name, Value: value}
}

// Add appends child to n, fixes up the depth of the whole child subtree
// and returns n for chaining.
func (n *Node) Add(child *Node) *Node {
	child.setDepth(n.Depth + 1)
	n.Children = append(n.Children, child)
	return n
}

func (n *Node) setDepth(d int) {
	n.Depth = d
	for _, c := range n.Children {
		c.setDepth(d + 1)
	}
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Aggregate returns the face value for leaves and the sum of the children's
// aggregates otherwise. It recomputes on every call; the layout engine keeps
// its own memoized copy.
func (n *Node) Aggregate() float64 {
	if n.IsLeaf() {
		return n.Value
	}
	var sum float64
	for _, c := range n.Children {
		sum += c.Aggregate()
	}
	return sum
}

// Walk visits n and all of its descendants in pre-order. The ancestors slice
// holds the path from the root down to the parent of the visited node; it is
// reused between calls and must not be retained. Returning false from fn
// skips the subtree below the visited node.
func (n *Node) Walk(fn func(node *Node, ancestors []*Node) bool) {
	var walk func(*Node, []*Node)
	walk = func(cur *Node, path []*Node) {
		if !fn(cur, path) {
			return
		}
		path = append(path, cur)
		for _, c := range cur.Children {
			walk(c, path)
		}
	}
	walk(n, make([]*Node, 0, 4))
}

// Count returns the number of nodes in the tree rooted at n.
func (n *Node) Count() int {
	total := 0
	n.Walk(func(*Node, []*Node) bool {
		total++
		return true
	})
	return total
}

// MaxDepth returns the depth of the deepest node in the tree rooted at n.
func (n *Node) MaxDepth() int {
	max := n.Depth
	n.Walk(func(c *Node, _ []*Node) bool {
		if c.Depth > max {
			max = c.Depth
		}
		return true
	})
	return max
}
