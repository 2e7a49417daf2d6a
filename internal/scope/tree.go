package scope

// Node one unit in the arena
type Node struct {
	ID       string
	Name     string
	ParentID string // "" for roots
}

// Tree arena of units with a children adjacency list built from parent
// pointers. Traversals only go downward.
type Tree struct {
	nodes    []Node
	index    map[string]int
	children [][]int
}

// NewTree indexes nodes. Parents missing from the input are treated as
// roots; duplicate ids keep the first occurrence.
func NewTree(nodes []Node) *Tree {
	t := &Tree{
		nodes:    make([]Node, 0, len(nodes)),
		index:    make(map[string]int, len(nodes)),
		children: make([][]int, 0, len(nodes)),
	}
	for _, n := range nodes {
		if _, dup := t.index[n.ID]; dup {
			continue
		}
		t.index[n.ID] = len(t.nodes)
		t.nodes = append(t.nodes, n)
		t.children = append(t.children, nil)
	}
	for i, n := range t.nodes {
		if n.ParentID == "" {
			continue
		}
		if p, ok := t.index[n.ParentID]; ok {
			t.children[p] = append(t.children[p], i)
		}
	}
	return t
}

// Len number of nodes
func (t *Tree) Len() int { return len(t.nodes) }

// Contains reports whether id is in the tree.
func (t *Tree) Contains(id string) bool {
	_, ok := t.index[id]
	return ok
}

// Node looks up a node by id.
func (t *Tree) Node(id string) (Node, bool) {
	i, ok := t.index[id]
	if !ok {
		return Node{}, false
	}
	return t.nodes[i], true
}

// Descendants every unit below id in breadth-first order, id excluded.
// The visited set makes it terminate on cyclic input; cost is linear in
// the nodes reached.
func (t *Tree) Descendants(id string) []string {
	root, ok := t.index[id]
	if !ok {
		return nil
	}

	visited := make([]bool, len(t.nodes))
	visited[root] = true
	queue := []int{root}
	var out []string

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, c := range t.children[cur] {
			if visited[c] {
				continue
			}
			visited[c] = true
			out = append(out, t.nodes[c].ID)
			queue = append(queue, c)
		}
	}
	return out
}

// IsDescendant reports whether id sits strictly below ancestor.
func (t *Tree) IsDescendant(ancestor, id string) bool {
	for _, d := range t.Descendants(ancestor) {
		if d == id {
			return true
		}
	}
	return false
}
