package fpgrowth

const rootNode = 0

// node is one arena slot. item is a column index; the root has item -1.
type node struct {
	item   int
	count  int
	parent int
	next   int // next node carrying the same item, or -1
}

type edge struct {
	parent int
	item   int
}

// tree is an FP-tree over a fixed set of columns.
type tree struct {
	nodes    []node
	children map[edge]int
	heads    []int // per item, first node of its header chain or -1
	counts   []int // per item, summed count of its nodes
}

func newTree(numItems int) *tree {
	t := &tree{
		nodes:    []node{{item: -1, parent: -1, next: -1}},
		children: make(map[edge]int),
		heads:    make([]int, numItems),
		counts:   make([]int, numItems),
	}
	for i := range t.heads {
		t.heads[i] = -1
	}
	return t
}

// insert adds a path of items, already in rank order, with the given weight.
func (t *tree) insert(path []int, weight int) {
	cur := rootNode
	for _, item := range path {
		key := edge{parent: cur, item: item}
		child, ok := t.children[key]
		if !ok {
			child = len(t.nodes)
			t.nodes = append(t.nodes, node{item: item, parent: cur, next: t.heads[item]})
			t.heads[item] = child
			t.children[key] = child
		}
		t.nodes[child].count += weight
		t.counts[item] += weight
		cur = child
	}
}

// empty reports whether only the root exists.
func (t *tree) empty() bool {
	return len(t.nodes) == 1
}

// prefixPaths returns the conditional pattern base of item: for every node
// of the item, the items on the way to the root (in rank order) and the
// node's count.
func (t *tree) prefixPaths(item int) ([][]int, []int) {
	var paths [][]int
	var weights []int
	for n := t.heads[item]; n >= 0; n = t.nodes[n].next {
		var path []int
		for a := t.nodes[n].parent; a != rootNode; a = t.nodes[a].parent {
			path = append(path, t.nodes[a].item)
		}
		if len(path) == 0 {
			continue
		}
		for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
			path[i], path[j] = path[j], path[i]
		}
		paths = append(paths, path)
		weights = append(weights, t.nodes[n].count)
	}
	return paths, weights
}
