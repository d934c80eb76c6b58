package blocktree

import "github.com/bb-io/notion-html/internal/models"

const rootHandle = -1

// tree is the traversal arena. Blocks are addressed by handle (their index in
// nodes) and parent/child links live in the adjacency map, so appending a
// subtree never moves blocks that were already placed.
type tree struct {
	nodes    []models.Block
	children map[int][]int
}

func newTree() *tree {
	return &tree{children: make(map[int][]int)}
}

// add stores b under parent and returns its handle
func (t *tree) add(parent int, b models.Block) int {
	h := len(t.nodes)
	t.nodes = append(t.nodes, b)
	t.children[parent] = append(t.children[parent], h)
	return h
}

// flatten returns every block with each parent immediately followed by its
// descendants. Blocks with children get their child_block_ids from the arena.
func (t *tree) flatten() []models.Block {
	out := make([]models.Block, 0, len(t.nodes))

	var walk func(h int)
	walk = func(h int) {
		b := t.nodes[h]
		kids := t.children[h]
		if len(kids) > 0 {
			b.ChildIDs = make([]string, 0, len(kids))
			for _, k := range kids {
				b.ChildIDs = append(b.ChildIDs, t.nodes[k].ID)
			}
		}
		out = append(out, b)
		for _, k := range kids {
			walk(k)
		}
	}

	for _, h := range t.children[rootHandle] {
		walk(h)
	}
	return out
}
