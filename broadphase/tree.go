package broadphase

import (
	"math"

	"github.com/jakecoffman/cp"
)

const nullNode = -1

type treeNode struct {
	// fat is the enlarged box stored in the tree, tight is the box last
	// reported by the client. Internal nodes only use fat.
	fat   cp.BB
	tight cp.BB

	userData any

	parent int
	child1 int
	child2 int

	// leaf = 0, free node = -1
	height int
}

func (n *treeNode) isLeaf() bool {
	return n.child1 == nullNode
}

// tree is a dynamic AABB tree. Leaves are proxies, nodes are pooled in a
// slice and addressed by index so the pool can grow.
type tree struct {
	nodes  []treeNode
	free   []int
	root   int
	count  int
	margin float64
}

func newTree(margin float64) tree {
	return tree{root: nullNode, margin: margin}
}

func (t *tree) allocateNode() int {
	var id int
	if n := len(t.free); n > 0 {
		id = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		id = len(t.nodes)
		t.nodes = append(t.nodes, treeNode{})
	}
	t.nodes[id] = treeNode{parent: nullNode, child1: nullNode, child2: nullNode}
	t.count++
	return id
}

func (t *tree) freeNode(id int) {
	t.nodes[id] = treeNode{parent: nullNode, child1: nullNode, child2: nullNode, height: -1}
	t.free = append(t.free, id)
	t.count--
}

func (t *tree) valid(id int) bool {
	return id >= 0 && id < len(t.nodes) && t.nodes[id].height == 0 && t.nodes[id].isLeaf()
}

func (t *tree) fatten(bb cp.BB) cp.BB {
	return cp.BB{L: bb.L - t.margin, B: bb.B - t.margin, R: bb.R + t.margin, T: bb.T + t.margin}
}

func (t *tree) createProxy(bb cp.BB, userData any) int {
	id := t.allocateNode()
	node := &t.nodes[id]
	node.fat = t.fatten(bb)
	node.tight = bb
	node.userData = userData
	node.height = 0
	t.insertLeaf(id)
	return id
}

func (t *tree) destroyProxy(id int) {
	t.removeLeaf(id)
	t.freeNode(id)
}

// moveProxy records the new tight box and reinserts the leaf when it has
// left its fat box. It reports whether the leaf was reinserted.
func (t *tree) moveProxy(id int, bb cp.BB) bool {
	t.nodes[id].tight = bb
	if t.nodes[id].fat.Contains(bb) {
		return false
	}
	t.removeLeaf(id)
	t.nodes[id].fat = t.fatten(bb)
	t.insertLeaf(id)
	return true
}

func perimeter(bb cp.BB) float64 {
	return 2 * ((bb.R - bb.L) + (bb.T - bb.B))
}

func (t *tree) insertLeaf(leaf int) {
	if t.root == nullNode {
		t.root = leaf
		t.nodes[leaf].parent = nullNode
		return
	}

	// Find the best sibling by the surface area heuristic.
	leafBB := t.nodes[leaf].fat
	index := t.root
	for !t.nodes[index].isLeaf() {
		child1 := t.nodes[index].child1
		child2 := t.nodes[index].child2

		area := perimeter(t.nodes[index].fat)
		combinedArea := perimeter(t.nodes[index].fat.Merge(leafBB))

		cost := 2 * combinedArea
		inheritanceCost := 2 * (combinedArea - area)

		cost1 := t.descendCost(child1, leafBB) + inheritanceCost
		cost2 := t.descendCost(child2, leafBB) + inheritanceCost

		if cost < cost1 && cost < cost2 {
			break
		}
		if cost1 < cost2 {
			index = child1
		} else {
			index = child2
		}
	}

	sibling := index
	oldParent := t.nodes[sibling].parent
	newParent := t.allocateNode()
	t.nodes[newParent].parent = oldParent
	t.nodes[newParent].fat = leafBB.Merge(t.nodes[sibling].fat)
	t.nodes[newParent].height = t.nodes[sibling].height + 1
	t.nodes[newParent].child1 = sibling
	t.nodes[newParent].child2 = leaf
	t.nodes[sibling].parent = newParent
	t.nodes[leaf].parent = newParent

	if oldParent != nullNode {
		if t.nodes[oldParent].child1 == sibling {
			t.nodes[oldParent].child1 = newParent
		} else {
			t.nodes[oldParent].child2 = newParent
		}
	} else {
		t.root = newParent
	}

	t.refit(t.nodes[leaf].parent)
}

func (t *tree) descendCost(child int, leafBB cp.BB) float64 {
	merged := perimeter(leafBB.Merge(t.nodes[child].fat))
	if t.nodes[child].isLeaf() {
		return merged
	}
	return merged - perimeter(t.nodes[child].fat)
}

func (t *tree) removeLeaf(leaf int) {
	if leaf == t.root {
		t.root = nullNode
		return
	}

	parent := t.nodes[leaf].parent
	grandParent := t.nodes[parent].parent
	sibling := t.nodes[parent].child1
	if sibling == leaf {
		sibling = t.nodes[parent].child2
	}

	if grandParent != nullNode {
		if t.nodes[grandParent].child1 == parent {
			t.nodes[grandParent].child1 = sibling
		} else {
			t.nodes[grandParent].child2 = sibling
		}
		t.nodes[sibling].parent = grandParent
		t.freeNode(parent)
		t.refit(grandParent)
	} else {
		t.root = sibling
		t.nodes[sibling].parent = nullNode
		t.freeNode(parent)
	}
	t.nodes[leaf].parent = nullNode
}

// refit walks from index to the root fixing heights and boxes.
func (t *tree) refit(index int) {
	for index != nullNode {
		child1 := t.nodes[index].child1
		child2 := t.nodes[index].child2
		t.nodes[index].height = 1 + max(t.nodes[child1].height, t.nodes[child2].height)
		t.nodes[index].fat = t.nodes[child1].fat.Merge(t.nodes[child2].fat)
		index = t.nodes[index].parent
	}
}

// query calls fn for every leaf whose fat box overlaps bb until fn
// returns false.
func (t *tree) query(bb cp.BB, fn func(id int) bool) {
	if t.root == nullNode {
		return
	}
	stack := []int{t.root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := &t.nodes[id]
		if !node.fat.Intersects(bb) {
			continue
		}
		if node.isLeaf() {
			if !fn(id) {
				return
			}
			continue
		}
		stack = append(stack, node.child1, node.child2)
	}
}

// segmentQuery calls fn for every leaf whose fat box the segment a->b
// crosses until fn returns false.
func (t *tree) segmentQuery(a, b cp.Vector, fn func(id int) bool) {
	if t.root == nullNode {
		return
	}
	stack := []int{t.root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := &t.nodes[id]
		if !segmentHitsBB(a, b, node.fat) {
			continue
		}
		if node.isLeaf() {
			if !fn(id) {
				return
			}
			continue
		}
		stack = append(stack, node.child1, node.child2)
	}
}

func (t *tree) height() int {
	if t.root == nullNode {
		return 0
	}
	return t.nodes[t.root].height
}

func segmentHitsBB(a, b cp.Vector, bb cp.BB) bool {
	dx := b.X - a.X
	dy := b.Y - a.Y
	tmin := 0.0
	tmax := 1.0

	if dx != 0 {
		inv := 1.0 / dx
		t1 := (bb.L - a.X) * inv
		t2 := (bb.R - a.X) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
	} else if a.X < bb.L || a.X > bb.R {
		return false
	}

	if dy != 0 {
		inv := 1.0 / dy
		t1 := (bb.B - a.Y) * inv
		t2 := (bb.T - a.Y) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
	} else if a.Y < bb.B || a.Y > bb.T {
		return false
	}

	return tmax >= tmin
}
