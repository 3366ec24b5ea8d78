package broadphase

import (
	"cmp"
	"slices"

	"github.com/jakecoffman/cp"
)

// ProxyID is the handle the broad-phase returns on insertion.
type ProxyID int

// NullProxy is never returned by Insert.
const NullProxy ProxyID = -1

// Pair is a candidate pair of proxies with overlapping fat boxes, A < B.
type Pair struct {
	A ProxyID
	B ProxyID
}

// BroadPhase keeps proxy boxes in a dynamic tree and reports candidate pairs
// for proxies that moved (or were touched) since the last UpdatePairs.
type BroadPhase struct {
	tree       tree
	proxyCount int

	moveBuffer []ProxyID
	pairBuffer []Pair
	queryProxy ProxyID
}

// New creates a broad-phase whose fat boxes extend margin past each side of
// the tight box.
func New(margin float64) *BroadPhase {
	if margin < 0 {
		margin = 0
	}
	return &BroadPhase{tree: newTree(margin), queryProxy: NullProxy}
}

// SetMargin changes the fattening used by future insertions and moves.
func (bp *BroadPhase) SetMargin(margin float64) {
	if bp == nil || margin < 0 {
		return
	}
	bp.tree.margin = margin
}

func (bp *BroadPhase) Margin() float64 {
	if bp == nil {
		return 0
	}
	return bp.tree.margin
}

// Insert adds a proxy for userData with the given box.
func (bp *BroadPhase) Insert(userData any, bb cp.BB) ProxyID {
	if bp == nil {
		return NullProxy
	}
	id := ProxyID(bp.tree.createProxy(bb, userData))
	bp.proxyCount++
	bp.bufferMove(id)
	return id
}

// Update records a new box for the proxy. The tree is only restructured
// when the box escapes the proxy's fat box.
func (bp *BroadPhase) Update(id ProxyID, bb cp.BB) {
	if bp == nil || !bp.tree.valid(int(id)) {
		return
	}
	if bp.tree.moveProxy(int(id), bb) {
		bp.bufferMove(id)
	}
}

// Remove deletes the proxy. The id may be reused by a later Insert.
func (bp *BroadPhase) Remove(id ProxyID) {
	if bp == nil || !bp.tree.valid(int(id)) {
		return
	}
	bp.unbufferMove(id)
	bp.proxyCount--
	bp.tree.destroyProxy(int(id))
}

// RequestRecheck queues the proxy for pair finding on the next UpdatePairs
// without changing its box.
func (bp *BroadPhase) RequestRecheck(id ProxyID) {
	if bp == nil || !bp.tree.valid(int(id)) {
		return
	}
	bp.bufferMove(id)
}

// UpdatePairs queries the tree for every buffered proxy and calls fn once
// per distinct overlapping pair, then clears the move buffer.
func (bp *BroadPhase) UpdatePairs(fn func(userDataA, userDataB any)) {
	if bp == nil {
		return
	}
	bp.pairBuffer = bp.pairBuffer[:0]

	for _, id := range bp.moveBuffer {
		if id == NullProxy {
			continue
		}
		bp.queryProxy = id
		bp.tree.query(bp.tree.nodes[id].fat, bp.queryCallback)
	}
	bp.queryProxy = NullProxy
	bp.moveBuffer = bp.moveBuffer[:0]

	slices.SortFunc(bp.pairBuffer, func(a, b Pair) int {
		if c := cmp.Compare(a.A, b.A); c != 0 {
			return c
		}
		return cmp.Compare(a.B, b.B)
	})

	for i, pair := range bp.pairBuffer {
		if i > 0 && pair == bp.pairBuffer[i-1] {
			continue
		}
		if fn != nil {
			fn(bp.tree.nodes[pair.A].userData, bp.tree.nodes[pair.B].userData)
		}
	}
}

func (bp *BroadPhase) queryCallback(nodeID int) bool {
	id := ProxyID(nodeID)
	if id == bp.queryProxy {
		return true
	}
	bp.pairBuffer = append(bp.pairBuffer, Pair{A: min(id, bp.queryProxy), B: max(id, bp.queryProxy)})
	return true
}

func (bp *BroadPhase) bufferMove(id ProxyID) {
	bp.moveBuffer = append(bp.moveBuffer, id)
}

func (bp *BroadPhase) unbufferMove(id ProxyID) {
	for i := range bp.moveBuffer {
		if bp.moveBuffer[i] == id {
			bp.moveBuffer[i] = NullProxy
		}
	}
}

// Query calls fn for every proxy whose fat box overlaps bb until fn returns
// false.
func (bp *BroadPhase) Query(bb cp.BB, fn func(id ProxyID, userData any) bool) {
	if bp == nil || fn == nil {
		return
	}
	bp.tree.query(bb, func(nodeID int) bool {
		return fn(ProxyID(nodeID), bp.tree.nodes[nodeID].userData)
	})
}

// SegmentQuery calls fn for every proxy whose fat box is crossed by the
// segment a->b until fn returns false.
func (bp *BroadPhase) SegmentQuery(a, b cp.Vector, fn func(id ProxyID, userData any) bool) {
	if bp == nil || fn == nil {
		return
	}
	bp.tree.segmentQuery(a, b, func(nodeID int) bool {
		return fn(ProxyID(nodeID), bp.tree.nodes[nodeID].userData)
	})
}

// Contains reports whether id is a live proxy.
func (bp *BroadPhase) Contains(id ProxyID) bool {
	return bp != nil && bp.tree.valid(int(id))
}

// AABB returns the tight box last reported for the proxy.
func (bp *BroadPhase) AABB(id ProxyID) (cp.BB, bool) {
	if !bp.Contains(id) {
		return cp.BB{}, false
	}
	return bp.tree.nodes[id].tight, true
}

// FatAABB returns the enlarged box stored in the tree.
func (bp *BroadPhase) FatAABB(id ProxyID) (cp.BB, bool) {
	if !bp.Contains(id) {
		return cp.BB{}, false
	}
	return bp.tree.nodes[id].fat, true
}

func (bp *BroadPhase) UserData(id ProxyID) any {
	if !bp.Contains(id) {
		return nil
	}
	return bp.tree.nodes[id].userData
}

// TestOverlap reports whether the fat boxes of two proxies overlap.
func (bp *BroadPhase) TestOverlap(a, b ProxyID) bool {
	if !bp.Contains(a) || !bp.Contains(b) {
		return false
	}
	return bp.tree.nodes[a].fat.Intersects(bp.tree.nodes[b].fat)
}

func (bp *BroadPhase) ProxyCount() int {
	if bp == nil {
		return 0
	}
	return bp.proxyCount
}

// PendingMoves returns how many proxies wait for the next UpdatePairs.
func (bp *BroadPhase) PendingMoves() int {
	if bp == nil {
		return 0
	}
	n := 0
	for _, id := range bp.moveBuffer {
		if id != NullProxy {
			n++
		}
	}
	return n
}

func (bp *BroadPhase) TreeHeight() int {
	if bp == nil {
		return 0
	}
	return bp.tree.height()
}
