package broadphase

import (
	"fmt"
	"testing"

	"github.com/jakecoffman/cp"
)

func box(x, y, half float64) cp.BB {
	return cp.BB{L: x - half, B: y - half, R: x + half, T: y + half}
}

type pairKey struct{ a, b string }

func collectPairs(bp *BroadPhase) map[pairKey]bool {
	out := make(map[pairKey]bool)
	bp.UpdatePairs(func(a, b any) {
		sa, sb := a.(string), b.(string)
		if sa > sb {
			sa, sb = sb, sa
		}
		out[pairKey{sa, sb}] = true
	})
	return out
}

func TestInsertRemove(t *testing.T) {
	bp := New(0.1)
	a := bp.Insert("a", box(0, 0, 1))
	b := bp.Insert("b", box(5, 0, 1))
	if bp.ProxyCount() != 2 {
		t.Fatalf("expected 2 proxies, got %d", bp.ProxyCount())
	}

	got, ok := bp.AABB(a)
	if !ok || got != box(0, 0, 1) {
		t.Fatalf("expected tight box %v, got %v ok=%v", box(0, 0, 1), got, ok)
	}
	fat, _ := bp.FatAABB(a)
	if !fat.Contains(got) || fat == got {
		t.Fatalf("fat box %v should strictly contain %v", fat, got)
	}

	bp.Remove(a)
	if bp.Contains(a) {
		t.Fatalf("removed proxy should not be live")
	}
	if bp.ProxyCount() != 1 {
		t.Fatalf("expected 1 proxy, got %d", bp.ProxyCount())
	}
	if bp.UserData(b) != "b" {
		t.Fatalf("surviving proxy lost its user data")
	}

	bp.Remove(a)
	if bp.ProxyCount() != 1 {
		t.Fatalf("double remove must be ignored")
	}
}

func TestUpdatePairs(t *testing.T) {
	bp := New(0)
	bp.Insert("a", box(0, 0, 1))
	bp.Insert("b", box(1.5, 0, 1))
	bp.Insert("c", box(10, 0, 1))

	pairs := collectPairs(bp)
	if len(pairs) != 1 || !pairs[pairKey{"a", "b"}] {
		t.Fatalf("expected only a-b, got %v", pairs)
	}
	if bp.PendingMoves() != 0 {
		t.Fatalf("move buffer should be empty after UpdatePairs")
	}

	if again := collectPairs(bp); len(again) != 0 {
		t.Fatalf("no proxy moved, expected no pairs, got %v", again)
	}
}

func TestUpdateMovesProxy(t *testing.T) {
	bp := New(0.5)
	a := bp.Insert("a", box(0, 0, 1))
	bp.Insert("b", box(10, 0, 1))
	collectPairs(bp)

	// small move stays inside the fat box
	bp.Update(a, box(0.2, 0, 1))
	if bp.PendingMoves() != 0 {
		t.Fatalf("move inside the fat box should not be buffered")
	}
	if got, _ := bp.AABB(a); got != box(0.2, 0, 1) {
		t.Fatalf("tight box should still be recorded, got %v", got)
	}

	bp.Update(a, box(9.5, 0, 1))
	if bp.PendingMoves() != 1 {
		t.Fatalf("escaping move should be buffered, pending=%d", bp.PendingMoves())
	}
	pairs := collectPairs(bp)
	if !pairs[pairKey{"a", "b"}] {
		t.Fatalf("expected a-b after move, got %v", pairs)
	}
}

func TestRequestRecheck(t *testing.T) {
	bp := New(0)
	a := bp.Insert("a", box(0, 0, 1))
	bp.Insert("b", box(0.5, 0, 1))
	collectPairs(bp)

	bp.RequestRecheck(a)
	pairs := collectPairs(bp)
	if !pairs[pairKey{"a", "b"}] {
		t.Fatalf("recheck should report existing overlaps again, got %v", pairs)
	}
}

func TestRemoveClearsBufferedMove(t *testing.T) {
	bp := New(0)
	a := bp.Insert("a", box(0, 0, 1))
	bp.Insert("b", box(0.5, 0, 1))
	bp.Remove(a)

	calls := 0
	bp.UpdatePairs(func(_, _ any) { calls++ })
	if calls != 0 {
		t.Fatalf("removed proxy must not produce pairs, got %d", calls)
	}
}

func TestQueries(t *testing.T) {
	bp := New(0)
	for i := 0; i < 20; i++ {
		bp.Insert(fmt.Sprintf("p%d", i), box(float64(i)*3, 0, 1))
	}

	var hits []string
	bp.Query(cp.BB{L: 2.5, B: -1, R: 6.5, T: 1}, func(_ ProxyID, ud any) bool {
		hits = append(hits, ud.(string))
		return true
	})
	if len(hits) != 2 {
		t.Fatalf("expected 2 proxies in query box, got %v", hits)
	}

	var crossed int
	bp.SegmentQuery(cp.Vector{X: -5, Y: 5}, cp.Vector{X: 100, Y: 5}, func(ProxyID, any) bool {
		crossed++
		return true
	})
	if crossed != 0 {
		t.Fatalf("segment above all boxes should cross none, got %d", crossed)
	}
	bp.SegmentQuery(cp.Vector{X: -5}, cp.Vector{X: 100}, func(ProxyID, any) bool {
		crossed++
		return crossed < 3
	})
	if crossed != 3 {
		t.Fatalf("segment query should stop when the callback returns false, got %d", crossed)
	}

	if bp.TreeHeight() <= 0 {
		t.Fatalf("tree with 20 proxies should have height > 0")
	}
}

func TestTreeStaysConsistentUnderChurn(t *testing.T) {
	bp := New(0.1)
	ids := make([]ProxyID, 0, 64)
	for i := 0; i < 64; i++ {
		ids = append(ids, bp.Insert(i, box(float64(i%8)*2, float64(i/8)*2, 0.5)))
	}
	for i := 0; i < 64; i += 2 {
		bp.Remove(ids[i])
	}
	for i := 1; i < 64; i += 2 {
		bp.Update(ids[i], box(float64(i), 0, 0.5))
	}

	seen := 0
	bp.Query(cp.BB{L: -100, B: -100, R: 100, T: 100}, func(id ProxyID, ud any) bool {
		if ud.(int)%2 == 0 {
			t.Fatalf("removed proxy %v still in tree", ud)
		}
		seen++
		return true
	})
	if seen != 32 || bp.ProxyCount() != 32 {
		t.Fatalf("expected 32 proxies, saw %d count %d", seen, bp.ProxyCount())
	}
}
