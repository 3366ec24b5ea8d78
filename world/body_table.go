package world

import "github.com/milk9111/collision/body"

// bodyTable is a sparse set of bodies keyed by id index. Dense order is
// insertion order until a removal swaps the last body into the hole.
type bodyTable struct {
	denseIDs    []body.ID
	denseBodies []*body.Body
	sparse      []int
}

func (t *bodyTable) has(id body.ID) bool {
	index := int(idIndex(id))
	if index <= 0 || index-1 >= len(t.sparse) {
		return false
	}
	i := t.sparse[index-1]
	return i >= 0 && i < len(t.denseIDs) && t.denseIDs[i] == id
}

func (t *bodyTable) get(id body.ID) *body.Body {
	if !t.has(id) {
		return nil
	}
	return t.denseBodies[t.sparse[idIndex(id)-1]]
}

func (t *bodyTable) set(id body.ID, b *body.Body) {
	index := int(idIndex(id))
	if index <= 0 {
		return
	}
	for len(t.sparse) < index {
		t.sparse = append(t.sparse, -1)
	}
	if t.has(id) {
		t.denseBodies[t.sparse[index-1]] = b
		return
	}
	t.denseIDs = append(t.denseIDs, id)
	t.denseBodies = append(t.denseBodies, b)
	t.sparse[index-1] = len(t.denseIDs) - 1
}

func (t *bodyTable) remove(id body.ID) {
	if !t.has(id) {
		return
	}
	index := idIndex(id)
	i := t.sparse[index-1]
	last := len(t.denseIDs) - 1
	lastID := t.denseIDs[last]

	t.denseIDs[i] = lastID
	t.denseBodies[i] = t.denseBodies[last]
	t.sparse[idIndex(lastID)-1] = i

	t.denseBodies[last] = nil
	t.denseIDs = t.denseIDs[:last]
	t.denseBodies = t.denseBodies[:last]
	t.sparse[index-1] = -1
}

func (t *bodyTable) len() int {
	return len(t.denseIDs)
}
