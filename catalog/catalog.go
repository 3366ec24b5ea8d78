package catalog

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/jinzhu/copier"
	"github.com/milk9111/collision/geom"
)

var (
	ErrNilShape    = errors.New("catalog: shape is nil")
	ErrNotInterned = errors.New("catalog: shape not interned")
)

// Entry is one deduplicated shape held by the catalog. The geometry is a
// private copy and must not be mutated.
type Entry struct {
	id    uint64
	shape geom.Shape
	refs  int
}

func (e *Entry) ID() uint64 {
	if e == nil {
		return 0
	}
	return e.id
}

// Shape returns the interned geometry.
func (e *Entry) Shape() geom.Shape {
	if e == nil {
		return nil
	}
	return e.shape
}

// Refs returns how many proxies currently reference the entry.
func (e *Entry) Refs() int {
	if e == nil {
		return 0
	}
	return e.refs
}

// Catalog stores reference counted collision geometry for one world.
type Catalog struct {
	byKind map[geom.Kind][]*Entry
	nextID uint64
	count  int
}

func New() *Catalog {
	return &Catalog{byKind: make(map[geom.Kind][]*Entry)}
}

// InternCopy returns the entry holding geometry equal to shape, creating it
// from a deep copy when none exists, and takes one reference on it. The
// caller keeps ownership of shape and may change or discard it afterwards.
func (c *Catalog) InternCopy(shape geom.Shape) (*Entry, error) {
	if c == nil {
		return nil, ErrNotInterned
	}
	if isNil(shape) {
		return nil, ErrNilShape
	}
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("catalog: intern %s: %w", shape.Kind(), err)
	}
	if c.byKind == nil {
		c.byKind = make(map[geom.Kind][]*Entry)
	}

	kind := shape.Kind()
	for _, e := range c.byKind[kind] {
		if e.shape.Equal(shape) {
			e.refs++
			return e, nil
		}
	}

	clone, err := deepCopy(shape)
	if err != nil {
		return nil, fmt.Errorf("catalog: intern %s: %w", kind, err)
	}
	c.nextID++
	e := &Entry{id: c.nextID, shape: clone, refs: 1}
	c.byKind[kind] = append(c.byKind[kind], e)
	c.count++
	return e, nil
}

// Release drops one reference and forgets the entry when none remain.
func (c *Catalog) Release(e *Entry) error {
	if c == nil || e == nil || e.refs <= 0 {
		return ErrNotInterned
	}
	bucket := c.byKind[e.shape.Kind()]
	idx := -1
	for i, cand := range bucket {
		if cand == e {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: entry %d", ErrNotInterned, e.id)
	}

	e.refs--
	if e.refs > 0 {
		return nil
	}

	last := len(bucket) - 1
	bucket[idx] = bucket[last]
	bucket[last] = nil
	bucket = bucket[:last]
	if len(bucket) == 0 {
		delete(c.byKind, e.shape.Kind())
	} else {
		c.byKind[e.shape.Kind()] = bucket
	}
	c.count--
	return nil
}

// Len returns the number of distinct shapes held.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return c.count
}

// Refs returns the total number of references across all entries.
func (c *Catalog) Refs() int {
	if c == nil {
		return 0
	}
	total := 0
	for _, bucket := range c.byKind {
		for _, e := range bucket {
			total += e.refs
		}
	}
	return total
}

func deepCopy(shape geom.Shape) (geom.Shape, error) {
	src := reflect.ValueOf(shape)
	if src.Kind() != reflect.Pointer {
		return nil, fmt.Errorf("%w: %T is not a pointer", geom.ErrInvalidShape, shape)
	}
	dst := reflect.New(src.Elem().Type())
	if err := copier.CopyWithOption(dst.Interface(), shape, copier.Option{DeepCopy: true}); err != nil {
		return nil, err
	}
	out, ok := dst.Interface().(geom.Shape)
	if !ok {
		return nil, fmt.Errorf("%w: %T", geom.ErrInvalidShape, shape)
	}
	return out, nil
}

func isNil(shape geom.Shape) bool {
	if shape == nil {
		return true
	}
	v := reflect.ValueOf(shape)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
