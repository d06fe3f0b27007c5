package topo

import (
	"fmt"
	"strings"

	"github.com/golang/geo/r3"
)

// Collection is an ordered, heterogeneous container of shapes with named
// group views. Shapes are held by reference: transforming a collection
// transforms its members in place. Groups are secondary views onto the
// same members, never owners.
//
// Construction flattens arbitrarily nested input: nested collections are
// spliced, raw coordinate values become vertices, and anything unusable is
// logged and skipped rather than aborting ingestion.
type Collection struct {
	id     string
	env    *Env
	shapes []Shape
	groups map[string][]Shape
}

// NewCollection creates a collection from any mix of shapes, nested
// collections, coordinate values and slices thereof.
func NewCollection(env *Env, items ...any) *Collection {
	c := &Collection{
		id:     newShapeID(),
		env:    env,
		groups: map[string][]Shape{},
	}
	for _, item := range items {
		c.ingest(item)
	}
	return c
}

// ingest flattens one input item into member shapes. Unusable input is
// skipped with a warning so a partially bad batch still yields a usable
// collection.
func (c *Collection) ingest(item any) {
	switch v := item.(type) {
	case nil:
		c.warnf("skipping nil input")
	case Shape:
		if v == nil || v.IsEmpty() {
			c.warnf("skipping empty shape %v", v)
			return
		}
		c.shapes = append(c.shapes, v)
	case *Collection:
		if v == nil {
			c.warnf("skipping nil collection")
			return
		}
		for _, s := range v.shapes {
			c.ingest(s)
		}
	case r3.Vector:
		c.shapes = append(c.shapes, NewVertexFromPoint(v))
	case [3]float64:
		c.shapes = append(c.shapes, NewVertex(v[0], v[1], v[2]))
	case []float64:
		if len(v) != 3 {
			c.warnf("skipping coordinate slice of length %d", len(v))
			return
		}
		c.shapes = append(c.shapes, NewVertex(v[0], v[1], v[2]))
	case []any:
		for _, item := range v {
			c.ingest(item)
		}
	case []Shape:
		for _, s := range v {
			c.ingest(s)
		}
	case []r3.Vector:
		for _, p := range v {
			c.ingest(p)
		}
	default:
		c.warnf("skipping unsupported input %T", item)
	}
}

func (c *Collection) warnf(format string, args ...any) {
	if c.env != nil && c.env.Logger != nil {
		c.env.Logger.Warnf(format, args...)
	}
}

// ID returns the collection's identity hash.
func (c *Collection) ID() string { return c.id }

// Env returns the injected environment.
func (c *Collection) Env() *Env { return c.env }

// Len returns the number of member shapes.
func (c *Collection) Len() int { return len(c.shapes) }

// IsEmpty reports whether the collection has no members.
func (c *Collection) IsEmpty() bool { return len(c.shapes) == 0 }

// At returns the member at index i.
func (c *Collection) At(i int) Shape { return c.shapes[i] }

// Shapes returns the member slice. Callers must not mutate it.
func (c *Collection) Shapes() []Shape { return c.shapes }

// Add flattens the given items into the collection, same rules as
// construction.
func (c *Collection) Add(items ...any) *Collection {
	for _, item := range items {
		c.ingest(item)
	}
	return c
}

// AddToGroup adds shapes both to the collection and to a named group view.
// Adding to an existing group merges.
func (c *Collection) AddToGroup(name string, items ...any) *Collection {
	before := len(c.shapes)
	for _, item := range items {
		c.ingest(item)
	}
	c.groups[name] = append(c.groups[name], c.shapes[before:]...)
	return c
}

// GetGroup returns the named group wrapped as a collection sharing its
// members, nil when absent.
func (c *Collection) GetGroup(name string) *Collection {
	members, ok := c.groups[name]
	if !ok {
		return nil
	}
	out := NewCollection(c.env)
	out.shapes = append(out.shapes, members...)
	return out
}

// GroupNames returns the names of all non-empty groups.
func (c *Collection) GroupNames() []string {
	names := make([]string, 0, len(c.groups))
	for name, members := range c.groups {
		if len(members) > 0 {
			names = append(names, name)
		}
	}
	return names
}

// Remove drops the shape with the given identity hash from the collection
// and from every group view. Unknown hashes are a no-op.
func (c *Collection) Remove(id string) *Collection {
	out := c.shapes[:0]
	for _, s := range c.shapes {
		if s.ID() != id {
			out = append(out, s)
		}
	}
	c.shapes = out
	for name, members := range c.groups {
		kept := members[:0]
		for _, s := range members {
			if s.ID() != id {
				kept = append(kept, s)
			}
		}
		if len(kept) == 0 {
			delete(c.groups, name)
		} else {
			c.groups[name] = kept
		}
	}
	return c
}

// Filter returns a new collection holding the members the predicate keeps.
// Members are shared, not copied; group views are not carried over.
func (c *Collection) Filter(keep func(Shape) bool) *Collection {
	out := NewCollection(c.env)
	for _, s := range c.shapes {
		if keep(s) {
			out.shapes = append(out.shapes, s)
		}
	}
	return out
}

// Concat returns a new collection with the members of both operands, in
// order. Members are shared; group views of both operands are merged.
func (c *Collection) Concat(other *Collection) *Collection {
	out := NewCollection(c.env)
	out.shapes = append(out.shapes, c.shapes...)
	for name, members := range c.groups {
		out.groups[name] = append([]Shape(nil), members...)
	}
	if other != nil {
		out.shapes = append(out.shapes, other.shapes...)
		for name, members := range other.groups {
			out.groups[name] = append(out.groups[name], members...)
		}
	}
	return out
}

// Copy deep-copies the collection: every member is copied (minting fresh
// identity hashes) and group views are remapped onto the copies.
func (c *Collection) Copy() *Collection {
	out := NewCollection(c.env)
	copies := make(map[string]Shape, len(c.shapes))
	for _, s := range c.shapes {
		cp := s.Copy()
		copies[s.ID()] = cp
		out.shapes = append(out.shapes, cp)
	}
	for name, members := range c.groups {
		mapped := make([]Shape, 0, len(members))
		for _, s := range members {
			if cp, ok := copies[s.ID()]; ok {
				mapped = append(mapped, cp)
			}
		}
		out.groups[name] = mapped
	}
	return out
}

// ForEach calls fn for every member in order.
func (c *Collection) ForEach(fn func(Shape)) {
	for _, s := range c.shapes {
		fn(s)
	}
}

// ToData returns the serializable form of every member, in order.
func (c *Collection) ToData() []ShapeData {
	out := make([]ShapeData, 0, len(c.shapes))
	for _, s := range c.shapes {
		out = append(out, s.ToData())
	}
	return out
}

func (c *Collection) String() string {
	kinds := make([]string, 0, len(c.shapes))
	for _, s := range c.shapes {
		kinds = append(kinds, s.Kind().String())
	}
	return fmt.Sprintf("Collection(%d: %s)", len(c.shapes), strings.Join(kinds, ", "))
}
