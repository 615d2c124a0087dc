package design

import (
	"sync"

	"github.com/physdesign/drtcore/geom"
)

// Net owns a dense arena of Shapes plus the set of Terms/InstanceTerms it
// connects, and the modified flag the repair driver consumes, per spec §3.
// Shapes are never shared with another Net; regionindex holds only
// (NetID,ShapeID) handles back into this arena, per the ownership rule in
// design note §9.
//
// Concurrency: a read-mostly RWMutex, the same split the teacher's core.Graph
// uses for its vertex/edge tables, since Step A of the repair pipeline reads
// a net concurrently with other nets' Step A while Step B mutates one net at
// a time under the driver's serial phase discipline (spec §4.5).
type Net struct {
	mu sync.RWMutex

	Name     string
	Sig      SigType
	shapes   []Shape
	free     []ShapeID // freelist of holes left by deletion, reused by splits.
	terms    []TermID
	instTerms []InstTermID
	modified bool
}

func NewNet(name string, sig SigType) *Net {
	return &Net{Name: name, Sig: sig, modified: true}
}

// AddShape appends s to the arena, reusing a freed slot if one exists, and
// returns its stable ShapeID.
func (n *Net) AddShape(s Shape) ShapeID {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.free) > 0 {
		id := n.free[len(n.free)-1]
		n.free = n.free[:len(n.free)-1]
		n.shapes[id] = s
		return id
	}
	n.shapes = append(n.shapes, s)
	return ShapeID(len(n.shapes) - 1)
}

// RemoveShape frees id. The slot is not compacted (spec note §9: stable
// indices must survive deletion of unrelated shapes); the arena's length
// only grows, bounded by churn, not by the net's live shape count.
func (n *Net) RemoveShape(id ShapeID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.shapes[id] = Shape{Kind: tombstoneKind}
	n.free = append(n.free, id)
}

const tombstoneKind ShapeKind = 255

// Shape returns a copy of the shape at id and whether it is live (not
// removed).
func (n *Net) Shape(id ShapeID) (Shape, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if int(id) < 0 || int(id) >= len(n.shapes) {
		return Shape{}, false
	}
	s := n.shapes[id]
	return s, s.Kind != tombstoneKind
}

// SetShape overwrites an existing live slot, used by Step B's merge commit
// and Step G's split (both rewrite a shape's endpoints in place to avoid
// recomputing back-references held by regionindex and the node map).
func (n *Net) SetShape(id ShapeID, s Shape) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.shapes[id] = s
}

// Shapes returns every live (id,shape) pair, ordered by id for determinism.
func (n *Net) Shapes() []struct {
	ID ShapeID
	S  Shape
} {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]struct {
		ID ShapeID
		S  Shape
	}, 0, len(n.shapes))
	for i, s := range n.shapes {
		if s.Kind == tombstoneKind {
			continue
		}
		out = append(out, struct {
			ID ShapeID
			S  Shape
		}{ShapeID(i), s})
	}
	return out
}

func (n *Net) AddTerm(id TermID)         { n.mu.Lock(); defer n.mu.Unlock(); n.terms = append(n.terms, id) }
func (n *Net) AddInstTerm(id InstTermID) { n.mu.Lock(); defer n.mu.Unlock(); n.instTerms = append(n.instTerms, id) }

func (n *Net) Terms() []TermID {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]TermID, len(n.terms))
	copy(out, n.terms)
	return out
}

func (n *Net) InstTerms() []InstTermID {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]InstTermID, len(n.instTerms))
	copy(out, n.instTerms)
	return out
}

func (n *Net) Modified() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.modified
}

func (n *Net) SetModified(v bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.modified = v
}

// BBox returns the bounding box of every live shape in the net, or a
// zero-value (empty) box if the net has no shapes.
func (n *Net) BBox() geom.Box {
	shapes := n.Shapes()
	if len(shapes) == 0 {
		return geom.Box{}
	}
	b := shapes[0].S.Box()
	for _, e := range shapes[1:] {
		eb := e.S.Box()
		if eb.XL < b.XL {
			b.XL = eb.XL
		}
		if eb.YL < b.YL {
			b.YL = eb.YL
		}
		if eb.XH > b.XH {
			b.XH = eb.XH
		}
		if eb.YH > b.YH {
			b.YH = eb.YH
		}
	}
	return b
}
