// Package drc implements component C6: the geometric design-rule checker
// of spec §4.3. Engine.Check walks every live shape of a scope (a whole
// block or a single net, per the caller's choice) and evaluates the
// spacing, end-of-line, corner-spacing, shape and cut-spacing rule
// families against the technology model, reporting every violation to a
// marker sink.
package drc

import (
	"github.com/physdesign/drtcore/design"
	"github.com/physdesign/drtcore/geom"
	"github.com/physdesign/drtcore/markers"
	"github.com/physdesign/drtcore/regionindex"
	"github.com/physdesign/drtcore/tech"
)

// Engine holds the read-only technology model and the shared, internally
// synchronized index/sink collaborators every check consults.
type Engine struct {
	Tech  *tech.Technology
	Index *regionindex.Index
	Sink  *markers.Sink
}

func New(technology *tech.Technology, index *regionindex.Index, sink *markers.Sink) *Engine {
	return &Engine{Tech: technology, Index: index, Sink: sink}
}

// Scope names which nets to check; nil means every net in block.
type Scope struct {
	Nets []design.NetID
}

// Check runs every rule family over scope's nets and returns the number of
// new (non-duplicate) markers it emitted.
func (eng *Engine) Check(block *design.Block, scope Scope) int {
	nets := scope.Nets
	if nets == nil {
		nets = block.Nets()
	}

	emitted := 0
	for _, netID := range nets {
		net := block.Net(netID)
		for _, entry := range net.Shapes() {
			if entry.S.Kind != design.KindPathSegment {
				continue
			}
			layer, err := eng.Tech.Layer(entry.S.LayerNum)
			if err != nil {
				continue
			}
			box := wireBox(entry.S.Seg, layer)
			self := design.ShapeRef{Net: netID, Shape: entry.ID}

			emitted += eng.checkMetalSpacing(block, netID, layer, box, self)
			emitted += eng.checkEOL(block, netID, layer, entry.S, self)
			emitted += eng.checkCorner(block, netID, layer, box, self)
			emitted += eng.checkShape(netID, layer, box, self)
		}
		emitted += eng.checkCutSpacing(block, net, netID)
	}
	return emitted
}

// wireBox derives the drawn rectangle of a path-segment centerline: the
// design model stores a segment's begin/end axis only, so its drawn width
// is the layer's default width bloated symmetrically about the centerline
// (spec §3 carries no per-shape width field; see DESIGN.md).
func wireBox(seg design.PathSegment, layer tech.Layer) geom.Box {
	half := layer.MinWidth / 2
	if seg.Orient() == geom.Horizontal {
		return seg.Box().Bloat(0, half)
	}
	return seg.Box().Bloat(half, 0)
}
