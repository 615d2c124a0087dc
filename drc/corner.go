package drc

import (
	"github.com/physdesign/drtcore/design"
	"github.com/physdesign/drtcore/geom"
	"github.com/physdesign/drtcore/tech"
)

// checkCorner implements §4.3.3: the LEF58 corner-spacing rule, which
// bounds max(dx,dy) to another shape's corner (a diagonal separation the
// parallel two-width/PRL table never reaches, since that table only
// applies along a shared edge).
func (eng *Engine) checkCorner(block *design.Block, netID design.NetID, layer tech.Layer, box geom.Box, self design.ShapeRef) int {
	table := layer.Corner
	if len(table.Widths) == 0 {
		return 0
	}
	width := box.MinDim()
	if table.ExceptEOLWidth != 0 && width <= table.ExceptEOLWidth {
		return 0
	}
	required := table.Required(width)
	if required == 0 {
		return 0
	}

	search := box.BloatUniform(required)
	emitted := 0
	for _, other := range eng.Index.QueryBox(layer.Num, search) {
		if other == self || other.Net == netID {
			continue
		}
		otherNet := block.Net(other.Net)
		otherShape, live := otherNet.Shape(other.Shape)
		if !live {
			continue
		}
		otherBox := otherShape.Box()
		dx, dy := box.EdgeDistance(otherBox)
		if dx == 0 || dy == 0 {
			continue // shared-edge separation belongs to the parallel spacing rule, not the corner rule.
		}
		diag := dx
		if dy > diag {
			diag = dy
		}
		if diag >= required {
			continue
		}
		eng.Sink.Add(design.Marker{
			Box:           box.GeneralizedIntersection(otherBox),
			LayerNum:      layer.Num,
			ConstraintRef: "spacing.corner",
			Victims:       []design.ShapeRef{self},
			Aggressors:    []design.ShapeRef{other},
		})
		emitted++
	}
	return emitted
}
