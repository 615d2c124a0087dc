package drc

import (
	"github.com/physdesign/drtcore/design"
	"github.com/physdesign/drtcore/geom"
	"github.com/physdesign/drtcore/tech"
)

// checkShape implements the single-shape members of the §4.3.4 metal
// shape family that need no neighbor lookup: minimum width and off-grid
// placement. Minimum enclosed area is a polygon-hole rule — it flags a
// hole whose area falls below the threshold, not a drawn shape's own
// area — and this model has no polygon-merge machinery to find holes
// with (see DESIGN.md), so it is not implemented here rather than
// misapplied to a shape's own box, which would flag an ordinary narrow
// wire as if it enclosed nothing. The rect-only rule is never violated
// here: every shape this model draws is already an axis-aligned
// rectangle.
func (eng *Engine) checkShape(netID design.NetID, layer tech.Layer, box geom.Box, self design.ShapeRef) int {
	emitted := 0
	width := box.MinDim()

	if layer.MinWidth > 0 && width < layer.MinWidth {
		eng.Sink.Add(design.Marker{
			Box: box, LayerNum: layer.Num, ConstraintRef: "shape.minWidth",
			Victims: []design.ShapeRef{self},
		})
		emitted++
	}

	if layer.OffGrid {
		if !geom.OnGrid(box.XL, layer.MinWidth) || !geom.OnGrid(box.YL, layer.MinWidth) {
			eng.Sink.Add(design.Marker{
				Box: box, LayerNum: layer.Num, ConstraintRef: "shape.offGrid",
				Victims: []design.ShapeRef{self},
			})
			emitted++
		}
	}

	emitted += eng.checkMinStep(layer, box, self)
	return emitted
}

// checkMinStep implements the minimum-step member of §4.3.4: a polygon
// edge shorter than MinStepLength, repeated more than MaxEdges times (or
// summing past MaxLength), is flagged. Since a path-segment's drawn box
// here has exactly two long edges and two short (width) edges, the only
// "step" this model can observe directly is the width edge itself; a true
// multi-edge staircase needs the polygon-merge machinery this index
// deliberately omits (see DESIGN.md), so this check is the single-edge
// special case: a segment whose own width is shorter than MinStepLength is
// flagged. The rule's MaxEdges and MaxLength bounds are not consulted.
func (eng *Engine) checkMinStep(layer tech.Layer, box geom.Box, self design.ShapeRef) int {
	rule := layer.MinStep
	if rule.MinStepLength == 0 {
		return 0
	}
	width := box.MinDim()
	if width >= rule.MinStepLength {
		return 0
	}
	eng.Sink.Add(design.Marker{
		Box: box, LayerNum: layer.Num, ConstraintRef: "shape.minStep",
		Victims: []design.ShapeRef{self},
	})
	return 1
}
