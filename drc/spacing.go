package drc

import (
	"github.com/physdesign/drtcore/design"
	"github.com/physdesign/drtcore/geom"
	"github.com/physdesign/drtcore/tech"
)

// checkMetalSpacing implements §4.3.1: two shapes on the same layer,
// belonging to different nets, must be separated by at least the
// two-width/PRL table's required spacing for their widths and parallel-run
// length. Pairs of shapes on the same net are not checked.
func (eng *Engine) checkMetalSpacing(block *design.Block, netID design.NetID, layer tech.Layer, box geom.Box, self design.ShapeRef) int {
	maxReach := maxTableSpacing(layer.TwoWidthPRL)
	if maxReach == 0 {
		return 0
	}
	search := box.BloatUniform(maxReach)

	emitted := 0
	for _, other := range eng.Index.QueryBox(layer.Num, search) {
		if other == self {
			continue
		}
		if other.Net == netID {
			continue // same-net continuations are repair's job, not a spacing violation.
		}
		otherNet := block.Net(other.Net)
		otherShape, live := otherNet.Shape(other.Shape)
		if !live || otherShape.Kind != design.KindPathSegment {
			continue
		}
		otherBox := wireBox(otherShape.Seg, layer)

		dx, dy := box.EdgeDistance(otherBox)
		if dx > 0 && dy > 0 {
			continue // diagonal separation is the corner-spacing rule's concern.
		}
		gap := dx
		if dy > gap {
			gap = dy
		}
		prl := box.PRL(otherBox)
		width := box.MinDim()
		if otherBox.MinDim() > width {
			width = otherBox.MinDim()
		}
		required := layer.TwoWidthPRL.Required(width, prl)
		if required == 0 || gap >= required {
			continue
		}

		violation := box.GeneralizedIntersection(otherBox).BloatUniform(0)
		eng.Sink.Add(design.Marker{
			Box:           violation,
			LayerNum:      layer.Num,
			ConstraintRef: "spacing.metal",
			Victims:       []design.ShapeRef{self},
			Aggressors:    []design.ShapeRef{other},
		})
		emitted++
	}
	return emitted
}

func maxTableSpacing(t tech.TwoWidthPRLTable) int64 {
	var max int64
	for _, row := range t.Spacing {
		for _, v := range row {
			if v > max {
				max = v
			}
		}
	}
	return max
}
