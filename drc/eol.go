package drc

import (
	"github.com/physdesign/drtcore/design"
	"github.com/physdesign/drtcore/geom"
	"github.com/physdesign/drtcore/tech"
)

// checkEOL implements §4.3.2: a segment end narrower than an EOLRule's
// EOLWidth must keep EOLSpace clear of any other shape within EOLWithin
// of the line extended straight out from that end.
func (eng *Engine) checkEOL(block *design.Block, netID design.NetID, layer tech.Layer, seg design.PathSegment, self design.ShapeRef) int {
	if len(layer.EOL) == 0 {
		return 0
	}
	width := wireBox(seg, layer).MinDim()

	emitted := 0
	for _, rule := range layer.EOL {
		if width >= rule.EOLWidth {
			continue
		}
		emitted += eng.checkEOLEnd(block, netID, layer, seg, rule, true, self)
		emitted += eng.checkEOLEnd(block, netID, layer, seg, rule, false, self)
	}
	return emitted
}

// checkEOLEnd checks the begin end (atBegin) or end end of seg against
// rule, by building the search box that extends EOLSpace past the
// endpoint along the segment's axis and EOLWithin to either side
// perpendicular to it.
func (eng *Engine) checkEOLEnd(block *design.Block, netID design.NetID, layer tech.Layer, seg design.PathSegment, rule tech.EOLRule, atBegin bool, self design.ShapeRef) int {
	p := seg.EP
	outward := 1
	if atBegin {
		p = seg.BP
		outward = -1
	}

	var search geom.Box
	if seg.Orient() == geom.Horizontal {
		xLo, xHi := p.X, p.X+rule.EOLSpace
		if outward < 0 {
			xLo, xHi = p.X-rule.EOLSpace, p.X
		}
		search = geom.Box{XL: xLo, YL: p.Y - rule.EOLWithin, XH: xHi, YH: p.Y + rule.EOLWithin}
	} else {
		yLo, yHi := p.Y, p.Y+rule.EOLSpace
		if outward < 0 {
			yLo, yHi = p.Y-rule.EOLSpace, p.Y
		}
		search = geom.Box{XL: p.X - rule.EOLWithin, YL: yLo, XH: p.X + rule.EOLWithin, YH: yHi}
	}

	emitted := 0
	for _, other := range eng.Index.QueryBox(layer.Num, search) {
		if other == self {
			continue
		}
		otherNet := block.Net(other.Net)
		otherShape, live := otherNet.Shape(other.Shape)
		if !live {
			continue
		}
		eng.Sink.Add(design.Marker{
			Box:           search.Intersection(otherShape.Box()),
			LayerNum:      layer.Num,
			ConstraintRef: "spacing.eol",
			Victims:       []design.ShapeRef{self},
			Aggressors:    []design.ShapeRef{other},
		})
		emitted++
	}
	return emitted
}
